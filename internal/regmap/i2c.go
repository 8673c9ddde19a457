// Copyright © 2024 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package regmap

import (
	"sync"

	"github.com/platinasystems/i2c"
)

// I2cDev is a SMBus byte-data device at Addr on /dev/i2c-Bus.
//
// Every transaction opens the bus, forces the slave address, transfers one
// byte and closes the bus again. The mutex serializes transactions issued
// through the same I2cDev.
type I2cDev struct {
	Bus  int
	Addr int

	mutex sync.Mutex
}

func (h *I2cDev) i2cDo(rw i2c.RW, reg uint8, data *i2c.SMBusData) (err error) {
	var bus i2c.Bus

	h.mutex.Lock()
	defer h.mutex.Unlock()

	err = bus.Open(h.Bus)
	if err != nil {
		return
	}
	defer bus.Close()

	err = bus.ForceSlaveAddress(h.Addr)
	if err != nil {
		return
	}

	return bus.Do(rw, reg, i2c.ByteData, data)
}

func (h *I2cDev) Read(reg uint8) (uint8, error) {
	var data i2c.SMBusData
	if err := h.i2cDo(i2c.Read, reg, &data); err != nil {
		return 0, &TransportError{"read", reg, err}
	}
	return data[0], nil
}

func (h *I2cDev) Write(reg, v uint8) error {
	var data i2c.SMBusData
	data[0] = v
	if err := h.i2cDo(i2c.Write, reg, &data); err != nil {
		return &TransportError{"write", reg, err}
	}
	return nil
}
