// Copyright © 2024 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package adp5055 provides access to the ADP5055 triple buck regulator.
//
// Resolve reads the power-up configuration from device properties; Init
// writes it to the chip. A Regulator then controls one of the three rails
// through the shared enable register and the rail's voltage ID register.
package adp5055

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/platinasystems/adp5055/internal/regmap"
)

const NumChannels = 3

// Channel is a rail index, 0 through 2.
type Channel uint8

var Channels = [NumChannels]Channel{0, 1, 2}

func (ch Channel) String() string { return "DCDC" + strconv.Itoa(int(ch)+1) }

func (ch Channel) valid() bool { return ch < NumChannels }

// ParseChannel accepts 1..3 or DCDC1..DCDC3.
func ParseChannel(s string) (Channel, error) {
	t := strings.TrimPrefix(strings.ToUpper(s), "DCDC")
	n, err := strconv.Atoi(t)
	if err != nil || n < 1 || n > NumChannels {
		return 0, fmt.Errorf("%s: invalid rail", s)
	}
	return Channel(n - 1), nil
}

// Regulator is one rail of a device.
type Regulator struct {
	regmap.Map
	Channel
}

// New returns the rail ch of the device behind m.
func New(m regmap.Map, ch Channel) (*Regulator, error) {
	if !ch.valid() {
		return nil, fmt.Errorf("channel %d: invalid", ch)
	}
	return &Regulator{Map: m, Channel: ch}, nil
}

// All returns every rail of the device behind m.
func All(m regmap.Map) []*Regulator {
	rs := make([]*Regulator, 0, NumChannels)
	for _, ch := range Channels {
		rs = append(rs, &Regulator{Map: m, Channel: ch})
	}
	return rs
}

func (r *Regulator) Name() string { return r.Channel.String() }

func (r *Regulator) Enable() error {
	f := En[r.Channel]
	return regmap.UpdateBits(r.Map, Ctrl123, f.Mask(), f.Pack(1))
}

func (r *Regulator) Disable() error {
	f := En[r.Channel]
	return regmap.UpdateBits(r.Map, Ctrl123, f.Mask(), f.Pack(0))
}

func (r *Regulator) IsEnabled() (bool, error) {
	v, err := r.Read(Ctrl123)
	if err != nil {
		return false, err
	}
	return En[r.Channel].Unpack(v) != 0, nil
}

func (r *Regulator) ListVoltage(sel uint8) (uint32, error) {
	return VoutRange.ListVoltage(uint32(sel))
}

// MapVoltage returns the lowest selector at or above uV.
func (r *Regulator) MapVoltage(uV uint32) (uint8, error) {
	sel, err := VoutRange.MapVoltage(uV)
	return uint8(sel), err
}

func (r *Regulator) GetVoltageSel() (uint8, error) {
	v, err := r.Read(Vid[r.Channel])
	if err != nil {
		return 0, err
	}
	return uint8(Vsel.Unpack(v)), nil
}

func (r *Regulator) SetVoltageSel(sel uint8) error {
	return r.Write(Vid[r.Channel], Vsel.Pack(uint32(sel)))
}

func (r *Regulator) GetVoltage() (uint32, error) {
	sel, err := r.GetVoltageSel()
	if err != nil {
		return 0, err
	}
	return r.ListVoltage(sel)
}

// SetVoltage selects the lowest step at or above uV.
func (r *Regulator) SetVoltage(uV uint32) error {
	sel, err := r.MapVoltage(uV)
	if err != nil {
		return err
	}
	return r.SetVoltageSel(sel)
}

// Status is a snapshot of a rail.
type Status struct {
	Channel
	Enabled bool
	Sel     uint8
	UV      uint32
}

func (s Status) String() string {
	return fmt.Sprintf("%s: enabled %t vsel 0x%02x vout %d uV",
		s.Channel, s.Enabled, s.Sel, s.UV)
}

func (r *Regulator) Status() (s Status, err error) {
	s.Channel = r.Channel
	if s.Enabled, err = r.IsEnabled(); err != nil {
		return
	}
	if s.Sel, err = r.GetVoltageSel(); err != nil {
		return
	}
	s.UV, err = r.ListVoltage(s.Sel)
	return
}
