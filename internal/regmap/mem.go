// Copyright © 2024 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package regmap

import (
	"errors"
	"fmt"
	"io"
)

var ErrInjected = errors.New("injected fault")

// Access is one logged Mem transaction.
type Access struct {
	Write bool
	Reg   uint8
	V     uint8
}

func (a Access) String() string {
	if a.Write {
		return fmt.Sprintf("w 0x%02x 0x%02x", a.Reg, a.V)
	}
	return fmt.Sprintf("r 0x%02x 0x%02x", a.Reg, a.V)
}

// Mem is a register file in memory. It logs every transaction and can fail
// the Nth write (1-based) or every access to one register.
type Mem struct {
	Regs [256]uint8
	Log  []Access

	// FailWrite fails the write with this 1-based sequence number.
	FailWrite int
	// FailReg fails any access to this register when FailRegSet.
	FailReg    uint8
	FailRegSet bool

	// Trace, if set, receives a line for each access.
	Trace io.Writer

	writes int
}

func (m *Mem) trace(a Access) {
	m.Log = append(m.Log, a)
	if m.Trace != nil {
		fmt.Fprintln(m.Trace, a)
	}
}

func (m *Mem) Read(reg uint8) (uint8, error) {
	if m.FailRegSet && reg == m.FailReg {
		return 0, &TransportError{"read", reg, ErrInjected}
	}
	a := Access{Reg: reg, V: m.Regs[reg]}
	m.trace(a)
	return a.V, nil
}

func (m *Mem) Write(reg, v uint8) error {
	m.writes++
	if m.writes == m.FailWrite || (m.FailRegSet && reg == m.FailReg) {
		return &TransportError{"write", reg, ErrInjected}
	}
	m.Regs[reg] = v
	m.trace(Access{Write: true, Reg: reg, V: v})
	return nil
}

// Writes returns the logged writes in order.
func (m *Mem) Writes() (ws []Access) {
	for _, a := range m.Log {
		if a.Write {
			ws = append(ws, a)
		}
	}
	return
}
