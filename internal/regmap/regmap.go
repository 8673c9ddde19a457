// Copyright © 2024 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package regmap provides 8-bit register access to an 8-bit addressed
// device.
package regmap

import (
	"errors"
	"fmt"
)

var ErrAccess = errors.New("register not accessible")

// Map reads and writes single byte registers.
type Map interface {
	Read(reg uint8) (uint8, error)
	Write(reg, v uint8) error
}

// TransportError is a failed bus transaction; Err is the bus cause.
type TransportError struct {
	Op  string
	Reg uint8
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s 0x%02x: %v", e.Op, e.Reg, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Range is an inclusive span of register addresses.
type Range struct{ Lo, Hi uint8 }

func (r Range) Contains(reg uint8) bool { return reg >= r.Lo && reg <= r.Hi }

// Table lists the registers that may be read and written.
type Table struct {
	Rd []Range
	Wr []Range
}

func contains(rs []Range, reg uint8) bool {
	for _, r := range rs {
		if r.Contains(reg) {
			return true
		}
	}
	return false
}

func (t *Table) Readable(reg uint8) bool  { return contains(t.Rd, reg) }
func (t *Table) Writeable(reg uint8) bool { return contains(t.Wr, reg) }

// Checked refuses accesses outside Table before they reach Map.
type Checked struct {
	Map
	*Table
}

func (c Checked) Read(reg uint8) (uint8, error) {
	if !c.Readable(reg) {
		return 0, &TransportError{"read", reg, ErrAccess}
	}
	return c.Map.Read(reg)
}

func (c Checked) Write(reg, v uint8) error {
	if !c.Writeable(reg) {
		return &TransportError{"write", reg, ErrAccess}
	}
	return c.Map.Write(reg, v)
}

// UpdateBits is a read, then a write of the register with the mask bits
// replaced by val.
func UpdateBits(m Map, reg, mask, val uint8) error {
	v, err := m.Read(reg)
	if err != nil {
		return err
	}
	return m.Write(reg, (v&^mask)|(val&mask))
}
