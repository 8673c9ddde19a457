// Copyright © 2024 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package bitfield packs and unpacks integer codes into bit ranges of an
// 8-bit register.
//
// Values wider than the field are truncated, never rejected; callers that
// care use Fits before packing.
package bitfield

import "fmt"

// Field is a contiguous run of Width bits starting at bit Shift.
type Field struct {
	Width uint8
	Shift uint8
}

// Bit is the single bit field at n.
func Bit(n uint8) Field { return Field{Width: 1, Shift: n} }

// Bits is the field spanning hi down to lo inclusive, e.g. Bits(6, 4).
func Bits(hi, lo uint8) Field {
	if hi < lo {
		hi, lo = lo, hi
	}
	return Field{Width: hi - lo + 1, Shift: lo}
}

func (f Field) max() uint32 { return (uint32(1) << f.Width) - 1 }

// Mask is the field's bits in register position.
func (f Field) Mask() byte { return byte(f.max() << f.Shift) }

// Fits reports whether v is representable in the field.
func (f Field) Fits(v uint32) bool { return v <= f.max() }

// Pack returns v masked to Width and moved to Shift.
func (f Field) Pack(v uint32) byte { return byte((v & f.max()) << f.Shift) }

// Unpack extracts the field from a register byte.
func (f Field) Unpack(b byte) uint32 { return (uint32(b) >> f.Shift) & f.max() }

// Replace returns b with the field set to v and all other bits untouched.
func (f Field) Replace(b byte, v uint32) byte {
	return (b &^ f.Mask()) | f.Pack(v)
}

func (f Field) String() string {
	if f.Width == 1 {
		return fmt.Sprintf("[%d]", f.Shift)
	}
	return fmt.Sprintf("[%d:%d]", f.Shift+f.Width-1, f.Shift)
}

// Pack is the free function form of Field.Pack.
func Pack(v uint32, width, shift uint8) byte {
	return Field{Width: width, Shift: shift}.Pack(v)
}

// Unpack is the free function form of Field.Unpack.
func Unpack(b byte, width, shift uint8) uint32 {
	return Field{Width: width, Shift: shift}.Unpack(b)
}

// Value is a code bound to the field it is packed into.
type Value struct {
	Field
	V uint32
}

// Merge ORs the packed contributions of every value into one register byte.
// Overlapping fields are the caller's mistake and simply OR together.
func Merge(vs ...Value) (b byte) {
	for _, v := range vs {
		b |= v.Pack(v.V)
	}
	return
}
