// Copyright © 2024 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package linear maps regulator selector codes to microvolts over one
// linear segment.
package linear

import (
	"errors"
	"fmt"
)

var ErrOutOfRange = errors.New("out of range")

// Range is Min µV at selector MinSel, rising Step µV per selector up to
// MaxSel.
type Range struct {
	Min    uint32
	MinSel uint32
	MaxSel uint32
	Step   uint32
}

// N is the number of selectors in the range.
func (r Range) N() uint32 { return r.MaxSel - r.MinSel + 1 }

// Max is the voltage of MaxSel.
func (r Range) Max() uint32 { return r.Min + (r.MaxSel-r.MinSel)*r.Step }

// ListVoltage returns the µV of a selector.
func (r Range) ListVoltage(sel uint32) (uint32, error) {
	if sel < r.MinSel || sel > r.MaxSel {
		return 0, fmt.Errorf("selector %d: %w [%d, %d]",
			sel, ErrOutOfRange, r.MinSel, r.MaxSel)
	}
	return r.Min + (sel-r.MinSel)*r.Step, nil
}

// MapVoltage returns the lowest selector whose voltage is at or above uV.
func (r Range) MapVoltage(uV uint32) (uint32, error) {
	if uV < r.Min || uV > r.Max() {
		return 0, fmt.Errorf("%d µV: %w [%d, %d]",
			uV, ErrOutOfRange, r.Min, r.Max())
	}
	sel := r.MinSel
	if r.Step > 0 {
		sel += (uV - r.Min + r.Step - 1) / r.Step
	}
	if sel > r.MaxSel {
		sel = r.MaxSel
	}
	return sel, nil
}

// MapVoltageWindow returns the lowest selector whose voltage lies within
// [minUV, maxUV]. Requests that start below Min select MinSel.
func (r Range) MapVoltageWindow(minUV, maxUV uint32) (uint32, error) {
	if minUV > maxUV {
		return 0, fmt.Errorf("window [%d, %d] µV: %w", minUV, maxUV,
			ErrOutOfRange)
	}
	if minUV < r.Min {
		minUV = r.Min
	}
	sel, err := r.MapVoltage(minUV)
	if err != nil {
		return 0, err
	}
	uV, _ := r.ListVoltage(sel)
	if uV > maxUV {
		return 0, fmt.Errorf("window [%d, %d] µV: %w", minUV, maxUV,
			ErrOutOfRange)
	}
	return sel, nil
}
