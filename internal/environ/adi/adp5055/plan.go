// Copyright © 2024 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package adp5055

import (
	"fmt"

	"github.com/platinasystems/adp5055/internal/bitfield"
	"github.com/platinasystems/adp5055/internal/regmap"
)

// Write is one planned register write.
type Write struct {
	Reg   uint8
	Value uint8
}

func (w Write) String() string {
	return fmt.Sprintf("0x%02x <- 0x%02x", w.Reg, w.Value)
}

// layout is one configuration register and the fields merged into it.
type layout struct {
	reg    uint8
	fields func(*Config) []bitfield.Value
}

// initLayout is the power-up register sequence, in write order.
var initLayout = []layout{
	{CtrlMode1, func(c *Config) []bitfield.Value {
		return []bitfield.Value{
			{Field: EnMode, V: c.EnableMode},
		}
	}},
	{CtrlMode2, func(c *Config) []bitfield.Value {
		return []bitfield.Value{
			{Field: OcpBlanking, V: b2u(c.OcpBlanking)},
			{Field: Psm321, V: c.PowerSavingMode},
			{Field: Dis321, V: c.OutputDischarge},
		}
	}},
	dlyLayout(0),
	dlyLayout(1),
	dlyLayout(2),
	dvsLimLayout(0),
	dvsLimLayout(1),
	dvsLimLayout(2),
	{FtCfg, func(c *Config) []bitfield.Value {
		return []bitfield.Value{
			{Field: FastTransient[0], V: c.FastTransient[0]},
			{Field: FastTransient[1], V: c.FastTransient[1]},
			{Field: FastTransient[2], V: c.FastTransient[2]},
		}
	}},
	{PgCfg, func(c *Config) []bitfield.Value {
		return []bitfield.Value{
			{Field: DlyPwrgd, V: b2u(c.DelayPowerGood)},
			{Field: Pwrgd321, V: c.MaskPowerGood},
		}
	}},
}

func dlyLayout(ch Channel) layout {
	return layout{Dly[ch], func(c *Config) []bitfield.Value {
		return []bitfield.Value{
			{Field: DisDly, V: c.DisableDelay[ch]},
			{Field: EnDly, V: c.EnableDelay[ch]},
		}
	}}
}

func dvsLimLayout(ch Channel) layout {
	return layout{DvsLim[ch], func(c *Config) []bitfield.Value {
		return []bitfield.Value{
			{Field: DvsLimUpper, V: c.DvsLimitUpper[ch]},
			{Field: DvsLimLower, V: c.DvsLimitLower[ch]},
		}
	}}
}

// Plan returns the register writes that program c, in order.
func (c Config) Plan() []Write {
	ws := make([]Write, 0, len(initLayout))
	for _, l := range initLayout {
		ws = append(ws, Write{l.reg, bitfield.Merge(l.fields(&c)...)})
	}
	return ws
}

// Apply issues ws in order and stops at the first failure. Registers
// written before the failure are left as written.
func Apply(m regmap.Map, ws []Write) error {
	for i, w := range ws {
		if err := m.Write(w.Reg, w.Value); err != nil {
			return fmt.Errorf("init write %d of %d: %w", i+1, len(ws),
				err)
		}
	}
	return nil
}

// Init programs the power-up configuration.
func Init(m regmap.Map, c Config) error {
	return Apply(m, c.Plan())
}
