// Copyright © 2024 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package adp5055

import (
	"github.com/platinasystems/adp5055/internal/bitfield"
	"github.com/platinasystems/adp5055/internal/linear"
	"github.com/platinasystems/adp5055/internal/regmap"
)

// Register map
const (
	Ctrl123   uint8 = 0xd1
	CtrlMode1 uint8 = 0xd3
	CtrlMode2 uint8 = 0xd4
	Dly0      uint8 = 0xd5
	Dly1      uint8 = 0xd6
	Dly2      uint8 = 0xd7
	Vid0      uint8 = 0xd8
	Vid1      uint8 = 0xd9
	Vid2      uint8 = 0xda
	DvsLim0   uint8 = 0xdc
	DvsLim1   uint8 = 0xdd
	DvsLim2   uint8 = 0xde
	FtCfg     uint8 = 0xdf
	PgCfg     uint8 = 0xe0
)

var (
	Dly    = [NumChannels]uint8{Dly0, Dly1, Dly2}
	Vid    = [NumChannels]uint8{Vid0, Vid1, Vid2}
	DvsLim = [NumChannels]uint8{DvsLim0, DvsLim1, DvsLim2}
)

// Fields
var (
	EnMode      = bitfield.Bits(1, 0)
	OcpBlanking = bitfield.Bit(7)
	Psm321      = bitfield.Bits(6, 4)
	Dis321      = bitfield.Bits(2, 0)
	DisDly      = bitfield.Bits(6, 4)
	EnDly       = bitfield.Bits(2, 0)
	DvsLimUpper = bitfield.Bits(7, 4)
	DvsLimLower = bitfield.Bits(3, 0)
	DlyPwrgd    = bitfield.Bit(4)
	Pwrgd321    = bitfield.Bits(2, 0)
	Vsel        = bitfield.Bits(7, 0)
)

// En is each rail's enable bit in Ctrl123.
var En = [NumChannels]bitfield.Field{
	bitfield.Bit(0),
	bitfield.Bit(1),
	bitfield.Bit(2),
}

// FastTransient is each rail's field in FtCfg.
var FastTransient = [NumChannels]bitfield.Field{
	bitfield.Bits(1, 0),
	bitfield.Bits(3, 2),
	bitfield.Bits(5, 4),
}

const (
	MinVout = 408000
	MaxVout = 790500
)

// VoutRange is the selector to µV map shared by all three rails.
var VoutRange = linear.Range{
	Min:    MinVout,
	MinSel: 0,
	MaxSel: 255,
	Step:   1500,
}

// Access is the device's readable and writeable register span.
var Access = &regmap.Table{
	Rd: []regmap.Range{{Lo: 0xd1, Hi: 0xe0}},
	Wr: []regmap.Range{{Lo: 0xd1, Hi: 0xe0}},
}
