// Copyright © 2024 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package adp5055

import (
	"fmt"

	"github.com/platinasystems/adp5055/internal/bitfield"
	"github.com/platinasystems/adp5055/internal/property"
)

const Compatible = "adi,adp5055"

// Property names
const (
	PropEnableMode      = "adi,enable-mode-code"
	PropOcpBlanking     = "adi,ocp-blanking"
	PropPowerSavingMode = "adi,power-saving-mode-ch321-code"
	PropOutputDischarge = "adi,output-discharge-function-ch321-code"
	PropDisableDelay    = "adi,disable-delay-code-ch123"
	PropEnableDelay     = "adi,enable-delay-code-ch123"
	PropDvsLimitUpper   = "adi,dvs-limit-upper-code-ch123"
	PropDvsLimitLower   = "adi,dvs-limit-lower-code-ch123"
	PropFastTransient   = "adi,fast-transient-code-ch123"
	PropDelayPowerGood  = "adi,delay-power-good"
	PropMaskPowerGood   = "adi,mask-power-good-ch321-code"
)

// Config is the power-up configuration of one device. The codes are
// opaque hardware values; Plan truncates any that overflow their field.
type Config struct {
	EnableMode      uint32
	OcpBlanking     bool
	PowerSavingMode uint32
	OutputDischarge uint32
	DisableDelay    [NumChannels]uint32
	EnableDelay     [NumChannels]uint32
	DvsLimitUpper   [NumChannels]uint32
	DvsLimitLower   [NumChannels]uint32
	FastTransient   [NumChannels]uint32
	DelayPowerGood  bool
	MaskPowerGood   uint32
}

// ConfigError is a property that is present but unusable.
type ConfigError struct {
	Name string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Name, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Defaults returns the hardware reset configuration.
func Defaults() Config {
	return Config{
		OutputDischarge: 7,
		FastTransient:   [NumChannels]uint32{3, 3, 3},
		DelayPowerGood:  true,
	}
}

// Resolve reads every property from src over the defaults. Absent
// properties keep their default. The first malformed property fails the
// whole resolution.
func Resolve(src property.Source) (Config, error) {
	c := Defaults()

	for _, p := range []struct {
		name string
		v    *uint32
	}{
		{PropEnableMode, &c.EnableMode},
		{PropPowerSavingMode, &c.PowerSavingMode},
		{PropOutputDischarge, &c.OutputDischarge},
		{PropMaskPowerGood, &c.MaskPowerGood},
	} {
		v, ok, err := src.Uint32(p.name)
		if err != nil {
			return Config{}, &ConfigError{p.name, err}
		}
		if ok {
			*p.v = v
		}
	}

	for _, p := range []struct {
		name string
		v    *[NumChannels]uint32
	}{
		{PropDisableDelay, &c.DisableDelay},
		{PropEnableDelay, &c.EnableDelay},
		{PropDvsLimitUpper, &c.DvsLimitUpper},
		{PropDvsLimitLower, &c.DvsLimitLower},
		{PropFastTransient, &c.FastTransient},
	} {
		v, ok, err := src.Uint32s(p.name, NumChannels)
		if err != nil {
			return Config{}, &ConfigError{p.name, err}
		}
		if ok {
			copy(p.v[:], v)
		}
	}

	for _, p := range []struct {
		name string
		v    *bool
	}{
		{PropOcpBlanking, &c.OcpBlanking},
		{PropDelayPowerGood, &c.DelayPowerGood},
	} {
		if v, ok := src.Bool(p.name); ok {
			*p.v = v
		}
	}

	return c, nil
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// Overflow is a code too wide for its field.
type Overflow struct {
	Name  string
	Field bitfield.Field
	V     uint32
}

func (o Overflow) String() string {
	return fmt.Sprintf("%s: %d overflows %d bit field, truncated to %d",
		o.Name, o.V, o.Field.Width, o.Field.Unpack(o.Field.Pack(o.V)))
}

// Overflows lists the codes that Plan will truncate.
func (c Config) Overflows() (ov []Overflow) {
	check := func(name string, f bitfield.Field, v uint32) {
		if !f.Fits(v) {
			ov = append(ov, Overflow{name, f, v})
		}
	}
	check(PropEnableMode, EnMode, c.EnableMode)
	check(PropPowerSavingMode, Psm321, c.PowerSavingMode)
	check(PropOutputDischarge, Dis321, c.OutputDischarge)
	check(PropMaskPowerGood, Pwrgd321, c.MaskPowerGood)
	for i := range Channels {
		idx := fmt.Sprintf("[%d]", i)
		check(PropDisableDelay+idx, DisDly, c.DisableDelay[i])
		check(PropEnableDelay+idx, EnDly, c.EnableDelay[i])
		check(PropDvsLimitUpper+idx, DvsLimUpper, c.DvsLimitUpper[i])
		check(PropDvsLimitLower+idx, DvsLimLower, c.DvsLimitLower[i])
		check(PropFastTransient+idx, FastTransient[i],
			c.FastTransient[i])
	}
	return
}
