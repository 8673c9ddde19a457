// Copyright © 2024 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package machine loads the board wiring of the regulator: which bus and
// address it sits at and where its power-up properties come from.
package machine

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/platinasystems/adp5055/internal/environ/adi/adp5055"
	"github.com/platinasystems/adp5055/internal/property"
	"github.com/platinasystems/adp5055/internal/regmap"
)

const EnvFile = "/etc/goes/adp5055.env"

// Environment variables
const (
	EnvBus  = "ADP5055_BUS"
	EnvAddr = "ADP5055_ADDR"
	EnvDtb  = "ADP5055_DTB"
	EnvYaml = "ADP5055_YAML"
	EnvPoll = "ADP5055_POLL"
	EnvHash = "ADP5055_HASH"
)

const (
	DefaultBus  = 0
	DefaultAddr = 0x70
	DefaultPoll = 5 * time.Second
	DefaultHash = "adp5055"
)

type Config struct {
	Bus  int
	Addr int
	Dtb  string
	Yaml string
	Poll time.Duration
	// Hash is the redis hash of the machine.
	Hash string
}

func Defaults() Config {
	return Config{
		Bus:  DefaultBus,
		Addr: DefaultAddr,
		Dtb:  property.DefaultDtb,
		Poll: DefaultPoll,
		Hash: DefaultHash,
	}
}

// Load reads the given env files, EnvFile if none, into the process
// environment then returns the wiring it describes. Missing files are
// skipped; variables already in the environment win.
func Load(fns ...string) (Config, error) {
	if len(fns) == 0 {
		fns = []string{EnvFile}
	}
	for _, fn := range fns {
		if err := godotenv.Load(fn); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%s: %w", fn, err)
		}
	}
	return FromEnv()
}

// FromEnv returns Defaults overridden by the ADP5055_* variables.
func FromEnv() (Config, error) {
	c := Defaults()
	if s := os.Getenv(EnvBus); len(s) > 0 {
		if err := c.SetBus(s); err != nil {
			return Config{}, err
		}
	}
	if s := os.Getenv(EnvAddr); len(s) > 0 {
		if err := c.SetAddr(s); err != nil {
			return Config{}, err
		}
	}
	if s := os.Getenv(EnvDtb); len(s) > 0 {
		c.Dtb = s
	}
	if s := os.Getenv(EnvYaml); len(s) > 0 {
		c.Yaml = s
	}
	if s := os.Getenv(EnvPoll); len(s) > 0 {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("%s: %q: invalid", EnvPoll, s)
		}
		c.Poll = d
	}
	if s := os.Getenv(EnvHash); len(s) > 0 {
		c.Hash = s
	}
	return c, nil
}

func (c *Config) SetBus(s string) error {
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return fmt.Errorf("bus %q: invalid", s)
	}
	c.Bus = int(n)
	return nil
}

// SetAddr accepts a 7-bit address in any Go integer base.
func (c *Config) SetAddr(s string) error {
	n, err := strconv.ParseUint(s, 0, 7)
	if err != nil {
		return fmt.Errorf("addr %q: invalid", s)
	}
	c.Addr = int(n)
	return nil
}

// Source returns the property source named by c. A YAML file takes
// precedence over the device tree.
func (c Config) Source() (property.Source, error) {
	if len(c.Yaml) > 0 {
		return property.FromYAML(c.Yaml)
	}
	return property.FromDtb(c.Dtb, adp5055.Compatible)
}

// Map returns the device's register map, limited to its access table.
func (c Config) Map() regmap.Map {
	return regmap.Checked{
		Map:   &regmap.I2cDev{Bus: c.Bus, Addr: c.Addr},
		Table: adp5055.Access,
	}
}

func (c Config) String() string {
	src := "dtb " + c.Dtb
	if len(c.Yaml) > 0 {
		src = "yaml " + c.Yaml
	}
	return fmt.Sprintf("i2c %d.%#02x, %s", c.Bus, c.Addr, src)
}
