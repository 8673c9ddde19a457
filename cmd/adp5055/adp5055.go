// Copyright © 2024 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package adp5055 is the command line interface to the ADP5055 regulator.
package adp5055

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/platinasystems/adp5055/internal/environ/adi/adp5055"
	"github.com/platinasystems/adp5055/internal/machine"
	"github.com/platinasystems/adp5055/internal/property"
	"github.com/platinasystems/adp5055/internal/regmap"
	"github.com/platinasystems/adp5055/lang"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/parms"
)

type Command struct {
	// Load, Source and Dial default to the machine wiring.
	Load   func() (machine.Config, error)
	Source func(machine.Config) (property.Source, error)
	Dial   func(machine.Config) regmap.Map
	Stdout io.Writer
}

func (*Command) String() string { return "adp5055" }

func (*Command) Usage() string {
	return `
	adp5055 [-n] [-v] [-bus=N] [-addr=ADDR] [-dtb=FILE|-yaml=FILE] plan
	adp5055 [OPTION]... init
	adp5055 [OPTION]... show
	adp5055 [OPTION]... {enable|disable} RAIL
	adp5055 [OPTION]... vsel RAIL [CODE]
	adp5055 [OPTION]... vout RAIL [MICROVOLTS]`
}

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "configure and control the ADP5055 regulator",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	plan	print the power-up register writes without touching the bus
	init	write the power-up configuration
	show	print each rail's enable, voltage selector and output
	enable, disable
		turn a rail on or off
	vsel	get or set a rail's voltage selector, 0 through 255
	vout	get or set a rail's output in microvolts; a request between
		steps selects the next step up

	RAIL is 1, 2, 3 or DCDC1, DCDC2, DCDC3.

OPTIONS
	-n	dry run against an in-memory register file
	-v	trace each register access
	-bus, -addr
		I2C bus and 7-bit address (default from /etc/goes/adp5055.env)
	-dtb	device tree blob with the "adi,adp5055" node
	-yaml	YAML property file, instead of the device tree`,
	}
}

func (c *Command) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

func (c *Command) Main(args ...string) error {
	flag, args := flags.New(args, "-n", "-v")
	parm, args := parms.New(args, "-bus", "-addr", "-dtb", "-yaml")

	if len(args) == 0 {
		return fmt.Errorf("COMMAND: missing")
	}

	load := c.Load
	if load == nil {
		load = func() (machine.Config, error) { return machine.Load() }
	}
	mc, err := load()
	if err != nil {
		return err
	}
	if s := parm.ByName["-bus"]; len(s) > 0 {
		if err = mc.SetBus(s); err != nil {
			return err
		}
	}
	if s := parm.ByName["-addr"]; len(s) > 0 {
		if err = mc.SetAddr(s); err != nil {
			return err
		}
	}
	if s := parm.ByName["-dtb"]; len(s) > 0 {
		mc.Dtb = s
		mc.Yaml = ""
	}
	if s := parm.ByName["-yaml"]; len(s) > 0 {
		mc.Yaml = s
	}

	w := c.stdout()
	var m regmap.Map
	var dry *regmap.Mem
	if flag.ByName["-n"] {
		dry = new(regmap.Mem)
		m = regmap.Checked{Map: dry, Table: adp5055.Access}
	} else if c.Dial != nil {
		m = c.Dial(mc)
	} else {
		m = mc.Map()
	}
	if flag.ByName["-v"] {
		fmt.Fprintln(w, mc)
		m = &traced{m, w}
	}

	switch name, args := args[0], args[1:]; name {
	case "plan":
		return c.plan(w, mc, args)
	case "init":
		if err = c.init(w, m, mc, args); err != nil {
			return err
		}
		if dry != nil && !flag.ByName["-v"] {
			for _, a := range dry.Writes() {
				fmt.Fprintln(w, a)
			}
		}
		return nil
	case "show":
		return show(w, m, args)
	case "enable", "disable":
		r, args, err := rail(m, args)
		if err != nil {
			return err
		}
		if len(args) > 0 {
			return fmt.Errorf("%v: unexpected", args)
		}
		if name == "enable" {
			return r.Enable()
		}
		return r.Disable()
	case "vsel":
		return vsel(w, m, args)
	case "vout":
		return vout(w, m, args)
	default:
		return fmt.Errorf("%s: unknown", name)
	}
}

func (c *Command) config(w io.Writer, mc machine.Config) (adp5055.Config,
	error) {
	source := c.Source
	if source == nil {
		source = machine.Config.Source
	}
	src, err := source(mc)
	if err != nil {
		return adp5055.Config{}, err
	}
	cfg, err := adp5055.Resolve(src)
	if err != nil {
		return adp5055.Config{}, err
	}
	for _, o := range cfg.Overflows() {
		fmt.Fprintln(w, "warning:", o)
	}
	return cfg, nil
}

func (c *Command) plan(w io.Writer, mc machine.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	cfg, err := c.config(w, mc)
	if err != nil {
		return err
	}
	for _, x := range cfg.Plan() {
		fmt.Fprintln(w, x)
	}
	return nil
}

func (c *Command) init(w io.Writer, m regmap.Map, mc machine.Config,
	args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	cfg, err := c.config(w, mc)
	if err != nil {
		return err
	}
	return adp5055.Init(m, cfg)
}

func show(w io.Writer, m regmap.Map, args []string) error {
	rs := adp5055.All(m)
	if len(args) > 0 {
		r, rest, err := rail(m, args)
		if err != nil {
			return err
		}
		if len(rest) > 0 {
			return fmt.Errorf("%v: unexpected", rest)
		}
		rs = []*adp5055.Regulator{r}
	}
	for _, r := range rs {
		s, err := r.Status()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, s)
	}
	return nil
}

func rail(m regmap.Map, args []string) (*adp5055.Regulator, []string,
	error) {
	if len(args) == 0 {
		return nil, nil, fmt.Errorf("RAIL: missing")
	}
	ch, err := adp5055.ParseChannel(args[0])
	if err != nil {
		return nil, nil, err
	}
	r, err := adp5055.New(m, ch)
	return r, args[1:], err
}

func vsel(w io.Writer, m regmap.Map, args []string) error {
	r, args, err := rail(m, args)
	if err != nil {
		return err
	}
	switch len(args) {
	case 0:
		sel, err := r.GetVoltageSel()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, sel)
		return nil
	case 1:
		sel, err := strconv.ParseUint(args[0], 0, 8)
		if err != nil {
			return fmt.Errorf("CODE: %q: not 0..255", args[0])
		}
		return r.SetVoltageSel(uint8(sel))
	default:
		return fmt.Errorf("%v: unexpected", args[1:])
	}
}

func vout(w io.Writer, m regmap.Map, args []string) error {
	r, args, err := rail(m, args)
	if err != nil {
		return err
	}
	switch len(args) {
	case 0:
		uV, err := r.GetVoltage()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, uV)
		return nil
	case 1:
		uV, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("MICROVOLTS: %q: invalid", args[0])
		}
		return r.SetVoltage(uint32(uV))
	default:
		return fmt.Errorf("%v: unexpected", args[1:])
	}
}

// traced prints each access to w.
type traced struct {
	regmap.Map
	w io.Writer
}

func (t *traced) Read(reg uint8) (uint8, error) {
	v, err := t.Map.Read(reg)
	if err == nil {
		fmt.Fprintln(t.w, regmap.Access{Reg: reg, V: v})
	}
	return v, err
}

func (t *traced) Write(reg, v uint8) error {
	err := t.Map.Write(reg, v)
	if err == nil {
		fmt.Fprintln(t.w, regmap.Access{Write: true, Reg: reg, V: v})
	}
	return err
}
