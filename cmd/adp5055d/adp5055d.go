// Copyright © 2024 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package adp5055d programs the ADP5055 at start and then serves its rails
// through redis.
package adp5055d

import (
	"fmt"
	"io"
	"net/rpc"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jpillora/backoff"
	"github.com/platinasystems/adp5055/cmd"
	"github.com/platinasystems/adp5055/internal/environ/adi/adp5055"
	"github.com/platinasystems/adp5055/internal/machine"
	"github.com/platinasystems/adp5055/internal/property"
	"github.com/platinasystems/adp5055/internal/regmap"
	"github.com/platinasystems/adp5055/lang"
	"github.com/platinasystems/atsock"
	"github.com/platinasystems/log"
	"github.com/platinasystems/redis"
	"github.com/platinasystems/redis/publisher"
	"github.com/platinasystems/redis/rpc/args"
	"github.com/platinasystems/redis/rpc/reply"
)

const (
	Name   = "adp5055d"
	Prefix = "adp5055."
)

// Field suffixes of each rail
const (
	FieldEnabled = "enabled"
	FieldVsel    = "vsel"
	FieldVout    = "vout.units.uV"
)

// readyAttempts bounds the wait for redis.
const readyAttempts = 8

var isReady = redis.IsReady

type Command struct {
	Info
}

type printer interface {
	Print(...interface{}) (int, error)
}

type Info struct {
	mutex sync.Mutex
	rpc   *atsock.RpcServer
	pub   printer
	stop  chan struct{}
	rails []*adp5055.Regulator
	last  map[string]string
}

func (*Command) String() string { return Name }

func (*Command) Usage() string { return Name }

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "ADP5055 triple buck regulator daemon",
	}
}

func (*Command) Kind() cmd.Kind { return cmd.Daemon }

func (c *Command) Main(...string) error {
	stop := c.stopChan()

	mc, err := machine.Load()
	if err != nil {
		return err
	}
	src, err := mc.Source()
	if err != nil {
		return err
	}
	m := mc.Map()

	err = start(mc, m, src, isReady, &backoff.Backoff{
		Min:    1 * time.Second,
		Max:    30 * time.Second,
		Factor: 2,
		Jitter: false,
	}, stop)
	if err != nil {
		return err
	}

	pub, err := publisher.New()
	if err != nil {
		return err
	}
	c.mutex.Lock()
	c.Info.setup(m, pub)
	c.mutex.Unlock()

	srvr, err := atsock.NewRpcServer(Name)
	if err != nil {
		return err
	}
	c.mutex.Lock()
	c.rpc = srvr
	c.mutex.Unlock()

	rpc.Register(&c.Info)
	if err = redis.Assign(assignKey(), Name, "Info"); err != nil {
		return err
	}

	if err = c.update(); err != nil {
		log.Print("err", "update: ", err)
	}

	t := time.NewTicker(mc.Poll)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return nil
		case <-t.C:
			if err = c.update(); err != nil {
				log.Print("err", "update: ", err)
			}
		}
	}
}

// Close may run before or during Main; either way Main returns.
func (c *Command) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.stop == nil {
		c.stop = make(chan struct{})
	}
	select {
	case <-c.stop:
		return nil
	default:
		close(c.stop)
	}
	if c.rpc != nil {
		c.rpc.Close()
	}
	if cl, ok := c.pub.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

func (c *Command) stopChan() chan struct{} {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.stop == nil {
		c.stop = make(chan struct{})
	}
	return c.stop
}

// start programs the device, then waits for the machine's redis. The
// regulator is configured even if redis never comes up.
func start(mc machine.Config, m regmap.Map, src property.Source,
	ready func() error, b *backoff.Backoff, stop <-chan struct{}) error {
	log.Print("info", "programming ", mc)
	if err := bringUp(m, src); err != nil {
		log.Print("err", err)
		return err
	}
	redis.DefaultHash = mc.Hash
	return waitReady(ready, b, readyAttempts, stop)
}

func assignKey() string { return redis.DefaultHash + ":" + Prefix }

// waitReady retries ready with backoff until it succeeds, attempts run
// out, or stop closes.
func waitReady(ready func() error, b *backoff.Backoff, attempts int,
	stop <-chan struct{}) error {
	for {
		err := ready()
		if err == nil {
			b.Reset()
			return nil
		}
		if int(b.Attempt())+1 >= attempts {
			return fmt.Errorf("redis: %w", err)
		}
		d := b.Duration()
		log.Print("warn", "redis not ready, retry in ", d, ": ", err)
		select {
		case <-stop:
			return err
		case <-time.After(d):
		}
	}
}

// bringUp resolves the power-up configuration and writes it to m. Any
// failure leaves the device partially programmed and must stop the
// daemon.
func bringUp(m regmap.Map, src property.Source) error {
	cfg, err := adp5055.Resolve(src)
	if err != nil {
		return err
	}
	for _, o := range cfg.Overflows() {
		log.Print("warn", o)
	}
	return adp5055.Init(m, cfg)
}

func (i *Info) setup(m regmap.Map, pub printer) {
	i.pub = pub
	i.rails = adp5055.All(m)
	i.last = make(map[string]string)
}

func key(ch adp5055.Channel, field string) string {
	return Prefix + ch.String() + "." + field
}

func (i *Info) update() error {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	return i.publishAll()
}

func (i *Info) publishAll() error {
	for _, r := range i.rails {
		s, err := r.Status()
		if err != nil {
			return fmt.Errorf("%s: %w", r.Name(), err)
		}
		i.publish(key(s.Channel, FieldEnabled), strconv.FormatBool(s.Enabled))
		i.publish(key(s.Channel, FieldVsel), strconv.Itoa(int(s.Sel)))
		i.publish(key(s.Channel, FieldVout),
			strconv.FormatUint(uint64(s.UV), 10))
	}
	return nil
}

func (i *Info) publish(k, v string) {
	if v != i.last[k] {
		i.pub.Print(k, ": ", v)
		i.last[k] = v
	}
}

// parseField splits adp5055.DCDCn.FIELD.
func parseField(s string) (adp5055.Channel, string, error) {
	t := strings.TrimPrefix(s, Prefix)
	if t == s {
		return 0, "", fmt.Errorf("cannot hset: %s", s)
	}
	dot := strings.IndexByte(t, '.')
	if dot < 0 {
		return 0, "", fmt.Errorf("cannot hset: %s", s)
	}
	ch, err := adp5055.ParseChannel(t[:dot])
	if err != nil {
		return 0, "", fmt.Errorf("cannot hset: %s: %w", s, err)
	}
	return ch, t[dot+1:], nil
}

func (i *Info) Hset(args args.Hset, reply *reply.Hset) error {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	ch, field, err := parseField(args.Field)
	if err != nil {
		return err
	}
	r := i.rails[ch]
	v := strings.TrimRight(string(args.Value), "\n")

	switch field {
	case FieldEnabled:
		on, perr := strconv.ParseBool(v)
		if perr != nil {
			return fmt.Errorf("%s: %q: not true or false", args.Field, v)
		}
		if on {
			err = r.Enable()
		} else {
			err = r.Disable()
		}
	case FieldVsel:
		sel, perr := strconv.ParseUint(v, 0, 8)
		if perr != nil {
			return fmt.Errorf("%s: %q: not 0..255", args.Field, v)
		}
		err = r.SetVoltageSel(uint8(sel))
	case FieldVout:
		uV, perr := strconv.ParseUint(v, 10, 32)
		if perr != nil {
			return fmt.Errorf("%s: %q: invalid", args.Field, v)
		}
		err = r.SetVoltage(uint32(uV))
	default:
		return fmt.Errorf("cannot hset: %s", args.Field)
	}
	if err != nil {
		log.Print("err", args.Field, ": ", err)
		return fmt.Errorf("%s: %w", args.Field, err)
	}
	*reply = 1
	return i.publishAll()
}
