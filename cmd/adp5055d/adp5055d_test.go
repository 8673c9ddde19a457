// Copyright © 2024 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package adp5055d

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jpillora/backoff"
	"github.com/platinasystems/adp5055/internal/environ/adi/adp5055"
	"github.com/platinasystems/adp5055/internal/linear"
	"github.com/platinasystems/adp5055/internal/machine"
	"github.com/platinasystems/adp5055/internal/property"
	"github.com/platinasystems/adp5055/internal/regmap"
	"github.com/platinasystems/redis"
	"github.com/platinasystems/redis/rpc/args"
	"github.com/platinasystems/redis/rpc/reply"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lines []string

func (p *lines) Print(a ...interface{}) (int, error) {
	s := fmt.Sprint(a...)
	*p = append(*p, s)
	return len(s), nil
}

func newInfo(m regmap.Map) (*Info, *lines) {
	pub := new(lines)
	i := new(Info)
	i.setup(m, pub)
	return i, pub
}

func TestPublishChanged(t *testing.T) {
	mem := new(regmap.Mem)
	mem.Regs[adp5055.Ctrl123] = 0b010
	mem.Regs[adp5055.Vid1] = 128
	i, pub := newInfo(mem)

	require.NoError(t, i.update())
	assert.Equal(t, lines{
		"adp5055.DCDC1.enabled: false",
		"adp5055.DCDC1.vsel: 0",
		"adp5055.DCDC1.vout.units.uV: 408000",
		"adp5055.DCDC2.enabled: true",
		"adp5055.DCDC2.vsel: 128",
		"adp5055.DCDC2.vout.units.uV: 600000",
		"adp5055.DCDC3.enabled: false",
		"adp5055.DCDC3.vsel: 0",
		"adp5055.DCDC3.vout.units.uV: 408000",
	}, *pub)

	*pub = nil
	require.NoError(t, i.update())
	assert.Empty(t, *pub)

	mem.Regs[adp5055.Vid2] = 255
	require.NoError(t, i.update())
	assert.Equal(t, lines{
		"adp5055.DCDC3.vsel: 255",
		"adp5055.DCDC3.vout.units.uV: 790500",
	}, *pub)
}

func TestUpdateError(t *testing.T) {
	mem := &regmap.Mem{FailReg: adp5055.Ctrl123, FailRegSet: true}
	i, _ := newInfo(mem)
	err := i.update()
	assert.ErrorIs(t, err, regmap.ErrInjected)
	assert.Contains(t, err.Error(), "DCDC1")
}

func hset(i *Info, field, value string) (reply.Hset, error) {
	var r reply.Hset
	err := i.Hset(args.Hset{
		Key:   "platina",
		Field: field,
		Value: []byte(value),
	}, &r)
	return r, err
}

func TestHsetEnabled(t *testing.T) {
	mem := new(regmap.Mem)
	mem.Regs[adp5055.Ctrl123] = 0b101
	i, pub := newInfo(mem)
	require.NoError(t, i.update())
	*pub = nil

	r, err := hset(i, "adp5055.DCDC2.enabled", "true\n")
	require.NoError(t, err)
	assert.Equal(t, reply.Hset(1), r)
	assert.Equal(t, uint8(0b111), mem.Regs[adp5055.Ctrl123])
	assert.Equal(t, lines{"adp5055.DCDC2.enabled: true"}, *pub)

	_, err = hset(i, "adp5055.DCDC1.enabled", "false")
	require.NoError(t, err)
	assert.Equal(t, uint8(0b110), mem.Regs[adp5055.Ctrl123])

	_, err = hset(i, "adp5055.DCDC1.enabled", "maybe")
	assert.Error(t, err)
}

func TestHsetVoltage(t *testing.T) {
	mem := new(regmap.Mem)
	i, _ := newInfo(mem)

	_, err := hset(i, "adp5055.DCDC3.vsel", "0x80")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x80), mem.Regs[adp5055.Vid2])

	_, err = hset(i, "adp5055.DCDC1.vout.units.uV", "408001")
	require.NoError(t, err)
	assert.Equal(t, uint8(1), mem.Regs[adp5055.Vid0])

	n := len(mem.Log)
	_, err = hset(i, "adp5055.DCDC1.vout.units.uV", "800000")
	assert.ErrorIs(t, err, linear.ErrOutOfRange)
	_, err = hset(i, "adp5055.DCDC1.vsel", "256")
	assert.Error(t, err)
	assert.Len(t, mem.Log, n)
}

func TestHsetField(t *testing.T) {
	i, _ := newInfo(new(regmap.Mem))
	for _, field := range []string{
		"fan_tray.speed",
		"adp5055.DCDC4.vsel",
		"adp5055.DCDC1",
		"adp5055.DCDC1.temp",
	} {
		_, err := hset(i, field, "1")
		assert.Error(t, err, field)
	}
}

func TestBringUp(t *testing.T) {
	mem := new(regmap.Mem)
	require.NoError(t, bringUp(mem, property.Map{
		adp5055.PropEnableMode:    5,
		adp5055.PropMaskPowerGood: 1,
	}))
	ws := mem.Writes()
	require.Len(t, ws, 10)
	assert.Equal(t, uint8(0x01), ws[0].V)
	assert.Equal(t, uint8(0x11), ws[9].V)

	mem = &regmap.Mem{FailWrite: 1}
	assert.ErrorIs(t, bringUp(mem, property.Map{}), regmap.ErrInjected)

	mem = new(regmap.Mem)
	err := bringUp(mem, property.Map{
		adp5055.PropFastTransient: []interface{}{1},
	})
	assert.ErrorIs(t, err, property.ErrLength)
	assert.Empty(t, mem.Log)
}

func TestWaitReady(t *testing.T) {
	fast := func() *backoff.Backoff {
		return &backoff.Backoff{Min: time.Millisecond, Max: time.Millisecond}
	}
	notReady := errors.New("not ready")

	n := 0
	err := waitReady(func() error {
		if n++; n < 3 {
			return notReady
		}
		return nil
	}, fast(), 5, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n = 0
	err = waitReady(func() error {
		n++
		return notReady
	}, fast(), 4, nil)
	assert.ErrorIs(t, err, notReady)
	assert.Equal(t, 4, n)

	stop := make(chan struct{})
	close(stop)
	err = waitReady(func() error { return notReady }, &backoff.Backoff{
		Min: time.Hour,
		Max: time.Hour,
	}, 4, stop)
	assert.ErrorIs(t, err, notReady)
}

func TestStartProgramsWithoutRedis(t *testing.T) {
	defer func(h string) { redis.DefaultHash = h }(redis.DefaultHash)
	redis.DefaultHash = ""

	mc := machine.Defaults()
	mc.Hash = "platina-mk1-bmc"
	mem := new(regmap.Mem)
	notReady := errors.New("redis down")
	n := 0
	err := start(mc, mem, property.Map{}, func() error {
		n++
		return notReady
	}, &backoff.Backoff{Min: time.Millisecond, Max: time.Millisecond}, nil)

	assert.ErrorIs(t, err, notReady)
	assert.Equal(t, readyAttempts, n)
	assert.Len(t, mem.Writes(), 10)
	assert.Equal(t, "platina-mk1-bmc", redis.DefaultHash)
	assert.Equal(t, "platina-mk1-bmc:adp5055.", assignKey())
}

func TestStartFailsBeforeRedis(t *testing.T) {
	defer func(h string) { redis.DefaultHash = h }(redis.DefaultHash)

	n := 0
	err := start(machine.Defaults(), &regmap.Mem{FailWrite: 2},
		property.Map{}, func() error {
			n++
			return nil
		}, &backoff.Backoff{}, nil)
	assert.ErrorIs(t, err, regmap.ErrInjected)
	assert.Zero(t, n)
}

func TestClose(t *testing.T) {
	c := new(Command)
	done := make(chan error)
	go func() { done <- c.Close() }()
	stop := c.stopChan()
	require.NoError(t, <-done)

	select {
	case <-stop:
	case <-time.After(time.Second):
		t.Fatal("stop not closed")
	}
	assert.NoError(t, c.Close())
}
