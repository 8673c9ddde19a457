// Copyright © 2024 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// This is the ADP5055 regulator machine. Installed as, or linked to,
// adp5055d it runs the daemon; otherwise the first argument names the
// command.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/platinasystems/adp5055/cmd"
	"github.com/platinasystems/adp5055/cmd/adp5055"
	"github.com/platinasystems/adp5055/cmd/adp5055d"
	"github.com/platinasystems/adp5055/internal/machine"
	"github.com/platinasystems/log"
	"github.com/platinasystems/redis"
)

func main() {
	redis.DefaultHash = machine.DefaultHash
	byName := cmd.New(
		new(adp5055.Command),
		new(adp5055d.Command),
	)
	args := os.Args[1:]
	if name := filepath.Base(os.Args[0]); byName[name] != nil {
		args = append([]string{name}, args...)
	}
	if len(args) > 0 {
		if v := byName[args[0]]; cmd.WhatKind(v).IsDaemon() {
			closeOnSignal(v)
		}
	}
	if err := byName.Main(args...); err != nil {
		if len(args) > 0 && cmd.WhatKind(byName[args[0]]).IsDaemon() {
			log.Print("err", err)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func closeOnSignal(v cmd.Cmd) {
	cl, ok := v.(io.Closer)
	if !ok {
		return
	}
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sig
		cl.Close()
	}()
}
