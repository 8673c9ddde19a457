// Copyright © 2015-2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package cmd defines the command interface of the machine main and its
// dispatcher.
package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/platinasystems/adp5055/lang"
)

type Cmd interface {
	Apropos() lang.Alt
	Main(...string) error
	// String returns the command name.
	String() string
	Usage() string
	/* Optional
	Close() error
	Kind() Kind
	Man() lang.Alt
	*/
}

type manner interface {
	Man() lang.Alt
}

var Helpers = map[string]struct{}{
	"apropos": struct{}{},
	"help":    struct{}{},
	"man":     struct{}{},
	"usage":   struct{}{},
}

// Swap hyphen prefaced helper flags with command, so,
//
//	COMMAND -[-]HELPER [ARGS]...
//
// becomes
//
//	HELPER COMMAND [ARGS]...
//
// and
//
//	-[-]HELPER [ARGS]...
//
// becomes
//
//	HELPER [ARGS]...
func Swap(args []string) {
	n := len(args)
	if n > 0 && strings.HasPrefix(args[0], "-") {
		opt := strings.TrimLeft(args[0], "-")
		if _, found := Helpers[opt]; found {
			args[0] = opt
		}
	} else if n > 1 && strings.HasPrefix(args[1], "-") {
		opt := strings.TrimLeft(args[1], "-")
		if _, found := Helpers[opt]; found {
			args[1] = args[0]
			args[0] = opt
		}
	}
}

// ByName dispatches a command line to its command.
type ByName map[string]Cmd

// Stdout receives helper output.
var Stdout io.Writer = os.Stdout

func New(cmds ...Cmd) ByName {
	byName := make(ByName)
	for _, v := range cmds {
		byName[v.String()] = v
	}
	return byName
}

func (byName ByName) names() []string {
	names := make([]string, 0, len(byName))
	for name, v := range byName {
		if !WhatKind(v).IsHidden() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (byName ByName) Main(args ...string) error {
	if len(args) == 0 {
		return fmt.Errorf("COMMAND: missing; try: %s",
			strings.Join(byName.names(), ", "))
	}
	Swap(args)
	if _, found := Helpers[args[0]]; found {
		return byName.help(args[0], args[1:]...)
	}
	v, found := byName[args[0]]
	if !found {
		return fmt.Errorf("%s: command not found", args[0])
	}
	return v.Main(args[1:]...)
}

func (byName ByName) help(helper string, args ...string) error {
	names := args
	if len(names) == 0 {
		names = byName.names()
	}
	for _, name := range names {
		v, found := byName[name]
		if !found {
			return fmt.Errorf("%s: command not found", name)
		}
		switch helper {
		case "apropos":
			fmt.Fprintf(Stdout, "%s - %s\n", name, v.Apropos())
		case "man":
			man := v.Apropos().String()
			if m, ok := v.(manner); ok {
				man = strings.TrimSpace(m.Man().String())
			}
			fmt.Fprintf(Stdout, "NAME\n\t%s - %s\n\nSYNOPSIS\n\t%s\n\n%s\n",
				name, v.Apropos(), strings.TrimSpace(v.Usage()), man)
		case "usage":
			fmt.Fprintf(Stdout, "usage:\t%s\n",
				strings.TrimSpace(v.Usage()))
		default:
			fmt.Fprintf(Stdout, "%s - %s\nusage:\t%s\n", name,
				v.Apropos(), strings.TrimSpace(v.Usage()))
		}
	}
	return nil
}
