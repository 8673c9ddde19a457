// Copyright © 2024 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package property

import (
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/platinasystems/fdt"
)

const DefaultDtb = "/boot/linux.dtb"

// Node is a Source over the properties of one device tree node. Flags are
// empty properties, so Bool only ever reports presence.
type Node struct {
	Tree *fdt.Tree
	*fdt.Node
}

func (n Node) Uint32(name string) (uint32, bool, error) {
	b, found := n.Properties[name]
	if !found {
		return 0, false, nil
	}
	if len(b) != 4 {
		return 0, true, fmt.Errorf("%s: %d bytes: %w", name, len(b),
			ErrMalformed)
	}
	return n.Tree.PropUint32(b), true, nil
}

func (n Node) Bool(name string) (bool, bool) {
	_, found := n.Properties[name]
	return found, found
}

func (n Node) Uint32s(name string, cells int) ([]uint32, bool, error) {
	b, found := n.Properties[name]
	if !found {
		return nil, false, nil
	}
	if len(b)%4 != 0 || len(b)/4 != cells {
		return nil, true, fmt.Errorf("%s: %d bytes, want %d cells: %w",
			name, len(b), cells, ErrLength)
	}
	return n.Tree.PropUint32Slice(b), true, nil
}

// Compatible finds the first node of the tree whose compatible property
// lists s.
func Compatible(t *fdt.Tree, s string) (Node, error) {
	var found *fdt.Node
	t.EachProperty("compatible", s, func(n *fdt.Node, _, value string) {
		if found != nil {
			return
		}
		for _, c := range strings.Split(value, "\x00") {
			if c == s {
				found = n
				return
			}
		}
	})
	if found == nil {
		return Node{}, fmt.Errorf("compatible %q: not found", s)
	}
	return Node{Tree: t, Node: found}, nil
}

// FromDtb parses a flattened device tree file and returns the first node
// compatible with s.
func FromDtb(fn, s string) (Node, error) {
	b, err := ioutil.ReadFile(fn)
	if err != nil {
		return Node{}, err
	}
	t := &fdt.Tree{Debug: false, IsLittleEndian: false}
	if err = t.Parse(b); err != nil {
		return Node{}, fmt.Errorf("%s: %v", fn, err)
	}
	if t.RootNode == nil {
		return Node{}, fmt.Errorf("%s: empty device tree", fn)
	}
	return Compatible(t, s)
}
