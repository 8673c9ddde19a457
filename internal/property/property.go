// Copyright © 2024 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package property reads named, optional device configuration properties
// from a device tree node, a YAML file, or a map.
package property

import (
	"errors"
	"fmt"
)

var (
	ErrLength    = errors.New("wrong length")
	ErrMalformed = errors.New("malformed")
)

// Source is a set of optional named properties. An absent property is not
// an error; ok is false and the caller substitutes its default. A present
// but unusable property is an error.
type Source interface {
	// Uint32 reads a scalar cell.
	Uint32(name string) (v uint32, ok bool, err error)
	// Bool reads a flag; ok is false when the source has no opinion.
	Bool(name string) (v, ok bool)
	// Uint32s reads an array that must have exactly n cells.
	Uint32s(name string, n int) (v []uint32, ok bool, err error)
}

// Map is a Source over Go values: uint32, int, bool, []uint32 or
// []interface{} of integers, as decoded from YAML.
type Map map[string]interface{}

func toUint32(name string, x interface{}) (uint32, error) {
	switch t := x.(type) {
	case uint32:
		return t, nil
	case uint8:
		return uint32(t), nil
	case uint:
		if uint64(t) <= 0xffffffff {
			return uint32(t), nil
		}
	case uint64:
		if t <= 0xffffffff {
			return uint32(t), nil
		}
	case int:
		if t >= 0 && int64(t) <= 0xffffffff {
			return uint32(t), nil
		}
	case int64:
		if t >= 0 && t <= 0xffffffff {
			return uint32(t), nil
		}
	}
	return 0, fmt.Errorf("%s: %v: %w", name, x, ErrMalformed)
}

func (m Map) Uint32(name string) (uint32, bool, error) {
	x, found := m[name]
	if !found {
		return 0, false, nil
	}
	v, err := toUint32(name, x)
	return v, true, err
}

func (m Map) Bool(name string) (bool, bool) {
	x, found := m[name]
	if !found {
		return false, false
	}
	switch t := x.(type) {
	case bool:
		return t, true
	case nil:
		// YAML "name:" with no value, like an empty device tree property
		return true, true
	}
	return false, false
}

func (m Map) Uint32s(name string, n int) ([]uint32, bool, error) {
	x, found := m[name]
	if !found {
		return nil, false, nil
	}
	var v []uint32
	switch t := x.(type) {
	case []uint32:
		v = append(v, t...)
	case []int:
		for _, i := range t {
			u, err := toUint32(name, i)
			if err != nil {
				return nil, true, err
			}
			v = append(v, u)
		}
	case []interface{}:
		for _, i := range t {
			u, err := toUint32(name, i)
			if err != nil {
				return nil, true, err
			}
			v = append(v, u)
		}
	default:
		return nil, true, fmt.Errorf("%s: %v: %w", name, x, ErrMalformed)
	}
	if len(v) != n {
		return nil, true, fmt.Errorf("%s: %d cells, want %d: %w",
			name, len(v), n, ErrLength)
	}
	return v, true, nil
}
