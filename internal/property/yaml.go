// Copyright © 2024 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package property

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a flat mapping of property names to values, e.g.
//
//	adi,enable-mode-code: 1
//	adi,ocp-blanking: true
//	adi,fast-transient-code-ch123: [3, 2, 1]
func ParseYAML(b []byte) (Map, error) {
	m := make(Map)
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// FromYAML reads a property file.
func FromYAML(fn string) (Map, error) {
	b, err := ioutil.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	m, err := ParseYAML(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", fn, err)
	}
	return m, nil
}
