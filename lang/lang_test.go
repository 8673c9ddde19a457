// Copyright © 2015-2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package lang

import "testing"

func TestAlt(t *testing.T) {
	defer func(f func(string) string, d string) {
		Getenv, Default = f, d
	}(Getenv, Default)

	alt := Alt{
		EnUS: "three rail buck regulator",
		FrFR: "régulateur abaisseur à trois rails",
	}
	for _, x := range []struct {
		env, def, want string
	}{
		{FrFR, EnUS, alt[FrFR]},
		{DeDE, EnUS, alt[EnUS]},
		{DeDE, FrFR, alt[FrFR]},
		{"", EnGB, alt[EnUS]},
	} {
		env := x.env
		Getenv = func(string) string { return env }
		Default = x.def
		if s := alt.String(); s != x.want {
			t.Errorf("LANG=%s default %s: %q != %q", x.env, x.def, s,
				x.want)
		}
	}
	if s := (Alt{}).String(); s != "" {
		t.Errorf("empty: %q", s)
	}
}
