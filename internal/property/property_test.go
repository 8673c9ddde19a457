// Copyright © 2024 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package property

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/platinasystems/fdt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func be32(vs ...uint32) (b []byte) {
	for _, v := range vs {
		b = append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
	return
}

func testNode() Node {
	return Node{
		Tree: &fdt.Tree{},
		Node: &fdt.Node{
			Name: "regulator@70",
			Properties: map[string][]byte{
				"compatible":              []byte("adi,adp5055\x00"),
				"adi,enable-mode-code":    be32(2),
				"adi,ocp-blanking":        {},
				"adi,fast-transient-code": be32(1, 2, 3),
				"adi,short-array":         be32(1, 2),
				"adi,ragged":              {0, 0, 0, 1, 0},
			},
		},
	}
}

func TestNodeUint32(t *testing.T) {
	n := testNode()

	v, ok, err := n.Uint32("adi,enable-mode-code")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint32(2), v)

	_, ok, err = n.Uint32("adi,absent")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = n.Uint32("adi,fast-transient-code")
	assert.True(t, ok)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestNodeBool(t *testing.T) {
	n := testNode()

	v, ok := n.Bool("adi,ocp-blanking")
	assert.True(t, v)
	assert.True(t, ok)

	v, ok = n.Bool("adi,delay-power-good")
	assert.False(t, v)
	assert.False(t, ok)
}

func TestNodeUint32s(t *testing.T) {
	n := testNode()

	v, ok, err := n.Uint32s("adi,fast-transient-code", 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []uint32{1, 2, 3}, v)

	_, ok, err = n.Uint32s("adi,short-array", 3)
	assert.True(t, ok)
	assert.ErrorIs(t, err, ErrLength)

	_, _, err = n.Uint32s("adi,ragged", 1)
	assert.ErrorIs(t, err, ErrLength)

	_, ok, err = n.Uint32s("adi,absent", 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompatible(t *testing.T) {
	n := testNode()
	tree := &fdt.Tree{
		RootNode: &fdt.Node{
			Name: "/",
			Children: map[string]*fdt.Node{
				"i2c@0": {
					Name: "i2c@0",
					Children: map[string]*fdt.Node{
						n.Name: n.Node,
					},
				},
				"other": {
					Name: "other",
					Properties: map[string][]byte{
						"compatible": []byte("adi,adp5055-not\x00"),
					},
				},
			},
		},
	}

	found, err := Compatible(tree, "adi,adp5055")
	require.NoError(t, err)
	assert.Equal(t, "regulator@70", found.Name)

	_, err = Compatible(tree, "ti,ucd9090")
	assert.Error(t, err)
}

func TestMap(t *testing.T) {
	m := Map{
		"scalar": 7,
		"neg":    -1,
		"flag":   false,
		"empty":  nil,
		"cells":  []interface{}{1, 2, 3},
		"ints":   []int{4, 5},
		"bad":    []interface{}{"x"},
	}

	v, ok, err := m.Uint32("scalar")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint32(7), v)

	_, _, err = m.Uint32("neg")
	assert.ErrorIs(t, err, ErrMalformed)

	b, ok := m.Bool("flag")
	assert.False(t, b)
	assert.True(t, ok)

	b, ok = m.Bool("empty")
	assert.True(t, b)
	assert.True(t, ok)

	_, ok = m.Bool("absent")
	assert.False(t, ok)

	vs, _, err := m.Uint32s("cells", 3)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3}, vs)

	_, _, err = m.Uint32s("ints", 3)
	assert.ErrorIs(t, err, ErrLength)

	_, _, err = m.Uint32s("bad", 1)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestYAML(t *testing.T) {
	m, err := ParseYAML([]byte(`
adi,enable-mode-code: 1
adi,ocp-blanking: true
adi,delay-power-good: false
adi,fast-transient-code-ch123: [3, 2, 1]
`))
	require.NoError(t, err)

	v, ok, err := m.Uint32("adi,enable-mode-code")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint32(1), v)

	b, ok := m.Bool("adi,delay-power-good")
	assert.True(t, ok)
	assert.False(t, b)

	vs, ok, err := m.Uint32s("adi,fast-transient-code-ch123", 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []uint32{3, 2, 1}, vs)
}

func TestFromYAML(t *testing.T) {
	dir, err := ioutil.TempDir("", "property")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	fn := filepath.Join(dir, "adp5055.yaml")
	require.NoError(t, ioutil.WriteFile(fn,
		[]byte("adi,mask-power-good-ch321-code: 5\n"), 0644))

	m, err := FromYAML(fn)
	require.NoError(t, err)
	v, ok, err := m.Uint32("adi,mask-power-good-ch321-code")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint32(5), v)

	_, err = FromYAML(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
