package webgl

import (
	"testing"

	"github.com/soypat/psurf/gfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationTableForget(t *testing.T) {
	var tbl locationTable[string]
	loads := 0
	load := func(v string) func() (string, bool) {
		return func() (string, bool) { loads++; return v, true }
	}
	a := tbl.lookup(1, "uModel", load("p1.model"))
	b := tbl.lookup(1, "uView", load("p1.view"))
	c := tbl.lookup(2, "uModel", load("p2.model"))
	assert.NotEqual(t, a, c, "same name in another program gets its own id")
	assert.Equal(t, a, tbl.lookup(1, "uModel", load("unused")))
	assert.Equal(t, 3, loads)
	assert.Equal(t, 3, tbl.len())

	missing := tbl.lookup(1, "uNope", func() (string, bool) { return "", false })
	assert.Equal(t, gfx.Uniform(-1), missing)
	assert.Equal(t, 3, tbl.len())

	tbl.forget(1)
	assert.Equal(t, 1, tbl.len())
	_, ok := tbl.get(a)
	assert.False(t, ok)
	_, ok = tbl.get(b)
	assert.False(t, ok)
	v, ok := tbl.get(c)
	require.True(t, ok)
	assert.Equal(t, "p2.model", v)

	// Building and deleting programs repeatedly must not grow the table.
	for p := uint32(10); p < 1000; p++ {
		tbl.lookup(p, "uModel", load("m"))
		tbl.lookup(p, "uView", load("v"))
		tbl.forget(p)
	}
	assert.Equal(t, 1, tbl.len())
	assert.Len(t, tbl.byName, 1)
	assert.Len(t, tbl.owned, 1)
}

type countRelease struct {
	n     int
	order *[]int
	id    int
}

func (c *countRelease) Release() {
	c.n++
	*c.order = append(*c.order, c.id)
}

func TestReleaseGroup(t *testing.T) {
	var order []int
	a := &countRelease{order: &order, id: 1}
	b := &countRelease{order: &order, id: 2}
	var g ReleaseGroup
	g.Add(a)
	g.Add(b)
	g.Release()
	g.Release()
	assert.Equal(t, 1, a.n)
	assert.Equal(t, 1, b.n)
	assert.Equal(t, []int{2, 1}, order)

	late := &countRelease{order: &order, id: 3}
	g.Add(late)
	assert.Equal(t, 1, late.n, "adding to a released group releases at once")
}
