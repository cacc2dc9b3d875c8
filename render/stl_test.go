package render_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/psurf"
	"github.com/soypat/psurf/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSTLWriteRead(t *testing.T) {
	f := psurf.TriforceFrame(512, 512, 0)
	model := render.FrameTriangles(f, psurf.TriforceMesh())
	require.Len(t, model, 3)
	for i, part := range f.Parts {
		// The apex of each triangle sits on the rotation axis, above the part origin.
		assert.InDelta(t, part.Model.Transform(r3.Vec{}).Z, model[i][0].Z, 1e-6, part.Name)
	}

	var b bytes.Buffer
	require.NoError(t, render.WriteSTL(&b, model))
	assert.Equal(t, 84+50*len(model), b.Len())

	got, err := render.ReadSTL(&b)
	require.NoError(t, err)
	assert.Equal(t, model, got)
}

func TestSTLRecordLayout(t *testing.T) {
	tri := ms3.Triangle{{X: 1, Y: 2, Z: 3}, {X: 3, Y: 2, Z: 3}, {X: 1, Y: 4, Z: 3}}
	var b bytes.Buffer
	require.NoError(t, render.WriteSTL(&b, []ms3.Triangle{tri}))
	data := b.Bytes()
	require.Len(t, data, 84+50)
	assert.EqualValues(t, 1, binary.LittleEndian.Uint32(data[80:84]))
	rec := data[84:]
	f := func(i int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(rec[4*i:])) }
	want := []float32{
		0, 0, 1, // normal
		1, 2, 3,
		3, 2, 3,
		1, 4, 3,
	}
	for i, w := range want {
		assert.Equal(t, w, f(i), "float %d", i)
	}
	assert.Zero(t, binary.LittleEndian.Uint16(rec[48:50]), "attribute byte count")
}

func TestSTLErrors(t *testing.T) {
	assert.Error(t, render.WriteSTL(&bytes.Buffer{}, nil))
	assert.Nil(t, render.FrameTriangles(psurf.CubeFrame(1, 1, 0), psurf.CubeMesh()))

	_, err := render.ReadSTL(bytes.NewReader(make([]byte, 10)))
	assert.ErrorContains(t, err, "EOF")
	_, err = render.ReadSTL(bytes.NewReader(make([]byte, 84)))
	assert.ErrorContains(t, err, "0 triangles")

	// A header promising a triangle followed by a degenerate one.
	data := make([]byte, 84+50)
	data[80] = 1
	_, err = render.ReadSTL(bytes.NewReader(data))
	assert.ErrorContains(t, err, "degenerate")
}
