package d3

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-5

func assertMat4(t *testing.T, want mgl32.Mat4, got Transform) {
	t.Helper()
	arr := got.Array()
	for i := range arr {
		assert.InDelta(t, want[i], arr[i], tol, "element %d: want %v\ngot  %v", i, want, arr)
	}
}

func TestPerspectiveMatchesMathgl(t *testing.T) {
	for _, aspect := range []float64{1, 800.0 / 600, 0.25, 16.0 / 9} {
		want := mgl32.Perspective(math.Pi/4, float32(aspect), 0.1, 100)
		assertMat4(t, want, Perspective(math.Pi/4, aspect, 0.1, 100))
	}
}

func TestLookAtMatchesMathgl(t *testing.T) {
	var cases = []struct {
		eye, center, up r3.Vec
	}{
		{eye: r3.Vec{}, center: r3.Vec{Z: -1}, up: r3.Vec{Y: 1}},
		{eye: r3.Vec{X: 1, Y: 2, Z: 3}, center: r3.Vec{}, up: r3.Vec{Y: 1}},
		{eye: r3.Vec{X: -4, Z: 1}, center: r3.Vec{X: 1, Y: 1}, up: r3.Vec{Z: 1}},
	}
	for _, c := range cases {
		want := mgl32.LookAtV(v3(c.eye), v3(c.center), v3(c.up))
		assertMat4(t, want, LookAt(c.eye, c.center, c.up))
	}
}

func TestTRSMatchesMathgl(t *testing.T) {
	var cases = []struct {
		pos, axis, scale r3.Vec
		angle            float64
	}{
		{pos: r3.Vec{Z: -3}, axis: r3.Vec{Y: 1}, scale: r3.Vec{X: 1, Y: 1, Z: 1}, angle: math.Pi / 4},
		{pos: r3.Vec{Z: -3}, axis: r3.Vec{X: 1, Y: 1}, scale: r3.Vec{X: .6, Y: .6, Z: .6}, angle: 1.2},
		{pos: r3.Vec{Z: -2}, axis: r3.Vec{Y: 1, Z: 1}, scale: r3.Vec{X: 1, Y: 2, Z: 3}, angle: 5.5},
	}
	for _, c := range cases {
		axis := r3.Unit(c.axis)
		want := mgl32.Translate3D(float32(c.pos.X), float32(c.pos.Y), float32(c.pos.Z)).
			Mul4(mgl32.HomogRotate3D(float32(c.angle), v3(axis))).
			Mul4(mgl32.Scale3D(float32(c.scale.X), float32(c.scale.Y), float32(c.scale.Z)))
		assertMat4(t, want, TRS(c.pos, c.angle, c.axis, c.scale))

		composed := translation(c.pos).Mul(rotation(c.angle, c.axis)).Mul(scaling(c.scale))
		assertMat4(t, want, composed)
	}
}

func TestInverse(t *testing.T) {
	m := TRS(r3.Vec{X: 1, Y: -2, Z: 3}, 0.7, r3.Vec{X: 1, Y: 1}, r3.Vec{X: 2, Y: .5, Z: 1})
	got := m.Inv().Mul(m)
	assert.True(t, got.EqualWithin(Transform{}, 1e-12), "want identity, got %v", got.SliceCopy())

	singular := NewTransform(nil)
	assert.Equal(t, zeroTransform, singular.Inv())
}

func TestNormalMatrixUniformScale(t *testing.T) {
	// For a rotation the inverse transpose is the rotation itself.
	r := rotation(1.1, r3.Vec{Y: 1})
	assert.True(t, r.NormalMatrix().EqualWithin(r, 1e-12))

	// Non-uniform scale: transformed normal must stay perpendicular to transformed tangent.
	m := scaling(r3.Vec{X: 3, Y: 1, Z: 1})
	tangent := m.Direction(r3.Vec{X: 1, Y: -1})
	normal := m.NormalMatrix().Direction(r3.Vec{X: 1, Y: 1})
	assert.InDelta(t, 0, r3.Dot(tangent, normal), 1e-12)
}

func TestArrayColumnMajor(t *testing.T) {
	m := translation(r3.Vec{X: 1, Y: 2, Z: 3})
	arr := m.Array()
	assert.Equal(t, [3]float32{1, 2, 3}, [3]float32{arr[12], arr[13], arr[14]})
	assert.Equal(t, float32(1), arr[15])
}

func v3(v r3.Vec) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

func TestComposeIdentity(t *testing.T) {
	id := ComposeTransform(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}, r3.Rotation{})
	assert.Equal(t, Transform{}, id)
	p := r3.Vec{X: 1, Y: -2, Z: 3}
	assert.Equal(t, p, id.Transform(p))
}

func translation(v r3.Vec) Transform {
	return Transform{x03: v.X, x13: v.Y, x23: v.Z}
}

func rotation(angle float64, axis r3.Vec) Transform {
	return TRS(r3.Vec{}, angle, axis, r3.Vec{X: 1, Y: 1, Z: 1})
}

func scaling(v r3.Vec) Transform {
	return Transform{d00: v.X - 1, d11: v.Y - 1, d22: v.Z - 1}
}
