package psurf

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/psurf/gfx"
)

// Mesh is the static vertex data of a shape. Attribute slices other than
// Positions are either empty or have one element per position.
type Mesh struct {
	Mode      gfx.Enum
	Positions []ms3.Vec
	Colors    []ms3.Vec
	Normals   []ms3.Vec
	TexCoords [][2]float32
}

// Len returns the number of vertices.
func (m Mesh) Len() int { return len(m.Positions) }

// Triangles returns the mesh triangles. It returns nil for non triangle meshes.
func (m Mesh) Triangles() []ms3.Triangle {
	if m.Mode != gfx.Triangles {
		return nil
	}
	tris := make([]ms3.Triangle, 0, len(m.Positions)/3)
	for i := 0; i+2 < len(m.Positions); i += 3 {
		tris = append(tris, ms3.Triangle{m.Positions[i], m.Positions[i+1], m.Positions[i+2]})
	}
	return tris
}

// interleave packs position, normal and texture coordinate of each vertex
// into one buffer, 8 floats per vertex.
func (m Mesh) interleave() []float32 {
	buf := make([]float32, 0, 8*len(m.Positions))
	for i, p := range m.Positions {
		n := vec32(m.Normals[i])
		uv := m.TexCoords[i]
		pa := vec32(p)
		buf = append(buf, pa[:]...)
		buf = append(buf, n[:]...)
		buf = append(buf, uv[:]...)
	}
	return buf
}

func flatten(vs []ms3.Vec) []float32 {
	buf := make([]float32, 0, 3*len(vs))
	for _, v := range vs {
		arr := vec32(v)
		buf = append(buf, arr[:]...)
	}
	return buf
}

func vec32(v ms3.Vec) [3]float32 { return [3]float32{v.X, v.Y, v.Z} }

// CubeMesh returns the 12 edges of the unit cube centered at the origin as a line list.
func CubeMesh() Mesh {
	const h = 0.5
	var corners [8]ms3.Vec
	for i := range corners {
		corners[i] = ms3.Vec{X: -h, Y: -h, Z: -h}
		if i&1 != 0 {
			corners[i].X = h
		}
		if i&2 != 0 {
			corners[i].Y = h
		}
		if i&4 != 0 {
			corners[i].Z = h
		}
	}
	// Corners joined by an edge differ in exactly one bit.
	var edges []ms3.Vec
	for i := 0; i < 8; i++ {
		for bit := 1; bit < 8; bit <<= 1 {
			if j := i | bit; j != i {
				edges = append(edges, corners[i], corners[j])
			}
		}
	}
	return Mesh{Mode: gfx.Lines, Positions: edges}
}

// Torus parameters.
const (
	TorusMajorRadius = 0.5
	TorusMinorRadius = 0.2
	// TorusSteps is the number of samples around each circle of the torus.
	TorusSteps       = 72
	torusColorOffset = 0.5
)

// TorusMesh samples the torus at TorusSteps x TorusSteps parameter values,
// 5 degrees apart, as a point list. Sampling stops short of 2π so the seam
// ring is not repeated. Each point is colored by its position offset by 0.5.
func TorusMesh() Mesh {
	const step = 2 * math32.Pi / TorusSteps
	m := Mesh{
		Mode:      gfx.Points,
		Positions: make([]ms3.Vec, 0, TorusSteps*TorusSteps),
		Colors:    make([]ms3.Vec, 0, TorusSteps*TorusSteps),
	}
	offset := ms3.Vec{X: torusColorOffset, Y: torusColorOffset, Z: torusColorOffset}
	for i := 0; i < TorusSteps; i++ {
		v := float32(i) * step
		sv, cv := math32.Sincos(v)
		r := TorusMajorRadius + TorusMinorRadius*cv
		for j := 0; j < TorusSteps; j++ {
			u := float32(j) * step
			su, cu := math32.Sincos(u)
			p := ms3.Vec{X: r * cu, Y: r * su, Z: TorusMinorRadius * sv}
			m.Positions = append(m.Positions, p)
			m.Colors = append(m.Colors, ms3.Add(p, offset))
		}
	}
	return m
}

// TriforceMesh returns the single triangle every triforce part draws, with
// a flat normal and texture coordinates spanning the image.
func TriforceMesh() Mesh {
	tri := ms3.Triangle{
		{X: 0, Y: 0.5},
		{X: -0.5, Y: -0.5},
		{X: 0.5, Y: -0.5},
	}
	n := ms3.Unit(ms3.Cross(ms3.Sub(tri[1], tri[0]), ms3.Sub(tri[2], tri[0])))
	return Mesh{
		Mode:      gfx.Triangles,
		Positions: tri[:],
		Normals:   []ms3.Vec{n, n, n},
		TexCoords: [][2]float32{{0.5, 0}, {0, 1}, {1, 1}},
	}
}
