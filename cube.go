package psurf

import (
	"github.com/soypat/psurf/gfx"
	"github.com/soypat/psurf/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Cube draws three nested wireframe cubes rotating at different axes.
type Cube struct {
	*surface
}

var _ Surface = (*Cube)(nil)

var (
	cubeCenter = r3.Vec{Z: -3}
	yAxis      = r3.Vec{Y: 1}
	xyAxis     = r3.Vec{X: 1, Y: 1}
)

// CubeFrame returns the transforms of the outer, middle and inner cube, in draw order.
func CubeFrame(width, height int, dtheta float64) Frame {
	theta := Phase(dtheta)
	uniform := func(k float64) r3.Vec { return r3.Vec{X: k, Y: k, Z: k} }
	return newFrame(width, height,
		Part{Name: "outer", Model: d3.TRS(cubeCenter, theta, yAxis, uniform(1)), Color: [3]float32{0, 1, 0}},
		Part{Name: "middle", Model: d3.TRS(cubeCenter, theta, xyAxis, uniform(0.6)), Color: [3]float32{1, 0, 0}},
		Part{Name: "inner", Model: d3.TRS(cubeCenter, theta, xyAxis, uniform(0.3)), Color: [3]float32{0, 0, 1}},
	)
}

// NewCube builds the nested cubes on the canvas canvasID of host.
func NewCube(host gfx.Host, canvasID string, opts ...Option) (*Cube, error) {
	cfg := newConfig(opts)
	mesh := CubeMesh()
	s, err := newSurface(host, canvasID, "cube", cubeShader, mesh, cfg, "m", "v", "p", "color")
	if err != nil {
		return nil, err
	}
	err = s.addBuffer("positions", flatten(mesh.Positions), gfx.Attrib{Name: "aPos", Size: 3})
	if err != nil {
		s.Release()
		return nil, err
	}
	s.setFrame = setViewProjection
	s.setPart = func(p *gfx.Pipeline, f Frame, part Part) error {
		if err := p.SetVec3("color", part.Color); err != nil {
			return err
		}
		return p.SetMat4("m", mat4(part.Model))
	}
	s.ready()
	return &Cube{surface: s}, nil
}

// Render draws the cubes rotated by dtheta on a width x height canvas.
func (c *Cube) Render(width, height int, dtheta float64) error {
	return c.render(width, height, CubeFrame(width, height, dtheta))
}
