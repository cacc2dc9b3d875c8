package psurf

import (
	"github.com/soypat/psurf/gfx"
	"github.com/soypat/psurf/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Torus draws a point cloud sampled from a torus, colored by position.
type Torus struct {
	*surface
}

var _ Surface = (*Torus)(nil)

// TorusFrame returns the transform of the torus, its only part.
func TorusFrame(width, height int, dtheta float64) Frame {
	model := d3.TRS(r3.Vec{Z: -2}, Phase(dtheta), r3.Vec{Y: 1, Z: 1}, r3.Vec{X: 1, Y: 1, Z: 1})
	return newFrame(width, height, Part{Name: "torus", Model: model})
}

// NewTorus builds the torus on the canvas canvasID of host.
func NewTorus(host gfx.Host, canvasID string, opts ...Option) (*Torus, error) {
	cfg := newConfig(opts)
	mesh := TorusMesh()
	s, err := newSurface(host, canvasID, "torus", torusShader, mesh, cfg, "m", "v", "p")
	if err != nil {
		return nil, err
	}
	err = s.addBuffer("positions", flatten(mesh.Positions), gfx.Attrib{Name: "position", Size: 3})
	if err == nil {
		err = s.addBuffer("colors", flatten(mesh.Colors), gfx.Attrib{Name: "color", Size: 3})
	}
	if err != nil {
		s.Release()
		return nil, err
	}
	s.setFrame = setViewProjection
	s.setPart = func(p *gfx.Pipeline, f Frame, part Part) error {
		return p.SetMat4("m", mat4(part.Model))
	}
	s.ready()
	return &Torus{surface: s}, nil
}

// Render draws the torus rotated by dtheta on a width x height canvas.
func (t *Torus) Render(width, height int, dtheta float64) error {
	return t.render(width, height, TorusFrame(width, height, dtheta))
}
