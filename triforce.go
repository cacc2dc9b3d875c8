package psurf

import (
	"fmt"

	"github.com/soypat/psurf/gfx"
	"github.com/soypat/psurf/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Triforce draws three textured triangles lit by a directional light.
type Triforce struct {
	*surface
	light Light
}

var _ Surface = (*Triforce)(nil)

// triforceTextureUnit is the texture unit the sampler reads from.
const triforceTextureUnit = 0

// TriforceFrame returns the transforms of the top, bottom left and bottom
// right triangles, in draw order. Each spins about its own vertical axis.
func TriforceFrame(width, height int, dtheta float64) Frame {
	theta := Phase(dtheta)
	one := r3.Vec{X: 1, Y: 1, Z: 1}
	return newFrame(width, height,
		Part{Name: "top", Model: d3.TRS(r3.Vec{Y: 0.5, Z: -3}, theta, yAxis, one)},
		Part{Name: "bottom-left", Model: d3.TRS(r3.Vec{X: -0.5, Y: -0.5, Z: -3}, theta, yAxis, one)},
		Part{Name: "bottom-right", Model: d3.TRS(r3.Vec{X: 0.5, Y: -0.5, Z: -3}, theta, yAxis, one)},
	)
}

// NewTriforce builds the triforce on the canvas canvasID of host and starts
// loading its texture. Frames rendered before the image arrives sample an
// opaque black placeholder.
func NewTriforce(host gfx.Host, canvasID string, opts ...Option) (*Triforce, error) {
	cfg := newConfig(opts)
	mesh := TriforceMesh()
	s, err := newSurface(host, canvasID, "triforce", triforceShader, mesh, cfg,
		"mv", "p", "normalMatrix", "ambientLight", "lightColor", "lightDirection", "uSampler")
	if err != nil {
		return nil, err
	}
	err = s.addBuffer("vertices", mesh.interleave(),
		gfx.Attrib{Name: "position", Size: 3},
		gfx.Attrib{Name: "normal", Size: 3},
		gfx.Attrib{Name: "texCoord", Size: 2},
	)
	if err == nil {
		s.tex, err = gfx.LoadTexture(s.ctx, host, cfg.textureURL, triforceTextureUnit, gfx.WithLogger(s.log))
		if err != nil {
			err = fmt.Errorf("psurf: triforce texture: %w", err)
		}
	}
	if err != nil {
		s.Release()
		return nil, err
	}
	t := &Triforce{surface: s, light: normalizeLight(cfg.light)}
	s.setFrame = t.frameUniforms
	s.setPart = setModelView
	s.ready()
	return t, nil
}

// Render draws the triforce rotated by dtheta on a width x height canvas.
func (t *Triforce) Render(width, height int, dtheta float64) error {
	return t.render(width, height, TriforceFrame(width, height, dtheta))
}

// Texture returns the triforce texture.
func (t *Triforce) Texture() *gfx.ImageTexture { return t.tex }

func (t *Triforce) frameUniforms(p *gfx.Pipeline, f Frame) error {
	if err := p.SetMat4("p", mat4(f.Projection)); err != nil {
		return err
	}
	if err := p.SetVec3("ambientLight", t.light.Ambient); err != nil {
		return err
	}
	if err := p.SetVec3("lightColor", t.light.Color); err != nil {
		return err
	}
	if err := p.SetVec3("lightDirection", t.light.Direction); err != nil {
		return err
	}
	return p.SetInt("uSampler", triforceTextureUnit)
}

// setModelView uploads the view-model matrix and its inverse transpose.
func setModelView(p *gfx.Pipeline, f Frame, part Part) error {
	mv := f.View.Mul(part.Model)
	if err := p.SetMat4("mv", mat4(mv)); err != nil {
		return err
	}
	return p.SetMat4("normalMatrix", mat4(mv.NormalMatrix()))
}

func normalizeLight(l Light) Light {
	d := r3.Vec{X: float64(l.Direction[0]), Y: float64(l.Direction[1]), Z: float64(l.Direction[2])}
	if d == (r3.Vec{}) {
		return l
	}
	d = r3.Unit(d)
	l.Direction = [3]float32{float32(d.X), float32(d.Y), float32(d.Z)}
	return l
}
