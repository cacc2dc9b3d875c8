package psurf

import (
	"fmt"
	"log/slog"

	"github.com/soypat/psurf/gfx"
	"github.com/soypat/psurf/internal/d3"
)

// surface holds the graphics objects of one shape on one canvas and runs
// the render pass common to every shape.
type surface struct {
	name   string
	ctx    gfx.Context
	pipe   *gfx.Pipeline
	layout *gfx.VertexLayout
	tex    *gfx.ImageTexture
	mode   gfx.Enum
	count  int
	clear  [4]float32
	log    *slog.Logger
	// setFrame uploads the uniforms shared by all parts of a frame.
	setFrame func(p *gfx.Pipeline, f Frame) error
	// setPart uploads the uniforms of a single part.
	setPart func(p *gfx.Pipeline, f Frame, part Part) error
}

// newSurface acquires the canvas and builds the shape's pipeline with
// uniforms cached. Nothing is left allocated on failure.
func newSurface(host gfx.Host, canvasID, name string, src gfx.ShaderSource, mesh Mesh, cfg config, uniforms ...string) (*surface, error) {
	ctx, err := gfx.Acquire(host, canvasID)
	if err != nil {
		return nil, fmt.Errorf("psurf: %s: %w", name, err)
	}
	pipe, err := gfx.NewPipeline(ctx, src, gfx.WithLogger(cfg.log))
	if err != nil {
		return nil, fmt.Errorf("psurf: %s pipeline: %w", name, err)
	}
	pipe.CacheUniforms(uniforms...)
	return &surface{
		name:   name,
		ctx:    ctx,
		pipe:   pipe,
		layout: gfx.NewVertexLayout(ctx, pipe),
		mode:   mesh.Mode,
		count:  mesh.Len(),
		clear:  cfg.clear,
		log:    cfg.log.With(slog.String("shape", name), slog.String("canvas", canvasID)),
	}, nil
}

// addBuffer uploads data and binds attribs to it.
func (s *surface) addBuffer(name string, data []float32, attribs ...gfx.Attrib) error {
	if err := s.layout.Add(name, data, attribs...); err != nil {
		return fmt.Errorf("psurf: %s %s buffer: %w", s.name, name, err)
	}
	return nil
}

func (s *surface) ready() {
	s.log.Debug("surface ready", slog.Int("vertices", s.count), slog.Any("uniforms", s.pipe.Uniforms()))
}

// render draws frame f and flushes once. It stops at the first uniform
// that cannot be set.
func (s *surface) render(width, height int, f Frame) error {
	if s.tex != nil {
		s.tex.Sync()
		s.tex.Bind()
	}
	s.ctx.Viewport(0, 0, width, height)
	s.ctx.ClearColor(s.clear[0], s.clear[1], s.clear[2], s.clear[3])
	s.ctx.ClearDepth(1)
	s.ctx.Clear(gfx.ColorBufferBit | gfx.DepthBufferBit)

	s.pipe.Activate()
	s.layout.Bind()
	if err := s.setFrame(s.pipe, f); err != nil {
		return fmt.Errorf("psurf: rendering %s: %w", s.name, err)
	}
	for _, part := range f.Parts {
		if err := s.setPart(s.pipe, f, part); err != nil {
			return fmt.Errorf("psurf: rendering %s %s: %w", s.name, part.Name, err)
		}
		s.ctx.DrawArrays(s.mode, 0, s.count)
	}
	s.ctx.Flush()
	return nil
}

// Release frees the vertex buffers, program and texture. It is safe to call more than once.
func (s *surface) Release() {
	if s.layout != nil {
		s.layout.Release()
	}
	if s.tex != nil {
		s.tex.Release()
	}
	if s.pipe != nil {
		s.pipe.Release()
	}
}

func mat4(t d3.Transform) *[16]float32 {
	a := t.Array()
	return &a
}

// setViewProjection uploads the camera uniforms v and p.
func setViewProjection(p *gfx.Pipeline, f Frame) error {
	if err := p.SetMat4("v", mat4(f.View)); err != nil {
		return err
	}
	return p.SetMat4("p", mat4(f.Projection))
}
