// Package psurf renders simple parametric surfaces: three nested wireframe
// cubes, a torus point cloud and a textured, lit triforce.
//
// Each shape is constructed once per canvas and then drawn once per frame
// with Render, which receives the canvas size and an externally supplied
// rotation offset dtheta in radians. All drawing goes through the
// immediate-mode gfx.Context of the canvas.
//
// The per-frame transforms of each shape are also available as pure
// functions (CubeFrame, TorusFrame, TriforceFrame) so other rasterizers can
// reproduce a frame without a graphics context.
package psurf

import (
	"log/slog"
	"math"

	"github.com/soypat/psurf/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Surface is a shape bound to a canvas.
type Surface interface {
	// Render draws one frame. height must be positive.
	Render(width, height int, dtheta float64) error
	// Release frees every graphics object owned by the surface.
	Release()
}

// Camera and projection parameters shared by every shape.
const (
	FieldOfView = math.Pi / 4
	Near        = 0.1
	Far         = 100.0
)

var (
	eye    = r3.Vec{}
	target = r3.Vec{Z: -1}
	up     = r3.Vec{Y: 1}
)

// Frame is the set of transforms needed to draw one frame of a shape.
type Frame struct {
	View       d3.Transform
	Projection d3.Transform
	Parts      []Part
}

// Part is one draw call of a frame.
type Part struct {
	Name  string
	Model d3.Transform
	// Color is the flat color of the part, used by shapes without per-vertex color.
	Color [3]float32
}

// Phase returns the rotation angle for the external offset dtheta, (pi/4 + dtheta) mod 2pi.
func Phase(dtheta float64) float64 {
	return math.Mod(math.Pi/4+dtheta, 2*math.Pi)
}

// ViewMatrix returns the camera transform: at the origin looking down -Z with +Y up.
func ViewMatrix() d3.Transform {
	return d3.LookAt(eye, target, up)
}

// ProjectionMatrix returns the perspective projection for a canvas of the given size.
// A zero height yields infinite elements.
func ProjectionMatrix(width, height int) d3.Transform {
	return d3.Perspective(FieldOfView, float64(width)/float64(height), Near, Far)
}

func newFrame(width, height int, parts ...Part) Frame {
	return Frame{
		View:       ViewMatrix(),
		Projection: ProjectionMatrix(width, height),
		Parts:      parts,
	}
}

// Light describes the directional light of lit shapes.
type Light struct {
	Ambient   [3]float32
	Color     [3]float32
	Direction [3]float32
}

// DefaultLight is a white light shining from the upper right front.
func DefaultLight() Light {
	dir := r3.Unit(r3.Vec{X: 0.85, Y: 0.8, Z: 0.75})
	return Light{
		Ambient:   [3]float32{0.3, 0.3, 0.3},
		Color:     [3]float32{1, 1, 1},
		Direction: [3]float32{float32(dir.X), float32(dir.Y), float32(dir.Z)},
	}
}

// DefaultTextureURL is loaded by NewTriforce unless WithTexture is given.
const DefaultTextureURL = "assets/triforce.png"

// Option configures a shape at construction.
type Option func(*config)

type config struct {
	log        *slog.Logger
	clear      [4]float32
	textureURL string
	light      Light
}

func newConfig(opts []Option) config {
	cfg := config{
		log:        slog.Default(),
		clear:      [4]float32{0, 0, 0, 1},
		textureURL: DefaultTextureURL,
		light:      DefaultLight(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = slog.Default()
	}
	return cfg
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithClearColor sets the color the canvas is cleared to each frame. Defaults to opaque black.
func WithClearColor(r, g, b, a float32) Option {
	return func(c *config) { c.clear = [4]float32{r, g, b, a} }
}

// WithTexture sets the image url textured shapes load.
func WithTexture(url string) Option {
	return func(c *config) { c.textureURL = url }
}

// WithLight sets the light of lit shapes.
func WithLight(l Light) Option {
	return func(c *config) { c.light = l }
}
