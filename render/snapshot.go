package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/psurf"
	"github.com/soypat/psurf/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Snapshot rasterizes frames of the psurf shapes on the CPU. It follows the
// transforms, colors and lighting of the GPU renderers so a frame can be
// inspected or saved without a graphics context.
type Snapshot struct {
	Width  int
	Height int
	// Supersample renders at this multiple of the output size and
	// downsamples for antialiasing. Values below 1 are treated as 1.
	Supersample int
	// Clear is the background color. nil means opaque black.
	Clear color.Color
	// Light lights the triforce. The zero value uses psurf.DefaultLight.
	Light psurf.Light
	// Texture is sampled by the triforce. nil samples opaque white.
	Texture image.Image
	// PointSize is the torus point diameter in output pixels. Defaults to 2.
	PointSize float64
}

// Shapes lists the names accepted by Shape.
var Shapes = []string{"cube", "torus", "triforce"}

// Shape renders the shape with the given name.
func (s Snapshot) Shape(name string, dtheta float64) (image.Image, error) {
	switch name {
	case "cube":
		return s.Cube(dtheta), nil
	case "torus":
		return s.Torus(dtheta), nil
	case "triforce":
		return s.Triforce(dtheta), nil
	}
	return nil, fmt.Errorf("render: unknown shape %q", name)
}

// Cube renders the three nested wireframe cubes.
func (s Snapshot) Cube(dtheta float64) image.Image {
	ctx, scale := s.context()
	mesh := psurf.CubeMesh()
	lines := make([]*fauxgl.Line, 0, mesh.Len()/2)
	for i := 0; i+1 < mesh.Len(); i += 2 {
		lines = append(lines, fauxgl.NewLine(vertex(mesh.Positions[i]), vertex(mesh.Positions[i+1])))
	}
	ctx.LineWidth = float64(scale)
	f := psurf.CubeFrame(s.Width, s.Height, dtheta)
	for _, part := range f.Parts {
		c := part.Color
		ctx.Shader = fauxgl.NewSolidColorShader(mvp(f, part), fauxgl.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: 1})
		ctx.DrawLines(lines)
	}
	return s.downsample(ctx)
}

// Torus renders the torus point cloud. Points are drawn as screen aligned squares.
func (s Snapshot) Torus(dtheta float64) image.Image {
	ctx, scale := s.context()
	mesh := psurf.TorusMesh()
	size := s.PointSize
	if size <= 0 {
		size = 2
	}
	tris := make([]*fauxgl.Triangle, 0, 2*mesh.Len())
	for i, p := range mesh.Positions {
		col := mesh.Colors[i]
		corner := func(x, y float64) fauxgl.Vertex {
			v := vertex(p)
			v.Texture = fauxgl.V(x, y, 0)
			v.Color = fauxgl.Color{R: float64(col.X), G: float64(col.Y), B: float64(col.Z), A: 1}
			return v
		}
		a, b, c, d := corner(-1, -1), corner(1, -1), corner(1, 1), corner(-1, 1)
		tris = append(tris, fauxgl.NewTriangle(a, b, c), fauxgl.NewTriangle(a, c, d))
	}
	f := psurf.TorusFrame(s.Width, s.Height, dtheta)
	for _, part := range f.Parts {
		ctx.Shader = &pointShader{
			matrix: mvp(f, part),
			dx:     size * float64(scale) / float64(ctx.Width),
			dy:     size * float64(scale) / float64(ctx.Height),
		}
		ctx.DrawTriangles(tris)
	}
	return s.downsample(ctx)
}

// Triforce renders the three textured triangles with per vertex lighting.
func (s Snapshot) Triforce(dtheta float64) image.Image {
	ctx, _ := s.context()
	mesh := psurf.TriforceMesh()
	light := s.Light
	if light == (psurf.Light{}) {
		light = psurf.DefaultLight()
	}
	dir := r3.Unit(r3.Vec{X: float64(light.Direction[0]), Y: float64(light.Direction[1]), Z: float64(light.Direction[2])})
	f := psurf.TriforceFrame(s.Width, s.Height, dtheta)
	shader := &textureShader{tex: s.Texture}
	ctx.Shader = shader
	for _, part := range f.Parts {
		normal := f.View.Mul(part.Model).NormalMatrix()
		var vs [3]fauxgl.Vertex
		for i, p := range mesh.Positions {
			n := r3.Unit(normal.Direction(r3Vec(mesh.Normals[i])))
			lit := max(r3.Dot(n, dir), 0)
			v := vertex(p)
			uv := mesh.TexCoords[i]
			v.Texture = fauxgl.V(float64(uv[0]), float64(uv[1]), 0)
			v.Color = fauxgl.Color{
				R: float64(light.Ambient[0]) + float64(light.Color[0])*lit,
				G: float64(light.Ambient[1]) + float64(light.Color[1])*lit,
				B: float64(light.Ambient[2]) + float64(light.Color[2])*lit,
				A: 1,
			}
			vs[i] = v
		}
		shader.matrix = mvp(f, part)
		ctx.DrawTriangle(fauxgl.NewTriangle(vs[0], vs[1], vs[2]))
	}
	return s.downsample(ctx)
}

func (s Snapshot) context() (*fauxgl.Context, int) {
	scale := max(s.Supersample, 1)
	ctx := fauxgl.NewContext(s.Width*scale, s.Height*scale)
	bg := fauxgl.Black
	if s.Clear != nil {
		bg = fauxgl.MakeColor(s.Clear)
	}
	ctx.ClearColorBufferWith(bg)
	ctx.ClearDepthBuffer()
	ctx.Cull = fauxgl.CullNone
	return ctx, scale
}

func (s Snapshot) downsample(ctx *fauxgl.Context) image.Image {
	img := ctx.Image()
	if ctx.Width == s.Width && ctx.Height == s.Height {
		return img
	}
	return resize.Resize(uint(s.Width), uint(s.Height), img, resize.Bilinear)
}

// mvp returns projection * view * model as a fauxgl matrix.
func mvp(f psurf.Frame, part psurf.Part) fauxgl.Matrix {
	return matrix(f.Projection.Mul(f.View).Mul(part.Model))
}

func matrix(t d3.Transform) fauxgl.Matrix {
	a := t.SliceCopy()
	return fauxgl.Matrix{
		X00: a[0], X01: a[1], X02: a[2], X03: a[3],
		X10: a[4], X11: a[5], X12: a[6], X13: a[7],
		X20: a[8], X21: a[9], X22: a[10], X23: a[11],
		X30: a[12], X31: a[13], X32: a[14], X33: a[15],
	}
}

func vertex(p ms3.Vec) fauxgl.Vertex {
	return fauxgl.Vertex{Position: fauxgl.V(float64(p.X), float64(p.Y), float64(p.Z))}
}

func r3Vec(v ms3.Vec) r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

// pointShader offsets each vertex in clip space by its texture coordinate
// scaled to the point size, turning a degenerate quad into a square.
type pointShader struct {
	matrix fauxgl.Matrix
	dx, dy float64
}

func (ps *pointShader) Vertex(v fauxgl.Vertex) fauxgl.Vertex {
	out := ps.matrix.MulPositionW(v.Position)
	out.X += v.Texture.X * ps.dx * out.W
	out.Y += v.Texture.Y * ps.dy * out.W
	v.Output = out
	return v
}

func (ps *pointShader) Fragment(v fauxgl.Vertex) fauxgl.Color { return v.Color }

// textureShader modulates a nearest texel by the interpolated vertex lighting.
type textureShader struct {
	matrix fauxgl.Matrix
	tex    image.Image
}

func (ts *textureShader) Vertex(v fauxgl.Vertex) fauxgl.Vertex {
	v.Output = ts.matrix.MulPositionW(v.Position)
	return v
}

func (ts *textureShader) Fragment(v fauxgl.Vertex) fauxgl.Color {
	texel := fauxgl.White
	if ts.tex != nil {
		texel = fauxgl.MakeColor(sample(ts.tex, v.Texture.X, v.Texture.Y))
	}
	return fauxgl.Color{
		R: min(texel.R*v.Color.R, 1),
		G: min(texel.G*v.Color.G, 1),
		B: min(texel.B*v.Color.B, 1),
		A: texel.A,
	}
}

// sample returns the texel nearest to (u, v), with v = 0 at the top row.
// Coordinates are clamped to the image.
func sample(img image.Image, u, v float64) color.Color {
	b := img.Bounds()
	x := b.Min.X + int(u*float64(b.Dx()-1)+0.5)
	y := b.Min.Y + int(v*float64(b.Dy()-1)+0.5)
	x = min(max(x, b.Min.X), b.Max.X-1)
	y = min(max(y, b.Min.Y), b.Max.Y-1)
	return img.At(x, y)
}
