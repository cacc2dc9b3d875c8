package psurf_test

import (
	"bytes"
	"errors"
	"image"
	"log/slog"
	"math"
	"testing"

	"github.com/soypat/psurf"
	"github.com/soypat/psurf/gfx"
	"github.com/soypat/psurf/gfx/fake"
	"github.com/soypat/psurf/internal/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const canvasID = "parametric-surface"

func assertTransform(t *testing.T, want d3.Transform, got []float32, msgAndArgs ...interface{}) {
	t.Helper()
	arr := want.Array()
	require.Len(t, got, 16, msgAndArgs...)
	for i := range arr {
		assert.InDelta(t, arr[i], got[i], 1e-6, msgAndArgs...)
	}
}

func TestCubeRenderEndToEnd(t *testing.T) {
	host := fake.NewHost()
	ctx := host.AddCanvas(canvasID)
	cube, err := psurf.NewCube(host, canvasID)
	require.NoError(t, err)
	defer cube.Release()

	ctx.Calls = nil
	require.NoError(t, cube.Render(512, 512, 0))

	require.Len(t, ctx.Draws, 3)
	frame := psurf.CubeFrame(512, 512, 0)
	wantColors := [][]float32{{0, 1, 0}, {1, 0, 0}, {0, 0, 1}}
	for i, d := range ctx.Draws {
		assert.Equal(t, gfx.Lines, d.Mode)
		assert.Equal(t, 0, d.First)
		assert.Equal(t, 24, d.Count)
		assert.Equal(t, wantColors[i], d.Uniforms["color"], frame.Parts[i].Name)
		assertTransform(t, frame.Parts[i].Model, d.Uniforms["m"], frame.Parts[i].Name)
		assertTransform(t, frame.View, d.Uniforms["v"])
		assertTransform(t, frame.Projection, d.Uniforms["p"])
	}
	assert.Equal(t, 1, ctx.Flushes)
	assert.Equal(t, "Flush", ctx.Calls[len(ctx.Calls)-1])
	assert.Equal(t, [4]int{0, 0, 512, 512}, ctx.View)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, ctx.ClearRGBA)
	assert.Equal(t, float32(1), ctx.ClearDepthValue)
	assert.Equal(t, gfx.ColorBufferBit|gfx.DepthBufferBit, ctx.Cleared)
}

func TestCubeFrameOrder(t *testing.T) {
	f := psurf.CubeFrame(800, 600, 1.3)
	require.Len(t, f.Parts, 3)
	assert.Equal(t, "outer", f.Parts[0].Name)
	assert.Equal(t, "middle", f.Parts[1].Name)
	assert.Equal(t, "inner", f.Parts[2].Name)
}

func TestProjectionAspect(t *testing.T) {
	for _, size := range [][2]int{{512, 512}, {800, 600}, {300, 1200}, {1920, 1080}} {
		w, h := size[0], size[1]
		p := psurf.ProjectionMatrix(w, h).Array()
		assert.InDelta(t, float64(w)/float64(h), float64(p[5]/p[0]), 1e-5)
		for _, k := range []int{2, 3, 7} {
			q := psurf.ProjectionMatrix(k*w, k*h)
			assert.True(t, q.EqualWithin(psurf.ProjectionMatrix(w, h), 1e-12), "k=%d", k)
		}
	}
}

func TestViewMatrixConstant(t *testing.T) {
	first := psurf.ViewMatrix()
	for i := 0; i < 5; i++ {
		psurf.CubeFrame(640, 480, float64(i))
		assert.Equal(t, first, psurf.ViewMatrix())
	}
	assert.Equal(t, first, psurf.TriforceFrame(1, 1, 3).View)
}

func TestModelPeriodic(t *testing.T) {
	frames := []func(w, h int, dtheta float64) psurf.Frame{psurf.CubeFrame, psurf.TorusFrame, psurf.TriforceFrame}
	for _, dtheta := range []float64{0, 0.1, 1, math.Pi, 5.9, 42.5, -3} {
		for _, frame := range frames {
			a := frame(640, 480, dtheta)
			b := frame(640, 480, dtheta+2*math.Pi)
			require.Equal(t, len(a.Parts), len(b.Parts))
			for i := range a.Parts {
				assert.True(t, a.Parts[i].Model.EqualWithin(b.Parts[i].Model, 1e-9), "%s dtheta=%v", a.Parts[i].Name, dtheta)
			}
		}
	}
}

func TestPhase(t *testing.T) {
	assert.InDelta(t, math.Pi/4, psurf.Phase(0), 1e-15)
	assert.InDelta(t, math.Pi/4, psurf.Phase(2*math.Pi), 1e-12)
	assert.InDelta(t, 0.25+math.Pi/4, psurf.Phase(0.25), 1e-15)
	for _, d := range []float64{0, 1, 10, 100, 1e4} {
		p := psurf.Phase(d)
		assert.True(t, p >= 0 && p < 2*math.Pi, "phase %v out of range", p)
	}
}

func TestConstructionUnknownCanvas(t *testing.T) {
	host := fake.NewHost()
	other := host.AddCanvas("other")
	constructors := map[string]func() error{
		"cube":     func() error { _, err := psurf.NewCube(host, "missing"); return err },
		"torus":    func() error { _, err := psurf.NewTorus(host, "missing"); return err },
		"triforce": func() error { _, err := psurf.NewTriforce(host, "missing"); return err },
	}
	for name, construct := range constructors {
		err := construct()
		var cerr *gfx.ContextError
		require.True(t, errors.As(err, &cerr), "%s: got %v", name, err)
		assert.Equal(t, gfx.MissingElement, cerr.Reason)
	}
	assert.Zero(t, other.Allocations())
	assert.Empty(t, host.Loads)
}

func TestConstructionShaderError(t *testing.T) {
	host := fake.NewHost()
	ctx := host.AddCanvas(canvasID)
	ctx.FailCompile = func(string) bool { return true }
	for i := 0; i < 5; i++ {
		_, err := psurf.NewTorus(host, canvasID)
		var serr *gfx.ShaderCompileError
		require.True(t, errors.As(err, &serr), "got %v", err)
		assert.Equal(t, gfx.VertexStage, serr.Stage)
	}
	assert.Zero(t, ctx.Live())
}

func TestConstructionReleasesOnFailure(t *testing.T) {
	// Triforce allocates two shaders, a program, a buffer and a texture.
	for limit := 1; limit < 5; limit++ {
		host := fake.NewHost()
		ctx := host.AddCanvas(canvasID)
		ctx.AllocLimit = limit
		tri, err := psurf.NewTriforce(host, canvasID)
		assert.Nil(t, tri)
		require.Error(t, err, "limit %d", limit)
		assert.Zero(t, ctx.Live(), "limit %d leaked objects", limit)
	}
	host := fake.NewHost()
	ctx := host.AddCanvas(canvasID)
	ctx.AllocLimit = 5
	tri, err := psurf.NewTriforce(host, canvasID)
	require.NoError(t, err)
	assert.Equal(t, 3, ctx.Live()) // Program, buffer and texture.
	tri.Release()
	assert.Zero(t, ctx.Live())
}

func TestConstructionBufferError(t *testing.T) {
	host := fake.NewHost()
	ctx := host.AddCanvas(canvasID)
	ctx.AllocLimit = 4 // Torus positions buffer is created, colors buffer is refused.
	_, err := psurf.NewTorus(host, canvasID)
	var berr *gfx.BufferAllocationError
	require.True(t, errors.As(err, &berr), "got %v", err)
	assert.Equal(t, "colors", berr.Name)
	assert.Zero(t, ctx.Live())
}

func TestTorusRender(t *testing.T) {
	host := fake.NewHost()
	ctx := host.AddCanvas(canvasID)
	torus, err := psurf.NewTorus(host, canvasID)
	require.NoError(t, err)
	assert.Equal(t, 2, ctx.LiveBuffers())

	require.NoError(t, torus.Render(640, 480, 2.5))
	require.Len(t, ctx.Draws, 1)
	d := ctx.Draws[0]
	assert.Equal(t, gfx.Points, d.Mode)
	assert.Equal(t, psurf.TorusSteps*psurf.TorusSteps, d.Count)
	assertTransform(t, psurf.TorusFrame(640, 480, 2.5).Parts[0].Model, d.Uniforms["m"])

	for i := uint32(0); i < 2; i++ {
		a, ok := ctx.Attrib(i)
		require.True(t, ok)
		assert.Zero(t, a.Stride)
		assert.Len(t, ctx.BufferContents(a.Buffer), 3*psurf.TorusSteps*psurf.TorusSteps)
	}
	torus.Release()
	assert.Zero(t, ctx.Live())
}

func TestTriforceTextureSwap(t *testing.T) {
	host := fake.NewHost()
	ctx := host.AddCanvas(canvasID)
	tri, err := psurf.NewTriforce(host, canvasID, psurf.WithTexture("img/rock.png"))
	require.NoError(t, err)
	defer tri.Release()
	require.Equal(t, []string{"img/rock.png"}, host.Loads)
	handle := tri.Texture().Handle()

	require.NoError(t, tri.Render(512, 512, 0))
	require.Len(t, ctx.Draws, 3)
	for _, d := range ctx.Draws {
		assert.Equal(t, gfx.Triangles, d.Mode)
		assert.Equal(t, 3, d.Count)
		assert.Equal(t, []float32{0}, d.Uniforms["uSampler"])
	}
	assert.Equal(t, handle, ctx.BoundTexture(gfx.Texture0))
	assert.Equal(t, 1, ctx.TextureState(handle).Width)

	host.Image("img/rock.png").Resolve(image.NewNRGBA(image.Rect(0, 0, 256, 256)), nil)
	require.NoError(t, tri.Render(512, 512, 0.5))
	assert.Equal(t, handle, tri.Texture().Handle())
	st := ctx.TextureState(handle)
	assert.Equal(t, 256, st.Width)
	assert.True(t, st.Mipmapped)
}

func TestTriforceUniforms(t *testing.T) {
	host := fake.NewHost()
	ctx := host.AddCanvas(canvasID)
	light := psurf.Light{Ambient: [3]float32{0.2, 0.2, 0.2}, Color: [3]float32{1, 0.5, 1}, Direction: [3]float32{0, 0, 2}}
	tri, err := psurf.NewTriforce(host, canvasID, psurf.WithLight(light))
	require.NoError(t, err)
	require.NoError(t, tri.Render(800, 600, 1))

	frame := psurf.TriforceFrame(800, 600, 1)
	require.Len(t, ctx.Draws, len(frame.Parts))
	for i, d := range ctx.Draws {
		mv := frame.View.Mul(frame.Parts[i].Model)
		assertTransform(t, mv, d.Uniforms["mv"], frame.Parts[i].Name)
		assertTransform(t, mv.NormalMatrix(), d.Uniforms["normalMatrix"], frame.Parts[i].Name)
		assertTransform(t, frame.Projection, d.Uniforms["p"])
		assert.Equal(t, []float32{0, 0, 1}, d.Uniforms["lightDirection"])
		assert.Equal(t, []float32{1, 0.5, 1}, d.Uniforms["lightColor"])
		assert.Equal(t, []float32{0.2, 0.2, 0.2}, d.Uniforms["ambientLight"])
	}
}

func TestOptimizedUniform(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	host := fake.NewHost()
	ctx := host.AddCanvas(canvasID)
	ctx.Optimized = map[string]bool{"ambientLight": true}
	tri, err := psurf.NewTriforce(host, canvasID, psurf.WithLogger(log))
	require.NoError(t, err, "a dropped uniform must not fail construction")
	assert.Contains(t, buf.String(), "uniform=ambientLight")

	err = tri.Render(512, 512, 0)
	var uerr *gfx.UnknownUniformError
	require.True(t, errors.As(err, &uerr), "got %v", err)
	assert.Equal(t, "ambientLight", uerr.Name)
	assert.Empty(t, ctx.Draws)
}

func TestClearColorOption(t *testing.T) {
	host := fake.NewHost()
	ctx := host.AddCanvas(canvasID)
	cube, err := psurf.NewCube(host, canvasID, psurf.WithClearColor(0.1, 0.2, 0.3, 1))
	require.NoError(t, err)
	require.NoError(t, cube.Render(10, 10, 0))
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, ctx.ClearRGBA)
}

func TestInterleavedRenderersReactivate(t *testing.T) {
	host := fake.NewHost()
	ctx := host.AddCanvas(canvasID)
	cube, err := psurf.NewCube(host, canvasID)
	require.NoError(t, err)
	torus, err := psurf.NewTorus(host, canvasID)
	require.NoError(t, err)

	require.NoError(t, cube.Render(100, 100, 0))
	require.NoError(t, torus.Render(100, 100, 0))
	require.NoError(t, cube.Render(100, 100, 0))
	require.Len(t, ctx.Draws, 7)
	cubeProg := ctx.Draws[0].Program
	assert.NotEqual(t, cubeProg, ctx.Draws[3].Program)
	assert.Equal(t, cubeProg, ctx.Draws[6].Program)
	assert.Equal(t, []float32{0, 1, 0}, ctx.Draws[4].Uniforms["color"])
}
