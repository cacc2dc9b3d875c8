package gfx_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"testing"

	"github.com/soypat/psurf/gfx"
	"github.com/soypat/psurf/gfx/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const textureURL = "assets/triforce.png"

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func newTexture(t *testing.T, opts ...gfx.Option) (*fake.Host, *fake.Context, *gfx.ImageTexture) {
	t.Helper()
	host := fake.NewHost()
	ctx := host.AddCanvas("glcanvas")
	tex, err := gfx.LoadTexture(ctx, host, textureURL, 0, opts...)
	require.NoError(t, err)
	return host, ctx, tex
}

func TestTexturePlaceholder(t *testing.T) {
	host, ctx, tex := newTexture(t)
	assert.Equal(t, []string{textureURL}, host.Loads)
	st := ctx.TextureState(tex.Handle())
	require.NotNil(t, st)
	assert.Equal(t, 1, st.Width)
	assert.Equal(t, 1, st.Height)
	assert.Equal(t, []byte{0, 0, 0, 255}, st.Pixels)
	assert.True(t, tex.Pending())

	// Nothing changes while the load is in flight.
	assert.False(t, tex.Sync())
	assert.Equal(t, 1, st.Uploads)
}

func TestTexturePowerOfTwoMipmaps(t *testing.T) {
	host, ctx, tex := newTexture(t)
	handle := tex.Handle()
	red := color.NRGBA{R: 255, A: 255}
	host.Image(textureURL).Resolve(solidImage(256, 256, red), nil)

	require.True(t, tex.Sync())
	assert.Equal(t, handle, tex.Handle())
	st := ctx.TextureState(handle)
	assert.Equal(t, 256, st.Width)
	assert.Equal(t, 256, st.Height)
	assert.Len(t, st.Pixels, 256*256*4)
	assert.Equal(t, []byte{255, 0, 0, 255}, st.Pixels[:4])
	assert.True(t, st.Mipmapped)
	assert.True(t, tex.Mipmapped())
	assert.NotContains(t, st.Params, gfx.TextureWrapS)
	assert.False(t, tex.Pending())

	// The swap happens once.
	assert.False(t, tex.Sync())
	assert.Equal(t, 2, st.Uploads)
}

func TestTextureNonPowerOfTwoClamps(t *testing.T) {
	host, ctx, tex := newTexture(t)
	host.Image(textureURL).Resolve(solidImage(100, 100, color.NRGBA{G: 255, A: 255}), nil)
	require.True(t, tex.Sync())
	st := ctx.TextureState(tex.Handle())
	assert.Equal(t, 100, st.Width)
	assert.False(t, st.Mipmapped)
	assert.EqualValues(t, gfx.ClampToEdge, st.Params[gfx.TextureWrapS])
	assert.EqualValues(t, gfx.ClampToEdge, st.Params[gfx.TextureWrapT])
	assert.EqualValues(t, gfx.Linear, st.Params[gfx.TextureMinFilter])
	w, h := tex.Size()
	assert.Equal(t, [2]int{100, 100}, [2]int{w, h})
}

func TestTextureDownscalesToMaxSize(t *testing.T) {
	host, ctx, tex := newTexture(t)
	ctx.MaxTextureSize = 64
	host.Image(textureURL).Resolve(solidImage(512, 256, color.NRGBA{B: 255, A: 255}), nil)
	require.True(t, tex.Sync())
	st := ctx.TextureState(tex.Handle())
	assert.Equal(t, 64, st.Width)
	assert.Equal(t, 32, st.Height)
	assert.True(t, st.Mipmapped)
}

func TestTextureLoadErrorKeepsPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	host, ctx, tex := newTexture(t, gfx.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	host.Image(textureURL).Resolve(nil, errors.New("404 not found"))
	assert.False(t, tex.Sync())
	assert.False(t, tex.Sync())
	st := ctx.TextureState(tex.Handle())
	assert.Equal(t, 1, st.Width)
	assert.Equal(t, 1, st.Uploads)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("texture load failed")))
	assert.Contains(t, buf.String(), "404 not found")
}

func TestTextureBindAndRelease(t *testing.T) {
	_, ctx, tex := newTexture(t)
	ctx.BindTexture(gfx.Texture2D, 0)
	tex.Bind()
	assert.Equal(t, tex.Handle(), ctx.BoundTexture(gfx.Texture0))
	tex.Release()
	assert.Zero(t, ctx.LiveTextures())
	assert.Zero(t, tex.Handle())
}

func TestTextureAllocationRefused(t *testing.T) {
	host := fake.NewHost()
	ctx := host.AddCanvas("glcanvas")
	ctx.RefuseAlloc = true
	_, err := gfx.LoadTexture(ctx, host, textureURL, 0)
	var aerr *gfx.ObjectAllocationError
	require.True(t, errors.As(err, &aerr), "got %v", err)
	assert.Empty(t, host.Loads)
}
