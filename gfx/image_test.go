package gfx

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPowerOf2(t *testing.T) {
	for _, n := range []int{1, 2, 4, 64, 256, 1024, 1 << 20} {
		assert.True(t, IsPowerOf2(n), n)
	}
	for _, n := range []int{0, -2, 3, 6, 100, 255, 1000} {
		assert.False(t, IsPowerOf2(n), n)
	}
}

func TestFitTexture(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 300, 150))
	assert.Same(t, img, fitTexture(img, 0))
	assert.Same(t, img, fitTexture(img, 300))
	got := fitTexture(img, 100)
	assert.Equal(t, 100, got.Bounds().Dx())
	assert.Equal(t, 50, got.Bounds().Dy())
}

func TestRGBAPixelsSubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(2, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	sub := img.SubImage(image.Rect(2, 2, 4, 4))
	pix, w, h := rgbaPixels(sub)
	require.Equal(t, 2, w)
	require.Equal(t, 2, h)
	assert.Len(t, pix, 2*2*4)
	assert.Equal(t, []byte{10, 20, 30, 255}, pix[:4])
}

func TestDecodeImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 5))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	img, err := DecodeImage(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 5), img.Bounds())

	_, err = DecodeImage(bytes.NewReader([]byte("not an image")))
	assert.ErrorIs(t, err, image.ErrFormat)
}
