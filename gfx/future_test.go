package gfx_test

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/soypat/psurf/gfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageFutureResolvesOnce(t *testing.T) {
	f := gfx.NewImageFuture()
	assert.False(t, f.Ready())
	first := image.NewNRGBA(image.Rect(0, 0, 2, 2))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i == 0 {
				f.Resolve(first, nil)
				return
			}
			<-f.Done()
			f.Resolve(nil, errors.New("late"))
		}(i)
	}
	wg.Wait()
	require.True(t, f.Ready())
	img, err := f.Result()
	assert.NoError(t, err)
	assert.Same(t, first, img)
}

func TestImageFutureWait(t *testing.T) {
	f := gfx.NewImageFuture()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	want := errors.New("decode failed")
	f = gfx.ResolvedImage(nil, want)
	_, err = f.Wait(context.Background())
	assert.ErrorIs(t, err, want)
}
