package gfx

import (
	"context"
	"image"
	"sync"
)

// ImageFuture is the one-shot result of an asynchronous image load.
// It is resolved exactly once by the host, from any goroutine or callback.
type ImageFuture struct {
	once sync.Once
	done chan struct{}
	img  image.Image
	err  error
}

// NewImageFuture returns an unresolved future.
func NewImageFuture() *ImageFuture {
	return &ImageFuture{done: make(chan struct{})}
}

// ResolvedImage returns a future already resolved with img and err.
func ResolvedImage(img image.Image, err error) *ImageFuture {
	f := NewImageFuture()
	f.Resolve(img, err)
	return f
}

// Resolve completes the future. Calls after the first are ignored.
func (f *ImageFuture) Resolve(img image.Image, err error) {
	f.once.Do(func() {
		f.img, f.err = img, err
		close(f.done)
	})
}

// Done is closed once the future is resolved.
func (f *ImageFuture) Done() <-chan struct{} { return f.done }

// Ready reports whether the future has been resolved.
func (f *ImageFuture) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result returns the resolved image and error. It must only be called
// after Ready returns true or Done is closed.
func (f *ImageFuture) Result() (image.Image, error) {
	return f.img, f.err
}

// Wait blocks until the future resolves or ctx is done.
func (f *ImageFuture) Wait(ctx context.Context) (image.Image, error) {
	select {
	case <-f.done:
		return f.img, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
