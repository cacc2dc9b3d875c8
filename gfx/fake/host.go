package fake

import (
	"github.com/soypat/psurf/gfx"
)

// Host is an in-memory gfx.Host. Canvases are registered with AddCanvas and
// image loads stay pending until the test resolves them through Image.
type Host struct {
	canvases map[string]*Context
	broken   map[string]gfx.ContextErrorReason
	images   map[string]*gfx.ImageFuture
	// Loads lists every url passed to LoadImage, in order.
	Loads []string
}

var _ gfx.Host = (*Host)(nil)

// NewHost returns a host with no canvases.
func NewHost() *Host {
	return &Host{
		canvases: make(map[string]*Context),
		broken:   make(map[string]gfx.ContextErrorReason),
		images:   make(map[string]*gfx.ImageFuture),
	}
}

// AddCanvas registers a canvas and returns its context.
func (h *Host) AddCanvas(id string) *Context {
	ctx := NewContext()
	h.canvases[id] = ctx
	return ctx
}

// AddBroken registers id as an element whose context cannot be acquired for reason.
func (h *Host) AddBroken(id string, reason gfx.ContextErrorReason) {
	h.broken[id] = reason
}

func (h *Host) Canvas(id string) (gfx.Context, error) {
	if reason, ok := h.broken[id]; ok {
		return nil, &gfx.ContextError{CanvasID: id, Reason: reason}
	}
	ctx, ok := h.canvases[id]
	if !ok {
		return nil, &gfx.ContextError{CanvasID: id, Reason: gfx.MissingElement}
	}
	return ctx, nil
}

// LoadImage returns the future for url, creating a pending one on first use.
func (h *Host) LoadImage(url string) *gfx.ImageFuture {
	h.Loads = append(h.Loads, url)
	return h.Image(url)
}

// Image returns the future LoadImage hands out for url so tests can resolve it.
func (h *Host) Image(url string) *gfx.ImageFuture {
	f, ok := h.images[url]
	if !ok {
		f = gfx.NewImageFuture()
		h.images[url] = f
	}
	return f
}
