//go:build js && wasm

package webgl

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"syscall/js"

	"github.com/soypat/psurf/gfx"
)

// Host is a gfx.Host backed by the page's DOM. Canvases are looked up by
// element id and images are loaded with HTML image elements.
type Host struct {
	global js.Value
	log    *slog.Logger
	// contexts keeps one Context per canvas so handles survive repeated lookups.
	contexts map[string]*Context
}

var _ gfx.Host = (*Host)(nil)

// NewHost returns a host for the global JavaScript scope.
func NewHost(log *slog.Logger) *Host {
	if log == nil {
		log = slog.Default()
	}
	return &Host{global: js.Global(), log: log, contexts: make(map[string]*Context)}
}

// Canvas finds the canvas element with the given id and returns its WebGL context.
func (h *Host) Canvas(id string) (gfx.Context, error) {
	if c, ok := h.contexts[id]; ok {
		return c, nil
	}
	window := h.global.Get("window")
	if !present(window) {
		return nil, &gfx.ContextError{CanvasID: id, Reason: gfx.MissingWindow}
	}
	document := window.Get("document")
	if !present(document) {
		return nil, &gfx.ContextError{CanvasID: id, Reason: gfx.MissingDocument}
	}
	el := document.Call("getElementById", id)
	if !present(el) {
		return nil, &gfx.ContextError{CanvasID: id, Reason: gfx.MissingElement}
	}
	if !isCanvas(el) {
		return nil, &gfx.ContextError{CanvasID: id, Reason: gfx.NotCanvas,
			Err: fmt.Errorf("element is <%s>", el.Get("tagName").String())}
	}
	gl := el.Call("getContext", "webgl")
	if !present(gl) {
		gl = el.Call("getContext", "experimental-webgl")
	}
	if !present(gl) {
		return nil, &gfx.ContextError{CanvasID: id, Reason: gfx.ContextRefused}
	}
	c := NewContext(gl)
	h.contexts[id] = c
	h.log.Debug("webgl context acquired", slog.String("canvas", id),
		slog.Int("width", el.Get("width").Int()), slog.Int("height", el.Get("height").Int()))
	return c, nil
}

// LoadImage starts loading url with an image element. The future resolves
// from the element's load or error event.
func (h *Host) LoadImage(url string) *gfx.ImageFuture {
	f := gfx.NewImageFuture()
	document := h.global.Get("document")
	if !present(document) {
		f.Resolve(nil, errors.New("webgl: no document to load images with"))
		return f
	}
	img := h.global.Get("Image").New()
	var onload, onerror js.Func
	release := func() {
		onload.Release()
		onerror.Release()
	}
	onload = js.FuncOf(func(this js.Value, args []js.Value) any {
		defer release()
		rgba, err := readPixels(document, img)
		if err != nil {
			h.log.Warn("image decode failed", slog.String("url", url), slog.Any("err", err))
		}
		f.Resolve(rgba, err)
		return nil
	})
	onerror = js.FuncOf(func(this js.Value, args []js.Value) any {
		defer release()
		err := fmt.Errorf("webgl: loading image %s failed", url)
		h.log.Warn("image load failed", slog.String("url", url))
		f.Resolve(nil, err)
		return nil
	})
	img.Set("crossOrigin", "anonymous")
	img.Set("onload", onload)
	img.Set("onerror", onerror)
	img.Set("src", url)
	return f
}

// readPixels draws a loaded image element on an offscreen 2D canvas and
// copies its pixels into an image.NRGBA.
func readPixels(document, img js.Value) (*image.NRGBA, error) {
	w, h := img.Get("naturalWidth").Int(), img.Get("naturalHeight").Int()
	if w == 0 || h == 0 {
		return nil, errors.New("webgl: image has no pixels")
	}
	canvas := document.Call("createElement", "canvas")
	canvas.Set("width", w)
	canvas.Set("height", h)
	ctx2d := canvas.Call("getContext", "2d")
	if !present(ctx2d) {
		return nil, errors.New("webgl: 2d context unavailable")
	}
	ctx2d.Call("drawImage", img, 0, 0)
	data := ctx2d.Call("getImageData", 0, 0, w, h).Get("data")
	// getImageData returns a Uint8ClampedArray which CopyBytesToGo rejects.
	buf := js.Global().Get("Uint8Array").New(data.Get("buffer"))
	nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	if n := js.CopyBytesToGo(nrgba.Pix, buf); n != len(nrgba.Pix) {
		return nil, fmt.Errorf("webgl: copied %d of %d pixel bytes", n, len(nrgba.Pix))
	}
	return nrgba, nil
}

func present(v js.Value) bool { return !v.IsNull() && !v.IsUndefined() }

func isCanvas(el js.Value) bool {
	ctor := js.Global().Get("HTMLCanvasElement")
	if present(ctor) {
		return el.InstanceOf(ctor)
	}
	return el.Get("tagName").String() == "CANVAS"
}
