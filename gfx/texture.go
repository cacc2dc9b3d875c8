package gfx

import (
	"log/slog"
)

// placeholderPixel is shown until the real image arrives.
var placeholderPixel = []byte{0, 0, 0, 255}

// ImageTexture is a 2D texture whose contents arrive asynchronously. It starts as
// a 1x1 opaque placeholder so draws always sample a valid texture, and is
// replaced in place, keeping the same handle, once its image loads.
type ImageTexture struct {
	ctx     Context
	handle  Texture
	unit    int
	url     string
	pending *ImageFuture
	width   int
	height  int
	mipmap  bool
	log     *slog.Logger
}

// LoadTexture creates the texture for texture unit unit, uploads the
// placeholder and starts loading url through host. The returned texture
// swaps in the image on the first Sync after the load completes.
func LoadTexture(ctx Context, host Host, url string, unit int, opts ...Option) (*ImageTexture, error) {
	o := newOptions(opts)
	handle, ok := ctx.CreateTexture()
	if !ok {
		return nil, &ObjectAllocationError{Kind: "texture"}
	}
	t := &ImageTexture{
		ctx:    ctx,
		handle: handle,
		unit:   unit,
		url:    url,
		width:  1,
		height: 1,
		log:    o.log,
	}
	ctx.ActiveTexture(Texture0 + Enum(unit))
	ctx.BindTexture(Texture2D, handle)
	ctx.TexImage2D(Texture2D, 0, 1, 1, placeholderPixel)
	t.pending = host.LoadImage(url)
	return t, nil
}

// Handle returns the texture object. It does not change when the image loads.
func (t *ImageTexture) Handle() Texture { return t.handle }

// Size returns the dimensions of the current contents.
func (t *ImageTexture) Size() (width, height int) { return t.width, t.height }

// Mipmapped reports whether the loaded image had power of two sides and
// received a mipmap chain.
func (t *ImageTexture) Mipmapped() bool { return t.mipmap }

// Pending reports whether the image load has not been observed by Sync yet.
func (t *ImageTexture) Pending() bool { return t.pending != nil }

// Sync uploads the loaded image if the load completed since the last call
// and reports whether the contents changed. It must be called on the thread
// that owns the context, typically at the start of each frame. A failed
// load is logged and the placeholder stays.
func (t *ImageTexture) Sync() bool {
	if t.pending == nil || !t.pending.Ready() {
		return false
	}
	img, err := t.pending.Result()
	t.pending = nil
	if err != nil {
		t.log.Warn("texture load failed, keeping placeholder", slog.String("url", t.url), slog.Any("err", err))
		return false
	}
	if img == nil {
		return false
	}
	img = fitTexture(img, t.ctx.GetInteger(MaxTextureSize))
	pix, w, h := rgbaPixels(img)
	t.ctx.ActiveTexture(Texture0 + Enum(t.unit))
	t.ctx.BindTexture(Texture2D, t.handle)
	t.ctx.TexImage2D(Texture2D, 0, w, h, pix)
	t.mipmap = IsPowerOf2(w) && IsPowerOf2(h)
	if t.mipmap {
		t.ctx.GenerateMipmap(Texture2D)
	} else {
		// Non power of two textures cannot mipmap or repeat under WebGL 1.
		t.ctx.TexParameteri(Texture2D, TextureWrapS, int32(ClampToEdge))
		t.ctx.TexParameteri(Texture2D, TextureWrapT, int32(ClampToEdge))
		t.ctx.TexParameteri(Texture2D, TextureMinFilter, int32(Linear))
	}
	t.width, t.height = w, h
	t.log.Debug("texture loaded", slog.String("url", t.url), slog.Int("width", w), slog.Int("height", h), slog.Bool("mipmap", t.mipmap))
	return true
}

// Bind makes the texture current on its texture unit.
func (t *ImageTexture) Bind() {
	t.ctx.ActiveTexture(Texture0 + Enum(t.unit))
	t.ctx.BindTexture(Texture2D, t.handle)
}

// Unit returns the texture unit the texture binds to.
func (t *ImageTexture) Unit() int { return t.unit }

// Release deletes the texture object. A load still in flight is ignored.
func (t *ImageTexture) Release() {
	if t.handle == 0 {
		return
	}
	t.ctx.DeleteTexture(t.handle)
	t.handle = 0
	t.pending = nil
}
