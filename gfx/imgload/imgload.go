// Package imgload fetches and decodes texture images in the background for
// hosts that are not a browser. Images are read from HTTP(S) URLs or from
// files relative to a root directory, and decoded images are kept in a
// small expiring LRU cache so several surfaces can share a texture source.
package imgload

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/soypat/psurf/gfx"
)

// Defaults for Loader.
const (
	DefaultCacheSize = 16
	DefaultCacheTTL  = 30 * time.Minute
	DefaultTimeout   = 30 * time.Second
)

// Loader resolves image URLs to gfx.ImageFuture values. It is safe for
// concurrent use.
type Loader struct {
	root   string
	client *http.Client
	cache  *expirable.LRU[string, image.Image]
	log    *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithRoot sets the directory relative file URLs are resolved against.
// Defaults to the working directory.
func WithRoot(dir string) Option {
	return func(l *Loader) { l.root = dir }
}

// WithHTTPClient sets the client used for http and https URLs.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithCache sets the number of decoded images kept and for how long.
func WithCache(size int, ttl time.Duration) Option {
	return func(l *Loader) { l.cache = expirable.NewLRU[string, image.Image](size, nil, ttl) }
}

// WithLogger sets the logger failed loads are reported to.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// New returns a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		client: &http.Client{Timeout: DefaultTimeout},
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.cache == nil {
		l.cache = expirable.NewLRU[string, image.Image](DefaultCacheSize, nil, DefaultCacheTTL)
	}
	return l
}

// LoadImage starts loading url and returns its future. Cached images
// return an already resolved future.
func (l *Loader) LoadImage(url string) *gfx.ImageFuture {
	if img, ok := l.cache.Get(url); ok {
		return gfx.ResolvedImage(img, nil)
	}
	f := gfx.NewImageFuture()
	go func() {
		img, err := l.Load(url)
		if err != nil {
			l.log.Warn("image load failed", slog.String("url", url), slog.Any("err", err))
		}
		f.Resolve(img, err)
	}()
	return f
}

// Load fetches and decodes url synchronously, consulting and filling the cache.
func (l *Loader) Load(url string) (image.Image, error) {
	if img, ok := l.cache.Get(url); ok {
		return img, nil
	}
	rc, err := l.open(url)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	img, err := gfx.DecodeImage(rc)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", url, err)
	}
	l.cache.Add(url, img)
	return img, nil
}

func (l *Loader) open(url string) (io.ReadCloser, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		resp, err := l.client.Get(url)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetching %s: %s", url, resp.Status)
		}
		return resp.Body, nil
	}
	path := filepath.FromSlash(strings.TrimPrefix(url, "file://"))
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.root, path)
	}
	return os.Open(path)
}
