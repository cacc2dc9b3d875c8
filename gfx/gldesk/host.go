//go:build !js

package gldesk

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/psurf/gfx"
	"github.com/soypat/psurf/gfx/imgload"
)

// WindowConfig describes a window opened as a canvas.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
	// Hidden windows are useful for headless rendering.
	Hidden bool
}

// Host is a gfx.Host whose canvases are GLFW windows registered by id.
// Images are loaded through an imgload.Loader.
type Host struct {
	windows  map[string]*glfw.Window
	loader   *imgload.Loader
	log      *slog.Logger
	glLoaded bool
}

var _ gfx.Host = (*Host)(nil)

// Init initializes GLFW and returns the function that terminates it.
func Init() (terminate func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initializing glfw: %w", err)
	}
	return glfw.Terminate, nil
}

// NewHost returns a host without windows. A nil loader uses imgload defaults.
func NewHost(loader *imgload.Loader, log *slog.Logger) *Host {
	if log == nil {
		log = slog.Default()
	}
	if loader == nil {
		loader = imgload.New(imgload.WithLogger(log))
	}
	return &Host{
		windows: make(map[string]*glfw.Window),
		loader:  loader,
		log:     log,
	}
}

// OpenWindow creates an OpenGL 2.1 window and registers it as canvas id.
// The window's context is left current. Init must have been called.
func (h *Host) OpenWindow(id string, cfg WindowConfig) (*glfw.Window, error) {
	if _, ok := h.windows[id]; ok {
		return nil, fmt.Errorf("gldesk: canvas %q already open", id)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	visible := glfw.True
	if cfg.Hidden {
		visible = glfw.False
	}
	glfw.WindowHint(glfw.Visible, visible)
	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, &gfx.ContextError{CanvasID: id, Reason: gfx.ContextRefused, Err: err}
	}
	win.MakeContextCurrent()
	if !h.glLoaded {
		if err := gl.Init(); err != nil {
			win.Destroy()
			return nil, &gfx.ContextError{CanvasID: id, Reason: gfx.ContextRefused, Err: err}
		}
		h.glLoaded = true
		h.log.Info("opengl loaded", slog.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
			slog.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))))
	}
	// Shaders set gl_PointSize, which desktop GL ignores unless enabled.
	gl.Enable(gl.VERTEX_PROGRAM_POINT_SIZE)
	h.windows[id] = win
	return win, nil
}

// Window returns the window registered as canvas id.
func (h *Host) Window(id string) (*glfw.Window, bool) {
	win, ok := h.windows[id]
	return win, ok
}

// CloseWindow destroys the window registered as canvas id.
func (h *Host) CloseWindow(id string) {
	if win, ok := h.windows[id]; ok {
		win.Destroy()
		delete(h.windows, id)
	}
}

// Canvas makes the window registered as id current and returns its context.
func (h *Host) Canvas(id string) (gfx.Context, error) {
	if h == nil {
		return nil, &gfx.ContextError{CanvasID: id, Reason: gfx.MissingWindow}
	}
	win, ok := h.windows[id]
	if !ok {
		return nil, &gfx.ContextError{CanvasID: id, Reason: gfx.MissingElement}
	}
	if !h.glLoaded {
		return nil, &gfx.ContextError{CanvasID: id, Reason: gfx.ContextRefused, Err: errors.New("opengl not loaded")}
	}
	win.MakeContextCurrent()
	return Context{}, nil
}

// LoadImage loads url in the background.
func (h *Host) LoadImage(url string) *gfx.ImageFuture {
	return h.loader.LoadImage(url)
}
