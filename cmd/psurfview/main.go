// Command psurfview draws one of the psurf shapes in a desktop window,
// rotating it by the seconds elapsed since start.
//
// Usage:
//
//	psurfview [-config psurfview.toml] [-shape cube|torus|triforce] [flags]
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/psurf"
	"github.com/soypat/psurf/gfx"
	"github.com/soypat/psurf/gfx/gldesk"
	"github.com/soypat/psurf/gfx/imgload"
	"github.com/soypat/psurf/internal/logging"
	"github.com/soypat/psurf/internal/viewcfg"
)

func init() {
	// GLFW event handling must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	cfg, err := viewcfg.ParseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "psurfview:", err)
		os.Exit(2)
	}
	log, closer, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "psurfview:", err)
		os.Exit(2)
	}
	defer closer.Close()
	if err := run(cfg, log); err != nil {
		log.Error("psurfview failed", slog.Any("err", err))
		closer.Close()
		os.Exit(1)
	}
}

func run(cfg viewcfg.Config, log *slog.Logger) error {
	terminate, err := gldesk.Init()
	if err != nil {
		return err
	}
	defer terminate()

	loader := imgload.New(imgload.WithRoot(cfg.AssetRoot), imgload.WithLogger(log))
	host := gldesk.NewHost(loader, log)
	win, err := host.OpenWindow(cfg.Canvas, gldesk.WindowConfig{
		Title:  cfg.Title,
		Width:  cfg.Width,
		Height: cfg.Height,
	})
	if err != nil {
		return err
	}
	defer host.CloseWindow(cfg.Canvas)
	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	surf, err := newSurface(host, cfg, log)
	if err != nil {
		return err
	}
	defer surf.Release()

	log.Info("rendering", slog.String("shape", cfg.Shape), slog.Int("fps", cfg.FrameRate))
	ticker := time.NewTicker(time.Second / time.Duration(cfg.FrameRate))
	defer ticker.Stop()
	start := time.Now()
	for !win.ShouldClose() {
		<-ticker.C
		width, height := win.GetFramebufferSize()
		if height > 0 {
			if err := surf.Render(width, height, time.Since(start).Seconds()); err != nil {
				return err
			}
			win.SwapBuffers()
		}
		glfw.PollEvents()
	}
	return nil
}

func newSurface(host gfx.Host, cfg viewcfg.Config, log *slog.Logger) (psurf.Surface, error) {
	opts := []psurf.Option{
		psurf.WithLogger(log),
		psurf.WithClearColor(cfg.Clear[0], cfg.Clear[1], cfg.Clear[2], cfg.Clear[3]),
		psurf.WithTexture(cfg.Texture),
	}
	switch cfg.Shape {
	case "torus":
		return psurf.NewTorus(host, cfg.Canvas, opts...)
	case "triforce":
		return psurf.NewTriforce(host, cfg.Canvas, opts...)
	default:
		return psurf.NewCube(host, cfg.Canvas, opts...)
	}
}
