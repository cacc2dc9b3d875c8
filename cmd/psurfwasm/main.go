//go:build js && wasm

// Command psurfwasm exposes the psurf shapes to JavaScript. It registers a
// global psurf object with the constructors newCube(canvasID),
// newTorus(canvasID) and newTriforce(canvasID, textureURL). Each returns an
// object with render(width, height, dtheta), start(), stop() and release()
// methods, or an Error if the shape could not be built. start animates the
// shape at up to 60 frames per second with dtheta set to the seconds since
// start was called.
package main

import (
	"log/slog"
	"os"
	"syscall/js"

	"github.com/soypat/psurf"
	"github.com/soypat/psurf/gfx/webgl"
)

const frameInterval = 1000.0 / 60 // milliseconds

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	host := webgl.NewHost(log)
	ctor := func(build func(id string, args []js.Value) (psurf.Surface, error)) js.Func {
		return js.FuncOf(func(this js.Value, args []js.Value) any {
			if len(args) < 1 || args[0].Type() != js.TypeString {
				return jsError("psurf: canvas id required")
			}
			id := args[0].String()
			s, err := build(id, args[1:])
			if err != nil {
				log.Error("surface construction failed", slog.String("canvas", id), slog.Any("err", err))
				return jsError(err.Error())
			}
			return newAnimation(s, js.Global().Get("document").Call("getElementById", id), log).object()
		})
	}
	opts := []psurf.Option{psurf.WithLogger(log)}
	api := js.Global().Get("Object").New()
	api.Set("newCube", ctor(func(id string, _ []js.Value) (psurf.Surface, error) {
		return psurf.NewCube(host, id, opts...)
	}))
	api.Set("newTorus", ctor(func(id string, _ []js.Value) (psurf.Surface, error) {
		return psurf.NewTorus(host, id, opts...)
	}))
	api.Set("newTriforce", ctor(func(id string, args []js.Value) (psurf.Surface, error) {
		o := opts
		if len(args) > 0 && args[0].Type() == js.TypeString {
			o = append(o[:len(o):len(o)], psurf.WithTexture(args[0].String()))
		}
		return psurf.NewTriforce(host, id, o...)
	}))
	js.Global().Set("psurf", api)
	log.Info("psurf ready")
	select {}
}

func jsError(msg string) js.Value {
	return js.Global().Get("Error").New(msg)
}

// animation drives a surface from requestAnimationFrame.
type animation struct {
	surf   psurf.Surface
	canvas js.Value
	log    *slog.Logger
	frame  js.Func
	// funcs holds frame and the object's methods until release.
	funcs webgl.ReleaseGroup
	// start and last are DOMHighResTimeStamp values in milliseconds.
	start, last float64
	running     bool
	handle      js.Value
}

func newAnimation(s psurf.Surface, canvas js.Value, log *slog.Logger) *animation {
	a := &animation{surf: s, canvas: canvas, log: log}
	a.frame = js.FuncOf(func(this js.Value, args []js.Value) any {
		now := args[0].Float()
		if a.start == 0 {
			a.start = now
		}
		if now-a.last >= frameInterval {
			a.last = now
			w, h := a.size()
			if err := a.surf.Render(w, h, (now-a.start)/1000); err != nil {
				a.log.Error("render failed, stopping", slog.Any("err", err))
				a.running = false
				return nil
			}
		}
		if a.running {
			a.handle = js.Global().Call("requestAnimationFrame", a.frame)
		}
		return nil
	})
	a.funcs.Add(a.frame)
	return a
}

func (a *animation) size() (int, int) {
	return a.canvas.Get("width").Int(), a.canvas.Get("height").Int()
}

func (a *animation) object() js.Value {
	obj := js.Global().Get("Object").New()
	method := func(name string, fn func(args []js.Value) any) {
		f := js.FuncOf(func(this js.Value, args []js.Value) any { return fn(args) })
		a.funcs.Add(f)
		obj.Set(name, f)
	}
	method("render", func(args []js.Value) any {
		w, h := a.size()
		dtheta := 0.0
		if len(args) >= 3 {
			w, h, dtheta = args[0].Int(), args[1].Int(), args[2].Float()
		}
		if err := a.surf.Render(w, h, dtheta); err != nil {
			return jsError(err.Error())
		}
		return js.Undefined()
	})
	method("start", func(args []js.Value) any {
		if !a.running {
			a.running = true
			a.start, a.last = 0, 0
			a.handle = js.Global().Call("requestAnimationFrame", a.frame)
		}
		return nil
	})
	method("stop", func(args []js.Value) any {
		a.stop()
		return nil
	})
	method("release", func(args []js.Value) any {
		a.stop()
		a.surf.Release()
		// Released funcs must not be reachable from JavaScript.
		for _, name := range []string{"render", "start", "stop", "release"} {
			obj.Delete(name)
		}
		a.funcs.Release()
		return nil
	})
	return obj
}

func (a *animation) stop() {
	if a.running {
		a.running = false
		js.Global().Call("cancelAnimationFrame", a.handle)
	}
}
