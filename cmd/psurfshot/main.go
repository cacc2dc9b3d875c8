// Command psurfshot renders frames of the psurf shapes on the CPU and saves
// them as PNG files. It needs no window or GPU.
//
// Usage:
//
//	psurfshot -shape triforce -dtheta 0.5 -o triforce.png
//	psurfshot -shape all -o frames/
//	psurfshot -shape triforce -stl triforce.stl
package main

import (
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/psurf"
	"github.com/soypat/psurf/gfx/imgload"
	"github.com/soypat/psurf/internal/logging"
	"github.com/soypat/psurf/render"
)

func main() {
	var (
		shape       = flag.String("shape", "cube", "shape to render: cube, torus, triforce or all")
		output      = flag.String("o", "", "output PNG file, or directory when -shape is all")
		width       = flag.Int("width", 512, "image width")
		height      = flag.Int("height", 512, "image height")
		dtheta      = flag.Float64("dtheta", 0, "rotation offset in radians")
		supersample = flag.Int("ss", 4, "supersampling factor")
		texture     = flag.String("texture", psurf.DefaultTextureURL, "triforce texture path or URL")
		root        = flag.String("root", ".", "directory relative texture paths are resolved against")
		level       = flag.String("log", "info", "log level")
		stl         = flag.String("stl", "", "also write the triforce frame triangles to this STL file")
	)
	flag.Parse()
	log, closer, err := logging.New(logging.Config{Level: *level}, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "psurfshot:", err)
		os.Exit(2)
	}
	defer closer.Close()
	if *width <= 0 || *height <= 0 {
		log.Error("image size must be positive", slog.Int("width", *width), slog.Int("height", *height))
		os.Exit(2)
	}

	snap := render.Snapshot{Width: *width, Height: *height, Supersample: *supersample}
	shapes := []string{*shape}
	if *shape == "all" {
		shapes = render.Shapes
	}
	for _, name := range shapes {
		if name == "triforce" && *texture != "" {
			loader := imgload.New(imgload.WithRoot(*root), imgload.WithLogger(log))
			snap.Texture, err = loader.Load(*texture)
			if err != nil {
				log.Warn("rendering triforce untextured", slog.Any("err", err))
			}
		}
		img, err := snap.Shape(name, *dtheta)
		if err != nil {
			log.Error("render failed", slog.Any("err", err))
			os.Exit(1)
		}
		path := outputPath(*output, name, len(shapes) > 1)
		if err := save(path, img); err != nil {
			log.Error("save failed", slog.String("path", path), slog.Any("err", err))
			os.Exit(1)
		}
		log.Info("wrote frame", slog.String("shape", name), slog.String("path", path))
	}
	if *stl != "" {
		f := psurf.TriforceFrame(*width, *height, *dtheta)
		if err := saveSTL(*stl, render.FrameTriangles(f, psurf.TriforceMesh())); err != nil {
			log.Error("save failed", slog.String("path", *stl), slog.Any("err", err))
			os.Exit(1)
		}
		log.Info("wrote triangles", slog.String("path", *stl))
	}
}

func outputPath(output, shape string, many bool) string {
	switch {
	case output == "":
		return shape + ".png"
	case many:
		return filepath.Join(output, shape+".png")
	}
	return output
}

func saveSTL(path string, model []ms3.Triangle) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.WriteSTL(fp, model); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}

func save(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return fauxgl.SavePNG(path, img)
}
