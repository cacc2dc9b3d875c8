// Package viewcfg loads the psurfview configuration from TOML and command
// line flags.
package viewcfg

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/psurf"
	"github.com/soypat/psurf/internal/logging"
)

// Config is the viewer configuration. Fields are read from an optional
// TOML file and then overridden by command line flags.
type Config struct {
	Shape   string `toml:"shape"`
	Canvas  string `toml:"canvas"`
	Title   string `toml:"title"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Texture string `toml:"texture"`
	// AssetRoot is the directory relative texture paths are resolved against.
	AssetRoot string         `toml:"asset_root"`
	Clear     [4]float32     `toml:"clear"`
	FrameRate int            `toml:"frame_rate"`
	Log       logging.Config `toml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Shape:     "cube",
		Canvas:    "parametric-surface",
		Title:     "psurf",
		Width:     640,
		Height:    480,
		Texture:   psurf.DefaultTextureURL,
		AssetRoot: ".",
		Clear:     [4]float32{0, 0, 0, 1},
		FrameRate: 60,
		Log: logging.Config{
			Level:     "info",
			MaxSizeMB: 16,
			Backups:   2,
		},
	}
}

// Decode reads TOML from r over base. Unknown keys are an error.
func Decode(r io.Reader, base Config) (Config, error) {
	cfg := base
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return base, fmt.Errorf("unknown config keys:\n%s", strict.String())
		}
		return base, err
	}
	return cfg, nil
}

// Load reads the TOML file at path over base.
func Load(path string, base Config) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, err
	}
	defer f.Close()
	cfg, err := Decode(f, base)
	if err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseArgs builds the configuration from defaults, the file named by
// -config and the flags explicitly set in args, in that order.
func ParseArgs(args []string, output io.Writer) (Config, error) {
	def := Default()
	fs := flag.NewFlagSet("psurfview", flag.ContinueOnError)
	fs.SetOutput(output)
	var (
		configPath = fs.String("config", "", "TOML configuration file")
		shape      = fs.String("shape", def.Shape, "shape to draw: cube, torus or triforce")
		width      = fs.Int("width", def.Width, "window width")
		height     = fs.Int("height", def.Height, "window height")
		texture    = fs.String("texture", def.Texture, "triforce texture path or URL")
		root       = fs.String("root", def.AssetRoot, "directory relative texture paths are resolved against")
		clearColor = fs.String("clear", "0,0,0,1", "clear color as r,g,b,a")
		fps        = fs.Int("fps", def.FrameRate, "frame rate limit")
		level      = fs.String("log", def.Log.Level, "log level: debug, info, warn or error")
		logFile    = fs.String("logfile", "", "rotating JSON log file")
	)
	if err := fs.Parse(args); err != nil {
		return def, err
	}
	cfg := def
	if *configPath != "" {
		var err error
		cfg, err = Load(*configPath, def)
		if err != nil {
			return def, err
		}
	}
	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "shape":
			cfg.Shape = *shape
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "texture":
			cfg.Texture = *texture
		case "root":
			cfg.AssetRoot = *root
		case "clear":
			cfg.Clear, err = parseColor(*clearColor)
		case "fps":
			cfg.FrameRate = *fps
		case "log":
			cfg.Log.Level = *level
		case "logfile":
			cfg.Log.File = *logFile
		}
	})
	if err != nil {
		return def, err
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch c.Shape {
	case "cube", "torus", "triforce":
	default:
		return fmt.Errorf("unknown shape %q", c.Shape)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive, got %d", c.FrameRate)
	}
	return nil
}

func parseColor(s string) (c [4]float32, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return c, fmt.Errorf("color %q: want 4 comma separated components", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return c, fmt.Errorf("color %q: %w", s, err)
		}
		c[i] = float32(v)
	}
	return c, nil
}
