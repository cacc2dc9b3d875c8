package viewcfg

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
shape = "triforce"
width = 800
texture = "https://example.com/tri.png"
clear = [0.1, 0.2, 0.3, 1.0]

[log]
level = "debug"
file = "psurf.log"
`

func TestDecodeConfig(t *testing.T) {
	cfg, err := Decode(strings.NewReader(sampleConfig), Default())
	require.NoError(t, err)
	assert.Equal(t, "triforce", cfg.Shape)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 480, cfg.Height, "unset keys keep defaults")
	assert.Equal(t, "parametric-surface", cfg.Canvas)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, cfg.Clear)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "psurf.log", cfg.Log.File)
	assert.Equal(t, 16, cfg.Log.MaxSizeMB)

	_, err = Decode(strings.NewReader("shpae = \"cube\"\n"), Default())
	assert.ErrorContains(t, err, "shpae")
}

func TestParseArgsPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := ParseArgs([]string{"-config", path, "-width", "320", "-clear", "1, 1, 1, 0.5"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "triforce", cfg.Shape, "file overrides defaults")
	assert.Equal(t, 320, cfg.Width, "flags override file")
	assert.Equal(t, [4]float32{1, 1, 1, 0.5}, cfg.Clear)

	cfg, err = ParseArgs(nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseArgsInvalid(t *testing.T) {
	for _, args := range [][]string{
		{"-shape", "sphere"},
		{"-width", "0"},
		{"-fps", "-1"},
		{"-clear", "1,1,1"},
		{"-clear", "1,x,1,1"},
		{"-config", filepath.Join(t.TempDir(), "missing.toml")},
	} {
		_, err := ParseArgs(args, io.Discard)
		assert.Error(t, err, args)
	}
}
