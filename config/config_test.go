package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/tinyngine/config"
	"github.com/db47h/tinyngine/gl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

const tomlConfig = `
[window]
title = "lights"
width = 1280
height = 720

[gl]
error_policy = "panic"

[assets]
dirs = ["assets", "cmd/demo/assets"]
watch = true

[camera]
fov = 30
position = [1.0, 2.0, 3.0]

[log]
level = "debug"
`

const yamlConfig = `
window:
  title: lights
  width: 1280
  height: 720
gl:
  error_policy: panic
assets:
  dirs: [assets, cmd/demo/assets]
  watch: true
camera:
  fov: 30
  position: [1, 2, 3]
log:
  level: debug
`

func checkLoaded(t *testing.T, cfg *config.Config) {
	t.Helper()
	assert.Equal(t, "lights", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.True(t, cfg.Window.VSync, "default kept")
	assert.Equal(t, gl.Panic, cfg.GL.ErrorPolicy)
	assert.Equal(t, 3, cfg.GL.Major)
	assert.Equal(t, []string{"assets", "cmd/demo/assets"}, cfg.Assets.Dirs)
	assert.Equal(t, "shaders", cfg.Assets.ShaderPath)
	assert.True(t, cfg.Assets.Watch)
	assert.Equal(t, float32(30), cfg.Camera.FOV)
	assert.Equal(t, float32(2.5), cfg.Camera.Speed)
	assert.Equal(t, [3]float32{1, 2, 3}, cfg.Camera.Position)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad(t *testing.T) {
	cfg, err := config.Load(strings.NewReader(tomlConfig), config.TOML)
	require.NoError(t, err)
	checkLoaded(t, cfg)

	cfg, err = config.Load(strings.NewReader(yamlConfig), config.YAML)
	require.NoError(t, err)
	checkLoaded(t, cfg)
}

func TestLoadEmpty(t *testing.T) {
	for _, f := range []config.Format{config.TOML, config.YAML} {
		cfg, err := config.Load(strings.NewReader(""), f)
		require.NoError(t, err, f)
		assert.Equal(t, config.Default(), cfg, f)
	}
}

func TestLoadErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		f    config.Format
		in   string
	}{
		{"unknown field", config.TOML, "[window]\ncolour = 1\n"},
		{"unknown yaml field", config.YAML, "window:\n  colour: 1\n"},
		{"bad policy", config.TOML, "[gl]\nerror_policy = \"explode\"\n"},
		{"bad size", config.TOML, "[window]\nwidth = 0\n"},
		{"old gl", config.YAML, "gl:\n  major: 3\n  minor: 2\n"},
		{"capacity", config.TOML, "[gl]\ntexture_capacity = 0\n"},
		{"fov", config.TOML, "[camera]\nfov = 90\n"},
		{"speed", config.TOML, "[camera]\nspeed = -1\n"},
		{"log level", config.YAML, "log:\n  level: loud\n"},
		{"syntax", config.TOML, "[window\n"},
		{"format", config.Format(9), ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Load(strings.NewReader(tc.in), tc.f)
			assert.Error(t, err)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.GL.ErrorPolicy = gl.Ignore
	cfg.Camera.Position = [3]float32{4, 5, 6}
	for _, f := range []config.Format{config.TOML, config.YAML} {
		var buf bytes.Buffer
		require.NoError(t, cfg.Write(&buf, f))
		got, err := config.Load(&buf, f)
		require.NoError(t, err, f)
		assert.Equal(t, cfg, got, f)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	for name, data := range map[string]string{
		"a.toml": tomlConfig,
		"b.yaml": yamlConfig,
		"c.YML":  yamlConfig,
	} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
		cfg, err := config.LoadFile(p)
		require.NoError(t, err, name)
		checkLoaded(t, cfg)
	}

	_, err := config.LoadFile(filepath.Join(dir, "d.json"))
	assert.Error(t, err)
	_, err = config.LoadFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "toml", config.TOML.String())
	assert.Equal(t, "yaml", config.YAML.String())
	assert.Equal(t, "Format(9)", config.Format(9).String())
}

func TestLogBuild(t *testing.T) {
	l := config.Log{Level: "warn"}
	log, err := l.Build()
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))

	l = config.Log{Level: "debug", Development: true}
	log, err = l.Build()
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	l.Level = "nope"
	_, err = l.Build()
	assert.Error(t, err)
}
