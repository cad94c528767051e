// Package config loads the settings of a tinyngine application from a TOML
// or YAML file.
//
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/db47h/tinyngine/gl"
	"github.com/db47h/tinyngine/handle"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file format.
//
type Format int

const (
	TOML Format = iota
	YAML
)

func (f Format) String() string {
	switch f {
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	}
	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// FormatOf returns the format matching the extension of the named file.
//
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return 0, errors.Errorf("%s: unknown configuration format", name)
}

// Window settings.
//
type Window struct {
	Title      string `toml:"title" yaml:"title"`
	Width      int    `toml:"width" yaml:"width"`
	Height     int    `toml:"height" yaml:"height"`
	VSync      bool   `toml:"vsync" yaml:"vsync"`
	FullScreen bool   `toml:"fullscreen" yaml:"fullscreen"`
}

// GL settings.
//
type GL struct {
	Major           int       `toml:"major" yaml:"major"`
	Minor           int       `toml:"minor" yaml:"minor"`
	ErrorPolicy     gl.Policy `toml:"error_policy" yaml:"error_policy"`
	TextureCapacity int       `toml:"texture_capacity" yaml:"texture_capacity"`
	ProgramCapacity int       `toml:"program_capacity" yaml:"program_capacity"`
}

// Assets settings. Dirs are stacked in an overlay, later entries taking
// precedence.
//
type Assets struct {
	Dirs        []string `toml:"dirs" yaml:"dirs"`
	ShaderPath  string   `toml:"shader_path" yaml:"shader_path"`
	TexturePath string   `toml:"texture_path" yaml:"texture_path"`
	Watch       bool     `toml:"watch" yaml:"watch"`
}

// Camera settings.
//
type Camera struct {
	Speed       float32    `toml:"speed" yaml:"speed"`
	Sensitivity float32    `toml:"sensitivity" yaml:"sensitivity"`
	FOV         float32    `toml:"fov" yaml:"fov"`
	Position    [3]float32 `toml:"position" yaml:"position"`
}

// Log settings. Level is one of debug, info, warn, error.
//
type Log struct {
	Level       string `toml:"level" yaml:"level"`
	Development bool   `toml:"development" yaml:"development"`
}

// Config holds the application settings.
//
type Config struct {
	Window Window `toml:"window" yaml:"window"`
	GL     GL     `toml:"gl" yaml:"gl"`
	Assets Assets `toml:"assets" yaml:"assets"`
	Camera Camera `toml:"camera" yaml:"camera"`
	Log    Log    `toml:"log" yaml:"log"`
}

// Default returns the default configuration.
//
func Default() *Config {
	return &Config{
		Window: Window{Title: "tinyngine", Width: 800, Height: 600, VSync: true},
		GL: GL{
			Major:           3,
			Minor:           3,
			ErrorPolicy:     gl.Log,
			TextureCapacity: handle.DefaultCapacity,
			ProgramCapacity: handle.DefaultCapacity,
		},
		Assets: Assets{Dirs: []string{"assets"}, ShaderPath: "shaders", TexturePath: "textures"},
		Camera: Camera{Speed: 2.5, Sensitivity: 0.1, FOV: 45, Position: [3]float32{0, 0, 3}},
		Log:    Log{Level: "info"},
	}
}

// Load reads a configuration in the given format from r. Settings missing
// from the input keep their default value. The result is validated.
//
func Load(r io.Reader, f Format) (*Config, error) {
	cfg := Default()
	var err error
	switch f {
	case TOML:
		err = toml.NewDecoder(r).DisallowUnknownFields().Decode(cfg)
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err = dec.Decode(cfg); err == io.EOF {
			err = nil
		}
	default:
		err = errors.Errorf("unsupported format %s", f)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", f)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads the named configuration file. The format is selected by the
// file extension.
//
func LoadFile(name string) (*Config, error) {
	f, err := FormatOf(name)
	if err != nil {
		return nil, err
	}
	r, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	cfg, err := Load(r, f)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return cfg, nil
}

// Write encodes c in the given format.
//
func (c *Config) Write(w io.Writer, f Format) error {
	var (
		buf bytes.Buffer
		err error
	)
	switch f {
	case TOML:
		err = toml.NewEncoder(&buf).Encode(c)
	case YAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(c); err == nil {
			err = enc.Close()
		}
	default:
		err = errors.Errorf("unsupported format %s", f)
	}
	if err != nil {
		return errors.Wrapf(err, "encode %s", f)
	}
	_, err = buf.WriteTo(w)
	return err
}

// Validate checks that all settings are within range.
//
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return errors.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	case c.GL.Major < 3 || c.GL.Major == 3 && c.GL.Minor < 3:
		return errors.Errorf("OpenGL %d.%d not supported, need 3.3 or later", c.GL.Major, c.GL.Minor)
	case c.GL.TextureCapacity <= 0:
		return errors.Errorf("invalid texture capacity %d", c.GL.TextureCapacity)
	case c.GL.ProgramCapacity <= 0:
		return errors.Errorf("invalid program capacity %d", c.GL.ProgramCapacity)
	case c.Camera.FOV < 1 || c.Camera.FOV > 45:
		return errors.Errorf("camera fov %g out of range [1, 45]", c.Camera.FOV)
	case c.Camera.Speed < 0 || c.Camera.Sensitivity < 0:
		return errors.New("negative camera speed or sensitivity")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log level")
	}
	return nil
}

// Build returns a zap logger configured from the log settings.
//
func (l *Log) Build(opts ...zap.Option) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	var cfg zap.Config
	if l.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build(opts...)
}
