// Package tinyngine ties together the resource registries and the input
// dispatcher of a GL context.
//
// A Context replaces process wide resource tables: each Context owns its
// own texture and program registries, so several can coexist, for example
// one per window or one per test.
//
package tinyngine

import (
	"github.com/db47h/tinyngine/gl"
	"github.com/db47h/tinyngine/handle"
	"github.com/db47h/tinyngine/input"
	"github.com/db47h/tinyngine/shader"
	"github.com/db47h/tinyngine/texture"
	"go.uber.org/zap"
)

type config struct {
	log             *zap.Logger
	policy          gl.Policy
	textureCapacity int
	programCapacity int
	input           *input.Manager
}

// Option is implemented by option functions passed as arguments to New.
//
type Option interface {
	set(*config)
}

type cfn func(*config)

func (f cfn) set(cfg *config) {
	f(cfg)
}

// Logger sets the logger used by the context and its registries.
//
func Logger(l *zap.Logger) Option {
	return cfn(func(cfg *config) {
		if l != nil {
			cfg.log = l
		}
	})
}

// ErrorPolicy sets the policy applied to GL errors raised by registry
// operations. The default is gl.Log.
//
func ErrorPolicy(p gl.Policy) Option {
	return cfn(func(cfg *config) {
		cfg.policy = p
	})
}

// TextureCapacity sets the maximum number of live textures.
//
func TextureCapacity(n int) Option {
	return cfn(func(cfg *config) {
		cfg.textureCapacity = n
	})
}

// ProgramCapacity sets the maximum number of live shader programs.
//
func ProgramCapacity(n int) Option {
	return cfn(func(cfg *config) {
		cfg.programCapacity = n
	})
}

// Input makes the context use m instead of a new input manager. This is
// how key bindings get shared with an app.Window.
//
func Input(m *input.Manager) Option {
	return cfn(func(cfg *config) {
		cfg.input = m
	})
}

// Context owns the GL resources and key bindings of an application.
//
type Context struct {
	GL       gl.Context
	Textures *texture.Registry
	Programs *shader.Registry
	Input    *input.Manager

	log     *zap.Logger
	sources map[handle.Handle]programSource
}

// New returns a new Context using glctx. Unless the error policy is
// gl.Ignore, glctx is wrapped so that GL errors are checked after each call.
//
func New(glctx gl.Context, opts ...Option) *Context {
	cfg := config{
		log:             zap.NewNop(),
		policy:          gl.Log,
		textureCapacity: handle.DefaultCapacity,
		programCapacity: handle.DefaultCapacity,
	}
	for _, o := range opts {
		o.set(&cfg)
	}
	if cfg.input == nil {
		cfg.input = input.NewManager(input.Logger(cfg.log.Named("input")))
	}
	ctx := gl.WithErrorCheck(glctx, cfg.policy, cfg.log.Named("gl"))
	c := &Context{
		GL: ctx,
		Textures: texture.NewRegistry(ctx,
			texture.Capacity(cfg.textureCapacity),
			texture.Logger(cfg.log.Named("texture"))),
		Programs: shader.NewRegistry(ctx,
			shader.Capacity(cfg.programCapacity),
			shader.Logger(cfg.log.Named("shader"))),
		Input:   cfg.input,
		log:     cfg.log,
		sources: make(map[handle.Handle]programSource),
	}
	c.log.Debug("context created",
		zap.Stringer("policy", cfg.policy),
		zap.Int("textures", cfg.textureCapacity),
		zap.Int("programs", cfg.programCapacity))
	return c
}

// Close destroys all programs and textures. Key bindings are kept.
//
func (c *Context) Close() {
	c.log.Debug("context closed",
		zap.Int("textures", c.Textures.Len()),
		zap.Int("programs", c.Programs.Len()))
	c.Programs.Close()
	c.Textures.Close()
	c.sources = make(map[handle.Handle]programSource)
}
