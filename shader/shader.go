// Package shader implements a registry of linked GLSL programs addressed by
// handle.Handle.
//
package shader

import (
	"github.com/db47h/tinyngine/gl"
	"github.com/db47h/tinyngine/handle"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrEmptySource is returned when creating a program without vertex shader
// source.
//
var ErrEmptySource = errors.New("empty vertex shader source")

// Params holds the GLSL sources of a program. Vertex is required; Fragment may
// be left empty.
//
type Params struct {
	Vertex   string
	Fragment string
}

type config struct {
	capacity int
	log      *zap.Logger
}

// Option is implemented by option functions passed as arguments to NewRegistry.
//
type Option interface {
	set(*config)
}

type cfn func(*config)

func (f cfn) set(cfg *config) {
	f(cfg)
}

// Capacity sets the maximum number of live programs.
//
func Capacity(n int) Option {
	return cfn(func(cfg *config) {
		cfg.capacity = n
	})
}

// Logger sets the logger used to report compile and link failures.
//
func Logger(l *zap.Logger) Option {
	return cfn(func(cfg *config) {
		cfg.log = l
	})
}

// A Registry owns GL programs and hands out handles to them.
//
// Operations on an invalid or stale handle are no-ops. Uniform setters make the
// target program current if it is not already. A Registry must only be used
// from the thread owning its GL context.
//
type Registry struct {
	ctx     gl.Context
	log     *zap.Logger
	table   *handle.Table[program]
	current uint32
}

// NewRegistry returns a new, empty, program registry using ctx.
//
func NewRegistry(ctx gl.Context, opts ...Option) *Registry {
	cfg := config{capacity: handle.DefaultCapacity}
	for _, o := range opts {
		o.set(&cfg)
	}
	if cfg.log == nil {
		cfg.log = zap.NewNop()
	}
	return &Registry{
		ctx:   ctx,
		log:   cfg.log,
		table: handle.NewTable[program](cfg.capacity),
	}
}

// Create compiles and links a new program. It returns handle.Invalid and a
// non-nil error if the vertex source is empty, if any stage fails to compile,
// if linking fails or if the registry is full. No GL object is leaked on
// failure.
//
func (r *Registry) Create(p Params) (handle.Handle, error) {
	if r.table.Len() == r.table.Cap() {
		r.log.Error("create program", zap.Error(handle.ErrFull))
		return handle.Invalid, handle.ErrFull
	}
	id, err := newProgram(r.ctx, p)
	if err != nil {
		r.log.Error("create program", zap.Error(err))
		return handle.Invalid, err
	}
	h, err := r.table.Insert(program{id: id, uniforms: make(map[string]int32)})
	if err != nil {
		r.ctx.DeleteProgram(id)
		return handle.Invalid, err
	}
	return h, nil
}

// Reload rebuilds the program referenced by h from p. On success the new
// program replaces the old one and h stays valid. On failure the old program
// is kept.
//
func (r *Registry) Reload(h handle.Handle, p Params) error {
	prg, ok := r.table.Get(h)
	if !ok {
		return errors.Errorf("reload program %v: invalid handle", h)
	}
	id, err := newProgram(r.ctx, p)
	if err != nil {
		r.log.Error("reload program", zap.Stringer("handle", h), zap.Error(err))
		return err
	}
	old := prg.id
	*prg = program{id: id, uniforms: make(map[string]int32)}
	r.ctx.DeleteProgram(old)
	if r.current == old {
		r.current = 0
	}
	return nil
}

func (r *Registry) get(h handle.Handle) *program {
	p, ok := r.table.Get(h)
	if !ok {
		if h.IsValid() {
			r.log.Debug("stale program handle", zap.Stringer("handle", h))
		}
		return nil
	}
	return p
}

// Use makes the program current.
//
func (r *Registry) Use(h handle.Handle) {
	if p := r.get(h); p != nil {
		r.use(p)
	}
}

func (r *Registry) use(p *program) {
	r.ctx.UseProgram(p.id)
	r.current = p.id
}

// uniform returns the location of the named uniform in the program referenced
// by h, making the program current. It returns false if the handle is invalid
// or the uniform is not active.
//
func (r *Registry) uniform(h handle.Handle, name string) (int32, bool) {
	p := r.get(h)
	if p == nil || name == "" {
		return -1, false
	}
	loc, ok := p.uniforms[name]
	if !ok {
		loc = r.ctx.GetUniformLocation(p.id, name)
		p.uniforms[name] = loc
		if loc < 0 {
			r.log.Debug("inactive uniform", zap.Stringer("handle", h), zap.String("name", name))
		}
	}
	if loc < 0 {
		return -1, false
	}
	if r.current != p.id {
		r.use(p)
	}
	return loc, true
}

// SetInt sets an int or sampler uniform.
//
func (r *Registry) SetInt(h handle.Handle, name string, v int32) {
	if loc, ok := r.uniform(h, name); ok {
		r.ctx.Uniform1i(loc, v)
	}
}

// SetFloat sets a float uniform.
//
func (r *Registry) SetFloat(h handle.Handle, name string, v float32) {
	if loc, ok := r.uniform(h, name); ok {
		r.ctx.Uniform1f(loc, v)
	}
}

// SetVec2 sets a vec2 uniform.
//
func (r *Registry) SetVec2(h handle.Handle, name string, v mgl32.Vec2) {
	if loc, ok := r.uniform(h, name); ok {
		r.ctx.Uniform2f(loc, v[0], v[1])
	}
}

// SetVec3 sets a vec3 uniform.
//
func (r *Registry) SetVec3(h handle.Handle, name string, v mgl32.Vec3) {
	if loc, ok := r.uniform(h, name); ok {
		r.ctx.Uniform3f(loc, v[0], v[1], v[2])
	}
}

// SetVec4 sets a vec4 uniform.
//
func (r *Registry) SetVec4(h handle.Handle, name string, v mgl32.Vec4) {
	if loc, ok := r.uniform(h, name); ok {
		r.ctx.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
}

// SetMat3 sets a mat3 uniform. mgl32 matrices are column-major, like GLSL.
//
func (r *Registry) SetMat3(h handle.Handle, name string, m mgl32.Mat3) {
	if loc, ok := r.uniform(h, name); ok {
		r.ctx.UniformMatrix3fv(loc, (*[9]float32)(&m))
	}
}

// SetMat4 sets a mat4 uniform.
//
func (r *Registry) SetMat4(h handle.Handle, name string, m mgl32.Mat4) {
	if loc, ok := r.uniform(h, name); ok {
		r.ctx.UniformMatrix4fv(loc, (*[16]float32)(&m))
	}
}

// Destroy deletes the program. h and all its copies become stale.
//
func (r *Registry) Destroy(h handle.Handle) {
	p, ok := r.table.Remove(h)
	if !ok {
		return
	}
	r.ctx.DeleteProgram(p.id)
	if r.current == p.id {
		r.current = 0
	}
}

// Close destroys all programs.
//
func (r *Registry) Close() {
	var hs []handle.Handle
	r.table.Each(func(h handle.Handle, _ *program) bool {
		hs = append(hs, h)
		return true
	})
	for _, h := range hs {
		r.Destroy(h)
	}
}

// Valid reports whether h references a live program.
//
func (r *Registry) Valid(h handle.Handle) bool {
	return r.table.Contains(h)
}

// Len returns the number of live programs.
//
func (r *Registry) Len() int {
	return r.table.Len()
}
