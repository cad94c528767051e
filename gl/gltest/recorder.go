// Package gltest provides an in-memory gl.Context for tests.
//
package gltest

import (
	"strings"

	"github.com/db47h/tinyngine/gl"
)

// Shader is a shader object tracked by a Recorder.
//
type Shader struct {
	Type     uint32
	Source   string
	Compiled bool
}

// Program is a program object tracked by a Recorder.
//
type Program struct {
	Attached map[uint32]bool
	Linked   bool
	Uniforms map[string]int32
	Values   map[int32]interface{}
}

// Texture is a texture object tracked by a Recorder.
//
type Texture struct {
	Width, Height  int32
	InternalFormat int32
	Format         uint32
	Pix            []byte
	Params         map[uint32]int32
	Border         [4]float32
	Mipmaps        int
}

// Recorder implements gl.Context without a GPU. It keeps track of live
// objects and bindings, records every call by name, and can be told to fail.
//
// The zero value is ready to use.
//
type Recorder struct {
	// CompileError makes compilation fail for any shader whose source contains
	// this string.
	CompileError string
	// FailLink makes every link fail.
	FailLink bool
	// FailCreate makes CreateProgram, CreateShader and GenTexture return 0.
	FailCreate bool
	// Inactive lists uniform names for which GetUniformLocation returns -1.
	Inactive map[string]bool
	// Errors is the queue of codes returned by GetError.
	Errors []uint32

	Calls    []string
	Programs map[uint32]*Program
	Shaders  map[uint32]*Shader
	Textures map[uint32]*Texture
	Current  uint32 // program in use
	Unit     uint32 // active texture unit, relative to GL_TEXTURE0
	Bound    map[uint32]uint32
	Unpack   int32
	View     [4]int32 // last viewport
	nextID   uint32
	nextLoc  int32
}

func (r *Recorder) init() {
	if r.Programs == nil {
		r.Programs = make(map[uint32]*Program)
		r.Shaders = make(map[uint32]*Shader)
		r.Textures = make(map[uint32]*Texture)
		r.Bound = make(map[uint32]uint32)
	}
}

func (r *Recorder) call(name string) {
	r.init()
	r.Calls = append(r.Calls, name)
}

func (r *Recorder) id() uint32 {
	r.nextID++
	return r.nextID
}

// Live returns the number of live program, shader and texture objects.
//
func (r *Recorder) Live() int {
	return len(r.Programs) + len(r.Shaders) + len(r.Textures)
}

// Reset clears the call log.
//
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}

// Count returns the number of recorded calls to the named function.
//
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c == name {
			n++
		}
	}
	return n
}

// Uniform returns the last value uploaded for the named uniform of program.
//
func (r *Recorder) Uniform(program uint32, name string) (interface{}, bool) {
	p, ok := r.Programs[program]
	if !ok {
		return nil, false
	}
	loc, ok := p.Uniforms[name]
	if !ok {
		return nil, false
	}
	v, ok := p.Values[loc]
	return v, ok
}

// BoundTexture returns the texture bound to GL_TEXTURE_2D on the given unit.
//
func (r *Recorder) BoundTexture(unit uint32) uint32 {
	return r.Bound[unit]
}

func (r *Recorder) GetError() uint32 {
	if len(r.Errors) == 0 {
		return gl.GL_NO_ERROR
	}
	code := r.Errors[0]
	r.Errors = r.Errors[1:]
	return code
}

func (r *Recorder) CreateProgram() uint32 {
	r.call("CreateProgram")
	if r.FailCreate {
		return 0
	}
	id := r.id()
	r.Programs[id] = &Program{
		Attached: make(map[uint32]bool),
		Uniforms: make(map[string]int32),
		Values:   make(map[int32]interface{}),
	}
	return id
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.call("DeleteProgram")
	delete(r.Programs, program)
	if r.Current == program {
		r.Current = 0
	}
}

func (r *Recorder) CreateShader(typ uint32) uint32 {
	r.call("CreateShader")
	if r.FailCreate {
		return 0
	}
	id := r.id()
	r.Shaders[id] = &Shader{Type: typ}
	return id
}

func (r *Recorder) DeleteShader(shader uint32) {
	r.call("DeleteShader")
	delete(r.Shaders, shader)
}

func (r *Recorder) ShaderSource(shader uint32, src string) {
	r.call("ShaderSource")
	if s, ok := r.Shaders[shader]; ok {
		s.Source = src
	}
}

func (r *Recorder) CompileShader(shader uint32) {
	r.call("CompileShader")
	if s, ok := r.Shaders[shader]; ok {
		s.Compiled = r.CompileError == "" || !strings.Contains(s.Source, r.CompileError)
	}
}

func (r *Recorder) ShaderCompileStatus(shader uint32) (bool, string) {
	r.call("ShaderCompileStatus")
	s, ok := r.Shaders[shader]
	if !ok {
		return false, "no such shader"
	}
	if !s.Compiled {
		return false, "0:1(1): error: syntax error, unexpected " + r.CompileError
	}
	return true, ""
}

func (r *Recorder) AttachShader(program, shader uint32) {
	r.call("AttachShader")
	if p, ok := r.Programs[program]; ok {
		p.Attached[shader] = true
	}
}

func (r *Recorder) DetachShader(program, shader uint32) {
	r.call("DetachShader")
	if p, ok := r.Programs[program]; ok {
		delete(p.Attached, shader)
	}
}

func (r *Recorder) LinkProgram(program uint32) {
	r.call("LinkProgram")
	if p, ok := r.Programs[program]; ok {
		p.Linked = !r.FailLink
	}
}

func (r *Recorder) ProgramLinkStatus(program uint32) (bool, string) {
	r.call("ProgramLinkStatus")
	p, ok := r.Programs[program]
	if !ok {
		return false, "no such program"
	}
	if !p.Linked {
		return false, "error: linking failed"
	}
	return true, ""
}

func (r *Recorder) UseProgram(program uint32) {
	r.call("UseProgram")
	r.Current = program
}

func (r *Recorder) GetUniformLocation(program uint32, name string) int32 {
	r.call("GetUniformLocation")
	p, ok := r.Programs[program]
	if !ok || r.Inactive[name] {
		return -1
	}
	if loc, ok := p.Uniforms[name]; ok {
		return loc
	}
	loc := r.nextLoc
	r.nextLoc++
	p.Uniforms[name] = loc
	return loc
}

func (r *Recorder) setUniform(name string, location int32, v interface{}) {
	r.call(name)
	if p, ok := r.Programs[r.Current]; ok {
		p.Values[location] = v
	}
}

func (r *Recorder) Uniform1i(location int32, v int32) {
	r.setUniform("Uniform1i", location, v)
}

func (r *Recorder) Uniform1f(location int32, v float32) {
	r.setUniform("Uniform1f", location, v)
}

func (r *Recorder) Uniform2f(location int32, v0, v1 float32) {
	r.setUniform("Uniform2f", location, [2]float32{v0, v1})
}

func (r *Recorder) Uniform3f(location int32, v0, v1, v2 float32) {
	r.setUniform("Uniform3f", location, [3]float32{v0, v1, v2})
}

func (r *Recorder) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	r.setUniform("Uniform4f", location, [4]float32{v0, v1, v2, v3})
}

func (r *Recorder) UniformMatrix3fv(location int32, m *[9]float32) {
	r.setUniform("UniformMatrix3fv", location, *m)
}

func (r *Recorder) UniformMatrix4fv(location int32, m *[16]float32) {
	r.setUniform("UniformMatrix4fv", location, *m)
}

func (r *Recorder) GenTexture() uint32 {
	r.call("GenTexture")
	if r.FailCreate {
		return 0
	}
	id := r.id()
	r.Textures[id] = &Texture{Params: make(map[uint32]int32)}
	return id
}

func (r *Recorder) DeleteTexture(texture uint32) {
	r.call("DeleteTexture")
	delete(r.Textures, texture)
	for unit, t := range r.Bound {
		if t == texture {
			delete(r.Bound, unit)
		}
	}
}

func (r *Recorder) ActiveTexture(unit uint32) {
	r.call("ActiveTexture")
	r.Unit = unit - gl.GL_TEXTURE0
}

func (r *Recorder) BindTexture(target, texture uint32) {
	r.call("BindTexture")
	if texture == 0 {
		delete(r.Bound, r.Unit)
		return
	}
	r.Bound[r.Unit] = texture
}

func (r *Recorder) bound() *Texture {
	return r.Textures[r.Bound[r.Unit]]
}

func (r *Recorder) TexParameteri(target, pname uint32, param int32) {
	r.call("TexParameteri")
	if t := r.bound(); t != nil {
		t.Params[pname] = param
	}
}

func (r *Recorder) TexParameterfv(target, pname uint32, params *[4]float32) {
	r.call("TexParameterfv")
	if t := r.bound(); t != nil && pname == gl.GL_TEXTURE_BORDER_COLOR {
		t.Border = *params
	}
}

func (r *Recorder) PixelStorei(pname uint32, param int32) {
	r.call("PixelStorei")
	if pname == gl.GL_UNPACK_ALIGNMENT {
		r.Unpack = param
	}
}

func (r *Recorder) TexImage2D(target uint32, level, internalFormat, width, height int32, format, typ uint32, pix []byte) {
	r.call("TexImage2D")
	if t := r.bound(); t != nil {
		t.Width, t.Height = width, height
		t.InternalFormat = internalFormat
		t.Format = format
		t.Pix = append([]byte(nil), pix...)
	}
}

func (r *Recorder) GenerateMipmap(target uint32) {
	r.call("GenerateMipmap")
	if t := r.bound(); t != nil {
		t.Mipmaps++
	}
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.call("Viewport")
	r.View = [4]int32{x, y, width, height}
}

var _ gl.Context = (*Recorder)(nil)
