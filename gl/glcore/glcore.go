// Package glcore implements gl.Context on top of the OpenGL 3.3 core profile
// bindings from github.com/go-gl/gl.
//
// A GL context must be current on the calling thread before calling New.
//
package glcore

import (
	"strings"

	"github.com/db47h/tinyngine/gl"
	gogl "github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

// Context is a gl.Context backed by the native driver.
//
type Context struct{}

// New loads the GL function pointers for the current context.
//
func New() (*Context, error) {
	if err := gogl.Init(); err != nil {
		return nil, errors.Wrap(err, "load OpenGL 3.3 core functions")
	}
	return new(Context), nil
}

// Version returns a description of the driver, like "4.6 (Core Profile) Mesa - AMD".
//
func (*Context) Version() string {
	return gogl.GoStr(gogl.GetString(gogl.VERSION)) + " - " +
		gogl.GoStr(gogl.GetString(gogl.VENDOR)) + " " +
		gogl.GoStr(gogl.GetString(gogl.RENDERER))
}

func (*Context) GetError() uint32 { return gogl.GetError() }

func (*Context) CreateProgram() uint32        { return gogl.CreateProgram() }
func (*Context) DeleteProgram(program uint32) { gogl.DeleteProgram(program) }
func (*Context) CreateShader(typ uint32) uint32 {
	return gogl.CreateShader(typ)
}
func (*Context) DeleteShader(shader uint32) { gogl.DeleteShader(shader) }

func (*Context) ShaderSource(shader uint32, src string) {
	csrc, free := gogl.Strs(src + "\x00")
	gogl.ShaderSource(shader, 1, csrc, nil)
	free()
}

func (*Context) CompileShader(shader uint32) { gogl.CompileShader(shader) }

func (*Context) ShaderCompileStatus(shader uint32) (bool, string) {
	var status int32
	gogl.GetShaderiv(shader, gogl.COMPILE_STATUS, &status)
	if status == gogl.TRUE {
		return true, ""
	}
	var n int32
	gogl.GetShaderiv(shader, gogl.INFO_LOG_LENGTH, &n)
	return false, infoLog(n, func(size int32, buf *uint8) { gogl.GetShaderInfoLog(shader, size, nil, buf) })
}

func (*Context) AttachShader(program, shader uint32) { gogl.AttachShader(program, shader) }
func (*Context) DetachShader(program, shader uint32) { gogl.DetachShader(program, shader) }
func (*Context) LinkProgram(program uint32)          { gogl.LinkProgram(program) }

func (*Context) ProgramLinkStatus(program uint32) (bool, string) {
	var status int32
	gogl.GetProgramiv(program, gogl.LINK_STATUS, &status)
	if status == gogl.TRUE {
		return true, ""
	}
	var n int32
	gogl.GetProgramiv(program, gogl.INFO_LOG_LENGTH, &n)
	return false, infoLog(n, func(size int32, buf *uint8) { gogl.GetProgramInfoLog(program, size, nil, buf) })
}

func infoLog(n int32, get func(int32, *uint8)) string {
	if n <= 0 {
		return ""
	}
	buf := make([]uint8, n+1)
	get(n, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

func (*Context) UseProgram(program uint32) { gogl.UseProgram(program) }

func (*Context) GetUniformLocation(program uint32, name string) int32 {
	return gogl.GetUniformLocation(program, gogl.Str(name+"\x00"))
}

func (*Context) Uniform1i(location int32, v int32)   { gogl.Uniform1i(location, v) }
func (*Context) Uniform1f(location int32, v float32) { gogl.Uniform1f(location, v) }
func (*Context) Uniform2f(location int32, v0, v1 float32) {
	gogl.Uniform2f(location, v0, v1)
}
func (*Context) Uniform3f(location int32, v0, v1, v2 float32) {
	gogl.Uniform3f(location, v0, v1, v2)
}
func (*Context) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	gogl.Uniform4f(location, v0, v1, v2, v3)
}
func (*Context) UniformMatrix3fv(location int32, m *[9]float32) {
	gogl.UniformMatrix3fv(location, 1, false, &m[0])
}
func (*Context) UniformMatrix4fv(location int32, m *[16]float32) {
	gogl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (*Context) GenTexture() uint32 {
	var t uint32
	gogl.GenTextures(1, &t)
	return t
}

func (*Context) DeleteTexture(texture uint32)       { gogl.DeleteTextures(1, &texture) }
func (*Context) ActiveTexture(unit uint32)          { gogl.ActiveTexture(unit) }
func (*Context) BindTexture(target, texture uint32) { gogl.BindTexture(target, texture) }

func (*Context) TexParameteri(target, pname uint32, param int32) {
	gogl.TexParameteri(target, pname, param)
}

func (*Context) TexParameterfv(target, pname uint32, params *[4]float32) {
	gogl.TexParameterfv(target, pname, &params[0])
}

func (*Context) PixelStorei(pname uint32, param int32) { gogl.PixelStorei(pname, param) }

func (*Context) TexImage2D(target uint32, level, internalFormat, width, height int32, format, typ uint32, pix []byte) {
	var p *uint8
	if len(pix) > 0 {
		p = &pix[0]
	}
	gogl.TexImage2D(target, level, internalFormat, width, height, 0, format, typ, gogl.Ptr(p))
}

func (*Context) GenerateMipmap(target uint32) { gogl.GenerateMipmap(target) }

func (*Context) Viewport(x, y, width, height int32) { gogl.Viewport(x, y, width, height) }

var _ gl.Context = (*Context)(nil)
