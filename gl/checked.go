package gl

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Policy selects what a Checked context does when a GL call raises an error.
//
type Policy int

// Error policies.
//
const (
	Ignore Policy = iota // don't query glGetError at all
	Log                  // log GL errors and keep going
	Panic                // log GL errors then panic with a *Error
)

var policyNames = [...]string{"ignore", "log", "panic"}

func (p Policy) String() string {
	if p < 0 || int(p) >= len(policyNames) {
		return "Policy(" + strconv.Itoa(int(p)) + ")"
	}
	return policyNames[p]
}

// ParsePolicy parses a policy name as returned by Policy.String.
//
func ParsePolicy(s string) (Policy, error) {
	for i, n := range policyNames {
		if strings.EqualFold(s, n) {
			return Policy(i), nil
		}
	}
	return Ignore, errors.Errorf("unknown GL error policy %q", s)
}

// MarshalText implements encoding.TextMarshaler.
//
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
//
func (p *Policy) UnmarshalText(text []byte) error {
	v, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// maxErrors bounds the number of error flags drained after a single call.
const maxErrors = 8

// Checked wraps a Context and checks glGetError after every call according to
// its Policy.
//
type Checked struct {
	Context
	policy Policy
	log    *zap.Logger
}

// WithErrorCheck returns ctx wrapped in a Checked context. With the Ignore
// policy, ctx is returned as is.
//
func WithErrorCheck(ctx Context, policy Policy, log *zap.Logger) Context {
	if policy == Ignore {
		return ctx
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Checked{Context: ctx, policy: policy, log: log}
}

// Policy returns the error policy of c.
//
func (c *Checked) Policy() Policy { return c.policy }

func (c *Checked) check(op string) {
	var first uint32
	for i := 0; i < maxErrors; i++ {
		code := c.Context.GetError()
		if code == GL_NO_ERROR {
			break
		}
		if first == GL_NO_ERROR {
			first = code
		}
		c.log.Error("GL error", zap.String("op", op), zap.String("error", ErrorString(code)), zap.Uint32("code", code))
	}
	if first != GL_NO_ERROR && c.policy == Panic {
		panic(&Error{Op: op, Code: first})
	}
}

func (c *Checked) CreateProgram() uint32 {
	p := c.Context.CreateProgram()
	c.check("glCreateProgram")
	return p
}

func (c *Checked) DeleteProgram(program uint32) {
	c.Context.DeleteProgram(program)
	c.check("glDeleteProgram")
}

func (c *Checked) CreateShader(typ uint32) uint32 {
	s := c.Context.CreateShader(typ)
	c.check("glCreateShader")
	return s
}

func (c *Checked) DeleteShader(shader uint32) {
	c.Context.DeleteShader(shader)
	c.check("glDeleteShader")
}

func (c *Checked) ShaderSource(shader uint32, src string) {
	c.Context.ShaderSource(shader, src)
	c.check("glShaderSource")
}

func (c *Checked) CompileShader(shader uint32) {
	c.Context.CompileShader(shader)
	c.check("glCompileShader")
}

func (c *Checked) ShaderCompileStatus(shader uint32) (bool, string) {
	ok, log := c.Context.ShaderCompileStatus(shader)
	c.check("glGetShaderiv")
	return ok, log
}

func (c *Checked) AttachShader(program, shader uint32) {
	c.Context.AttachShader(program, shader)
	c.check("glAttachShader")
}

func (c *Checked) DetachShader(program, shader uint32) {
	c.Context.DetachShader(program, shader)
	c.check("glDetachShader")
}

func (c *Checked) LinkProgram(program uint32) {
	c.Context.LinkProgram(program)
	c.check("glLinkProgram")
}

func (c *Checked) ProgramLinkStatus(program uint32) (bool, string) {
	ok, log := c.Context.ProgramLinkStatus(program)
	c.check("glGetProgramiv")
	return ok, log
}

func (c *Checked) UseProgram(program uint32) {
	c.Context.UseProgram(program)
	c.check("glUseProgram")
}

func (c *Checked) GetUniformLocation(program uint32, name string) int32 {
	l := c.Context.GetUniformLocation(program, name)
	c.check("glGetUniformLocation")
	return l
}

func (c *Checked) Uniform1i(location int32, v int32) {
	c.Context.Uniform1i(location, v)
	c.check("glUniform1i")
}

func (c *Checked) Uniform1f(location int32, v float32) {
	c.Context.Uniform1f(location, v)
	c.check("glUniform1f")
}

func (c *Checked) Uniform2f(location int32, v0, v1 float32) {
	c.Context.Uniform2f(location, v0, v1)
	c.check("glUniform2f")
}

func (c *Checked) Uniform3f(location int32, v0, v1, v2 float32) {
	c.Context.Uniform3f(location, v0, v1, v2)
	c.check("glUniform3f")
}

func (c *Checked) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	c.Context.Uniform4f(location, v0, v1, v2, v3)
	c.check("glUniform4f")
}

func (c *Checked) UniformMatrix3fv(location int32, m *[9]float32) {
	c.Context.UniformMatrix3fv(location, m)
	c.check("glUniformMatrix3fv")
}

func (c *Checked) UniformMatrix4fv(location int32, m *[16]float32) {
	c.Context.UniformMatrix4fv(location, m)
	c.check("glUniformMatrix4fv")
}

func (c *Checked) GenTexture() uint32 {
	t := c.Context.GenTexture()
	c.check("glGenTextures")
	return t
}

func (c *Checked) DeleteTexture(texture uint32) {
	c.Context.DeleteTexture(texture)
	c.check("glDeleteTextures")
}

func (c *Checked) ActiveTexture(unit uint32) {
	c.Context.ActiveTexture(unit)
	c.check("glActiveTexture")
}

func (c *Checked) BindTexture(target, texture uint32) {
	c.Context.BindTexture(target, texture)
	c.check("glBindTexture")
}

func (c *Checked) TexParameteri(target, pname uint32, param int32) {
	c.Context.TexParameteri(target, pname, param)
	c.check("glTexParameteri")
}

func (c *Checked) TexParameterfv(target, pname uint32, params *[4]float32) {
	c.Context.TexParameterfv(target, pname, params)
	c.check("glTexParameterfv")
}

func (c *Checked) PixelStorei(pname uint32, param int32) {
	c.Context.PixelStorei(pname, param)
	c.check("glPixelStorei")
}

func (c *Checked) TexImage2D(target uint32, level, internalFormat, width, height int32, format, typ uint32, pix []byte) {
	c.Context.TexImage2D(target, level, internalFormat, width, height, format, typ, pix)
	c.check("glTexImage2D")
}

func (c *Checked) GenerateMipmap(target uint32) {
	c.Context.GenerateMipmap(target)
	c.check("glGenerateMipmap")
}

func (c *Checked) Viewport(x, y, width, height int32) {
	c.Context.Viewport(x, y, width, height)
	c.check("glViewport")
}
