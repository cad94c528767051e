// Package gl defines the subset of the OpenGL API used by the resource
// registries, along with the matching enum values.
//
// The registries talk to a Context rather than to global GL bindings so that
// they can run against a real driver (see package glcore) or against a test
// recorder (see package gltest).
//
package gl

// Enum values. They map directly to their OpenGL equivalents.
//
const (
	GL_NO_ERROR                      = 0
	GL_INVALID_ENUM                  = 0x0500
	GL_INVALID_VALUE                 = 0x0501
	GL_INVALID_OPERATION             = 0x0502
	GL_STACK_OVERFLOW                = 0x0503
	GL_STACK_UNDERFLOW               = 0x0504
	GL_OUT_OF_MEMORY                 = 0x0505
	GL_INVALID_FRAMEBUFFER_OPERATION = 0x0506

	GL_FRAGMENT_SHADER = 0x8B30
	GL_VERTEX_SHADER   = 0x8B31

	GL_UNSIGNED_BYTE = 0x1401
	GL_RGB           = 0x1907
	GL_RGBA          = 0x1908
	GL_RGB8          = 0x8051
	GL_RGBA8         = 0x8058

	GL_TEXTURE_2D           = 0x0DE1
	GL_TEXTURE0             = 0x84C0
	GL_TEXTURE_BORDER_COLOR = 0x1004
	GL_TEXTURE_MAG_FILTER   = 0x2800
	GL_TEXTURE_MIN_FILTER   = 0x2801
	GL_TEXTURE_WRAP_S       = 0x2802
	GL_TEXTURE_WRAP_T       = 0x2803
	GL_UNPACK_ALIGNMENT     = 0x0CF5

	GL_NEAREST                = 0x2600
	GL_LINEAR                 = 0x2601
	GL_NEAREST_MIPMAP_NEAREST = 0x2700
	GL_LINEAR_MIPMAP_NEAREST  = 0x2701
	GL_NEAREST_MIPMAP_LINEAR  = 0x2702
	GL_LINEAR_MIPMAP_LINEAR   = 0x2703

	GL_REPEAT          = 0x2901
	GL_CLAMP_TO_BORDER = 0x812D
	GL_CLAMP_TO_EDGE   = 0x812F
	GL_MIRRORED_REPEAT = 0x8370
)

// Context is the set of GL entry points used by the shader and texture
// registries. Object names are the raw driver identifiers; 0 is never a valid
// object.
//
// All methods must be called from the thread that owns the GL context.
//
type Context interface {
	GetError() uint32

	CreateProgram() uint32
	DeleteProgram(program uint32)
	CreateShader(typ uint32) uint32
	DeleteShader(shader uint32)
	ShaderSource(shader uint32, src string)
	CompileShader(shader uint32)
	// ShaderCompileStatus returns GL_COMPILE_STATUS and the shader info log.
	ShaderCompileStatus(shader uint32) (ok bool, infoLog string)
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	// ProgramLinkStatus returns GL_LINK_STATUS and the program info log.
	ProgramLinkStatus(program uint32) (ok bool, infoLog string)
	UseProgram(program uint32)
	GetUniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, v0, v1 float32)
	Uniform3f(location int32, v0, v1, v2 float32)
	Uniform4f(location int32, v0, v1, v2, v3 float32)
	UniformMatrix3fv(location int32, m *[9]float32)
	UniformMatrix4fv(location int32, m *[16]float32)

	GenTexture() uint32
	DeleteTexture(texture uint32)
	ActiveTexture(unit uint32)
	BindTexture(target, texture uint32)
	TexParameteri(target, pname uint32, param int32)
	TexParameterfv(target, pname uint32, params *[4]float32)
	PixelStorei(pname uint32, param int32)
	TexImage2D(target uint32, level, internalFormat, width, height int32, format, typ uint32, pix []byte)
	GenerateMipmap(target uint32)

	Viewport(x, y, width, height int32)
}
