package gl

import "strconv"

// ErrorString returns the name of a GL error code.
//
func ErrorString(code uint32) string {
	switch code {
	case GL_NO_ERROR:
		return "GL_NO_ERROR"
	case GL_INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case GL_INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case GL_INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case GL_STACK_OVERFLOW:
		return "GL_STACK_OVERFLOW"
	case GL_STACK_UNDERFLOW:
		return "GL_STACK_UNDERFLOW"
	case GL_OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	case GL_INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	}
	return "unknown GL error"
}

// Error is a GL error raised by a call to Op.
//
type Error struct {
	Op   string
	Code uint32
}

func (e *Error) Error() string {
	return "gl: " + e.Op + ": " + ErrorString(e.Code) + " (0x" + strconv.FormatUint(uint64(e.Code), 16) + ")"
}
