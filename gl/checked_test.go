package gl_test

import (
	"testing"

	"github.com/db47h/tinyngine/gl"
	"github.com/db47h/tinyngine/gl/gltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithErrorCheck_Ignore(t *testing.T) {
	r := new(gltest.Recorder)
	ctx := gl.WithErrorCheck(r, gl.Ignore, nil)
	assert.Same(t, r, ctx)
}

func TestChecked_Log(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := &gltest.Recorder{Errors: []uint32{gl.GL_INVALID_ENUM, gl.GL_OUT_OF_MEMORY}}
	ctx := gl.WithErrorCheck(r, gl.Log, zap.New(core))

	ctx.BindTexture(gl.GL_TEXTURE_2D, 42)

	require.Equal(t, 2, logs.Len())
	e := logs.All()[0]
	assert.Equal(t, "glBindTexture", e.ContextMap()["op"])
	assert.Equal(t, "GL_INVALID_ENUM", e.ContextMap()["error"])
	assert.Equal(t, "GL_OUT_OF_MEMORY", logs.All()[1].ContextMap()["error"])
	assert.Empty(t, r.Errors)

	ctx.UseProgram(0)
	assert.Equal(t, 2, logs.Len(), "no new errors")
}

func TestChecked_Panic(t *testing.T) {
	r := &gltest.Recorder{Errors: []uint32{gl.GL_INVALID_OPERATION}}
	ctx := gl.WithErrorCheck(r, gl.Panic, zap.NewNop())

	defer func() {
		v := recover()
		require.NotNil(t, v)
		err, ok := v.(*gl.Error)
		require.True(t, ok)
		assert.Equal(t, "glUseProgram", err.Op)
		assert.Equal(t, uint32(gl.GL_INVALID_OPERATION), err.Code)
		assert.Equal(t, "gl: glUseProgram: GL_INVALID_OPERATION (0x502)", err.Error())
	}()
	ctx.UseProgram(1)
}

func TestChecked_Passthrough(t *testing.T) {
	r := new(gltest.Recorder)
	ctx := gl.WithErrorCheck(r, gl.Panic, nil)
	p := ctx.CreateProgram()
	assert.NotZero(t, p)
	s := ctx.CreateShader(gl.GL_VERTEX_SHADER)
	ctx.ShaderSource(s, "void main() {}")
	ctx.CompileShader(s)
	ok, _ := ctx.ShaderCompileStatus(s)
	assert.True(t, ok)
	ctx.AttachShader(p, s)
	ctx.LinkProgram(p)
	ok, _ = ctx.ProgramLinkStatus(p)
	assert.True(t, ok)
	ctx.DeleteShader(s)
	ctx.DeleteProgram(p)
	assert.Zero(t, r.Live())
	assert.Equal(t, gl.Panic, ctx.(*gl.Checked).Policy())
}

func TestPolicy_Text(t *testing.T) {
	for _, p := range []gl.Policy{gl.Ignore, gl.Log, gl.Panic} {
		b, err := p.MarshalText()
		require.NoError(t, err)
		var q gl.Policy
		require.NoError(t, q.UnmarshalText(b))
		assert.Equal(t, p, q)
	}
	p, err := gl.ParsePolicy("PANIC")
	require.NoError(t, err)
	assert.Equal(t, gl.Panic, p)

	_, err = gl.ParsePolicy("abort")
	assert.Error(t, err)
	assert.Equal(t, "Policy(7)", gl.Policy(7).String())
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "GL_INVALID_VALUE", gl.ErrorString(gl.GL_INVALID_VALUE))
	assert.Equal(t, "GL_INVALID_FRAMEBUFFER_OPERATION", gl.ErrorString(gl.GL_INVALID_FRAMEBUFFER_OPERATION))
	assert.Equal(t, "unknown GL error", gl.ErrorString(0x1234))
}
