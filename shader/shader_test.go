package shader_test

import (
	"testing"

	"github.com/db47h/tinyngine/gl"
	"github.com/db47h/tinyngine/gl/gltest"
	"github.com/db47h/tinyngine/handle"
	"github.com/db47h/tinyngine/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	passVS = `#version 330 core
layout (location = 0) in vec3 aPos;
uniform mat4 u_modelViewProj;
void main() { gl_Position = u_modelViewProj * vec4(aPos, 1.0); }
`
	passFS = `#version 330 core
out vec4 FragColor;
uniform vec3 u_color;
void main() { FragColor = vec4(u_color, 1.0); }
`
)

var passThrough = shader.Params{Vertex: passVS, Fragment: passFS}

func programID(t *testing.T, rec *gltest.Recorder, r *shader.Registry, h handle.Handle) uint32 {
	t.Helper()
	r.Use(h)
	require.NotZero(t, rec.Current)
	return rec.Current
}

func TestCreate_PassThrough(t *testing.T) {
	rec := new(gltest.Recorder)
	r := shader.NewRegistry(rec)

	h, err := r.Create(passThrough)
	require.NoError(t, err)
	require.True(t, h.IsValid())
	assert.Equal(t, 1, r.Len())

	require.Len(t, rec.Programs, 1)
	assert.Empty(t, rec.Shaders, "stage objects released after link")
	for _, p := range rec.Programs {
		assert.True(t, p.Linked)
		assert.Empty(t, p.Attached)
	}
	assert.Equal(t, 2, rec.Count("CompileShader"))
}

func TestCreate_VertexOnly(t *testing.T) {
	rec := new(gltest.Recorder)
	r := shader.NewRegistry(rec)
	h, err := r.Create(shader.Params{Vertex: passVS})
	require.NoError(t, err)
	assert.True(t, h.IsValid())
	assert.Equal(t, 1, rec.Count("CompileShader"))
}

func TestDestroyThenUseIsNoop(t *testing.T) {
	rec := new(gltest.Recorder)
	r := shader.NewRegistry(rec)
	h, err := r.Create(passThrough)
	require.NoError(t, err)
	require.True(t, h.IsValid())

	r.Destroy(h)
	assert.Zero(t, rec.Live())
	assert.Zero(t, r.Len())

	rec.Reset()
	r.Use(h)
	r.SetFloat(h, "u_time", 1)
	r.Destroy(h)
	assert.Empty(t, rec.Calls)

	// a new program reusing the slot is not reachable through the old handle.
	h2, err := r.Create(passThrough)
	require.NoError(t, err)
	assert.Equal(t, h.Index(), h2.Index())
	rec.Reset()
	r.Use(h)
	assert.Empty(t, rec.Calls)
}

func TestCreate_Failures(t *testing.T) {
	for _, tc := range []struct {
		name   string
		rec    *gltest.Recorder
		params shader.Params
		msg    string
	}{
		{"empty vertex", new(gltest.Recorder), shader.Params{Fragment: passFS}, "empty vertex shader source"},
		{"empty", new(gltest.Recorder), shader.Params{}, "empty vertex shader source"},
		{"vertex compile", &gltest.Recorder{CompileError: "aPos"}, passThrough, "compile vertex shader"},
		{"fragment compile", &gltest.Recorder{CompileError: "FragColor"}, passThrough, "compile fragment shader"},
		{"link", &gltest.Recorder{FailLink: true}, passThrough, "link program"},
		{"driver", &gltest.Recorder{FailCreate: true}, passThrough, "glCreateProgram failed"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.ErrorLevel)
			r := shader.NewRegistry(tc.rec, shader.Logger(zap.New(core)))
			h, err := r.Create(tc.params)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
			assert.False(t, h.IsValid())
			assert.Zero(t, tc.rec.Live(), "no leaked GL objects")
			assert.Zero(t, r.Len())
			assert.Equal(t, 1, logs.Len())
		})
	}
}

func TestCreate_EmptySourceMakesNoGLCalls(t *testing.T) {
	rec := new(gltest.Recorder)
	r := shader.NewRegistry(rec)
	_, err := r.Create(shader.Params{})
	assert.Equal(t, shader.ErrEmptySource, err)
	assert.Empty(t, rec.Calls)
}

func TestCreate_Full(t *testing.T) {
	rec := new(gltest.Recorder)
	r := shader.NewRegistry(rec, shader.Capacity(1))
	_, err := r.Create(passThrough)
	require.NoError(t, err)
	h, err := r.Create(passThrough)
	assert.Equal(t, handle.ErrFull, err)
	assert.False(t, h.IsValid())
	assert.Len(t, rec.Programs, 1)
}

func TestUniforms(t *testing.T) {
	rec := new(gltest.Recorder)
	r := shader.NewRegistry(rec)
	h, err := r.Create(passThrough)
	require.NoError(t, err)
	id := programID(t, rec, r, h)

	m4 := mgl32.Translate3D(1, 2, 3)
	m3 := mgl32.Rotate3DZ(0.5)
	r.SetInt(h, "u_material.diffuse", 1)
	r.SetFloat(h, "u_material.shininess", 32)
	r.SetVec2(h, "u_offset", mgl32.Vec2{1, 2})
	r.SetVec3(h, "u_color", mgl32.Vec3{0.1, 0.2, 0.3})
	r.SetVec4(h, "u_light.direction", mgl32.Vec4{-0.2, -1, -0.3, 0})
	r.SetMat3(h, "u_normal", m3)
	r.SetMat4(h, "u_modelViewProj", m4)

	for name, want := range map[string]interface{}{
		"u_material.diffuse":   int32(1),
		"u_material.shininess": float32(32),
		"u_offset":             [2]float32{1, 2},
		"u_color":              [3]float32{0.1, 0.2, 0.3},
		"u_light.direction":    [4]float32{-0.2, -1, -0.3, 0},
		"u_normal":             [9]float32(m3),
		"u_modelViewProj":      [16]float32(m4),
	} {
		got, ok := rec.Uniform(id, name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	// locations are cached.
	rec.Reset()
	r.SetFloat(h, "u_material.shininess", 64)
	assert.Zero(t, rec.Count("GetUniformLocation"))
	assert.Equal(t, 1, rec.Count("Uniform1f"))
}

func TestUniforms_SwitchProgram(t *testing.T) {
	rec := new(gltest.Recorder)
	r := shader.NewRegistry(rec)
	a, err := r.Create(passThrough)
	require.NoError(t, err)
	b, err := r.Create(passThrough)
	require.NoError(t, err)
	idB := programID(t, rec, r, b)
	idA := programID(t, rec, r, a)

	r.SetFloat(b, "u_time", 2)
	assert.Equal(t, idB, rec.Current)
	v, ok := rec.Uniform(idB, "u_time")
	require.True(t, ok)
	assert.Equal(t, float32(2), v)
	_, ok = rec.Uniform(idA, "u_time")
	assert.False(t, ok)

	rec.Reset()
	r.SetFloat(b, "u_time", 3)
	assert.Zero(t, rec.Count("UseProgram"), "already current")
}

func TestUniforms_Inactive(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	rec := &gltest.Recorder{Inactive: map[string]bool{"u_unused": true}}
	r := shader.NewRegistry(rec, shader.Logger(zap.New(core)))
	h, err := r.Create(passThrough)
	require.NoError(t, err)

	rec.Reset()
	r.SetFloat(h, "u_unused", 1)
	r.SetFloat(h, "u_unused", 2)
	r.SetFloat(h, "", 2)
	assert.Equal(t, 1, rec.Count("GetUniformLocation"))
	assert.Zero(t, rec.Count("Uniform1f"))
	assert.Equal(t, 1, logs.FilterMessage("inactive uniform").Len())
}

func TestInvalidHandleIsNoop(t *testing.T) {
	rec := new(gltest.Recorder)
	r := shader.NewRegistry(rec)
	h := handle.Invalid

	r.Use(h)
	r.SetInt(h, "a", 1)
	r.SetFloat(h, "a", 1)
	r.SetVec2(h, "a", mgl32.Vec2{})
	r.SetVec3(h, "a", mgl32.Vec3{})
	r.SetVec4(h, "a", mgl32.Vec4{})
	r.SetMat3(h, "a", mgl32.Ident3())
	r.SetMat4(h, "a", mgl32.Ident4())
	r.Destroy(h)
	assert.Error(t, r.Reload(h, passThrough))
	assert.Empty(t, rec.Calls)
}

func TestReload(t *testing.T) {
	rec := new(gltest.Recorder)
	r := shader.NewRegistry(rec)
	h, err := r.Create(passThrough)
	require.NoError(t, err)
	old := programID(t, rec, r, h)
	r.SetFloat(h, "u_time", 1)

	require.NoError(t, r.Reload(h, passThrough))
	assert.NotContains(t, rec.Programs, old)
	require.Len(t, rec.Programs, 1)

	rec.Reset()
	r.SetFloat(h, "u_time", 2)
	assert.Equal(t, 1, rec.Count("GetUniformLocation"), "location cache reset")
	assert.Equal(t, 1, rec.Count("UseProgram"))
	assert.NotEqual(t, old, rec.Current)

	// failed reload keeps the current program.
	cur := rec.Current
	rec.CompileError = "FragColor"
	err = r.Reload(h, passThrough)
	require.Error(t, err)
	assert.Contains(t, rec.Programs, cur)
	assert.Equal(t, 1, rec.Live())
}

func TestClose(t *testing.T) {
	rec := new(gltest.Recorder)
	r := shader.NewRegistry(rec)
	for i := 0; i < 3; i++ {
		_, err := r.Create(passThrough)
		require.NoError(t, err)
	}
	r.Close()
	assert.Zero(t, r.Len())
	assert.Zero(t, rec.Live())
}

func TestCheckedContextPanicsOnGLError(t *testing.T) {
	rec := new(gltest.Recorder)
	r := shader.NewRegistry(gl.WithErrorCheck(rec, gl.Panic, nil))
	h, err := r.Create(passThrough)
	require.NoError(t, err)
	rec.Errors = []uint32{gl.GL_INVALID_OPERATION}
	assert.Panics(t, func() { r.Use(h) })
}
