package shader

import (
	"github.com/db47h/tinyngine/gl"
	"github.com/pkg/errors"
)

// program is a registry slot.
type program struct {
	id       uint32
	uniforms map[string]int32
}

func stageName(typ uint32) string {
	switch typ {
	case gl.GL_VERTEX_SHADER:
		return "vertex"
	case gl.GL_FRAGMENT_SHADER:
		return "fragment"
	}
	return "unknown"
}

// newShader compiles a single stage. On failure, the shader object is deleted.
//
func newShader(ctx gl.Context, typ uint32, src string) (uint32, error) {
	s := ctx.CreateShader(typ)
	if s == 0 {
		return 0, errors.Errorf("glCreateShader(%s) failed", stageName(typ))
	}
	ctx.ShaderSource(s, src)
	ctx.CompileShader(s)
	if ok, log := ctx.ShaderCompileStatus(s); !ok {
		ctx.DeleteShader(s)
		return 0, errors.Errorf("compile %s shader: %s", stageName(typ), log)
	}
	return s, nil
}

// newProgram compiles and links a program from p. Stage objects are released
// once linked. On failure, every object created so far is deleted.
//
func newProgram(ctx gl.Context, p Params) (id uint32, err error) {
	if p.Vertex == "" {
		return 0, ErrEmptySource
	}
	id = ctx.CreateProgram()
	if id == 0 {
		return 0, errors.New("glCreateProgram failed")
	}

	stages := [...]struct {
		typ uint32
		src string
	}{
		{gl.GL_VERTEX_SHADER, p.Vertex},
		{gl.GL_FRAGMENT_SHADER, p.Fragment},
	}
	attached := make([]uint32, 0, len(stages))
	release := func() {
		for _, s := range attached {
			ctx.DetachShader(id, s)
			ctx.DeleteShader(s)
		}
	}

	for _, st := range stages {
		if st.src == "" {
			continue
		}
		s, err := newShader(ctx, st.typ, st.src)
		if err != nil {
			release()
			ctx.DeleteProgram(id)
			return 0, err
		}
		ctx.AttachShader(id, s)
		attached = append(attached, s)
	}

	ctx.LinkProgram(id)
	ok, log := ctx.ProgramLinkStatus(id)
	release()
	if !ok {
		ctx.DeleteProgram(id)
		return 0, errors.Errorf("link program: %s", log)
	}
	return id, nil
}
