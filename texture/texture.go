// Package texture implements a registry of OpenGL 2D textures addressed by
// handle.Handle.
//
package texture

import (
	"image/color"
	"strconv"

	"github.com/db47h/tinyngine/gl"
)

// Format is the pixel format of a texture.
//
type Format int

// Supported formats. Both use 8 bits per channel.
//
const (
	RGB8 Format = iota
	RGBA8
)

func (f Format) String() string {
	switch f {
	case RGB8:
		return "RGB8"
	case RGBA8:
		return "RGBA8"
	}
	return "unknown format"
}

type formatInfo struct {
	internalFormat int32
	format         uint32
	typ            uint32
	channels       int
}

var formats = [...]formatInfo{
	RGB8:  {gl.GL_RGB, gl.GL_RGB, gl.GL_UNSIGNED_BYTE, 3},
	RGBA8: {gl.GL_RGBA, gl.GL_RGBA, gl.GL_UNSIGNED_BYTE, 4},
}

func (f Format) valid() bool { return f >= 0 && int(f) < len(formats) }

// FilterMode selects how to filter textures.
//
type FilterMode int32

// FilterMode values map directly to their OpenGL equivalents.
//
const (
	Nearest              FilterMode = gl.GL_NEAREST
	Linear               FilterMode = gl.GL_LINEAR
	NearestMipmapNearest FilterMode = gl.GL_NEAREST_MIPMAP_NEAREST
	NearestMipmapLinear  FilterMode = gl.GL_NEAREST_MIPMAP_LINEAR
	LinearMipmapNearest  FilterMode = gl.GL_LINEAR_MIPMAP_NEAREST
	LinearMipmapLinear   FilterMode = gl.GL_LINEAR_MIPMAP_LINEAR
)

// WrapMode selects how textures wrap when texture coordinates get outside of
// the range [0, 1].
//
type WrapMode int32

// WrapMode values map directly to their OpenGL equivalents.
//
const (
	Repeat         WrapMode = gl.GL_REPEAT
	MirroredRepeat WrapMode = gl.GL_MIRRORED_REPEAT
	ClampToEdge    WrapMode = gl.GL_CLAMP_TO_EDGE
	ClampToBorder  WrapMode = gl.GL_CLAMP_TO_BORDER
)

// Filtering is a filtering preset for SetFiltering.
//
type Filtering int

// Filtering presets.
//
const (
	NoFiltering Filtering = iota // nearest texel, no mipmaps
	Point                        // nearest texel from the nearest mipmap
	Bilinear                     // linear within the nearest mipmap
	Trilinear                    // linear within and between mipmaps
)

func (f Filtering) String() string {
	switch f {
	case NoFiltering:
		return "none"
	case Point:
		return "point"
	case Bilinear:
		return "bilinear"
	case Trilinear:
		return "trilinear"
	}
	return "Filtering(" + strconv.Itoa(int(f)) + ")"
}

var filterings = [...][2]FilterMode{
	NoFiltering: {Nearest, Nearest},
	Point:       {NearestMipmapNearest, Nearest},
	Bilinear:    {LinearMipmapNearest, Linear},
	Trilinear:   {LinearMipmapLinear, Linear},
}

type tp struct {
	wrapS, wrapT         WrapMode
	minFilter, magFilter FilterMode
	border               color.Color
}

// Parameter is implemented by functions setting texture parameters.
//
type Parameter interface {
	set(*tp)
}

type optionFunc func(*tp)

func (f optionFunc) set(p *tp) {
	f(p)
}

// Wrap sets the GL_TEXTURE_WRAP_S and GL_TEXTURE_WRAP_T texture parameters.
//
func Wrap(wrapS, wrapT WrapMode) Parameter {
	return optionFunc(func(p *tp) {
		p.wrapS = wrapS
		p.wrapT = wrapT
	})
}

// Filter sets the GL_TEXTURE_MIN_FILTER and GL_TEXTURE_MAG_FILTER texture parameters.
//
func Filter(min, mag FilterMode) Parameter {
	return optionFunc(func(p *tp) {
		p.minFilter = min
		p.magFilter = mag
	})
}

// BorderColor sets the GL_TEXTURE_BORDER_COLOR texture parameter.
//
func BorderColor(c color.Color) Parameter {
	return optionFunc(func(p *tp) {
		p.border = c
	})
}

// defaultParams are applied to every new texture before user parameters.
var defaultParams = []Parameter{
	Wrap(Repeat, Repeat),
	Filter(Linear, Linear),
}

// texture is a registry slot.
type texture struct {
	id     uint32
	width  int
	height int
	format Format
}

func (t *texture) setParams(ctx gl.Context, params ...Parameter) {
	var tp tp
	for _, p := range params {
		p.set(&tp)
	}
	if tp.wrapS != 0 {
		ctx.TexParameteri(gl.GL_TEXTURE_2D, gl.GL_TEXTURE_WRAP_S, int32(tp.wrapS))
	}
	if tp.wrapT != 0 {
		ctx.TexParameteri(gl.GL_TEXTURE_2D, gl.GL_TEXTURE_WRAP_T, int32(tp.wrapT))
	}
	if tp.minFilter != 0 {
		ctx.TexParameteri(gl.GL_TEXTURE_2D, gl.GL_TEXTURE_MIN_FILTER, int32(tp.minFilter))
	}
	if tp.magFilter != 0 {
		ctx.TexParameteri(gl.GL_TEXTURE_2D, gl.GL_TEXTURE_MAG_FILTER, int32(tp.magFilter))
	}
	if tp.border != nil {
		c := color.RGBAModel.Convert(tp.border).(color.RGBA)
		bc := [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
		ctx.TexParameterfv(gl.GL_TEXTURE_2D, gl.GL_TEXTURE_BORDER_COLOR, &bc)
	}
}
