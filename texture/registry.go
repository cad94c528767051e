package texture

import (
	"image"

	"github.com/db47h/tinyngine/gl"
	"github.com/db47h/tinyngine/handle"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Creation errors.
//
var (
	ErrEmptyPath  = errors.New("empty texture path")
	ErrEmptyImage = errors.New("empty image")
	ErrCreate     = errors.New("glGenTextures failed")
)

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

// Capacity sets the maximum number of live textures.
//
func Capacity(n int) Option {
	return cfn(func(cfg *config) {
		cfg.capacity = n
	})
}

// Logger sets the logger used to report creation failures.
//
func Logger(l *zap.Logger) Option {
	return cfn(func(cfg *config) {
		cfg.log = l
	})
}

// A Registry owns GL textures and hands out handles to them.
//
// Operations on an invalid or stale handle are no-ops. A Registry must only be
// used from the thread owning its GL context.
//
type Registry struct {
	ctx   gl.Context
	log   *zap.Logger
	table *handle.Table[texture]
}

// NewRegistry returns a new, empty, texture registry using ctx.
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
		table: handle.NewTable[texture](cfg.capacity),
	}
}

// Create loads the named image file and uploads it as a new texture in the
// given format. The image is flipped vertically so that texture space Y points
// up. It returns handle.Invalid and a non-nil error if the file cannot be
// decoded or the texture cannot be created.
//
func (r *Registry) Create(name string, format Format, params ...Parameter) (handle.Handle, error) {
	if name == "" {
		r.log.Error("create texture", zap.Error(ErrEmptyPath))
		return handle.Invalid, ErrEmptyPath
	}
	img, err := Decode(name)
	if err != nil {
		r.log.Error("create texture", zap.String("path", name), zap.Error(err))
		return handle.Invalid, err
	}
	h, err := r.CreateFromImage(img, format, params...)
	if err != nil {
		return handle.Invalid, errors.Wrap(err, name)
	}
	return h, nil
}

// CreateFromImage uploads src as a new texture in the given format.
//
func (r *Registry) CreateFromImage(src image.Image, format Format, params ...Parameter) (handle.Handle, error) {
	h, err := r.create(src, format, params)
	if err != nil {
		r.log.Error("create texture", zap.Stringer("format", format), zap.Error(err))
		return handle.Invalid, err
	}
	return h, nil
}

func (r *Registry) create(src image.Image, format Format, params []Parameter) (handle.Handle, error) {
	if !format.valid() {
		return handle.Invalid, errors.Errorf("invalid texture format %d", format)
	}
	if src == nil || src.Bounds().Empty() {
		return handle.Invalid, ErrEmptyImage
	}
	if r.table.Len() == r.table.Cap() {
		return handle.Invalid, handle.ErrFull
	}

	ctx := r.ctx
	id := ctx.GenTexture()
	if id == 0 {
		return handle.Invalid, ErrCreate
	}

	sz := src.Bounds().Size()
	t := texture{id: id, width: sz.X, height: sz.Y, format: format}
	fi := formats[format]

	ctx.BindTexture(gl.GL_TEXTURE_2D, id)
	t.setParams(ctx, append(append([]Parameter(nil), defaultParams...), params...)...)
	if fi.channels == 4 {
		ctx.PixelStorei(gl.GL_UNPACK_ALIGNMENT, 4)
	} else {
		ctx.PixelStorei(gl.GL_UNPACK_ALIGNMENT, 1)
	}
	ctx.TexImage2D(gl.GL_TEXTURE_2D, 0, fi.internalFormat, int32(sz.X), int32(sz.Y), fi.format, fi.typ, pixels(src, format))
	ctx.GenerateMipmap(gl.GL_TEXTURE_2D)
	ctx.BindTexture(gl.GL_TEXTURE_2D, 0)

	h, err := r.table.Insert(t)
	if err != nil {
		ctx.DeleteTexture(id)
		return handle.Invalid, err
	}
	return h, nil
}

func (r *Registry) get(h handle.Handle) *texture {
	t, ok := r.table.Get(h)
	if !ok {
		if h.IsValid() {
			r.log.Debug("stale texture handle", zap.Stringer("handle", h))
		}
		return nil
	}
	return t
}

// Bind binds the texture to the given texture unit.
//
func (r *Registry) Bind(h handle.Handle, unit uint8) {
	t := r.get(h)
	if t == nil {
		return
	}
	r.ctx.ActiveTexture(gl.GL_TEXTURE0 + uint32(unit))
	r.ctx.BindTexture(gl.GL_TEXTURE_2D, t.id)
}

// Parameters sets the given texture parameters. The texture is left bound to
// the active texture unit.
//
func (r *Registry) Parameters(h handle.Handle, params ...Parameter) {
	t := r.get(h)
	if t == nil || len(params) == 0 {
		return
	}
	r.ctx.BindTexture(gl.GL_TEXTURE_2D, t.id)
	t.setParams(r.ctx, params...)
}

// SetFiltering sets the minifying and magnifying filters from a preset.
//
func (r *Registry) SetFiltering(h handle.Handle, f Filtering) {
	if f < 0 || int(f) >= len(filterings) {
		r.log.Warn("invalid texture filtering", zap.Int("filtering", int(f)))
		return
	}
	r.Parameters(h, Filter(filterings[f][0], filterings[f][1]))
}

// SetWrapping sets the wrap mode for both texture coordinates.
//
func (r *Registry) SetWrapping(h handle.Handle, m WrapMode) {
	r.Parameters(h, Wrap(m, m))
}

// Size returns the size in pixels of the texture.
//
func (r *Registry) Size(h handle.Handle) (image.Point, bool) {
	t := r.get(h)
	if t == nil {
		return image.Point{}, false
	}
	return image.Pt(t.width, t.height), true
}

// Format returns the pixel format of the texture.
//
func (r *Registry) Format(h handle.Handle) (Format, bool) {
	t := r.get(h)
	if t == nil {
		return 0, false
	}
	return t.format, true
}

// Destroy deletes the texture. h and all its copies become stale.
//
func (r *Registry) Destroy(h handle.Handle) {
	t, ok := r.table.Remove(h)
	if !ok {
		return
	}
	r.ctx.DeleteTexture(t.id)
}

// Close destroys all textures.
//
func (r *Registry) Close() {
	var hs []handle.Handle
	r.table.Each(func(h handle.Handle, _ *texture) bool {
		hs = append(hs, h)
		return true
	})
	for _, h := range hs {
		r.Destroy(h)
	}
}

// Valid reports whether h references a live texture.
//
func (r *Registry) Valid(h handle.Handle) bool {
	return r.table.Contains(h)
}

// Len returns the number of live textures.
//
func (r *Registry) Len() int {
	return r.table.Len()
}
