package tinyngine

import (
	"path"

	"github.com/db47h/tinyngine/assets"
	"github.com/db47h/tinyngine/handle"
	"github.com/db47h/tinyngine/shader"
	"github.com/db47h/tinyngine/texture"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type programSource struct {
	vertex, fragment string
}

func (ps programSource) uses(m *assets.Manager, p string) bool {
	if m.Path(assets.Shader(ps.vertex)) == p {
		return true
	}
	return ps.fragment != "" && m.Path(assets.Shader(ps.fragment)) == p
}

func (ps programSource) params(m *assets.Manager) (p shader.Params, err error) {
	if p.Vertex, err = m.Shader(ps.vertex); err != nil {
		return p, err
	}
	if ps.fragment != "" {
		p.Fragment, err = m.Shader(ps.fragment)
	}
	return p, err
}

// ProgramFromAssets creates a program from the named shader assets. The
// fragment shader name may be empty. The source names are remembered so that
// Refresh can rebuild the program when they change.
//
func (c *Context) ProgramFromAssets(m *assets.Manager, vertex, fragment string) (handle.Handle, error) {
	ps := programSource{vertex, fragment}
	p, err := ps.params(m)
	if err != nil {
		return handle.Invalid, err
	}
	h, err := c.Programs.Create(p)
	if err != nil {
		return handle.Invalid, errors.Wrapf(err, "program %s+%s", vertex, fragment)
	}
	c.sources[h] = ps
	return h, nil
}

// TextureFromAsset creates a texture from the named image asset.
//
func (c *Context) TextureFromAsset(m *assets.Manager, name string, f texture.Format, params ...texture.Parameter) (handle.Handle, error) {
	img, err := m.Image(name)
	if err != nil {
		return handle.Invalid, err
	}
	h, err := c.Textures.CreateFromImage(img, f, params...)
	if err != nil {
		return handle.Invalid, errors.Wrap(err, name)
	}
	return h, nil
}

// Refresh drops the file named changed from the asset cache and rebuilds
// every program created by ProgramFromAssets that uses it, whether or not the
// file was cached. Programs that fail to rebuild keep running their previous
// version. It returns the number of rebuilt programs and the first error
// encountered.
//
func (c *Context) Refresh(m *assets.Manager, changed string) (int, error) {
	changed = path.Clean(changed)
	m.Invalidate(changed)
	var (
		n        int
		firstErr error
	)
	for h, ps := range c.sources {
		if !c.Programs.Valid(h) {
			delete(c.sources, h)
			continue
		}
		if !ps.uses(m, changed) {
			continue
		}
		err := c.reload(m, h, ps)
		if err == nil {
			n++
		} else if firstErr == nil {
			firstErr = err
		}
	}
	return n, firstErr
}

func (c *Context) reload(m *assets.Manager, h handle.Handle, ps programSource) error {
	p, err := ps.params(m)
	if err == nil {
		err = c.Programs.Reload(h, p)
	}
	if err != nil {
		c.log.Warn("program not reloaded", zap.Stringer("handle", h), zap.Error(err))
		return err
	}
	c.log.Info("program reloaded", zap.Stringer("handle", h),
		zap.String("vertex", ps.vertex), zap.String("fragment", ps.fragment))
	return nil
}
