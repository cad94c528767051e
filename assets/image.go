package assets

import (
	"image"
	"io"

	"github.com/db47h/tinyngine/texture"
	"github.com/pkg/errors"
)

type img struct {
	image.Image
}

func loadImage(r io.Reader, name string) (interface{}, error) {
	src, err := texture.DecodeReader(r, name)
	if err != nil {
		return nil, err
	}
	return img{src}, nil
}

// Image returns the named image, loading it if needed. The result can be
// passed to texture.Registry.CreateFromImage.
//
func (m *Manager) Image(name string) (image.Image, error) {
	m.m.Lock()
	defer m.m.Unlock()
	a, err := m.get(Image(name))
	if err != nil {
		return nil, err
	}
	if i, ok := a.(img); ok {
		return i.Image, nil
	}
	return nil, errors.Errorf("asset %s is not an image", name)
}
