package assets

import (
	"io"

	"github.com/pkg/errors"
)

type source string

func loadShader(r io.Reader, name string) (interface{}, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty shader source")
	}
	return source(data), nil
}

// Shader returns the source of the named shader, loading it if needed.
//
func (m *Manager) Shader(name string) (string, error) {
	m.m.Lock()
	defer m.m.Unlock()
	a, err := m.get(Shader(name))
	if err != nil {
		return "", err
	}
	if src, ok := a.(source); ok {
		return string(src), nil
	}
	return "", errors.Errorf("asset %s is not a shader", name)
}
