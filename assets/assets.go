// Package assets provides asynchronous (pre)loading and caching of shader
// sources and images from an overlay file system.
//
package assets

import (
	"io"
	"path"
	"runtime"
	"strings"
	"sync"

	"github.com/db47h/ofs"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrMissing is returned when discarding an asset that is neither loaded nor
// pending.
//
var ErrMissing = errors.New("asset not found")

type errorList []error

func (e errorList) Error() string {
	var sb strings.Builder
	for i, err := range e {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

type config struct {
	shaderPath  string
	texturePath string
	log         *zap.Logger
}

func (c *config) assetPath(a Asset) string {
	switch a.Type {
	case TypeShader:
		return path.Join(c.shaderPath, a.Name)
	case TypeImage:
		return path.Join(c.texturePath, a.Name)
	}
	return a.Name
}

// Option is implemented by option functions passed as arguments to NewManager.
//
type Option interface {
	set(*config)
}

type cfn func(*config)

func (f cfn) set(cfg *config) {
	f(cfg)
}

// ShaderPath returns an Option that sets the default path for shader sources.
//
func ShaderPath(name string) Option {
	return cfn(func(cfg *config) {
		cfg.shaderPath = name
	})
}

// TexturePath returns an Option that sets the default path for images.
//
func TexturePath(name string) Option {
	return cfn(func(cfg *config) {
		cfg.texturePath = name
	})
}

// Logger returns an Option that sets the logger for load failures.
//
func Logger(l *zap.Logger) Option {
	return cfn(func(cfg *config) {
		if l != nil {
			cfg.log = l
		}
	})
}

// Type designates the type of an asset.
//
type Type int

const (
	TypeShader Type = iota
	TypeImage
	typeLast
)

var loaders = [typeLast]func(r io.Reader, name string) (interface{}, error){
	TypeShader: loadShader,
	TypeImage:  loadImage,
}

// Asset uniquely describes an asset.
//
type Asset struct {
	Type
	Name string
}

func (a Asset) String() string {
	switch a.Type {
	case TypeShader:
		return "shader asset " + a.Name
	case TypeImage:
		return "image asset " + a.Name
	}
	return "unknown asset " + a.Name
}

func Shader(name string) Asset { return Asset{TypeShader, name} }
func Image(name string) Asset  { return Asset{TypeImage, name} }

// Result wraps the result from preloading an asset.
//
type Result struct {
	Asset
	Err error
}

// A Manager manages asynchronous (pre)loading and caching of shader sources
// and images.
//
type Manager struct {
	fs      ofs.FileSystem
	cfg     *config
	m       sync.Mutex
	cond    *sync.Cond
	assets  map[Asset]interface{}
	pending map[Asset]struct{}
}

// NewManager returns a new asset Manager.
//
func NewManager(fs ofs.FileSystem, options ...Option) *Manager {
	cfg := &config{log: zap.NewNop()}
	for _, o := range options {
		o.set(cfg)
	}

	m := &Manager{
		fs:      fs,
		cfg:     cfg,
		assets:  make(map[Asset]interface{}),
		pending: make(map[Asset]struct{}),
	}
	m.cond = sync.NewCond(&m.m)
	return m
}

type loadState int

const (
	stateMissing loadState = iota
	statePending
	stateLoaded
)

func (m *Manager) lookup(a Asset) (data interface{}, state loadState) {
	if data, ok := m.assets[a]; ok {
		return data, stateLoaded
	}
	if _, ok := m.pending[a]; ok {
		return nil, statePending
	}
	return nil, stateMissing
}

// load loads an asset from the file system.
//
func (m *Manager) load(a Asset) (interface{}, error) {
	name := m.cfg.assetPath(a)
	r, err := m.fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return loaders[a.Type](r, name)
}

// get returns an asset from cache or synchronously loads it if not in the
// cache. If this asset is being loaded from another goroutine, get will wait
// for the asset to be loaded and return the cached version.
//
// m.m must be held.
//
func (m *Manager) get(a Asset) (data interface{}, err error) {
	defer func() {
		if err != nil {
			err = errors.Wrapf(err, "load %s", a)
			m.cfg.log.Error("load asset", zap.Stringer("asset", a), zap.Error(err))
		}
	}()
	for {
		data, s := m.lookup(a)
		switch s {
		case stateMissing:
			m.pending[a] = struct{}{}
			m.m.Unlock()
			data, err := m.load(a)
			m.m.Lock()
			delete(m.pending, a)
			m.cond.Broadcast()
			if err != nil {
				return nil, err
			}
			m.assets[a] = data
			return data, nil
		case stateLoaded:
			return data, nil
		}
		m.cond.Wait()
	}
}

// Discard removes the given asset from the cache. If the asset is being
// loaded, Discard waits for the load to complete.
//
func (m *Manager) Discard(a Asset) error {
	m.m.Lock()
	defer m.m.Unlock()
	for {
		if _, ok := m.assets[a]; ok {
			delete(m.assets, a)
			return nil
		}
		if _, ok := m.pending[a]; !ok {
			return errors.Wrapf(ErrMissing, "discard %s", a)
		}
		m.cond.Wait()
	}
}

// Path returns the path of the file a is loaded from, relative to the file
// system root.
//
func (m *Manager) Path(a Asset) string {
	return path.Clean(m.cfg.assetPath(a))
}

// Invalidate discards every cached asset loaded from the file at path p,
// relative to the file system root, and returns them. It is meant to be fed
// with the names reported by a Watcher.
//
func (m *Manager) Invalidate(p string) []Asset {
	p = path.Clean(p)
	m.m.Lock()
	defer m.m.Unlock()
	var r []Asset
	for a := range m.assets {
		if m.Path(a) == p {
			delete(m.assets, a)
			r = append(r, a)
		}
	}
	return r
}

// Loaded reports whether a is in the cache.
//
func (m *Manager) Loaded(a Asset) bool {
	m.m.Lock()
	_, s := m.lookup(a)
	m.m.Unlock()
	return s == stateLoaded
}

// Close discards all assets. Loads still in flight complete normally.
//
func (m *Manager) Close() error {
	m.m.Lock()
	m.assets = make(map[Asset]interface{})
	m.m.Unlock()
	return nil
}

// Preload bulk preloads assets. If the flush argument is true, cached assets
// not present in the asset list will be removed from the cache. It returns a
// channel to read preload results from as well as the number of items that will
// actually be preloaded. This item count is informational only and callers
// should rely on the rc channel being closed to ensure that the operation is
// complete.
//
// While preload starts immediately, it will stall after a few assets have been
// preloaded until the rc channel is read from (or Wait is called).
//
func (m *Manager) Preload(assets []Asset, flush bool) (rc <-chan Result, n int) {
	for _, a := range assets {
		if a.Type < 0 || a.Type >= typeLast {
			panic(errors.Errorf("invalid asset type %d", a.Type))
		}
	}

	m.m.Lock()
	if flush {
		amap := map[Asset]struct{}{}
		for i := range assets {
			amap[assets[i]] = struct{}{}
		}
		for k := range m.assets {
			if _, ok := amap[k]; !ok {
				delete(m.assets, k)
			}
		}
	}

	// mark assets as pending and ignore loaded/pending assets or duplicates
	todo := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if _, state := m.lookup(a); state != stateMissing {
			continue
		}
		m.pending[a] = struct{}{}
		todo = append(todo, a)
	}
	m.m.Unlock()

	c := make(chan Result)
	go m.preload(todo, c)
	return c, len(todo)
}

func (m *Manager) preload(assets []Asset, rc chan Result) {
	// we use a buffered channel as a semaphore to spawn a limited number of
	// workers. This is to prevent excessive simultaneous disk access on
	// mechanical hard drives.
	//
	// goroutines will release the semaphore as soon as they have finished
	// loading the asset but will remain alive until they have sent their result
	// over rc.
	//
	sem := make(chan struct{}, 2*runtime.NumCPU())
	wg := new(sync.WaitGroup)
	for i := range assets {
		sem <- struct{}{}
		wg.Add(1)
		go func(a Asset) {
			defer wg.Done()
			data, err := m.load(a)
			m.m.Lock()
			if err != nil {
				err = errors.Wrapf(err, "preload %s", a)
			} else {
				m.assets[a] = data
			}
			delete(m.pending, a)
			m.cond.Broadcast()
			m.m.Unlock()
			<-sem
			if err != nil {
				m.cfg.log.Error("preload asset", zap.Stringer("asset", a), zap.Error(err))
			}
			rc <- Result{Asset: a, Err: err}
		}(assets[i])
	}
	wg.Wait()
	close(rc)
}

// Wait waits for completion of a previous Preload and returns any load errors.
//
func Wait(rc <-chan Result) error {
	var errs errorList
	for r := range rc {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if errs != nil {
		return errs
	}
	return nil
}
