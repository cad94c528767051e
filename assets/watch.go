package assets

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Watcher reports changes to files under a set of OS directories. Changed
// files are reported relative to the directory they belong to, with forward
// slashes, so that they match the names used by a Manager whose overlay was
// built from the same directories.
//
type Watcher struct {
	w     *fsnotify.Watcher
	roots []string
	log   *zap.Logger
	c     chan string
	done  chan struct{}
	once  sync.Once
	err   error
}

// NewWatcher starts watching dirs and all their subdirectories. Directories
// that do not exist are skipped.
//
func NewWatcher(log *zap.Logger, dirs ...string) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	w := &Watcher{w: fw, log: log, c: make(chan string, 64), done: make(chan struct{})}
	for _, d := range dirs {
		root, err := filepath.Abs(d)
		if err != nil {
			fw.Close()
			return nil, errors.Wrap(err, d)
		}
		if err = w.add(root, nil); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Debug("skip missing watch directory", zap.String("dir", d))
				continue
			}
			fw.Close()
			return nil, errors.Wrapf(err, "watch %s", d)
		}
		w.roots = append(w.roots, root)
	}
	go w.run()
	return w, nil
}

// Changes returns the channel on which changed file names are delivered. The
// channel is closed when the watcher is closed. Names are dropped if the
// channel is full.
//
func (w *Watcher) Changes() <-chan string {
	return w.c
}

// add watches dir and its subdirectories. Files found along the way are passed
// to f.
//
func (w *Watcher) add(dir string, f func(string)) error {
	return filepath.WalkDir(dir, func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if e.IsDir() {
			return w.w.Add(p)
		}
		if f != nil {
			f(p)
		}
		return nil
	})
}

// send reports the file at the OS path name. It returns false if the watcher
// is closed.
//
func (w *Watcher) send(name string, op fsnotify.Op) bool {
	rel, ok := w.rel(name)
	if !ok {
		return true
	}
	w.log.Debug("asset changed", zap.String("name", rel), zap.Stringer("op", op))
	select {
	case w.c <- rel:
	case <-w.done:
		return false
	default:
		w.log.Warn("asset change dropped", zap.String("name", rel))
	}
	return true
}

func (w *Watcher) run() {
	defer close(w.c)
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					// files may have been written before the directory was watched.
					alive := true
					err = w.add(ev.Name, func(p string) {
						alive = alive && w.send(p, fsnotify.Create)
					})
					if err != nil {
						w.log.Error("watch directory", zap.String("dir", ev.Name), zap.Error(err))
					}
					if !alive {
						return
					}
					continue
				}
			}
			if !w.send(ev.Name, ev.Op) {
				return
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.log.Error("watch assets", zap.Error(err))
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) rel(name string) (string, bool) {
	for _, root := range w.roots {
		r, err := filepath.Rel(root, name)
		if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			continue
		}
		return filepath.ToSlash(r), true
	}
	return "", false
}

// Close stops the watcher. It is safe to call Close more than once, from
// any goroutine.
//
func (w *Watcher) Close() error {
	w.once.Do(func() {
		close(w.done)
		w.err = w.w.Close()
	})
	return w.err
}
