// Package input dispatches keyboard events to callbacks bound per key and
// per event phase.
//
package input

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Phase selects one or more moments at which a key event fires.
//
type Phase uint8

// Key event phases. Phases can be combined with a bitwise OR.
//
const (
	Press   Phase = 1 << iota
	Release       // key released
	Repeat        // key held down

	PressAndRepeat = Press | Repeat
	AnyPhase       = Press | Release | Repeat
)

var phases = [...]Phase{Press, Repeat, Release}

func (p Phase) String() string {
	if p == 0 {
		return "none"
	}
	var s []string
	for _, ph := range phases {
		if p&ph == 0 {
			continue
		}
		switch ph {
		case Press:
			s = append(s, "press")
		case Repeat:
			s = append(s, "repeat")
		case Release:
			s = append(s, "release")
		}
	}
	if p&^AnyPhase != 0 {
		s = append(s, "Phase("+strconv.Itoa(int(p&^AnyPhase))+")")
	}
	return strings.Join(s, "|")
}

func (p Phase) index() int {
	switch p {
	case Press:
		return 0
	case Repeat:
		return 1
	case Release:
		return 2
	}
	return -1
}

// Callback is a function bound to a key event.
//
type Callback func()

type bindings [3][]Callback

// Manager maps keys to ordered lists of callbacks.
//
// A Manager is not safe for concurrent use. Events are expected to be
// dispatched from the thread that polls window events.
//
type Manager struct {
	log  *zap.Logger
	keys map[Key]*bindings
}

// Option configures a Manager.
//
type Option func(*Manager)

// Logger sets the logger used to trace dispatched events. Events are logged at
// debug level.
//
func Logger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// NewManager returns a new Manager with no bindings.
//
func NewManager(opts ...Option) *Manager {
	m := &Manager{log: zap.NewNop(), keys: make(map[Key]*bindings)}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Bind appends cb to the callback lists of key for every phase set in
// phases. Binding the same callback twice makes it fire twice. A nil cb is
// ignored.
//
func (m *Manager) Bind(phases Phase, key Key, cb Callback) {
	if cb == nil || phases&AnyPhase == 0 {
		return
	}
	b := m.keys[key]
	if b == nil {
		b = new(bindings)
		m.keys[key] = b
	}
	for _, ph := range phasesOf(phases) {
		i := ph.index()
		b[i] = append(b[i], cb)
	}
}

// Dispatch invokes, in registration order, the callbacks bound to key for
// phase and returns how many were called. If phase has more than one bit set,
// press callbacks run first, then repeat, then release.
//
func (m *Manager) Dispatch(key Key, phase Phase) int {
	m.log.Debug("key event", zap.Stringer("key", key), zap.Stringer("phase", phase))
	b := m.keys[key]
	if b == nil {
		return 0
	}
	n := 0
	for _, ph := range phasesOf(phase) {
		// callbacks bound during dispatch fire on the next event.
		cbs := b[ph.index()]
		for _, cb := range cbs {
			cb()
		}
		n += len(cbs)
	}
	return n
}

// Bindings returns the number of callbacks bound to key for a single phase.
//
func (m *Manager) Bindings(key Key, phase Phase) int {
	b := m.keys[key]
	if i := phase.index(); b != nil && i >= 0 {
		return len(b[i])
	}
	return 0
}

func phasesOf(p Phase) []Phase {
	r := make([]Phase, 0, len(phases))
	for _, ph := range phases {
		if p&ph != 0 {
			r = append(r, ph)
		}
	}
	return r
}
