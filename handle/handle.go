// Package handle provides opaque, generation-checked references to resources
// stored in a fixed-capacity table.
//
// A Handle never exposes the underlying driver identifier of the resource it
// designates. Removing a resource from a Table bumps the generation of its
// slot, so handles issued before the removal no longer resolve, even after the
// slot has been reused.
//
package handle

import (
	"strconv"

	"github.com/pkg/errors"
)

// DefaultCapacity is the capacity of tables created with a capacity <= 0.
//
const DefaultCapacity = 1 << 6

// ErrFull is returned by Table.Insert when all slots are in use.
//
var ErrFull = errors.New("resource table full")

// A Handle references a resource in a Table. The zero value is an invalid
// handle.
//
type Handle struct {
	id  uint32 // slot index + 1; 0 is the invalid sentinel
	gen uint32
}

// Invalid is the invalid handle returned by failed resource creations.
//
var Invalid Handle

// IsValid reports whether h was issued by a successful resource creation. A
// valid handle may still be stale if its resource has since been destroyed.
//
func (h Handle) IsValid() bool { return h.id != 0 }

// Index returns the slot index of h. The result is meaningless for an invalid
// handle.
//
func (h Handle) Index() uint32 { return h.id - 1 }

// Generation returns the slot generation h was issued with.
//
func (h Handle) Generation() uint32 { return h.gen }

func (h Handle) String() string {
	if !h.IsValid() {
		return "#invalid"
	}
	return "#" + strconv.FormatUint(uint64(h.Index()), 10) + "." + strconv.FormatUint(uint64(h.gen), 10)
}

type slot[T any] struct {
	v    T
	gen  uint32
	live bool
}

// Table is a fixed-capacity arena of values of type T addressed by Handle.
//
// Table is not safe for concurrent use.
//
type Table[T any] struct {
	slots []slot[T]
	free  []uint32
	cap   int
	n     int
}

// NewTable returns a new table holding at most capacity values. A capacity <= 0
// selects DefaultCapacity.
//
func NewTable[T any](capacity int) *Table[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Table[T]{
		slots: make([]slot[T], 0, capacity),
		cap:   capacity,
	}
}

// Insert stores v in a free slot and returns its handle. Slots freed by Remove
// are reused before new ones are allocated.
//
func (t *Table[T]) Insert(v T) (Handle, error) {
	var idx uint32
	switch {
	case len(t.free) > 0:
		idx = t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
	case len(t.slots) < t.cap:
		idx = uint32(len(t.slots))
		t.slots = append(t.slots, slot[T]{gen: 1})
	default:
		return Invalid, ErrFull
	}
	s := &t.slots[idx]
	s.v = v
	s.live = true
	t.n++
	return Handle{id: idx + 1, gen: s.gen}, nil
}

func (t *Table[T]) lookup(h Handle) *slot[T] {
	if !h.IsValid() || int(h.Index()) >= len(t.slots) {
		return nil
	}
	s := &t.slots[h.Index()]
	if !s.live || s.gen != h.gen {
		return nil
	}
	return s
}

// Get returns a pointer to the value referenced by h. It returns false if h is
// invalid or stale.
//
func (t *Table[T]) Get(h Handle) (*T, bool) {
	s := t.lookup(h)
	if s == nil {
		return nil, false
	}
	return &s.v, true
}

// Contains reports whether h references a live value.
//
func (t *Table[T]) Contains(h Handle) bool {
	return t.lookup(h) != nil
}

// Remove removes the value referenced by h from the table and returns it. The
// slot's generation is incremented so that h and all its copies become stale.
//
func (t *Table[T]) Remove(h Handle) (v T, ok bool) {
	s := t.lookup(h)
	if s == nil {
		return v, false
	}
	v = s.v
	var zero T
	s.v = zero
	s.live = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	t.free = append(t.free, h.Index())
	t.n--
	return v, true
}

// Each calls f for each live value in index order until f returns false.
//
func (t *Table[T]) Each(f func(Handle, *T) bool) {
	for i := range t.slots {
		s := &t.slots[i]
		if !s.live {
			continue
		}
		if !f(Handle{id: uint32(i) + 1, gen: s.gen}, &s.v) {
			return
		}
	}
}

// Len returns the number of live values.
//
func (t *Table[T]) Len() int { return t.n }

// Cap returns the capacity of the table.
//
func (t *Table[T]) Cap() int { return t.cap }
