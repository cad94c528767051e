package input

// CursorTracker turns absolute cursor positions into per-event deltas
// suitable for camera.ProcessMouse. The y delta is inverted since window
// coordinates grow downwards.
//
type CursorTracker struct {
	x, y  float64
	valid bool
}

// Move records a new cursor position and returns the offset from the previous
// one. The first call after creation or Reset returns ok == false.
//
func (t *CursorTracker) Move(x, y float64) (dx, dy float32, ok bool) {
	if t.valid {
		dx, dy, ok = float32(x-t.x), float32(t.y-y), true
	}
	t.x, t.y, t.valid = x, y, true
	return dx, dy, ok
}

// Reset forgets the last position. Use it when the cursor gets captured or
// re-enters the window to avoid a large jump.
//
func (t *CursorTracker) Reset() {
	t.valid = false
}
