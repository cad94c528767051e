package app

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Screen tracks the size of the default frame buffer of a window.
//
type Screen struct {
	sz image.Point
}

// SetSize sets the Screen size to sz.
//
func (s *Screen) SetSize(sz image.Point) {
	s.sz = sz
}

// Size returns the screen size in pixels.
//
func (s *Screen) Size() image.Point {
	return s.sz
}

// Aspect returns the width to height ratio of the screen, or 1 if the screen
// has no height.
//
func (s *Screen) Aspect() float32 {
	if s.sz.Y <= 0 {
		return 1
	}
	return float32(s.sz.X) / float32(s.sz.Y)
}

// ToGL converts frame buffer pixel coordinates, origin at the top left, to
// normalized device coordinates in range [-1, 1].
//
func (s *Screen) ToGL(p mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		2.0*p[0]/float32(s.sz.X) - 1.0,
		-2.0*p[1]/float32(s.sz.Y) + 1.0,
	}
}

// ToFb converts normalized device coordinates to frame buffer pixel
// coordinates.
//
func (s *Screen) ToFb(p mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		(p[0] + 1) * float32(s.sz.X) / 2.0,
		(1 - p[1]) * float32(s.sz.Y) / 2.0,
	}
}
