// Package camera implements a fly-through camera driven by keyboard and mouse
// deltas.
//
// Angles are in degrees. The camera keeps an orthonormal basis
// (forward, up, right) that is recomputed from yaw, pitch and the world up
// vector after every change in orientation.
//
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Default camera settings.
//
const (
	DefaultYaw         float32 = -90
	DefaultPitch       float32 = 0
	DefaultSpeed       float32 = 2.5
	DefaultSensitivity float32 = 0.1
	DefaultFOV         float32 = 45

	MaxPitch float32 = 89
	MinFOV   float32 = 1
	MaxFOV   float32 = 45
)

// Move is a keyboard movement direction.
//
type Move int

// Movement directions.
//
const (
	Forward Move = iota
	Backward
	Left
	Right
)

// Camera holds the position and orientation of a viewer.
//
type Camera struct {
	position mgl32.Vec3
	forward  mgl32.Vec3
	up       mgl32.Vec3
	right    mgl32.Vec3
	worldUp  mgl32.Vec3

	yaw   float32
	pitch float32

	speed       float32
	sensitivity float32
	fov         float32
}

// Option is a camera option.
//
type Option func(*Camera)

// Position sets the initial camera position.
//
func Position(p mgl32.Vec3) Option {
	return func(c *Camera) { c.position = p }
}

// WorldUp sets the world up vector. A zero vector is ignored.
//
func WorldUp(up mgl32.Vec3) Option {
	return func(c *Camera) { c.worldUp = up }
}

// YawPitch sets the initial orientation. Pitch is clamped to ±MaxPitch.
//
func YawPitch(yaw, pitch float32) Option {
	return func(c *Camera) { c.yaw, c.pitch = yaw, pitch }
}

// Speed sets the movement speed in units per second.
//
func Speed(s float32) Option {
	return func(c *Camera) { c.speed = s }
}

// Sensitivity sets the mouse sensitivity in degrees per mouse unit.
//
func Sensitivity(s float32) Option {
	return func(c *Camera) { c.sensitivity = s }
}

// FOV sets the initial vertical field of view. It is clamped to [MinFOV, MaxFOV].
//
func FOV(fov float32) Option {
	return func(c *Camera) { c.fov = fov }
}

// New returns a camera at the origin looking down -Z, with Y up.
//
func New(opts ...Option) *Camera {
	c := &Camera{
		worldUp:     mgl32.Vec3{0, 1, 0},
		yaw:         DefaultYaw,
		pitch:       DefaultPitch,
		speed:       DefaultSpeed,
		sensitivity: DefaultSensitivity,
		fov:         DefaultFOV,
	}
	for _, o := range opts {
		o(c)
	}
	if c.worldUp.Len() == 0 {
		c.worldUp = mgl32.Vec3{0, 1, 0}
	}
	c.pitch = mgl32.Clamp(c.pitch, -MaxPitch, MaxPitch)
	c.fov = mgl32.Clamp(c.fov, MinFOV, MaxFOV)
	c.update()
	return c
}

// SetPosition moves the camera to p.
//
func (c *Camera) SetPosition(p mgl32.Vec3) {
	c.position = p
}

// SetWorldUp changes the world up vector. A zero vector is ignored.
//
func (c *Camera) SetWorldUp(up mgl32.Vec3) {
	if up.Len() == 0 {
		return
	}
	c.worldUp = up
	c.update()
}

// SetDirection orients the camera along dir. Pitch is clamped to ±MaxPitch. A
// zero vector is ignored.
//
func (c *Camera) SetDirection(dir mgl32.Vec3) {
	if dir.Len() == 0 {
		return
	}
	dir = dir.Normalize()
	c.pitch = mgl32.Clamp(mgl32.RadToDeg(math32.Asin(mgl32.Clamp(dir[1], -1, 1))), -MaxPitch, MaxPitch)
	c.yaw = mgl32.RadToDeg(math32.Atan2(dir[2], dir[0]))
	c.update()
}

// ViewMatrix returns the look-at matrix for the current position and basis.
//
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.forward), c.up)
}

// Projection returns a perspective projection matrix using the current field of view.
//
func (c *Camera) Projection(aspect, near, far float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.fov), aspect, near, far)
}

// ProcessKeyboard moves the camera in the given direction by speed * dt.
//
func (c *Camera) ProcessKeyboard(m Move, dt float32) {
	v := c.speed * dt
	switch m {
	case Forward:
		c.position = c.position.Add(c.forward.Mul(v))
	case Backward:
		c.position = c.position.Sub(c.forward.Mul(v))
	case Left:
		c.position = c.position.Sub(c.right.Mul(v))
	case Right:
		c.position = c.position.Add(c.right.Mul(v))
	}
}

// ProcessMouse rotates the camera by mouse deltas. With clampPitch, pitch stays
// within ±MaxPitch so the basis never degenerates at the poles.
//
func (c *Camera) ProcessMouse(dx, dy float32, clampPitch bool) {
	c.yaw += dx * c.sensitivity
	c.pitch += dy * c.sensitivity
	if clampPitch {
		c.pitch = mgl32.Clamp(c.pitch, -MaxPitch, MaxPitch)
	}
	c.update()
}

// ProcessMouseScroll zooms by narrowing or widening the field of view.
//
func (c *Camera) ProcessMouseScroll(dy float32) {
	c.fov = mgl32.Clamp(c.fov-dy, MinFOV, MaxFOV)
}

func (c *Camera) update() {
	yaw, pitch := mgl32.DegToRad(c.yaw), mgl32.DegToRad(c.pitch)
	c.forward = mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}.Normalize()
	r := c.forward.Cross(c.worldUp)
	if r.Len() < degenerate*c.worldUp.Len() {
		// forward is parallel to world up: keep the previous right vector.
		r = c.right.Sub(c.forward.Mul(c.right.Dot(c.forward)))
		if r.Len() < degenerate {
			r = perpendicular(c.forward)
		}
	}
	c.right = r.Normalize()
	c.up = c.right.Cross(c.forward).Normalize()
}

const degenerate = 1e-6

// perpendicular returns a vector orthogonal to v, which must not be zero.
//
func perpendicular(v mgl32.Vec3) mgl32.Vec3 {
	x, y, z := math32.Abs(v[0]), math32.Abs(v[1]), math32.Abs(v[2])
	switch {
	case x <= y && x <= z:
		return v.Cross(mgl32.Vec3{1, 0, 0})
	case y <= z:
		return v.Cross(mgl32.Vec3{0, 1, 0})
	}
	return v.Cross(mgl32.Vec3{0, 0, 1})
}

func (c *Camera) Position() mgl32.Vec3 { return c.position }
func (c *Camera) Forward() mgl32.Vec3  { return c.forward }
func (c *Camera) Up() mgl32.Vec3       { return c.up }
func (c *Camera) Right() mgl32.Vec3    { return c.right }
func (c *Camera) WorldUp() mgl32.Vec3  { return c.worldUp }
func (c *Camera) Yaw() float32         { return c.yaw }
func (c *Camera) Pitch() float32       { return c.pitch }
func (c *Camera) FOV() float32         { return c.fov }
