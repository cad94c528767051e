package camera_test

import (
	"math/rand"
	"testing"

	"github.com/db47h/tinyngine/camera"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func assertOrthonormal(t *testing.T, c *camera.Camera) {
	t.Helper()
	f, u, r := c.Forward(), c.Up(), c.Right()
	assert.InDelta(t, 1, f.Len(), eps)
	assert.InDelta(t, 1, u.Len(), eps)
	assert.InDelta(t, 1, r.Len(), eps)
	assert.InDelta(t, 0, f.Dot(u), eps)
	assert.InDelta(t, 0, f.Dot(r), eps)
	assert.InDelta(t, 0, u.Dot(r), eps)
	// right-handed: right x up = -forward (camera looks down its local -Z).
	assert.True(t, r.Cross(u).ApproxEqualThreshold(f.Mul(-1), eps), "basis handedness")
}

func TestDefaults(t *testing.T) {
	c := camera.New()
	assert.Equal(t, camera.DefaultFOV, c.FOV())
	assert.Equal(t, camera.DefaultYaw, c.Yaw())
	assert.True(t, c.Forward().ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, eps))
	assert.True(t, c.Up().ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, eps))
	assert.True(t, c.Right().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, eps))
	assertOrthonormal(t, c)
}

func TestOrthonormalAfterRandomInput(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	c := camera.New(camera.Position(mgl32.Vec3{0, 0, 3}))
	for i := 0; i < 10000; i++ {
		switch rnd.Intn(4) {
		case 0:
			c.ProcessKeyboard(camera.Move(rnd.Intn(4)), rnd.Float32()/10)
		case 1:
			c.ProcessMouse(rnd.Float32()*400-200, rnd.Float32()*400-200, true)
		case 2:
			c.ProcessMouseScroll(rnd.Float32()*10 - 5)
		case 3:
			c.SetDirection(mgl32.Vec3{rnd.Float32() - .5, rnd.Float32() - .5, rnd.Float32() - .5})
		}
		if i%97 == 0 {
			assertOrthonormal(t, c)
		}
	}
	assertOrthonormal(t, c)
}

func TestPitchClamp(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	c := camera.New()
	for i := 0; i < 5000; i++ {
		c.ProcessMouse(rnd.Float32()*100-50, rnd.Float32()*4000-2000, true)
		require.LessOrEqual(t, c.Pitch(), camera.MaxPitch)
		require.GreaterOrEqual(t, c.Pitch(), -camera.MaxPitch)
	}
	c.ProcessMouse(0, 1e6, true)
	assert.Equal(t, camera.MaxPitch, c.Pitch())
	c.ProcessMouse(0, -1e6, true)
	assert.Equal(t, -camera.MaxPitch, c.Pitch())
}

func TestPitchUnclamped(t *testing.T) {
	c := camera.New()
	c.ProcessMouse(0, 1000, false)
	assert.InDelta(t, 100, c.Pitch(), eps)
}

func TestFOVClamp(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	c := camera.New()
	for i := 0; i < 5000; i++ {
		c.ProcessMouseScroll(rnd.Float32()*20 - 10)
		require.GreaterOrEqual(t, c.FOV(), camera.MinFOV)
		require.LessOrEqual(t, c.FOV(), camera.MaxFOV)
	}

	c = camera.New()
	c.ProcessMouseScroll(5)
	assert.Equal(t, float32(40), c.FOV())
	c.ProcessMouseScroll(100)
	assert.Equal(t, camera.MinFOV, c.FOV())
	c.ProcessMouseScroll(-100)
	assert.Equal(t, camera.MaxFOV, c.FOV())

	assert.Equal(t, camera.MaxFOV, camera.New(camera.FOV(90)).FOV())
}

func TestProcessKeyboard(t *testing.T) {
	c := camera.New(camera.Speed(2))
	c.ProcessKeyboard(camera.Forward, 0.5)
	assert.True(t, c.Position().ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, eps))
	c.ProcessKeyboard(camera.Backward, 1)
	assert.True(t, c.Position().ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, eps))
	c.ProcessKeyboard(camera.Right, 1)
	assert.True(t, c.Position().ApproxEqualThreshold(mgl32.Vec3{2, 0, 1}, eps))
	c.ProcessKeyboard(camera.Left, 0.5)
	assert.True(t, c.Position().ApproxEqualThreshold(mgl32.Vec3{1, 0, 1}, eps))
}

func TestProcessMouse(t *testing.T) {
	c := camera.New(camera.Sensitivity(1))
	c.ProcessMouse(90, 0, true)
	assert.InDelta(t, 0, c.Yaw(), eps)
	assert.True(t, c.Forward().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, eps))
}

func TestViewMatrix(t *testing.T) {
	pos := mgl32.Vec3{1, 2, 3}
	c := camera.New(camera.Position(pos), camera.YawPitch(-45, 10))
	want := mgl32.LookAtV(pos, pos.Add(c.Forward()), c.Up())
	assert.Equal(t, want, c.ViewMatrix())

	// the camera position maps to the view space origin.
	p := c.ViewMatrix().Mul4x1(pos.Vec4(1))
	assert.True(t, p.Vec3().ApproxEqualThreshold(mgl32.Vec3{}, eps))
}

func TestProjection(t *testing.T) {
	c := camera.New()
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(45), 4.0/3, 0.1, 100), c.Projection(4.0/3, 0.1, 100))
}

func TestSetDirection(t *testing.T) {
	c := camera.New()
	dir := mgl32.Vec3{1, 1, 0}.Normalize()
	c.SetDirection(dir)
	assert.True(t, c.Forward().ApproxEqualThreshold(dir, eps))
	assert.InDelta(t, 45, c.Pitch(), eps)
	assert.InDelta(t, 0, c.Yaw(), eps)
	assertOrthonormal(t, c)

	before := c.Forward()
	c.SetDirection(mgl32.Vec3{})
	assert.Equal(t, before, c.Forward())

	c.SetDirection(mgl32.Vec3{0, -1, 0})
	assert.Equal(t, -camera.MaxPitch, c.Pitch())
	assertOrthonormal(t, c)
}

func TestSetWorldUp(t *testing.T) {
	c := camera.New()
	c.SetWorldUp(mgl32.Vec3{0, 0, 1})
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, c.WorldUp())
	c.SetDirection(mgl32.Vec3{1, 0, 0})
	assertOrthonormal(t, c)
	c.SetPosition(mgl32.Vec3{4, 5, 6})
	assert.Equal(t, mgl32.Vec3{4, 5, 6}, c.Position())
}

func TestDegenerateWorldUp(t *testing.T) {
	c := camera.New(camera.WorldUp(mgl32.Vec3{}))
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, c.WorldUp())
	assertOrthonormal(t, c)

	c.SetWorldUp(mgl32.Vec3{})
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, c.WorldUp())
	assertOrthonormal(t, c)

	// world up parallel to forward keeps the previous right vector.
	right := c.Right()
	for _, up := range []mgl32.Vec3{c.Forward(), c.Forward().Mul(-2)} {
		c.SetWorldUp(up)
		assertOrthonormal(t, c)
		assert.True(t, c.Right().ApproxEqualThreshold(right, eps), "right %v", c.Right())
	}

	// looking straight up with an unclamped pitch.
	c = camera.New()
	c.ProcessMouse(0, 900, false)
	assert.InDelta(t, 90, c.Pitch(), eps)
	assertOrthonormal(t, c)
	c.ProcessMouse(30, 0, false)
	assertOrthonormal(t, c)
}

func TestInitialPitchClamp(t *testing.T) {
	assert.Equal(t, camera.MaxPitch, camera.New(camera.YawPitch(0, 120)).Pitch())
	assert.Equal(t, -camera.MaxPitch, camera.New(camera.YawPitch(0, -120)).Pitch())
}
