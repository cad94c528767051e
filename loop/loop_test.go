package loop_test

import (
	"testing"
	"time"

	"github.com/db47h/tinyngine/loop"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t    time.Time
	step []time.Duration
	i    int
}

func (c *fakeClock) Now() time.Time {
	if c.i < len(c.step) {
		c.t = c.t.Add(c.step[c.i])
		c.i++
	}
	return c.t
}

type simpleApp struct {
	frames int
	dts    []time.Duration
	starts []time.Time
	draws  int
}

func (a *simpleApp) ProcessEvents() bool     { return len(a.dts) == a.frames }
func (a *simpleApp) Update(dt time.Duration) { a.dts = append(a.dts, dt) }
func (a *simpleApp) Draw()                   { a.draws++ }
func (a *simpleApp) FrameStart(t time.Time)  { a.starts = append(a.starts, t) }

func TestSimple(t *testing.T) {
	start := time.Unix(1000, 0)
	clk := &fakeClock{t: start, step: []time.Duration{0, 16 * time.Millisecond, 20 * time.Millisecond, 10 * time.Millisecond}}
	l := loop.Simple{Clock: clk}
	a := &simpleApp{frames: 4}
	l.Run(a)

	assert.Equal(t, []time.Duration{0, 16 * time.Millisecond, 20 * time.Millisecond, 10 * time.Millisecond}, a.dts)
	assert.Equal(t, 4, a.draws)
	if assert.Len(t, a.starts, 4) {
		assert.Equal(t, start, a.starts[0])
		assert.Equal(t, start.Add(46*time.Millisecond), a.starts[3])
	}
}

type fixedApp struct {
	frames  int
	n       int
	updates []time.Duration
	draws   [][2]time.Duration
}

func (a *fixedApp) ProcessEvents() bool { return a.n == a.frames }
func (a *fixedApp) Update(dt time.Duration) {
	a.updates = append(a.updates, dt)
}
func (a *fixedApp) Draw(ft, partial time.Duration) {
	a.draws = append(a.draws, [2]time.Duration{ft, partial})
	a.n++
}

func TestFixedStep(t *testing.T) {
	const dt = 10 * time.Millisecond
	clk := &fakeClock{t: time.Unix(0, 0), step: []time.Duration{0, 25 * time.Millisecond, 10 * time.Millisecond, 5 * time.Second}}
	l := loop.FixedStep{Simple: loop.Simple{Clock: clk}, DT: dt, MaxFT: 100 * time.Millisecond}
	a := &fixedApp{frames: 3}
	l.Run(a)

	// 25ms -> 2 updates, 5ms left; +10ms -> 1 update, 5ms left; 5s clamped
	// to 100ms -> 10 updates, 5ms left.
	assert.Len(t, a.updates, 13)
	for _, u := range a.updates {
		assert.Equal(t, dt, u)
	}
	assert.Equal(t, [][2]time.Duration{
		{25 * time.Millisecond, 5 * time.Millisecond},
		{10 * time.Millisecond, 5 * time.Millisecond},
		{100 * time.Millisecond, 5 * time.Millisecond},
	}, a.draws)
}

func TestFixedStepDefaults(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0), step: []time.Duration{0, time.Second / 60}}
	l := loop.FixedStep{Simple: loop.Simple{Clock: clk}}
	a := &fixedApp{frames: 1}
	l.Run(a)
	assert.Equal(t, loop.DefaultDT, l.DT)
	assert.Equal(t, loop.DefaultMaxFT, l.MaxFT)
	assert.Len(t, a.updates, 4)
}

func TestMinFrameTime(t *testing.T) {
	var l loop.Simple
	l.MinFrameTime(time.Millisecond)
	a := &simpleApp{frames: 3}
	start := time.Now()
	l.Run(a)
	assert.GreaterOrEqual(t, time.Since(start), 2*time.Millisecond)
	for _, dt := range a.dts[1:] {
		assert.Greater(t, dt, time.Duration(0))
	}
}
