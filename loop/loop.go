// The loop package provides frame loops driving an application: a variable
// timestep loop that reports the time elapsed since the previous frame and a
// fixed-timestep loop.
//
package loop

import (
	"time"
)

// EventProcessor wraps the ProcessEvents method.
//
// It is up to the implementation to either poll events or wait for events.
// Applications using a wait-for-event model should however only use the Simple
// event loop.
//
// Graphical applications that need to swap buffers should swap their buffers in
// their ProcessEvents method, before actually processing events.
//
type EventProcessor interface {
	ProcessEvents() (quit bool)
}

// FixedStepUpdater is the interface run by FixedStep.
//
type FixedStepUpdater interface {
	EventProcessor
	Update(timestep time.Duration)
	Draw(frameTime, partialTimestep time.Duration)
}

// FrameStarter is the interface implemented by any App that wants the time
// stamp at the beginning of each loop iteration.
//
type FrameStarter interface {
	FrameStart(time.Time)
}

// SimpleUpdater is the interface run by Simple. Update receives the time
// elapsed since the previous frame, zero on the first frame.
//
type SimpleUpdater interface {
	EventProcessor
	Update(dt time.Duration)
	Draw()
}

// Clock is a source of time stamps.
//
type Clock interface {
	Now() time.Time
}

type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
//
var SystemClock Clock = sysClock{}

// Simple provides a very simple event loop suited for applications that use a
// wait-for-event model.
//
type Simple struct {
	Clock  Clock // defaults to SystemClock
	ticker *time.Ticker
	minFT  time.Duration
}

// MinFrameTime sets the minimum frame time.
//
// If the t value is greater than 0, the frame rate will be clamped
// to time.Second/t.
//
func (l *Simple) MinFrameTime(t time.Duration) {
	if t == l.minFT {
		return
	}
	l.stopTicker()
	l.minFT = t
	if l.minFT > 0 {
		l.ticker = time.NewTicker(l.minFT)
	}
}

func (l *Simple) now() time.Time {
	if l.ticker != nil {
		<-l.ticker.C
	}
	if l.Clock == nil {
		l.Clock = SystemClock
	}
	return l.Clock.Now()
}

func (l *Simple) stopTicker() {
	if l.ticker != nil {
		l.ticker.Stop()
		l.ticker = nil
	}
}

// Run runs a until its ProcessEvents method returns true.
//
func (l *Simple) Run(a SimpleUpdater) {
	var (
		tPrev  time.Time
		fStart FrameStarter
	)
	fStart, _ = a.(FrameStarter)
	for !a.ProcessEvents() {
		now := l.now()
		var dt time.Duration
		if !tPrev.IsZero() {
			dt = now.Sub(tPrev)
		}
		tPrev = now
		if fStart != nil {
			fStart.FrameStart(now)
		}
		a.Update(dt)
		a.Draw()
	}
	l.stopTicker()
}

// FixedStep runs updates at a fixed timestep, independently of the frame rate.
//
type FixedStep struct {
	Simple
	MaxFT time.Duration // maximum frame time
	DT    time.Duration // timestep
}

// Default timings for FixedStep
const (
	DefaultDT    time.Duration = time.Second / 240
	DefaultMaxFT time.Duration = time.Second
)

// Run runs a until its ProcessEvents method returns true.
//
func (l *FixedStep) Run(a FixedStepUpdater) {
	var (
		tPrev  = l.now()
		tAcc   time.Duration
		fStart FrameStarter
	)

	fStart, _ = a.(FrameStarter)

	if l.DT == 0 {
		l.DT = DefaultDT
	}
	if l.MaxFT == 0 {
		l.MaxFT = DefaultMaxFT
	}

	for !a.ProcessEvents() {
		now := l.now()
		ft := now.Sub(tPrev)
		if ft > l.MaxFT {
			ft = l.MaxFT
		}
		tAcc += ft
		tPrev = now
		if fStart != nil {
			fStart.FrameStart(now)
		}
		for dt := l.DT; tAcc >= dt; tAcc -= dt {
			a.Update(dt)
		}
		a.Draw(ft, tAcc)
	}
	l.stopTicker()
}
