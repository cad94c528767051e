// Package debug provides a rolling frame timer for frame rate reporting.
//
package debug

import (
	"time"
)

const samples = 32

// Timer keeps the last 32 frame times.
//
type Timer struct {
	times [samples]time.Duration
	index int
	n     int
}

// Add records a frame time.
//
func (t *Timer) Add(dt time.Duration) {
	t.times[t.index] = dt
	t.index = (t.index + 1) & (samples - 1)
	if t.n < samples {
		t.n++
	}
}

// Average returns the average of the recorded frame times.
//
func (t *Timer) Average() time.Duration {
	if t.n == 0 {
		return 0
	}
	var avg time.Duration
	for _, dt := range t.times[:t.n] {
		avg += dt
	}
	return avg / time.Duration(t.n)
}

// AveragePerSecond returns the average frame rate.
//
func (t *Timer) AveragePerSecond() float64 {
	avg := t.Average()
	if avg == 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}

// Ticker reports the frame rate at regular intervals.
//
type Ticker struct {
	Timer
	Every time.Duration
	acc   time.Duration
}

// Tick adds a frame time and reports whether the Every interval has elapsed
// since the last report.
//
func (t *Ticker) Tick(dt time.Duration) bool {
	t.Add(dt)
	t.acc += dt
	if t.Every <= 0 || t.acc < t.Every {
		return false
	}
	t.acc -= t.Every
	if t.acc >= t.Every {
		t.acc = 0
	}
	return true
}
