package simulation

import "time"

// StepClock turns wall-clock frame times into simulation steps. The first
// step after creation or Reset uses the fallback, and every step is capped so
// a stalled window does not teleport the flocks.
type StepClock struct {
	fallback time.Duration
	maxStep  time.Duration
	last     time.Time
}

// NewStepClock returns a clock stepping by fallback until it has a previous
// frame to measure from. Non-positive arguments fall back to 1/60s.
func NewStepClock(fallback, maxStep time.Duration) *StepClock {
	const sixtieth = time.Second / 60
	if fallback <= 0 {
		fallback = sixtieth
	}
	if maxStep <= 0 {
		maxStep = fallback
	}
	return &StepClock{fallback: fallback, maxStep: max(maxStep, fallback)}
}

// FallbackForTPS is one tick at tps ticks per second, or 1/60s when tps is
// not a positive rate (ebiten reports -1 when ticks follow the display).
func FallbackForTPS(tps int) time.Duration {
	if tps <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(tps)
}

// Next returns the elapsed time since the previous call, within (0, maxStep].
func (c *StepClock) Next(now time.Time) time.Duration {
	defer func() { c.last = now }()
	if c.last.IsZero() {
		return c.fallback
	}
	dt := now.Sub(c.last)
	switch {
	case dt <= 0:
		return c.fallback
	case dt > c.maxStep:
		return c.maxStep
	}
	return dt
}

// Reset forgets the previous frame, e.g. after a pause.
func (c *StepClock) Reset() { c.last = time.Time{} }
