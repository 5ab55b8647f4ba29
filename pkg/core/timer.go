package core

import "time"

// FixedStep helps hosts run simulation updates at a steady ticks-per-second
// rate while capping how many ticks a single frame may catch up on.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	maxPerFrame int

	now func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{maxPerFrame: 4, now: time.Now}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// SetMaxPerFrame bounds the ticks returned by Due. Non-positive means 1.
func (f *FixedStep) SetMaxPerFrame(n int) {
	if n <= 0 {
		n = 1
	}
	f.maxPerFrame = n
}

// Interval reports the duration of one tick.
func (f *FixedStep) Interval() time.Duration { return f.step }

// Due reports how many ticks the host should run now. Backlog beyond the
// per-frame cap is dropped so a slow frame never snowballs.
func (f *FixedStep) Due() int {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now

	n := int(f.accumulator / f.step)
	if n <= 0 {
		return 0
	}
	f.accumulator -= time.Duration(n) * f.step
	if n > f.maxPerFrame {
		n = f.maxPerFrame
		f.accumulator = 0
	}
	return n
}

// ShouldStep reports whether the simulation should advance by one tick.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}
