package system

import "time"

// Clock is the fixed-step simulation clock. Time only moves through
// Advance, so runs are reproducible regardless of wall clock jitter.
type Clock struct {
	step  time.Duration
	now   time.Duration
	frame int64
}

// NewClock returns a clock ticking at rate steps per second.
func NewClock(rate int) *Clock {
	if rate <= 0 {
		rate = 60
	}
	return &Clock{step: time.Second / time.Duration(rate)}
}

// Advance moves one step forward and returns the step length in seconds
// and the new monotonic time.
func (c *Clock) Advance() (float64, time.Duration) {
	c.now += c.step
	c.frame++
	return c.step.Seconds(), c.now
}

func (c *Clock) Step() time.Duration      { return c.step }
func (c *Clock) DeltaTime() float64       { return c.step.Seconds() }
func (c *Clock) TotalTime() time.Duration { return c.now }
func (c *Clock) FrameCount() int64        { return c.frame }
