package aurender

import "time"

// Clock is the monotonic scroll clock driving the displacement field.
// Time is accumulated in float64 and only narrowed to float32 when read.
type Clock struct {
	t float64
}

// Advance moves the clock forward by dt scaled by speed and returns the new time.
// Negative steps are ignored so the clock never runs backward.
func (c *Clock) Advance(dt time.Duration, speed float32) float32 {
	step := dt.Seconds() * float64(speed)
	if step > 0 {
		c.t += step
	}
	return c.Time()
}

// Time returns the current scroll time.
func (c *Clock) Time() float32 { return float32(c.t) }
