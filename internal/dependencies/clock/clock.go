package clock

import "time"

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system clock
type SystemClock struct{}

// New creates a new SystemClock
func New() *SystemClock {
	return &SystemClock{}
}

// Now returns the current time in UTC at millisecond precision, the finest
// precision every store keeps. Callers convert to a display zone themselves.
func (c *SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
