package device

import "time"

// Clock provides monotonic microseconds, wrapping at 32 bits.
type Clock interface {
	Micros() uint32
}

// MonotonicClock counts microseconds since it was created.
type MonotonicClock struct {
	start time.Time
}

// NewClock creates a MonotonicClock starting now.
func NewClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

// Micros implements Clock.
func (c *MonotonicClock) Micros() uint32 {
	return uint32(time.Since(c.start) / time.Microsecond)
}
