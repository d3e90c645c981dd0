// Package scheduler decides when the device acquires and emits a sample.
package scheduler

import "github.com/robotalks/wearable/pkg/session"

// State is the sampling state.
type State int

const (
	// Idle means not connected or asleep.
	Idle State = iota
	// Sampling means connected and awake.
	Sampling
)

// String implements fmt.Stringer.
func (s State) String() string {
	if s == Sampling {
		return "sampling"
	}
	return "idle"
}

// Scheduler paces sampling against the active period of the session.
type Scheduler struct {
	Session *session.Session
}

// New creates a Scheduler on s.
func New(s *session.Session) *Scheduler {
	return &Scheduler{Session: s}
}

// State returns the current state. The sleep flag is an external input.
func (s *Scheduler) State(awake bool) State {
	if s.Session.Connected && awake {
		return Sampling
	}
	return Idle
}

// Due reports whether a sample should be emitted at now.
func (s *Scheduler) Due(now uint32, awake bool) bool {
	return s.State(awake) == Sampling &&
		s.Session.Elapsed(now) >= s.Session.Period &&
		!s.Session.Capped()
}

// Emitted restarts the interval at now and counts the sample.
func (s *Scheduler) Emitted(now uint32) {
	s.Session.Emitted(now)
}
