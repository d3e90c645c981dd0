// Package session holds the link session state shared by the link
// protocol, the sampling scheduler and sensor capture.
package session

// MaxSamples is the number of samples emitted per active period before
// sampling pauses.
const MaxSamples uint32 = 515

// Session is the state of the logical connection with the central.
// Timestamps are monotonic microseconds which wrap at 32 bits, so all
// interval math uses unsigned subtraction.
type Session struct {
	Connected bool
	Epoch     uint32
	Period    uint32
	Count     uint32
}

// New creates a disconnected Session sampling at period (µs).
func New(period uint32) *Session {
	return &Session{Period: period}
}

// Connect marks the session connected and restarts the epoch.
// A repeated handshake re-arms the session the same way as the first one.
func (s *Session) Connect(now uint32) {
	s.Connected = true
	s.Epoch = now
}

// SetPeriod switches the active period and restarts the sample count.
func (s *Session) SetPeriod(period uint32) {
	s.Period = period
	s.Count = 0
}

// Elapsed returns microseconds since the epoch.
func (s *Session) Elapsed(now uint32) uint32 {
	return now - s.Epoch
}

// Capped indicates the sample cap of the active period is reached.
func (s *Session) Capped() bool {
	return s.Count >= MaxSamples
}

// Emitted records a sample emitted at now.
func (s *Session) Emitted(now uint32) {
	s.Epoch = now
	s.Count++
}
