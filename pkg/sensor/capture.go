package sensor

import "sync/atomic"

// Bus reads consecutive registers from the sensor.
type Bus interface {
	ReadRegisters(reg byte, buf []byte) error
}

// ReadyFlag is the data-ready flag shared with interrupt context.
// Signal is the only operation allowed there.
type ReadyFlag struct {
	ready atomic.Bool
}

// Signal sets the flag. Interrupts arriving before the flag is taken
// are coalesced into one capture.
func (f *ReadyFlag) Signal() {
	f.ready.Store(true)
}

// Take reads and clears the flag atomically.
func (f *ReadyFlag) Take() bool {
	return f.ready.Swap(false)
}

// Capture reads a sample when the interrupt signalled data ready.
type Capture struct {
	Bus   Bus
	Ready *ReadyFlag

	buf [BurstSize]byte
}

// NewCapture creates a Capture on bus with its own ReadyFlag.
func NewCapture(bus Bus) *Capture {
	return &Capture{Bus: bus, Ready: &ReadyFlag{}}
}

// CaptureIfReady performs a burst read only if the ready flag is set.
// ok is false when there is no new sample.
func (c *Capture) CaptureIfReady() (s Sample, ok bool, err error) {
	if !c.Ready.Take() {
		return
	}
	if err = c.Bus.ReadRegisters(RegDataStart, c.buf[:]); err != nil {
		return
	}
	s, err = Decode(c.buf[:])
	return s, err == nil, err
}
