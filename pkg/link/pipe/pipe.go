// Package pipe provides an in-process link between a device and a
// central.
package pipe

import (
	"github.com/golang/glog"
	"github.com/smallnest/ringbuffer"

	"github.com/robotalks/wearable/pkg/link"
)

// DefaultBufferSize is the buffer size of each direction.
const DefaultBufferSize = 4096

// End is one end of the pipe. It implements link.Transport.
type End struct {
	input  *ringbuffer.RingBuffer
	output *ringbuffer.RingBuffer
}

// New creates both ends of a pipe.
func New() (*End, *End) {
	return NewWithSize(DefaultBufferSize)
}

// NewWithSize creates both ends of a pipe with the specified size of buffers.
func NewWithSize(size int) (*End, *End) {
	a, b := ringbuffer.New(size), ringbuffer.New(size)
	return &End{input: a, output: b}, &End{input: b, output: a}
}

// Available implements link.Transport.
func (e *End) Available() int {
	return e.input.Length()
}

// ReadByte implements link.Transport.
func (e *End) ReadByte() (byte, error) {
	b, err := e.input.ReadByte()
	if err == ringbuffer.ErrIsEmpty {
		return 0, link.ErrNoData
	}
	return b, err
}

// Write implements io.Writer. The link is best-effort, bytes which
// don't fit the peer's buffer are lost.
func (e *End) Write(p []byte) (int, error) {
	n, err := e.output.Write(p)
	if err != nil {
		glog.Warningf("pipe overrun, %d bytes dropped", len(p)-n)
	}
	return len(p), nil
}

// Flush implements link.Transport.
func (e *End) Flush() error {
	e.input.Reset()
	return nil
}
