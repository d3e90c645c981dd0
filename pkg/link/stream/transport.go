// Package stream adapts a blocking io.ReadWriter into a polling
// link.Transport.
package stream

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"
	"github.com/smallnest/ringbuffer"

	fx "github.com/robotalks/wearable/pkg/framework"
	"github.com/robotalks/wearable/pkg/link"
)

// DefaultBufferSize is the default size of the input buffer.
const DefaultBufferSize = 1024

// Transport implements link.Transport.
// Bytes read from the underlying stream are queued in a ring buffer
// by Run, and consumed without blocking.
type Transport struct {
	rw io.ReadWriter

	input     *ringbuffer.RingBuffer
	writeLock sync.Mutex
}

// New creates a Transport with the default buffer size.
func New(rw io.ReadWriter) *Transport {
	return NewWithSize(rw, DefaultBufferSize)
}

// NewWithSize creates a Transport with specified input buffer size.
func NewWithSize(rw io.ReadWriter, size int) *Transport {
	return &Transport{rw: rw, input: ringbuffer.New(size)}
}

// Available implements link.Transport.
func (t *Transport) Available() int {
	return t.input.Length()
}

// ReadByte implements link.Transport.
func (t *Transport) ReadByte() (byte, error) {
	b, err := t.input.ReadByte()
	if err == ringbuffer.ErrIsEmpty {
		return 0, link.ErrNoData
	}
	return b, err
}

// Write implements io.Writer.
func (t *Transport) Write(p []byte) (int, error) {
	t.writeLock.Lock()
	defer t.writeLock.Unlock()
	return t.rw.Write(p)
}

// Flush implements link.Transport.
func (t *Transport) Flush() error {
	t.input.Reset()
	if f, ok := t.rw.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Feed queues received bytes. Bytes not fitting the buffer are dropped.
func (t *Transport) Feed(p []byte) {
	n, err := t.input.Write(p)
	if err != nil {
		glog.Warningf("link input overrun, %d bytes dropped", len(p)-n)
	}
}

// Run reads the underlying stream until it fails or ctx is done.
func (t *Transport) Run(ctx context.Context) error {
	fn := func() error {
		buf := make([]byte, 64)
		for {
			n, err := t.rw.Read(buf)
			if n > 0 {
				glog.V(4).Infof("RCV %q", buf[:n])
				t.Feed(buf[:n])
			}
			if err != nil {
				return err
			}
		}
	}
	if closer, ok := t.rw.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, fn)
	}
	return fx.RunWithContext(ctx, fn)
}

// AddToLoop implements LoopAdder.
func (t *Transport) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(t)
}

// Close closes the underlying stream if it's closable.
func (t *Transport) Close() error {
	if closer, ok := t.rw.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
