package link

import "io"

// Transport is the ordered byte stream to the central.
// None of the operations may block indefinitely.
type Transport interface {
	io.Writer
	// Available returns the number of bytes ready to read.
	// Zero means nothing available, not an error.
	Available() int
	// ReadByte reads one available byte, ErrNoData if none.
	ReadByte() (byte, error)
	// Flush discards bytes received but not yet read.
	Flush() error
}
