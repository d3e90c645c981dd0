package link

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData indicates no byte is available on the transport.
	ErrNoData = errors.New("no data")
)

// RecordError reports a telemetry record which can't be parsed.
type RecordError struct {
	Record string
	Err    error
}

// Error implements error.
func (e *RecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid record %q: %v", e.Record, e.Err)
	}
	return fmt.Sprintf("invalid record %q", e.Record)
}

// Unwrap returns the underlying error.
func (e *RecordError) Unwrap() error {
	return e.Err
}
