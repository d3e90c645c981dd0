package link

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Record is one telemetry sample sent to the central.
type Record struct {
	// Epoch is the emission time in µs.
	Epoch uint32
	// Magnitude is the L1-norm of the acceleration.
	Magnitude uint32
}

// String returns the wire format, including the sentinel.
func (r Record) String() string {
	return fmt.Sprintf("%8d,%5d;", r.Epoch, r.Magnitude)
}

// WriteTo writes the wire format.
func (r Record) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.String())
	return int64(n), err
}

// ParseRecord parses a line (without sentinel) into a Record.
// Padding spaces around the fields are ignored.
func ParseRecord(line string) (Record, error) {
	fields := strings.Split(strings.TrimSuffix(strings.TrimSpace(line), string(Sentinel)), ",")
	if len(fields) != 2 {
		return Record{}, &RecordError{Record: line}
	}
	epoch, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 10, 32)
	if err != nil {
		return Record{}, &RecordError{Record: line, Err: err}
	}
	magnitude, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 32)
	if err != nil {
		return Record{}, &RecordError{Record: line, Err: err}
	}
	return Record{Epoch: uint32(epoch), Magnitude: uint32(magnitude)}, nil
}
