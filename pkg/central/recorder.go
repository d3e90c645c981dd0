package central

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/wearable/pkg/link"
)

// DefaultMaxLen is the default recorder capacity.
const DefaultMaxLen = 1000

// Recorder keeps a bounded list of received records.
type Recorder struct {
	MaxLen  int
	records []link.Record
}

// NewRecorder creates a Recorder.
func NewRecorder(maxLen int) *Recorder {
	return &Recorder{MaxLen: maxLen}
}

// Append parses a "epoch,value" line and keeps the record. Invalid
// lines and lines arriving when full are ignored.
func (r *Recorder) Append(line string) bool {
	if len(r.records) >= r.MaxLen {
		glog.Warningf("recorder full (%d), dropped %q", r.MaxLen, line)
		return false
	}
	rec, err := link.ParseRecord(line)
	if err != nil {
		glog.Warningf("ignored invalid record: %v", err)
		return false
	}
	r.records = append(r.records, rec)
	return true
}

// Add keeps a record that is already parsed.
func (r *Recorder) Add(rec link.Record) bool {
	if len(r.records) >= r.MaxLen {
		return false
	}
	r.records = append(r.records, rec)
	return true
}

// Len returns the number of records.
func (r *Recorder) Len() int {
	return len(r.records)
}

// Full reports whether MaxLen is reached.
func (r *Recorder) Full() bool {
	return len(r.records) >= r.MaxLen
}

// Records returns the recorded records.
func (r *Recorder) Records() []link.Record {
	return r.records
}

// Reset drops all records.
func (r *Recorder) Reset() {
	r.records = nil
}

// Save writes records as "epoch,value" lines.
func (r *Recorder) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, rec := range r.records {
		if _, err := fmt.Fprintf(bw, "%d,%d\n", rec.Epoch, rec.Magnitude); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SaveFile saves records to a file.
func (r *Recorder) SaveFile(fn string) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err = r.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load replaces records with the lines read from rd, and sets MaxLen
// to the number of records loaded.
func (r *Recorder) Load(rd io.Reader) error {
	var records []link.Record
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rec, err := link.ParseRecord(line)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	r.records, r.MaxLen = records, len(records)
	return nil
}

// LoadFile loads records from a file.
func (r *Recorder) LoadFile(fn string) error {
	f, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.Load(f)
}
