package link

import "time"

// PeriodTable maps command digits '0'..'4' to sampling periods in µs.
type PeriodTable [5]uint32

// DefaultPeriods are the sampling periods selectable by command:
// 10ms, 20ms, 200ms, 500ms and 10s.
var DefaultPeriods = PeriodTable{10000, 20000, 200000, 500000, 10000000}

// Lookup returns the period selected by a command byte.
func (t *PeriodTable) Lookup(b byte) (uint32, bool) {
	if b < '0' || int(b-'0') >= len(t) {
		return 0, false
	}
	return t[b-'0'], true
}

// Index returns the command index of period, or -1.
func (t *PeriodTable) Index(period uint32) int {
	for n, p := range t {
		if p == period {
			return n
		}
	}
	return -1
}

// Duration converts a period in µs to time.Duration.
func Duration(period uint32) time.Duration {
	return time.Duration(period) * time.Microsecond
}
