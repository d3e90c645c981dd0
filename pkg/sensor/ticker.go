package sensor

import (
	"context"
	"time"
)

// DefaultDataRate is the default data-ready rate of the sensor.
const DefaultDataRate = time.Millisecond

// DataReadyTicker stands in for the data-ready interrupt line by
// signalling the flag at a fixed rate.
type DataReadyTicker struct {
	Flag     *ReadyFlag
	Interval time.Duration
}

// Run implements Runnable.
func (t *DataReadyTicker) Run(ctx context.Context) error {
	interval := t.Interval
	if interval <= 0 {
		interval = DefaultDataRate
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.Flag.Signal()
		}
	}
}
