package sensor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDataReadyTicker(t *testing.T) {
	flag := &ReadyFlag{}
	ticker := &DataReadyTicker{Flag: flag, Interval: time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- ticker.Run(ctx) }()

	deadline := time.Now().Add(time.Second)
	for !flag.Take() {
		if time.Now().After(deadline) {
			t.Fatal("flag never signalled")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}
