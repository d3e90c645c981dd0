package framework

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunnableName(t *testing.T) {
	noop := funcRunner(func(context.Context) error { return nil })
	require.Equal(t, "link", runnableName(NamedRun("link", noop), 3))
	require.Equal(t, "#3", runnableName(noop, 3))
}

func TestRunnerWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunnerWith(ctx)
	stopped := funcRunner(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	broken := funcRunner(func(context.Context) error { return errors.New("broken") })
	r.Go(NamedRun("transport", stopped), NamedRun("http", broken), stopped)
	require.Len(t, r.Runners, 3)
	cancel()
	require.EqualError(t, r.Wait(), "broken")
}

func TestRunnerForcedExit(t *testing.T) {
	r := NewRunner()
	stuck := make(chan struct{})
	defer close(stuck)
	r.Go(funcRunner(func(context.Context) error {
		<-stuck
		return nil
	}))
	close(r.exitCh)
	require.Equal(t, ErrForcedExit, r.Wait())
}
