package framework

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/golang/glog"
)

// ErrForcedExit is returned by Wait when a second stop signal arrives
// before every runnable returned.
var ErrForcedExit = errors.New("forced exit")

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// NamedRun gives a Runnable a name, e.g. "link" or "http", which
// shows up in logs.
func NamedRun(name string, runnable Runnable) Runnable {
	return &namedRunnable{name: name, Runnable: runnable}
}

// Runner drives the long-running parts of a process (controllers of a
// Loop, transports of a link, the dashboard server) in goroutines
// sharing one Context. Wait collects what they return.
type Runner struct {
	Context context.Context
	Runners []Runnable

	errCh  chan error
	exitCh chan struct{}
	done   int
}

// NewRunner creates a Runner on the background context.
func NewRunner() *Runner {
	return NewRunnerWith(context.Background())
}

// NewRunnerWith creates a Runner whose runnables see ctx.
func NewRunnerWith(ctx context.Context) *Runner {
	return &Runner{
		Context: ctx,
		errCh:   make(chan error, 1),
		exitCh:  make(chan struct{}),
	}
}

// HandleSignals cancels Context on the first SIGINT or SIGTERM so the
// relay and the simulator shut down their links. A second signal
// makes Wait give up with ErrForcedExit.
func (r *Runner) HandleSignals() *Runner {
	ctx, cancel := context.WithCancel(r.Context)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	r.Context = ctx
	go func() {
		sig := <-sigCh
		glog.Infof("%v: stopping", sig)
		cancel()
		sig = <-sigCh
		glog.Errorf("%v while stopping, exit now", sig)
		close(r.exitCh)
	}()
	return r
}

func runnableName(runnable Runnable, index int) string {
	if named, ok := runnable.(Named); ok {
		return named.Name()
	}
	return "#" + strconv.Itoa(index)
}

// Go starts each runnable in its own goroutine on Context.
func (r *Runner) Go(runnables ...Runnable) *Runner {
	for _, runnable := range runnables {
		name := runnableName(runnable, len(r.Runners))
		r.Runners = append(r.Runners, runnable)
		glog.V(4).Infof("%s: running", name)
		go func(runnable Runnable, name string) {
			err := runnable.Run(r.Context)
			glog.V(4).Infof("%s: returned %v", name, err)
			r.errCh <- err
		}(runnable, name)
	}
	return r
}

// Wait blocks until every started runnable returned. Cancellation is
// not an error, anything else is aggregated.
func (r *Runner) Wait() error {
	var errs AggregatedError
	for ; r.done < len(r.Runners); r.done++ {
		select {
		case <-r.exitCh:
			return ErrForcedExit
		case err := <-r.errCh:
			if err != context.Canceled {
				errs.Add(err)
			}
		}
	}
	return errs.Aggregate()
}

// RunWithContextCancel runs a blocking fn that knows nothing about
// ctx. When ctx is done first, onCancel is expected to unblock fn,
// and the result is context.Canceled.
func RunWithContextCancel(ctx context.Context, onCancel func(), fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case <-ctx.Done():
		if onCancel != nil {
			onCancel()
		}
		<-errCh
		return context.Canceled
	case err := <-errCh:
		return err
	}
}

// RunWithContext is RunWithContextCancel without onCancel.
func RunWithContext(ctx context.Context, fn func() error) error {
	return RunWithContextCancel(ctx, nil, fn)
}

// RunWithContextCloser closes closer once, on cancellation or after
// fn returns. A serial port or socket read blocked in fn is released
// by closing it.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	var closed bool
	err := RunWithContextCancel(ctx, func() {
		closer.Close()
		closed = true
	}, fn)
	if !closed {
		closer.Close()
	}
	return err
}
