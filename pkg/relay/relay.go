// Package relay forwards telemetry received by the central to
// brokers, time-series storage and dashboards.
package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/wearable/pkg/central"
	fx "github.com/robotalks/wearable/pkg/framework"
	"github.com/robotalks/wearable/pkg/link"
	"github.com/robotalks/wearable/pkg/relay/msgs"
)

// Sink consumes relayed records.
type Sink interface {
	fx.Named
	Send(ctx context.Context, msg *msgs.RecordMsg) error
}

// Relay dispatches RecordMsg posted to the loop to all sinks.
type Relay struct {
	Sinks []Sink
}

// New creates a Relay.
func New(sinks ...Sink) *Relay {
	return &Relay{Sinks: sinks}
}

// AddToLoop implements fx.LoopAdder.
func (r *Relay) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvEmit, r)
}

// Control implements fx.Controller.
func (r *Relay) Control(cc fx.ControlContext) error {
	errs := &fx.AggregatedError{}
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
		msg, ok := mc.CurrentMessage().(*msgs.RecordMsg)
		if !ok {
			return
		}
		mc.MessageTaken()
		for _, sink := range r.Sinks {
			if err := sink.Send(cc.Context(), msg); err != nil {
				errs.Add(fmt.Errorf("%s: %w", sink.Name(), err))
			}
		}
	}))
	return errs.Aggregate()
}

// DefaultBatchSize is the number of records read by Source at once.
const DefaultBatchSize = 100

// Source connects the central to the device and posts every
// received record into the loop.
type Source struct {
	Central *central.Central
	Device  string
	// Period is the index of the sampling period to select,
	// negative to keep the device's current one.
	Period    int
	BatchSize int
}

// Name implements fx.Named.
func (s *Source) Name() string { return "source" }

// Run implements fx.Runnable.
func (s *Source) Run(ctx context.Context) error {
	loopCtl := fx.LoopCtlFrom(ctx)
	if err := s.Central.Connect(ctx); err != nil {
		return err
	}
	if s.Period >= 0 {
		if err := s.Central.SelectPeriod(ctx, s.Period); err != nil {
			return err
		}
		glog.Infof("period set to %v", link.Duration(link.DefaultPeriods[s.Period]))
	}
	batch := s.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	for {
		err := s.Central.Records(ctx, batch, func(rec link.Record) {
			loopCtl.PostMessage(msgs.NewRecordMsg(s.Device, rec, time.Now()))
			loopCtl.TriggerNext()
		})
		if err != nil {
			return err
		}
	}
}

// RecorderSink keeps relayed records in a central.Recorder.
type RecorderSink struct {
	Recorder *central.Recorder
}

// Name implements Sink.
func (s *RecorderSink) Name() string { return "recorder" }

// Send implements Sink.
func (s *RecorderSink) Send(ctx context.Context, msg *msgs.RecordMsg) error {
	if !s.Recorder.Add(msg.Record()) {
		glog.V(2).Infof("recorder full, dropped %s", msg.Record())
	}
	return nil
}

// LogSink logs relayed records.
type LogSink struct{}

// Name implements Sink.
func (s *LogSink) Name() string { return "log" }

// Send implements Sink.
func (s *LogSink) Send(ctx context.Context, msg *msgs.RecordMsg) error {
	glog.Infof("%s: epoch=%d magnitude=%d", msg.Device, msg.Epoch, msg.Magnitude)
	return nil
}
