// Package device is the wearable firmware core: it ties the link
// protocol, sensor capture and the sampling scheduler together and is
// driven by repeatedly calling Tick.
package device

import (
	"sync/atomic"

	"github.com/golang/glog"

	fx "github.com/robotalks/wearable/pkg/framework"
	"github.com/robotalks/wearable/pkg/link"
	"github.com/robotalks/wearable/pkg/scheduler"
	"github.com/robotalks/wearable/pkg/sensor"
	"github.com/robotalks/wearable/pkg/session"
)

// LineHandler receives completed lines, e.g. to show on a display.
type LineHandler interface {
	HandleLine(line string)
}

// HandleLineFunc is the func form of LineHandler.
type HandleLineFunc func(string)

// HandleLine implements LineHandler.
func (f HandleLineFunc) HandleLine(line string) {
	f(line)
}

// Device is the firmware core. It's single threaded: only the ready
// flag of Capture and the sleep input may be touched from elsewhere.
type Device struct {
	Transport link.Transport
	Capture   *sensor.Capture
	Clock     Clock
	Session   *session.Session
	Scheduler *scheduler.Scheduler
	Parser    *link.Parser
	Display   LineHandler

	asleep atomic.Bool
	latest sensor.Sample
	fresh  bool
}

// New creates a Device sampling at the first period of the table.
func New(t link.Transport, c *sensor.Capture) *Device {
	s := session.New(link.DefaultPeriods[0])
	return &Device{
		Transport: t,
		Capture:   c,
		Clock:     NewClock(),
		Session:   s,
		Scheduler: scheduler.New(s),
		Parser:    link.NewParser(),
	}
}

// SetAwake is the external sleep input gating sampling.
func (d *Device) SetAwake(awake bool) {
	d.asleep.Store(!awake)
}

// Awake returns the sleep input.
func (d *Device) Awake() bool {
	return !d.asleep.Load()
}

// Tick runs one pass of the polling loop. None of the checks blocks.
func (d *Device) Tick() {
	d.PollLink()
	d.PollSensor()
	d.PollCadence()
}

// PollLink consumes available bytes until a line completes or nothing
// is left. It returns true if a line was completed.
func (d *Device) PollLink() bool {
	for d.Transport.Available() > 0 {
		b, err := d.Transport.ReadByte()
		if err != nil {
			if err != link.ErrNoData {
				glog.Errorf("link read error: %v", err)
			}
			return false
		}
		if d.consume(b) {
			return true
		}
	}
	return false
}

func (d *Device) consume(b byte) bool {
	pr := d.Parser.Parse(b)
	switch pr.Event {
	case link.EventHandshake:
		d.handshake()
	case link.EventCommand:
		d.command(pr.Period)
	case link.EventLine:
		glog.V(2).Infof("line %q", pr.Line)
		if h := d.Display; h != nil {
			h.HandleLine(pr.Line)
		}
		return true
	}
	return false
}

// handshake acknowledges first, then flushes and only then flags the
// session connected.
func (d *Device) handshake() {
	if _, err := d.Transport.Write([]byte(link.HandshakeAck)); err != nil {
		glog.Errorf("handshake ack error: %v", err)
	}
	if err := d.Transport.Flush(); err != nil {
		glog.Errorf("link flush error: %v", err)
	}
	d.Session.Connect(d.Clock.Micros())
	d.fresh = false
	glog.Info("connected")
}

func (d *Device) command(period uint32) {
	d.Session.SetPeriod(period)
	if err := d.Transport.Flush(); err != nil {
		glog.Errorf("link flush error: %v", err)
	}
	glog.Infof("sampling period %v", link.Duration(period))
}

// PollSensor captures a sample if the sensor signalled data ready.
func (d *Device) PollSensor() bool {
	s, ok, err := d.Capture.CaptureIfReady()
	if err != nil {
		glog.Errorf("sensor read error: %v", err)
		return false
	}
	if ok {
		d.latest, d.fresh = s, true
	}
	return ok
}

// PollCadence emits the latest sample when the period elapsed.
// A sample is emitted at most once, without a fresh one nothing is sent.
func (d *Device) PollCadence() bool {
	if !d.fresh {
		return false
	}
	now := d.Clock.Micros()
	if !d.Scheduler.Due(now, d.Awake()) {
		return false
	}
	rec := link.Record{Epoch: now, Magnitude: d.latest.L1Norm()}
	if _, err := rec.WriteTo(d.Transport); err != nil {
		glog.Errorf("telemetry write error: %v", err)
	}
	glog.V(4).Infof("SND %q", rec.String())
	d.fresh = false
	d.Scheduler.Emitted(now)
	if d.Session.Capped() {
		glog.Infof("%d samples sent, paused until next command", d.Session.Count)
	}
	return true
}

// Status is a snapshot of the device state.
type Status struct {
	State     scheduler.State
	Connected bool
	Period    uint32
	Count     uint32
	Buffered  int
}

// Status returns current status.
func (d *Device) Status() Status {
	return Status{
		State:     d.Scheduler.State(d.Awake()),
		Connected: d.Session.Connected,
		Period:    d.Session.Period,
		Count:     d.Session.Count,
		Buffered:  d.Parser.Buffered(),
	}
}

// AddToLoop implements LoopAdder. Each condition is its own controller,
// so the order of the checks is only decided by priority levels.
func (d *Device) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvLink, fx.ControlFunc(func(fx.ControlContext) error {
		d.PollLink()
		return nil
	}))
	loop.AddController(fx.PrLvSense, fx.ControlFunc(func(fx.ControlContext) error {
		d.PollSensor()
		return nil
	}))
	loop.AddController(fx.PrLvEmit, fx.ControlFunc(func(fx.ControlContext) error {
		d.PollCadence()
		return nil
	}))
}
