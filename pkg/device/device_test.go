package device

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/wearable/pkg/link"
	"github.com/robotalks/wearable/pkg/link/pipe"
	"github.com/robotalks/wearable/pkg/scheduler"
	"github.com/robotalks/wearable/pkg/sensor"
	"github.com/robotalks/wearable/pkg/session"
)

type fakeClock struct {
	now uint32
}

func (c *fakeClock) Micros() uint32 { return c.now }

type fakeBus struct {
	sample sensor.Sample
}

func (b *fakeBus) ReadRegisters(reg byte, buf []byte) error {
	copy(buf, b.sample.Encode())
	return nil
}

// recordingTransport records operations in order, together with the
// session connection flag at the time of each operation.
type recordingTransport struct {
	input   []byte
	ops     []string
	session *session.Session
}

func (r *recordingTransport) op(name string) {
	if r.session != nil && r.session.Connected {
		name += "(connected)"
	}
	r.ops = append(r.ops, name)
}

func (r *recordingTransport) Available() int { return len(r.input) }

func (r *recordingTransport) ReadByte() (byte, error) {
	if len(r.input) == 0 {
		return 0, link.ErrNoData
	}
	b := r.input[0]
	r.input = r.input[1:]
	return b, nil
}

func (r *recordingTransport) Write(p []byte) (int, error) {
	r.op("write " + string(p))
	return len(p), nil
}

func (r *recordingTransport) Flush() error {
	r.op("flush")
	r.input = nil
	return nil
}

type testEnv struct {
	t       *testing.T
	device  *Device
	clock   *fakeClock
	bus     *fakeBus
	central *pipe.End
	lines   []string
}

func newTestEnv(t *testing.T) *testEnv {
	devEnd, central := pipe.New()
	env := &testEnv{t: t, clock: &fakeClock{now: 1000}, bus: &fakeBus{}, central: central}
	env.device = New(devEnd, sensor.NewCapture(env.bus))
	env.device.Clock = env.clock
	env.device.Display = HandleLineFunc(func(line string) {
		env.lines = append(env.lines, line)
	})
	return env
}

func (e *testEnv) send(s string) *testEnv {
	_, err := e.central.Write([]byte(s))
	require.NoError(e.t, err)
	return e
}

func (e *testEnv) received() string {
	var out []byte
	for e.central.Available() > 0 {
		b, err := e.central.ReadByte()
		require.NoError(e.t, err)
		out = append(out, b)
	}
	return string(out)
}

func (e *testEnv) connect() {
	e.send("AT")
	e.device.Tick()
	require.True(e.t, e.device.Session.Connected)
	require.Equal(e.t, link.HandshakeAck, e.received())
}

func (e *testEnv) interrupt(s sensor.Sample) {
	e.bus.sample = s
	e.device.Capture.Ready.Signal()
}

func TestHandshakeOrdering(t *testing.T) {
	s := session.New(10000)
	tr := &recordingTransport{input: []byte("xxAT;rest"), session: s}
	d := New(tr, sensor.NewCapture(&fakeBus{}))
	d.Session, d.Scheduler = s, scheduler.New(s)
	d.Clock = &fakeClock{now: 777}

	require.False(t, d.PollLink())
	require.Equal(t, []string{"write #;", "flush"}, tr.ops)
	require.True(t, s.Connected)
	require.Equal(t, uint32(777), s.Epoch)
	// the flush discarded the rest of the input.
	require.Zero(t, tr.Available())
	require.Zero(t, d.Parser.Buffered())
}

func TestHandshakeRepeated(t *testing.T) {
	env := newTestEnv(t)
	env.connect()
	env.clock.now = 5000
	env.connect()
	require.Equal(t, uint32(5000), env.device.Session.Epoch)
}

func TestDisplayLines(t *testing.T) {
	env := newTestEnv(t)
	env.send("hello;world;")
	env.device.Tick()
	require.Equal(t, []string{"hello"}, env.lines)
	env.device.Tick()
	require.Equal(t, []string{"hello", "world"}, env.lines)
	env.device.Tick()
	require.Len(t, env.lines, 2)
	require.False(t, env.device.Session.Connected)
}

func TestCommand(t *testing.T) {
	env := newTestEnv(t)
	env.connect()
	env.device.Session.Count = 9
	env.send("x2")
	env.device.Tick()
	require.Equal(t, uint32(200000), env.device.Session.Period)
	require.Zero(t, env.device.Session.Count)
	require.Equal(t, 2, env.device.Parser.Buffered(), "command digit stays in the line")
}

func TestCommandFlushesInput(t *testing.T) {
	env := newTestEnv(t)
	env.send("3;hello;")
	require.False(t, env.device.PollLink())
	require.Equal(t, uint32(500000), env.device.Session.Period)
	require.Empty(t, env.lines)
	require.Zero(t, env.device.Transport.Available())
}

func TestTelemetry(t *testing.T) {
	env := newTestEnv(t)

	// not connected, nothing is emitted.
	env.interrupt(sensor.Sample{AX: 1})
	env.clock.now = 100000
	env.device.Tick()
	require.Empty(t, env.received())

	env.clock.now = 113456
	env.connect()

	env.interrupt(sensor.Sample{AX: 100, AY: -50, AZ: 25})
	env.clock.now = 123456
	require.True(t, env.device.PollSensor())
	require.True(t, env.device.PollCadence())
	require.Equal(t, "  123456,  175;", env.received())
	require.Equal(t, uint32(1), env.device.Session.Count)
	require.Equal(t, uint32(123456), env.device.Session.Epoch)

	// period elapsed but no fresh sample: nothing is sent.
	env.clock.now = 200000
	env.device.Tick()
	require.Empty(t, env.received())

	// fresh sample arrives.
	env.interrupt(sensor.Sample{AX: -3, AY: 4, AZ: 5})
	env.device.Tick()
	require.Equal(t, "  200000,   12;", env.received())
}

func TestTelemetryPacing(t *testing.T) {
	env := newTestEnv(t)
	env.clock.now = 0
	env.connect()
	var records int
	for now := uint32(0); now < 100000; now += 500 {
		env.clock.now = now
		env.interrupt(sensor.Sample{AZ: 10})
		env.device.Tick()
		if out := env.received(); out != "" {
			records += strings.Count(out, ";")
		}
	}
	require.Equal(t, 9, records)
}

func TestTelemetryCap(t *testing.T) {
	env := newTestEnv(t)
	env.clock.now = 0
	env.connect()
	tick := func() string {
		env.clock.now += 10000
		env.interrupt(sensor.Sample{AZ: 1})
		env.device.Tick()
		return env.received()
	}
	for i := uint32(0); i < session.MaxSamples; i++ {
		require.NotEmpty(t, tick(), "sample %d", i)
	}
	require.Empty(t, tick())
	require.Empty(t, tick())

	env.send("1")
	require.NotEmpty(t, tick())
	require.Equal(t, uint32(1), env.device.Session.Count)
	require.Equal(t, uint32(20000), env.device.Session.Period)
}

func TestSleepGatesSampling(t *testing.T) {
	env := newTestEnv(t)
	env.connect()
	env.device.SetAwake(false)
	require.Equal(t, scheduler.Idle, env.device.Status().State)
	env.interrupt(sensor.Sample{AZ: 1})
	env.clock.now += 20000
	env.device.Tick()
	require.Empty(t, env.received())

	env.device.SetAwake(true)
	env.device.Tick()
	require.NotEmpty(t, env.received())
	require.Equal(t, scheduler.Sampling, env.device.Status().State)
}

func TestConfigNewDevice(t *testing.T) {
	conf := NewConfig()
	conf.Period = 3
	d, err := conf.NewDevice(&recordingTransport{}, sensor.NewCapture(&fakeBus{}))
	require.NoError(t, err)
	require.Equal(t, uint32(500000), d.Session.Period)

	conf.Period = 5
	_, err = conf.NewDevice(&recordingTransport{}, sensor.NewCapture(&fakeBus{}))
	require.Error(t, err)
}
