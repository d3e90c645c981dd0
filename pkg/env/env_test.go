package env

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/wearable/pkg/link/pipe"
	"github.com/robotalks/wearable/pkg/link/websocket"
	"github.com/robotalks/wearable/pkg/sensor/sim"
)

func TestOpenLink(t *testing.T) {
	l, err := OpenLink("pipe:")
	require.NoError(t, err)
	require.IsType(t, &pipe.End{}, l.Transport)
	require.NotNil(t, l.Peer)
	_, err = l.Write([]byte("AT"))
	require.NoError(t, err)
	require.Equal(t, 2, l.Peer.Available())

	l, err = OpenLink("wsl://:0/link")
	require.NoError(t, err)
	require.IsType(t, &websocket.Server{}, l.Transport)
	require.Len(t, l.runnables, 1)

	_, err = OpenLink("serial://")
	require.Error(t, err)
	_, err = OpenLink("carrier-pigeon://home")
	require.Error(t, err)
}

func TestOpenLinkDial(t *testing.T) {
	srv := websocket.NewServer()
	hs := httptest.NewServer(srv.Handler())
	defer hs.Close()

	l, err := OpenLink("ws" + strings.TrimPrefix(hs.URL, "http") + "/")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	_, err = l.Write([]byte("AT"))
	require.NoError(t, err)
	deadline := time.Now().Add(2 * time.Second)
	for srv.Available() < 2 {
		require.True(t, time.Now().Before(deadline), "nothing received")
		time.Sleep(time.Millisecond)
	}
	require.NoError(t, l.Close())
}

func TestOpenSensor(t *testing.T) {
	bus, err := OpenSensor("sim")
	require.NoError(t, err)
	require.IsType(t, &sim.Bus{}, bus)
	_, err = OpenSensor("spi:///dev/spidev0.0")
	require.Error(t, err)
	_, err = OpenSensor("i2c:///dev/i2c-1?addr=0x1ff")
	require.Error(t, err)
}

func TestConfigLoad(t *testing.T) {
	conf := &Config{Link: "pipe:", Sensor: "sim"}
	require.NoError(t, conf.Load([]byte(`
link: serial:///dev/ttyUSB0?baud=115200
peripheral: A81B6AAE5221
influx:
  url: http://localhost:8086
  bucket: motion
core:
  period: 2
  interval: 2ms
pedometer:
  cutoff: 3
`)))
	require.Equal(t, "serial:///dev/ttyUSB0?baud=115200", conf.Link)
	require.Equal(t, "sim", conf.Sensor)
	require.Equal(t, "A81B6AAE5221", conf.Peripheral)
	require.True(t, conf.Influx.Enabled())
	require.Equal(t, "motion", conf.Influx.Bucket)
	require.Equal(t, 2, conf.Core.Period)
	require.Equal(t, 2*time.Millisecond, conf.Core.Interval)
	require.Equal(t, 3.0, conf.Pedometer.Cutoff)
	require.Equal(t, 4, conf.Pedometer.Smoothing)

	require.Error(t, conf.Load([]byte("link: [")))
}

func TestNewRelay(t *testing.T) {
	conf := &Config{Link: "pipe:", DeviceID: "wrist"}
	_, err := conf.NewRelay(0)
	require.Error(t, err, "no sinks")

	conf.Dashboard = "127.0.0.1:0"
	r, err := conf.NewRelay(1)
	require.NoError(t, err)
	require.Len(t, r.Sinks, 1)
	require.Equal(t, "wrist", r.Source.Device)
	require.Equal(t, 1, r.Source.Period)
	require.NoError(t, r.Connect())
}
