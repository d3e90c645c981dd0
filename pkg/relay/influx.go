package relay

import (
	"context"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/robotalks/wearable/pkg/relay/msgs"
)

// DefaultMeasurement is the measurement telemetry is written to.
const DefaultMeasurement = "motion"

// PointWriter writes points, implemented by api.WriteAPIBlocking.
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// InfluxSink stores telemetry in InfluxDB.
type InfluxSink struct {
	Writer      PointWriter
	Measurement string
}

// NewInfluxSink creates an InfluxSink using a blocking write API
// of the client.
func NewInfluxSink(client influxdb2.Client, org, bucket string) *InfluxSink {
	return &InfluxSink{
		Writer:      client.WriteAPIBlocking(org, bucket),
		Measurement: DefaultMeasurement,
	}
}

// Name implements Sink.
func (s *InfluxSink) Name() string { return "influx" }

// Point converts the message into a point.
func (s *InfluxSink) Point(msg *msgs.RecordMsg) *write.Point {
	return influxdb2.NewPoint(s.Measurement,
		map[string]string{"device": msg.Device},
		map[string]interface{}{
			"magnitude": int64(msg.Magnitude),
			"epoch":     int64(msg.Epoch),
		},
		msg.ReceivedAt())
}

// Send implements Sink.
func (s *InfluxSink) Send(ctx context.Context, msg *msgs.RecordMsg) error {
	return s.Writer.WritePoint(ctx, s.Point(msg))
}
