package relay

import (
	"context"
	"errors"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/robotalks/wearable/pkg/relay/msgs"
)

// ErrPublishTimeout indicates the broker didn't acknowledge in time.
var ErrPublishTimeout = errors.New("publish timeout")

// DefaultPublishTimeout is the default timeout waiting for a publish.
const DefaultPublishTimeout = time.Second

// Publisher publishes payloads to topics, implemented by mqtt.Queue.
type Publisher interface {
	Pub(topic string, payload []byte) paho.Token
}

// TelemetryTopic is the topic telemetry of device is published to.
func TelemetryTopic(device string) string {
	return device + "/telemetry"
}

// MQTTSink publishes protobuf encoded telemetry.
type MQTTSink struct {
	Publisher Publisher
	Timeout   time.Duration
}

// NewMQTTSink creates an MQTTSink.
func NewMQTTSink(pub Publisher) *MQTTSink {
	return &MQTTSink{Publisher: pub, Timeout: DefaultPublishTimeout}
}

// Name implements Sink.
func (s *MQTTSink) Name() string { return "mqtt" }

// Send implements Sink.
func (s *MQTTSink) Send(ctx context.Context, msg *msgs.RecordMsg) error {
	payload, err := msg.Encode()
	if err != nil {
		return err
	}
	token := s.Publisher.Pub(TelemetryTopic(msg.Device), payload)
	if !token.WaitTimeout(s.Timeout) {
		return ErrPublishTimeout
	}
	return token.Error()
}
