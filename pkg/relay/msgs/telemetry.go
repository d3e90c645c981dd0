// Package msgs defines the messages relayed from the central.
package msgs

import (
	"time"

	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/wearable/pkg/framework"
	"github.com/robotalks/wearable/pkg/link"
)

// Telemetry is the wire form of a relayed record.
type Telemetry struct {
	Device    string `protobuf:"bytes,1,opt,name=device,proto3" json:"device,omitempty"`
	Epoch     uint32 `protobuf:"varint,2,opt,name=epoch,proto3" json:"epoch"`
	Magnitude uint32 `protobuf:"varint,3,opt,name=magnitude,proto3" json:"magnitude"`
	// Received is when the central received the record, in unix nanoseconds.
	Received int64 `protobuf:"varint,4,opt,name=received,proto3" json:"received"`
}

// Reset implements proto.Message.
func (m *Telemetry) Reset() { *m = Telemetry{} }

// String implements proto.Message.
func (m *Telemetry) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*Telemetry) ProtoMessage() {}

// RecordMsg carries a received record through the relay loop.
type RecordMsg struct {
	Telemetry
}

// NewRecordMsg creates a RecordMsg.
func NewRecordMsg(device string, rec link.Record, received time.Time) *RecordMsg {
	return &RecordMsg{
		Telemetry: Telemetry{
			Device:    device,
			Epoch:     rec.Epoch,
			Magnitude: rec.Magnitude,
			Received:  received.UnixNano(),
		},
	}
}

// NewMessage implements fx.Message.
func (m *RecordMsg) NewMessage() fx.Message { return &RecordMsg{} }

// Serializable returns the protobuf message.
func (m *RecordMsg) Serializable() proto.Message { return &m.Telemetry }

// Record returns the link record.
func (m *RecordMsg) Record() link.Record {
	return link.Record{Epoch: m.Epoch, Magnitude: m.Magnitude}
}

// ReceivedAt returns Received as time.
func (m *RecordMsg) ReceivedAt() time.Time {
	return time.Unix(0, m.Received)
}

// Encode encodes the message in protobuf.
func (m *RecordMsg) Encode() ([]byte, error) {
	return proto.Marshal(&m.Telemetry)
}

// DecodeRecordMsg decodes a protobuf encoded RecordMsg.
func DecodeRecordMsg(payload []byte) (*RecordMsg, error) {
	m := &RecordMsg{}
	if err := proto.Unmarshal(payload, &m.Telemetry); err != nil {
		return nil, err
	}
	return m, nil
}
