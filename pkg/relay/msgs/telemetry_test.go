package msgs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/wearable/pkg/link"
)

func TestRecordMsgEncoding(t *testing.T) {
	at := time.Unix(1700000000, 5000)
	msg := NewRecordMsg("wrist", link.Record{Epoch: 123456, Magnitude: 175}, at)
	payload, err := msg.Encode()
	require.NoError(t, err)
	decoded, err := DecodeRecordMsg(payload)
	require.NoError(t, err)
	require.Equal(t, "wrist", decoded.Device)
	require.Equal(t, link.Record{Epoch: 123456, Magnitude: 175}, decoded.Record())
	require.True(t, at.Equal(decoded.ReceivedAt()))
	require.Contains(t, decoded.String(), `device:"wrist"`)

	_, err = DecodeRecordMsg([]byte{0xff})
	require.Error(t, err)
}
