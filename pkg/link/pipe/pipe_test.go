package pipe

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/wearable/pkg/link"
)

func readAll(e *End) string {
	var out []byte
	for e.Available() > 0 {
		b, err := e.ReadByte()
		if err != nil {
			break
		}
		out = append(out, b)
	}
	return string(out)
}

func TestPipe(t *testing.T) {
	device, central := New()
	var _ link.Transport = device

	_, err := central.Write([]byte("AT"))
	require.NoError(t, err)
	require.Equal(t, 2, device.Available())
	require.Zero(t, central.Available())
	require.Equal(t, "AT", readAll(device))

	_, err = device.ReadByte()
	require.Equal(t, link.ErrNoData, err)

	device.Write([]byte("#;"))
	require.Equal(t, "#;", readAll(central))
}

func TestPipeFlush(t *testing.T) {
	device, central := New()
	central.Write([]byte("2;"))
	device.Write([]byte("x"))
	require.NoError(t, device.Flush())
	require.Zero(t, device.Available())
	require.Equal(t, 1, central.Available())
}

func TestPipeOverrun(t *testing.T) {
	device, central := NewWithSize(4)
	n, err := central.Write([]byte("abcdef"))
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.Equal(t, "abcd", readAll(device))
}
