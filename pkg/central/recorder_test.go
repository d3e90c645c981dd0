package central

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/wearable/pkg/link"
)

func TestRecorderAppend(t *testing.T) {
	r := NewRecorder(2)
	require.True(t, r.Append("  123456,  175"))
	require.False(t, r.Append("garbage"))
	require.True(t, r.Append("123500,180;"))
	require.True(t, r.Full())
	require.False(t, r.Append("123600,190"))
	require.Equal(t, []link.Record{
		{Epoch: 123456, Magnitude: 175},
		{Epoch: 123500, Magnitude: 180},
	}, r.Records())
	r.Reset()
	require.Zero(t, r.Len())
	require.True(t, r.Add(link.Record{Epoch: 1, Magnitude: 2}))
}

func TestRecorderSaveLoad(t *testing.T) {
	r := NewRecorder(DefaultMaxLen)
	r.Append("1,10")
	r.Append("2,20")
	var buf bytes.Buffer
	require.NoError(t, r.Save(&buf))
	require.Equal(t, "1,10\n2,20\n", buf.String())

	loaded := NewRecorder(DefaultMaxLen)
	require.NoError(t, loaded.Load(strings.NewReader(buf.String())))
	require.Equal(t, r.Records(), loaded.Records())
	require.Equal(t, 2, loaded.MaxLen)

	require.Error(t, loaded.Load(strings.NewReader("1,10\nbad\n")))
}

func TestRecorderFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "records.csv")
	r := NewRecorder(DefaultMaxLen)
	r.Append("3,30")
	require.NoError(t, r.SaveFile(fn))
	loaded := NewRecorder(0)
	require.NoError(t, loaded.LoadFile(fn))
	require.Equal(t, r.Records(), loaded.Records())
}
