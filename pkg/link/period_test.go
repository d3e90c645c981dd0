package link

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPeriodTable(t *testing.T) {
	for n, expect := range []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		200 * time.Millisecond,
		500 * time.Millisecond,
		10 * time.Second,
	} {
		period, ok := DefaultPeriods.Lookup(byte('0' + n))
		require.True(t, ok)
		require.Equal(t, expect, Duration(period))
		require.Equal(t, n, DefaultPeriods.Index(period))
	}
	for _, b := range []byte("56789/:aA;") {
		_, ok := DefaultPeriods.Lookup(b)
		require.False(t, ok, "byte %q", b)
	}
	require.Equal(t, -1, DefaultPeriods.Index(1))
}
