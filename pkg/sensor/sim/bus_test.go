package sim

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/wearable/pkg/sensor"
)

func TestBusSample(t *testing.T) {
	b := NewBus()
	at := time.Duration(0)
	b.Elapsed = func() time.Duration { return at }

	c := sensor.NewCapture(b)
	c.Ready.Signal()
	s, ok, err := c.CaptureIfReady()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int16(OneG), s.AZ)
	require.Equal(t, b.SampleAt(0), s)

	// quarter of a step later the swing peaks.
	stepRate := b.StepRate
	at = time.Duration(float64(time.Second) / stepRate / 4)
	peak := b.SampleAt(at)
	require.InDelta(t, OneG+DefaultAmplitude, float64(peak.AZ), 2)
	require.True(t, peak.L1Norm() > s.L1Norm())
}

func TestClamp(t *testing.T) {
	require.Equal(t, int16(math.MaxInt16), clamp(1e9))
	require.Equal(t, int16(math.MinInt16), clamp(-1e9))
	require.Equal(t, int16(12), clamp(12.7))
}
