package pedometer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/wearable/pkg/link"
	"github.com/robotalks/wearable/pkg/sensor/sim"
)

func walkingTrace(n int, interval time.Duration) []link.Record {
	b := sim.NewBus()
	records := make([]link.Record, n)
	for i := range records {
		at := time.Duration(i) * interval
		records[i] = link.Record{
			Epoch:     uint32(at / time.Microsecond),
			Magnitude: b.SampleAt(at).L1Norm(),
		}
	}
	return records
}

func TestCountWalking(t *testing.T) {
	// 10s at 50Hz, the simulated wearer takes 1.8 steps per second.
	records := walkingTrace(500, 20*time.Millisecond)
	res := NewConfig().Count(records)
	require.InDelta(t, 50, res.SampleRate, 1e-9)
	require.InDelta(t, 18, res.Steps, 1)
	require.Len(t, res.Peaks, res.Steps)
	require.Len(t, res.Filtered, len(records))
	for _, p := range res.Peaks {
		require.True(t, res.Filtered[p] > -200 && res.Filtered[p] < 4000)
	}
}

func TestCountStill(t *testing.T) {
	records := make([]link.Record, 200)
	for i := range records {
		records[i] = link.Record{Epoch: uint32(i * 20000), Magnitude: 16384}
	}
	res := NewConfig().Count(records)
	require.Zero(t, res.Steps)
}

func TestCountPeakBounds(t *testing.T) {
	conf := NewConfig()
	conf.MaxPeak = 1
	res := conf.Count(walkingTrace(500, 20*time.Millisecond))
	require.Zero(t, res.Steps)
}

func TestEstimateSampleRate(t *testing.T) {
	testCases := []struct {
		name    string
		records []link.Record
		expect  float64
	}{
		{"empty", nil, 0},
		{"single", []link.Record{{Epoch: 1}}, 0},
		{"steady", []link.Record{{Epoch: 0}, {Epoch: 10000}, {Epoch: 20000}}, 100},
		{"wrapped", []link.Record{{Epoch: 0xffffffff - 19998}, {Epoch: 1}, {Epoch: 20001}}, 50},
		{"jitter", []link.Record{{Epoch: 0}, {Epoch: 20000}, {Epoch: 30000}, {Epoch: 50000}, {Epoch: 70000}}, 50},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.expect, EstimateSampleRate(tc.records), 1e-9)
		})
	}
}

func TestLowpass3(t *testing.T) {
	b, a := Lowpass3(0.2)
	require.Len(t, b, 4)
	require.Len(t, a, 4)
	for i, v := range []float64{0.018099, 0.054297, 0.054297, 0.018099} {
		require.InDelta(t, v, b[i], 1e-5)
	}
	for i, v := range []float64{1, -1.760041, 1.182893, -0.278059} {
		require.InDelta(t, v, a[i], 1e-5)
	}
}

func TestLFilter(t *testing.T) {
	// y[n] = x[n] + 0.5y[n-1]
	y := LFilter([]float64{1}, []float64{1, -0.5}, []float64{1, 0, 0, 0})
	require.Equal(t, []float64{1, 0.5, 0.25, 0.125}, y)
	// gain is normalized by a[0].
	y = LFilter([]float64{2, 2}, []float64{2}, []float64{1, 2, 3})
	require.Equal(t, []float64{1, 3, 5}, y)
}

func TestSmooth(t *testing.T) {
	y := Smooth([]float64{4, 4, 4, 4}, 1)
	require.Equal(t, []float64{2, 4, 4, 4}, y)
}

func TestDetrend(t *testing.T) {
	y := Detrend([]float64{1, 3, 5, 7, 9})
	for _, v := range y {
		require.InDelta(t, 0, v, 1e-9)
	}
	y = Detrend([]float64{0, 2, 0, 2})
	require.InDeltaSlice(t, []float64{-0.4, 1.2, -1.2, 0.4}, y, 1e-9)
	require.Equal(t, []float64{0}, Detrend([]float64{5}))
}

func TestGradient(t *testing.T) {
	require.Equal(t, []float64{1, 1.5, 2.5, 3}, Gradient([]float64{1, 2, 4, 7}))
	require.Equal(t, []float64{0}, Gradient([]float64{3}))
	require.Empty(t, Gradient(nil))
}

func TestFindPeaks(t *testing.T) {
	testCases := []struct {
		name   string
		data   []float64
		expect []int
	}{
		{"single", []float64{0, 1, 0}, []int{1}},
		{"edges", []float64{3, 1, 2}, nil},
		{"plateau", []float64{0, 2, 2, 2, 0}, []int{2}},
		{"even plateau", []float64{0, 2, 2, 0}, []int{1}},
		{"plateau rising", []float64{0, 2, 2, 3, 1}, []int{3}},
		{"plateau at end", []float64{0, 2, 2}, nil},
		{"several", []float64{0, 1, 0, 5, 4, 6, 0}, []int{1, 3, 5}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, FindPeaks(tc.data))
		})
	}
}
