// Package pedometer counts steps in recorded motion magnitudes.
package pedometer

import (
	"flag"
	"sort"

	"github.com/golang/glog"

	"github.com/robotalks/wearable/pkg/link"
)

// Config defines the filter chain.
type Config struct {
	// SampleRate in Hz, 0 estimates it from record epochs.
	SampleRate float64 `yaml:"sample_rate"`
	// Smoothing is the order of the moving average.
	Smoothing int `yaml:"smoothing"`
	// Cutoff of the low-pass filter in Hz.
	Cutoff float64 `yaml:"cutoff"`
	// Peaks outside (MinPeak, MaxPeak) are not counted as steps.
	MinPeak float64 `yaml:"min_peak"`
	MaxPeak float64 `yaml:"max_peak"`
}

// FallbackSampleRate is used when the rate can't be estimated.
const FallbackSampleRate = 50

var defaultConfig = Config{
	Smoothing: 4,
	Cutoff:    5,
	MinPeak:   -200,
	MaxPeak:   4000,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.SampleRate, "step-rate", defaultConfig.SampleRate, "Sample rate in Hz for step counting, 0 to estimate.")
	flag.Float64Var(&defaultConfig.Cutoff, "step-cutoff", defaultConfig.Cutoff, "Low-pass cutoff in Hz for step counting.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Result is the outcome of counting.
type Result struct {
	Steps int
	// Peaks are indices of the records counted as steps.
	Peaks []int
	// Filtered is the signal peaks were found in.
	Filtered   []float64
	SampleRate float64
}

// EstimateSampleRate uses the median interval between records.
func EstimateSampleRate(records []link.Record) float64 {
	if len(records) < 2 {
		return 0
	}
	intervals := make([]uint32, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		// uint32 subtraction survives the µs wrap.
		if d := records[i].Epoch - records[i-1].Epoch; d > 0 {
			intervals = append(intervals, d)
		}
	}
	if len(intervals) == 0 {
		return 0
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i] < intervals[j] })
	return 1e6 / float64(intervals[len(intervals)/2])
}

// Filter runs the chain: detrend, moving average, gradient and
// low-pass.
func (c *Config) Filter(data []float64, sampleRate float64) []float64 {
	data = Detrend(data)
	data = Smooth(data, c.Smoothing)
	data = Gradient(data)
	cutoff := c.Cutoff / (sampleRate / 2)
	if cutoff <= 0 || cutoff >= 1 {
		glog.Warningf("cutoff %vHz out of range at %vHz, low-pass skipped", c.Cutoff, sampleRate)
		return data
	}
	b, a := Lowpass3(cutoff)
	return LFilter(b, a, data)
}

// Count counts steps in records.
func (c *Config) Count(records []link.Record) Result {
	res := Result{SampleRate: c.SampleRate}
	if res.SampleRate <= 0 {
		if res.SampleRate = EstimateSampleRate(records); res.SampleRate <= 0 {
			res.SampleRate = FallbackSampleRate
		}
	}
	data := make([]float64, len(records))
	for i, rec := range records {
		data[i] = float64(rec.Magnitude)
	}
	res.Filtered = c.Filter(data, res.SampleRate)
	for _, peak := range FindPeaks(res.Filtered) {
		if v := res.Filtered[peak]; v > c.MinPeak && v < c.MaxPeak {
			res.Peaks = append(res.Peaks, peak)
		}
	}
	res.Steps = len(res.Peaks)
	return res
}
