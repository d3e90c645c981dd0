// Package sim simulates the motion sensor for running the device core
// on a host.
package sim

import (
	"math"
	"sync"
	"time"

	"github.com/robotalks/wearable/pkg/sensor"
)

// Defaults of the simulated motion.
const (
	// OneG is 1g at the ±2g full scale range.
	OneG = 16384
	// DefaultStepRate is the cadence of simulated walking.
	DefaultStepRate = 1.8
	// DefaultAmplitude is the peak of the vertical acceleration swing.
	DefaultAmplitude = 0.35 * OneG
)

// Bus implements sensor.Bus with a walking pattern: gravity on Z plus
// a periodic swing at StepRate steps per second.
type Bus struct {
	StepRate  float64
	Amplitude float64
	// Elapsed returns the simulated time, defaults to wall time
	// since creation.
	Elapsed func() time.Duration

	lock sync.Mutex
}

// NewBus creates a Bus with default motion.
func NewBus() *Bus {
	start := time.Now()
	return &Bus{
		StepRate:  DefaultStepRate,
		Amplitude: DefaultAmplitude,
		Elapsed:   func() time.Duration { return time.Since(start) },
	}
}

// SampleAt computes the simulated sample at t.
func (b *Bus) SampleAt(t time.Duration) sensor.Sample {
	phase := 2 * math.Pi * b.StepRate * t.Seconds()
	swing := b.Amplitude * math.Sin(phase)
	return sensor.Sample{
		AX:   clamp(swing / 4),
		AY:   clamp(b.Amplitude / 8 * math.Cos(phase)),
		AZ:   clamp(OneG + swing),
		Temp: 3000,
		GX:   clamp(swing / 16),
		GY:   clamp(-swing / 16),
	}
}

// ReadRegisters implements sensor.Bus.
func (b *Bus) ReadRegisters(reg byte, buf []byte) error {
	b.lock.Lock()
	s := b.SampleAt(b.Elapsed())
	b.lock.Unlock()
	data := s.Encode()
	if off := int(reg) - int(sensor.RegDataStart); off >= 0 && off < len(data) {
		copy(buf, data[off:])
	}
	return nil
}

func clamp(v float64) int16 {
	switch {
	case v >= math.MaxInt16:
		return math.MaxInt16
	case v <= math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}
