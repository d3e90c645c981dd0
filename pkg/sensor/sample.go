// Package sensor captures motion samples from a 6-axis IMU
// (MPU-6050 register layout) when its data-ready interrupt fires.
package sensor

import (
	"encoding/binary"
	"fmt"
)

// Register layout of the burst read.
const (
	// RegDataStart is the first data register (ACCEL_XOUT_H).
	RegDataStart byte = 0x3B
	// BurstSize is accel x/y/z, temperature, gyro x/y/z, 16-bit each.
	BurstSize = 14
)

// Sample is one motion sample. Temperature and angular rate are
// captured but not used by telemetry.
type Sample struct {
	AX, AY, AZ int16
	Temp       int16
	GX, GY, GZ int16
}

// Decode decodes a big-endian burst of BurstSize bytes.
func Decode(buf []byte) (s Sample, err error) {
	if len(buf) < BurstSize {
		return s, fmt.Errorf("short burst: %d bytes", len(buf))
	}
	word := func(n int) int16 {
		return int16(binary.BigEndian.Uint16(buf[n*2:]))
	}
	s.AX, s.AY, s.AZ = word(0), word(1), word(2)
	s.Temp = word(3)
	s.GX, s.GY, s.GZ = word(4), word(5), word(6)
	return s, nil
}

// Encode encodes the sample in the register layout.
func (s Sample) Encode() []byte {
	buf := make([]byte, BurstSize)
	for n, v := range []int16{s.AX, s.AY, s.AZ, s.Temp, s.GX, s.GY, s.GZ} {
		binary.BigEndian.PutUint16(buf[n*2:], uint16(v))
	}
	return buf
}

// L1Norm is |ax|+|ay|+|az|, the telemetry scalar.
func (s Sample) L1Norm() uint32 {
	return abs(s.AX) + abs(s.AY) + abs(s.AZ)
}

func abs(v int16) uint32 {
	if v < 0 {
		return uint32(-int32(v))
	}
	return uint32(v)
}
