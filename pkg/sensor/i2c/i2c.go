// Package i2c reads the motion sensor over Linux i2c-dev.
package i2c

import (
	"fmt"

	"golang.org/x/exp/io/i2c"
)

// DefaultAddress is the MPU-6050 address with AD0 low.
const DefaultAddress = 0x68

// Bus implements sensor.Bus on an i2c device.
type Bus struct {
	dev *i2c.Device
}

// Open opens the device at addr on the i2c-dev file (e.g. /dev/i2c-1).
// The sensor is expected to be initialized and awake already.
func Open(devFile string, addr int) (*Bus, error) {
	dev, err := i2c.Open(&i2c.Devfs{Dev: devFile}, addr)
	if err != nil {
		return nil, fmt.Errorf("open %s@%#x: %w", devFile, addr, err)
	}
	return &Bus{dev: dev}, nil
}

// ReadRegisters implements sensor.Bus.
func (b *Bus) ReadRegisters(reg byte, buf []byte) error {
	return b.dev.ReadReg(reg, buf)
}

// Close implements io.Closer.
func (b *Bus) Close() error {
	return b.dev.Close()
}
