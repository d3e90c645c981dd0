// Package serial opens a UART (e.g. the HM-10 bridge) as a link.Transport.
package serial

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/tarm/serial"

	"github.com/robotalks/wearable/pkg/link/stream"
)

// DefaultBaud is the factory baud rate of the HM-10.
const DefaultBaud = 9600

// Config is the serial port configuration.
type Config struct {
	Name string
	Baud int
}

// ConfigFromURL parses serial:///dev/ttyUSB0?baud=9600.
func ConfigFromURL(u *url.URL) (*Config, error) {
	c := &Config{Name: u.Path, Baud: DefaultBaud}
	if c.Name == "" {
		c.Name = u.Opaque
	}
	if c.Name == "" {
		return nil, fmt.Errorf("serial port name required")
	}
	if val := u.Query().Get("baud"); val != "" {
		baud, err := strconv.Atoi(val)
		if err != nil || baud <= 0 {
			return nil, fmt.Errorf("invalid baud rate %q", val)
		}
		c.Baud = baud
	}
	return c, nil
}

// Open opens the serial port. Reads block until data arrives, the
// returned Transport must be run (e.g. added to a loop) to receive.
func (c *Config) Open() (*stream.Transport, error) {
	port, err := serial.OpenPort(&serial.Config{Name: c.Name, Baud: c.Baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", c.Name, err)
	}
	return stream.New(port), nil
}
