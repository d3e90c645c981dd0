package device

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	fx "github.com/robotalks/wearable/pkg/framework"
	"github.com/robotalks/wearable/pkg/link"
	"github.com/robotalks/wearable/pkg/sensor"
)

// Config defines the configuration of the device core.
type Config struct {
	// Period is the index of the initial sampling period.
	Period int `yaml:"period"`
	// Interval is the polling interval of the loop.
	Interval time.Duration `yaml:"interval"`
	// DataRate is the data-ready rate of the sensor.
	DataRate time.Duration `yaml:"data_rate"`
}

var defaultConfig = Config{
	Interval: time.Millisecond,
	DataRate: sensor.DefaultDataRate,
}

func init() {
	if val := os.Getenv("WEARABLE_PERIOD"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			defaultConfig.Period = n
		}
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.Period, "period", defaultConfig.Period, "Initial sampling period index (0-4).")
	flag.DurationVar(&defaultConfig.Interval, "interval", defaultConfig.Interval, "Polling interval.")
	flag.DurationVar(&defaultConfig.DataRate, "data-rate", defaultConfig.DataRate, "Sensor data-ready interval.")
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

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Period < 0 || c.Period >= len(link.DefaultPeriods) {
		return fmt.Errorf("invalid period index %d", c.Period)
	}
	return nil
}

// NewDevice creates a Device using the config.
func (c *Config) NewDevice(t link.Transport, capture *sensor.Capture) (*Device, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	d := New(t, capture)
	d.Session.Period = link.DefaultPeriods[c.Period]
	return d, nil
}

// NewLoop creates a loop running the device and its data-ready source.
func (c *Config) NewLoop(d *Device) *fx.Loop {
	loop := fx.NewLoop()
	loop.Interval = c.Interval
	loop.AddRunnable(&sensor.DataReadyTicker{Flag: d.Capture.Ready, Interval: c.DataRate})
	return loop.Add(d)
}
