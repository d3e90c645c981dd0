// Package env resolves the configuration of the commands into
// transports, sensors and relay sinks.
package env

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/robotalks/wearable/pkg/device"
	"github.com/robotalks/wearable/pkg/pedometer"
)

// InfluxConfig defines the InfluxDB connection.
type InfluxConfig struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

// Enabled indicates InfluxDB is configured.
func (c *InfluxConfig) Enabled() bool {
	return c.URL != ""
}

// Config is the common configuration of the commands.
type Config struct {
	// Link is the URL of the transport, e.g.
	//   serial:///dev/ttyUSB0?baud=9600
	//   ws://localhost:8080/link
	//   wsl://:8080/link
	//   pipe:
	Link string `yaml:"link"`
	// Sensor is "sim" or an i2c URL like i2c:///dev/i2c-1?addr=0x68.
	Sensor string `yaml:"sensor"`
	// Peripheral is the MAC address of the remote HM-10, empty for
	// a transparent link.
	Peripheral string `yaml:"peripheral"`
	// DeviceID identifies the wearable in relayed telemetry.
	DeviceID string `yaml:"device_id"`
	// MQTTURL is the broker to relay to, e.g. mqtt://host:port/topic-prefix/
	MQTTURL string       `yaml:"mqtt"`
	Influx  InfluxConfig `yaml:"influx"`
	// Dashboard is the listen address of the websocket broadcaster.
	Dashboard string `yaml:"dashboard"`
	// Core is the device core configuration.
	Core *device.Config `yaml:"core"`
	// Pedometer configures step counting over recorded records.
	Pedometer *pedometer.Config `yaml:"pedometer"`
}

var (
	defaultConfig = Config{
		Link:   "ws://localhost:8080/link",
		Sensor: "sim",
	}

	configFile string
)

func init() {
	envStr := func(name string, val *string) {
		if v := os.Getenv(name); v != "" {
			*val = v
		}
	}
	envStr("WEARABLE_LINK", &defaultConfig.Link)
	envStr("WEARABLE_SENSOR", &defaultConfig.Sensor)
	envStr("WEARABLE_PERIPHERAL", &defaultConfig.Peripheral)
	envStr("WEARABLE_DEVICE_ID", &defaultConfig.DeviceID)
	envStr("WEARABLE_MQTT_URL", &defaultConfig.MQTTURL)
	envStr("WEARABLE_INFLUX_URL", &defaultConfig.Influx.URL)
	envStr("WEARABLE_INFLUX_TOKEN", &defaultConfig.Influx.Token)
	envStr("WEARABLE_INFLUX_ORG", &defaultConfig.Influx.Org)
	envStr("WEARABLE_INFLUX_BUCKET", &defaultConfig.Influx.Bucket)
	envStr("WEARABLE_DASHBOARD", &defaultConfig.Dashboard)
	envStr("WEARABLE_CONFIG", &configFile)
}

// SetDefaultLink is called in init of commands to set the default
// link URL, before environment variables apply.
func SetDefaultLink(url string) {
	if os.Getenv("WEARABLE_LINK") == "" {
		defaultConfig.Link = url
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&configFile, "config", configFile, "YAML config file, applied over flags.")
	flag.StringVar(&defaultConfig.Link, "link", defaultConfig.Link, "Link URL (serial://, ws://, wsl://, pipe:).")
	flag.StringVar(&defaultConfig.Sensor, "sensor", defaultConfig.Sensor, "Sensor: sim or i2c:///dev/i2c-N?addr=0x68.")
	flag.StringVar(&defaultConfig.Peripheral, "peripheral", defaultConfig.Peripheral, "MAC address of the peripheral HM-10.")
	flag.StringVar(&defaultConfig.DeviceID, "device-id", defaultConfig.DeviceID, "Device ID in relayed telemetry.")
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL.")
	flag.StringVar(&defaultConfig.Influx.URL, "influx", defaultConfig.Influx.URL, "InfluxDB server URL.")
	flag.StringVar(&defaultConfig.Influx.Token, "influx-token", defaultConfig.Influx.Token, "InfluxDB token.")
	flag.StringVar(&defaultConfig.Influx.Org, "influx-org", defaultConfig.Influx.Org, "InfluxDB organization.")
	flag.StringVar(&defaultConfig.Influx.Bucket, "influx-bucket", defaultConfig.Influx.Bucket, "InfluxDB bucket.")
	flag.StringVar(&defaultConfig.Dashboard, "dashboard", defaultConfig.Dashboard, "Listen address for dashboard websocket.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with defaults, the config file
// specified by -config is applied if present.
func NewConfig() (*Config, error) {
	conf := defaultConfig
	conf.Core = device.NewConfig()
	conf.Pedometer = pedometer.NewConfig()
	if conf.DeviceID == "" {
		conf.DeviceID = MachineID()
	}
	if configFile != "" {
		if err := conf.LoadFile(configFile); err != nil {
			return nil, err
		}
	}
	return &conf, nil
}

// Load applies YAML content over the config.
func (c *Config) Load(data []byte) error {
	if c.Core == nil {
		c.Core = device.NewConfig()
	}
	if c.Pedometer == nil {
		c.Pedometer = pedometer.NewConfig()
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadFile applies a YAML file over the config.
func (c *Config) LoadFile(fn string) error {
	data, err := os.ReadFile(fn)
	if err != nil {
		return err
	}
	return c.Load(data)
}
