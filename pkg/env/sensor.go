package env

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/robotalks/wearable/pkg/sensor"
	"github.com/robotalks/wearable/pkg/sensor/i2c"
	"github.com/robotalks/wearable/pkg/sensor/sim"
)

// OpenSensor opens the sensor bus: "sim" for the simulated motion,
// or i2c:///dev/i2c-1?addr=0x68 for a real sensor.
func OpenSensor(name string) (sensor.Bus, error) {
	if name == "" || name == "sim" {
		return sim.NewBus(), nil
	}
	u, err := url.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("invalid sensor: %w", err)
	}
	if u.Scheme != "i2c" {
		return nil, fmt.Errorf("unknown sensor %q", name)
	}
	addr := i2c.DefaultAddress
	if val := u.Query().Get("addr"); val != "" {
		n, err := strconv.ParseUint(val, 0, 7)
		if err != nil {
			return nil, fmt.Errorf("invalid i2c address %q", val)
		}
		addr = int(n)
	}
	bus, err := i2c.Open(u.Path, addr)
	if err != nil {
		return nil, err
	}
	return bus, nil
}
