package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// appID keeps the raw machine ID private.
const appID = "wearable"

// MachineID retrieves an ID identifying the machine, used as the
// default device ID of relayed telemetry. It falls back to the host
// name where no machine ID is available.
func MachineID() string {
	id, err := machineid.ProtectedID(appID)
	if err == nil {
		return id[:12]
	}
	glog.Warningf("machine id unavailable: %v", err)
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "unknown"
}
