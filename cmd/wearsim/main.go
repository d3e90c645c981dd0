package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"

	"github.com/robotalks/wearable/pkg/central"
	"github.com/robotalks/wearable/pkg/device"
	"github.com/robotalks/wearable/pkg/env"
	fx "github.com/robotalks/wearable/pkg/framework"
	"github.com/robotalks/wearable/pkg/relay"
	"github.com/robotalks/wearable/pkg/sensor"
)

func init() {
	env.SetDefaultLink("wsl://:8080/link")
	env.SetupFlags()
	device.SetupFlags()
}

// toggleAwake flips the sleep input on SIGUSR1.
func toggleAwake(d *device.Device) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGUSR1)
	go func() {
		for range sigCh {
			d.SetAwake(!d.Awake())
			glog.Infof("awake: %v", d.Awake())
		}
	}()
}

func main() {
	flag.Parse()

	conf, err := env.NewConfig()
	if err != nil {
		glog.Exit(err)
	}
	l, err := env.OpenLink(conf.Link)
	if err != nil {
		glog.Exitf("open link %s: %v", conf.Link, err)
	}
	defer l.Close()
	bus, err := env.OpenSensor(conf.Sensor)
	if err != nil {
		glog.Exitf("open sensor %s: %v", conf.Sensor, err)
	}
	d, err := conf.Core.NewDevice(l, sensor.NewCapture(bus))
	if err != nil {
		glog.Exit(err)
	}
	d.Display = device.HandleLineFunc(func(line string) {
		glog.Infof("DISPLAY %q", line)
	})
	toggleAwake(d)

	loop := conf.Core.NewLoop(d).Add(l)
	if l.Peer != nil {
		// in-process link, run a central logging the telemetry.
		loop.Add(relay.New(&relay.LogSink{}))
		loop.AddRunnable(&relay.Source{
			Central: central.New(l.Peer, ""),
			Device:  conf.DeviceID,
			Period:  conf.Core.Period,
		})
	}
	loop.RunOrFail(fx.NewRunner().HandleSignals().Context)
}
