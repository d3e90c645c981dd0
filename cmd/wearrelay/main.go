package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/wearable/pkg/env"
	fx "github.com/robotalks/wearable/pkg/framework"
)

var period = 0

func init() {
	env.SetupFlags()
	flag.IntVar(&period, "period", period, "Sampling period index (0-4) to select, -1 to keep.")
}

func main() {
	flag.Parse()

	conf, err := env.NewConfig()
	if err != nil {
		glog.Exit(err)
	}
	r, err := conf.NewRelay(period)
	if err != nil {
		glog.Exit(err)
	}
	defer r.Close()
	if err := r.Connect(); err != nil {
		glog.Exitf("connect broker: %v", err)
	}
	fx.NewLoop().Add(r).RunOrFail(fx.NewRunner().HandleSignals().Context)
}
