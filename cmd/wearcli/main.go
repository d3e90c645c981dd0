package main

import (
	"github.com/robotalks/wearable/pkg/cli/sh"
	"github.com/robotalks/wearable/pkg/env"
	"github.com/robotalks/wearable/pkg/pedometer"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
	pedometer.SetupFlags()
}

func main() {
	sh.Main()
}
