package main

import (
	"log/slog"
	"os"

	"github.com/CristiGvl/gosensors/internal/cli"
	"github.com/CristiGvl/gosensors/internal/platform"
	"github.com/CristiGvl/gosensors/internal/sensors"
)

func main() {
	// Validate platform support
	if err := platform.ValidateSupport(); err != nil {
		slog.Error("platform validation failed", "error", err)
		os.Exit(1)
	}

	os.Exit(cli.Run(os.Args[1:], cli.DefaultEnv(sensors.New)))
}
