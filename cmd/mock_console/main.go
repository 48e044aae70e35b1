// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// mock_console runs the MPU6500 console against a simulated device. The
// device lies still through calibration and then tilts slowly.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relabs-tech/mpu6500_console/internal/app"
	"github.com/relabs-tech/mpu6500_console/internal/mpu6500"
	"github.com/relabs-tech/mpu6500_console/internal/sim"
)

var version = "dev"

func main() {
	var configPath string

	root := &cobra.Command{
		Use:          "mock_console",
		Short:        "Run the MPU6500 console against a simulated device",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg.DisplayEnabled = false

			still := time.Duration(cfg.CalibrationSettle)*time.Millisecond + 2*time.Second
			bus := sim.New(cfg.IMUI2CAddr, sim.Tilting(still))
			bus.AccBias = mpu6500.Vector{X: 312, Y: -96, Z: 520}
			bus.GyrBias = mpu6500.Vector{X: 44, Y: 146, Z: -104}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			log.Infof("starting mock console on %s", bus)
			return app.RunConsole(ctx, app.ConsoleOptions{Config: cfg, Bus: bus})
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to configuration file (defaults when empty)")

	if err := fang.Execute(context.Background(), root); err != nil {
		os.Exit(1)
	}
}
