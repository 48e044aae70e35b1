// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// imu_console brings up an MPU6500 on the I2C bus, calibrates it and prints
// acceleration, angular rate and temperature to the console once per poll
// interval.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relabs-tech/mpu6500_console/internal/app"
)

var version = "dev"

func main() {
	var (
		configPath string
		port       string
		busName    string
	)

	root := &cobra.Command{
		Use:   "imu_console",
		Short: "Print MPU6500 readings to a serial console",
		Long: `imu_console initializes an MPU6500 over I2C, measures its offsets while it
lies flat, applies the configured filters and ranges and then prints one
labelled reading per poll interval until interrupted.

Readings go to SERIAL_PORT at SERIAL_BAUD_RATE, or to stdout when no port is
configured. Logs go to stderr.`,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.SerialPort = port
			}
			if cmd.Flags().Changed("bus") {
				cfg.I2CBus = busName
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			log.Info("starting MPU6500 console")
			return app.RunConsole(ctx, app.ConsoleOptions{Config: cfg})
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to configuration file (defaults when empty)")
	root.Flags().StringVar(&port, "port", "", "serial port for readings, overrides SERIAL_PORT (empty for stdout)")
	root.Flags().StringVar(&busName, "bus", "", "I2C bus name, overrides I2C_BUS")

	if err := fang.Execute(context.Background(), root); err != nil {
		os.Exit(1)
	}
}
