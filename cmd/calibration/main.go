// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// calibration measures the MPU6500 offsets used by IMU_CALIBRATION=manual.
//
// Calibrates:
//  1. Gyro: static bias averaged while the board lies still
//  2. Accel: per-axis min/max while the operator turns each axis up and down
//
// Output:
//
//	Prints IMU_CALIBRATION, IMU_ACC_OFFSETS and IMU_GYR_OFFSETS lines to paste
//	into the configuration file. Nothing is written to disk.
//
// Run:
//
//	go run ./cmd/calibration --config mpu6500_config.txt
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relabs-tech/mpu6500_console/internal/app"
	"github.com/relabs-tech/mpu6500_console/internal/mpu6500"
	"github.com/relabs-tech/mpu6500_console/internal/sensors"
)

var version = "dev"

func main() {
	var configPath string
	opts := app.DefaultCalibrationOptions()

	root := &cobra.Command{
		Use:          "calibration",
		Short:        "Measure MPU6500 accelerometer and gyro offsets",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(configPath)
			if err != nil {
				return err
			}

			bus, err := sensors.OpenBus(cfg.I2CBus)
			if err != nil {
				return err
			}
			defer bus.Close()

			dev := mpu6500.New(bus, cfg.IMUI2CAddr)
			if err := dev.Init(); err != nil {
				return fmt.Errorf("%s: %w", dev, err)
			}
			defer dev.Halt()
			log.WithField("imu", dev.String()).Info("IMU initialized")

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			_, err = app.RunCalibration(ctx, dev, os.Stdin, os.Stdout, opts)
			return err
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to configuration file (defaults when empty)")
	root.Flags().DurationVar(&opts.StillDuration, "still", opts.StillDuration, "gyro averaging time while still")
	root.Flags().DurationVar(&opts.RotateTimeout, "rotate-timeout", opts.RotateTimeout, "longest accelerometer rotation phase")
	root.Flags().DurationVar(&opts.SampleInterval, "interval", opts.SampleInterval, "sampling interval")

	if err := fang.Execute(context.Background(), root); err != nil {
		os.Exit(1)
	}
}
