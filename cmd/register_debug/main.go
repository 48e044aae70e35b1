// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// register_debug prints every readable MPU6500 register with its reset
// default and decoded bit fields. Values that differ from the default are
// marked with '*'. With --init the device is reset and initialized first,
// otherwise the registers are read as found.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relabs-tech/mpu6500_console/internal/app"
	"github.com/relabs-tech/mpu6500_console/internal/mpu6500"
	"github.com/relabs-tech/mpu6500_console/internal/sensors"
)

var version = "dev"

func main() {
	var (
		configPath string
		initFirst  bool
	)

	root := &cobra.Command{
		Use:          "register_debug",
		Short:        "Dump the MPU6500 register map with decoded bit fields",
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
			if initFirst {
				if err := dev.Init(); err != nil {
					log.WithError(err).Warn("initialization failed, dumping anyway")
				}
			}
			id, err := dev.WhoAmI()
			if err != nil {
				return fmt.Errorf("%s: %w", dev, err)
			}
			if id != mpu6500.WhoAmIValue {
				log.Warnf("WHO_AM_I = 0x%02X, expected 0x%02X", id, mpu6500.WhoAmIValue)
			}
			return app.DumpRegisters(os.Stdout, dev, sensors.MPU6500RegisterMap())
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to configuration file (defaults when empty)")
	root.Flags().BoolVar(&initFirst, "init", false, "reset and initialize the device before dumping")

	if err := fang.Execute(context.Background(), root); err != nil {
		os.Exit(1)
	}
}
