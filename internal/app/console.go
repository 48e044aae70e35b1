// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"

	"github.com/relabs-tech/mpu6500_console/internal/config"
	"github.com/relabs-tech/mpu6500_console/internal/imu"
	"github.com/relabs-tech/mpu6500_console/internal/mpu6500"
	"github.com/relabs-tech/mpu6500_console/internal/sensors"
)

// separator ends every printed reading.
var separator = strings.Repeat("*", 44)

// ConsoleOptions configures RunConsole.
type ConsoleOptions struct {
	Config *config.Config

	// Bus carries the MPU6500 (and the panel, if enabled). When nil the bus
	// named by Config.I2CBus is opened and closed on return.
	Bus i2c.Bus

	// Output receives the readings. When nil the console named by the
	// configuration is opened and closed on return.
	Output io.Writer

	// Panel, if set, mirrors each reading. When nil and Config.DisplayEnabled
	// is set, an SSD1306 on Bus is used.
	Panel *Panel
}

// RunConsole brings the MPU6500 up and prints one reading per poll interval
// until ctx is cancelled.
func RunConsole(ctx context.Context, opts ConsoleOptions) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Get()
	}
	if cfg == nil {
		cfg = config.Default()
	}

	bus := opts.Bus
	if bus == nil {
		bc, err := sensors.OpenBus(cfg.I2CBus)
		if err != nil {
			return err
		}
		defer bc.Close()
		bus = bc
	}

	out := opts.Output
	if out == nil {
		c, err := OpenConsole(cfg.SerialPort, cfg.SerialBaudRate)
		if err != nil {
			return err
		}
		defer c.Close()
		out = c
	}

	panel := opts.Panel
	if panel == nil && cfg.DisplayEnabled {
		p, err := NewPanel(bus)
		if err != nil {
			log.WithError(err).Warn("display: panel unavailable, continuing without it")
		} else {
			defer p.Halt()
			panel = p
		}
	}

	dev := mpu6500.New(bus, cfg.IMUI2CAddr)
	if _, err := sensors.BringUp(ctx, dev, cfg, out); err != nil {
		return err
	}

	src := sensors.NewIMUSource(dev)
	interval := time.Duration(cfg.PollInterval) * time.Millisecond
	log.WithField("interval", interval).Info("console: starting poll loop")
	return pollLoop(ctx, src, out, panel, interval)
}

func pollLoop(ctx context.Context, src imu.Source, out io.Writer, panel *Panel, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		r, err := src.Next()
		if err != nil {
			log.WithError(err).Warn("console: read failed, skipping")
		} else {
			if err := PrintReading(out, r); err != nil {
				return err
			}
			if panel != nil {
				if err := panel.Show(r); err != nil {
					log.WithError(err).Warn("display: update failed")
				}
			}
		}

		select {
		case <-ctx.Done():
			log.Info("console: stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// PrintReading writes r in the console's labelled block format.
func PrintReading(w io.Writer, r imu.Reading) error {
	var b strings.Builder
	b.WriteString("Acceleration in g (x,y,z):\n")
	fmt.Fprintf(&b, "%.2f   %.2f   %.2f\n", r.Accel.X, r.Accel.Y, r.Accel.Z)
	fmt.Fprintf(&b, "Resultant g: %.2f\n", r.ResultantG)
	b.WriteString("Gyroscope data in degrees/s: \n")
	fmt.Fprintf(&b, "%.2f   %.2f   %.2f\n", r.Gyro.X, r.Gyro.Y, r.Gyro.Z)
	fmt.Fprintf(&b, "Temperature in °C: %.2f\n", r.Temperature)
	b.WriteString(separator + "\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("console write: %w", err)
	}
	return nil
}
