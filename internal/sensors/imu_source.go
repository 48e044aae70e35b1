// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/relabs-tech/mpu6500_console/internal/config"
	"github.com/relabs-tech/mpu6500_console/internal/imu"
	"github.com/relabs-tech/mpu6500_console/internal/mpu6500"
	log "github.com/sirupsen/logrus"
)

// Console lines printed during bring-up.
const (
	MsgNotResponding = "MPU6500 does not respond"
	MsgConnected     = "MPU6500 is connected"
	MsgCalibrating   = "Position you MPU6500 flat and don't move it - calibrating..."
	MsgDone          = "Done!"
)

// BringUp initializes dev, calibrates it and applies the filter, range and
// axis settings from cfg, printing progress to console. A device that does
// not respond is reported and the sequence carries on; later configuration
// failures are logged and skipped. The returned error is only set when the
// console cannot be written or ctx ends during the calibration settle.
func BringUp(ctx context.Context, dev *mpu6500.Dev, cfg *config.Config, console io.Writer) (connected bool, err error) {
	logger := log.WithField("imu", dev.String())

	if initErr := dev.Init(); initErr != nil {
		logger.WithError(initErr).Warn("initialization failed")
		err = writeLine(console, MsgNotResponding)
	} else {
		connected = true
		err = writeLine(console, MsgConnected)
	}
	if err != nil {
		return connected, err
	}

	if err := writeLine(console, MsgCalibrating); err != nil {
		return connected, err
	}
	select {
	case <-ctx.Done():
		return connected, ctx.Err()
	case <-time.After(time.Duration(cfg.CalibrationSettle) * time.Millisecond):
	}
	calibrate(dev, cfg, logger)
	if err := writeLine(console, MsgDone); err != nil {
		return connected, err
	}

	apply := func(what string, err error) {
		if err != nil {
			logger.WithError(err).Warnf("set %s", what)
			return
		}
		logger.Debugf("%s set", what)
	}

	if cfg.IMUGyroDLPFEnabled {
		apply("gyro DLPF enable", dev.EnableGyrDLPF())
	} else {
		apply("gyro DLPF bypass ("+cfg.IMUGyroBWWithoutDLPF.String()+")", dev.DisableGyrDLPF(cfg.IMUGyroBWWithoutDLPF))
	}
	apply(fmt.Sprintf("gyro DLPF %d", cfg.IMUGyroDLPF), dev.SetGyrDLPF(cfg.IMUGyroDLPF))
	apply(fmt.Sprintf("sample rate divider %d", cfg.IMUSampleRateDiv), dev.SetSampleRateDivider(cfg.IMUSampleRateDiv))
	apply("gyro range "+cfg.IMUGyroRange.String(), dev.SetGyrRange(cfg.IMUGyroRange))
	apply("accel range "+cfg.IMUAccelRange.String(), dev.SetAccRange(cfg.IMUAccelRange))
	apply(fmt.Sprintf("accel DLPF enabled=%v", cfg.IMUAccelDLPFEnabled), dev.EnableAccDLPF(cfg.IMUAccelDLPFEnabled))
	apply(fmt.Sprintf("accel DLPF %d", cfg.IMUAccelDLPF), dev.SetAccDLPF(cfg.IMUAccelDLPF))
	apply("accel axes "+cfg.IMUAccelAxes.String(), dev.EnableAccAxes(cfg.IMUAccelAxes))
	apply("gyro axes "+cfg.IMUGyroAxes.String(), dev.EnableGyrAxes(cfg.IMUGyroAxes))

	if rate, err := dev.SampleRate(); err != nil {
		logger.WithError(err).Warn("read back sample rate")
	} else {
		logger.Infof("configured: gyro %s, accel %s, output rate %s",
			cfg.IMUGyroRange, cfg.IMUAccelRange, rate)
	}
	return connected, nil
}

func calibrate(dev *mpu6500.Dev, cfg *config.Config, logger *log.Entry) {
	switch cfg.IMUCalibration {
	case config.CalibrationAuto:
		if err := dev.AutoOffsets(); err != nil {
			logger.WithError(err).Warn("auto offsets failed")
			return
		}
	case config.CalibrationManual:
		if cfg.HaveIMUAccOffset {
			o := cfg.IMUAccOffsets
			dev.SetAccOffsets(o[0], o[1], o[2], o[3], o[4], o[5])
		}
		if cfg.HaveIMUGyrOffset {
			o := cfg.IMUGyrOffsets
			dev.SetGyrOffsets(o[0], o[1], o[2])
		}
	default:
		logger.Info("calibration skipped")
		return
	}
	acc, gyr := dev.Offsets()
	logger.Infof("offsets: accel %.1f %.1f %.1f, gyro %.1f %.1f %.1f",
		acc.X, acc.Y, acc.Z, gyr.X, gyr.Y, gyr.Z)
}

func writeLine(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s+"\n"); err != nil {
		return fmt.Errorf("console write: %w", err)
	}
	return nil
}

type imuSource struct {
	dev *mpu6500.Dev
	now func() time.Time
}

// NewIMUSource returns an imu.Source reading dev in single bursts.
func NewIMUSource(dev *mpu6500.Dev) imu.Source {
	return &imuSource{dev: dev, now: time.Now}
}

// Next reads one coherent sample from the device.
func (s *imuSource) Next() (imu.Reading, error) {
	var smp mpu6500.Sample
	if err := s.dev.Sense(&smp); err != nil {
		return imu.Reading{}, fmt.Errorf("%s: %w", s.dev, err)
	}
	return imu.FromSample(smp, s.now()), nil
}
