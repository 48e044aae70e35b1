// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

import (
	"time"

	"github.com/relabs-tech/mpu6500_console/internal/mpu6500"
)

// Reading is one poll of the IMU, in physical units.
type Reading struct {
	Time time.Time

	Accel       mpu6500.Vector // g
	Gyro        mpu6500.Vector // °/s
	Temperature float64        // °C
	ResultantG  float64        // |accel| in g
}

// Source is anything that can provide readings over time.
type Source interface {
	Next() (Reading, error)
}

// FromSample builds a Reading from a driver sample taken at t.
func FromSample(s mpu6500.Sample, t time.Time) Reading {
	return Reading{
		Time:        t,
		Accel:       s.Accel,
		Gyro:        s.Gyro,
		Temperature: s.Temperature,
		ResultantG:  mpu6500.ResultantG(s.Accel),
	}
}
