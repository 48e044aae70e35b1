// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"

	"github.com/relabs-tech/mpu6500_console/internal/imu"
	"github.com/relabs-tech/mpu6500_console/internal/mpu6500"
)

// Tilt is the attitude of the board relative to gravity, in degrees.
type Tilt struct {
	Roll  float64
	Pitch float64
}

// TiltFromAccel computes roll and pitch from an accelerometer vector in any
// unit. It is only meaningful while the board is not accelerating.
//
//	roll  = atan2(ay, az)
//	pitch = atan2(-ax, sqrt(ay² + az²))
func TiltFromAccel(a mpu6500.Vector) Tilt {
	rollRad := math.Atan2(a.Y, a.Z)
	pitchRad := math.Atan2(-a.X, math.Sqrt(a.Y*a.Y+a.Z*a.Z))

	return Tilt{
		Roll:  rollRad * 180.0 / math.Pi,
		Pitch: pitchRad * 180.0 / math.Pi,
	}
}

// FromReading is TiltFromAccel applied to a reading's acceleration.
func FromReading(r imu.Reading) Tilt {
	return TiltFromAccel(r.Accel)
}
