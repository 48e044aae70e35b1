// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mpu6500

import (
	"fmt"
	"math"
	"strings"
)

// AccelRange selects the accelerometer full scale (ACCEL_FS_SEL).
type AccelRange uint8

const (
	AccRange2G AccelRange = iota
	AccRange4G
	AccRange8G
	AccRange16G
)

// G returns the full-scale value in g.
func (r AccelRange) G() int { return 2 << r }

func (r AccelRange) String() string { return fmt.Sprintf("±%dg", r.G()) }

// GyroRange selects the gyroscope full scale (GYRO_FS_SEL).
type GyroRange uint8

const (
	GyrRange250 GyroRange = iota
	GyrRange500
	GyrRange1000
	GyrRange2000
)

// DPS returns the full-scale value in degrees per second.
func (r GyroRange) DPS() int { return 250 << r }

func (r GyroRange) String() string { return fmt.Sprintf("±%d°/s", r.DPS()) }

// DLPF is a digital low pass filter level, shared by the gyro (CONFIG) and
// the accelerometer (ACCEL_CONFIG2).
//
//	level  gyro BW [Hz]  accel BW [Hz]
//	  0        250           460
//	  1        184           184
//	  2         92            92
//	  3         41            41
//	  4         20            20
//	  5         10            10
//	  6          5             5
//	  7       3600           460
type DLPF uint8

const (
	DLPF0 DLPF = iota
	DLPF1
	DLPF2
	DLPF3
	DLPF4
	DLPF5
	DLPF6
	DLPF7
)

// GyroBandwidth is the gyro bandwidth used when its DLPF is bypassed
// (FCHOICE_B). The output rate is 32kHz in both cases.
type GyroBandwidth uint8

const (
	GyrBW8800 GyroBandwidth = 1
	GyrBW3600 GyroBandwidth = 2
)

func (b GyroBandwidth) String() string {
	switch b {
	case GyrBW8800:
		return "8800Hz"
	case GyrBW3600:
		return "3600Hz"
	}
	return fmt.Sprintf("GyroBandwidth(%d)", uint8(b))
}

// Axes is the per-axis disable mask written to PWR_MGMT_2. The names list
// the axes that stay enabled.
type Axes uint8

const (
	EnableXYZ Axes = iota
	EnableXY0
	EnableX0Z
	EnableX00
	Enable0YZ
	Enable0Y0
	Enable00Z
	Enable000
)

var axesNames = [...]string{"XYZ", "XY0", "X0Z", "X00", "0YZ", "0Y0", "00Z", "000"}

func (a Axes) String() string {
	if int(a) < len(axesNames) {
		return axesNames[a]
	}
	return fmt.Sprintf("Axes(%d)", uint8(a))
}

// ParseAxes parses names such as "XYZ" or "X0Z".
func ParseAxes(s string) (Axes, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, n := range axesNames {
		if n == s {
			return Axes(i), nil
		}
	}
	return 0, fmt.Errorf("mpu6500: invalid axes %q (want one of %s)", s, strings.Join(axesNames[:], ", "))
}

// Vector is a three-axis value.
type Vector struct {
	X, Y, Z float64
}

func (v Vector) sub(o Vector) Vector { return Vector{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vector) scale(f float64) Vector { return Vector{v.X * f, v.Y * f, v.Z * f} }

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// ResultantG returns the magnitude of an acceleration vector in g.
func ResultantG(g Vector) float64 { return g.Norm() }

// Sample is one coherent reading of all sensors.
type Sample struct {
	Accel       Vector  // g
	Gyro        Vector  // °/s
	Temperature float64 // °C
}
