// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mpu6500

import (
	"fmt"
	"time"
)

// AutoOffsets measures accelerometer and gyro offsets with the device lying
// flat (x,y plane level, z up) and still. It leaves the device at DLPF 6,
// ±250°/s and ±2g, overwriting any earlier configuration, so call it before
// applying the final settings.
func (d *Dev) AutoOffsets() error {
	d.accOffset = Vector{}
	d.gyrOffset = Vector{}

	if err := d.EnableGyrDLPF(); err != nil {
		return fmt.Errorf("mpu6500: auto offsets: %w", err)
	}
	if err := d.SetGyrDLPF(DLPF6); err != nil {
		return fmt.Errorf("mpu6500: auto offsets: %w", err)
	}
	if err := d.SetGyrRange(GyrRange250); err != nil {
		return fmt.Errorf("mpu6500: auto offsets: %w", err)
	}
	if err := d.SetAccRange(AccRange2G); err != nil {
		return fmt.Errorf("mpu6500: auto offsets: %w", err)
	}
	if err := d.EnableAccDLPF(true); err != nil {
		return fmt.Errorf("mpu6500: auto offsets: %w", err)
	}
	if err := d.SetAccDLPF(DLPF6); err != nil {
		return fmt.Errorf("mpu6500: auto offsets: %w", err)
	}
	sleep(100 * time.Millisecond)

	// Let the filters settle.
	for i := 0; i < offsetDiscardSamples; i++ {
		if _, err := d.AccRawValues(); err != nil {
			return fmt.Errorf("mpu6500: auto offsets: %w", err)
		}
		if _, err := d.GyrRawValues(); err != nil {
			return fmt.Errorf("mpu6500: auto offsets: %w", err)
		}
		sleep(time.Millisecond)
	}

	var acc, gyr Vector
	for i := 0; i < offsetSamples; i++ {
		a, err := d.AccRawValues()
		if err != nil {
			return fmt.Errorf("mpu6500: auto offsets: %w", err)
		}
		g, err := d.GyrRawValues()
		if err != nil {
			return fmt.Errorf("mpu6500: auto offsets: %w", err)
		}
		acc = acc.add(a)
		gyr = gyr.add(g)
		sleep(time.Millisecond)
	}

	d.accOffset = acc.div(offsetSamples)
	d.accOffset.Z -= accCountsPerG
	d.gyrOffset = gyr.div(offsetSamples)
	return nil
}

// SetAccOffsets sets accelerometer offsets from the minimum and maximum raw
// values of each axis, measured at ±2g. Use either this or AutoOffsets.
func (d *Dev) SetAccOffsets(xMin, xMax, yMin, yMax, zMin, zMax float64) {
	d.accOffset = Vector{
		X: (xMax + xMin) * 0.5,
		Y: (yMax + yMin) * 0.5,
		Z: (zMax + zMin) * 0.5,
	}
}

// SetGyrOffsets sets gyro offsets as raw values measured at ±250°/s while
// still. Use either this or AutoOffsets.
func (d *Dev) SetGyrOffsets(x, y, z float64) {
	d.gyrOffset = Vector{X: x, Y: y, Z: z}
}

// Offsets returns the accelerometer (±2g counts) and gyro (±250°/s counts)
// offsets in use.
func (d *Dev) Offsets() (acc, gyr Vector) {
	return d.accOffset, d.gyrOffset
}

func (v Vector) add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vector) div(n float64) Vector { return Vector{v.X / n, v.Y / n, v.Z / n} }
