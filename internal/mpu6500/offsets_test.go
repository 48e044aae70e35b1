// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mpu6500_test

import (
	"errors"
	"math"
	"testing"

	"github.com/relabs-tech/mpu6500_console/internal/mpu6500"
	"github.com/relabs-tech/mpu6500_console/internal/sim"
	"periph.io/x/conn/v3/physic"
)

const eps = 1e-9

func near(a, b mpu6500.Vector, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func newBiasedDevice(t *testing.T) (*mpu6500.Dev, *sim.Bus) {
	t.Helper()
	bus := sim.New(mpu6500.DefaultAddress, sim.Flat)
	bus.AccBias = mpu6500.Vector{X: 312, Y: -96, Z: 520}
	bus.GyrBias = mpu6500.Vector{X: 44, Y: 146, Z: -104}
	d := mpu6500.New(bus, mpu6500.DefaultAddress)
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return d, bus
}

func TestAutoOffsets(t *testing.T) {
	d, bus := newBiasedDevice(t)

	g, err := d.GValues()
	if err != nil {
		t.Fatal(err)
	}
	if near(g, mpu6500.Vector{Z: 1}, 0.01) {
		t.Fatalf("uncalibrated GValues %+v already flat; bias not applied", g)
	}

	if err := d.AutoOffsets(); err != nil {
		t.Fatalf("AutoOffsets: %v", err)
	}
	acc, gyr := d.Offsets()
	if !near(acc, bus.AccBias, eps) {
		t.Errorf("acc offsets = %+v, want %+v", acc, bus.AccBias)
	}
	if !near(gyr, bus.GyrBias, eps) {
		t.Errorf("gyr offsets = %+v, want %+v", gyr, bus.GyrBias)
	}

	if g, err = d.GValues(); err != nil {
		t.Fatal(err)
	}
	if !near(g, mpu6500.Vector{Z: 1}, eps) {
		t.Errorf("GValues = %+v, want {0 0 1}", g)
	}
	r, err := d.GyrValues()
	if err != nil {
		t.Fatal(err)
	}
	if !near(r, mpu6500.Vector{}, eps) {
		t.Errorf("GyrValues = %+v, want zero", r)
	}

	// AutoOffsets leaves the lowest-noise configuration behind.
	if v := bus.Register(mpu6500.RegConfig) & 0x07; v != 6 {
		t.Errorf("CONFIG DLPF = %d, want 6", v)
	}
	if v := bus.Register(mpu6500.RegAccelConfig2); v != 0x06 {
		t.Errorf("ACCEL_CONFIG2 = 0x%02X, want 0x06", v)
	}
}

func TestOffsetsSurviveRangeChange(t *testing.T) {
	d, _ := newBiasedDevice(t)
	if err := d.AutoOffsets(); err != nil {
		t.Fatal(err)
	}
	if err := d.SetAccRange(mpu6500.AccRange4G); err != nil {
		t.Fatal(err)
	}
	if err := d.SetGyrRange(mpu6500.GyrRange500); err != nil {
		t.Fatal(err)
	}
	var s mpu6500.Sample
	if err := d.Sense(&s); err != nil {
		t.Fatal(err)
	}
	// Raw values are rounded to the coarser resolution.
	if !near(s.Accel, mpu6500.Vector{Z: 1}, 1e-3) {
		t.Errorf("Accel = %+v, want {0 0 1}", s.Accel)
	}
	if !near(s.Gyro, mpu6500.Vector{}, 0.02) {
		t.Errorf("Gyro = %+v, want zero", s.Gyro)
	}
	if math.Abs(s.Temperature-25) > 0.01 {
		t.Errorf("Temperature = %.3f, want 25", s.Temperature)
	}
	if got := mpu6500.ResultantG(s.Accel); math.Abs(got-1) > 1e-3 {
		t.Errorf("ResultantG = %v, want 1", got)
	}
}

func TestSenseMatchesSingleReads(t *testing.T) {
	d, _ := newBiasedDevice(t)
	if err := d.AutoOffsets(); err != nil {
		t.Fatal(err)
	}
	var s mpu6500.Sample
	if err := d.Sense(&s); err != nil {
		t.Fatal(err)
	}
	g, _ := d.GValues()
	r, _ := d.GyrValues()
	temp, err := d.Temperature()
	if err != nil {
		t.Fatal(err)
	}
	if s.Accel != g || s.Gyro != r || s.Temperature != temp {
		t.Errorf("Sense = %+v, single reads = %+v %+v %v", s, g, r, temp)
	}
}

func TestSampleRate(t *testing.T) {
	tests := []struct {
		name string
		set  func(d *mpu6500.Dev) error
		want physic.Frequency
	}{
		{
			name: "DLPF 6 with divider 5",
			set: func(d *mpu6500.Dev) error {
				if err := d.SetGyrDLPF(mpu6500.DLPF6); err != nil {
					return err
				}
				return d.SetSampleRateDivider(5)
			},
			want: physic.KiloHertz / 6,
		},
		{
			name: "DLPF 7 ignores divider",
			set: func(d *mpu6500.Dev) error {
				if err := d.SetGyrDLPF(mpu6500.DLPF7); err != nil {
					return err
				}
				return d.SetSampleRateDivider(5)
			},
			want: 8 * physic.KiloHertz,
		},
		{
			name: "DLPF bypassed",
			set: func(d *mpu6500.Dev) error {
				return d.DisableGyrDLPF(mpu6500.GyrBW3600)
			},
			want: 32 * physic.KiloHertz,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newBiasedDevice(t)
			if err := tt.set(d); err != nil {
				t.Fatal(err)
			}
			got, err := d.SampleRate()
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("SampleRate = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDisabledAxesReadZero(t *testing.T) {
	d, _ := newBiasedDevice(t)
	if err := d.EnableAccAxes(mpu6500.EnableXY0); err != nil {
		t.Fatal(err)
	}
	raw, err := d.AccRawValues()
	if err != nil {
		t.Fatal(err)
	}
	if raw.Z != 0 {
		t.Errorf("raw Z = %v with Z disabled, want 0", raw.Z)
	}
	if raw.X == 0 {
		t.Errorf("raw X = 0 with X enabled")
	}
}

func TestWrongAddress(t *testing.T) {
	bus := sim.New(mpu6500.AlternateAddress, sim.Flat)
	err := mpu6500.New(bus, mpu6500.DefaultAddress).Init()
	if !errors.Is(err, mpu6500.ErrNotResponding) {
		t.Fatalf("Init error = %v, want ErrNotResponding", err)
	}
}
