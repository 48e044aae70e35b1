// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mpu6500

import (
	"errors"
	"math"
	"testing"
	"time"

	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestInitSequence(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x68, W: []byte{RegPwrMgmt1, 0x80}},
			{Addr: 0x68, W: []byte{RegIntPinCfg, 0x02}},
			{Addr: 0x68, W: []byte{RegWhoAmI}, R: []byte{0x70}},
			{Addr: 0x68, W: []byte{RegPwrMgmt1}, R: []byte{0x41}},
			{Addr: 0x68, W: []byte{RegPwrMgmt1, 0x01}},
		},
		DontPanic: true,
	}
	d := New(bus, DefaultAddress)
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

// countingBus counts transactions so tests can see where delays fall.
type countingBus struct {
	*i2ctest.Playback
	n int
}

func (b *countingBus) Tx(addr uint16, w, r []byte) error {
	b.n++
	return b.Playback.Tx(addr, w, r)
}

func TestInitSettleDelays(t *testing.T) {
	bus := &countingBus{Playback: &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x68, W: []byte{RegPwrMgmt1, 0x80}},
			{Addr: 0x68, W: []byte{RegIntPinCfg, 0x02}},
			{Addr: 0x68, W: []byte{RegWhoAmI}, R: []byte{0x70}},
			{Addr: 0x68, W: []byte{RegPwrMgmt1}, R: []byte{0x41}},
			{Addr: 0x68, W: []byte{RegPwrMgmt1, 0x01}},
		},
		DontPanic: true,
	}}

	type delay struct {
		d       time.Duration
		afterTx int
	}
	var got []delay
	orig := sleep
	sleep = func(d time.Duration) { got = append(got, delay{d, bus.n}) }
	t.Cleanup(func() { sleep = orig })

	if err := New(bus, DefaultAddress).Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	// 10ms after the reset and 10ms after enabling bypass, before WHO_AM_I.
	want := []delay{{10 * time.Millisecond, 1}, {10 * time.Millisecond, 2}}
	if len(got) != len(want) {
		t.Fatalf("delays = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("delay %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestInitWrongDevice(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x68, W: []byte{RegPwrMgmt1, 0x80}},
			{Addr: 0x68, W: []byte{RegIntPinCfg, 0x02}},
			{Addr: 0x68, W: []byte{RegWhoAmI}, R: []byte{0x71}},
		},
		DontPanic: true,
	}
	err := New(bus, DefaultAddress).Init()
	if !errors.Is(err, ErrWrongDevice) {
		t.Fatalf("Init error = %v, want ErrWrongDevice", err)
	}
}

func TestInitNoDevice(t *testing.T) {
	bus := &i2ctest.Playback{DontPanic: true}
	err := New(bus, DefaultAddress).Init()
	if !errors.Is(err, ErrNotResponding) {
		t.Fatalf("Init error = %v, want ErrNotResponding", err)
	}
}

func TestRegisterUpdates(t *testing.T) {
	tests := []struct {
		name string
		ops  []i2ctest.IO
		run  func(d *Dev) error
	}{
		{
			name: "gyro range keeps self-test and fchoice bits",
			ops: []i2ctest.IO{
				{Addr: 0x68, W: []byte{RegGyroConfig}, R: []byte{0xE1}},
				{Addr: 0x68, W: []byte{RegGyroConfig, 0xF1}},
			},
			run: func(d *Dev) error { return d.SetGyrRange(GyrRange1000) },
		},
		{
			name: "accel range",
			ops: []i2ctest.IO{
				{Addr: 0x68, W: []byte{RegAccelConfig}, R: []byte{0x18}},
				{Addr: 0x68, W: []byte{RegAccelConfig, 0x08}},
			},
			run: func(d *Dev) error { return d.SetAccRange(AccRange4G) },
		},
		{
			name: "disable gyro DLPF",
			ops: []i2ctest.IO{
				{Addr: 0x68, W: []byte{RegGyroConfig}, R: []byte{0x00}},
				{Addr: 0x68, W: []byte{RegGyroConfig, 0x01}},
			},
			run: func(d *Dev) error { return d.DisableGyrDLPF(GyrBW8800) },
		},
		{
			name: "enable gyro DLPF",
			ops: []i2ctest.IO{
				{Addr: 0x68, W: []byte{RegGyroConfig}, R: []byte{0x1A}},
				{Addr: 0x68, W: []byte{RegGyroConfig, 0x18}},
			},
			run: func(d *Dev) error { return d.EnableGyrDLPF() },
		},
		{
			name: "gyro DLPF level",
			ops: []i2ctest.IO{
				{Addr: 0x68, W: []byte{RegConfig}, R: []byte{0x41}},
				{Addr: 0x68, W: []byte{RegConfig, 0x46}},
			},
			run: func(d *Dev) error { return d.SetGyrDLPF(DLPF6) },
		},
		{
			name: "sample rate divider",
			ops: []i2ctest.IO{
				{Addr: 0x68, W: []byte{RegSmplrtDiv, 5}},
			},
			run: func(d *Dev) error { return d.SetSampleRateDivider(5) },
		},
		{
			name: "bypass accel DLPF",
			ops: []i2ctest.IO{
				{Addr: 0x68, W: []byte{RegAccelConfig2}, R: []byte{0x06}},
				{Addr: 0x68, W: []byte{RegAccelConfig2, 0x0E}},
			},
			run: func(d *Dev) error { return d.EnableAccDLPF(false) },
		},
		{
			name: "accel DLPF level",
			ops: []i2ctest.IO{
				{Addr: 0x68, W: []byte{RegAccelConfig2}, R: []byte{0x08}},
				{Addr: 0x68, W: []byte{RegAccelConfig2, 0x0E}},
			},
			run: func(d *Dev) error { return d.SetAccDLPF(DLPF6) },
		},
		{
			name: "accel axes",
			ops: []i2ctest.IO{
				{Addr: 0x68, W: []byte{RegPwrMgmt2}, R: []byte{0x07}},
				{Addr: 0x68, W: []byte{RegPwrMgmt2, 0x0F}},
			},
			run: func(d *Dev) error { return d.EnableAccAxes(EnableXY0) },
		},
		{
			name: "gyro axes",
			ops: []i2ctest.IO{
				{Addr: 0x68, W: []byte{RegPwrMgmt2}, R: []byte{0x38}},
				{Addr: 0x68, W: []byte{RegPwrMgmt2, 0x3C}},
			},
			run: func(d *Dev) error { return d.EnableGyrAxes(Enable0YZ) },
		},
		{
			name: "sleep",
			ops: []i2ctest.IO{
				{Addr: 0x68, W: []byte{RegPwrMgmt1}, R: []byte{0x01}},
				{Addr: 0x68, W: []byte{RegPwrMgmt1, 0x41}},
			},
			run: func(d *Dev) error { return d.Halt() },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &i2ctest.Playback{Ops: tt.ops, DontPanic: true}
			if err := tt.run(New(bus, DefaultAddress)); err != nil {
				t.Fatal(err)
			}
			if err := bus.Close(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestInvalidArguments(t *testing.T) {
	d := New(&i2ctest.Playback{DontPanic: true}, DefaultAddress)
	if err := d.SetGyrRange(4); err == nil {
		t.Error("SetGyrRange(4) succeeded")
	}
	if err := d.SetAccRange(4); err == nil {
		t.Error("SetAccRange(4) succeeded")
	}
	if err := d.SetGyrDLPF(8); err == nil {
		t.Error("SetGyrDLPF(8) succeeded")
	}
	if err := d.SetAccDLPF(8); err == nil {
		t.Error("SetAccDLPF(8) succeeded")
	}
	if err := d.DisableGyrDLPF(0); err == nil {
		t.Error("DisableGyrDLPF(0) succeeded")
	}
	if err := d.EnableAccAxes(8); err == nil {
		t.Error("EnableAccAxes(8) succeeded")
	}
}

func TestGValuesScaling(t *testing.T) {
	// +1g on Z at ±2g, then -1g on X at ±8g.
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x68, W: []byte{RegAccelXOutH}, R: []byte{0x00, 0x00, 0x00, 0x00, 0x40, 0x00}},
			{Addr: 0x68, W: []byte{RegAccelConfig}, R: []byte{0x00}},
			{Addr: 0x68, W: []byte{RegAccelConfig, 0x10}},
			{Addr: 0x68, W: []byte{RegAccelXOutH}, R: []byte{0xF0, 0x00, 0x00, 0x00, 0x00, 0x00}},
		},
		DontPanic: true,
	}
	d := New(bus, DefaultAddress)
	g, err := d.GValues()
	if err != nil {
		t.Fatal(err)
	}
	if g != (Vector{Z: 1}) {
		t.Errorf("GValues at ±2g = %+v, want {0 0 1}", g)
	}
	if err := d.SetAccRange(AccRange8G); err != nil {
		t.Fatal(err)
	}
	if g, err = d.GValues(); err != nil {
		t.Fatal(err)
	}
	if g != (Vector{X: -1}) {
		t.Errorf("GValues at ±8g = %+v, want {-1 0 0}", g)
	}
}

func TestTemperature(t *testing.T) {
	// 0x0538 = 1336 counts above the 21°C reference.
	bus := &i2ctest.Playback{
		Ops:       []i2ctest.IO{{Addr: 0x68, W: []byte{RegTempOutH}, R: []byte{0x05, 0x38}}},
		DontPanic: true,
	}
	got, err := New(bus, DefaultAddress).Temperature()
	if err != nil {
		t.Fatal(err)
	}
	want := 1336/333.87 + 21
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Temperature = %v, want %v", got, want)
	}
}

func TestSetAccOffsets(t *testing.T) {
	d := New(&i2ctest.Playback{DontPanic: true}, DefaultAddress)
	d.SetAccOffsets(-14240.0, 18220.0, -17280.0, 15590.0, -20930.0, 12080.0)
	d.SetGyrOffsets(45.0, 145.0, -105.0)
	acc, gyr := d.Offsets()
	if want := (Vector{X: 1990, Y: -845, Z: -4425}); acc != want {
		t.Errorf("acc offsets = %+v, want %+v", acc, want)
	}
	if want := (Vector{X: 45, Y: 145, Z: -105}); gyr != want {
		t.Errorf("gyr offsets = %+v, want %+v", gyr, want)
	}
}

func TestResultantG(t *testing.T) {
	if got := ResultantG(Vector{X: 0.3, Y: 0.4, Z: 1.2}); math.Abs(got-1.3) > 1e-12 {
		t.Errorf("ResultantG = %v, want 1.3", got)
	}
}

func TestParseAxes(t *testing.T) {
	for i, name := range []string{"XYZ", "xy0", "X0Z", "X00", "0YZ", "0Y0", "00Z", "000"} {
		a, err := ParseAxes(name)
		if err != nil {
			t.Fatalf("ParseAxes(%q): %v", name, err)
		}
		if a != Axes(i) {
			t.Errorf("ParseAxes(%q) = %d, want %d", name, a, i)
		}
	}
	if _, err := ParseAxes("XZ"); err == nil {
		t.Error("ParseAxes(\"XZ\") succeeded")
	}
}

func TestRangeStrings(t *testing.T) {
	if s := AccRange16G.String(); s != "±16g" {
		t.Errorf("AccRange16G = %q", s)
	}
	if s := GyrRange500.String(); s != "±500°/s" {
		t.Errorf("GyrRange500 = %q", s)
	}
}
