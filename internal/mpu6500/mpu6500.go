// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package mpu6500 drives an InvenSense MPU-6500 accelerometer, gyroscope and
// temperature sensor over I²C.
//
// Readings are corrected by software offsets measured with AutoOffsets or
// supplied with SetAccOffsets / SetGyrOffsets. Offsets are kept in raw counts
// of the ±2g and ±250°/s ranges and rescaled when the range changes.
//
// Datasheets:
// https://invensense.tdk.com/wp-content/uploads/2015/02/PS-MPU-6500A-01-v1.3.pdf
// https://invensense.tdk.com/wp-content/uploads/2015/02/MPU-6500-Register-Map2.pdf
package mpu6500

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

var (
	// ErrNotResponding is returned by Init when the device does not answer
	// on the bus.
	ErrNotResponding = errors.New("mpu6500: device does not respond")
	// ErrWrongDevice is returned by Init when WHO_AM_I is not an MPU-6500.
	ErrWrongDevice = errors.New("mpu6500: unexpected WHO_AM_I")
)

// sleep is swapped in tests.
var sleep = time.Sleep

const (
	offsetDiscardSamples = 50
	offsetSamples        = 50
)

// Dev is a handle to an MPU-6500 on an I²C bus.
type Dev struct {
	c i2c.Dev

	accOffset      Vector // raw counts, ±2g
	gyrOffset      Vector // raw counts, ±250°/s
	accRangeFactor float64
	gyrRangeFactor float64
}

// New returns a handle to the device at addr. It does not touch the bus;
// call Init before use.
func New(bus i2c.Bus, addr uint16) *Dev {
	return &Dev{
		c:              i2c.Dev{Bus: bus, Addr: addr},
		accRangeFactor: 1,
		gyrRangeFactor: 1,
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("MPU6500{%s}", &d.c)
}

// Init resets the device, enables the I²C bypass, checks WHO_AM_I and wakes
// the device up. Software offsets and range factors are cleared.
func (d *Dev) Init() error {
	if err := d.Reset(); err != nil {
		return fmt.Errorf("%w: %v", ErrNotResponding, err)
	}
	sleep(10 * time.Millisecond)
	if err := d.writeReg(RegIntPinCfg, intBypassEn); err != nil {
		return fmt.Errorf("%w: %v", ErrNotResponding, err)
	}
	sleep(10 * time.Millisecond)
	id, err := d.WhoAmI()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotResponding, err)
	}
	if id != WhoAmIValue {
		return fmt.Errorf("%w: got 0x%02X, want 0x%02X", ErrWrongDevice, id, WhoAmIValue)
	}
	d.accOffset = Vector{}
	d.gyrOffset = Vector{}
	d.accRangeFactor = 1
	d.gyrRangeFactor = 1
	return d.Sleep(false)
}

// WhoAmI reads the identification register.
func (d *Dev) WhoAmI() (byte, error) {
	return d.readReg(RegWhoAmI)
}

// Reset triggers a device reset. All registers return to their defaults.
func (d *Dev) Reset() error {
	return d.writeReg(RegPwrMgmt1, pwr1Reset)
}

// Sleep puts the device to sleep or wakes it up.
func (d *Dev) Sleep(on bool) error {
	var v byte
	if on {
		v = pwr1Sleep
	}
	return d.updateReg(RegPwrMgmt1, pwr1Sleep, v)
}

// Halt puts the device to sleep.
func (d *Dev) Halt() error {
	return d.Sleep(true)
}

// EnableGyrDLPF routes the gyro through its digital low pass filter.
func (d *Dev) EnableGyrDLPF() error {
	return d.updateReg(RegGyroConfig, fchoiceBMask, 0)
}

// DisableGyrDLPF bypasses the gyro low pass filter with the given bandwidth.
func (d *Dev) DisableGyrDLPF(bw GyroBandwidth) error {
	if bw != GyrBW8800 && bw != GyrBW3600 {
		return fmt.Errorf("mpu6500: invalid gyro bandwidth %d", bw)
	}
	return d.updateReg(RegGyroConfig, fchoiceBMask, byte(bw))
}

// SetGyrDLPF selects the gyro (and temperature) filter level. It only takes
// effect while the gyro DLPF is enabled.
func (d *Dev) SetGyrDLPF(level DLPF) error {
	if level > DLPF7 {
		return fmt.Errorf("mpu6500: invalid gyro DLPF %d", level)
	}
	return d.updateReg(RegConfig, dlpfCfgMask, byte(level))
}

// SetSampleRateDivider sets SMPLRT_DIV. Output rate = 1kHz / (1 + div); it
// applies only while the gyro DLPF is enabled with a level in 1..6.
func (d *Dev) SetSampleRateDivider(div uint8) error {
	return d.writeReg(RegSmplrtDiv, div)
}

// SetGyrRange selects the gyro full scale.
func (d *Dev) SetGyrRange(r GyroRange) error {
	if r > GyrRange2000 {
		return fmt.Errorf("mpu6500: invalid gyro range %d", r)
	}
	if err := d.updateReg(RegGyroConfig, fsSelMask, byte(r)<<fsSelShift); err != nil {
		return err
	}
	d.gyrRangeFactor = float64(int(1) << r)
	return nil
}

// SetAccRange selects the accelerometer full scale.
func (d *Dev) SetAccRange(r AccelRange) error {
	if r > AccRange16G {
		return fmt.Errorf("mpu6500: invalid accel range %d", r)
	}
	if err := d.updateReg(RegAccelConfig, fsSelMask, byte(r)<<fsSelShift); err != nil {
		return err
	}
	d.accRangeFactor = float64(int(1) << r)
	return nil
}

// EnableAccDLPF enables or bypasses the accelerometer low pass filter. When
// bypassed the bandwidth is 1.13kHz at a 4kHz output rate.
func (d *Dev) EnableAccDLPF(on bool) error {
	var v byte
	if !on {
		v = accFchoiceB
	}
	return d.updateReg(RegAccelConfig2, accFchoiceB, v)
}

// SetAccDLPF selects the accelerometer filter level.
func (d *Dev) SetAccDLPF(level DLPF) error {
	if level > DLPF7 {
		return fmt.Errorf("mpu6500: invalid accel DLPF %d", level)
	}
	return d.updateReg(RegAccelConfig2, dlpfCfgMask, byte(level))
}

// EnableAccAxes enables the accelerometer axes named by a.
func (d *Dev) EnableAccAxes(a Axes) error {
	if a > Enable000 {
		return fmt.Errorf("mpu6500: invalid axes %d", a)
	}
	return d.updateReg(RegPwrMgmt2, accAxesMask, byte(a)<<accAxesShift)
}

// EnableGyrAxes enables the gyro axes named by a.
func (d *Dev) EnableGyrAxes(a Axes) error {
	if a > Enable000 {
		return fmt.Errorf("mpu6500: invalid axes %d", a)
	}
	return d.updateReg(RegPwrMgmt2, gyrAxesMask, byte(a))
}

// SampleRate returns the output data rate implied by the current filter and
// divider settings.
func (d *Dev) SampleRate() (physic.Frequency, error) {
	gc, err := d.readReg(RegGyroConfig)
	if err != nil {
		return 0, err
	}
	if gc&fchoiceBMask != 0 {
		return 32 * physic.KiloHertz, nil
	}
	cfg, err := d.readReg(RegConfig)
	if err != nil {
		return 0, err
	}
	if level := DLPF(cfg & dlpfCfgMask); level == DLPF0 || level == DLPF7 {
		return 8 * physic.KiloHertz, nil
	}
	div, err := d.readReg(RegSmplrtDiv)
	if err != nil {
		return 0, err
	}
	return physic.KiloHertz / physic.Frequency(1+int64(div)), nil
}

// AccRawValues returns the raw accelerometer counts.
func (d *Dev) AccRawValues() (Vector, error) {
	return d.readVector(RegAccelXOutH)
}

// GyrRawValues returns the raw gyro counts.
func (d *Dev) GyrRawValues() (Vector, error) {
	return d.readVector(RegGyroXOutH)
}

// CorrectedAccRawValues returns raw accelerometer counts minus the offset,
// scaled to the current range.
func (d *Dev) CorrectedAccRawValues() (Vector, error) {
	v, err := d.AccRawValues()
	if err != nil {
		return Vector{}, err
	}
	return d.correctAcc(v), nil
}

// CorrectedGyrRawValues returns raw gyro counts minus the offset, scaled to
// the current range.
func (d *Dev) CorrectedGyrRawValues() (Vector, error) {
	v, err := d.GyrRawValues()
	if err != nil {
		return Vector{}, err
	}
	return d.correctGyr(v), nil
}

// GValues returns the corrected acceleration in g.
func (d *Dev) GValues() (Vector, error) {
	v, err := d.AccRawValues()
	if err != nil {
		return Vector{}, err
	}
	return d.accToG(v), nil
}

// GyrValues returns the corrected angular rate in degrees per second.
func (d *Dev) GyrValues() (Vector, error) {
	v, err := d.GyrRawValues()
	if err != nil {
		return Vector{}, err
	}
	return d.gyrToDPS(v), nil
}

// Temperature returns the die temperature in °C.
func (d *Dev) Temperature() (float64, error) {
	var b [2]byte
	if err := d.c.Tx([]byte{RegTempOutH}, b[:]); err != nil {
		return 0, fmt.Errorf("mpu6500: read temperature: %w", err)
	}
	return tempToC(int16(binary.BigEndian.Uint16(b[:]))), nil
}

// Sense reads acceleration, temperature and angular rate in one burst so all
// three belong to the same sampling instant.
func (d *Dev) Sense(s *Sample) error {
	var b [burstDataSize]byte
	if err := d.c.Tx([]byte{RegAccelXOutH}, b[:]); err != nil {
		return fmt.Errorf("mpu6500: read data: %w", err)
	}
	s.Accel = d.accToG(vectorFrom(b[0:6]))
	s.Temperature = tempToC(int16(binary.BigEndian.Uint16(b[6:8])))
	s.Gyro = d.gyrToDPS(vectorFrom(b[8:14]))
	return nil
}

// ReadRegister reads one register.
func (d *Dev) ReadRegister(reg byte) (byte, error) {
	return d.readReg(reg)
}

// WriteRegister writes one register. Range factors tracked by the driver are
// not updated.
func (d *Dev) WriteRegister(reg, v byte) error {
	return d.writeReg(reg, v)
}

func (d *Dev) accToG(raw Vector) Vector {
	return d.correctAcc(raw).scale(d.accRangeFactor / accCountsPerG)
}

func (d *Dev) gyrToDPS(raw Vector) Vector {
	return d.correctGyr(raw).scale(d.gyrRangeFactor * gyrCountsFactor)
}

func (d *Dev) correctAcc(raw Vector) Vector {
	return raw.sub(d.accOffset.scale(1 / d.accRangeFactor))
}

func (d *Dev) correctGyr(raw Vector) Vector {
	return raw.sub(d.gyrOffset.scale(1 / d.gyrRangeFactor))
}

func tempToC(raw int16) float64 {
	return (float64(raw)-roomTempOffset)/tempSensitivity + tempAt0
}

func vectorFrom(b []byte) Vector {
	return Vector{
		X: float64(int16(binary.BigEndian.Uint16(b[0:2]))),
		Y: float64(int16(binary.BigEndian.Uint16(b[2:4]))),
		Z: float64(int16(binary.BigEndian.Uint16(b[4:6]))),
	}
}

func (d *Dev) readVector(reg byte) (Vector, error) {
	var b [6]byte
	if err := d.c.Tx([]byte{reg}, b[:]); err != nil {
		return Vector{}, fmt.Errorf("mpu6500: read 0x%02X: %w", reg, err)
	}
	return vectorFrom(b[:]), nil
}

func (d *Dev) readReg(reg byte) (byte, error) {
	var b [1]byte
	if err := d.c.Tx([]byte{reg}, b[:]); err != nil {
		return 0, fmt.Errorf("mpu6500: read 0x%02X: %w", reg, err)
	}
	return b[0], nil
}

func (d *Dev) writeReg(reg, v byte) error {
	if err := d.c.Tx([]byte{reg, v}, nil); err != nil {
		return fmt.Errorf("mpu6500: write 0x%02X: %w", reg, err)
	}
	return nil
}

// updateReg replaces the bits of reg selected by mask with v.
func (d *Dev) updateReg(reg, mask, v byte) error {
	old, err := d.readReg(reg)
	if err != nil {
		return err
	}
	return d.writeReg(reg, old&^mask|v&mask)
}
