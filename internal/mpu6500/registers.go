// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mpu6500

// Register addresses (RM-MPU-6500A).
const (
	RegSmplrtDiv    = 0x19
	RegConfig       = 0x1A
	RegGyroConfig   = 0x1B
	RegAccelConfig  = 0x1C
	RegAccelConfig2 = 0x1D
	RegLPAccelODR   = 0x1E
	RegIntPinCfg    = 0x37
	RegIntEnable    = 0x38
	RegIntStatus    = 0x3A
	RegAccelXOutH   = 0x3B
	RegTempOutH     = 0x41
	RegGyroXOutH    = 0x43
	RegUserCtrl     = 0x6A
	RegPwrMgmt1     = 0x6B
	RegPwrMgmt2     = 0x6C
	RegWhoAmI       = 0x75
	RegXAOffsetH    = 0x77
	RegYAOffsetH    = 0x7A
	RegZAOffsetH    = 0x7D
)

// Bit fields.
const (
	pwr1Reset     = 0x80
	pwr1Sleep     = 0x40
	intBypassEn   = 0x02
	fsSelMask     = 0x18
	fchoiceBMask  = 0x03
	dlpfCfgMask   = 0x07
	accFchoiceB   = 0x08
	accAxesMask   = 0x38
	gyrAxesMask   = 0x07
	accAxesShift  = 3
	fsSelShift    = 3
	burstDataSize = 14
)

const (
	// WhoAmIValue is the WHO_AM_I response of an MPU-6500.
	WhoAmIValue = 0x70

	// DefaultAddress is the bus address with AD0 pulled low.
	DefaultAddress uint16 = 0x68
	// AlternateAddress is the bus address with AD0 pulled high.
	AlternateAddress uint16 = 0x69

	accCountsPerG   = 16384.0
	gyrCountsFactor = 250.0 / 32768.0
	tempSensitivity = 333.87
	roomTempOffset  = 0.0
	tempAt0         = 21.0
)
