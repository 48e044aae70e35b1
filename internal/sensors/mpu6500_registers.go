// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

// BitField describes bits Hi..Lo of a register.
type BitField struct {
	Hi, Lo      uint8
	Name        string
	Description string
	Values      string
}

// Extract returns the field's value within the register value v.
func (f BitField) Extract(v byte) byte {
	width := f.Hi - f.Lo + 1
	return (v >> f.Lo) & byte(1<<width-1)
}

// RegisterInfo holds the metadata of one device register.
type RegisterInfo struct {
	Address     byte
	Name        string
	Description string
	Access      string // "R", "W", "RW"
	Default     byte
	BitFields   []BitField
}

// MPU6500RegisterMap returns metadata for the MPU6500 registers touched by
// bring-up, plus the data and identification registers.
func MPU6500RegisterMap() []RegisterInfo {
	return []RegisterInfo{
		// Configuration Registers
		{Address: 0x19, Name: "SMPLRT_DIV", Description: "Sample Rate Divider", Access: "RW",
			BitFields: []BitField{
				{7, 0, "SMPLRT_DIV", "Sample Rate = Internal_Sample_Rate / (1 + SMPLRT_DIV)", "0-255"},
			}},
		{Address: 0x1A, Name: "CONFIG", Description: "Configuration (gyro DLPF)", Access: "RW",
			BitFields: []BitField{
				{6, 6, "FIFO_MODE", "FIFO mode", "0=Overwrite, 1=Block new data"},
				{5, 3, "EXT_SYNC_SET", "External FSYNC pin sampling", "0=Disabled"},
				{2, 0, "DLPF_CFG", "Gyro Digital Low Pass Filter", "0=250Hz, 1=184Hz, 2=92Hz, 3=41Hz, 4=20Hz, 5=10Hz, 6=5Hz, 7=3600Hz"},
			}},
		{Address: 0x1B, Name: "GYRO_CONFIG", Description: "Gyroscope Configuration", Access: "RW",
			BitFields: []BitField{
				{7, 7, "XG_ST", "X Gyro self-test", "0=Disabled, 1=Enabled"},
				{6, 6, "YG_ST", "Y Gyro self-test", "0=Disabled, 1=Enabled"},
				{5, 5, "ZG_ST", "Z Gyro self-test", "0=Disabled, 1=Enabled"},
				{4, 3, "GYRO_FS_SEL", "Gyro Full Scale Range", "0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s"},
				{1, 0, "FCHOICE_B", "Gyro DLPF bypass", "0=DLPF enabled, 1=8800Hz, 2=3600Hz"},
			}},
		{Address: 0x1C, Name: "ACCEL_CONFIG", Description: "Accelerometer Configuration", Access: "RW",
			BitFields: []BitField{
				{7, 7, "XA_ST", "X Accel self-test", "0=Disabled, 1=Enabled"},
				{6, 6, "YA_ST", "Y Accel self-test", "0=Disabled, 1=Enabled"},
				{5, 5, "ZA_ST", "Z Accel self-test", "0=Disabled, 1=Enabled"},
				{4, 3, "ACCEL_FS_SEL", "Accel Full Scale Range", "0=±2g, 1=±4g, 2=±8g, 3=±16g"},
			}},
		{Address: 0x1D, Name: "ACCEL_CONFIG2", Description: "Accelerometer Configuration 2", Access: "RW",
			BitFields: []BitField{
				{3, 3, "ACCEL_FCHOICE_B", "Accel DLPF bypass", "0=DLPF enabled, 1=Bypass (1.13kHz)"},
				{2, 0, "A_DLPF_CFG", "Accel DLPF Config", "0=460Hz, 1=184Hz, 2=92Hz, 3=41Hz, 4=20Hz, 5=10Hz, 6=5Hz, 7=460Hz"},
			}},
		{Address: 0x1E, Name: "LP_ACCEL_ODR", Description: "Low Power Accelerometer ODR Control", Access: "RW",
			BitFields: []BitField{
				{3, 0, "LPOSC_CLKSEL", "Low Power Accel Output Data Rate", "0=0.24Hz ... 11=500Hz"},
			}},

		// Interrupt Configuration
		{Address: 0x37, Name: "INT_PIN_CFG", Description: "INT Pin / Bypass Enable Configuration", Access: "RW",
			BitFields: []BitField{
				{7, 7, "ACTL", "INT pin active low", "0=Active high, 1=Active low"},
				{6, 6, "OPEN", "INT pin open drain", "0=Push-pull, 1=Open drain"},
				{5, 5, "LATCH_INT_EN", "Latch INT pin", "0=50us pulse, 1=Latch until cleared"},
				{4, 4, "INT_ANYRD_2CLEAR", "Clear INT on any read", "0=Status read only, 1=Any read"},
				{1, 1, "BYPASS_EN", "I2C bypass enable", "0=Disabled, 1=Enabled"},
			}},
		{Address: 0x38, Name: "INT_ENABLE", Description: "Interrupt Enable", Access: "RW",
			BitFields: []BitField{
				{6, 6, "WOM_EN", "Wake on Motion interrupt", "0=Disabled, 1=Enabled"},
				{4, 4, "FIFO_OFLOW_EN", "FIFO overflow interrupt", "0=Disabled, 1=Enabled"},
				{0, 0, "RAW_RDY_EN", "Raw data ready interrupt", "0=Disabled, 1=Enabled"},
			}},
		{Address: 0x3A, Name: "INT_STATUS", Description: "Interrupt Status", Access: "R",
			BitFields: []BitField{
				{6, 6, "WOM_INT", "Wake on Motion interrupt status", ""},
				{4, 4, "FIFO_OFLOW_INT", "FIFO overflow interrupt status", ""},
				{0, 0, "RAW_DATA_RDY_INT", "Raw data ready interrupt status", ""},
			}},

		// Sensor Data Registers (Read-Only)
		{Address: 0x3B, Name: "ACCEL_XOUT_H", Description: "Accelerometer X-Axis High Byte", Access: "R"},
		{Address: 0x3C, Name: "ACCEL_XOUT_L", Description: "Accelerometer X-Axis Low Byte", Access: "R"},
		{Address: 0x3D, Name: "ACCEL_YOUT_H", Description: "Accelerometer Y-Axis High Byte", Access: "R"},
		{Address: 0x3E, Name: "ACCEL_YOUT_L", Description: "Accelerometer Y-Axis Low Byte", Access: "R"},
		{Address: 0x3F, Name: "ACCEL_ZOUT_H", Description: "Accelerometer Z-Axis High Byte", Access: "R"},
		{Address: 0x40, Name: "ACCEL_ZOUT_L", Description: "Accelerometer Z-Axis Low Byte", Access: "R"},
		{Address: 0x41, Name: "TEMP_OUT_H", Description: "Temperature High Byte", Access: "R"},
		{Address: 0x42, Name: "TEMP_OUT_L", Description: "Temperature Low Byte", Access: "R"},
		{Address: 0x43, Name: "GYRO_XOUT_H", Description: "Gyroscope X-Axis High Byte", Access: "R"},
		{Address: 0x44, Name: "GYRO_XOUT_L", Description: "Gyroscope X-Axis Low Byte", Access: "R"},
		{Address: 0x45, Name: "GYRO_YOUT_H", Description: "Gyroscope Y-Axis High Byte", Access: "R"},
		{Address: 0x46, Name: "GYRO_YOUT_L", Description: "Gyroscope Y-Axis Low Byte", Access: "R"},
		{Address: 0x47, Name: "GYRO_ZOUT_H", Description: "Gyroscope Z-Axis High Byte", Access: "R"},
		{Address: 0x48, Name: "GYRO_ZOUT_L", Description: "Gyroscope Z-Axis Low Byte", Access: "R"},

		// Power Management and Control
		{Address: 0x6A, Name: "USER_CTRL", Description: "User Control", Access: "RW",
			BitFields: []BitField{
				{6, 6, "FIFO_EN", "Enable FIFO", "0=Disabled, 1=Enabled"},
				{5, 5, "I2C_MST_EN", "Enable I2C Master", "0=Disabled, 1=Enabled"},
				{4, 4, "I2C_IF_DIS", "Disable I2C Slave", "0=Enabled, 1=Disabled"},
				{2, 2, "FIFO_RST", "Reset FIFO", "1=Reset"},
				{0, 0, "SIG_COND_RST", "Reset signal paths", "1=Reset"},
			}},
		{Address: 0x6B, Name: "PWR_MGMT_1", Description: "Power Management 1", Access: "RW", Default: 0x01,
			BitFields: []BitField{
				{7, 7, "H_RESET", "Device reset", "1=Reset device"},
				{6, 6, "SLEEP", "Sleep mode", "0=Disabled, 1=Sleep"},
				{5, 5, "CYCLE", "Cycle mode", "0=Disabled, 1=Cycle"},
				{3, 3, "TEMP_DIS", "Temperature sensor", "0=Enabled, 1=Disabled"},
				{2, 0, "CLKSEL", "Clock source", "0=Internal 20MHz, 1=Auto select best"},
			}},
		{Address: 0x6C, Name: "PWR_MGMT_2", Description: "Power Management 2", Access: "RW",
			BitFields: []BitField{
				{5, 5, "DISABLE_XA", "Disable X accelerometer", "0=Enabled, 1=Disabled"},
				{4, 4, "DISABLE_YA", "Disable Y accelerometer", "0=Enabled, 1=Disabled"},
				{3, 3, "DISABLE_ZA", "Disable Z accelerometer", "0=Enabled, 1=Disabled"},
				{2, 2, "DISABLE_XG", "Disable X gyro", "0=Enabled, 1=Disabled"},
				{1, 1, "DISABLE_YG", "Disable Y gyro", "0=Enabled, 1=Disabled"},
				{0, 0, "DISABLE_ZG", "Disable Z gyro", "0=Enabled, 1=Disabled"},
			}},

		// Device Identification
		{Address: 0x75, Name: "WHO_AM_I", Description: "Device ID (should be 0x70)", Access: "R", Default: 0x70},

		// Accelerometer Offset Trim
		{Address: 0x77, Name: "XA_OFFSET_H", Description: "Accelerometer X-Axis Offset High Byte", Access: "RW"},
		{Address: 0x78, Name: "XA_OFFSET_L", Description: "Accelerometer X-Axis Offset Low Byte", Access: "RW"},
		{Address: 0x7A, Name: "YA_OFFSET_H", Description: "Accelerometer Y-Axis Offset High Byte", Access: "RW"},
		{Address: 0x7B, Name: "YA_OFFSET_L", Description: "Accelerometer Y-Axis Offset Low Byte", Access: "RW"},
		{Address: 0x7D, Name: "ZA_OFFSET_H", Description: "Accelerometer Z-Axis Offset High Byte", Access: "RW"},
		{Address: 0x7E, Name: "ZA_OFFSET_L", Description: "Accelerometer Z-Axis Offset Low Byte", Access: "RW"},
	}
}
