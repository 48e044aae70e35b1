// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/relabs-tech/mpu6500_console/internal/mpu6500"
	log "github.com/sirupsen/logrus"
)

// Calibration modes for IMU_CALIBRATION.
const (
	CalibrationAuto   = "auto"
	CalibrationManual = "manual"
	CalibrationNone   = "none"
)

// Config holds all application configuration values.
type Config struct {
	// I2C bus
	I2CBus     string // periph bus name; "" opens the default bus
	IMUI2CAddr uint16

	// Serial console
	SerialPort     string // "" prints to stdout
	SerialBaudRate int

	// Timing
	PollInterval      int // milliseconds
	CalibrationSettle int // milliseconds

	// Calibration
	IMUCalibration string
	// xMin, xMax, yMin, yMax, zMin, zMax raw counts at ±2g
	IMUAccOffsets    [6]float64
	HaveIMUAccOffset bool
	// x, y, z raw counts at ±250°/s
	IMUGyrOffsets    [3]float64
	HaveIMUGyrOffset bool

	// Gyroscope
	IMUGyroDLPFEnabled   bool
	IMUGyroBWWithoutDLPF mpu6500.GyroBandwidth // used when the gyro DLPF is disabled
	IMUGyroDLPF          mpu6500.DLPF
	IMUSampleRateDiv     byte // output rate = internal rate / (1 + div)
	IMUGyroRange         mpu6500.GyroRange
	IMUGyroAxes          mpu6500.Axes

	// Accelerometer
	IMUAccelRange       mpu6500.AccelRange
	IMUAccelDLPFEnabled bool
	IMUAccelDLPF        mpu6500.DLPF
	IMUAccelAxes        mpu6500.Axes

	// SSD1306 panel on the same I2C bus
	DisplayEnabled bool

	LogLevel log.Level
}

// Default returns the bring-up values used when no file overrides them.
func Default() *Config {
	return &Config{
		IMUI2CAddr:           mpu6500.DefaultAddress,
		SerialBaudRate:       115200,
		PollInterval:         1000,
		CalibrationSettle:    1000,
		IMUCalibration:       CalibrationAuto,
		IMUGyroDLPFEnabled:   true,
		IMUGyroBWWithoutDLPF: mpu6500.GyrBW8800,
		IMUGyroDLPF:          mpu6500.DLPF6,
		IMUSampleRateDiv:     5,
		IMUGyroRange:         mpu6500.GyrRange250,
		IMUGyroAxes:          mpu6500.EnableXYZ,
		IMUAccelRange:        mpu6500.AccRange2G,
		IMUAccelDLPFEnabled:  true,
		IMUAccelDLPF:         mpu6500.DLPF6,
		IMUAccelAxes:         mpu6500.EnableXYZ,
		LogLevel:             log.InfoLevel,
	}
}

// Package-level singleton: InitGlobal sets it once, Get reads it.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct. Keys not
// present in the file keep their Default values.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads KEY=VALUE lines from r. Empty lines and lines starting with #
// are ignored.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// I2C bus
	case "I2C_BUS":
		c.I2CBus = value
	case "IMU_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid IMU_I2C_ADDR %q: %w", value, err)
		}
		if addr != uint64(mpu6500.DefaultAddress) && addr != uint64(mpu6500.AlternateAddress) {
			return fmt.Errorf("IMU_I2C_ADDR must be 0x68 or 0x69, got 0x%02X", addr)
		}
		c.IMUI2CAddr = uint16(addr)

	// Serial console
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD_RATE %q: %w", value, err)
		}
		c.SerialBaudRate = rate

	// Timing
	case "POLL_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid POLL_INTERVAL %q: %w", value, err)
		}
		c.PollInterval = interval
	case "CALIBRATION_SETTLE":
		settle, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CALIBRATION_SETTLE %q: %w", value, err)
		}
		c.CalibrationSettle = settle

	// Calibration
	case "IMU_CALIBRATION":
		switch mode := strings.ToLower(value); mode {
		case CalibrationAuto, CalibrationManual, CalibrationNone:
			c.IMUCalibration = mode
		default:
			return fmt.Errorf("IMU_CALIBRATION must be auto, manual or none, got %q", value)
		}
	case "IMU_ACC_OFFSETS":
		vals, err := parseFloats(value, 6)
		if err != nil {
			return fmt.Errorf("invalid IMU_ACC_OFFSETS %q: %w", value, err)
		}
		copy(c.IMUAccOffsets[:], vals)
		c.HaveIMUAccOffset = true
	case "IMU_GYR_OFFSETS":
		vals, err := parseFloats(value, 3)
		if err != nil {
			return fmt.Errorf("invalid IMU_GYR_OFFSETS %q: %w", value, err)
		}
		copy(c.IMUGyrOffsets[:], vals)
		c.HaveIMUGyrOffset = true

	// Gyroscope
	case "IMU_GYRO_DLPF_ENABLED":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_GYRO_DLPF_ENABLED %q: %w", value, err)
		}
		c.IMUGyroDLPFEnabled = on
	case "IMU_GYRO_BW_WO_DLPF":
		switch value {
		case "8800":
			c.IMUGyroBWWithoutDLPF = mpu6500.GyrBW8800
		case "3600":
			c.IMUGyroBWWithoutDLPF = mpu6500.GyrBW3600
		default:
			return fmt.Errorf("IMU_GYRO_BW_WO_DLPF must be 8800 or 3600, got %q", value)
		}
	case "IMU_GYRO_DLPF":
		val, err := parseRanged(key, value, 0, 7)
		if err != nil {
			return err
		}
		c.IMUGyroDLPF = mpu6500.DLPF(val)
	case "IMU_SMPLRT_DIV":
		val, err := parseRanged(key, value, 0, 255)
		if err != nil {
			return err
		}
		c.IMUSampleRateDiv = byte(val)
	case "IMU_GYRO_RANGE":
		val, err := parseRanged(key, value, 0, 3)
		if err != nil {
			return fmt.Errorf("%w (0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s)", err)
		}
		c.IMUGyroRange = mpu6500.GyroRange(val)
	case "IMU_GYRO_AXES":
		axes, err := mpu6500.ParseAxes(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_GYRO_AXES: %w", err)
		}
		c.IMUGyroAxes = axes

	// Accelerometer
	case "IMU_ACCEL_RANGE":
		val, err := parseRanged(key, value, 0, 3)
		if err != nil {
			return fmt.Errorf("%w (0=±2g, 1=±4g, 2=±8g, 3=±16g)", err)
		}
		c.IMUAccelRange = mpu6500.AccelRange(val)
	case "IMU_ACCEL_DLPF_ENABLED":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_ACCEL_DLPF_ENABLED %q: %w", value, err)
		}
		c.IMUAccelDLPFEnabled = on
	case "IMU_ACCEL_DLPF":
		val, err := parseRanged(key, value, 0, 7)
		if err != nil {
			return err
		}
		c.IMUAccelDLPF = mpu6500.DLPF(val)
	case "IMU_ACCEL_AXES":
		axes, err := mpu6500.ParseAxes(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_ACCEL_AXES: %w", err)
		}
		c.IMUAccelAxes = axes

	// Display
	case "DISPLAY_ENABLED":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_ENABLED %q: %w", value, err)
		}
		c.DisplayEnabled = on

	case "LOG_LEVEL":
		lvl, err := log.ParseLevel(value)
		if err != nil {
			return fmt.Errorf("invalid LOG_LEVEL %q: %w", value, err)
		}
		c.LogLevel = lvl

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func parseRanged(key, value string, lo, hi int) (int, error) {
	val, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if val < lo || val > hi {
		return 0, fmt.Errorf("%s must be %d-%d, got %d", key, lo, hi, val)
	}
	return val, nil
}

// parseFloats parses exactly n comma-separated numbers.
func parseFloats(value string, n int) ([]float64, error) {
	fields := strings.Split(value, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("want %d comma-separated values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// validate checks cross-field constraints.
func (c *Config) validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	if c.CalibrationSettle < 0 {
		return fmt.Errorf("CALIBRATION_SETTLE must not be negative")
	}
	if c.SerialPort != "" && c.SerialBaudRate <= 0 {
		return fmt.Errorf("SERIAL_BAUD_RATE is required with SERIAL_PORT")
	}
	if c.IMUCalibration == CalibrationManual && !c.HaveIMUAccOffset && !c.HaveIMUGyrOffset {
		return fmt.Errorf("IMU_CALIBRATION=manual requires IMU_ACC_OFFSETS or IMU_GYR_OFFSETS")
	}
	return nil
}

// InitGlobal initializes the global configuration from file. An empty path
// installs Default. Only the first call has any effect.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		if configPath == "" {
			globalConfig = Default()
			return
		}
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
