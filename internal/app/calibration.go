// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/mpu6500_console/internal/mpu6500"
)

const (
	// Gyro noise in raw counts at ±250°/s while still.
	stillStdGood = 3.0
	stillStdBad  = 12.0

	confFloor = 0.05

	// Each axis must swing through most of ±1g (2·16384 counts at ±2g)
	// during the rotation phase.
	minRotationSpan    = 1.5 * 16384
	minRotationSamples = 10
)

// ErrIncompleteRotation is returned by RunCalibration when the rotation
// phase did not turn every axis up and down.
var ErrIncompleteRotation = errors.New("incomplete rotation")

// CalibrationOptions sets the timing of the guided calibration.
type CalibrationOptions struct {
	StillDuration  time.Duration // gyro averaging while the board lies still
	RotateTimeout  time.Duration // longest accelerometer min/max capture
	SampleInterval time.Duration
}

// DefaultCalibrationOptions returns the timings used by cmd/calibration.
func DefaultCalibrationOptions() CalibrationOptions {
	return CalibrationOptions{
		StillDuration:  10 * time.Second,
		RotateTimeout:  120 * time.Second,
		SampleInterval: 10 * time.Millisecond,
	}
}

// PhaseStats summarizes the raw samples captured during one phase.
type PhaseStats struct {
	Samples  int
	Duration time.Duration
	Mean     mpu6500.Vector
	StdDev   mpu6500.Vector
	Min      mpu6500.Vector
	Max      mpu6500.Vector
}

// CalibrationResult holds the raw offsets measured at ±2g and ±250°/s, in
// the form the manual calibration mode takes them.
type CalibrationResult struct {
	Gyro  PhaseStats
	Accel PhaseStats

	// StillConfidence is 1 for a quiet gyro and drops towards 0.05 as the
	// noise grows.
	StillConfidence float64
}

// ConfigLines returns config file lines selecting manual calibration with
// the measured offsets.
func (r CalibrationResult) ConfigLines() string {
	a := r.Accel
	var b strings.Builder
	b.WriteString("IMU_CALIBRATION=manual\n")
	fmt.Fprintf(&b, "IMU_ACC_OFFSETS=%.1f, %.1f, %.1f, %.1f, %.1f, %.1f\n",
		a.Min.X, a.Max.X, a.Min.Y, a.Max.Y, a.Min.Z, a.Max.Z)
	fmt.Fprintf(&b, "IMU_GYR_OFFSETS=%.1f, %.1f, %.1f\n",
		r.Gyro.Mean.X, r.Gyro.Mean.Y, r.Gyro.Mean.Z)
	return b.String()
}

// RunCalibration guides the operator through the gyro still phase and the
// accelerometer rotation phase, reading ENTER presses from in and printing
// prompts and results to out. The device is left at ±2g and ±250°/s.
func RunCalibration(ctx context.Context, dev *mpu6500.Dev, in io.Reader, out io.Writer, opts CalibrationOptions) (CalibrationResult, error) {
	var res CalibrationResult

	for _, step := range []error{
		dev.SetGyrRange(mpu6500.GyrRange250),
		dev.SetAccRange(mpu6500.AccRange2G),
		dev.EnableGyrDLPF(),
		dev.SetGyrDLPF(mpu6500.DLPF6),
		dev.EnableAccDLPF(true),
		dev.SetAccDLPF(mpu6500.DLPF6),
	} {
		if step != nil {
			return res, fmt.Errorf("calibration: configure: %w", step)
		}
	}

	enter := make(chan struct{})
	go func() {
		br := bufio.NewReader(in)
		for {
			if _, err := br.ReadString('\n'); err != nil {
				return
			}
			select {
			case enter <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(out, "Step 1/2: place the MPU6500 flat and keep it still, then press ENTER.")
	select {
	case <-enter:
	case <-ctx.Done():
		return res, ctx.Err()
	}
	fmt.Fprintf(out, "Sampling gyro for %s...\n", opts.StillDuration)
	gyro, err := capture(ctx, dev.GyrRawValues, nil, opts.StillDuration, opts.SampleInterval)
	if err != nil {
		return res, fmt.Errorf("calibration: gyro: %w", err)
	}
	res.Gyro = gyro
	res.StillConfidence = stillnessConfidence(gyro.StdDev)
	log.WithFields(log.Fields{
		"samples":    gyro.Samples,
		"confidence": res.StillConfidence,
	}).Info("calibration: gyro still phase done")
	if res.StillConfidence < 0.5 {
		fmt.Fprintln(out, "Warning: the board moved during the still phase; consider repeating.")
	}

	// ENTER pressed during the still phase must not end the rotation phase.
	drain(enter)
	fmt.Fprintln(out, "Step 2/2: slowly turn the MPU6500 so each axis points straight up and")
	fmt.Fprintln(out, "straight down at least once. Press ENTER when done.")
	accel, err := capture(ctx, dev.AccRawValues, enter, opts.RotateTimeout, opts.SampleInterval)
	if err != nil {
		return res, fmt.Errorf("calibration: accel: %w", err)
	}
	res.Accel = accel
	log.WithField("samples", accel.Samples).Info("calibration: accel rotation phase done")
	if err := checkRotation(accel); err != nil {
		fmt.Fprintf(out, "Warning: %v. Repeat the calibration.\n", err)
		return res, fmt.Errorf("calibration: accel: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, res.ConfigLines())
	return res, nil
}

// capture samples read every interval until maxDur elapses or, if stop is
// not nil, a value arrives on stop.
func capture(ctx context.Context, read func() (mpu6500.Vector, error), stop <-chan struct{}, maxDur, interval time.Duration) (PhaseStats, error) {
	start := time.Now()
	deadline := time.NewTimer(maxDur)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var values []mpu6500.Vector
	for {
		v, err := read()
		if err != nil {
			return PhaseStats{}, err
		}
		values = append(values, v)

		select {
		case <-ctx.Done():
			return PhaseStats{}, ctx.Err()
		case <-stop:
			return computeStats(values, time.Since(start)), nil
		case <-deadline.C:
			return computeStats(values, time.Since(start)), nil
		case <-ticker.C:
		}
	}
}

// drain discards pending signals on c without blocking.
func drain(c <-chan struct{}) {
	for {
		select {
		case <-c:
		default:
			return
		}
	}
}

// checkRotation reports whether the accelerometer phase covered every axis.
func checkRotation(st PhaseStats) error {
	if st.Samples < minRotationSamples {
		return fmt.Errorf("%w: only %d samples", ErrIncompleteRotation, st.Samples)
	}
	spans := []struct {
		axis string
		span float64
	}{
		{"X", st.Max.X - st.Min.X},
		{"Y", st.Max.Y - st.Min.Y},
		{"Z", st.Max.Z - st.Min.Z},
	}
	for _, s := range spans {
		if s.span < minRotationSpan {
			return fmt.Errorf("%w: %s axis spanned %.0f counts, want at least %.0f",
				ErrIncompleteRotation, s.axis, s.span, float64(minRotationSpan))
		}
	}
	return nil
}

func computeStats(values []mpu6500.Vector, dur time.Duration) PhaseStats {
	n := len(values)
	if n == 0 {
		return PhaseStats{Duration: dur}
	}
	var sum mpu6500.Vector
	lo, hi := values[0], values[0]
	for _, v := range values {
		sum.X += v.X
		sum.Y += v.Y
		sum.Z += v.Z
		lo = mpu6500.Vector{X: math.Min(lo.X, v.X), Y: math.Min(lo.Y, v.Y), Z: math.Min(lo.Z, v.Z)}
		hi = mpu6500.Vector{X: math.Max(hi.X, v.X), Y: math.Max(hi.Y, v.Y), Z: math.Max(hi.Z, v.Z)}
	}
	mean := mpu6500.Vector{X: sum.X / float64(n), Y: sum.Y / float64(n), Z: sum.Z / float64(n)}

	var vx, vy, vz float64
	for _, v := range values {
		dx := v.X - mean.X
		dy := v.Y - mean.Y
		dz := v.Z - mean.Z
		vx += dx * dx
		vy += dy * dy
		vz += dz * dz
	}
	return PhaseStats{
		Samples:  n,
		Duration: dur,
		Mean:     mean,
		StdDev: mpu6500.Vector{
			X: math.Sqrt(vx / float64(n)),
			Y: math.Sqrt(vy / float64(n)),
			Z: math.Sqrt(vz / float64(n)),
		},
		Min: lo,
		Max: hi,
	}
}

func stillnessConfidence(std mpu6500.Vector) float64 {
	s := (std.X + std.Y + std.Z) / 3
	switch {
	case s <= stillStdGood:
		return 1.0
	case s >= stillStdBad:
		return confFloor
	default:
		t := (s - stillStdGood) / (stillStdBad - stillStdGood)
		return clamp01(1.0 - 0.95*t)
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
