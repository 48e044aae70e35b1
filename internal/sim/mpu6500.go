// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package sim provides an I²C bus with a simulated MPU-6500 attached, for
// running the console without hardware and for tests.
package sim

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/relabs-tech/mpu6500_console/internal/mpu6500"
	"periph.io/x/conn/v3/physic"
)

// Motion returns the true acceleration (g), angular rate (°/s) and die
// temperature (°C) at time t since the bus was created.
type Motion func(t time.Duration) (accel, gyro mpu6500.Vector, tempC float64)

// Flat is a device lying still with z up at 25°C.
func Flat(time.Duration) (mpu6500.Vector, mpu6500.Vector, float64) {
	return mpu6500.Vector{Z: 1}, mpu6500.Vector{}, 25
}

// Tilting stays flat until still has elapsed, then rolls and pitches slowly.
func Tilting(still time.Duration) Motion {
	return func(t time.Duration) (mpu6500.Vector, mpu6500.Vector, float64) {
		if t < still {
			return Flat(t)
		}
		s := (t - still).Seconds()
		roll := 20 * math.Sin(s)
		pitch := 15 * math.Sin(s*0.7)
		r, p := roll*math.Pi/180, pitch*math.Pi/180
		accel := mpu6500.Vector{
			X: -math.Sin(p),
			Y: math.Sin(r) * math.Cos(p),
			Z: math.Cos(r) * math.Cos(p),
		}
		gyro := mpu6500.Vector{
			X: 20 * math.Cos(s),
			Y: 10.5 * math.Cos(s*0.7),
		}
		return accel, gyro, 25 + 0.5*math.Sin(s/60)
	}
}

// Bus is an i2c.Bus with one simulated MPU-6500 on it.
type Bus struct {
	// AccBias and GyrBias are added to every raw reading, in counts of the
	// ±2g and ±250°/s ranges.
	AccBias mpu6500.Vector
	GyrBias mpu6500.Vector

	addr   uint16
	motion Motion
	start  time.Time

	mu   sync.Mutex
	regs [128]byte
	txs  int
}

// New returns a bus with the simulated device at addr.
func New(addr uint16, m Motion) *Bus {
	if m == nil {
		m = Flat
	}
	b := &Bus{addr: addr, motion: m, start: time.Now()}
	b.reset()
	return b
}

func (b *Bus) String() string {
	return fmt.Sprintf("sim-i2c(0x%02X)", b.addr)
}

// Tx implements i2c.Bus. Register access auto-increments like the real
// device.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.txs++
	if addr != b.addr {
		return fmt.Errorf("sim: no ACK from 0x%02X", addr)
	}
	if len(w) == 0 {
		return fmt.Errorf("sim: missing register address")
	}
	reg := w[0]
	for i, v := range w[1:] {
		b.write((reg+byte(i))&0x7F, v)
	}
	if len(r) > 0 {
		b.refresh()
		for i := range r {
			r[i] = b.regs[(int(reg)+i)&0x7F]
		}
	}
	return nil
}

// SetSpeed implements i2c.Bus.
func (b *Bus) SetSpeed(physic.Frequency) error { return nil }

// Close implements io.Closer.
func (b *Bus) Close() error { return nil }

// Register returns the current value of a register without side effects.
func (b *Bus) Register(reg byte) byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.regs[reg&0x7F]
}

// Transactions returns how many transactions were issued on the bus.
func (b *Bus) Transactions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.txs
}

func (b *Bus) reset() {
	b.regs = [128]byte{}
	b.regs[mpu6500.RegPwrMgmt1] = 0x01
	b.regs[mpu6500.RegWhoAmI] = mpu6500.WhoAmIValue
}

func (b *Bus) write(reg, v byte) {
	switch reg {
	case mpu6500.RegPwrMgmt1:
		if v&0x80 != 0 {
			b.reset()
			return
		}
	case mpu6500.RegWhoAmI, mpu6500.RegIntStatus:
		return
	}
	if reg >= mpu6500.RegAccelXOutH && reg < mpu6500.RegGyroXOutH+6 {
		return
	}
	b.regs[reg] = v
}

// refresh regenerates the data registers unless the device sleeps.
func (b *Bus) refresh() {
	if b.regs[mpu6500.RegPwrMgmt1]&0x40 != 0 {
		return
	}
	accel, gyro, temp := b.motion(time.Since(b.start))

	accFS := (b.regs[mpu6500.RegAccelConfig] >> 3) & 3
	gyrFS := (b.regs[mpu6500.RegGyroConfig] >> 3) & 3
	accFactor := float64(int(1) << accFS)
	gyrFactor := float64(int(1) << gyrFS)
	disabled := b.regs[mpu6500.RegPwrMgmt2]

	accRaw := [3]float64{
		accel.X*16384/accFactor + b.AccBias.X/accFactor,
		accel.Y*16384/accFactor + b.AccBias.Y/accFactor,
		accel.Z*16384/accFactor + b.AccBias.Z/accFactor,
	}
	gyrRaw := [3]float64{
		gyro.X*32768/250/gyrFactor + b.GyrBias.X/gyrFactor,
		gyro.Y*32768/250/gyrFactor + b.GyrBias.Y/gyrFactor,
		gyro.Z*32768/250/gyrFactor + b.GyrBias.Z/gyrFactor,
	}
	for i := 0; i < 3; i++ {
		// PWR_MGMT_2: accel X,Y,Z at bits 5..3, gyro X,Y,Z at bits 2..0.
		if disabled&(0x20>>i) != 0 {
			accRaw[i] = 0
		}
		if disabled&(0x04>>i) != 0 {
			gyrRaw[i] = 0
		}
		b.put(mpu6500.RegAccelXOutH+2*i, accRaw[i])
		b.put(mpu6500.RegGyroXOutH+2*i, gyrRaw[i])
	}
	b.put(mpu6500.RegTempOutH, (temp-21)*333.87)
}

func (b *Bus) put(reg int, v float64) {
	v = math.Round(v)
	if v > math.MaxInt16 {
		v = math.MaxInt16
	} else if v < math.MinInt16 {
		v = math.MinInt16
	}
	binary.BigEndian.PutUint16(b.regs[reg:reg+2], uint16(int16(v)))
}
