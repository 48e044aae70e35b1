// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"image"
	"image/draw"

	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/mpu6500_console/internal/imu"
	"github.com/relabs-tech/mpu6500_console/internal/orientation"
)

const (
	panelWidth  = 128
	panelHeight = 64
	lineHeight  = 12
)

// screen is the part of *ssd1306.Dev the panel draws on.
type screen interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

// Panel mirrors readings on a 128x64 monochrome OLED.
type Panel struct {
	dev screen
}

// NewPanel opens an SSD1306 at its default address on bus and shows a
// splash screen.
func NewPanel(bus i2c.Bus) (*Panel, error) {
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("display: ssd1306 init: %w", err)
	}
	log.Infof("display: %s initialized", dev)

	p := &Panel{dev: dev}
	if err := p.draw([]string{"", "  MPU6500", "  Calibrating"}); err != nil {
		log.WithError(err).Warn("display: error showing splash")
	}
	return p, nil
}

// Show draws r on the panel.
func (p *Panel) Show(r imu.Reading) error {
	return p.draw(panelLines(r))
}

// Halt blanks the panel.
func (p *Panel) Halt() error {
	return p.dev.Halt()
}

func (p *Panel) draw(lines []string) error {
	return p.dev.Draw(p.dev.Bounds(), renderLines(lines), image.Point{})
}

// panelLines lays out one reading over the panel's five text rows.
func panelLines(r imu.Reading) []string {
	t := orientation.FromReading(r)
	return []string{
		fmt.Sprintf("A%5.2f %5.2f %5.2f", r.Accel.X, r.Accel.Y, r.Accel.Z),
		fmt.Sprintf("G%5.0f %5.0f %5.0f", r.Gyro.X, r.Gyro.Y, r.Gyro.Z),
		fmt.Sprintf("|g| %.2f  T %.1fC", r.ResultantG, r.Temperature),
		fmt.Sprintf("R: %6.1f", t.Roll),
		fmt.Sprintf("P: %6.1f", t.Pitch),
	}
}

func renderLines(lines []string) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, panelWidth, panelHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{image1bit.Off}, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	for i, l := range lines {
		y := (i+1)*lineHeight - 1
		if y >= panelHeight {
			break
		}
		drawer.Dot = fixed.P(0, y)
		drawer.DrawString(l)
	}
	return img
}
