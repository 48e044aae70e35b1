// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"os"

	serial "github.com/jacobsa/go-serial/serial"
	log "github.com/sirupsen/logrus"
)

// OpenConsole opens the serial port at baud (8N1) for console output. An
// empty port name selects stdout.
func OpenConsole(port string, baud int) (io.WriteCloser, error) {
	if port == "" {
		return nopCloser{os.Stdout}, nil
	}

	opts := serialOptions(port, baud)
	p, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("serial open %s: %w", port, err)
	}
	log.Infof("console: serial port opened on %s at %d baud", opts.PortName, opts.BaudRate)
	return p, nil
}

func serialOptions(port string, baud int) serial.OpenOptions {
	return serial.OpenOptions{
		PortName:              port,
		BaudRate:              uint(baud),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
