// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/relabs-tech/mpu6500_console/internal/sensors"
)

// RegisterReader reads single device registers.
type RegisterReader interface {
	ReadRegister(reg byte) (byte, error)
}

// DumpRegisters reads every readable register in regs and writes its value
// and decoded bit fields to w. Registers that differ from their reset
// default are marked with '*'.
func DumpRegisters(w io.Writer, r RegisterReader, regs []sensors.RegisterInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDR\tNAME\tVALUE\tDEFAULT\tDESCRIPTION")
	for _, reg := range regs {
		if reg.Access == "W" {
			continue
		}
		v, err := r.ReadRegister(reg.Address)
		if err != nil {
			tw.Flush()
			return fmt.Errorf("register_debug: read %s (0x%02X): %w", reg.Name, reg.Address, err)
		}
		mark := " "
		if v != reg.Default {
			mark = "*"
		}
		fmt.Fprintf(tw, "0x%02X\t%s\t0x%02X%s\t0x%02X\t%s\n", reg.Address, reg.Name, v, mark, reg.Default, reg.Description)
		for _, f := range reg.BitFields {
			if f.Hi == 7 && f.Lo == 0 {
				continue
			}
			fmt.Fprintf(tw, "\t  %s\t%d\t[%s]\t%s\n", f.Name, f.Extract(v), bitRange(f), f.Values)
		}
	}
	return tw.Flush()
}

func bitRange(f sensors.BitField) string {
	if f.Hi == f.Lo {
		return fmt.Sprintf("%d", f.Hi)
	}
	return fmt.Sprintf("%d:%d", f.Hi, f.Lo)
}
