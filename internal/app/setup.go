// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/mpu6500_console/internal/config"
)

// LoadConfig installs the global configuration from path (defaults when
// empty) and applies its log level.
func LoadConfig(path string) (*config.Config, error) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if err := config.InitGlobal(path); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.Get()
	log.SetLevel(cfg.LogLevel)
	if path == "" {
		log.Debug("no config file given, using defaults")
	} else {
		log.WithField("path", path).Debug("config loaded")
	}
	return cfg, nil
}
