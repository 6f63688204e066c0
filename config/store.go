// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/store.go
// Summary: Load and reload logic for config store.
//
// A missing or empty file is seeded from the embedded defaults and written
// back so users have something to edit. Missing keys in an existing file
// are filled in memory only. A file that fails to parse is never rewritten.

package config

import "log"

// loadFile reads path and fills in defaults. seed is the embedded copy used
// when the file is absent; it may be nil.
func loadFile(path, what string, seed Config, fill func(Config)) (Config, error) {
	cfg, exists, readErr := readConfig(path)
	if readErr != nil {
		log.Printf("Config: Failed to read %s config %s: %v", what, path, readErr)
		cfg = nil
	}

	if exists && len(cfg) > 0 {
		fill(cfg)
		log.Printf("Config: Loaded %s config from %s", what, path)
		return cfg, nil
	}

	cfg = seed
	if cfg == nil {
		cfg = make(Config)
	}
	fill(cfg)
	if readErr != nil {
		return cfg, readErr
	}
	if err := writeConfig(path, cfg); err != nil {
		log.Printf("Config: Failed to write default %s config: %v", what, err)
		return cfg, err
	}
	return cfg, nil
}

func loadSystemLocked() error {
	path, err := systemConfigPath()
	if err != nil {
		log.Printf("Config: Failed to resolve system config path: %v", err)
		system = make(Config)
		applySystemDefaults(system)
		return err
	}
	system, err = loadFile(path, "system", embeddedDefaults(embeddedKey), applySystemDefaults)
	return err
}

func loadAppLocked(name string) (Config, error) {
	path, err := appConfigPath(name)
	if err != nil {
		return nil, err
	}
	return loadFile(path, "app "+name, embeddedDefaults(name), func(cfg Config) {
		applyAppDefaults(name, cfg)
	})
}
