// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: System + app configuration store for texelvirt.
//
// The store is loaded lazily on first use. System() and App() hand out the
// cached maps; callers that edit them should go through SetSystem/SetApp
// and Save* so disk and memory agree.

package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const systemConfigName = "texelvirt.json"

// Config stores configuration sections as JSON-compatible data.
type Config map[string]interface{}

// Section stores key/value pairs for a configuration section.
type Section map[string]interface{}

var (
	mu      sync.RWMutex
	once    sync.Once
	system  Config
	apps    map[string]Config
	loadErr error
)

func ensureLoaded() {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		system = make(Config)
		apps = make(map[string]Config)
		loadErr = loadSystemLocked()
	})
}

// Err returns the most recent system config load error.
func Err() error {
	ensureLoaded()
	mu.RLock()
	defer mu.RUnlock()
	return loadErr
}

// System returns the system configuration (texelvirt.json).
func System() Config {
	ensureLoaded()
	mu.RLock()
	defer mu.RUnlock()
	return system
}

// App returns the config for a named app (apps/<app>/config.json). A file
// that cannot be read yields the built-in defaults.
func App(name string) Config {
	if name == "" {
		return nil
	}
	ensureLoaded()

	mu.RLock()
	cfg, ok := apps[name]
	mu.RUnlock()
	if ok {
		return cfg
	}

	mu.Lock()
	defer mu.Unlock()
	if cfg, ok := apps[name]; ok {
		return cfg
	}
	cfg, err := loadAppLocked(name)
	if err != nil {
		log.Printf("Config: Failed to load app %q config: %v", name, err)
		cfg = make(Config)
		applyAppDefaults(name, cfg)
	}
	apps[name] = cfg
	return cfg
}

// Reload re-reads the system config and every app config loaded so far.
// An app whose file became unreadable keeps its previous values.
func Reload() error {
	ensureLoaded()
	mu.Lock()
	defer mu.Unlock()

	loadErr = loadSystemLocked()
	for name := range apps {
		cfg, err := loadAppLocked(name)
		if err != nil {
			log.Printf("Config: Failed to reload app %q config: %v", name, err)
			continue
		}
		apps[name] = cfg
	}
	return loadErr
}

// SetSystem replaces the in-memory system config with a copy of cfg.
func SetSystem(cfg Config) {
	ensureLoaded()
	mu.Lock()
	defer mu.Unlock()
	system = cloneOrEmpty(cfg)
}

// SetApp replaces the in-memory config of app with a copy of cfg.
func SetApp(name string, cfg Config) {
	if name == "" {
		return
	}
	ensureLoaded()
	mu.Lock()
	defer mu.Unlock()
	apps[name] = cloneOrEmpty(cfg)
}

// SaveSystem persists the current system config to disk.
func SaveSystem() error {
	ensureLoaded()
	mu.RLock()
	defer mu.RUnlock()
	path, err := systemConfigPath()
	if err != nil {
		return err
	}
	return writeConfig(path, system)
}

// SaveApp persists a named app config to disk. An app never loaded is
// written with its defaults.
func SaveApp(name string) error {
	if name == "" {
		return nil
	}
	cfg := App(name)
	mu.RLock()
	defer mu.RUnlock()
	path, err := appConfigPath(name)
	if err != nil {
		return err
	}
	return writeConfig(path, cfg)
}

func cloneOrEmpty(cfg Config) Config {
	if cfg == nil {
		return make(Config)
	}
	return Clone(cfg)
}

// readConfig reports whether path exists separately from parse errors so a
// broken file is not mistaken for a missing one.
func readConfig(path string) (cfg Config, exists bool, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

func writeConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cloneOrEmpty(cfg), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
