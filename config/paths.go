// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/paths.go
// Summary: Path helpers for texelvirt configuration.

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirEnv overrides the configuration root when set.
const DirEnv = "TEXELVIRT_CONFIG_DIR"

func configRoot() (string, error) {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "texelvirt"), nil
}

// Root returns the directory holding texelvirt.json and per-app configs.
func Root() (string, error) {
	return configRoot()
}

func systemConfigPath() (string, error) {
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, systemConfigName), nil
}

func appConfigPath(app string) (string, error) {
	if app == "" {
		return "", fmt.Errorf("app name is required")
	}
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "apps", app, "config.json"), nil
}

// ViewsDir returns the directory scanned for saved views.
func ViewsDir() (string, error) {
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "views"), nil
}
