// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for system and app configuration files.

package config

func applySystemDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("", Section{
		"defaultApp":  "listview",
		"activeTheme": "monokai",
	})
	cfg.RegisterDefaults("log", Section{
		"file": "",
	})
}

func applyAppDefaults(app string, cfg Config) {
	if cfg == nil {
		return
	}
	switch app {
	case "listview":
		// Negative padding and viewport_height mean "derive from the screen".
		cfg.RegisterDefaults("listview", Section{
			"default_height":   1.0,
			"viewport_height":  -1.0,
			"padding":          -1.0,
			"hysteresis":       0.5,
			"header_height":    1.0,
			"footer_height":    1.0,
			"debounce_ms":      16,
			"wrap_enabled":     true,
			"invariant_checks": false,
		})
		cfg.RegisterDefaults("listview.highlight", Section{
			"enabled":      true,
			"style":        "",
			"sample_lines": 50,
		})
		cfg.RegisterDefaults("listview.scroll", Section{
			"wheel_lines": 3,
		})
	}
}
