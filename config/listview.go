// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/listview.go
// Summary: Typed view of the listview app config.

package config

import "github.com/framegrace/texelvirt/scroll"

// ListViewApp is the app name whose config holds the listview sections.
const ListViewApp = "listview"

// ListViewSettings is the listview config resolved into typed values.
type ListViewSettings struct {
	Scroll          scroll.Config
	Wrap            bool
	InvariantChecks bool

	Highlight   bool
	Style       string
	SampleLines int

	WheelLines int
}

// ListView resolves the listview sections of cfg. Negative viewport_height
// or padding leave the value to be derived from the screen. The result is
// not validated; scroll.NewController rejects bad values.
func ListView(cfg Config) ListViewSettings {
	def := scroll.DefaultConfig()
	sc := scroll.Config{
		DefaultHeight: cfg.GetFloat("listview", "default_height", def.DefaultHeight),
		Hysteresis:    cfg.GetFloat("listview", "hysteresis", def.Hysteresis),
		HeaderHeight:  cfg.GetFloat("listview", "header_height", def.HeaderHeight),
		FooterHeight:  cfg.GetFloat("listview", "footer_height", def.FooterHeight),
		Quiet:         cfg.GetMillis("listview", "debounce_ms", def.Quiet),
	}
	if v := cfg.GetFloat("listview", "viewport_height", -1); v >= 0 {
		sc.ViewportHeight = scroll.Px(v)
	}
	if v := cfg.GetFloat("listview", "padding", -1); v >= 0 {
		sc.Padding = scroll.Px(v)
	}

	style := cfg.GetString("listview.highlight", "style", "")
	if style == "" {
		style = System().GetString("", "activeTheme", "")
	}

	return ListViewSettings{
		Scroll:          sc,
		Wrap:            cfg.GetBool("listview", "wrap_enabled", true),
		InvariantChecks: cfg.GetBool("listview", "invariant_checks", false),
		Highlight:       cfg.GetBool("listview.highlight", "enabled", true),
		Style:           style,
		SampleLines:     max(cfg.GetInt("listview.highlight", "sample_lines", 50), 1),
		WheelLines:      max(cfg.GetInt("listview.scroll", "wheel_lines", 3), 1),
	}
}
