// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scroll/config.go
// Summary: Controller configuration and its validation.

package scroll

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidConfig is wrapped by every ConfigError.
var ErrInvalidConfig = errors.New("invalid scroll config")

// ConfigError names the offending configuration field.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s=%g: %s", ErrInvalidConfig, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Config holds the windowing settings. Nil ViewportHeight or Padding means
// the value is derived on every redraw.
type Config struct {
	// DefaultHeight is the estimate for rows that were never measured.
	DefaultHeight float64

	// ViewportHeight is the scroll container height. When nil the container
	// is as tall as its content (header + rows + footer) and the page scrolls.
	ViewportHeight *float64

	// Padding is extra content rendered above and below the visible area.
	// When nil it is half of min(screen height, viewport height).
	Padding *float64

	// Hysteresis in [0,1] is the fraction of Padding a boundary may drift
	// before it is recomputed.
	Hysteresis float64

	HeaderHeight float64
	FooterHeight float64

	// Quiet is the coalescing period for redraw triggers.
	Quiet time.Duration
}

// DefaultConfig returns settings suitable for pixel-based hosts.
func DefaultConfig() Config {
	return Config{
		DefaultHeight: 20,
		Hysteresis:    0.5,
		Quiet:         16 * time.Millisecond,
	}
}

// Px returns a pointer to v, for the optional Config fields.
func Px(v float64) *float64 {
	return &v
}

type namedValue struct {
	field string
	value float64
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	checks := []namedValue{
		{"default_height", c.DefaultHeight},
		{"header_height", c.HeaderHeight},
		{"footer_height", c.FooterHeight},
	}
	if c.ViewportHeight != nil {
		checks = append(checks, namedValue{"viewport_height", *c.ViewportHeight})
	}
	if c.Padding != nil {
		checks = append(checks, namedValue{"padding", *c.Padding})
	}
	for _, chk := range checks {
		if math.IsNaN(chk.value) || math.IsInf(chk.value, 0) {
			return &ConfigError{Field: chk.field, Value: chk.value, Reason: "must be finite"}
		}
		if chk.value < 0 {
			return &ConfigError{Field: chk.field, Value: chk.value, Reason: "must not be negative"}
		}
	}
	if math.IsNaN(c.Hysteresis) || c.Hysteresis < 0 || c.Hysteresis > 1 {
		return &ConfigError{Field: "hysteresis", Value: c.Hysteresis, Reason: "must be within [0,1]"}
	}
	if c.Quiet < 0 {
		return &ConfigError{Field: "quiet", Value: float64(c.Quiet), Reason: "must not be negative"}
	}
	return nil
}

// clone copies the optional fields so callers cannot mutate stored config.
func (c Config) clone() Config {
	if c.ViewportHeight != nil {
		c.ViewportHeight = Px(*c.ViewportHeight)
	}
	if c.Padding != nil {
		c.Padding = Px(*c.Padding)
	}
	return c
}
