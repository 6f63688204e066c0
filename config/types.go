// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/types.go
// Summary: Typed access helpers for config store data.
//
// Values come from JSON, so numbers arrive as float64. Strings are accepted
// for every type so hand-edited files like "debounce_ms": "20" still work.

package config

import (
	"strconv"
	"time"
)

// Section returns the named section or nil if missing. The empty name
// addresses the top level.
func (c Config) Section(sectionName string) Section {
	if c == nil {
		return nil
	}
	if sectionName == "" {
		return Section(c)
	}
	switch v := c[sectionName].(type) {
	case Section:
		return v
	case map[string]interface{}:
		return Section(v)
	}
	return nil
}

// RegisterDefaults ensures a section has defaults without overwriting existing keys.
func (c Config) RegisterDefaults(sectionName string, defaults Section) {
	if c == nil || len(defaults) == 0 {
		return
	}
	section := c.Section(sectionName)
	if section == nil {
		section = make(Section, len(defaults))
		c[sectionName] = section
	}
	for key, value := range defaults {
		if _, ok := section[key]; !ok {
			section[key] = value
		}
	}
}

func (c Config) lookup(sectionName, key string) (interface{}, bool) {
	section := c.Section(sectionName)
	if section == nil {
		return nil, false
	}
	v, ok := section[key]
	return v, ok
}

// GetString retrieves a string value from the config.
func (c Config) GetString(sectionName, key, defaultValue string) string {
	if v, ok := c.lookup(sectionName, key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultValue
}

// GetFloat retrieves a float value from the config.
func (c Config) GetFloat(sectionName, key string, defaultValue float64) float64 {
	v, ok := c.lookup(sectionName, key)
	if !ok {
		return defaultValue
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return defaultValue
}

// GetInt retrieves an integer value from the config. Fractions truncate.
func (c Config) GetInt(sectionName, key string, defaultValue int) int {
	v, ok := c.lookup(sectionName, key)
	if !ok {
		return defaultValue
	}
	if f, ok := toFloat(v); ok {
		return int(f)
	}
	return defaultValue
}

// GetBool retrieves a boolean value from the config. Non-zero numbers are true.
func (c Config) GetBool(sectionName, key string, defaultValue bool) bool {
	v, ok := c.lookup(sectionName, key)
	if !ok {
		return defaultValue
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed
		}
		return defaultValue
	}
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	return defaultValue
}

// GetMillis retrieves a duration stored as a number of milliseconds.
func (c Config) GetMillis(sectionName, key string, defaultValue time.Duration) time.Duration {
	v, ok := c.lookup(sectionName, key)
	if !ok {
		return defaultValue
	}
	if f, ok := toFloat(v); ok && f >= 0 {
		return time.Duration(f * float64(time.Millisecond))
	}
	return defaultValue
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// Clone returns a copy of the config with every section copied one level deep.
func Clone(cfg Config) Config {
	if cfg == nil {
		return nil
	}
	out := make(Config, len(cfg))
	for name, v := range cfg {
		switch s := v.(type) {
		case Section:
			out[name] = cloneSection(s)
		case map[string]interface{}:
			out[name] = cloneSection(s)
		default:
			out[name] = v
		}
	}
	return out
}

func cloneSection(s map[string]interface{}) Section {
	out := make(Section, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
