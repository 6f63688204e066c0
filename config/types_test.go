// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"testing"
	"time"
)

func TestTypedGetters(t *testing.T) {
	cfg := Config{
		"top": "level",
		"s": map[string]interface{}{
			"f":     2.5,
			"i":     7,
			"str_i": "12",
			"b":     "true",
			"n":     0.0,
			"ms":    20.0,
			"neg":   -5.0,
			"bad":   []interface{}{1},
		},
	}

	if got := cfg.GetString("", "top", ""); got != "level" {
		t.Fatalf("top-level string: got %q", got)
	}
	if got := cfg.GetFloat("s", "f", 0); got != 2.5 {
		t.Fatalf("float: got %v", got)
	}
	if got := cfg.GetInt("s", "f", 0); got != 2 {
		t.Fatalf("int from float: got %v", got)
	}
	if got := cfg.GetInt("s", "str_i", 0); got != 12 {
		t.Fatalf("int from string: got %v", got)
	}
	if got := cfg.GetFloat("s", "i", 0); got != 7 {
		t.Fatalf("float from int: got %v", got)
	}
	if !cfg.GetBool("s", "b", false) || cfg.GetBool("s", "n", true) {
		t.Fatalf("bool conversions wrong")
	}
	if got := cfg.GetMillis("s", "ms", 0); got != 20*time.Millisecond {
		t.Fatalf("millis: got %v", got)
	}
	if got := cfg.GetMillis("s", "neg", time.Second); got != time.Second {
		t.Fatalf("negative millis should fall back, got %v", got)
	}
	if got := cfg.GetInt("s", "bad", 3); got != 3 {
		t.Fatalf("unconvertible value should fall back, got %v", got)
	}
	if got := cfg.GetString("missing", "x", "d"); got != "d" {
		t.Fatalf("missing section should fall back, got %q", got)
	}
}

func TestRegisterDefaultsKeepsExisting(t *testing.T) {
	cfg := Config{"s": map[string]interface{}{"a": 1.0}}
	cfg.RegisterDefaults("s", Section{"a": 2.0, "b": 3.0})
	cfg.RegisterDefaults("new", Section{"c": true})
	cfg.RegisterDefaults("", Section{"root": "r"})

	if got := cfg.GetFloat("s", "a", 0); got != 1 {
		t.Fatalf("existing key overwritten: %v", got)
	}
	if got := cfg.GetFloat("s", "b", 0); got != 3 {
		t.Fatalf("missing key not filled: %v", got)
	}
	if !cfg.GetBool("new", "c", false) {
		t.Fatalf("new section not created")
	}
	if got := cfg.GetString("", "root", ""); got != "r" {
		t.Fatalf("top-level default not filled: %q", got)
	}
}

func TestCloneCopiesSections(t *testing.T) {
	orig := Config{"s": map[string]interface{}{"a": 1.0}, "top": "x"}
	c := Clone(orig)
	c.Section("s")["a"] = 2.0

	if got := orig.GetFloat("s", "a", 0); got != 1 {
		t.Fatalf("clone shares section with original")
	}
	if c.GetString("", "top", "") != "x" {
		t.Fatalf("scalar not copied")
	}
}

func TestEmbeddedDefaultsAreCopies(t *testing.T) {
	a := embeddedDefaults(ListViewApp)
	if a == nil {
		t.Fatalf("expected embedded listview defaults")
	}
	a.Section("listview")["hysteresis"] = 0.1

	b := embeddedDefaults(ListViewApp)
	if got := b.GetFloat("listview", "hysteresis", 0); got != 0.5 {
		t.Fatalf("embedded cache was mutated: %v", got)
	}
	if embeddedDefaults("nope") != nil {
		t.Fatalf("expected nil for app without embedded defaults")
	}
}
