// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: registry/manifest.go
// Summary: Defines the saved view manifest.
// Usage: Each view directory holds a manifest.json naming a row source.

package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SourceKind specifies where a view's rows come from.
type SourceKind string

const (
	// KindFile shows a text file.
	KindFile SourceKind = "file"

	// KindSQL shows the result of a query against a SQLite file.
	KindSQL SourceKind = "sql"

	// KindCommand shows the output of a command as it runs.
	// Example: logs = "journalctl" with args ["-f"]
	KindCommand SourceKind = "command"
)

// Manifest describes a saved view.
type Manifest struct {
	// Name is the unique identifier used on the command line (e.g., "logs")
	Name string `json:"name"`

	// DisplayName is the human-readable name shown in listings
	DisplayName string `json:"displayName"`

	// Description provides a brief explanation of what the view shows
	Description string `json:"description"`

	// Kind selects the row source (file, sql, command)
	Kind SourceKind `json:"kind"`

	// Path is the file or database, relative to the manifest directory
	// unless absolute. Used by file and sql views.
	Path string `json:"path,omitempty"`

	// Query is the SQL to run. Only used by sql views.
	Query string `json:"query,omitempty"`

	// Command and Args are the process to run. Only used by command views.
	Command string   `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`

	// Category groups views in listings (e.g., "logs", "data")
	Category string `json:"category"`

	// Tags are searchable keywords
	Tags []string `json:"tags,omitempty"`
}

// LoadManifest reads and parses a manifest.json file from the given directory.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "manifest.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	if m.Name == "" {
		return nil, fmt.Errorf("manifest missing required field: name")
	}
	if m.DisplayName == "" {
		m.DisplayName = m.Name
	}
	return &m, nil
}

// Validate checks that the manifest is well-formed.
func (m *Manifest) Validate(dir string) error {
	if m.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	switch m.Kind {
	case KindFile:
		if m.Path == "" {
			return fmt.Errorf("file view must specify 'path' field")
		}
		if _, err := os.Stat(m.ResolvedPath(dir)); err != nil {
			return fmt.Errorf("file not found: %s (%w)", m.Path, err)
		}

	case KindSQL:
		if m.Path == "" {
			return fmt.Errorf("sql view must specify 'path' field")
		}
		if m.Query == "" {
			return fmt.Errorf("sql view must specify 'query' field")
		}

	case KindCommand:
		if m.Command == "" {
			return fmt.Errorf("command view must specify 'command' field")
		}

	default:
		return fmt.Errorf("unknown view kind: %q", m.Kind)
	}

	return nil
}

// ResolvedPath returns Path relative to the manifest directory.
func (m *Manifest) ResolvedPath(dir string) string {
	if m.Path == "" || filepath.IsAbs(m.Path) || dir == "" {
		return m.Path
	}
	return filepath.Join(dir, m.Path)
}

// Argv returns the command line of a command view.
func (m *Manifest) Argv() []string {
	return append([]string{m.Command}, m.Args...)
}
