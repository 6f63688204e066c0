// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package registry

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeView(t *testing.T, base, dir string, m Manifest) string {
	t.Helper()
	viewDir := filepath.Join(base, dir)
	require.NoError(t, os.MkdirAll(viewDir, 0755))
	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(viewDir, "manifest.json"), data, 0644))
	return viewDir
}

func TestScanLoadsValidViews(t *testing.T) {
	base := t.TempDir()
	notes := writeView(t, base, "notes", Manifest{
		Name: "notes", DisplayName: "Notes", Kind: KindFile, Path: "notes.txt", Category: "docs",
	})
	require.NoError(t, os.WriteFile(filepath.Join(notes, "notes.txt"), []byte("a\nb\nc\n"), 0644))
	writeView(t, base, "logs", Manifest{
		Name: "logs", DisplayName: "Logs", Kind: KindCommand, Command: "echo", Args: []string{"hi"},
	})
	writeView(t, base, "broken", Manifest{Name: "broken", Kind: "ftp"})
	writeView(t, base, "missing", Manifest{Name: "missing", Kind: KindFile, Path: "gone.txt"})

	reg := New()
	require.NoError(t, reg.Scan(base))

	assert.Equal(t, 2, reg.Count())
	require.NotNil(t, reg.Get("notes"))
	assert.Nil(t, reg.Get("broken"))
	assert.Nil(t, reg.Get("missing"))

	names := []string{}
	for _, e := range reg.List() {
		names = append(names, e.Manifest.Name)
	}
	assert.Equal(t, []string{"logs", "notes"}, names)

	cats := reg.ListByCategory()
	assert.Len(t, cats["docs"], 1)
	assert.Len(t, cats["other"], 1)

	rows, err := reg.Open(context.Background(), "notes")
	require.NoError(t, err)
	assert.Equal(t, 3, rows.Len())
	assert.Equal(t, "notes.txt", rows.Name())
}

func TestScanMissingDirIsEmpty(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Scan(filepath.Join(t.TempDir(), "none")))
	assert.Equal(t, 0, reg.Count())
}

func TestBuiltInShadowsScannedView(t *testing.T) {
	base := t.TempDir()
	dir := writeView(t, base, "config", Manifest{Name: "config", Kind: KindFile, Path: "x.txt"})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.txt"), []byte("scanned\n"), 0644))

	builtin := filepath.Join(t.TempDir(), "builtin.txt")
	require.NoError(t, os.WriteFile(builtin, []byte("one\ntwo\n"), 0644))

	reg := New()
	reg.RegisterBuiltIn(&Manifest{Name: "config", Kind: KindFile, Path: builtin})
	require.NoError(t, reg.Scan(base))

	assert.Len(t, reg.List(), 1)
	rows, err := reg.Open(context.Background(), "config")
	require.NoError(t, err)
	assert.Equal(t, 2, rows.Len())
}

func TestOpenUnknownView(t *testing.T) {
	_, err := New().Open(context.Background(), "nope")
	assert.Error(t, err)
}

func TestManifestValidate(t *testing.T) {
	tests := []struct {
		name    string
		m       Manifest
		wantErr bool
	}{
		{"sql ok", Manifest{Name: "q", Kind: KindSQL, Path: "db.sqlite", Query: "SELECT 1"}, false},
		{"sql without query", Manifest{Name: "q", Kind: KindSQL, Path: "db.sqlite"}, true},
		{"command without command", Manifest{Name: "c", Kind: KindCommand}, true},
		{"no name", Manifest{Kind: KindCommand, Command: "ls"}, true},
		{"unknown kind", Manifest{Name: "u", Kind: "ftp"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate(t.TempDir())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestManifestPaths(t *testing.T) {
	m := Manifest{Path: "data.db", Command: "tail", Args: []string{"-f", "x"}}
	assert.Equal(t, filepath.Join("/views/a", "data.db"), m.ResolvedPath("/views/a"))
	m.Path = "/abs/data.db"
	assert.Equal(t, "/abs/data.db", m.ResolvedPath("/views/a"))
	assert.Equal(t, []string{"tail", "-f", "x"}, m.Argv())
}

func TestRegisterBuiltIns(t *testing.T) {
	RegisterBuiltInProvider(func(*Registry) *Manifest {
		return &Manifest{Name: "from-provider", Kind: KindCommand, Command: "true"}
	})
	RegisterBuiltInProvider(func(*Registry) *Manifest { return nil })

	reg := New()
	RegisterBuiltIns(reg)
	require.NotNil(t, reg.Get("from-provider"))
	assert.Equal(t, "from-provider", reg.Get("from-provider").Manifest.DisplayName)
}
