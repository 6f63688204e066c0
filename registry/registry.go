// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: registry/registry.go
// Summary: Discovers saved views and opens their row sources.
// Usage: texelvirt scans <config root>/views/ for view directories.

package registry

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/framegrace/texelvirt/apps/listview"
	"github.com/framegrace/texelvirt/source"
)

// Opener loads the rows of a view. dir is the manifest directory, empty
// for built-ins.
type Opener func(ctx context.Context, m *Manifest, dir string) (listview.Rows, error)

// ViewEntry represents a discovered view.
type ViewEntry struct {
	Manifest *Manifest
	Dir      string
}

// Registry manages the collection of saved views.
type Registry struct {
	mu      sync.RWMutex
	views   map[string]*ViewEntry // name -> entry (scanned views)
	builtIn map[string]*ViewEntry // name -> entry (built-in views)
	openers map[SourceKind]Opener // kind -> opener
}

// New creates a registry that opens file, sql and command views.
func New() *Registry {
	r := &Registry{
		views:   make(map[string]*ViewEntry),
		builtIn: make(map[string]*ViewEntry),
		openers: make(map[SourceKind]Opener),
	}
	r.openers[KindFile] = openFile
	r.openers[KindSQL] = openSQL
	r.openers[KindCommand] = openCommand
	return r
}

func openFile(_ context.Context, m *Manifest, dir string) (listview.Rows, error) {
	return source.LoadFile(m.ResolvedPath(dir))
}

func openSQL(ctx context.Context, m *Manifest, dir string) (listview.Rows, error) {
	return source.LoadSQLite(ctx, m.ResolvedPath(dir), m.Query)
}

func openCommand(_ context.Context, m *Manifest, _ string) (listview.Rows, error) {
	return source.StartCommand(m.Argv(), 80, 24)
}

// RegisterOpener replaces how views of kind are opened.
func (r *Registry) RegisterOpener(kind SourceKind, opener Opener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.openers[kind] = opener
	log.Printf("Registry: Registered opener for '%s'", kind)
}

// RegisterBuiltIn registers a view compiled into the binary.
// Built-in views have priority over scanned views with the same name.
func (r *Registry) RegisterBuiltIn(manifest *Manifest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if manifest.DisplayName == "" {
		manifest.DisplayName = manifest.Name
	}
	r.builtIn[manifest.Name] = &ViewEntry{Manifest: manifest}
	log.Printf("Registry: Registered built-in view '%s'", manifest.Name)
}

// Scan searches for views in the given directory.
// Each subdirectory should contain a manifest.json file.
func (r *Registry) Scan(baseDir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Clear scanned views (keep built-ins)
	r.views = make(map[string]*ViewEntry)

	if _, err := os.Stat(baseDir); os.IsNotExist(err) {
		log.Printf("Registry: View directory does not exist: %s", baseDir)
		return nil
	}

	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return fmt.Errorf("read view directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		viewDir := filepath.Join(baseDir, entry.Name())
		if err := r.loadView(viewDir); err != nil {
			log.Printf("Registry: Failed to load view from %s: %v", viewDir, err)
		}
	}

	log.Printf("Registry: Loaded %d views, %d built-in views", len(r.views), len(r.builtIn))
	return nil
}

// loadView attempts to load a single view from a directory.
func (r *Registry) loadView(dir string) error {
	manifest, err := LoadManifest(dir)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}

	if err := manifest.Validate(dir); err != nil {
		return fmt.Errorf("validate manifest: %w", err)
	}

	r.views[manifest.Name] = &ViewEntry{
		Manifest: manifest,
		Dir:      dir,
	}

	log.Printf("Registry: Loaded %s view '%s' (%s) from %s",
		manifest.Kind, manifest.Name, manifest.DisplayName, dir)
	return nil
}

// Get retrieves a view entry by name.
// Returns nil if the view doesn't exist.
func (r *Registry) Get(name string) *ViewEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if entry, ok := r.builtIn[name]; ok {
		return entry
	}
	return r.views[name]
}

// List returns all views sorted by display name.
func (r *Registry) List() []*ViewEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*ViewEntry
	for _, entry := range r.builtIn {
		entries = append(entries, entry)
	}
	for name, entry := range r.views {
		if _, shadowed := r.builtIn[name]; shadowed {
			continue
		}
		entries = append(entries, entry)
	}

	sortEntries(entries)
	return entries
}

// ListByCategory returns views grouped by category.
func (r *Registry) ListByCategory() map[string][]*ViewEntry {
	categories := make(map[string][]*ViewEntry)
	for _, entry := range r.List() {
		category := entry.Manifest.Category
		if category == "" {
			category = "other"
		}
		categories[category] = append(categories[category], entry)
	}
	for _, entries := range categories {
		sortEntries(entries)
	}
	return categories
}

func sortEntries(entries []*ViewEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Manifest.DisplayName != entries[j].Manifest.DisplayName {
			return entries[i].Manifest.DisplayName < entries[j].Manifest.DisplayName
		}
		return entries[i].Manifest.Name < entries[j].Manifest.Name
	})
}

// Open loads the rows of the named view.
func (r *Registry) Open(ctx context.Context, name string) (listview.Rows, error) {
	entry := r.Get(name)
	if entry == nil {
		return nil, fmt.Errorf("view not found: %s", name)
	}

	r.mu.RLock()
	opener, ok := r.openers[entry.Manifest.Kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("view %s: no opener for kind %q", name, entry.Manifest.Kind)
	}

	rows, err := opener(ctx, entry.Manifest, entry.Dir)
	if err != nil {
		return nil, fmt.Errorf("open view %s: %w", name, err)
	}
	return rows, nil
}

// Count returns the total number of views.
func (r *Registry) Count() int {
	return len(r.List())
}
