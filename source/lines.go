// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: source/lines.go
// Summary: Lines is a growable, thread-safe list of text rows.
// Usage: Backing store for every row source; satisfies scroll.Source[string].

package source

import (
	"strings"
	"sync"
)

// Lines holds text rows. Producers append from any goroutine; the notify
// hook tells the owner that the length changed.
type Lines struct {
	mu     sync.RWMutex
	name   string
	title  string
	lines  []string
	notify func()
}

// NewLines creates a list named name (a file name or label used for
// language detection and the banner).
func NewLines(name string, lines []string) *Lines {
	return &Lines{name: name, lines: lines}
}

// Name returns the source name.
func (l *Lines) Name() string {
	return l.name
}

// Title returns an optional banner line such as column names.
func (l *Lines) Title() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.title
}

// SetTitle sets the banner line.
func (l *Lines) SetTitle(title string) {
	l.mu.Lock()
	l.title = title
	l.mu.Unlock()
}

// Len returns the number of rows.
func (l *Lines) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.lines)
}

// Line returns row i, or "" when out of range.
func (l *Lines) Line(i int) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.lines) {
		return ""
	}
	return l.lines[i]
}

// Slice returns a copy of rows [start, end), clamped to the list.
func (l *Lines) Slice(start, end int) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	start = max(start, 0)
	end = min(end, len(l.lines))
	if start >= end {
		return nil
	}
	out := make([]string, end-start)
	copy(out, l.lines[start:end])
	return out
}

// Sample joins up to n leading rows, for content sniffing.
func (l *Lines) Sample(n int) string {
	return strings.Join(l.Slice(0, n), "\n")
}

// Append adds rows and fires the notify hook.
func (l *Lines) Append(lines ...string) {
	if len(lines) == 0 {
		return
	}
	l.mu.Lock()
	l.lines = append(l.lines, lines...)
	notify := l.notify
	l.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// SetNotify installs the hook called after rows are appended.
func (l *Lines) SetNotify(fn func()) {
	l.mu.Lock()
	l.notify = fn
	l.mu.Unlock()
}
