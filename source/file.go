// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: source/file.go
// Summary: Loads a text file as rows.

package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxLineBytes bounds a single row; longer lines are split.
const maxLineBytes = 1 << 20

// LoadFile reads path into rows, one per line.
func LoadFile(path string) (*Lines, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return NewLines(filepath.Base(path), lines), nil
}

// ReadLines splits r into rows, dropping carriage returns and expanding tabs.
func ReadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	var lines []string
	for sc.Scan() {
		lines = append(lines, cleanLine(sc.Text()))
	}
	return lines, sc.Err()
}

func cleanLine(s string) string {
	s = strings.TrimRight(s, "\r")
	return strings.ReplaceAll(s, "\t", "    ")
}
