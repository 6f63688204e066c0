// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/listview/wrap.go
// Summary: Cell-width aware row wrapping; a row's height is its line count.

package listview

import (
	"strconv"

	"github.com/mattn/go-runewidth"
)

// segment is a half-open rune range of a row that fits one screen line.
type segment struct {
	start, end int
}

// wrapRunes splits rs into screen lines of at most width cells. Wide runes
// are never split across lines. An empty row still takes one line.
func wrapRunes(rs []rune, width int, wrap bool) []segment {
	if len(rs) == 0 || !wrap {
		return []segment{{0, len(rs)}}
	}
	width = max(width, 1)

	var segs []segment
	start, used := 0, 0
	for i, r := range rs {
		w := runewidth.RuneWidth(r)
		if used+w > width && i > start {
			segs = append(segs, segment{start, i})
			start, used = i, 0
		}
		used += w
	}
	return append(segs, segment{start, len(rs)})
}

// rowHeight returns how many screen lines row s takes at width.
func rowHeight(s string, width int, wrap bool) int {
	if !wrap || runewidth.StringWidth(s) <= max(width, 1) {
		return 1
	}
	return len(wrapRunes([]rune(s), width, wrap))
}

// gutterWidth is the width of the line number column plus its separator.
func gutterWidth(rows int) int {
	return len(strconv.Itoa(max(rows, 1))) + 1
}

// ContentWidth is the cells left for row text on a screen of width cells
// showing a list of n rows.
func ContentWidth(width, n int) int {
	return max(width-gutterWidth(n), 1)
}

// Measure returns the height of each row in screen lines.
func Measure(rows []string, width int, wrap bool) []float64 {
	heights := make([]float64, len(rows))
	for i, r := range rows {
		heights[i] = float64(rowHeight(r, width, wrap))
	}
	return heights
}
