// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/listview/render.go
// Summary: Draws the header banner, the published slice, the footer and
// the status line into a cell buffer.

package listview

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/texelvirt/texel"
)

var (
	bannerStyle = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	ruleStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	gutterStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	matchStyle  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	statusStyle = tcell.StyleDefault.Reverse(true)
)

// frame is the state one Render works from.
type frame struct {
	width, height int
	top           int
	slice         []string
	start         int
	offset        float64
	total         float64
	query         string
}

func (a *App) Render() [][]texel.Cell {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.width <= 0 || a.height <= 0 {
		return [][]texel.Cell{}
	}
	if len(a.buf) != a.height || len(a.buf[0]) != a.width {
		a.buf = make([][]texel.Cell, a.height)
		for y := range a.buf {
			a.buf[y] = make([]texel.Cell, a.width)
		}
	}
	for y := range a.buf {
		for x := range a.buf[y] {
			a.buf[y][x] = texel.Cell{Ch: ' ', Style: tcell.StyleDefault}
		}
	}

	f := frame{
		width:  a.width,
		height: a.viewHeightLocked(),
		top:    int(a.scrollTop),
		slice:  a.slice.Rows,
		start:  a.slice.Start,
		offset: a.slice.Offset,
		total:  a.slice.TotalHeight,
	}
	if !a.searching && len(a.query) > 0 {
		f.query = string(a.query)
	}

	cfg := a.settings.Scroll
	header := lines(cfg.HeaderHeight)
	footer := lines(cfg.FooterHeight)

	for y := 0; y < header; y++ {
		a.drawBannerLocked(f, y)
	}
	a.drawRowsLocked(f, header)
	if len(f.slice) > 0 || a.rows.Len() == 0 {
		rowsTotal := lines(f.total - cfg.HeaderHeight - cfg.FooterHeight)
		for k := 0; k < footer; k++ {
			a.drawFooterLocked(f, header+rowsTotal+k, k)
		}
	}
	a.drawStatusLocked(f)
	return a.buf
}

func lines(v float64) int {
	return max(int(math.Round(v)), 0)
}

// put writes s at screen line sy starting at x and returns the next column.
func (a *App) put(sy, x int, s string, style tcell.Style) int {
	if sy < 0 || sy >= len(a.buf) {
		return x
	}
	row := a.buf[sy]
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > len(row) {
			break
		}
		row[x] = texel.Cell{Ch: r, Style: style}
		for k := 1; k < w; k++ {
			row[x+k] = texel.Cell{Ch: 0, Style: style}
		}
		x += w
	}
	return x
}

func (a *App) drawBannerLocked(f frame, y int) {
	sy := y - f.top
	if sy < 0 || sy >= f.height {
		return
	}
	if y > 0 {
		a.put(sy, 0, strings.Repeat("─", f.width), ruleStyle)
		return
	}
	title := a.rows.Title()
	if title == "" {
		title = a.rows.Name()
	}
	a.put(sy, 0, " "+title, bannerStyle)
}

func (a *App) drawRowsLocked(f frame, header int) {
	width := ContentWidth(f.width, a.rows.Len())
	digits := gutterWidth(a.rows.Len()) - 1
	y := header + int(math.Round(f.offset))

	for k, row := range f.slice {
		i := f.start + k
		if y-f.top >= f.height {
			break
		}
		rs := []rune(row)
		segs := wrapRunes(rs, width, a.settings.Wrap)
		if y+len(segs) <= f.top {
			y += len(segs)
			continue
		}

		styles := a.hl.styles(i, rs)
		if f.query != "" {
			markMatches(rs, styles, f.query)
		}
		for n, seg := range segs {
			sy := y + n - f.top
			if sy < 0 || sy >= f.height {
				continue
			}
			if n == 0 {
				num := strconv.Itoa(i + 1)
				a.put(sy, digits-len(num), num, gutterStyle)
			}
			x := digits + 1
			for p := seg.start; p < seg.end; p++ {
				x = a.put(sy, x, string(rs[p]), styles[p])
			}
		}
		y += len(segs)
	}
}

// markMatches paints every case-insensitive occurrence of query.
func markMatches(rs []rune, styles []tcell.Style, query string) {
	hay := []rune(strings.ToLower(string(rs)))
	needle := []rune(strings.ToLower(query))
	if len(hay) != len(rs) || len(needle) == 0 {
		return
	}
	for p := 0; p+len(needle) <= len(hay); p++ {
		if string(hay[p:p+len(needle)]) == string(needle) {
			for k := p; k < p+len(needle); k++ {
				styles[k] = matchStyle
			}
		}
	}
}

func (a *App) drawFooterLocked(f frame, y, k int) {
	sy := y - f.top
	if sy < 0 || sy >= f.height {
		return
	}
	if k > 0 {
		a.put(sy, 0, strings.Repeat("─", f.width), ruleStyle)
		return
	}
	a.put(sy, 0, fmt.Sprintf(" (end · %s rows)", humanize.Comma(int64(a.rows.Len()))), ruleStyle)
}

func (a *App) drawStatusLocked(f frame) {
	sy := a.height - 1
	row := a.buf[sy]
	for x := range row {
		row[x] = texel.Cell{Ch: ' ', Style: statusStyle}
	}
	if a.searching {
		a.put(sy, 0, "/"+string(a.query), statusStyle)
		return
	}
	left := " " + a.statusLocked(f)
	right := a.positionLocked(f) + " "
	x := a.put(sy, 0, left, statusStyle)
	if rx := f.width - runewidth.StringWidth(right); rx > x {
		a.put(sy, rx, right, statusStyle)
	}
}

func (a *App) statusLocked(f frame) string {
	var b strings.Builder
	b.WriteString(a.rows.Name())
	n := a.rows.Len()
	if len(f.slice) > 0 {
		fmt.Fprintf(&b, "  rows %s–%s of %s",
			humanize.Comma(int64(f.start+1)),
			humanize.Comma(int64(f.start+len(f.slice))),
			humanize.Comma(int64(n)))
	} else {
		fmt.Fprintf(&b, "  %s rows", humanize.Comma(int64(n)))
	}
	if lang := a.hl.Language(); lang != "" {
		b.WriteString("  " + lang)
	}
	if _, ok := a.rows.(finishing); ok && a.follow {
		b.WriteString("  [follow]")
	}
	if a.message != "" {
		b.WriteString("  " + a.message)
	}
	return b.String()
}

// positionLocked reports where the screen sits in the sheet, less style.
func (a *App) positionLocked(f frame) string {
	bottom := f.total - float64(f.height)
	switch {
	case bottom <= 0:
		return "All"
	case a.scrollTop <= 0:
		return "Top"
	case a.scrollTop >= bottom:
		return "Bot"
	default:
		return fmt.Sprintf("%d%%", int(a.scrollTop*100/bottom))
	}
}
