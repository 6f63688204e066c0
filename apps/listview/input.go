// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/listview/input.go
// Summary: Key, mouse and search handling.

package listview

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

func (a *App) HandleKey(ev *tcell.EventKey) {
	a.mu.Lock()
	searching := a.searching
	page := float64(max(a.viewHeightLocked(), 1))
	a.mu.Unlock()

	if searching {
		a.handleSearchKey(ev)
		return
	}

	switch ev.Key() {
	case tcell.KeyUp:
		a.scrollBy(-1)
	case tcell.KeyDown, tcell.KeyEnter:
		a.scrollBy(1)
	case tcell.KeyPgUp, tcell.KeyCtrlB:
		a.scrollBy(-page)
	case tcell.KeyPgDn, tcell.KeyCtrlF:
		a.scrollBy(page)
	case tcell.KeyCtrlU:
		a.scrollBy(-page / 2)
	case tcell.KeyCtrlD:
		a.scrollBy(page / 2)
	case tcell.KeyHome:
		a.scrollTo(0)
	case tcell.KeyEnd:
		a.scrollToBottom()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k':
			a.scrollBy(-1)
		case 'j':
			a.scrollBy(1)
		case 'b':
			a.scrollBy(-page)
		case ' ', 'f':
			a.scrollBy(page)
		case 'g':
			a.scrollTo(0)
		case 'G':
			a.scrollToBottom()
		case '/':
			a.mu.Lock()
			a.searching = true
			a.query = a.query[:0]
			a.message = ""
			a.mu.Unlock()
			a.requestRefresh()
		case 'n':
			a.searchNext()
		case 'q':
			a.Stop()
		}
	}
}

func (a *App) handleSearchKey(ev *tcell.EventKey) {
	a.mu.Lock()
	switch ev.Key() {
	case tcell.KeyEscape:
		a.searching = false
		a.query = a.query[:0]
		a.mu.Unlock()
		a.requestRefresh()
		return
	case tcell.KeyEnter:
		a.searching = false
		a.mu.Unlock()
		a.searchNext()
		return
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.query) > 0 {
			a.query = a.query[:len(a.query)-1]
		}
	case tcell.KeyRune:
		a.query = append(a.query, ev.Rune())
	}
	a.mu.Unlock()
	a.requestRefresh()
}

// searchNext jumps to the first row below the top of the screen that
// contains the query, wrapping around to the start.
func (a *App) searchNext() {
	a.mu.Lock()
	query := strings.ToLower(string(a.query))
	top := a.scrollTop
	a.mu.Unlock()
	if query == "" {
		return
	}

	n := a.rows.Len()
	from := a.ctrl.RowAt(top) + 1
	from = min(max(from, 0), n)
	for k := 0; k < n; k++ {
		i := (from + k) % n
		row := a.rows.Slice(i, i+1)
		if len(row) == 1 && strings.Contains(strings.ToLower(row[0]), query) {
			a.JumpTo(i)
			return
		}
	}
	a.mu.Lock()
	a.message = "pattern not found"
	a.mu.Unlock()
	a.requestRefresh()
}

// HandleMouse scrolls on wheel events.
func (a *App) HandleMouse(ev *tcell.EventMouse) {
	step := float64(a.settings.WheelLines)
	switch {
	case ev.Buttons()&tcell.WheelUp != 0:
		a.scrollBy(-step)
	case ev.Buttons()&tcell.WheelDown != 0:
		a.scrollBy(step)
	}
}
