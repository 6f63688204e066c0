// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/app.go
// Summary: Contract between hosted apps and the screen runner.

package texel

import "github.com/gdamore/tcell/v2"

// Cell is one rendered screen cell.
type Cell struct {
	Ch    rune
	Style tcell.Style
}

// App is a full-screen program driven by a runner.
type App interface {
	Run() error
	Stop()
	Resize(cols, rows int)
	Render() [][]Cell
	GetTitle() string
	HandleKey(ev *tcell.EventKey)
	SetRefreshNotifier(refreshChan chan<- bool)
}

// MouseHandler is implemented by apps that accept mouse input.
type MouseHandler interface {
	HandleMouse(ev *tcell.EventMouse)
}

// PasteHandler is implemented by apps that accept bracketed paste.
type PasteHandler interface {
	HandlePaste(data []byte)
}
