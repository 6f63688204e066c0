// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/listview/listview.go
// Summary: Full-screen viewer for long row lists built on scroll.Controller.
//
// Architecture:
//
//	The sheet is header + rows + footer, measured in screen lines. One
//	status line below the sheet is not part of it. The controller decides
//	which rows are materialized; Render only draws the published slice.
//	Row heights start at the configured estimate and are replaced by the
//	wrapped line count once the controller asks for a measurement.

package listview

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/framegrace/texelvirt/config"
	"github.com/framegrace/texelvirt/scroll"
	"github.com/framegrace/texelvirt/texel"
)

// Rows is the list shown by the app.
type Rows interface {
	scroll.Source[string]
	Name() string
	Title() string
	Sample(n int) string
}

// growing is implemented by lists that gain rows while shown.
type growing interface {
	SetNotify(fn func())
}

// finishing is implemented by lists fed by a process.
type finishing interface {
	Done() <-chan struct{}
	Wait() error
}

// stopper is implemented by lists that own a process.
type stopper interface {
	Stop()
}

// resizer is implemented by lists whose producer wants the screen size.
type resizer interface {
	Resize(cols, rows int)
}

// App renders Rows and forwards scroll input to its controller.
type App struct {
	rows     Rows
	settings config.ListViewSettings
	ctrl     *scroll.Controller[string]
	hl       *highlighter

	mu        sync.Mutex
	width     int
	height    int
	// measuredWidth is the content width stored heights were wrapped at.
	measuredWidth int
	slice     scroll.Slice[string]
	scrollTop float64
	follow    bool
	searching bool
	query     []rune
	message   string
	buf       [][]texel.Cell

	refreshChan chan<- bool
	stop        chan struct{}
	stopOnce    sync.Once
}

var _ texel.App = (*App)(nil)

// New creates an app for rows. sched delivers the controller's coalesced
// work; pass the host's UI scheduler so callbacks run on its loop.
func New(rows Rows, settings config.ListViewSettings, sched scroll.Scheduler) (*App, error) {
	if rows == nil {
		return nil, errors.New("listview: no rows")
	}
	a := &App{
		rows:     rows,
		settings: settings,
		stop:     make(chan struct{}),
	}
	ctrl, err := scroll.NewController[string](rows, scroll.Funcs[string]{
		OnSlice:   a.onSlice,
		OnMeasure: a.measure,
	}, settings.Scroll,
		scroll.WithScheduler(sched),
		scroll.WithInvariantChecks(settings.InvariantChecks),
	)
	if err != nil {
		return nil, fmt.Errorf("listview: %w", err)
	}
	a.ctrl = ctrl

	if settings.Highlight {
		a.hl = newHighlighter(rows.Name(), rows.Sample(settings.SampleLines), settings.Style)
	}
	if g, ok := rows.(growing); ok {
		g.SetNotify(a.onRowsAppended)
	}
	if _, ok := rows.(finishing); ok {
		a.follow = true
	}
	return a, nil
}

// Controller exposes the underlying controller.
func (a *App) Controller() *scroll.Controller[string] {
	return a.ctrl
}

func (a *App) GetTitle() string {
	return a.rows.Name()
}

func (a *App) SetRefreshNotifier(refreshChan chan<- bool) {
	a.mu.Lock()
	a.refreshChan = refreshChan
	a.mu.Unlock()
}

// Run blocks until Stop. Lists fed by a process report its exit in the
// status line, and the process is killed on Stop.
func (a *App) Run() error {
	var done <-chan struct{}
	f, isFinishing := a.rows.(finishing)
	if isFinishing {
		done = f.Done()
	}
	for {
		select {
		case <-a.stop:
			a.ctrl.Close()
			if s, ok := a.rows.(stopper); ok {
				s.Stop()
			}
			return nil
		case <-done:
			done = nil
			msg := "process exited"
			if err := f.Wait(); err != nil {
				msg = fmt.Sprintf("process exited: %v", err)
			}
			a.mu.Lock()
			a.message = msg
			a.mu.Unlock()
			a.requestRefresh()
		}
	}
}

func (a *App) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
}

// Resize sets the screen size. A content width change invalidates every
// measured height, since wrapping depends on it.
func (a *App) Resize(cols, rows int) {
	a.mu.Lock()
	a.width, a.height = cols, rows
	widthChanged := a.syncContentWidthLocked()
	follow := a.follow
	contentWidth, viewHeight := a.contentWidthLocked(), a.viewHeightLocked()
	a.mu.Unlock()

	if r, ok := a.rows.(resizer); ok {
		r.Resize(contentWidth, viewHeight)
	}
	if widthChanged {
		a.ctrl.OnListReplaced()
	}
	if follow {
		a.scrollToBottom()
		return
	}
	a.scrollTo(a.ScrollTop())
}

// ScrollTop returns the sheet offset of the first screen line.
func (a *App) ScrollTop() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scrollTop
}

// viewHeightLocked is the number of sheet lines on screen.
func (a *App) viewHeightLocked() int {
	return max(a.height-1, 0)
}

func (a *App) contentWidthLocked() int {
	return ContentWidth(a.width, a.rows.Len())
}

// syncContentWidthLocked records the content width and reports whether it
// moved since rows were last measured. The gutter grows with the row count,
// so appending can narrow the content as well as resizing.
func (a *App) syncContentWidthLocked() bool {
	if a.width <= 0 {
		return false
	}
	cw := a.contentWidthLocked()
	changed := a.measuredWidth != 0 && cw != a.measuredWidth
	a.measuredWidth = cw
	return changed
}

// scrollTo clamps top to the sheet and reports it to the controller.
func (a *App) scrollTo(top float64) {
	a.mu.Lock()
	vh := float64(a.viewHeightLocked())
	a.mu.Unlock()

	bottom := math.Max(a.ctrl.TotalHeight()-vh, 0)
	top = math.Min(math.Max(math.Round(top), 0), bottom)

	a.mu.Lock()
	a.scrollTop = top
	a.follow = top >= bottom
	a.mu.Unlock()

	a.ctrl.OnScroll(top, vh)
	a.requestRefresh()
}

func (a *App) scrollBy(delta float64) {
	a.scrollTo(a.ScrollTop() + delta)
}

func (a *App) scrollToBottom() {
	a.scrollTo(math.Inf(1))
}

// JumpTo scrolls row i to the top of the screen.
func (a *App) JumpTo(i int) {
	a.scrollTo(a.ctrl.OffsetOf(i))
}

func (a *App) onSlice(s scroll.Slice[string]) {
	a.mu.Lock()
	a.slice = s
	a.mu.Unlock()
	a.requestRefresh()
}

// measure answers a measurement request with the wrapped line count of
// each row at the current width.
func (a *App) measure(start, end int) {
	a.mu.Lock()
	if a.width <= 0 {
		a.mu.Unlock()
		return
	}
	width := a.contentWidthLocked()
	a.mu.Unlock()

	heights := Measure(a.rows.Slice(start, end), width, a.settings.Wrap)
	a.ctrl.OnMeasuredRange(start, heights)
}

func (a *App) onRowsAppended() {
	a.mu.Lock()
	widthChanged := a.syncContentWidthLocked()
	follow := a.follow
	a.mu.Unlock()

	if widthChanged {
		a.ctrl.OnListReplaced()
	} else {
		a.ctrl.OnListChanged()
	}
	if follow {
		a.scrollToBottom()
		return
	}
	a.requestRefresh()
}

func (a *App) requestRefresh() {
	a.mu.Lock()
	ch := a.refreshChan
	a.mu.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- true:
	default:
	}
}
