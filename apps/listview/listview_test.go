// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package listview

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framegrace/texelvirt/config"
	"github.com/framegrace/texelvirt/scroll"
	"github.com/framegrace/texelvirt/source"
	"github.com/framegrace/texelvirt/texel"
)

// stepScheduler queues callbacks until settle runs them on the test
// goroutine.
type stepScheduler struct {
	mu    sync.Mutex
	queue []*stepTimer
}

type stepTimer struct {
	fn      func()
	stopped bool
	fired   bool
}

func (t *stepTimer) Stop() bool {
	pending := !t.stopped && !t.fired
	t.stopped = true
	return pending
}

func (s *stepScheduler) AfterFunc(_ time.Duration, fn func()) scroll.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &stepTimer{fn: fn}
	s.queue = append(s.queue, t)
	return t
}

func (s *stepScheduler) settle(t *testing.T) {
	t.Helper()
	for round := 0; round < 100; round++ {
		s.mu.Lock()
		q := s.queue
		s.queue = nil
		s.mu.Unlock()
		if len(q) == 0 {
			return
		}
		for _, tm := range q {
			if !tm.stopped {
				tm.fired = true
				tm.fn()
			}
		}
	}
	t.Fatal("scheduler did not settle")
}

func testSettings() config.ListViewSettings {
	return config.ListViewSettings{
		Scroll: scroll.Config{
			DefaultHeight: 1,
			Hysteresis:    0.5,
			HeaderHeight:  1,
			FooterHeight:  1,
		},
		Wrap:        true,
		SampleLines: 10,
		WheelLines:  3,
	}
}

func numbered(n int, format string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf(format, i)
	}
	return out
}

func newTestApp(t *testing.T, rows Rows) (*App, *stepScheduler) {
	t.Helper()
	sched := &stepScheduler{}
	app, err := New(rows, testSettings(), sched)
	require.NoError(t, err)
	return app, sched
}

func rowText(row []texel.Cell) string {
	var b strings.Builder
	for _, c := range row {
		if c.Ch != 0 {
			b.WriteRune(c.Ch)
		}
	}
	return b.String()
}

func typeKeys(app *App, s string) {
	for _, r := range s {
		app.HandleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func TestRender_ShowsBannerRowsAndStatus(t *testing.T) {
	app, sched := newTestApp(t, source.NewLines("notes", numbered(100, "line %d")))
	app.Resize(40, 11)
	sched.settle(t)

	w := app.Controller().Window()
	assert.Equal(t, 0, w.Start)
	assert.Equal(t, 14, w.End)

	buf := app.Render()
	require.Len(t, buf, 11)
	assert.Equal(t, " notes", strings.TrimRight(rowText(buf[0]), " "))
	assert.True(t, strings.HasPrefix(rowText(buf[1]), "  1 line 0"), rowText(buf[1]))
	assert.True(t, strings.HasPrefix(rowText(buf[9]), "  9 line 8"), rowText(buf[9]))

	status := rowText(buf[10])
	assert.Contains(t, status, "rows 1–14 of 100")
	assert.True(t, strings.HasSuffix(status, "Top "), status)
}

func TestRender_WrapsLongRowsAfterMeasurement(t *testing.T) {
	rows := numbered(20, "row %d")
	rows[0] = strings.Repeat("x", 80)
	app, sched := newTestApp(t, source.NewLines("wide", rows))
	app.Resize(40, 11)
	sched.settle(t)

	// Two digit gutter plus separator leaves 37 cells per line.
	assert.Equal(t, 3.0, app.Controller().Height(0))
	assert.Equal(t, 1.0, app.Controller().Height(1))

	buf := app.Render()
	assert.Equal(t, " 1 "+strings.Repeat("x", 37), rowText(buf[1]))
	assert.Equal(t, "   "+strings.Repeat("x", 37), rowText(buf[2]))
	assert.True(t, strings.HasPrefix(rowText(buf[3]), "   xxxxxx "), rowText(buf[3]))
	assert.True(t, strings.HasPrefix(rowText(buf[4]), " 2 row 1"), rowText(buf[4]))
}

func TestResize_WidthChangeRemeasures(t *testing.T) {
	rows := numbered(20, "row %d")
	rows[0] = strings.Repeat("x", 80)
	app, sched := newTestApp(t, source.NewLines("wide", rows))
	app.Resize(40, 11)
	sched.settle(t)
	require.Equal(t, 3.0, app.Controller().Height(0))

	app.Resize(90, 11)
	sched.settle(t)
	assert.Equal(t, 1.0, app.Controller().Height(0))
}

func TestGrowingSource_GutterWidthChangeRemeasures(t *testing.T) {
	rows := numbered(99, "row %d")
	rows[0] = strings.Repeat("x", 74)
	lines := source.NewLines("wide", rows)
	app, sched := newTestApp(t, lines)
	app.Resize(40, 11)
	sched.settle(t)
	// Two digit gutter: 37 cells per line.
	require.Equal(t, 2.0, app.Controller().Height(0))

	typeKeys(app, "G")
	sched.settle(t)
	require.Greater(t, app.Controller().Window().Start, 0)

	// Row 100 widens the gutter, so row 0 no longer fits in two lines.
	lines.Append("row 99")
	sched.settle(t)
	assert.Equal(t, 1.0, app.Controller().Height(0), "stale height kept after gutter change")

	typeKeys(app, "g")
	sched.settle(t)
	assert.Equal(t, 3.0, app.Controller().Height(0))
}

func TestKeys_EndShowsLastRowsAndFooter(t *testing.T) {
	app, sched := newTestApp(t, source.NewLines("notes", numbered(100, "line %d")))
	app.Resize(40, 11)
	sched.settle(t)

	app.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'G', tcell.ModNone))
	sched.settle(t)

	// Sheet is 1 + 100 + 1 lines with 10 on screen.
	assert.Equal(t, 92.0, app.ScrollTop())
	w := app.Controller().Window()
	assert.Equal(t, 86, w.Start)
	assert.Equal(t, 100, w.End)

	buf := app.Render()
	assert.True(t, strings.HasPrefix(rowText(buf[8]), "100 line 99"), rowText(buf[8]))
	assert.True(t, strings.HasPrefix(rowText(buf[9]), " (end · 100 rows)"), rowText(buf[9]))
	assert.True(t, strings.HasSuffix(rowText(buf[10]), "Bot "), rowText(buf[10]))

	app.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'g', tcell.ModNone))
	sched.settle(t)
	assert.Equal(t, 0.0, app.ScrollTop())
}

func TestKeys_ScrollClampsToSheet(t *testing.T) {
	app, sched := newTestApp(t, source.NewLines("notes", numbered(100, "line %d")))
	app.Resize(40, 11)
	sched.settle(t)

	app.HandleKey(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
	assert.Equal(t, 0.0, app.ScrollTop())

	app.HandleKey(tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone))
	assert.Equal(t, 10.0, app.ScrollTop())

	for i := 0; i < 20; i++ {
		app.HandleKey(tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone))
	}
	assert.Equal(t, 92.0, app.ScrollTop())
	sched.settle(t)
}

func TestMouse_WheelScrolls(t *testing.T) {
	app, sched := newTestApp(t, source.NewLines("notes", numbered(100, "line %d")))
	app.Resize(40, 11)
	sched.settle(t)

	app.HandleMouse(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	app.HandleMouse(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	app.HandleMouse(tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone))
	assert.Equal(t, 3.0, app.ScrollTop())
}

func TestSearch_JumpsToMatchingRow(t *testing.T) {
	app, sched := newTestApp(t, source.NewLines("notes", numbered(100, "line %d")))
	app.Resize(40, 11)
	sched.settle(t)

	typeKeys(app, "/LINE 42")
	status := rowText(app.Render()[10])
	assert.True(t, strings.HasPrefix(status, "/LINE 42"), status)

	app.HandleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	sched.settle(t)

	assert.Equal(t, app.Controller().OffsetOf(42), app.ScrollTop())
	assert.Equal(t, 43.0, app.ScrollTop())

	buf := app.Render()
	assert.True(t, strings.HasPrefix(rowText(buf[0]), " 43 line 42"), rowText(buf[0]))
	_, bg, _ := buf[0][4].Style.Decompose()
	assert.Equal(t, tcell.ColorYellow, bg)
}

func TestSearch_NotFound(t *testing.T) {
	app, sched := newTestApp(t, source.NewLines("notes", numbered(10, "line %d")))
	app.Resize(40, 11)
	sched.settle(t)

	typeKeys(app, "/zzz")
	app.HandleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))

	assert.Contains(t, rowText(app.Render()[10]), "pattern not found")
	assert.Equal(t, 0.0, app.ScrollTop())
}

// process is a growing list fed by a fake process.
type process struct {
	*source.Lines
	done chan struct{}
}

func (p *process) Done() <-chan struct{} { return p.done }
func (p *process) Wait() error           { return nil }

func TestGrowingSource_FollowsTail(t *testing.T) {
	p := &process{Lines: source.NewLines("tail", nil), done: make(chan struct{})}
	app, sched := newTestApp(t, p)
	app.Resize(40, 11)
	sched.settle(t)

	p.Append(numbered(30, "out %d")...)
	sched.settle(t)

	assert.Equal(t, 22.0, app.ScrollTop())
	w := app.Controller().Window()
	assert.Equal(t, 16, w.Start)
	assert.Equal(t, 30, w.End)
	assert.Contains(t, rowText(app.Render()[10]), "[follow]")

	// Scrolling up stops following.
	app.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModNone))
	p.Append("more")
	sched.settle(t)
	assert.Equal(t, 21.0, app.ScrollTop())
	assert.Equal(t, 31, app.Controller().Len())
}

func TestRun_ReportsProcessExitAndStops(t *testing.T) {
	p := &process{Lines: source.NewLines("tail", []string{"a"}), done: make(chan struct{})}
	app, sched := newTestApp(t, p)
	app.Resize(40, 5)
	sched.settle(t)

	runErr := make(chan error, 1)
	go func() { runErr <- app.Run() }()

	close(p.done)
	require.Eventually(t, func() bool {
		return strings.Contains(rowText(app.Render()[4]), "process exited")
	}, time.Second, 10*time.Millisecond)

	app.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	select {
	case err := <-runErr:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after q")
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	settings := testSettings()
	settings.Scroll.Hysteresis = 2
	_, err := New(source.NewLines("x", nil), settings, &stepScheduler{})
	assert.ErrorIs(t, err, scroll.ErrInvalidConfig)
}
