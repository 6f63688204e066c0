// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scroll/controller.go
// Summary: Controller owns the window state of a virtualized list.
//
// Architecture:
//
//	Controller is the single writer of the height index and window state.
//	Hosts report events to it and receive two callbacks:
//
//	  - VisibleSlice: the rows to render and their offset in the sheet
//	  - RequestMeasure: ask the host to measure the rendered rows and report
//	    real heights back through OnMeasured
//
//	List, scroll, resize, config and measurement events all funnel into one
//	coalescing gate, so a burst of events costs a single Redraw with the
//	latest inputs. RequestMeasure goes through a second gate with no quiet
//	period, which runs after the host had a chance to render the slice.
//
//	Measurements and list changes mark the geometry dirty. The next Redraw
//	then recomputes both boundaries instead of trusting cached offsets.
//
// Thread-safety:
//
//	State is guarded by a mutex. Listener callbacks are never invoked with
//	the mutex held, so a listener may call back into the controller.

package scroll

import (
	"log"
	"sync"

	"github.com/framegrace/texelvirt/heightindex"
	"github.com/framegrace/texelvirt/window"
)

// Source is the caller-owned row list.
type Source[R any] interface {
	Len() int
	Slice(start, end int) []R
}

// Slice is a published window: rows [Start, End) to render, translated by
// Offset within a sheet of TotalHeight.
type Slice[R any] struct {
	Start       int
	End         int
	Offset      float64
	TotalHeight float64
	Rows        []R
}

// Listener receives controller output.
type Listener[R any] interface {
	VisibleSlice(s Slice[R])
	RequestMeasure(start, end int)
}

// Funcs adapts plain functions to Listener. Nil fields are skipped.
type Funcs[R any] struct {
	OnSlice   func(Slice[R])
	OnMeasure func(start, end int)
}

func (f Funcs[R]) VisibleSlice(s Slice[R]) {
	if f.OnSlice != nil {
		f.OnSlice(s)
	}
}

func (f Funcs[R]) RequestMeasure(start, end int) {
	if f.OnMeasure != nil {
		f.OnMeasure(start, end)
	}
}

type options struct {
	sched  Scheduler
	checks bool
}

// Option configures a Controller.
type Option func(*options)

// WithScheduler sets the scheduler used by the coalescing gates.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.sched = s
		}
	}
}

// WithInvariantChecks cross-checks the index over each new window and logs
// disagreements.
func WithInvariantChecks(enabled bool) Option {
	return func(o *options) { o.checks = enabled }
}

// Controller drives the visible window of one list.
type Controller[R any] struct {
	src      Source[R]
	listener Listener[R]
	checks   bool

	cfg  Config
	idx  *heightindex.Index
	calc window.Calculator
	win  window.Window

	scrollTop    float64
	screenHeight float64

	// dirty forces the next Redraw to ignore cached boundary offsets.
	dirty  bool
	closed bool

	redrawGate  *Coalescer
	measureGate *Coalescer

	mu sync.Mutex
}

// NewController validates cfg and creates a controller for src. Nothing is
// published until the first Redraw.
func NewController[R any](src Source[R], listener Listener[R], cfg Config, opts ...Option) (*Controller[R], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{sched: TimeScheduler}
	for _, opt := range opts {
		opt(&o)
	}
	if listener == nil {
		listener = Funcs[R]{}
	}

	c := &Controller[R]{
		src:      src,
		listener: listener,
		checks:   o.checks,
		cfg:      cfg.clone(),
		idx:      heightindex.New(cfg.DefaultHeight),
		dirty:    true,
	}
	c.idx.Resize(src.Len())
	c.redrawGate = NewCoalescer(o.sched, cfg.Quiet, c.Redraw)
	c.measureGate = NewCoalescer(o.sched, 0, c.emitMeasure)
	return c, nil
}

// OnListChanged resizes the index to the current list length, keeping known
// heights of surviving rows, and schedules a full recompute.
func (c *Controller[R]) OnListChanged() {
	c.mu.Lock()
	c.idx.Resize(c.src.Len())
	c.dirty = true
	c.mu.Unlock()
	c.redrawGate.Trigger()
}

// OnListReplaced discards every known height and the current window.
func (c *Controller[R]) OnListReplaced() {
	c.mu.Lock()
	c.idx = heightindex.New(c.cfg.DefaultHeight)
	c.idx.Resize(c.src.Len())
	c.win = window.Window{}
	c.dirty = true
	c.mu.Unlock()
	c.redrawGate.Trigger()
}

// OnMeasured records the rendered height of row i. Reports for rows past
// the end of the list are ignored.
func (c *Controller[R]) OnMeasured(i int, height float64) {
	c.mu.Lock()
	changed := c.idx.SetHeight(i, height)
	if changed {
		c.dirty = true
	}
	c.mu.Unlock()
	if changed {
		c.redrawGate.Trigger()
	}
}

// OnMeasuredRange records heights for rows start, start+1, ...
func (c *Controller[R]) OnMeasuredRange(start int, heights []float64) {
	c.mu.Lock()
	changed := false
	for k, h := range heights {
		if c.idx.SetHeight(start+k, h) {
			changed = true
		}
	}
	if changed {
		c.dirty = true
	}
	c.mu.Unlock()
	if changed {
		c.redrawGate.Trigger()
	}
}

// OnScroll records the scroll position and the on-screen height of the
// container, then schedules a redraw.
func (c *Controller[R]) OnScroll(scrollTop, screenHeight float64) {
	c.mu.Lock()
	c.scrollTop = scrollTop
	c.screenHeight = max(screenHeight, 0)
	c.mu.Unlock()
	c.redrawGate.Trigger()
}

// OnResize records a new on-screen height and schedules a redraw.
func (c *Controller[R]) OnResize(screenHeight float64) {
	c.mu.Lock()
	c.screenHeight = max(screenHeight, 0)
	c.mu.Unlock()
	c.redrawGate.Trigger()
}

// OnScrollOrResize schedules a redraw with the inputs already recorded.
func (c *Controller[R]) OnScrollOrResize() {
	c.redrawGate.Trigger()
}

// OnConfigChanged installs cfg and schedules a full recompute. An invalid
// cfg is rejected and the previous config stays in effect.
func (c *Controller[R]) OnConfigChanged(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		log.Printf("Scroll: Rejected config, keeping previous: %v", err)
		return err
	}
	c.mu.Lock()
	c.cfg = cfg.clone()
	c.idx.SetDefaultHeight(cfg.DefaultHeight)
	c.dirty = true
	c.mu.Unlock()
	c.redrawGate.SetQuiet(cfg.Quiet)
	c.redrawGate.Trigger()
	return nil
}

// Redraw recomputes the window now. When the row range or its placement
// changed, the new slice is published and a measurement is scheduled.
func (c *Controller[R]) Redraw() {
	slice, ok := c.recompute()
	if !ok {
		return
	}
	c.listener.VisibleSlice(slice)
	c.measureGate.Trigger()
}

// Flush runs a pending coalesced redraw immediately.
func (c *Controller[R]) Flush() bool {
	return c.redrawGate.Flush()
}

func (c *Controller[R]) recompute() (Slice[R], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Slice[R]{}, false
	}

	if n := c.src.Len(); n != c.idx.Len() {
		c.idx.Resize(n)
		c.dirty = true
	}

	in := c.inputLocked()
	in.Force = c.dirty
	c.dirty = false

	prev := c.win
	next, changed := c.calc.Compute(c.idx, prev, in)
	if c.checks {
		if err := c.idx.VerifyRange(next.Start, next.End); err != nil {
			log.Printf("Scroll: %v", err)
		}
	}
	c.win = next

	// A forced recompute can keep the range but move it, e.g. when a row
	// above the window was measured.
	moved := next.StartTop != prev.StartTop || next.TotalHeight != prev.TotalHeight
	if !changed && !moved {
		return Slice[R]{}, false
	}

	return Slice[R]{
		Start:       next.Start,
		End:         next.End,
		Offset:      next.StartTop,
		TotalHeight: next.TotalHeight,
		Rows:        c.src.Slice(next.Start, next.End),
	}, true
}

func (c *Controller[R]) inputLocked() window.Input {
	cfg := c.cfg
	rows := c.idx.Total()

	viewport := cfg.HeaderHeight + rows + cfg.FooterHeight
	if cfg.ViewportHeight != nil {
		viewport = *cfg.ViewportHeight
	}

	visible := viewport
	if c.screenHeight > 0 {
		visible = min(viewport, c.screenHeight)
	}

	var padding float64
	if cfg.Padding != nil {
		padding = *cfg.Padding
	} else {
		padding = visible * 0.5
	}

	return window.Input{
		ScrollTop:     c.scrollTop,
		VisibleHeight: visible,
		HeaderHeight:  cfg.HeaderHeight,
		FooterHeight:  cfg.FooterHeight,
		Padding:       padding,
		Hysteresis:    cfg.Hysteresis,
	}
}

func (c *Controller[R]) emitMeasure() {
	c.mu.Lock()
	w := c.win
	closed := c.closed
	c.mu.Unlock()
	if closed || w.Empty() {
		return
	}
	c.listener.RequestMeasure(w.Start, w.End)
}

// Window returns the current window.
func (c *Controller[R]) Window() window.Window {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.win
}

// Config returns a copy of the active config.
func (c *Controller[R]) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.clone()
}

// ScrollTop returns the last recorded scroll position.
func (c *Controller[R]) ScrollTop() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scrollTop
}

// Len returns the number of rows tracked by the height index.
func (c *Controller[R]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idx.Len()
}

// Height returns the known or estimated height of row i.
func (c *Controller[R]) Height(i int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idx.Height(i)
}

// OffsetOf returns the sheet offset of row i's top edge, header included.
// Hosts use it to scroll a row into view.
func (c *Controller[R]) OffsetOf(i int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.HeaderHeight + c.idx.PrefixSum(max(i, 0))
}

// RowAt returns the row under sheet offset y, or heightindex.BeforeStart
// when y lies in the header.
func (c *Controller[R]) RowAt(y float64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idx.Locate(y - c.cfg.HeaderHeight)
}

// TotalHeight returns header + rows + footer.
func (c *Controller[R]) TotalHeight() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.HeaderHeight + c.idx.Total() + c.cfg.FooterHeight
}

// Close cancels pending work. Later events are ignored.
func (c *Controller[R]) Close() {
	c.redrawGate.Stop()
	c.measureGate.Stop()
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}
