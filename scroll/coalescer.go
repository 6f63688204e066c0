// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: scroll/coalescer.go
// Summary: Trailing-edge coalescing of bursty triggers.

package scroll

import (
	"sync"
	"time"
)

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn once after d. Hosts with a UI thread supply one that
// delivers fn on that thread.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// TimeScheduler runs callbacks on timer goroutines via time.AfterFunc.
var TimeScheduler Scheduler = timeScheduler{}

// Coalescer collapses a burst of Trigger calls into a single call of fn,
// run once no trigger arrived for the quiet period. Each Trigger supersedes
// the pending call.
type Coalescer struct {
	mu     sync.Mutex
	sched  Scheduler
	quiet  time.Duration
	fn     func()
	timer  Timer
	gen    uint64
	closed bool
}

// NewCoalescer creates a coalescer that runs fn through sched.
func NewCoalescer(sched Scheduler, quiet time.Duration, fn func()) *Coalescer {
	if sched == nil {
		sched = TimeScheduler
	}
	return &Coalescer{sched: sched, quiet: quiet, fn: fn}
}

// Trigger (re)arms the quiet period.
func (c *Coalescer) Trigger() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.timer = c.sched.AfterFunc(c.quiet, func() { c.fire(gen) })
}

// fire runs fn unless a later Trigger, Flush or Stop superseded gen. The
// generation check covers schedulers whose Stop cannot recall a callback
// that was already queued.
func (c *Coalescer) fire(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.gen || c.timer == nil {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.mu.Unlock()
	c.fn()
}

// Pending reports whether a call is scheduled.
func (c *Coalescer) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// Flush runs a pending call immediately and reports whether there was one.
func (c *Coalescer) Flush() bool {
	c.mu.Lock()
	if c.closed || c.timer == nil {
		c.mu.Unlock()
		return false
	}
	c.timer.Stop()
	c.timer = nil
	c.gen++
	c.mu.Unlock()
	c.fn()
	return true
}

// SetQuiet changes the quiet period for subsequent triggers.
func (c *Coalescer) SetQuiet(d time.Duration) {
	c.mu.Lock()
	c.quiet = d
	c.mu.Unlock()
}

// Stop cancels any pending call and ignores later triggers.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.closed = true
}
