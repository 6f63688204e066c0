// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/devshell/scheduler.go
// Summary: Scheduler that delivers callbacks on the screen event loop.
// Usage: Run hands one to the app builder; the loop executes each callback
// when its EventInterrupt arrives, then redraws.

package devshell

import (
	"log"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelvirt/scroll"
)

// EventScheduler posts callbacks to a tcell screen as EventInterrupt data.
type EventScheduler struct {
	screen tcell.Screen
}

var _ scroll.Scheduler = (*EventScheduler)(nil)

// NewEventScheduler creates a scheduler for an initialised screen.
func NewEventScheduler(screen tcell.Screen) *EventScheduler {
	return &EventScheduler{screen: screen}
}

type timerState int

const (
	timerPending timerState = iota
	timerStopped
	timerFired
)

type eventTimer struct {
	mu    sync.Mutex
	state timerState
	timer *time.Timer
}

// Stop cancels the callback, including one already queued on the loop.
func (t *eventTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != timerPending {
		return false
	}
	t.state = timerStopped
	if t.timer != nil {
		t.timer.Stop()
	}
	return true
}

func (t *eventTimer) claim() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != timerPending {
		return false
	}
	t.state = timerFired
	return true
}

func (t *eventTimer) cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == timerStopped
}

// AfterFunc posts fn to the event loop once d elapsed.
func (s *EventScheduler) AfterFunc(d time.Duration, fn func()) scroll.Timer {
	t := &eventTimer{}
	run := func() {
		if t.claim() {
			fn()
		}
	}
	post := func() {
		if t.cancelled() {
			return
		}
		if err := s.screen.PostEvent(tcell.NewEventInterrupt(run)); err != nil {
			log.Printf("Devshell: Dropped scheduled callback: %v", err)
		}
	}
	if d <= 0 {
		post()
		return t
	}
	t.mu.Lock()
	t.timer = time.AfterFunc(d, post)
	t.mu.Unlock()
	return t
}
