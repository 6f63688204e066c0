// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package scroll

import (
	"sort"
	"time"
)

// manualScheduler is a deterministic Scheduler driven by Advance.
type manualScheduler struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.seq++
	t := &manualTimer{at: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward, firing due timers in order. Timers armed
// by callbacks fire too if they fall within the advanced span.
func (s *manualScheduler) Advance(d time.Duration) {
	deadline := s.now + d
	for {
		next := s.nextDue(deadline)
		if next == nil {
			break
		}
		s.now = next.at
		next.fired = true
		next.fn()
	}
	s.now = deadline
}

// Settle runs everything that is pending, however far in the future.
func (s *manualScheduler) Settle() {
	s.Advance(time.Hour)
}

func (s *manualScheduler) pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

func (s *manualScheduler) nextDue(deadline time.Duration) *manualTimer {
	var due []*manualTimer
	for _, t := range s.timers {
		if !t.fired && !t.stopped && t.at <= deadline {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}
