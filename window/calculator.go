// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: window/calculator.go
// Summary: Calculator decides which rows form the rendered window.
//
// Architecture:
//
//	The window is the half-open row range [Start, End) that is materialized,
//	covering the visible part of the scroll sheet plus Padding on each side.
//	Each boundary is handled on its own:
//
//	  - target = visibleTop - Padding (start) or visibleBottom + Padding (end)
//	  - while target stays within Padding*Hysteresis of the boundary's cached
//	    offset (StartTop / EndTop), or of the target that last placed the
//	    boundary (StartAnchor / EndAnchor), the boundary does not move
//	  - otherwise the boundary is relocated through the height index
//
//	Both references belong to the last computation that moved the boundary,
//	so a run of small scrolls in one direction may drift up to the band width
//	before a boundary moves, and any scroll closer than the band to the
//	position that placed it holds it. Moving a boundary re-slices the list
//	and remeasures rows, so holding it is the common case.

package window

import "math"

// Heights is the read side of the height index used by the calculator.
type Heights interface {
	Len() int
	PrefixSum(k int) float64
	Total() float64
	Locate(offset float64) int
	LocateEnd(offset float64) int
}

// Window is the rendered row range and its cached sheet geometry.
// The zero value is the empty window [0, 0).
type Window struct {
	Start int
	End   int

	// StartTop and EndTop are PrefixSum(Start) and PrefixSum(End) as of the
	// computation that produced this window.
	StartTop float64
	EndTop   float64

	// StartAnchor and EndAnchor are the padded targets at which Start and
	// End were last relocated.
	StartAnchor float64
	EndAnchor   float64

	// TotalHeight is the row height total plus header and footer.
	TotalHeight float64
}

// Len returns the number of rows in the window.
func (w Window) Len() int {
	return w.End - w.Start
}

// Empty reports whether the window holds no rows.
func (w Window) Empty() bool {
	return w.End <= w.Start
}

// SameRange reports whether both windows cover the same rows.
func (w Window) SameRange(o Window) bool {
	return w.Start == o.Start && w.End == o.End
}

// Input is the scroll geometry for one computation.
type Input struct {
	// ScrollTop is the scroll position measured from the top of the sheet,
	// header included.
	ScrollTop float64
	// VisibleHeight is the height of the part of the sheet on screen.
	VisibleHeight float64
	HeaderHeight  float64
	FooterHeight  float64
	Padding       float64
	// Hysteresis is the fraction of Padding a boundary target may move
	// before the boundary is recomputed.
	Hysteresis float64
	// Force recomputes both boundaries regardless of hysteresis.
	Force bool
}

// Calculator computes windows. The zero value is ready to use.
type Calculator struct{}

// Compute returns the window for in given the previous window prev, and
// whether its row range differs from prev.
func (Calculator) Compute(heights Heights, prev Window, in Input) (Window, bool) {
	n := heights.Len()
	padding := math.Max(in.Padding, 0)
	band := padding * clamp01(in.Hysteresis)

	visibleTop := in.ScrollTop - in.HeaderHeight
	visibleBottom := visibleTop + math.Max(in.VisibleHeight, 0)
	startTarget := visibleTop - padding
	endTarget := visibleBottom + padding

	reuse := !in.Force && !prev.Empty() && prev.End <= n

	next := Window{TotalHeight: heights.Total() + in.HeaderHeight + in.FooterHeight}

	if reuse && (within(startTarget, prev.StartTop, band) || within(startTarget, prev.StartAnchor, band)) {
		next.Start, next.StartTop, next.StartAnchor = prev.Start, prev.StartTop, prev.StartAnchor
	} else {
		next.Start = clampIndex(heights.Locate(startTarget), n)
		next.StartTop = heights.PrefixSum(next.Start)
		next.StartAnchor = startTarget
	}

	if reuse && (within(endTarget, prev.EndTop, band) || within(endTarget, prev.EndAnchor, band)) {
		next.End, next.EndTop, next.EndAnchor = prev.End, prev.EndTop, prev.EndAnchor
	} else {
		next.End = clampIndex(heights.LocateEnd(endTarget), n)
		next.EndTop = heights.PrefixSum(next.End)
		next.EndAnchor = endTarget
	}

	if next.End < next.Start {
		next.End, next.EndTop = next.Start, next.StartTop
	}

	return next, !next.SameRange(prev)
}

// within reports whether target lies in the closed band of half-width band
// around cached.
func within(target, cached, band float64) bool {
	return target >= cached-band && target <= cached+band
}

func clampIndex(i, n int) int {
	return min(max(i, 0), n)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 1)
}
