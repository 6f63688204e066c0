// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: heightindex/verify.go
// Summary: Consistency checks between stored heights and accumulated blocks.

package heightindex

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvariant marks a disagreement between two ways of computing the same
// prefix sum. It always indicates a bug in the index, never bad input.
var ErrInvariant = errors.New("height index invariant violated")

// InvariantError describes the first prefix sum found to be inconsistent.
type InvariantError struct {
	Prefix int
	Want   float64
	Got    float64
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%v: prefix %d: direct sum %g, accumulated %g", ErrInvariant, e.Prefix, e.Want, e.Got)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

// Verify recomputes every prefix sum from the stored heights and compares it
// with the accumulator path. It runs in O(N log N).
func (x *Index) Verify() error {
	var running float64
	for i := 0; i < x.Len(); i++ {
		running += x.acc[2*i]
		if got := x.PrefixSum(i + 1); !Close(running, got) {
			return &InvariantError{Prefix: i + 1, Want: running, Got: got}
		}
	}
	return nil
}

// VerifyRange checks that PrefixSum(end)-PrefixSum(start) matches the
// direct sum of heights in [start, end). It costs O(end-start + log N).
func (x *Index) VerifyRange(start, end int) error {
	start = max(start, 0)
	end = min(end, x.Len())
	if start >= end {
		return nil
	}
	var direct float64
	for i := start; i < end; i++ {
		direct += x.acc[2*i]
	}
	want := x.PrefixSum(start) + direct
	if got := x.PrefixSum(end); !Close(want, got) {
		return &InvariantError{Prefix: end, Want: want, Got: got}
	}
	return nil
}

// Close reports whether two accumulated heights agree up to float rounding.
func Close(a, b float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= 1e-9*scale
}
