// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: heightindex/index.go
// Summary: Index maintains per-row heights with O(log N) prefix sums.
//
// Architecture:
//
//	Index is a binary indexed (Fenwick) accumulator over row heights stored
//	in a single flat slice of 2N float64 values:
//
//	  acc[2i]   = h[i], the last known height of row i
//	  acc[2i+1] = h[j] + ... + h[i], where j = i & (i+1)
//
//	The second entry is the block of heights ending at i whose length is the
//	lowest set bit of (i+1). A prefix sum adds one block per set bit of k,
//	an update touches every block covering i, and an offset lookup descends
//	through decreasing powers of two. Blocks only ever cover indices at or
//	below their own position, so appending computes just the new blocks and
//	truncating is a reslice.
//
//	Index is not safe for concurrent mutation. The scroll controller is its
//	single writer.

package heightindex

import "math"

// BeforeStart is returned by Locate for offsets above the first row.
const BeforeStart = -1

// Index stores one height per row and answers prefix-sum and
// offset-to-row queries in logarithmic time.
type Index struct {
	acc           []float64
	defaultHeight float64
}

// New creates an empty index. Rows appended by Resize start at defaultHeight.
func New(defaultHeight float64) *Index {
	return &Index{defaultHeight: sanitize(defaultHeight)}
}

// Len returns the number of rows tracked.
func (x *Index) Len() int {
	return len(x.acc) / 2
}

// DefaultHeight returns the height assigned to rows that were never measured.
func (x *Index) DefaultHeight() float64 {
	return x.defaultHeight
}

// SetDefaultHeight changes the estimate used for rows appended from now on.
// Existing rows keep their heights.
func (x *Index) SetDefaultHeight(h float64) {
	x.defaultHeight = sanitize(h)
}

// Resize grows or truncates the index to n rows.
// Growth costs O(n - Len()) amortized, truncation O(1).
func (x *Index) Resize(n int) {
	if n < 0 {
		n = 0
	}
	old := x.Len()
	if n <= old {
		x.acc = x.acc[:2*n]
		return
	}

	if cap(x.acc) >= 2*n {
		x.acc = x.acc[:2*n]
	} else {
		grown := make([]float64, 2*n, 2*n+2*n/4)
		copy(grown, x.acc)
		x.acc = grown
	}

	for i := old; i < n; i++ {
		h := x.defaultHeight
		x.acc[2*i] = h

		// The block ending at i is h[i] plus the blocks of its children,
		// which all live at indices < i and are already final.
		block := h
		lo := i & (i + 1)
		for j := i - 1; j >= lo; j = (j & (j + 1)) - 1 {
			block += x.acc[2*j+1]
		}
		x.acc[2*i+1] = block
	}
}

// Height returns the stored height of row i, or 0 if i is out of range.
func (x *Index) Height(i int) float64 {
	if i < 0 || i >= x.Len() {
		return 0
	}
	return x.acc[2*i]
}

// SetHeight records a new height for row i and reports whether anything
// changed. Out-of-range indices are ignored and negative heights clamp to 0.
func (x *Index) SetHeight(i int, h float64) bool {
	n := x.Len()
	if i < 0 || i >= n {
		return false
	}
	h = sanitize(h)
	diff := h - x.acc[2*i]
	if diff == 0 {
		return false
	}
	x.acc[2*i] = h
	for j := i; j < n; j |= j + 1 {
		x.acc[2*j+1] += diff
	}
	return true
}

// PrefixSum returns h[0] + ... + h[k-1]. k is clamped to [0, Len()].
func (x *Index) PrefixSum(k int) float64 {
	if k > x.Len() {
		k = x.Len()
	}
	var sum float64
	for j := k; j > 0; j -= j & -j {
		sum += x.acc[2*(j-1)+1]
	}
	return sum
}

// Total returns the sum of all row heights.
func (x *Index) Total() float64 {
	return x.PrefixSum(x.Len())
}

// Locate returns the row i with PrefixSum(i) <= offset < PrefixSum(i+1).
// Offsets above the first row yield BeforeStart, offsets at or past the
// total height yield Len().
func (x *Index) Locate(offset float64) int {
	if offset < 0 || math.IsNaN(offset) {
		return BeforeStart
	}
	n := x.Len()
	if offset >= x.Total() {
		return n
	}
	pos, _ := x.descend(offset, func(block, rem float64) bool { return block <= rem })
	// offset < total, so only rounding can walk past the last row.
	return min(pos, n-1)
}

// LocateEnd returns the smallest k with PrefixSum(k) >= offset: the number
// of rows whose top edge lies strictly above offset. It is the exclusive end
// boundary for a window whose bottom edge sits at offset.
func (x *Index) LocateEnd(offset float64) int {
	if offset <= 0 || math.IsNaN(offset) {
		return 0
	}
	n := x.Len()
	if offset > x.Total() {
		return n
	}
	pos, _ := x.descend(offset, func(block, rem float64) bool { return block < rem })
	return min(pos+1, n)
}

// descend walks the implicit tree from the largest power of two <= Len(),
// taking every block accepted by take. It returns the number of rows
// consumed and the remaining offset.
func (x *Index) descend(offset float64, take func(block, rem float64) bool) (int, float64) {
	n := x.Len()
	pos := 0
	rem := offset
	for step := highBit(n); step > 0; step >>= 1 {
		next := pos + step
		if next > n {
			continue
		}
		block := x.acc[2*(next-1)+1]
		if take(block, rem) {
			pos = next
			rem -= block
		}
	}
	return pos, rem
}

func highBit(n int) int {
	if n <= 0 {
		return 0
	}
	b := 1
	for b<<1 <= n {
		b <<= 1
	}
	return b
}

func sanitize(h float64) float64 {
	if h < 0 || math.IsNaN(h) {
		return 0
	}
	if math.IsInf(h, 1) {
		return math.MaxFloat64
	}
	return h
}
