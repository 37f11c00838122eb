// SPDX-License-Identifier: MIT

// Package parallel runs row- and element-parallel loops over contiguous
// index chunks. Every chunk writes a disjoint output region, so callers need
// no locking; reductions combine per-chunk partials after all chunks finish.
package parallel

import (
	"golang.org/x/sync/errgroup"
)

// chunks splits [0,n) into at most workers contiguous [lo,hi) ranges of
// near-equal size. The first n%workers chunks get one extra element.
func chunks(n, workers int) [][2]int {
	if workers > n {
		workers = n
	}
	out := make([][2]int, 0, workers)
	base, extra := n/workers, n%workers
	lo := 0
	for w := 0; w < workers; w++ {
		size := base
		if w < extra {
			size++
		}
		out = append(out, [2]int{lo, lo + size})
		lo += size
	}

	return out
}

// For calls fn on contiguous sub-ranges covering [0,n).
// With workers <= 1 (or n small) fn runs once, inline, on [0,n).
// Complexity: O(n) total work split across min(workers, n) goroutines.
func For(n, workers int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if workers <= 1 || n == 1 {
		fn(0, n)
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for _, c := range chunks(n, workers) {
		lo, hi := c[0], c[1]
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait() // chunk bodies never fail
}

// Sum evaluates fn over contiguous sub-ranges of [0,n) and adds the partial
// results. Partials are combined in chunk order once every chunk is done,
// so for a fixed worker count the result is reproducible.
func Sum(n, workers int, fn func(lo, hi int) float64) float64 {
	if n <= 0 {
		return 0
	}
	if workers <= 1 || n == 1 {
		return fn(0, n)
	}

	parts := chunks(n, workers)
	partial := make([]float64, len(parts))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, c := range parts {
		g.Go(func() error {
			partial[i] = fn(c[0], c[1])
			return nil
		})
	}
	_ = g.Wait()

	var total float64
	for _, v := range partial {
		total += v
	}

	return total
}
