// SPDX-License-Identifier: MIT

// Package sparse: functional configuration for the matrix-vector kernel.
//
// Design goals:
//   - Deterministic behavior: worker count changes scheduling, never results.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package sparse

// DefaultWorkers runs the kernel on the calling goroutine.
const DefaultWorkers = 1

const panicWorkersInvalid = "sparse: WithWorkers: workers must be >= 1"

// Option mutates internal options.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	workers int // >= 1; DefaultWorkers
}

// WithWorkers splits rows across n goroutines. Each worker writes a disjoint
// slice of the output and keeps the stored nonzero order within a row, so the
// result is bit-identical to the serial kernel.
// Panics when n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// gatherOptions applies defaults first, then user options in order.
func gatherOptions(opts ...Option) Options {
	o := Options{workers: DefaultWorkers}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
