// SPDX-License-Identifier: MIT

package cg

import (
	"math"

	"github.com/katalvlaran/hpccg/diag"
)

const (
	// DefaultMaxIterations bounds the loop when no option is given.
	DefaultMaxIterations = 150
	// DefaultTolerance of 0 runs every iteration unless the residual
	// vanishes exactly.
	DefaultTolerance = 0.0
)

const (
	panicMaxIterInvalid   = "cg: WithMaxIterations: n must be >= 1"
	panicToleranceInvalid = "cg: WithTolerance: tolerance must be finite and >= 0"
	panicWorkersInvalid   = "cg: WithWorkers: workers must be >= 1"
)

// Option configures Solve.
type Option func(*Options)

// Options stores the effective Solve configuration.
type Options struct {
	maxIter   int
	tolerance float64
	overlap   bool
	workers   int
	diag      diag.Diagnostics
}

// WithMaxIterations sets the iteration bound. Panics when n < 1.
func WithMaxIterations(n int) Option {
	if n < 1 {
		panic(panicMaxIterInvalid)
	}

	return func(o *Options) { o.maxIter = n }
}

// WithTolerance stops once the residual norm is ≤ tol.
// Panics on a negative or non-finite tol.
func WithTolerance(tol float64) Option {
	if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.tolerance = tol }
}

// WithOverlap overlaps the halo exchange with the interior rows.
func WithOverlap() Option {
	return func(o *Options) { o.overlap = true }
}

// WithWorkers runs the local kernels on n goroutines. Panics when n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithDiagnostics reports progress to d.
func WithDiagnostics(d diag.Diagnostics) Option {
	return func(o *Options) {
		if d != nil {
			o.diag = d
		}
	}
}

func gatherOptions(opts ...Option) Options {
	o := Options{
		maxIter:   DefaultMaxIterations,
		tolerance: DefaultTolerance,
		workers:   1,
		diag:      diag.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// printEvery is how often Solve reports an iteration: a tenth of the
// bound, between 1 and 50.
func (o *Options) printEvery() int {
	return min(max(o.maxIter/10, 1), 50)
}
