// SPDX-License-Identifier: MIT

package stencil

import (
	"github.com/katalvlaran/hpccg/diag"
)

const panicWorkersInvalid = "stencil: WithWorkers: workers must be >= 1"

// Option configures Generate.
type Option func(*Options)

// Options stores the effective Generate configuration.
type Options struct {
	kind    Kind
	workers int
	diag    diag.Diagnostics
}

// WithKind selects the stencil shape (default Stencil27).
func WithKind(k Kind) Option {
	return func(o *Options) { o.kind = k }
}

// WithWorkers fills rows on n goroutines. Panics when n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithDiagnostics reports MatrixGenerated, and the full matrix when d is
// dumping, to d.
func WithDiagnostics(d diag.Diagnostics) Option {
	return func(o *Options) {
		if d != nil {
			o.diag = d
		}
	}
}

func gatherOptions(opts ...Option) Options {
	o := Options{kind: Stencil27, workers: 1, diag: diag.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
