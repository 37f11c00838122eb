// SPDX-License-Identifier: MIT

package localize

import "github.com/katalvlaran/hpccg/diag"

// Option configures Resolve.
type Option func(*Options)

// Options stores the effective Resolve configuration.
type Options struct {
	diag      diag.Diagnostics
	ownership *Ownership // nil: gathered collectively
}

// WithDiagnostics reports ExternalsResolved to d.
func WithDiagnostics(d diag.Diagnostics) Option {
	return func(o *Options) {
		if d != nil {
			o.diag = d
		}
	}
}

// WithOwnership supplies a precomputed ownership table and skips the
// gathering allreduce. Every rank must pass the same table, or none.
func WithOwnership(own *Ownership) Option {
	return func(o *Options) { o.ownership = own }
}

func gatherOptions(opts ...Option) Options {
	o := Options{diag: diag.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
