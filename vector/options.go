// SPDX-License-Identifier: MIT

package vector

const panicWorkersInvalid = "vector: WithWorkers: workers must be >= 1"

// Option configures the kernels.
type Option func(*Options)

// Options stores the effective kernel configuration.
type Options struct {
	workers int
}

// WithWorkers splits element loops across n goroutines. Dot partials are
// added in chunk order, so a fixed n gives reproducible sums.
// Panics when n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

func gatherOptions(opts ...Option) Options {
	o := Options{workers: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
