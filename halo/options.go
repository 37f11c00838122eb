// SPDX-License-Identifier: MIT

package halo

import (
	"time"

	"github.com/katalvlaran/hpccg/sparse"
)

const panicWorkersInvalid = "halo: WithWorkers: workers must be >= 1"

// Timings accumulates time spent communicating.
type Timings struct {
	Exchange time.Duration // posting, sending, waiting and scattering
	Calls    int
}

// Option configures MatVec.
type Option func(*Options)

// Options stores the effective MatVec configuration.
type Options struct {
	overlap bool
	workers int
	timings *Timings
}

// WithOverlap computes interior rows while receives are outstanding.
func WithOverlap() Option {
	return func(o *Options) { o.overlap = true }
}

// WithWorkers splits the local multiply across n goroutines. Panics when n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithTimings adds the communication time of every call to t.
func WithTimings(t *Timings) Option {
	return func(o *Options) { o.timings = t }
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

func (o *Options) sparseOpts() []sparse.Option {
	return []sparse.Option{sparse.WithWorkers(o.workers)}
}
