// SPDX-License-Identifier: MIT

package comm

import "github.com/prometheus/client_golang/prometheus"

// Option configures a World.
type Option func(*Options)

// Options stores the effective World configuration.
type Options struct {
	registerer prometheus.Registerer // nil: metrics are not exported
}

// WithRegisterer exports the transport counters to reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *Options) { o.registerer = reg }
}

func gatherOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
