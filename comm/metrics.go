// SPDX-License-Identifier: MIT

package comm

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "hpccg"
	metricsSubsystem = "comm"
)

// register exposes the world's atomic counters as Prometheus counters.
// The counters are read on scrape; sending pays no metric overhead.
func (w *World) register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "messages_total",
			Help:      "Point-to-point messages sent between ranks, collective traffic included.",
		}, func() float64 { return float64(w.messages.Load()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "payload_elements_total",
			Help:      "Index and value elements carried by point-to-point messages.",
		}, func() float64 { return float64(w.payload.Load()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "collectives_total",
			Help:      "Completed collective operations (allreduce).",
		}, func() float64 { return float64(w.collectives.Load()) }),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("comm: register metrics: %w", err)
		}
	}

	return nil
}
