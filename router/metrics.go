// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	routed      *prometheus.CounterVec
	totalRouted prometheus.Gauge
	activeJobs  *prometheus.GaugeVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		routed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gix_packets_routed_total",
			Help: "Number of envelopes routed, by lane",
		}, []string{"lane"}),
		totalRouted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gix_router_total_routed",
			Help: "Total envelopes routed",
		}),
		activeJobs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gix_router_active_jobs",
			Help: "Active jobs admitted, by lane",
		}, []string{"lane"}),
	}

	for _, c := range []prometheus.Collector{m.routed, m.totalRouted, m.activeJobs} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
