// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	executed    prometheus.Counter
	completed   prometheus.Counter
	rejected    prometheus.Counter
	byPrecision *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		executed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gix_jobs_executed_total",
			Help: "Number of jobs admitted to execution",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gix_jobs_completed_total",
			Help: "Number of jobs completed successfully",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gix_jobs_rejected_total",
			Help: "Number of jobs refused by the compliance gate",
		}),
		byPrecision: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gix_jobs_by_precision",
			Help: "Number of jobs executed, by precision level",
		}, []string{"precision"}),
	}

	for _, c := range []prometheus.Collector{m.executed, m.completed, m.rejected, m.byPrecision} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
