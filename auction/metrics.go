// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auction

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	auctions           prometheus.Counter
	matches            *prometheus.CounterVec
	matchesByPrecision *prometheus.CounterVec
	clearingPrice      *prometheus.GaugeVec
	utilization        *prometheus.GaugeVec
	volume             prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		auctions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gix_auctions_total",
			Help: "Number of auctions run",
		}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gix_auction_matches_total",
			Help: "Number of auction matches, by SLP",
		}, []string{"slp"}),
		matchesByPrecision: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gix_matches_by_precision",
			Help: "Number of auction matches, by precision level",
		}, []string{"precision"}),
		clearingPrice: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gix_clearing_price",
			Help: "Most recent clearing price, by SLP",
		}, []string{"slp"}),
		utilization: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gix_provider_utilization",
			Help: "Current provider utilization, by SLP",
		}, []string{"slp"}),
		volume: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gix_auction_volume_total",
			Help: "Cumulative matched volume in micro-tokens",
		}),
	}

	collectors := []prometheus.Collector{
		m.auctions,
		m.matches,
		m.matchesByPrecision,
		m.clearingPrice,
		m.utilization,
		m.volume,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
