// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package auction implements the GCAM clearing engine: it matches jobs
// against a persistent provider pool, prices them, selects a delivery
// route, and commits utilization and statistics durably.
package auction

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/gix/gxf"
)

var (
	// ErrNoMatch is returned when no provider can handle the job.
	ErrNoMatch = errors.New("no matching providers found")

	// ErrNoRoute is returned when the route table is empty.
	ErrNoRoute = errors.New("no route available")

	providersPrefix = []byte("providers")
	routesPrefix    = []byte("routes")
	statsPrefix     = []byte("stats")
	statsKey        = []byte("stats")
)

// Match is the result of a successful auction.
type Match struct {
	JobID  gxf.JobID
	SLPID  gxf.SLPID
	LaneID gxf.LaneID
	Price  Price
	Route  []string
}

// Engine owns the in-memory working set of providers, routes, and
// stats together with the durable store backing them. Every mutation
// writes through to the store before the auction reports success.
type Engine struct {
	log     log.Logger
	metrics *metrics

	providerDB database.Database
	routeDB    database.Database
	statsDB    database.Database

	// mu serializes auctions. Selection and commit run under one
	// critical section so two auctions against the same provider can
	// never both observe spare capacity and over-admit.
	mu        sync.RWMutex
	providers []*ComputeProvider
	routes    []*Route
	stats     Stats
}

// New opens the three store partitions on db, loads (or seeds) the
// working set, and returns a ready engine. The caller retains
// ownership of db and closes it after Flush.
func New(db database.Database, logger log.Logger, reg prometheus.Registerer) (*Engine, error) {
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		log:        logger,
		metrics:    m,
		providerDB: prefixdb.New(providersPrefix, db),
		routeDB:    prefixdb.New(routesPrefix, db),
		statsDB:    prefixdb.New(statsPrefix, db),
	}

	if e.providers, err = e.loadProviders(); err != nil {
		return nil, fmt.Errorf("loading providers: %w", err)
	}
	if e.routes, err = e.loadRoutes(); err != nil {
		return nil, fmt.Errorf("loading routes: %w", err)
	}
	if e.stats, err = e.loadStats(); err != nil {
		return nil, fmt.Errorf("loading stats: %w", err)
	}

	logger.Info("auction engine initialized",
		"providers", len(e.providers),
		"routes", len(e.routes),
		"totalAuctions", e.stats.TotalAuctions,
	)
	return e, nil
}

// loadProviders reads every provider record, seeding the default pool
// when the partition is empty.
func (e *Engine) loadProviders() ([]*ComputeProvider, error) {
	var providers []*ComputeProvider

	it := e.providerDB.NewIterator()
	defer it.Release()
	for it.Next() {
		p := &ComputeProvider{}
		if err := cbor.Unmarshal(it.Value(), p); err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	if err := it.Error(); err != nil {
		return nil, err
	}

	if len(providers) > 0 {
		return providers, nil
	}

	providers = seedProviders()
	for _, p := range providers {
		if err := e.putProvider(p); err != nil {
			return nil, err
		}
	}
	e.log.Info("seeded default provider pool", "providers", len(providers))
	return providers, nil
}

// loadRoutes reads every route record, seeding the default table when
// the partition is empty.
func (e *Engine) loadRoutes() ([]*Route, error) {
	var routes []*Route

	it := e.routeDB.NewIterator()
	defer it.Release()
	for it.Next() {
		r := &Route{}
		if err := cbor.Unmarshal(it.Value(), r); err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	if err := it.Error(); err != nil {
		return nil, err
	}

	if len(routes) > 0 {
		return routes, nil
	}

	routes = seedRoutes()
	for _, r := range routes {
		value, err := cbor.Marshal(r)
		if err != nil {
			return nil, err
		}
		if err := e.routeDB.Put([]byte(r.ID), value); err != nil {
			return nil, err
		}
	}
	e.log.Info("seeded default route table", "routes", len(routes))
	return routes, nil
}

func (e *Engine) loadStats() (Stats, error) {
	value, err := e.statsDB.Get(statsKey)
	switch {
	case err == nil:
		stats := newStats()
		if err := cbor.Unmarshal(value, &stats); err != nil {
			return Stats{}, err
		}
		if stats.MatchesByPrecision == nil {
			stats.MatchesByPrecision = make(map[gxf.PrecisionLevel]uint64)
		}
		if stats.MatchesByLane == nil {
			stats.MatchesByLane = make(map[gxf.LaneID]uint64)
		}
		return stats, nil
	case errors.Is(err, database.ErrNotFound):
		return newStats(), nil
	default:
		return Stats{}, err
	}
}

func (e *Engine) putProvider(p *ComputeProvider) error {
	value, err := cbor.Marshal(p)
	if err != nil {
		return err
	}
	return e.providerDB.Put([]byte(p.SLPID), value)
}

func (e *Engine) putStats() error {
	value, err := cbor.Marshal(&e.stats)
	if err != nil {
		return err
	}
	return e.statsDB.Put(statsKey, value)
}

// RunAuction matches the job against the provider pool, prices it,
// selects a route, and durably commits the result. Deterministic for a
// fixed working set: ties break by insertion order.
func (e *Engine) RunAuction(job *gxf.Job, priority uint8) (*Match, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	provider, price, err := e.selectProvider(job)
	if err != nil {
		return nil, err
	}
	route, err := e.selectRoute(priority)
	if err != nil {
		return nil, err
	}

	// Commit. The write-through must land before success is reported.
	e.stats.TotalAuctions++
	e.stats.TotalMatches++
	e.stats.TotalVolume += price
	e.stats.MatchesByPrecision[job.Precision]++
	e.stats.MatchesByLane[route.LaneID]++
	provider.Utilization++

	if err := e.putProvider(provider); err != nil {
		return nil, fmt.Errorf("persisting provider %s: %w", provider.SLPID, err)
	}
	if err := e.putStats(); err != nil {
		return nil, fmt.Errorf("persisting stats: %w", err)
	}

	slp := string(provider.SLPID)
	e.metrics.auctions.Inc()
	e.metrics.matches.WithLabelValues(slp).Inc()
	e.metrics.matchesByPrecision.WithLabelValues(string(job.Precision)).Inc()
	e.metrics.clearingPrice.WithLabelValues(slp).Set(float64(price))
	e.metrics.utilization.WithLabelValues(slp).Set(float64(provider.Utilization))
	e.metrics.volume.Set(float64(e.stats.TotalVolume))

	e.log.Info("auction matched",
		"jobID", job.JobID,
		"slp", provider.SLPID,
		"lane", route.LaneID,
		"price", price,
	)

	return &Match{
		JobID:  job.JobID,
		SLPID:  provider.SLPID,
		LaneID: route.LaneID,
		Price:  price,
		Route:  append([]string(nil), route.Path...),
	}, nil
}

// selectProvider returns the cheapest capable provider at current
// utilization. Caller holds mu.
func (e *Engine) selectProvider(job *gxf.Job) (*ComputeProvider, Price, error) {
	type candidate struct {
		provider *ComputeProvider
		price    Price
	}
	var candidates []candidate
	for _, p := range e.providers {
		if p.CanHandle(job) {
			candidates = append(candidates, candidate{p, p.PriceFor(job)})
		}
	}
	if len(candidates) == 0 {
		return nil, 0, ErrNoMatch
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].price < candidates[j].price
	})
	return candidates[0].provider, candidates[0].price, nil
}

// selectRoute prefers the best-scoring route in the priority's lane,
// falling back to the best route overall. Caller holds mu.
func (e *Engine) selectRoute(priority uint8) (*Route, error) {
	primaryLane := gxf.LaneDeep
	if priority >= 128 {
		primaryLane = gxf.LaneFlash
	}

	var bestPrimary, bestAny *Route
	for _, r := range e.routes {
		if bestAny == nil || r.Score() < bestAny.Score() {
			bestAny = r
		}
		if r.LaneID == primaryLane && (bestPrimary == nil || r.Score() < bestPrimary.Score()) {
			bestPrimary = r
		}
	}
	if bestPrimary != nil {
		return bestPrimary, nil
	}
	if bestAny != nil {
		return bestAny, nil
	}
	return nil, ErrNoRoute
}

// ProcessEnvelope validates an inbound envelope and runs the auction
// on its job. Each hop re-validates; the engine does not trust its
// caller.
func (e *Engine) ProcessEnvelope(envelope *gxf.Envelope) (*Match, error) {
	if err := envelope.Validate(); err != nil {
		return nil, fmt.Errorf("envelope validation failed: %w", err)
	}
	if envelope.Meta.Expired() {
		return nil, gxf.ErrExpired
	}
	job, err := envelope.Job()
	if err != nil {
		return nil, err
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return e.RunAuction(job, envelope.Meta.Priority)
}

// Stats returns a snapshot of the auction counters.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats.clone()
}

// Providers returns a snapshot of the provider pool.
func (e *Engine) Providers() []ComputeProvider {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]ComputeProvider, len(e.providers))
	for i, p := range e.providers {
		out[i] = *p
	}
	return out
}

// Flush synchronously rewrites every provider record and the stats
// record. Called on graceful shutdown; per-auction commits already
// write through.
func (e *Engine) Flush() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, p := range e.providers {
		if err := e.putProvider(p); err != nil {
			return fmt.Errorf("flushing provider %s: %w", p.SLPID, err)
		}
	}
	if err := e.putStats(); err != nil {
		return fmt.Errorf("flushing stats: %w", err)
	}
	return nil
}

// seedProviders is the deterministic first-boot provider pool.
func seedProviders() []*ComputeProvider {
	return []*ComputeProvider{
		{
			SLPID:               "slp-us-east-1",
			SupportedPrecisions: []gxf.PrecisionLevel{gxf.BF16, gxf.FP8, gxf.E5M2, gxf.INT8},
			BasePrice:           1000,
			Capacity:            100,
			Utilization:         30,
			Region:              "US",
		},
		{
			SLPID:               "slp-eu-west-1",
			SupportedPrecisions: []gxf.PrecisionLevel{gxf.BF16, gxf.FP8, gxf.INT8},
			BasePrice:           1200,
			Capacity:            80,
			Utilization:         20,
			Region:              "EU",
		},
	}
}

// seedRoutes is the deterministic first-boot route table.
func seedRoutes() []*Route {
	return []*Route{
		{
			ID:        "route-flash-1",
			LaneID:    gxf.LaneFlash,
			Path:      []string{"node-1", "node-2"},
			LatencyMS: 50,
			Cost:      100,
		},
		{
			ID:        "route-deep-1",
			LaneID:    gxf.LaneDeep,
			Path:      []string{"node-3", "node-4", "node-5"},
			LatencyMS: 150,
			Cost:      80,
		},
	}
}
