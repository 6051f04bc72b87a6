// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auction

import (
	"sync"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/luxfi/database"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/gix/gxf"
)

func newTestEngine(t *testing.T, db database.Database) *Engine {
	e, err := New(db, log.NewNoOpLogger(), prometheus.NewRegistry())
	require.NoError(t, err)
	return e
}

// seedTestProviders writes providers directly into the store so New
// skips the default seed.
func seedTestProviders(t *testing.T, db database.Database, providers ...*ComputeProvider) {
	pdb := prefixdb.New(providersPrefix, db)
	for _, p := range providers {
		value, err := cbor.Marshal(p)
		require.NoError(t, err)
		require.NoError(t, pdb.Put([]byte(p.SLPID), value))
	}
}

func seedTestRoutes(t *testing.T, db database.Database, routes ...*Route) {
	rdb := prefixdb.New(routesPrefix, db)
	for _, r := range routes {
		value, err := cbor.Marshal(r)
		require.NoError(t, err)
		require.NoError(t, rdb.Put([]byte(r.ID), value))
	}
}

func TestAuctionSeedPool(t *testing.T) {
	require := require.New(t)
	e := newTestEngine(t, memdb.New())

	providers := e.Providers()
	require.Len(providers, 2)
	require.Equal(gxf.SLPID("slp-us-east-1"), providers[0].SLPID)
	require.Equal(gxf.SLPID("slp-eu-west-1"), providers[1].SLPID)
}

func TestAuctionMatch(t *testing.T) {
	require := require.New(t)
	e := newTestEngine(t, memdb.New())

	job := gxf.NewJob(gxf.NewJobID(), gxf.BF16, 1024)
	match, err := e.RunAuction(job, 150)
	require.NoError(err)

	// eu-west clears cheapest for BF16/1024:
	// (1200 + 10240) * 2.0 = 22880; * (1 + 0.5*20/80) = 25740.
	require.Equal(job.JobID, match.JobID)
	require.Equal(gxf.SLPID("slp-eu-west-1"), match.SLPID)
	require.Equal(Price(25740), match.Price)
	require.Equal(gxf.LaneFlash, match.LaneID)
	require.Equal([]string{"node-1", "node-2"}, match.Route)

	stats := e.Stats()
	require.Equal(uint64(1), stats.TotalAuctions)
	require.Equal(uint64(1), stats.TotalMatches)
	require.Equal(uint64(25740), stats.TotalVolume)
	require.Equal(uint64(1), stats.MatchesByPrecision[gxf.BF16])
	require.Equal(uint64(1), stats.MatchesByLane[gxf.LaneFlash])
}

func TestAuctionUtilizationIncrement(t *testing.T) {
	require := require.New(t)
	e := newTestEngine(t, memdb.New())

	job := gxf.NewJob(gxf.NewJobID(), gxf.E5M2, 512)
	// Only us-east supports E5M2.
	match, err := e.RunAuction(job, 50)
	require.NoError(err)
	require.Equal(gxf.SLPID("slp-us-east-1"), match.SLPID)
	require.Equal(gxf.LaneDeep, match.LaneID)

	for _, p := range e.Providers() {
		if p.SLPID == match.SLPID {
			require.Equal(uint32(31), p.Utilization)
			require.LessOrEqual(p.Utilization, p.Capacity)
		}
	}
}

func TestAuctionNoMatch(t *testing.T) {
	require := require.New(t)

	db := memdb.New()
	seedTestProviders(t, db, &ComputeProvider{
		SLPID:               "slp-bf16-only",
		SupportedPrecisions: []gxf.PrecisionLevel{gxf.BF16},
		BasePrice:           100,
		Capacity:            10,
		Region:              "US",
	})
	e := newTestEngine(t, db)

	job := gxf.NewJob(gxf.NewJobID(), gxf.INT8, 512)
	_, err := e.RunAuction(job, 128)
	require.ErrorIs(err, ErrNoMatch)

	// Failed auctions leave every counter untouched.
	stats := e.Stats()
	require.Zero(stats.TotalAuctions)
	require.Zero(stats.TotalMatches)
	require.Zero(stats.TotalVolume)
}

func TestAuctionRouteFallback(t *testing.T) {
	require := require.New(t)

	db := memdb.New()
	seedTestRoutes(t, db, &Route{
		ID:        "route-deep-1",
		LaneID:    gxf.LaneDeep,
		Path:      []string{"node-3", "node-4"},
		LatencyMS: 150,
		Cost:      80,
	})
	e := newTestEngine(t, db)

	// High priority prefers lane 0, but only a deep route exists.
	job := gxf.NewJob(gxf.NewJobID(), gxf.BF16, 1024)
	match, err := e.RunAuction(job, 200)
	require.NoError(err)
	require.Equal(gxf.LaneDeep, match.LaneID)
	require.Equal([]string{"node-3", "node-4"}, match.Route)
}

func TestAuctionDeterministic(t *testing.T) {
	require := require.New(t)

	job := gxf.NewJob(gxf.JobID{7}, gxf.BF16, 2048)

	var matches []*Match
	for i := 0; i < 2; i++ {
		e := newTestEngine(t, memdb.New())
		match, err := e.RunAuction(job, 150)
		require.NoError(err)
		matches = append(matches, match)
	}
	require.Equal(matches[0], matches[1])
}

func TestAuctionPriceTieBreak(t *testing.T) {
	require := require.New(t)

	db := memdb.New()
	identical := func(slp gxf.SLPID) *ComputeProvider {
		return &ComputeProvider{
			SLPID:               slp,
			SupportedPrecisions: []gxf.PrecisionLevel{gxf.INT8},
			BasePrice:           500,
			Capacity:            10,
			Region:              "US",
		}
	}
	seedTestProviders(t, db, identical("slp-a"), identical("slp-b"))
	e := newTestEngine(t, db)

	job := gxf.NewJob(gxf.NewJobID(), gxf.INT8, 100)
	match, err := e.RunAuction(job, 100)
	require.NoError(err)
	// Equal prices: the provider loaded first wins.
	require.Equal(gxf.SLPID("slp-a"), match.SLPID)
}

func TestAuctionPersistence(t *testing.T) {
	require := require.New(t)
	db := memdb.New()

	// First engine instance: one auction, then flush.
	e := newTestEngine(t, db)
	job := gxf.NewJob(gxf.JobID{1, 2, 3}, gxf.BF16, 1024)
	match, err := e.RunAuction(job, 150)
	require.NoError(err)
	require.NotEmpty(match.SLPID)
	require.Positive(match.Price)

	statsBefore := e.Stats()
	require.Equal(uint64(1), statsBefore.TotalAuctions)
	require.NoError(e.Flush())

	// Restart on the same store: stats and utilization survive.
	reopened := newTestEngine(t, db)
	statsAfter := reopened.Stats()
	require.Equal(statsBefore, statsAfter)

	for _, p := range reopened.Providers() {
		if p.SLPID == match.SLPID {
			require.Equal(uint32(21), p.Utilization)
		}
	}

	// The reopened engine is fully functional.
	job2 := gxf.NewJob(gxf.JobID{4, 5, 6}, gxf.FP8, 2048)
	_, err = reopened.RunAuction(job2, 100)
	require.NoError(err)
	require.Equal(uint64(2), reopened.Stats().TotalAuctions)
}

func TestAuctionCapacityExhaustion(t *testing.T) {
	require := require.New(t)

	db := memdb.New()
	seedTestProviders(t, db, &ComputeProvider{
		SLPID:               "slp-tiny",
		SupportedPrecisions: []gxf.PrecisionLevel{gxf.INT8},
		BasePrice:           100,
		Capacity:            3,
		Region:              "US",
	})
	e := newTestEngine(t, db)

	const attempts = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		matched int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			job := gxf.NewJob(gxf.JobID{byte(i)}, gxf.INT8, 256)
			_, err := e.RunAuction(job, 100)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				matched++
			} else {
				require.ErrorIs(err, ErrNoMatch)
			}
		}(i)
	}
	wg.Wait()

	require.Equal(3, matched)
	providers := e.Providers()
	require.Equal(uint32(3), providers[0].Utilization)
}

func TestProcessEnvelope(t *testing.T) {
	require := require.New(t)
	e := newTestEngine(t, memdb.New())

	job := gxf.NewJob(gxf.NewJobID(), gxf.BF16, 1024)
	envelope, err := gxf.FromJob(job, 150)
	require.NoError(err)

	match, err := e.ProcessEnvelope(envelope)
	require.NoError(err)
	require.Equal(job.JobID, match.JobID)
}

func TestProcessEnvelopeExpired(t *testing.T) {
	require := require.New(t)
	e := newTestEngine(t, memdb.New())

	job := gxf.NewJob(gxf.NewJobID(), gxf.BF16, 1024)
	envelope, err := gxf.FromJob(job, 150)
	require.NoError(err)
	envelope.Meta.CreatedAt = 1000
	envelope.Meta.ExpiresAt = 1001

	_, err = e.ProcessEnvelope(envelope)
	require.ErrorIs(err, gxf.ErrExpired)
	require.Zero(e.Stats().TotalAuctions)
}
