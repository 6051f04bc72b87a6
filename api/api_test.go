// Copyright (C) 2020-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/gix/auction"
	"github.com/luxfi/gix/gxf"
	"github.com/luxfi/gix/router"
	"github.com/luxfi/gix/runtime"
)

func newRouterTestServer(t *testing.T) (*httptest.Server, *Client) {
	r, err := router.New(router.DefaultFlashCapacity, router.DefaultDeepCapacity,
		log.NewNoOpLogger(), prometheus.NewRegistry())
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouterService(r).Handler())
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL)
}

func newAuctionTestServer(t *testing.T) (*httptest.Server, *Client) {
	e, err := auction.New(memdb.New(), log.NewNoOpLogger(), prometheus.NewRegistry())
	require.NoError(t, err)

	srv := httptest.NewServer(NewAuctionService(e).Handler())
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL)
}

func newExecutionTestServer(t *testing.T) (*httptest.Server, *Client) {
	r, err := runtime.New(runtime.DefaultPolicy(), log.NewNoOpLogger(), prometheus.NewRegistry())
	require.NoError(t, err)

	srv := httptest.NewServer(NewExecutionService(r).Handler())
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL)
}

func TestRouterServiceRoundtrip(t *testing.T) {
	require := require.New(t)
	_, client := newRouterTestServer(t)

	ctx := context.Background()

	job := gxf.NewJob(gxf.NewJobID(), gxf.BF16, 1024)
	envelope, err := gxf.FromJob(job, 150)
	require.NoError(err)

	laneID, err := client.RouteEnvelope(ctx, envelope)
	require.NoError(err)
	require.Equal(gxf.LaneFlash, laneID)

	stats, err := client.RouterStats(ctx)
	require.NoError(err)
	require.Equal(uint64(1), stats.TotalRouted)
	require.Equal(uint64(1), stats.LaneStats[0])
}

func TestRouterServiceExpired(t *testing.T) {
	require := require.New(t)
	_, client := newRouterTestServer(t)

	job := gxf.NewJob(gxf.NewJobID(), gxf.BF16, 1024)
	envelope, err := gxf.FromJob(job, 150)
	require.NoError(err)
	envelope.Meta.CreatedAt = 1000
	envelope.Meta.ExpiresAt = 1001

	_, err = client.RouteEnvelope(context.Background(), envelope)
	require.Error(err)
	require.Contains(err.Error(), "expired")
}

func TestAuctionServiceRoundtrip(t *testing.T) {
	require := require.New(t)
	_, client := newAuctionTestServer(t)

	ctx := context.Background()

	job := gxf.NewJob(gxf.NewJobID(), gxf.BF16, 1024)
	resp, err := client.RunAuction(ctx, job, 150)
	require.NoError(err)
	require.Equal(job.JobID, resp.JobID)
	require.NotEmpty(resp.SLPID)
	require.Positive(resp.Price)
	require.NotEmpty(resp.Route)

	stats, err := client.AuctionStats(ctx)
	require.NoError(err)
	require.Equal(uint64(1), stats.TotalAuctions)
	require.Equal(uint64(1), stats.TotalMatches)
	require.Equal(resp.Price, stats.TotalVolume)
	require.Equal(uint64(1), stats.MatchesByPrecision["BF16"])
}

func TestAuctionServiceInvalidJob(t *testing.T) {
	require := require.New(t)
	_, client := newAuctionTestServer(t)

	job := gxf.NewJob(gxf.NewJobID(), gxf.BF16, 0)
	_, err := client.RunAuction(context.Background(), job, 150)
	require.Error(err)
	require.Contains(err.Error(), "sequence length")
}

func TestExecutionServiceRoundtrip(t *testing.T) {
	require := require.New(t)
	_, client := newExecutionTestServer(t)

	ctx := context.Background()

	job := gxf.NewJob(gxf.NewJobID(), gxf.FP8, 512)
	envelope, err := gxf.FromJob(job, 100)
	require.NoError(err)

	resp, err := client.ExecuteJob(ctx, envelope)
	require.NoError(err)
	require.Equal(job.JobID, resp.JobID)
	require.Equal("Completed", resp.Status)
	require.Len(resp.OutputHash, 32)

	stats, err := client.RuntimeStats(ctx)
	require.NoError(err)
	require.Equal(uint64(1), stats.TotalExecuted)
	require.Equal(uint64(1), stats.TotalCompleted)
	require.Equal(uint64(1), stats.JobsByPrecision["FP8"])
}

func TestExecutionServiceCompliance(t *testing.T) {
	require := require.New(t)
	_, client := newExecutionTestServer(t)

	job := gxf.NewJob(gxf.NewJobID(), gxf.BF16, 1024)
	job.Parameters[gxf.ParamRegion] = "APAC"
	envelope, err := gxf.FromJob(job, 100)
	require.NoError(err)

	_, err = client.ExecuteJob(context.Background(), envelope)
	require.Error(err)
	require.Contains(err.Error(), "residency violation")

	stats, err := client.RuntimeStats(context.Background())
	require.NoError(err)
	require.Zero(stats.TotalExecuted)
	require.Equal(uint64(1), stats.TotalRejected)
}

func TestHealthEndpoint(t *testing.T) {
	require := require.New(t)
	srv, _ := newRouterTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(err)
	defer resp.Body.Close()
	require.Equal(200, resp.StatusCode)
}
