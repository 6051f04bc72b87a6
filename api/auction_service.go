// Copyright (C) 2020-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/luxfi/gix/auction"
	"github.com/luxfi/gix/gxf"
)

// AuctionService serves the GCAM clearing engine over HTTP.
type AuctionService struct {
	engine *auction.Engine
}

// NewAuctionService wraps an engine in its HTTP surface.
func NewAuctionService(e *auction.Engine) *AuctionService {
	return &AuctionService{engine: e}
}

// Handler returns the route table for the service.
func (s *AuctionService) Handler() http.Handler {
	m := mux.NewRouter()
	m.HandleFunc("/v1/run_auction", s.runAuction).Methods(http.MethodPost)
	m.HandleFunc("/v1/auction_stats", s.auctionStats).Methods(http.MethodGet)
	m.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	return m
}

func (s *AuctionService) runAuction(w http.ResponseWriter, r *http.Request) {
	var req RunAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, RunAuctionResponse{Error: err.Error()})
		return
	}

	job := &gxf.Job{}
	if err := json.Unmarshal(req.Job, job); err != nil {
		writeJSON(w, http.StatusBadRequest, RunAuctionResponse{Error: err.Error()})
		return
	}
	if err := job.Validate(); err != nil {
		writeJSON(w, statusFor(err), RunAuctionResponse{Error: err.Error()})
		return
	}

	match, err := s.engine.RunAuction(job, req.Priority)
	if err != nil {
		writeJSON(w, statusFor(err), RunAuctionResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, RunAuctionResponse{
		JobID:   match.JobID,
		SLPID:   string(match.SLPID),
		LaneID:  uint32(match.LaneID),
		Price:   match.Price,
		Route:   match.Route,
		Success: true,
	})
}

func (s *AuctionService) auctionStats(w http.ResponseWriter, _ *http.Request) {
	stats := s.engine.Stats()

	byPrecision := make(map[string]uint64, len(stats.MatchesByPrecision))
	for precision, count := range stats.MatchesByPrecision {
		byPrecision[string(precision)] = count
	}
	byLane := make(map[uint32]uint64, len(stats.MatchesByLane))
	for lane, count := range stats.MatchesByLane {
		byLane[uint32(lane)] = count
	}
	writeJSON(w, http.StatusOK, AuctionStatsResponse{
		TotalAuctions:      stats.TotalAuctions,
		TotalMatches:       stats.TotalMatches,
		TotalVolume:        stats.TotalVolume,
		MatchesByPrecision: byPrecision,
		MatchesByLane:      byLane,
	})
}
