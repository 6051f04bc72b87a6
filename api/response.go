// Copyright (C) 2020-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package api defines the JSON request/response surface of the three
// GIX services and the HTTP plumbing shared by the daemons. The
// route, auction, and execute response bodies carry a success flag and
// a human-readable error string; success responses leave the error
// empty. The stats response bodies carry only their counters.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/luxfi/gix/auction"
	"github.com/luxfi/gix/gxf"
	"github.com/luxfi/gix/router"
	"github.com/luxfi/gix/runtime"
)

// RouteEnvelopeRequest asks the router to admit one envelope.
type RouteEnvelopeRequest struct {
	Envelope []byte `json:"envelope"`
}

// RouteEnvelopeResponse reports the chosen lane.
type RouteEnvelopeResponse struct {
	LaneID  uint32 `json:"lane_id"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// RouterStatsResponse reports the routing counters.
type RouterStatsResponse struct {
	TotalRouted uint64            `json:"total_routed"`
	LaneStats   map[uint32]uint64 `json:"lane_stats"`
}

// RunAuctionRequest asks the auction engine to clear one job.
type RunAuctionRequest struct {
	Job      []byte `json:"job"`
	Priority uint8  `json:"priority"`
}

// RunAuctionResponse reports the auction match.
type RunAuctionResponse struct {
	JobID   gxf.JobID `json:"job_id"`
	SLPID   string    `json:"slp_id"`
	LaneID  uint32    `json:"lane_id"`
	Price   uint64    `json:"price"`
	Route   []string  `json:"route"`
	Success bool      `json:"success"`
	Error   string    `json:"error"`
}

// AuctionStatsResponse reports the auction counters.
type AuctionStatsResponse struct {
	TotalAuctions      uint64            `json:"total_auctions"`
	TotalMatches       uint64            `json:"total_matches"`
	TotalVolume        uint64            `json:"total_volume"`
	MatchesByPrecision map[string]uint64 `json:"matches_by_precision"`
	MatchesByLane      map[uint32]uint64 `json:"matches_by_lane"`
}

// ExecuteJobRequest asks the runtime to execute one envelope.
type ExecuteJobRequest struct {
	Envelope []byte `json:"envelope"`
}

// ExecuteJobResponse reports the execution outcome.
type ExecuteJobResponse struct {
	JobID      gxf.JobID `json:"job_id"`
	Status     string    `json:"status"`
	DurationMS uint64    `json:"duration_ms"`
	OutputHash []byte    `json:"output_hash"`
	Success    bool      `json:"success"`
	Error      string    `json:"error"`
}

// RuntimeStatsResponse reports the execution counters.
type RuntimeStatsResponse struct {
	TotalExecuted   uint64            `json:"total_executed"`
	TotalCompleted  uint64            `json:"total_completed"`
	TotalFailed     uint64            `json:"total_failed"`
	TotalRejected   uint64            `json:"total_rejected"`
	JobsByPrecision map[string]uint64 `json:"jobs_by_precision"`
}

// writeJSON writes a JSON response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error to its HTTP status code. Validation and
// expiry are the caller's fault; resource exhaustion and policy
// refusals are conflicts; everything else is internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, gxf.ErrInvalidVersion),
		errors.Is(err, gxf.ErrInvalidJobID),
		errors.Is(err, gxf.ErrInvalidPayload),
		errors.Is(err, gxf.ErrInvalidMetadata),
		errors.Is(err, gxf.ErrInvalidPrecision),
		errors.Is(err, gxf.ErrInvalidSequenceLength),
		errors.Is(err, gxf.ErrExpired):
		return http.StatusBadRequest
	case errors.Is(err, router.ErrAllLanesAtCapacity),
		errors.Is(err, auction.ErrNoMatch),
		errors.Is(err, auction.ErrNoRoute),
		errors.Is(err, runtime.ErrPrecisionViolation),
		errors.Is(err, runtime.ErrShapeViolation),
		errors.Is(err, runtime.ErrResidencyViolation):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
