// Copyright (C) 2020-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/luxfi/gix/gxf"
	"github.com/luxfi/gix/router"
)

// RouterService serves the AJR router over HTTP.
type RouterService struct {
	router *router.Router
}

// NewRouterService wraps a router in its HTTP surface.
func NewRouterService(r *router.Router) *RouterService {
	return &RouterService{router: r}
}

// Handler returns the route table for the service.
func (s *RouterService) Handler() http.Handler {
	m := mux.NewRouter()
	m.HandleFunc("/v1/route_envelope", s.routeEnvelope).Methods(http.MethodPost)
	m.HandleFunc("/v1/router_stats", s.routerStats).Methods(http.MethodGet)
	m.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	return m
}

func (s *RouterService) routeEnvelope(w http.ResponseWriter, r *http.Request) {
	var req RouteEnvelopeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, RouteEnvelopeResponse{Error: err.Error()})
		return
	}

	envelope, err := gxf.Parse(req.Envelope)
	if err != nil {
		writeJSON(w, statusFor(err), RouteEnvelopeResponse{Error: err.Error()})
		return
	}

	laneID, err := s.router.RouteEnvelope(envelope)
	if err != nil {
		writeJSON(w, statusFor(err), RouteEnvelopeResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, RouteEnvelopeResponse{
		LaneID:  uint32(laneID),
		Success: true,
	})
}

func (s *RouterService) routerStats(w http.ResponseWriter, _ *http.Request) {
	stats := s.router.Stats()

	laneStats := make(map[uint32]uint64, len(stats.LaneStats))
	for id, count := range stats.LaneStats {
		laneStats[uint32(id)] = count
	}
	writeJSON(w, http.StatusOK, RouterStatsResponse{
		TotalRouted: stats.TotalRouted,
		LaneStats:   laneStats,
	})
}
