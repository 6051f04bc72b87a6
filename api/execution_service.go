// Copyright (C) 2020-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/luxfi/gix/gxf"
	"github.com/luxfi/gix/runtime"
)

// ExecutionService serves the GSEE runtime over HTTP.
type ExecutionService struct {
	runtime *runtime.Runtime
}

// NewExecutionService wraps a runtime in its HTTP surface.
func NewExecutionService(r *runtime.Runtime) *ExecutionService {
	return &ExecutionService{runtime: r}
}

// Handler returns the route table for the service.
func (s *ExecutionService) Handler() http.Handler {
	m := mux.NewRouter()
	m.HandleFunc("/v1/execute_job", s.executeJob).Methods(http.MethodPost)
	m.HandleFunc("/v1/runtime_stats", s.runtimeStats).Methods(http.MethodGet)
	m.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	return m
}

func (s *ExecutionService) executeJob(w http.ResponseWriter, r *http.Request) {
	var req ExecuteJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ExecuteJobResponse{Error: err.Error()})
		return
	}

	envelope, err := gxf.Parse(req.Envelope)
	if err != nil {
		writeJSON(w, statusFor(err), ExecuteJobResponse{Error: err.Error()})
		return
	}

	result, err := s.runtime.ExecuteJob(r.Context(), envelope)
	if err != nil {
		writeJSON(w, statusFor(err), ExecuteJobResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, ExecuteJobResponse{
		JobID:      result.JobID,
		Status:     result.Status.String(),
		DurationMS: result.DurationMS,
		OutputHash: result.OutputHash[:],
		Success:    true,
	})
}

func (s *ExecutionService) runtimeStats(w http.ResponseWriter, _ *http.Request) {
	stats := s.runtime.Stats()

	byPrecision := make(map[string]uint64, len(stats.JobsByPrecision))
	for precision, count := range stats.JobsByPrecision {
		byPrecision[string(precision)] = count
	}
	writeJSON(w, http.StatusOK, RuntimeStatsResponse{
		TotalExecuted:   stats.TotalExecuted,
		TotalCompleted:  stats.TotalCompleted,
		TotalFailed:     stats.TotalFailed,
		TotalRejected:   stats.TotalRejected,
		JobsByPrecision: byPrecision,
	})
}
