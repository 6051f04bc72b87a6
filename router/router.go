// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package router implements AJR lane selection: envelopes are admitted
// onto one of two prioritization lanes subject to per-lane capacity.
package router

import (
	"errors"
	"fmt"
	"sync"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/gix/gxf"
)

// Default lane capacities (max concurrent jobs).
const (
	DefaultFlashCapacity uint32 = 100
	DefaultDeepCapacity  uint32 = 50
)

// ErrAllLanesAtCapacity is returned when no lane can admit the job.
var ErrAllLanesAtCapacity = errors.New("all lanes at capacity")

// lane tracks admission state for one routing lane.
//
// activeJobs is monotone: admissions increment it and nothing
// decrements it until a job-completion signal exists in the protocol.
type lane struct {
	id         gxf.LaneID
	name       string
	capacity   uint32
	activeJobs uint32
}

// Stats is a snapshot of routing counters.
type Stats struct {
	TotalRouted uint64
	LaneStats   map[gxf.LaneID]uint64
}

// Router holds the lane set and routing counters for one daemon
// process. State is in-memory only and lives for the process lifetime.
type Router struct {
	log     log.Logger
	metrics *metrics

	// mu spans the capacity check and the commit so an admission never
	// observes a different capacity than it decided on.
	mu          sync.Mutex
	lanes       []*lane
	laneStats   map[gxf.LaneID]uint64
	totalRouted uint64
}

// New creates a router with the Flash and Deep lanes.
func New(flashCapacity, deepCapacity uint32, logger log.Logger, reg prometheus.Registerer) (*Router, error) {
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}
	return &Router{
		log:     logger,
		metrics: m,
		lanes: []*lane{
			{id: gxf.LaneFlash, name: "Flash", capacity: flashCapacity},
			{id: gxf.LaneDeep, name: "Deep", capacity: deepCapacity},
		},
		laneStats: make(map[gxf.LaneID]uint64),
	}, nil
}

// RouteEnvelope validates the envelope, selects a lane by priority and
// capacity, commits the admission, and returns the chosen lane.
func (r *Router) RouteEnvelope(envelope *gxf.Envelope) (gxf.LaneID, error) {
	if err := envelope.Validate(); err != nil {
		return 0, fmt.Errorf("envelope validation failed: %w", err)
	}
	if envelope.Meta.Expired() {
		return 0, gxf.ErrExpired
	}
	job, err := envelope.Job()
	if err != nil {
		return 0, err
	}
	if err := job.Validate(); err != nil {
		return 0, err
	}

	laneID, err := r.admit(envelope.Meta.Priority)
	if err != nil {
		return 0, err
	}

	r.log.Debug("envelope routed",
		"jobID", job.JobID,
		"lane", laneID,
		"priority", envelope.Meta.Priority,
	)
	return laneID, nil
}

// admit selects a lane and commits the admission atomically.
func (r *Router) admit(priority uint8) (gxf.LaneID, error) {
	primary := 1
	if priority >= 128 {
		primary = 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	chosen := r.lanes[primary]
	if chosen.activeJobs >= chosen.capacity {
		fallback := r.lanes[1-primary]
		if fallback.activeJobs >= fallback.capacity {
			return 0, ErrAllLanesAtCapacity
		}
		chosen = fallback
	}

	chosen.activeJobs++
	r.laneStats[chosen.id]++
	r.totalRouted++

	laneLabel := fmt.Sprintf("%d", uint8(chosen.id))
	r.metrics.routed.WithLabelValues(laneLabel).Inc()
	r.metrics.activeJobs.WithLabelValues(laneLabel).Set(float64(chosen.activeJobs))
	r.metrics.totalRouted.Set(float64(r.totalRouted))

	return chosen.id, nil
}

// Stats returns a snapshot of the routing counters.
func (r *Router) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	laneStats := make(map[gxf.LaneID]uint64, len(r.laneStats))
	for id, count := range r.laneStats {
		laneStats[id] = count
	}
	return Stats{
		TotalRouted: r.totalRouted,
		LaneStats:   laneStats,
	}
}
