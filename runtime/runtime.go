// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package runtime implements the GSEE secure execution runtime: jobs
// pass a precision/shape/residency compliance gate before a simulated
// execution produces a deterministic output digest.
package runtime

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/gix/crypto"
	"github.com/luxfi/gix/gxf"
)

// Status is the terminal state of an execution attempt.
type Status uint8

const (
	// Completed means the job executed successfully.
	Completed Status = iota
	// Failed means the job failed during execution.
	Failed
	// Rejected means the job was refused by the compliance gate.
	// Compliance refusals currently surface as errors rather than
	// results, so the runtime never constructs this status itself; it
	// exists for the RPC status enum.
	Rejected
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	case Rejected:
		return "Rejected"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Result describes one finished execution.
type Result struct {
	JobID      gxf.JobID
	Status     Status
	Reason     string
	DurationMS uint64
	OutputHash [crypto.HashLen]byte
}

// Stats holds the execution counters.
type Stats struct {
	TotalExecuted   uint64
	TotalCompleted  uint64
	TotalFailed     uint64
	TotalRejected   uint64
	JobsByPrecision map[gxf.PrecisionLevel]uint64
}

// Policy is the compliance policy the runtime enforces.
type Policy struct {
	SupportedPrecisions []gxf.PrecisionLevel
	Shape               ShapeRequirements
	Residency           ResidencyRequirements
}

// DefaultPolicy returns the default compliance policy.
func DefaultPolicy() Policy {
	return Policy{
		SupportedPrecisions: gxf.Precisions(),
		Shape:               DefaultShapeRequirements(),
		Residency:           DefaultResidencyRequirements(),
	}
}

// Runtime holds the policy and execution counters for one daemon
// process. State is in-memory only and lives for the process lifetime.
type Runtime struct {
	log     log.Logger
	metrics *metrics
	policy  Policy

	mu    sync.Mutex
	stats Stats
}

// New creates a runtime enforcing the given policy.
func New(policy Policy, logger log.Logger, reg prometheus.Registerer) (*Runtime, error) {
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}
	return &Runtime{
		log:     logger,
		metrics: m,
		policy:  policy,
		stats: Stats{
			JobsByPrecision: make(map[gxf.PrecisionLevel]uint64),
		},
	}, nil
}

// checkCompliance runs the gate in order: precision, shape, residency.
// The first failure short-circuits.
func (r *Runtime) checkCompliance(job *gxf.Job) error {
	if !job.Precision.Valid() || !slices.Contains(r.policy.SupportedPrecisions, job.Precision) {
		return fmt.Errorf("%w: precision %q not supported", ErrPrecisionViolation, job.Precision)
	}
	if err := r.policy.Shape.Validate(job); err != nil {
		return err
	}
	return r.policy.Residency.Validate(job)
}

// ExecuteJob validates the envelope, enforces compliance, and runs the
// simulated execution. Compliance refusals increment TotalRejected and
// surface as errors without touching the executed, completed, or
// per-precision counters.
func (r *Runtime) ExecuteJob(ctx context.Context, envelope *gxf.Envelope) (*Result, error) {
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

	if err := r.checkCompliance(job); err != nil {
		r.mu.Lock()
		r.stats.TotalRejected++
		r.mu.Unlock()
		r.metrics.rejected.Inc()
		r.log.Warn("job rejected by compliance gate", "jobID", job.JobID, "err", err)
		return nil, err
	}

	r.mu.Lock()
	r.stats.TotalExecuted++
	r.stats.JobsByPrecision[job.Precision]++
	r.mu.Unlock()
	r.metrics.executed.Inc()
	r.metrics.byPrecision.WithLabelValues(string(job.Precision)).Inc()

	result, err := r.simulate(ctx, job)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	switch result.Status {
	case Completed:
		r.stats.TotalCompleted++
	case Failed:
		r.stats.TotalFailed++
	case Rejected:
		r.stats.TotalRejected++
	}
	r.mu.Unlock()
	if result.Status == Completed {
		r.metrics.completed.Inc()
	}

	r.log.Info("job executed",
		"jobID", job.JobID,
		"status", result.Status,
		"durationMS", result.DurationMS,
	)
	return result, nil
}

// simulate stands in for real inference: it suspends for a duration
// proportional to the sequence length and hashes the job id.
func (r *Runtime) simulate(ctx context.Context, job *gxf.Job) (*Result, error) {
	start := time.Now()
	durationMS := uint64((job.KVCacheSeqLen+999)/1000) + 10

	timer := time.NewTimer(time.Duration(durationMS) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return &Result{
		JobID:      job.JobID,
		Status:     Completed,
		DurationMS: uint64(time.Since(start).Milliseconds()),
		OutputHash: crypto.Hash(job.JobID.Bytes()),
	}, nil
}

// Stats returns a snapshot of the execution counters.
func (r *Runtime) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.stats
	out.JobsByPrecision = make(map[gxf.PrecisionLevel]uint64, len(r.stats.JobsByPrecision))
	for k, v := range r.stats.JobsByPrecision {
		out.JobsByPrecision[k] = v
	}
	return out
}
