// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gxf implements the GXF (GIX Exchange Format) ABI v3: the
// self-describing job envelope that flows between the router, the
// auction engine, and the execution runtime. Envelopes are value
// typed; every daemon re-parses and re-validates the payload on
// receipt and shares no state through it.
package gxf

import (
	"encoding/json"
	"fmt"
	"time"
)

// Version is the GXF schema version accepted by every daemon.
const Version uint8 = 3

// PrecisionLevel is a compute precision tag. The set is closed; the
// wire encoding is the uppercase string form.
type PrecisionLevel string

const (
	BF16 PrecisionLevel = "BF16"
	FP8  PrecisionLevel = "FP8"
	E5M2 PrecisionLevel = "E5M2"
	INT8 PrecisionLevel = "INT8"
)

// Precisions lists every member of the closed precision set.
func Precisions() []PrecisionLevel {
	return []PrecisionLevel{BF16, FP8, E5M2, INT8}
}

// Valid reports whether the precision tag is in the closed set.
func (p PrecisionLevel) Valid() bool {
	switch p {
	case BF16, FP8, E5M2, INT8:
		return true
	default:
		return false
	}
}

// PriorityBand is the coarse band a 0-255 priority falls into.
type PriorityBand uint8

const (
	PriorityLow      PriorityBand = 0
	PriorityNormal   PriorityBand = 64
	PriorityHigh     PriorityBand = 128
	PriorityCritical PriorityBand = 192
)

// BandOf maps a raw priority to its band.
func BandOf(priority uint8) PriorityBand {
	switch {
	case priority >= 192:
		return PriorityCritical
	case priority >= 128:
		return PriorityHigh
	case priority >= 64:
		return PriorityNormal
	default:
		return PriorityLow
	}
}

func (b PriorityBand) String() string {
	switch b {
	case PriorityCritical:
		return "Critical"
	case PriorityHigh:
		return "High"
	case PriorityNormal:
		return "Normal"
	default:
		return "Low"
	}
}

// Parameter keys consumed by the core. Unknown keys are preserved but
// ignored.
const (
	ParamBatchSize = "batch_size"
	ParamRegion    = "region"
	ParamResidency = "residency"
)

// Job describes one unit of compute work.
type Job struct {
	JobID         JobID             `json:"job_id"`
	Precision     PrecisionLevel    `json:"precision"`
	KVCacheSeqLen uint32            `json:"kv_cache_seq_len"`
	Parameters    map[string]string `json:"parameters,omitempty"`
}

// NewJob constructs a job with an empty parameter map.
func NewJob(id JobID, precision PrecisionLevel, seqLen uint32) *Job {
	return &Job{
		JobID:         id,
		Precision:     precision,
		KVCacheSeqLen: seqLen,
		Parameters:    make(map[string]string),
	}
}

// Validate enforces the job invariants: precision in the closed set
// and a strictly positive sequence length.
func (j *Job) Validate() error {
	if !j.Precision.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPrecision, j.Precision)
	}
	if j.KVCacheSeqLen == 0 {
		return fmt.Errorf("%w: must be > 0", ErrInvalidSequenceLength)
	}
	return nil
}

// Metadata carries the routing-relevant envelope header.
type Metadata struct {
	SchemaVersion    uint8             `json:"schema_version"`
	Priority         uint8             `json:"priority"`
	CreatedAt        uint64            `json:"created_at"`
	ExpiresAt        uint64            `json:"expires_at,omitempty"`
	SourceSLP        SLPID             `json:"source_slp,omitempty"`
	TargetLane       string            `json:"target_lane,omitempty"`
	AdditionalFields map[string]string `json:"additional_fields,omitempty"`
}

// NewMetadata returns metadata stamped with the current time.
func NewMetadata(priority uint8) Metadata {
	return Metadata{
		SchemaVersion: Version,
		Priority:      priority,
		CreatedAt:     uint64(time.Now().Unix()),
	}
}

// Validate enforces the metadata invariants against the current time.
func (m *Metadata) Validate() error {
	if m.SchemaVersion != Version {
		return fmt.Errorf("%w: expected %d, got %d", ErrInvalidVersion, Version, m.SchemaVersion)
	}
	if m.ExpiresAt != 0 {
		now := uint64(time.Now().Unix())
		if m.ExpiresAt <= now {
			return fmt.Errorf("%w: expired at %d, current time %d", ErrExpired, m.ExpiresAt, now)
		}
		if m.ExpiresAt <= m.CreatedAt {
			return fmt.Errorf("%w: expiry must be after creation", ErrInvalidMetadata)
		}
	}
	return nil
}

// Expired reports whether the envelope is past its expiry. Envelopes
// without an expiry never expire.
func (m *Metadata) Expired() bool {
	return m.ExpiresAt != 0 && m.ExpiresAt <= uint64(time.Now().Unix())
}

// Envelope pairs metadata with an opaque serialized job payload.
type Envelope struct {
	Meta    Metadata `json:"meta"`
	Payload []byte   `json:"payload"`

	// Signature is a detached lattice signature over the payload
	// bytes, attached by submitting clients. Daemons do not verify it
	// yet; the field is carried for a future protocol revision.
	Signature []byte `json:"signature,omitempty"`
}

// NewEnvelope wraps a serialized payload in metadata.
func NewEnvelope(meta Metadata, payload []byte) *Envelope {
	return &Envelope{Meta: meta, Payload: payload}
}

// FromJob validates the job, stamps metadata at the current time, and
// serializes the job into the payload.
func FromJob(job *Job, priority uint8) (*Envelope, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("%w: serializing job: %s", ErrInvalidPayload, err)
	}
	return NewEnvelope(NewMetadata(priority), payload), nil
}

// Job parses the payload back into a job.
func (e *Envelope) Job() (*Job, error) {
	job := &Job{}
	if err := json.Unmarshal(e.Payload, job); err != nil {
		return nil, fmt.Errorf("%w: deserializing job: %s", ErrInvalidPayload, err)
	}
	return job, nil
}

// Validate enforces the envelope invariants: schema version, expiry
// ordering, non-empty payload, and a parsable, valid job.
func (e *Envelope) Validate() error {
	if err := e.Meta.Validate(); err != nil {
		return err
	}
	if len(e.Payload) == 0 {
		return fmt.Errorf("%w: payload cannot be empty", ErrInvalidPayload)
	}
	job, err := e.Job()
	if err != nil {
		return err
	}
	return job.Validate()
}

// Bytes serializes the envelope to its wire form.
func (e *Envelope) Bytes() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("%w: serializing envelope: %s", ErrInvalidPayload, err)
	}
	return b, nil
}

// Parse decodes an envelope from its wire form. The result is not
// validated; callers validate on every hop.
func Parse(data []byte) (*Envelope, error) {
	e := &Envelope{}
	if err := json.Unmarshal(data, e); err != nil {
		return nil, fmt.Errorf("%w: deserializing envelope: %s", ErrInvalidPayload, err)
	}
	return e, nil
}
