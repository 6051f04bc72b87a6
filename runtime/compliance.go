// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/luxfi/gix/gxf"
)

var (
	// ErrPrecisionViolation is returned when a job's precision is not
	// supported by the runtime policy.
	ErrPrecisionViolation = errors.New("precision violation")

	// ErrShapeViolation is returned when a job exceeds the shape limits.
	ErrShapeViolation = errors.New("shape violation")

	// ErrResidencyViolation is returned when a job's region or residency
	// tags conflict with policy.
	ErrResidencyViolation = errors.New("residency violation")
)

// ShapeRequirements bound the tensor shapes a job may request.
type ShapeRequirements struct {
	MaxSequenceLength  uint32
	MaxBatchSize       uint32
	RequiredDimensions []uint32
}

// DefaultShapeRequirements returns the default shape policy.
func DefaultShapeRequirements() ShapeRequirements {
	return ShapeRequirements{
		MaxSequenceLength: 8192,
		MaxBatchSize:      32,
	}
}

// Validate checks the job against the shape limits. A batch_size
// parameter that does not parse as a u32 is ignored.
func (s *ShapeRequirements) Validate(job *gxf.Job) error {
	if job.KVCacheSeqLen > s.MaxSequenceLength {
		return fmt.Errorf("%w: sequence length %d exceeds maximum %d",
			ErrShapeViolation, job.KVCacheSeqLen, s.MaxSequenceLength)
	}
	if raw, ok := job.Parameters[gxf.ParamBatchSize]; ok {
		if batchSize, err := strconv.ParseUint(raw, 10, 32); err == nil {
			if uint32(batchSize) > s.MaxBatchSize {
				return fmt.Errorf("%w: batch size %d exceeds maximum %d",
					ErrShapeViolation, batchSize, s.MaxBatchSize)
			}
		}
	}
	return nil
}

// ResidencyRequirements restrict where a job's data may be processed.
type ResidencyRequirements struct {
	AllowedRegions    []string
	RequiredResidency string
}

// DefaultResidencyRequirements returns the default residency policy.
func DefaultResidencyRequirements() ResidencyRequirements {
	return ResidencyRequirements{
		AllowedRegions: []string{"US", "EU"},
	}
}

// Validate checks the job's region and residency tags against policy.
func (r *ResidencyRequirements) Validate(job *gxf.Job) error {
	if region, ok := job.Parameters[gxf.ParamRegion]; ok {
		if !slices.Contains(r.AllowedRegions, region) {
			return fmt.Errorf("%w: region %q not in allowed regions %v",
				ErrResidencyViolation, region, r.AllowedRegions)
		}
	}
	if r.RequiredResidency != "" {
		residency, ok := job.Parameters[gxf.ParamResidency]
		if !ok {
			return fmt.Errorf("%w: required residency %q not specified",
				ErrResidencyViolation, r.RequiredResidency)
		}
		if residency != r.RequiredResidency {
			return fmt.Errorf("%w: required residency %q but got %q",
				ErrResidencyViolation, r.RequiredResidency, residency)
		}
	}
	return nil
}
