// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gxf

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// JobIDLen is the byte length of a job identifier.
const JobIDLen = 16

// JobID uniquely identifies a compute job submission.
type JobID [JobIDLen]byte

// NewJobID returns a fresh random job identifier (UUID v4).
func NewJobID() JobID {
	return JobID(uuid.New())
}

// JobIDFromBytes converts a byte slice into a JobID.
func JobIDFromBytes(b []byte) (JobID, error) {
	if len(b) != JobIDLen {
		return JobID{}, fmt.Errorf("%w: job id must be %d bytes, got %d", ErrInvalidJobID, JobIDLen, len(b))
	}
	var id JobID
	copy(id[:], b)
	return id, nil
}

// Bytes returns the id as a byte slice.
func (id JobID) Bytes() []byte {
	return id[:]
}

func (id JobID) String() string {
	return hex.EncodeToString(id[:])
}

// MarshalText encodes the id as lowercase hex. This is the wire
// representation used inside envelopes and RPC bodies.
func (id JobID) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(id[:])), nil
}

// UnmarshalText decodes a hex-encoded id.
func (id *JobID) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidJobID, err)
	}
	decoded, err := JobIDFromBytes(b)
	if err != nil {
		return err
	}
	*id = decoded
	return nil
}

// SLPID identifies a Sovereign Liquidity Pool (compute provider).
type SLPID string

// LaneID identifies an AJR routing lane.
type LaneID uint8

const (
	// LaneFlash is the low-latency lane for high priority traffic.
	LaneFlash LaneID = 0
	// LaneDeep is the bulk lane for normal and low priority traffic.
	LaneDeep LaneID = 1
)

func (l LaneID) String() string {
	switch l {
	case LaneFlash:
		return "Flash"
	case LaneDeep:
		return "Deep"
	default:
		return fmt.Sprintf("Lane(%d)", uint8(l))
	}
}
