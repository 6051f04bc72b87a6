// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gxf

import "errors"

var (
	// ErrInvalidVersion is returned when an envelope does not carry the
	// supported schema version.
	ErrInvalidVersion = errors.New("invalid schema version")

	// ErrInvalidJobID is returned when a job id cannot be decoded.
	ErrInvalidJobID = errors.New("invalid job id")

	// ErrInvalidPayload is returned when an envelope payload is empty or
	// does not parse to a job.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrInvalidMetadata is returned when metadata fields are
	// inconsistent, such as an expiry at or before creation.
	ErrInvalidMetadata = errors.New("invalid metadata")

	// ErrExpired is returned when an envelope is past its expiry.
	ErrExpired = errors.New("envelope expired")

	// ErrInvalidPrecision is returned when a precision tag is outside
	// the closed precision set.
	ErrInvalidPrecision = errors.New("invalid precision level")

	// ErrInvalidSequenceLength is returned when kv_cache_seq_len is zero.
	ErrInvalidSequenceLength = errors.New("invalid sequence length")
)
