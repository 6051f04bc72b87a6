// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gxf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPrecisionLevelValid(t *testing.T) {
	require := require.New(t)

	for _, p := range Precisions() {
		require.True(p.Valid(), "%s should be valid", p)
	}
	require.False(PrecisionLevel("FP16").Valid())
	require.False(PrecisionLevel("bf16").Valid())
	require.False(PrecisionLevel("").Valid())
}

func TestPriorityBands(t *testing.T) {
	tests := []struct {
		priority uint8
		band     PriorityBand
	}{
		{0, PriorityLow},
		{63, PriorityLow},
		{64, PriorityNormal},
		{127, PriorityNormal},
		{128, PriorityHigh},
		{191, PriorityHigh},
		{192, PriorityCritical},
		{255, PriorityCritical},
	}
	for _, tt := range tests {
		require.Equal(t, tt.band, BandOf(tt.priority), "priority %d", tt.priority)
	}
}

func TestJobValidate(t *testing.T) {
	require := require.New(t)

	job := NewJob(JobID{}, BF16, 1024)
	require.NoError(job.Validate())

	zeroSeq := NewJob(JobID{}, BF16, 0)
	require.ErrorIs(zeroSeq.Validate(), ErrInvalidSequenceLength)

	badPrecision := NewJob(JobID{}, PrecisionLevel("FP64"), 1024)
	require.ErrorIs(badPrecision.Validate(), ErrInvalidPrecision)
}

func TestMetadataValidate(t *testing.T) {
	require := require.New(t)

	meta := NewMetadata(64)
	require.Equal(Version, meta.SchemaVersion)
	require.NotZero(meta.CreatedAt)
	require.Zero(meta.ExpiresAt)
	require.NoError(meta.Validate())

	badVersion := meta
	badVersion.SchemaVersion = 99
	require.ErrorIs(badVersion.Validate(), ErrInvalidVersion)
}

func TestMetadataExpiry(t *testing.T) {
	require := require.New(t)

	now := uint64(time.Now().Unix())

	meta := NewMetadata(64)
	meta.ExpiresAt = now + 3600
	require.False(meta.Expired())
	require.NoError(meta.Validate())

	meta.ExpiresAt = now - 3600
	require.True(meta.Expired())
	require.ErrorIs(meta.Validate(), ErrExpired)

	// Expiry at or before creation is inconsistent even in the future.
	meta = NewMetadata(64)
	meta.CreatedAt = now + 7200
	meta.ExpiresAt = now + 3600
	require.ErrorIs(meta.Validate(), ErrInvalidMetadata)
}

func TestEnvelopeFromJob(t *testing.T) {
	require := require.New(t)

	job := NewJob(NewJobID(), BF16, 1024)
	envelope, err := FromJob(job, 64)
	require.NoError(err)
	require.Equal(Version, envelope.Meta.SchemaVersion)
	require.NotEmpty(envelope.Payload)
	require.NoError(envelope.Validate())

	invalid := NewJob(NewJobID(), BF16, 0)
	_, err = FromJob(invalid, 64)
	require.ErrorIs(err, ErrInvalidSequenceLength)
}

func TestEnvelopeValidateEmptyPayload(t *testing.T) {
	require := require.New(t)

	job := NewJob(NewJobID(), BF16, 1024)
	envelope, err := FromJob(job, 64)
	require.NoError(err)

	envelope.Payload = nil
	require.ErrorIs(envelope.Validate(), ErrInvalidPayload)
}

func TestEnvelopeWireRoundtrip(t *testing.T) {
	require := require.New(t)

	job := NewJob(JobID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}, FP8, 2048)
	job.Parameters["batch_size"] = "4"
	job.Parameters["region"] = "US"

	envelope, err := FromJob(job, 150)
	require.NoError(err)
	envelope.Signature = []byte{0xde, 0xad}

	wire, err := envelope.Bytes()
	require.NoError(err)

	decoded, err := Parse(wire)
	require.NoError(err)
	require.Equal(envelope.Meta, decoded.Meta)
	require.Equal(envelope.Payload, decoded.Payload)
	require.Equal(envelope.Signature, decoded.Signature)

	// Validation agrees before and after the wire trip.
	require.Equal(envelope.Validate(), decoded.Validate())

	decodedJob, err := decoded.Job()
	require.NoError(err)
	require.Equal(job.JobID, decodedJob.JobID)
	require.Equal(job.Precision, decodedJob.Precision)
	require.Equal(job.KVCacheSeqLen, decodedJob.KVCacheSeqLen)
	require.Equal(job.Parameters, decodedJob.Parameters)
}

func TestJobIDText(t *testing.T) {
	require := require.New(t)

	id := JobID{0xab, 0xcd}
	text, err := id.MarshalText()
	require.NoError(err)
	require.Equal("abcd0000000000000000000000000000", string(text))

	var decoded JobID
	require.NoError(decoded.UnmarshalText(text))
	require.Equal(id, decoded)

	require.Error(decoded.UnmarshalText([]byte("zz")))
	require.ErrorIs(decoded.UnmarshalText([]byte("abcd")), ErrInvalidJobID)
}

func TestNewJobIDUnique(t *testing.T) {
	require.NotEqual(t, NewJobID(), NewJobID())
}
