// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auction

import "github.com/luxfi/gix/gxf"

// Stats holds the monotonic auction counters. Persisted alongside the
// provider pool; counters only ever increase.
type Stats struct {
	TotalAuctions      uint64                        `cbor:"total_auctions"`
	TotalMatches       uint64                        `cbor:"total_matches"`
	TotalUnmatched     uint64                        `cbor:"total_unmatched"`
	TotalVolume        uint64                        `cbor:"total_volume"`
	MatchesByPrecision map[gxf.PrecisionLevel]uint64 `cbor:"matches_by_precision"`
	MatchesByLane      map[gxf.LaneID]uint64         `cbor:"matches_by_lane"`
}

func newStats() Stats {
	return Stats{
		MatchesByPrecision: make(map[gxf.PrecisionLevel]uint64),
		MatchesByLane:      make(map[gxf.LaneID]uint64),
	}
}

// clone returns a deep copy so callers never alias engine state.
func (s *Stats) clone() Stats {
	out := *s
	out.MatchesByPrecision = make(map[gxf.PrecisionLevel]uint64, len(s.MatchesByPrecision))
	for k, v := range s.MatchesByPrecision {
		out.MatchesByPrecision[k] = v
	}
	out.MatchesByLane = make(map[gxf.LaneID]uint64, len(s.MatchesByLane))
	for k, v := range s.MatchesByLane {
		out.MatchesByLane[k] = v
	}
	return out
}
