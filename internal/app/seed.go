package app

import "regionmap/internal/core"

type seeded interface {
	Seed() int64
}

// resolvedSeed reports the seed sim is running with after Reset(requested).
// Generators that track their own seed are asked; otherwise the request is
// taken as is.
func resolvedSeed(sim core.Sim, requested int64) int64 {
	if s, ok := sim.(seeded); ok {
		return s.Seed()
	}
	return requested
}
