package core

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim defines the minimal contract a step-driven generator must implement.
// Step performs one bounded unit of work and must be a no-op once finished.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) Sim

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// Names returns the registered factory names in sorted order.
func Names() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Suggest returns the registered name closest to name by edit distance, as
// long as the distance is small relative to the candidate's length.
func Suggest(name string) (string, bool) {
	best := ""
	bestDist := -1
	for _, cand := range Names() {
		dist := levenshtein.ComputeDistance(name, cand)
		if dist > suggestLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best = cand
			bestDist = dist
		}
	}
	return best, bestDist >= 0
}

func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
