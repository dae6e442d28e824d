package app

import (
	"slices"
	"testing"

	"regionmap/internal/sims/mapgen"
)

func TestResetPicksUpSeedChangedFromPanel(t *testing.T) {
	cfg := mapgen.DefaultConfig()
	cfg.Size = 16
	cfg.Seed = 5
	s := mapgen.New(cfg)
	if !s.SetIntParameter("seed", 77) {
		t.Fatal("seed parameter rejected")
	}
	s.Reset(0)
	if got := resolvedSeed(s, 0); got != 77 {
		t.Fatalf("reset ran with seed %d, want 77", got)
	}
	s.Run()

	cfg.Seed = 77
	want := mapgen.New(cfg)
	want.Run()
	if !slices.Equal(s.Cells(), want.Cells()) {
		t.Fatal("map after reset differs from a fresh map with the new seed")
	}
}

func TestResolvedSeedExplicit(t *testing.T) {
	cfg := mapgen.DefaultConfig()
	cfg.Size = 8
	s := mapgen.New(cfg)
	s.Reset(99)
	if got := resolvedSeed(s, 99); got != 99 {
		t.Fatalf("explicit seed resolved to %d", got)
	}
}
