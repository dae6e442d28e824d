package growth

import (
	"math"
	"slices"
	"testing"

	"regionmap/internal/core"
	rng "regionmap/pkg/core"
)

func openSquare(size int) *core.CoordSet {
	s := core.NewCoordSet(size * size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			s.Add(core.Coord{X: x, Y: y})
		}
	}
	return s
}

func openBlock(s *core.CoordSet, x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			s.Add(core.Coord{X: x, Y: y})
		}
	}
}

func runToDone(t *testing.T, tl *Tiler, r *rng.RNG) int {
	t.Helper()
	steps := 0
	for !tl.Done() {
		tl.Step(r)
		steps++
		if steps > 10000 {
			t.Fatal("tiler did not converge")
		}
	}
	return steps
}

func TestSingleSeedClaimsWholeGrid(t *testing.T) {
	open := openSquare(5)
	tl := New(5, Config{Mode: SeedRandom, DesiredPoints: 1})
	tl.Begin(open)
	runToDone(t, tl, rng.NewRNG(42))

	if tl.Len() != 1 {
		t.Fatalf("expected 1 region, got %d", tl.Len())
	}
	if got := tl.Region(0).Len(); got != 25 {
		t.Fatalf("region holds %d cells, want 25", got)
	}
	if open.Len() != 0 {
		t.Fatalf("open set should be empty, has %d", open.Len())
	}
	if tl.Step(rng.NewRNG(1)) != nil {
		t.Fatal("stepping a finished tiler must be a no-op")
	}
}

func TestGrowthDeterministic(t *testing.T) {
	run := func() [][]core.Coord {
		open := openSquare(24)
		tl := New(24, Config{Mode: SeedRandom, DesiredPoints: 6})
		tl.Begin(open)
		runToDone(t, tl, rng.NewRNG(99))
		out := make([][]core.Coord, tl.Len())
		for i := range out {
			out[i] = tl.Cells(i)
		}
		return out
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("region counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !slices.Equal(a[i], b[i]) {
			t.Fatalf("region %d differs between identical runs", i)
		}
	}
}

func TestPartitionMonotonicAndRadius(t *testing.T) {
	const size = 20
	open := openSquare(size)
	total := open.Len()
	tl := New(size, Config{Mode: SeedRandom, DesiredPoints: 5})
	tl.Begin(open)
	r := rng.NewRNG(7)

	tl.Step(r)
	if tl.State() != StateGrowing {
		t.Fatalf("expected growing after seeding, got %v", tl.State())
	}
	prevSizes := make([]int, tl.Len())
	for i := range prevSizes {
		prevSizes[i] = tl.Region(i).Len()
	}
	prevRadius := tl.Radius()

	for !tl.Done() {
		deltas := tl.Grow()
		if tl.Radius() != prevRadius+1 {
			t.Fatalf("radius went from %d to %d", prevRadius, tl.Radius())
		}
		prevRadius = tl.Radius()

		sum := 0
		for i := 0; i < tl.Len(); i++ {
			n := tl.Region(i).Len()
			if n < prevSizes[i] {
				t.Fatalf("region %d shrank from %d to %d", i, prevSizes[i], n)
			}
			prevSizes[i] = n
			sum += n
		}
		if open.Len()+sum != total {
			t.Fatalf("partition broken: open %d + regions %d != %d", open.Len(), sum, total)
		}
		for _, d := range deltas {
			for _, c := range d.Cells {
				if id, ok := tl.RegionAt(c); !ok || id != d.Region {
					t.Fatalf("delta cell %v not owned by region %d", c, d.Region)
				}
			}
		}
	}

	seen := make(map[core.Coord]int)
	bound := float64(tl.Radius()) + Tolerance
	for i := 0; i < tl.Len(); i++ {
		seed := tl.Region(i).Seed
		for _, c := range tl.Cells(i) {
			if prev, dup := seen[c]; dup {
				t.Fatalf("cell %v in regions %d and %d", c, prev, i)
			}
			seen[c] = i
			if d := math.Sqrt(float64(c.DistSq(seed))); d > bound {
				t.Fatalf("cell %v is %.2f from seed %v, bound %.2f", c, d, seed, bound)
			}
		}
	}
	if len(seen) != total {
		t.Fatalf("connected grid should be fully claimed, %d of %d", len(seen), total)
	}
}

func TestGridSeedingLattice(t *testing.T) {
	open := openSquare(10)
	tl := New(10, Config{Mode: SeedGrid, Density: 5})
	tl.Begin(open)
	deltas := tl.Step(rng.NewRNG(1))

	want := []core.Coord{{X: 2, Y: 2}, {X: 7, Y: 2}, {X: 2, Y: 7}, {X: 7, Y: 7}}
	if tl.Len() != len(want) || tl.DesiredPoints() != len(want) {
		t.Fatalf("expected %d seeds, got %d (desired %d)", len(want), tl.Len(), tl.DesiredPoints())
	}
	for i, w := range want {
		if tl.Region(i).Seed != w {
			t.Fatalf("seed %d = %v, want %v", i, tl.Region(i).Seed, w)
		}
		if len(deltas[i].Cells) != 1 || deltas[i].Cells[0] != w {
			t.Fatalf("seeding delta %d = %v", i, deltas[i].Cells)
		}
	}
}

func TestGridSeedingJitterStaysOpen(t *testing.T) {
	open := openSquare(30)
	tl := New(30, Config{Mode: SeedGrid, Density: 6, Intensity: 2.5})
	tl.Begin(open)
	tl.Step(rng.NewRNG(5))

	if tl.Len() != 25 {
		t.Fatalf("expected 25 lattice seeds, got %d", tl.Len())
	}
	seeds := make(map[core.Coord]bool)
	for i := 0; i < tl.Len(); i++ {
		s := tl.Region(i).Seed
		if !s.In(30) {
			t.Fatalf("seed %v out of bounds", s)
		}
		if seeds[s] {
			t.Fatalf("duplicate seed %v", s)
		}
		seeds[s] = true
		lattice := core.Coord{X: (s.X/6)*6 + 3, Y: (s.Y/6)*6 + 3}
		if s.DistSq(lattice) > 9 {
			t.Fatalf("seed %v drifted too far from lattice point %v", s, lattice)
		}
	}
}

func TestGridSeedingSkipsClosedLattice(t *testing.T) {
	open := core.NewCoordSet(0)
	openBlock(open, 0, 0, 4, 4)
	tl := New(10, Config{Mode: SeedGrid, Density: 5})
	tl.Begin(open)
	tl.Step(rng.NewRNG(1))
	if tl.Len() != 1 || tl.Region(0).Seed != (core.Coord{X: 2, Y: 2}) {
		t.Fatalf("only the lattice point inside the open block should seed, got %d regions", tl.Len())
	}
}

func TestRandomSeedingClampsToOpenSet(t *testing.T) {
	open := core.CoordSetOf(core.Coord{X: 0, Y: 0}, core.Coord{X: 3, Y: 3})
	tl := New(4, Config{Mode: SeedRandom, DesiredPoints: 10})
	tl.Begin(open)
	tl.Step(rng.NewRNG(3))
	if tl.Len() != 2 || tl.DesiredPoints() != 2 {
		t.Fatalf("expected 2 seeds, got %d", tl.Len())
	}
	if open.Len() != 0 {
		t.Fatal("seeds must leave the open set")
	}
}

func TestEmptyOpenSetFinishesImmediately(t *testing.T) {
	tl := New(4, Config{Mode: SeedRandom, DesiredPoints: 3})
	tl.Begin(core.NewCoordSet(0))
	tl.Step(rng.NewRNG(1))
	if !tl.Done() || tl.Len() != 0 {
		t.Fatalf("expected done with no regions, state %v", tl.State())
	}
}

func TestContinueWithLeftoverIslands(t *testing.T) {
	open := core.NewCoordSet(0)
	openBlock(open, 0, 0, 4, 4)
	openBlock(open, 8, 8, 11, 11)
	total := open.Len()

	tl := New(12, Config{Mode: SeedGrid, Density: 5})
	tl.Begin(open)
	r := rng.NewRNG(11)
	runToDone(t, tl, r)

	if open.Len() != 16 {
		t.Fatalf("the unseeded island should remain open, got %d open cells", open.Len())
	}
	if tl.Claimed()+open.Len() != total {
		t.Fatal("partition broken before continuation")
	}

	if !tl.ContinueWithOpenSet() {
		t.Fatal("continuation should start while open cells remain")
	}
	if tl.State() != StateSeeding || tl.DesiredPoints() != 1 {
		t.Fatalf("state %v desired %d after continuation", tl.State(), tl.DesiredPoints())
	}
	runToDone(t, tl, r)

	if open.Len() != 0 {
		t.Fatalf("continuation left %d open cells", open.Len())
	}
	if tl.Len() != 2 {
		t.Fatalf("expected one region per island, got %d", tl.Len())
	}
	if got := tl.Region(0).Len(); got != 25 {
		t.Fatalf("first island region has %d cells, want 25", got)
	}
	if tl.ContinueWithOpenSet() {
		t.Fatal("nothing left to continue with")
	}
}

func TestGrowBeforeSeedingPanics(t *testing.T) {
	tl := New(4, Config{DesiredPoints: 1})
	tl.Begin(openSquare(4))
	defer func() {
		if recover() == nil {
			t.Fatal("expected Grow before seeding to panic")
		}
	}()
	tl.Grow()
}

func TestRegionBorderAndLookup(t *testing.T) {
	open := openSquare(5)
	tl := New(5, Config{Mode: SeedGrid, Density: 5})
	tl.Begin(open)
	runToDone(t, tl, rng.NewRNG(2))

	border := tl.Border(0)
	if len(border) != 16 {
		t.Fatalf("a full 5x5 region has 16 outline cells, got %d", len(border))
	}
	if _, ok := tl.RegionAt(core.Coord{X: 9, Y: 9}); ok {
		t.Fatal("lookup outside the grid must report not found")
	}
	if id, ok := tl.RegionAt(core.Coord{X: 4, Y: 0}); !ok || id != 0 {
		t.Fatalf("RegionAt corner = %d, %v", id, ok)
	}
}
