package mapgen

import (
	"slices"
	"testing"

	"regionmap/internal/core"
)

func testConfig(size int, seed int64, tiler TilerKind) Config {
	cfg := DefaultConfig()
	cfg.Size = size
	cfg.Seed = seed
	cfg.Tiler = tiler
	cfg.Params.HeightBatch = 97
	cfg.Params.Regions = 6
	cfg.Params.GridDensity = 10
	cfg.Params.GridIntensity = 2
	cfg.Params.TileSize = 60
	cfg.Params.BisectBatch = 16
	return cfg
}

func allLand(cfg Config) Config {
	cfg.Params.SeaLevel = -10
	return cfg
}

func checkPartition(t *testing.T, s *Session) {
	t.Helper()
	if s.Phase() == PhaseHeight {
		return
	}
	total := s.OpenCells() + s.Claimed() + s.RiverCells()
	if total != s.Habitable() {
		t.Fatalf("phase %v: open %d + claimed %d + river %d != habitable %d",
			s.Phase(), s.OpenCells(), s.Claimed(), s.RiverCells(), s.Habitable())
	}
}

func TestSessionDeterministic(t *testing.T) {
	for _, kind := range []TilerKind{TilerGrowth, TilerGrid, TilerBisect} {
		a := New(testConfig(40, 9, kind))
		b := New(testConfig(40, 9, kind))
		a.Run()
		b.Run()
		if !slices.Equal(a.Cells(), b.Cells()) {
			t.Fatalf("%s: identical configs produced different maps", kind)
		}
		if !slices.Equal(a.Heights(), b.Heights()) {
			t.Fatalf("%s: height fields differ", kind)
		}
		if a.Rivers() != b.Rivers() || a.Regions() != b.Regions() {
			t.Fatalf("%s: rivers %d/%d regions %d/%d", kind, a.Rivers(), b.Rivers(), a.Regions(), b.Regions())
		}
		for i := 0; i < a.Rivers(); i++ {
			if !slices.Equal(a.River(i), b.River(i)) {
				t.Fatalf("%s: river %d differs", kind, i)
			}
		}
	}
}

func TestSessionPhasesInOrder(t *testing.T) {
	s := New(allLand(testConfig(20, 3, TilerGrowth)))
	if s.Phase() != PhaseHeight {
		t.Fatalf("new session starts in %v", s.Phase())
	}
	seen := []Phase{s.Phase()}
	for !s.Done() {
		s.Step()
		if last := seen[len(seen)-1]; s.Phase() != last {
			if s.Phase() < last {
				t.Fatalf("phase went back from %v to %v", last, s.Phase())
			}
			seen = append(seen, s.Phase())
		}
	}
	if seen[0] != PhaseHeight || seen[len(seen)-1] != PhaseDone {
		t.Fatalf("unexpected phase sequence %v", seen)
	}
	if s.Habitable() != 400 {
		t.Fatalf("all-land map should have 400 habitable cells, got %d", s.Habitable())
	}
}

func TestPartitionHoldsEveryStep(t *testing.T) {
	for _, kind := range []TilerKind{TilerGrowth, TilerGrid, TilerBisect} {
		cfg := testConfig(36, 12, kind)
		cfg.Params.Rivers = 4
		s := New(cfg)
		for guard := 0; !s.Done(); guard++ {
			if guard > 100000 {
				t.Fatalf("%s: session did not finish", kind)
			}
			s.Step()
			checkPartition(t, s)
		}
		if s.OpenCells() != 0 {
			t.Fatalf("%s: %d land cells left unclaimed", kind, s.OpenCells())
		}
	}
}

func TestRegionsDoNotOverlapRivers(t *testing.T) {
	s := New(allLand(testConfig(32, 21, TilerGrowth)))
	s.Run()
	rivers := s.RiverMask()
	regions := s.RegionMask(false)
	riverCount := 0
	for i := range rivers {
		if rivers[i] != 0 {
			riverCount++
			if regions[i] != 0 {
				t.Fatalf("cell %d is both river and region", i)
			}
			c := core.Coord{X: i % 32, Y: i / 32}
			if _, ok := s.RegionAt(c); ok {
				t.Fatalf("river cell %v reports a region", c)
			}
		}
	}
	if riverCount != s.RiverCells() {
		t.Fatalf("river mask has %d cells, counter says %d", riverCount, s.RiverCells())
	}
}

func TestRiversDoNotCross(t *testing.T) {
	cfg := allLand(testConfig(48, 5, TilerGrowth))
	cfg.Params.Rivers = 6
	s := New(cfg)
	for s.Phase() != PhaseTiling && !s.Done() {
		s.Step()
	}
	for i := 0; i < 4; i++ {
		s.CarveRiver()
	}
	owner := make(map[core.Coord]int)
	for i := 0; i < s.Rivers(); i++ {
		for _, c := range s.River(i) {
			if prev, dup := owner[c]; dup {
				t.Fatalf("rivers %d and %d both carved %v", prev, i, c)
			}
			owner[c] = i
		}
	}
	if s.Rivers() == 0 {
		t.Fatal("expected at least one river on an all-land map")
	}
	checkPartition(t, s)
}

func TestStepAfterDoneIsNoop(t *testing.T) {
	s := New(testConfig(24, 2, TilerBisect))
	s.Run()
	cells := slices.Clone(s.Cells())
	steps := s.Steps()
	s.Step()
	s.Step()
	if !slices.Equal(cells, s.Cells()) || s.Steps() != steps {
		t.Fatal("stepping a finished map must not change it")
	}
	if s.CarveRiver() {
		t.Fatal("carving after completion must be refused")
	}
}

func TestNoRiversWhenDisabled(t *testing.T) {
	cfg := allLand(testConfig(16, 4, TilerGrid))
	cfg.Params.Rivers = 0
	s := New(cfg)
	s.Run()
	if s.Rivers() != 0 || s.RiverCells() != 0 {
		t.Fatalf("expected no rivers, got %d", s.Rivers())
	}
}

func TestIslandsLeftOpenWithoutReseeding(t *testing.T) {
	cfg := allLand(testConfig(40, 7, TilerGrowth))
	cfg.Params.Islands = false
	cfg.Params.Regions = 1
	s := New(cfg)
	s.Run()
	checkPartition(t, s)
	if s.Regions() != 1 {
		t.Fatalf("without reseeding only the first seed grows, got %d regions", s.Regions())
	}
}

func TestOutlineMaskIsSubsetOfFilled(t *testing.T) {
	s := New(allLand(testConfig(30, 8, TilerBisect)))
	s.Run()
	filled := s.RegionMask(false)
	outline := s.RegionMask(true)
	outlined := 0
	for i := range outline {
		if outline[i] == 0 {
			continue
		}
		outlined++
		if filled[i] != outline[i] {
			t.Fatalf("outline cell %d not in the same filled region", i)
		}
	}
	if outlined == 0 {
		t.Fatal("expected some outline cells")
	}
}

func TestResetAppliesParameters(t *testing.T) {
	s := New(testConfig(16, 1, TilerGrowth))
	if !s.SetIntParameter("regions", 3) || !s.SetFloatParameter("sea_level", -10) {
		t.Fatal("known parameters must be accepted")
	}
	if s.SetIntParameter("tile_size", 0) || s.SetIntParameter("nope", 1) {
		t.Fatal("invalid updates must be rejected")
	}
	s.Reset(0)
	s.Run()
	if s.Habitable() != 256 {
		t.Fatalf("sea level change not applied, habitable %d", s.Habitable())
	}
	p, ok := s.Parameters().Lookup("regions")
	if !ok || p.Value != "3" {
		t.Fatalf("regions parameter = %+v", p)
	}
}

func TestRegisteredVariants(t *testing.T) {
	for _, name := range []string{"growth", "grid", "bisect"} {
		f, ok := core.Sims()[name]
		if !ok {
			t.Fatalf("variant %q not registered", name)
		}
		sim := f(map[string]string{"size": "12", "seed": "4"})
		if sim.Name() != name || sim.Size() != (core.Size{W: 12, H: 12}) {
			t.Fatalf("factory %q built %s %+v", name, sim.Name(), sim.Size())
		}
	}
}

func TestZeroSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for zero grid size")
		}
	}()
	New(Config{})
}

func TestRegionAtOutsideGrid(t *testing.T) {
	s := New(testConfig(8, 1, TilerGrowth))
	s.Run()
	if _, ok := s.RegionAt(core.Coord{X: -1, Y: 3}); ok {
		t.Fatal("lookup outside the grid must report not found")
	}
}

func TestRiverPathsFollowTheCourse(t *testing.T) {
	cfg := allLand(testConfig(40, 5, TilerGrowth))
	cfg.Params.Rivers = 3
	s := New(cfg)
	s.Run()
	if s.Rivers() == 0 {
		t.Fatal("expected rivers on an all-land map")
	}
	for i := 0; i < s.Rivers(); i++ {
		path := s.RiverPath(i)
		if len(path) == 0 {
			t.Fatalf("river %d has an empty course", i)
		}
		carved := make(map[core.Coord]bool)
		for _, c := range s.River(i) {
			carved[c] = true
		}
		for j, c := range path {
			if !carved[c] {
				t.Fatalf("river %d course cell %v was not carved", i, c)
			}
			if j == 0 {
				continue
			}
			d := c.Add(core.Coord{X: -path[j-1].X, Y: -path[j-1].Y})
			if d.X*d.X+d.Y*d.Y != 1 {
				t.Fatalf("river %d steps from %v to %v", i, path[j-1], c)
			}
		}
	}
}

func TestZeroValueConfigFinishes(t *testing.T) {
	for _, tiler := range []TilerKind{"", TilerGrid, TilerBisect} {
		s := New(Config{Size: 8, Seed: 1, Tiler: tiler})
		for guard := 0; !s.Done(); guard++ {
			if guard > 10000 {
				t.Fatalf("tiler %q: session did not finish", tiler)
			}
			s.Step()
		}
		checkPartition(t, s)
	}
}
