package river

import (
	"slices"
	"testing"

	"regionmap/internal/core"
	rng "regionmap/pkg/core"
)

type testLand struct {
	open  *core.CoordSet
	water map[core.Coord]bool
}

func newTestLand(size int) *testLand {
	l := &testLand{open: core.NewCoordSet(size * size), water: make(map[core.Coord]bool)}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			l.open.Add(core.Coord{X: x, Y: y})
		}
	}
	return l
}

func (l *testLand) InOpen(c core.Coord) bool  { return l.open.Has(c) }
func (l *testLand) RemoveOpen(c core.Coord)   { l.open.Remove(c) }
func (l *testLand) IsWater(c core.Coord) bool { return l.water[c] }
func (l *testLand) SetWater(c core.Coord)     { l.water[c] = true }

func (l *testLand) flood(c core.Coord) {
	l.open.Remove(c)
	l.water[c] = true
}

func checkPath(t *testing.T, p *Planner, path []core.Coord, start, goal core.Coord) {
	t.Helper()
	if len(path) == 0 || path[0] != start || path[len(path)-1] != goal {
		t.Fatalf("path endpoints wrong: %v", path)
	}
	for i, c := range path {
		if p.Blocked(c) {
			t.Fatalf("path crosses blocked cell %v", c)
		}
		if p.Cost(c) < 1 {
			t.Fatalf("cell %v has cost %d", c, p.Cost(c))
		}
		if i == 0 {
			continue
		}
		prev := path[i-1]
		if d := abs(c.X-prev.X) + abs(c.Y-prev.Y); d != 1 {
			t.Fatalf("step %v -> %v is not lateral", prev, c)
		}
	}
}

func TestFindPathLateralAroundWall(t *testing.T) {
	p := NewPlanner(8, MoveLateral)
	for y := 0; y < 7; y++ {
		p.Block(core.Coord{X: 4, Y: y})
	}
	start, goal := core.Coord{X: 0, Y: 0}, core.Coord{X: 7, Y: 0}
	path, ok := p.FindPath(start, goal)
	if !ok {
		t.Fatal("expected a path under the wall")
	}
	checkPath(t, p, path, start, goal)
	if len(path) != 22 {
		t.Fatalf("shortest detour has 22 cells, got %d", len(path))
	}
}

func TestFindPathFollowsCheapCells(t *testing.T) {
	p := NewPlanner(5, MoveLateral)
	for x := 1; x < 4; x++ {
		p.SetCost(core.Coord{X: x, Y: 0}, 9)
	}
	path, ok := p.FindPath(core.Coord{X: 0, Y: 0}, core.Coord{X: 4, Y: 0})
	if !ok {
		t.Fatal("expected a path")
	}
	for _, c := range path {
		if p.Cost(c) == 9 {
			t.Fatalf("path uses expensive cell %v: %v", c, path)
		}
	}
}

func TestFindPathNoRoute(t *testing.T) {
	p := NewPlanner(5, MoveLateral)
	for y := 0; y < 5; y++ {
		p.Block(core.Coord{X: 2, Y: y})
	}
	if _, ok := p.FindPath(core.Coord{X: 0, Y: 2}, core.Coord{X: 4, Y: 2}); ok {
		t.Fatal("a full wall must yield no path")
	}
	if _, ok := p.FindPath(core.Coord{X: -1, Y: 0}, core.Coord{X: 4, Y: 2}); ok {
		t.Fatal("out-of-grid start must yield no path")
	}
}

func TestMoveAllUsesDiagonals(t *testing.T) {
	p := NewPlanner(6, MoveAll)
	path, ok := p.FindPath(core.Coord{X: 0, Y: 0}, core.Coord{X: 5, Y: 5})
	if !ok || len(path) != 6 {
		t.Fatalf("diagonal path should have 6 cells, got %d", len(path))
	}
}

func TestFindPathDeterministic(t *testing.T) {
	run := func() []core.Coord {
		p := NewPlanner(20, MoveLateral)
		p.RandomizeCosts(rng.NewRNG(17), 4)
		path, _ := p.FindPath(core.Coord{X: 10, Y: 9}, core.Coord{X: 0, Y: 19})
		return path
	}
	a, b := run(), run()
	if len(a) == 0 || !slices.Equal(a, b) {
		t.Fatal("same costs must give the same path")
	}
}

func TestFarthestCorner(t *testing.T) {
	cases := []struct {
		start core.Coord
		want  core.Coord
	}{
		{core.Coord{X: 1, Y: 1}, core.Coord{X: 9, Y: 9}},
		{core.Coord{X: 8, Y: 2}, core.Coord{X: 0, Y: 9}},
		{core.Coord{X: 2, Y: 8}, core.Coord{X: 9, Y: 0}},
		{core.Coord{X: 9, Y: 9}, core.Coord{X: 0, Y: 0}},
	}
	for _, tc := range cases {
		if got := FarthestCorner(tc.start, 10); got != tc.want {
			t.Fatalf("FarthestCorner(%v) = %v, want %v", tc.start, got, tc.want)
		}
	}
	// Dead center on an odd grid ties all four corners; top-left wins.
	if got := FarthestCorner(core.Coord{X: 2, Y: 2}, 5); got != (core.Coord{}) {
		t.Fatalf("tie should resolve to top-left, got %v", got)
	}
}

func TestCarveClipsAtWater(t *testing.T) {
	land := newTestLand(6)
	land.flood(core.Coord{X: 3, Y: 0})
	p := NewPlanner(6, MoveLateral)

	path := []core.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 4, Y: 0}}
	course, carved := p.Carve(path, land)

	if !slices.Equal(course, path[:3]) {
		t.Fatalf("course should stop before the water cell, got %v", course)
	}
	if land.water[core.Coord{X: 5, Y: 0}] {
		t.Fatal("cells past the first water cell must not be carved")
	}
	for _, c := range carved {
		if land.InOpen(c) || !p.Blocked(c) || !land.IsWater(c) {
			t.Fatalf("carved cell %v not fully converted", c)
		}
	}
	if p.Blocked(core.Coord{X: 3, Y: 0}) {
		t.Fatal("pre-existing water must not become an obstacle")
	}
	// x in 0..3, y in 0..1, minus the pre-existing water cell.
	if len(carved) != 7 {
		t.Fatalf("expected 7 carved cells, got %d: %v", len(carved), carved)
	}
}

func TestCarveSkipsClaimedCells(t *testing.T) {
	land := newTestLand(5)
	land.open.Remove(core.Coord{X: 1, Y: 1})
	p := NewPlanner(5, MoveLateral)
	_, carved := p.Carve([]core.Coord{{X: 2, Y: 2}}, land)
	if len(carved) != 8 || land.IsWater(core.Coord{X: 1, Y: 1}) {
		t.Fatalf("claimed cell must stay untouched, carved %v", carved)
	}
}

func TestRiversDoNotCross(t *testing.T) {
	const size = 24
	land := newTestLand(size)
	for x := 0; x < size; x++ {
		land.flood(core.Coord{X: x, Y: size - 1})
	}
	preWater := make(map[core.Coord]bool)
	for c := range land.water {
		preWater[c] = true
	}

	p := NewPlanner(size, MoveLateral)
	r := rng.NewRNG(3)
	p.RandomizeCosts(r, 5)

	var sets [][]core.Coord
	for _, start := range []core.Coord{{X: 5, Y: 12}, {X: 18, Y: 20}} {
		goal := FarthestCorner(start, size)
		path, ok := p.FindPath(start, goal)
		if !ok {
			t.Fatalf("no path from %v to %v", start, goal)
		}
		checkPath(t, p, path, start, goal)
		_, carved := p.Carve(path, land)
		sets = append(sets, carved)
	}

	first := make(map[core.Coord]bool)
	for _, c := range sets[0] {
		first[c] = true
	}
	for _, c := range sets[1] {
		if first[c] && !preWater[c] {
			t.Fatalf("rivers overlap at %v", c)
		}
	}
	if len(sets[0]) == 0 || len(sets[1]) == 0 {
		t.Fatal("both rivers should carve something")
	}
}
