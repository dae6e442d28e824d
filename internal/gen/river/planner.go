// Package river routes rivers across the map with a weighted A* search and
// stamps the widened path into the land.
package river

import (
	"container/heap"

	"regionmap/internal/core"
	rng "regionmap/pkg/core"
)

// MoveMode selects the neighbor set used by the search.
type MoveMode int

const (
	// MoveLateral allows the four axis-aligned steps.
	MoveLateral MoveMode = iota
	// MoveAll adds diagonal steps.
	MoveAll
)

func (m MoveMode) String() string {
	if m == MoveAll {
		return "all"
	}
	return "lateral"
}

// ParseMoveMode maps "lateral" and "all" to a mode.
func ParseMoveMode(s string) (MoveMode, bool) {
	switch s {
	case "lateral":
		return MoveLateral, true
	case "all":
		return MoveAll, true
	}
	return MoveLateral, false
}

// Planner holds the cost field and impassable cells for one map.
type Planner struct {
	size    int
	mode    MoveMode
	cost    []int
	blocked *core.CoordSet
}

// NewPlanner returns a planner for a size*size grid with unit costs.
func NewPlanner(size int, mode MoveMode) *Planner {
	if size < 1 {
		size = 1
	}
	cost := make([]int, size*size)
	for i := range cost {
		cost[i] = 1
	}
	return &Planner{size: size, mode: mode, cost: cost, blocked: core.NewCoordSet(0)}
}

// Size returns the grid edge length.
func (p *Planner) Size() int { return p.size }

// Mode returns the move mode.
func (p *Planner) Mode() MoveMode { return p.mode }

// SetCost sets the cost of entering c. Costs below 1 are raised to 1.
func (p *Planner) SetCost(c core.Coord, v int) {
	if !c.In(p.size) {
		return
	}
	if v < 1 {
		v = 1
	}
	p.cost[c.Y*p.size+c.X] = v
}

// Cost returns the cost of entering c, or 0 outside the grid.
func (p *Planner) Cost(c core.Coord) int {
	if !c.In(p.size) {
		return 0
	}
	return p.cost[c.Y*p.size+c.X]
}

// RandomizeCosts fills the field in row-major order with values in
// [1, bound].
func (p *Planner) RandomizeCosts(r *rng.RNG, bound int) {
	if bound < 1 {
		bound = 1
	}
	for i := range p.cost {
		p.cost[i] = 1 + r.IntN(bound)
	}
}

// Block marks c impassable.
func (p *Planner) Block(c core.Coord) { p.blocked.Add(c) }

// Blocked reports whether c is impassable.
func (p *Planner) Blocked(c core.Coord) bool { return p.blocked.Has(c) }

// Obstacles returns the number of impassable cells.
func (p *Planner) Obstacles() int { return p.blocked.Len() }

func (p *Planner) passable(c core.Coord) bool {
	return c.In(p.size) && !p.blocked.Has(c)
}

func (p *Planner) heuristic(a, b core.Coord) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if p.mode == MoveAll {
		return max(dx, dy)
	}
	return dx + dy
}

func (p *Planner) moves() []core.Coord {
	if p.mode == MoveAll {
		return core.Neighbors8[:]
	}
	return core.Neighbors4[:]
}

// FindPath returns the cheapest path from start to goal, both included. The
// second result is false when the goal cannot be reached.
func (p *Planner) FindPath(start, goal core.Coord) ([]core.Coord, bool) {
	if !p.passable(start) || !p.passable(goal) {
		return nil, false
	}
	if start == goal {
		return []core.Coord{start}, true
	}

	n := p.size * p.size
	g := make([]int, n)
	from := make([]int, n)
	for i := range g {
		g[i] = -1
		from[i] = -1
	}
	idx := func(c core.Coord) int { return c.Y*p.size + c.X }

	open := frontier{}
	seq := 0
	g[idx(start)] = 0
	heap.Push(&open, &item{cell: start, f: p.heuristic(start, goal), seq: seq})

	moves := p.moves()
	for open.Len() > 0 {
		cur := heap.Pop(&open).(*item)
		ci := idx(cur.cell)
		if cur.g > g[ci] {
			continue // stale entry
		}
		if cur.cell == goal {
			return p.reconstruct(from, ci), true
		}
		for _, off := range moves {
			nb := cur.cell.Add(off)
			if !p.passable(nb) {
				continue
			}
			ni := idx(nb)
			tentative := cur.g + p.cost[ni]
			if g[ni] >= 0 && tentative >= g[ni] {
				continue
			}
			g[ni] = tentative
			from[ni] = ci
			seq++
			heap.Push(&open, &item{cell: nb, f: tentative + p.heuristic(nb, goal), g: tentative, seq: seq})
		}
	}
	return nil, false
}

func (p *Planner) reconstruct(from []int, i int) []core.Coord {
	var path []core.Coord
	for ; i >= 0; i = from[i] {
		path = append(path, core.Coord{X: i % p.size, Y: i / p.size})
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

// FarthestCorner returns the grid corner farthest from start. Ties go to the
// first corner in the order top-left, top-right, bottom-left, bottom-right.
func FarthestCorner(start core.Coord, size int) core.Coord {
	last := size - 1
	corners := [4]core.Coord{{X: 0, Y: 0}, {X: last, Y: 0}, {X: 0, Y: last}, {X: last, Y: last}}
	best := corners[0]
	bestD := start.DistSq(best)
	for _, c := range corners[1:] {
		if d := start.DistSq(c); d > bestD {
			best, bestD = c, d
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
