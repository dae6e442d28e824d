// Package bisect partitions an open cell set by repeated two-way flood fills.
// Each split races two fronts from random starts across the current pool; any
// half larger than the target tile size is queued and split again.
package bisect

import (
	"regionmap/internal/core"
	rng "regionmap/pkg/core"
)

// Side identifies one of the two fronts of a split.
type Side int

const (
	SideA Side = iota
	SideB
)

// StepResult reports what changed during one or more micro-steps. A and B
// hold cells claimed by each front during split number Split, Finished the
// ids of tiles that became final, and Loaded is set when a new pool was taken
// from the queue.
type StepResult struct {
	Split    int
	A        []core.Coord
	B        []core.Coord
	Finished []int
	Loaded   bool
}

func (r *StepResult) merge(o StepResult) {
	r.A = append(r.A, o.A...)
	r.B = append(r.B, o.B...)
	r.Finished = append(r.Finished, o.Finished...)
	r.Loaded = r.Loaded || o.Loaded
}

// Empty reports whether the result carries no changes.
func (r StepResult) Empty() bool {
	return len(r.A) == 0 && len(r.B) == 0 && len(r.Finished) == 0 && !r.Loaded
}

type front struct {
	set   *core.CoordSet
	queue []core.Coord
}

// claim expands the front by at most one cell taken from pool.
func (f *front) claim(pool *core.CoordSet) (core.Coord, bool) {
	for len(f.queue) > 0 {
		head := f.queue[0]
		for _, off := range core.Neighbors8 {
			n := head.Add(off)
			if !pool.Remove(n) {
				continue
			}
			f.set.Add(n)
			f.queue = append(f.queue, n)
			return n, true
		}
		f.queue = f.queue[1:]
	}
	return core.Coord{}, false
}

// Tiler is the space bisection state machine. The root pool is the caller's
// open set; cells taken from it are never returned.
type Tiler struct {
	tileSize int

	root     *core.CoordSet
	capacity int
	pending  []*core.CoordSet

	pool    *core.CoordSet
	fronts  [2]front
	turn    Side
	working bool

	tiles   []*core.CoordSet
	owner   map[core.Coord]int
	tiled   int
	reset   bool
	done    bool
	started bool
	splits  int
}

// New returns a tiler that splits until every tile holds at most tileSize
// cells.
func New(tileSize int) *Tiler {
	if tileSize < 1 {
		tileSize = 1
	}
	return &Tiler{tileSize: tileSize, owner: make(map[core.Coord]int)}
}

// Begin attaches the open set as the first pool.
func (t *Tiler) Begin(open *core.CoordSet) {
	t.root = open
	t.capacity = open.Len()
	t.pending = append(t.pending[:0], open)
	t.started = true
}

// TileSize returns the target tile size.
func (t *Tiler) TileSize() int { return t.tileSize }

// Done reports whether every pool has been reduced to tiles.
func (t *Tiler) Done() bool { return t.done }

// Len returns the number of finished tiles.
func (t *Tiler) Len() int { return len(t.tiles) }

// Splits returns how many two-way splits have completed.
func (t *Tiler) Splits() int { return t.splits }

// Pending returns the number of pools waiting to be split.
func (t *Tiler) Pending() int { return len(t.pending) }

// Tile returns a copy of tile i's cells.
func (t *Tiler) Tile(i int) []core.Coord { return t.tiles[i].Items() }

// Border returns tile i's outline cells in row-major order.
func (t *Tiler) Border(i int) []core.Coord { return t.tiles[i].Border() }

// RegionAt returns the finished tile owning c.
func (t *Tiler) RegionAt(c core.Coord) (int, bool) {
	id, ok := t.owner[c]
	return id, ok
}

// Claimed returns the number of cells taken out of the open set, whether
// finished, queued or held by an active front.
func (t *Tiler) Claimed() int {
	n := t.tiled
	for _, p := range t.pending {
		if p != t.root {
			n += p.Len()
		}
	}
	if t.working {
		n += t.fronts[SideA].set.Len() + t.fronts[SideB].set.Len()
		if t.pool != t.root {
			n += t.pool.Len()
		}
	}
	return n
}

// ShouldResetAnimation reports whether a new pool was loaded since the last
// call, and clears the flag.
func (t *Tiler) ShouldResetAnimation() bool {
	r := t.reset
	t.reset = false
	return r
}

// StepN performs up to n micro-steps. It stops early when a split closes,
// so every claimed cell in the result belongs to the same split.
func (t *Tiler) StepN(r *rng.RNG, n int) StepResult {
	out := StepResult{Split: t.splits}
	for i := 0; i < n && !t.done; i++ {
		out.merge(t.Step(r))
		if t.splits != out.Split {
			break
		}
	}
	return out
}

// Step performs one micro-step: load the next pool, claim one cell for the
// front whose turn it is, or close a split whose fronts have both stalled.
// It is a no-op once done.
func (t *Tiler) Step(r *rng.RNG) StepResult {
	split := t.splits
	if t.done || !t.started {
		return StepResult{Split: split}
	}
	if !t.working {
		res := t.load(r)
		res.Split = split
		return res
	}

	for _, side := range [2]Side{t.turn, t.turn ^ 1} {
		c, ok := t.fronts[side].claim(t.pool)
		if !ok {
			continue
		}
		t.turn = side ^ 1
		if side == SideA {
			return StepResult{Split: split, A: []core.Coord{c}}
		}
		return StepResult{Split: split, B: []core.Coord{c}}
	}
	res := t.finishSplit()
	res.Split = split
	return res
}

func (t *Tiler) load(r *rng.RNG) StepResult {
	for len(t.pending) > 0 {
		pool := t.pending[0]
		t.pending = t.pending[1:]
		if pool.Len() == 0 {
			continue
		}
		t.reset = true
		if pool.Len() <= t.tileSize {
			id := t.finalize(pool)
			return StepResult{Finished: []int{id}, Loaded: true}
		}

		a := t.pick(r, pool)
		b := t.pick(r, pool)
		t.pool = pool
		t.fronts[SideA] = front{set: core.CoordSetOf(a), queue: []core.Coord{a}}
		t.fronts[SideB] = front{set: core.CoordSetOf(b), queue: []core.Coord{b}}
		t.turn = SideA
		t.working = true
		return StepResult{A: []core.Coord{a}, B: []core.Coord{b}, Loaded: true}
	}
	t.done = true
	return StepResult{}
}

// pick removes one random cell from pool. Large pools use direct indexed
// removal; once the pool falls to half the original capacity the remaining
// cells are ordered row-major before the index is drawn.
func (t *Tiler) pick(r *rng.RNG, pool *core.CoordSet) core.Coord {
	if pool.Len()*2 > t.capacity {
		return pool.RemoveAt(r.IntN(pool.Len()))
	}
	sorted := pool.Sorted()
	c := sorted[r.IntN(len(sorted))]
	pool.Remove(c)
	return c
}

func (t *Tiler) finishSplit() StepResult {
	var out StepResult
	for _, side := range [2]Side{SideA, SideB} {
		set := t.fronts[side].set
		if set.Len() > t.tileSize {
			t.pending = append(t.pending, set)
			continue
		}
		out.Finished = append(out.Finished, t.finalize(set))
	}
	// Cells neither front could reach are split on their own.
	if t.pool.Len() > 0 {
		t.pending = append(t.pending, t.pool)
	}
	t.pool = nil
	t.fronts = [2]front{}
	t.working = false
	t.splits++
	if len(t.pending) == 0 {
		t.done = true
	}
	return out
}

func (t *Tiler) finalize(set *core.CoordSet) int {
	id := len(t.tiles)
	tile := set
	if set == t.root {
		tile = set.Clone()
		set.Clear()
	}
	for i := 0; i < tile.Len(); i++ {
		t.owner[tile.At(i)] = id
	}
	t.tiles = append(t.tiles, tile)
	t.tiled += tile.Len()
	return id
}
