// Package growth partitions a set of open grid cells into compact regions by
// growing every seed's frontier outward one radius at a time.
package growth

import (
	"math"

	"regionmap/internal/core"
	rng "regionmap/pkg/core"
)

// Tolerance is added to the current radius when testing whether a cell is
// close enough to a seed to be claimed.
const Tolerance = math.Sqrt2 - 1

// State is the tiler's lifecycle phase.
type State int

const (
	StateUninitialized State = iota
	StateSeeding
	StateGrowing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateSeeding:
		return "seeding"
	case StateGrowing:
		return "growing"
	case StateDone:
		return "done"
	default:
		return "uninitialized"
	}
}

// SeedMode selects how seed points are placed.
type SeedMode int

const (
	// SeedRandom draws seeds uniformly from the open set.
	SeedRandom SeedMode = iota
	// SeedGrid places seeds on a lattice, optionally jittered.
	SeedGrid
)

// Config controls seeding. DesiredPoints applies to random seeding; Density
// is the lattice spacing and Intensity the maximum jitter for grid seeding.
type Config struct {
	Mode          SeedMode
	DesiredPoints int
	Density       int
	Intensity     float64
}

// Region is one seed and the cells it has claimed.
type Region struct {
	ID       int
	Seed     core.Coord
	cells    *core.CoordSet
	frontier *core.CoordSet
}

// Len returns the number of claimed cells, seed included.
func (r *Region) Len() int { return r.cells.Len() }

// Growing reports whether the region still has a frontier.
func (r *Region) Growing() bool { return r.frontier.Len() > 0 }

// Delta lists the cells a region claimed during one step.
type Delta struct {
	Region int
	Cells  []core.Coord
}

// Tiler grows regions over a shared open set. The open set is owned by the
// caller; claimed cells are removed from it.
type Tiler struct {
	cfg  Config
	size int

	open    *core.CoordSet
	state   State
	regions []*Region
	owner   map[core.Coord]int
	radius  int

	desired        int
	initialOpen    int
	initialDesired int
	continued      bool
}

// New returns an uninitialized tiler for a size*size grid.
func New(size int, cfg Config) *Tiler {
	if cfg.Density <= 0 {
		cfg.Density = 1
	}
	if cfg.Intensity < 0 {
		cfg.Intensity = 0
	}
	return &Tiler{cfg: cfg, size: size, owner: make(map[core.Coord]int)}
}

// Begin attaches the open set and moves the tiler to seeding.
func (t *Tiler) Begin(open *core.CoordSet) {
	t.open = open
	t.initialOpen = open.Len()
	t.desired = t.cfg.DesiredPoints
	t.state = StateSeeding
}

// State returns the current lifecycle phase.
func (t *Tiler) State() State { return t.state }

// Done reports whether growth has finished.
func (t *Tiler) Done() bool { return t.state == StateDone }

// Radius returns the radius used by the next growth pass.
func (t *Tiler) Radius() int { return t.radius }

// DesiredPoints returns the number of seeds placed by the last seeding.
func (t *Tiler) DesiredPoints() int { return t.desired }

// Len returns the number of regions.
func (t *Tiler) Len() int { return len(t.regions) }

// Region returns the i-th region.
func (t *Tiler) Region(i int) *Region { return t.regions[i] }

// Cells returns a copy of region i's cells in claim order.
func (t *Tiler) Cells(i int) []core.Coord { return t.regions[i].cells.Items() }

// Border returns region i's outline cells in row-major order.
func (t *Tiler) Border(i int) []core.Coord { return t.regions[i].cells.Border() }

// RegionAt returns the region owning c.
func (t *Tiler) RegionAt(c core.Coord) (int, bool) {
	id, ok := t.owner[c]
	return id, ok
}

// Claimed returns the number of cells held by all regions.
func (t *Tiler) Claimed() int { return len(t.owner) }

// Step advances by one unit: a seeding pass or a single radius of growth.
// It is a no-op before Begin and after completion.
func (t *Tiler) Step(r *rng.RNG) []Delta {
	switch t.state {
	case StateSeeding:
		return t.Seed(r)
	case StateGrowing:
		return t.Grow()
	default:
		return nil
	}
}

// StepN performs up to n steps and concatenates their deltas.
func (t *Tiler) StepN(r *rng.RNG, n int) []Delta {
	var out []Delta
	for i := 0; i < n && (t.state == StateSeeding || t.state == StateGrowing); i++ {
		out = append(out, t.Step(r)...)
	}
	return out
}

// Seed places seeds from the open set. Each seed becomes its own region.
func (t *Tiler) Seed(r *rng.RNG) []Delta {
	if t.state != StateSeeding {
		return nil
	}
	first := len(t.regions)
	if t.cfg.Mode == SeedGrid && !t.continued {
		t.seedGrid(r)
	} else {
		t.seedRandom(r, t.desired)
	}

	placed := len(t.regions) - first
	t.desired = placed
	if !t.continued {
		t.initialDesired = placed
	}
	t.radius = 1
	if placed == 0 {
		t.state = StateDone
		return nil
	}
	t.state = StateGrowing

	out := make([]Delta, 0, placed)
	for _, reg := range t.regions[first:] {
		out = append(out, Delta{Region: reg.ID, Cells: []core.Coord{reg.Seed}})
	}
	return out
}

func (t *Tiler) seedRandom(r *rng.RNG, desired int) {
	if desired > t.open.Len() {
		desired = t.open.Len()
	}
	if desired < 1 && t.open.Len() > 0 {
		desired = 1
	}
	for i := 0; i < desired; i++ {
		c := t.open.RemoveAt(r.IntN(t.open.Len()))
		t.addRegion(c)
	}
}

func (t *Tiler) seedGrid(r *rng.RNG) {
	d := t.cfg.Density
	for y := d / 2; y < t.size; y += d {
		for x := d / 2; x < t.size; x += d {
			p := core.Coord{X: x, Y: y}
			if !t.open.Has(p) {
				continue
			}
			q := p
			if t.cfg.Intensity > 0 {
				angle := r.Float64() * 2 * math.Pi
				mag := r.Float64() * t.cfg.Intensity
				q = p.Add(core.Coord{
					X: int(math.Round(mag * math.Cos(angle))),
					Y: int(math.Round(mag * math.Sin(angle))),
				})
				if !t.open.Has(q) {
					q = p
				}
			}
			t.open.Remove(q)
			t.addRegion(q)
		}
	}
}

func (t *Tiler) addRegion(seed core.Coord) {
	id := len(t.regions)
	reg := &Region{
		ID:       id,
		Seed:     seed,
		cells:    core.CoordSetOf(seed),
		frontier: core.CoordSetOf(seed),
	}
	t.regions = append(t.regions, reg)
	t.owner[seed] = id
}

// Grow expands every region's frontier by one radius. Regions are visited in
// seed order and neighbors in core.Neighbors8 order. Calling Grow before any
// seed has been placed is a programming error.
func (t *Tiler) Grow() []Delta {
	switch t.state {
	case StateDone:
		return nil
	case StateGrowing:
	default:
		panic("growth: Grow called before seeding")
	}

	limit := float64(t.radius) + Tolerance
	limitSq := limit * limit
	var out []Delta
	active := false

	for _, reg := range t.regions {
		if !reg.Growing() {
			continue
		}
		next := core.NewCoordSet(reg.frontier.Len() * 2)
		var claimed []core.Coord
		for i := 0; i < reg.frontier.Len(); i++ {
			c := reg.frontier.At(i)
			pending := false
			for _, off := range core.Neighbors8 {
				n := c.Add(off)
				if _, taken := t.owner[n]; taken {
					continue
				}
				if !t.open.Has(n) {
					continue
				}
				if float64(n.DistSq(reg.Seed)) > limitSq {
					// Out of reach this pass; keep c so a larger radius can claim n.
					pending = true
					continue
				}
				t.open.Remove(n)
				reg.cells.Add(n)
				t.owner[n] = reg.ID
				next.Add(n)
				claimed = append(claimed, n)
			}
			if pending {
				next.Add(c)
			}
		}
		reg.frontier = next
		if next.Len() > 0 {
			active = true
		}
		if len(claimed) > 0 {
			out = append(out, Delta{Region: reg.ID, Cells: claimed})
		}
	}

	t.radius++
	if !active {
		t.state = StateDone
	}
	return out
}

// ContinueWithOpenSet reseeds the cells left open after growth finished, such
// as islands no seed could reach. The seed count is scaled by the fraction of
// the original open set that remains. It reports whether a new seeding pass
// was started.
func (t *Tiler) ContinueWithOpenSet() bool {
	if t.state != StateDone || t.open == nil || t.open.Len() == 0 {
		return false
	}
	desired := t.initialDesired
	if t.initialOpen > 0 {
		desired = int(math.Round(float64(t.initialDesired) * float64(t.open.Len()) / float64(t.initialOpen)))
	}
	if desired < 1 {
		desired = 1
	}
	if desired > t.open.Len() {
		desired = t.open.Len()
	}
	t.desired = desired
	t.radius = 0
	t.continued = true
	t.state = StateSeeding
	return true
}
