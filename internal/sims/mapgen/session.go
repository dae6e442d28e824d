// Package mapgen runs one map-generation session: it samples heights, carves
// rivers and partitions the remaining land, one bounded step at a time.
package mapgen

import (
	"log/slog"

	"regionmap/internal/core"
	"regionmap/internal/gen/bisect"
	"regionmap/internal/gen/growth"
	"regionmap/internal/gen/height"
	"regionmap/internal/gen/river"
	rng "regionmap/pkg/core"
)

// Phase is the session's current generation stage.
type Phase int

const (
	PhaseHeight Phase = iota
	PhaseRivers
	PhaseTiling
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseHeight:
		return "height"
	case PhaseRivers:
		return "rivers"
	case PhaseTiling:
		return "tiling"
	default:
		return "done"
	}
}

// Session owns every per-map structure: the RNG, the height and terrain
// grids, the open set and the river planner. It implements core.Sim.
type Session struct {
	cfg  Config
	size int
	log  *slog.Logger

	rng     *rng.RNG
	sampler *height.Sampler
	heights []float64
	terrain []Terrain
	display []uint8

	open       *core.CoordSet
	habitable  int
	riverCells int

	planner      *river.Planner
	riversWanted int
	riversTried  int
	rivers       [][]core.Coord
	riverPaths   [][]core.Coord

	growth *growth.Tiler
	bisect *bisect.Tiler

	phase Phase
	steps int
	seed  int64
}

// New returns a session seeded with cfg.Seed. A non-positive size is a
// programming error; other unusable sizes and counts fall back to the
// defaults.
func New(cfg Config) *Session {
	if cfg.Size <= 0 {
		panic("mapgen: grid size must be positive")
	}
	s := &Session{cfg: cfg.sanitized(), log: slog.Default()}
	s.Reset(0)
	return s
}

// SetLogger replaces the session logger. A nil logger restores slog.Default.
func (s *Session) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	s.log = l
}

// Config returns the configuration the next Reset will use.
func (s *Session) Config() Config { return s.cfg }

// Name returns the simulation identifier.
func (s *Session) Name() string { return string(s.cfg.Tiler) }

// Size reports the grid dimensions.
func (s *Session) Size() core.Size { return core.Size{W: s.size, H: s.size} }

// Cells exposes the current display buffer.
func (s *Session) Cells() []uint8 { return s.display }

// Phase returns the current stage.
func (s *Session) Phase() Phase { return s.phase }

// Stage names the current phase for timing reports.
func (s *Session) Stage() string { return s.phase.String() }

// Done reports whether generation has finished.
func (s *Session) Done() bool { return s.phase == PhaseDone }

// Seed returns the seed of the current map.
func (s *Session) Seed() int64 { return s.seed }

// Steps returns how many non-idle steps the current map has taken.
func (s *Session) Steps() int { return s.steps }

// Heights exposes the sampled height field in row-major order.
func (s *Session) Heights() []float64 { return s.heights }

// TerrainAt returns the terrain class at c.
func (s *Session) TerrainAt(c core.Coord) Terrain {
	if !c.In(s.size) {
		return TerrainDeepWater
	}
	return s.terrain[c.Y*s.size+c.X]
}

// Habitable returns the land cell count fixed when height sampling ended.
func (s *Session) Habitable() int { return s.habitable }

// OpenCells returns the number of land cells not yet claimed.
func (s *Session) OpenCells() int { return s.open.Len() }

// RiverCells returns the number of land cells turned into river.
func (s *Session) RiverCells() int { return s.riverCells }

// Rivers returns the number of rivers that carved at least one cell.
func (s *Session) Rivers() int { return len(s.rivers) }

// River returns a copy of the cells carved by river i.
func (s *Session) River(i int) []core.Coord {
	return append([]core.Coord(nil), s.rivers[i]...)
}

// RiverPath returns a copy of river i's course: the planned path clipped to
// the land it was carved into, in order from the source.
func (s *Session) RiverPath(i int) []core.Coord {
	return append([]core.Coord(nil), s.riverPaths[i]...)
}

// Claimed returns the number of cells held by the active tiler.
func (s *Session) Claimed() int {
	switch {
	case s.growth != nil:
		return s.growth.Claimed()
	case s.bisect != nil:
		return s.bisect.Claimed()
	}
	return 0
}

// Regions returns the number of regions or tiles produced so far.
func (s *Session) Regions() int {
	switch {
	case s.growth != nil:
		return s.growth.Len()
	case s.bisect != nil:
		return s.bisect.Len()
	}
	return 0
}

// Reset discards the current map and starts a new one. A zero seed reuses
// the configured seed. Parameter changes take effect here.
func (s *Session) Reset(seed int64) {
	if s.cfg.Size <= 0 {
		return
	}
	s.cfg = s.cfg.sanitized()
	effective := seed
	if effective == 0 {
		effective = s.cfg.Seed
	}
	p := s.cfg.Params
	n := s.cfg.Size * s.cfg.Size

	s.size = s.cfg.Size
	s.seed = effective
	s.rng = rng.NewRNG(effective)
	s.sampler = height.NewWithNoise(s.size, p.HeightBatch, effective, p.Noise)
	s.heights = make([]float64, n)
	s.terrain = make([]Terrain, n)
	s.display = make([]uint8, n)
	s.open = core.NewCoordSet(n)
	s.habitable = 0
	s.riverCells = 0
	s.planner = nil
	s.riversWanted = 0
	s.riversTried = 0
	s.rivers = nil
	s.riverPaths = nil
	s.growth = nil
	s.bisect = nil
	s.phase = PhaseHeight
	s.steps = 0
	s.log.Debug("map reset", "seed", effective, "size", s.size, "tiler", s.cfg.Tiler, "noise", p.Noise.Kind)
}

// Step performs one bounded unit of work for the current phase. It is a
// no-op once the map is done.
func (s *Session) Step() {
	if s.phase == PhaseDone {
		return
	}
	s.steps++
	switch s.phase {
	case PhaseHeight:
		s.stepHeight()
	case PhaseRivers:
		s.stepRivers()
	case PhaseTiling:
		s.stepTiling()
	}
}

// Run steps until the map is done and returns the number of steps taken.
func (s *Session) Run() int {
	start := s.steps
	for s.phase != PhaseDone {
		s.Step()
	}
	return s.steps - start
}

func (s *Session) setPhase(p Phase) {
	s.log.Debug("phase", "from", s.phase, "to", p, "step", s.steps)
	s.phase = p
}

func (s *Session) stepHeight() {
	sea := s.cfg.Params.SeaLevel
	for _, smp := range s.sampler.Next() {
		i := smp.Y*s.size + smp.X
		t := Classify(smp.Height, sea)
		s.heights[i] = smp.Height
		s.terrain[i] = t
		s.display[i] = encodeTerrain(t)
		if !t.Water() {
			s.open.Add(smp.Coord())
		}
	}
	if s.sampler.Done() {
		s.habitable = s.open.Len()
		s.enterRivers()
	}
}

func (s *Session) enterRivers() {
	p := s.cfg.Params
	if p.Rivers > 0 {
		s.riversWanted = 1 + s.rng.IntN(p.Rivers)
	}
	s.planner = river.NewPlanner(s.size, p.RiverMode)
	s.planner.RandomizeCosts(s.rng, p.RiverCost)
	s.setPhase(PhaseRivers)
	s.log.Debug("rivers planned", "count", s.riversWanted, "habitable", s.habitable)
	if s.riversWanted == 0 {
		s.enterTiling()
	}
}

func (s *Session) stepRivers() {
	s.carve()
	s.riversTried++
	if s.riversTried >= s.riversWanted {
		s.enterTiling()
	}
}

// CarveRiver carves one extra river from a random open cell. It can be
// called once height sampling has finished, including while tiling runs, and
// reports whether any cell was carved.
func (s *Session) CarveRiver() bool {
	if s.planner == nil || s.phase == PhaseDone {
		return false
	}
	return s.carve()
}

func (s *Session) carve() bool {
	if s.open.Len() == 0 {
		return false
	}
	start := s.open.At(s.rng.IntN(s.open.Len()))
	goal := river.FarthestCorner(start, s.size)
	path, ok := s.planner.FindPath(start, goal)
	if !ok {
		s.log.Debug("river skipped", "start", start, "goal", goal, "reason", "no path")
		return false
	}
	course, carved := s.planner.Carve(path, sessionLand{s})
	if len(carved) == 0 {
		return false
	}
	s.rivers = append(s.rivers, carved)
	s.riverPaths = append(s.riverPaths, course)
	s.log.Debug("river carved", "start", start, "goal", goal, "path", len(path), "cells", len(carved))
	return true
}

func (s *Session) enterTiling() {
	p := s.cfg.Params
	switch s.cfg.Tiler {
	case TilerBisect:
		s.bisect = bisect.New(p.TileSize)
		s.bisect.Begin(s.open)
	default:
		cfg := growth.Config{Mode: growth.SeedRandom, DesiredPoints: p.Regions}
		if s.cfg.Tiler == TilerGrid {
			cfg = growth.Config{Mode: growth.SeedGrid, Density: p.GridDensity, Intensity: p.GridIntensity}
		}
		s.growth = growth.New(s.size, cfg)
		s.growth.Begin(s.open)
	}
	s.setPhase(PhaseTiling)
}

func (s *Session) stepTiling() {
	switch {
	case s.growth != nil:
		s.stepGrowth()
	case s.bisect != nil:
		s.stepBisect()
	default:
		s.setPhase(PhaseDone)
	}
}

func (s *Session) stepGrowth() {
	g := s.growth
	for _, d := range g.StepN(s.rng, s.cfg.Params.GrowthBatch) {
		s.paintRegion(d.Region, d.Cells)
	}
	if !g.Done() {
		return
	}
	if s.cfg.Params.Islands && g.ContinueWithOpenSet() {
		s.log.Debug("reseeding leftover land", "open", s.open.Len(), "seeds", g.DesiredPoints())
		return
	}
	s.finish()
}

func (s *Session) stepBisect() {
	b := s.bisect
	res := b.StepN(s.rng, s.cfg.Params.BisectBatch)
	if b.ShouldResetAnimation() {
		s.log.Debug("bisect pool loaded", "splits", b.Splits(), "pending", b.Pending())
	}
	// Active halves are tinted by split until their tile is final.
	s.paintRegion(2*res.Split, res.A)
	s.paintRegion(2*res.Split+1, res.B)
	for _, id := range res.Finished {
		s.paintRegion(id, b.Tile(id))
	}
	if b.Done() {
		s.finish()
	}
}

func (s *Session) finish() {
	s.setPhase(PhaseDone)
	s.log.Debug("map complete",
		"regions", s.Regions(),
		"rivers", len(s.rivers),
		"open", s.open.Len(),
		"steps", s.steps,
	)
}

func (s *Session) paintRegion(id int, cells []core.Coord) {
	for _, c := range cells {
		i := c.Y*s.size + c.X
		s.display[i] = encodeRegion(id, s.terrain[i])
	}
}

// RegionAt returns the region or tile owning c. Cells outside every region
// report false.
func (s *Session) RegionAt(c core.Coord) (int, bool) {
	if !c.In(s.size) {
		return 0, false
	}
	switch {
	case s.growth != nil:
		return s.growth.RegionAt(c)
	case s.bisect != nil:
		return s.bisect.RegionAt(c)
	}
	return 0, false
}

// RegionMask marks the cells of every finished region with 1 + id%255. With
// outline set only each region's border cells are marked.
func (s *Session) RegionMask(outline bool) []uint8 {
	mask := make([]uint8, s.size*s.size)
	mark := func(id int, cells []core.Coord) {
		v := uint8(id%255) + 1
		for _, c := range cells {
			mask[c.Y*s.size+c.X] = v
		}
	}
	switch {
	case s.growth != nil:
		for i := 0; i < s.growth.Len(); i++ {
			if s.growth.Region(i).Growing() {
				continue
			}
			if outline {
				mark(i, s.growth.Border(i))
			} else {
				mark(i, s.growth.Cells(i))
			}
		}
	case s.bisect != nil:
		for i := 0; i < s.bisect.Len(); i++ {
			if outline {
				mark(i, s.bisect.Border(i))
			} else {
				mark(i, s.bisect.Tile(i))
			}
		}
	}
	return mask
}

// RiverMask marks carved river cells with 1.
func (s *Session) RiverMask() []uint8 {
	mask := make([]uint8, s.size*s.size)
	for i, t := range s.terrain {
		if t == TerrainRiver {
			mask[i] = 1
		}
	}
	return mask
}

type sessionLand struct{ s *Session }

func (l sessionLand) InOpen(c core.Coord) bool { return l.s.open.Has(c) }

func (l sessionLand) RemoveOpen(c core.Coord) { l.s.open.Remove(c) }

func (l sessionLand) IsWater(c core.Coord) bool { return l.s.TerrainAt(c).Water() }

func (l sessionLand) SetWater(c core.Coord) {
	s := l.s
	i := c.Y*s.size + c.X
	s.terrain[i] = TerrainRiver
	s.display[i] = displayRiver
	s.riverCells++
}

func init() {
	for _, kind := range []TilerKind{TilerGrowth, TilerGrid, TilerBisect} {
		core.Register(string(kind), func(cfg map[string]string) core.Sim {
			c := FromMap(cfg)
			c.Tiler = kind
			return New(c)
		})
	}
}
