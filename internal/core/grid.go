package core

import "slices"

// ByteGrid stores a 2D grid of byte-sized cell values in row-major order.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *ByteGrid) Index(x, y int) int { return y*g.W + x }

// Set writes v at c when c lies inside the grid.
func (g *ByteGrid) Set(c Coord, v uint8) {
	if c.X < 0 || c.Y < 0 || c.X >= g.W || c.Y >= g.H {
		return
	}
	g.data[c.Y*g.W+c.X] = v
}

// At returns the value at c, or 0 outside the grid.
func (g *ByteGrid) At(c Coord) uint8 {
	if c.X < 0 || c.Y < 0 || c.X >= g.W || c.Y >= g.H {
		return 0
	}
	return g.data[c.Y*g.W+c.X]
}

// Clear fills the grid with zeros.
func (g *ByteGrid) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}

// Coord is a signed grid coordinate. Valid map cells satisfy 0 <= X,Y < size.
type Coord struct {
	X, Y int
}

// Add returns the component-wise sum of c and o.
func (c Coord) Add(o Coord) Coord { return Coord{X: c.X + o.X, Y: c.Y + o.Y} }

// In reports whether c lies inside a size*size square grid.
func (c Coord) In(size int) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < size && c.Y < size
}

// DistSq returns the squared Euclidean distance between c and o.
func (c Coord) DistSq(o Coord) int {
	dx := c.X - o.X
	dy := c.Y - o.Y
	return dx*dx + dy*dy
}

// Less orders coordinates row-major.
func (c Coord) Less(o Coord) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

// Neighbors8 lists the Moore neighborhood offsets. The order is fixed; region
// growth depends on it for reproducible output.
var Neighbors8 = [8]Coord{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

// Neighbors4 lists the axis-aligned neighbor offsets.
var Neighbors4 = [4]Coord{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

// CoordSet is an insertion-ordered set of coordinates with O(1) membership,
// removal and indexed access. Removal swaps the last element into the freed
// slot, so iteration order depends only on the sequence of operations.
type CoordSet struct {
	items []Coord
	index map[Coord]int
}

// NewCoordSet allocates an empty set with room for capacity coordinates.
func NewCoordSet(capacity int) *CoordSet {
	if capacity < 0 {
		capacity = 0
	}
	return &CoordSet{items: make([]Coord, 0, capacity), index: make(map[Coord]int, capacity)}
}

// CoordSetOf builds a set from coords, skipping duplicates.
func CoordSetOf(coords ...Coord) *CoordSet {
	s := NewCoordSet(len(coords))
	for _, c := range coords {
		s.Add(c)
	}
	return s
}

// Len returns the number of coordinates in the set.
func (s *CoordSet) Len() int { return len(s.items) }

// Has reports whether c is a member.
func (s *CoordSet) Has(c Coord) bool {
	_, ok := s.index[c]
	return ok
}

// Add inserts c and reports whether it was newly added.
func (s *CoordSet) Add(c Coord) bool {
	if _, ok := s.index[c]; ok {
		return false
	}
	s.index[c] = len(s.items)
	s.items = append(s.items, c)
	return true
}

// Remove deletes c and reports whether it was present.
func (s *CoordSet) Remove(c Coord) bool {
	i, ok := s.index[c]
	if !ok {
		return false
	}
	s.RemoveAt(i)
	return true
}

// At returns the i-th coordinate in iteration order.
func (s *CoordSet) At(i int) Coord { return s.items[i] }

// RemoveAt deletes and returns the i-th coordinate.
func (s *CoordSet) RemoveAt(i int) Coord {
	c := s.items[i]
	last := len(s.items) - 1
	if i != last {
		moved := s.items[last]
		s.items[i] = moved
		s.index[moved] = i
	}
	s.items = s.items[:last]
	delete(s.index, c)
	return c
}

// Items returns a copy of the members in iteration order.
func (s *CoordSet) Items() []Coord {
	return append([]Coord(nil), s.items...)
}

// Sorted returns a copy of the members in row-major order.
func (s *CoordSet) Sorted() []Coord {
	out := s.Items()
	slices.SortFunc(out, CompareCoord)
	return out
}

// Clone returns an independent copy preserving iteration order.
func (s *CoordSet) Clone() *CoordSet {
	c := NewCoordSet(len(s.items))
	for _, v := range s.items {
		c.Add(v)
	}
	return c
}

// Clear removes every member while keeping allocated capacity.
func (s *CoordSet) Clear() {
	s.items = s.items[:0]
	clear(s.index)
}

// Border returns the members that have at least one Moore neighbor outside
// the set, in row-major order.
func (s *CoordSet) Border() []Coord {
	var out []Coord
	for _, c := range s.items {
		for _, off := range Neighbors8 {
			if !s.Has(c.Add(off)) {
				out = append(out, c)
				break
			}
		}
	}
	slices.SortFunc(out, CompareCoord)
	return out
}

// CompareCoord orders coordinates row-major for use with slices.SortFunc.
func CompareCoord(a, b Coord) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}
