package river

import "regionmap/internal/core"

// Land is the map state a river is carved into.
type Land interface {
	InOpen(c core.Coord) bool
	RemoveOpen(c core.Coord)
	IsWater(c core.Coord) bool
	SetWater(c core.Coord)
}

// Clip returns the leading part of path that stays on open land.
func Clip(path []core.Coord, land Land) []core.Coord {
	for i, c := range path {
		if !land.InOpen(c) {
			return path[:i]
		}
	}
	return path
}

// Thicken returns the path cells plus their Moore neighbors inside the grid,
// without duplicates, in path order.
func Thicken(path []core.Coord, size int) []core.Coord {
	thick := core.NewCoordSet(len(path) * 3)
	for _, c := range path {
		thick.Add(c)
		for _, off := range core.Neighbors8 {
			if n := c.Add(off); n.In(size) {
				thick.Add(n)
			}
		}
	}
	return thick.Items()
}

// Carve clips path to open land, widens it and turns every widened cell that
// is still open into water. Carved cells become obstacles for later searches;
// cells that were already water, or already claimed elsewhere, are left as
// they are. It returns the clipped course and the cells that were carved.
func (p *Planner) Carve(path []core.Coord, land Land) (course, carved []core.Coord) {
	course = Clip(path, land)
	if len(course) == 0 {
		return nil, nil
	}
	for _, c := range Thicken(course, p.size) {
		if land.IsWater(c) || !land.InOpen(c) {
			continue
		}
		land.RemoveOpen(c)
		land.SetWater(c)
		p.Block(c)
		carved = append(carved, c)
	}
	return course, carved
}
