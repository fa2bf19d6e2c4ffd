package pathing

import (
	"cmp"
	"slices"
)

// Open/closed state of a scratch record.
const (
	unseen uint8 = iota
	open
	closed
)

// tileRecord is per-search scratch for one tile of the search window.
type tileRecord struct {
	parent int32
	g, f   float64
	state  uint8
}

// tileRoute finds a tile-level route between two points. Both points must
// lie in the same cluster, except for two adjacent tiles on either side of
// a cluster border, which are joined directly.
func (pf *Pathfinder) tileRoute(from, to Point) route {
	cf, ct := pf.clusterOf(from), pf.clusterOf(to)
	if cf == nil || ct == nil {
		return noRoute(Unsupported)
	}
	if cf != ct {
		if from.Adjacent(to) && pf.grid.Walkable(from.X, from.Y) && pf.grid.Walkable(to.X, to.Y) {
			return foundRoute(NewPath(from, to))
		}
		pf.logger.Warn("tile search across clusters is not supported",
			"from", from.String(), "to", to.String())
		return noRoute(Unsupported)
	}
	return searchTiles(pf.grid, cf.bounds(), from, to)
}

// searchTiles runs A* on the 8-connected tiles of window. The open list is
// re-sorted by f with a stable sort after every change, so ties go to the
// tile that was queued first.
func searchTiles(los LineOfSight, window rect, from, to Point) route {
	if !window.contains(from) || !window.contains(to) {
		return noRoute(Unsupported)
	}
	if !los.Walkable(from.X, from.Y) || !los.Walkable(to.X, to.Y) {
		return noRoute(NoPath)
	}
	if from == to {
		return foundRoute(NewPath(from))
	}

	records := make([]tileRecord, window.w*window.h)
	start, goal := window.index(from), window.index(to)
	records[start] = tileRecord{parent: -1, f: from.Distance(to), state: open}
	queue := []int32{int32(start)}

	byF := func(a, b int32) int { return cmp.Compare(records[a].f, records[b].f) }

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if int(cur) == goal {
			return foundRoute(reconstructTiles(records, window, goal))
		}
		records[cur].state = closed
		curPt := window.point(int(cur))

		changed := false
		for _, off := range neighbourOffsets {
			next := curPt.Add(off.dx, off.dy)
			if !window.contains(next) || !los.Walkable(next.X, next.Y) {
				continue
			}
			ni := window.index(next)
			rec := &records[ni]
			if rec.state == closed {
				continue
			}
			g := records[cur].g + off.cost
			if rec.state == open && g >= rec.g {
				continue
			}
			if rec.state == unseen {
				queue = append(queue, int32(ni))
			}
			rec.parent = cur
			rec.g = g
			rec.f = g + next.Distance(to)
			rec.state = open
			changed = true
		}
		if changed {
			slices.SortStableFunc(queue, byF)
		}
	}
	return noRoute(NoPath)
}

// reconstructTiles walks parents from goal back to the start and returns the
// route in start-to-goal order.
func reconstructTiles(records []tileRecord, window rect, goal int) *Path {
	var back []Point
	for i := int32(goal); i >= 0; i = records[i].parent {
		back = append(back, window.point(int(i)))
	}
	slices.Reverse(back)
	return NewPath(back...)
}
