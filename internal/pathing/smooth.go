package pathing

import (
	"math"
	"slices"
)

// LineOfSight decides which tiles a smoothed path may cross.
// *tilemap.Grid satisfies it.
type LineOfSight interface {
	Walkable(x, y int) bool
}

// WalkableFunc adapts a function to LineOfSight.
type WalkableFunc func(x, y int) bool

func (f WalkableFunc) Walkable(x, y int) bool { return f(x, y) }

// HasLineOfSight samples the segment a-b once per step along its major axis
// and reports whether every sampled tile is walkable.
func HasLineOfSight(a, b Point, los LineOfSight) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := max(absInt(dx), absInt(dy))
	if steps == 0 {
		return los.Walkable(a.X, a.Y)
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := a.X + int(math.Round(t*float64(dx)))
		y := a.Y + int(math.Round(t*float64(dy)))
		if !los.Walkable(x, y) {
			return false
		}
	}
	return true
}

// Smooth removes waypoints that can be skipped. For every window of three
// tiles whose outer two see each other, the middle one is dropped and the
// window is tried again. Passes repeat until nothing more is removed, so
// smoothing an already smoothed path changes nothing.
//
// The cumulative length becomes unknown; call Measure to recompute it.
// Smooth returns the number of removed tiles.
func (p *Path) Smooth(los LineOfSight) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	removed := 0
	for {
		pass := 0
		for i := 0; i+2 < len(p.tiles); {
			if HasLineOfSight(p.tiles[i], p.tiles[i+2], los) {
				p.tiles = slices.Delete(p.tiles, i+1, i+2)
				pass++
				continue
			}
			i++
		}
		removed += pass
		if pass == 0 {
			break
		}
	}

	p.length = 0
	p.lengthKnown = false
	return removed
}
