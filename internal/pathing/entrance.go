package pathing

import "log/slog"

// clusterPair identifies an unordered pair of clusters.
type clusterPair struct{ lo, hi ClusterID }

func pairOf(a, b ClusterID) clusterPair {
	if a > b {
		a, b = b, a
	}
	return clusterPair{lo: a, hi: b}
}

// calculateEntrancesLocked links c with its four orthogonal neighbours.
func (pf *Pathfinder) calculateEntrancesLocked(c *Cluster) {
	for _, d := range [...]struct{ dc, dr int }{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
		if other := pf.clusterAt(c.Col+d.dc, c.Row+d.dr); other != nil {
			pf.entrancesBetweenLocked(c, other)
		}
	}
}

// entrancesBetweenLocked scans the shared border of two clusters and places
// entrance node pairs joined by external edges. Only orthogonal neighbours
// are supported; a pair that was already linked is skipped.
func (pf *Pathfinder) entrancesBetweenLocked(one, two *Cluster) Outcome {
	if one == two {
		pf.logger.Debug("entrances between a cluster and itself are not supported", "cluster", one.ID)
		return Unsupported
	}
	dc, dr := two.Col-one.Col, two.Row-one.Row
	if absInt(dc) > 1 || absInt(dr) > 1 {
		pf.logger.Warn("clusters are not neighbours, skipping entrances", "one", one.ID, "two", two.ID)
		return Unsupported
	}
	if dc != 0 && dr != 0 {
		pf.logger.Warn("diagonal cluster entrances are not supported", "one", one.ID, "two", two.ID)
		return Unsupported
	}

	key := pairOf(one.ID, two.ID)
	if pf.linked[key] {
		return Found
	}
	pf.linked[key] = true

	var (
		n  int
		at func(i int) (Point, Point)
	)
	if dc != 0 {
		// Vertical border: one column on each side.
		x := one.Origin.X
		if dc > 0 {
			x = one.Max().X
		}
		top := one.Origin.Y
		n = min(one.Height, two.Height)
		at = func(i int) (Point, Point) {
			return Point{X: x, Y: top + i}, Point{X: x + dc, Y: top + i}
		}
	} else {
		y := one.Origin.Y
		if dr > 0 {
			y = one.Max().Y
		}
		left := one.Origin.X
		n = min(one.Width, two.Width)
		at = func(i int) (Point, Point) {
			return Point{X: left + i, Y: y}, Point{X: left + i, Y: y + dr}
		}
	}

	place := func(i int) {
		a, b := at(i)
		na := pf.entranceNodeLocked(one, a)
		nb := pf.entranceNodeLocked(two, b)
		id := pf.newEdgeLocked(na, nb)
		one.externalEdges = append(one.externalEdges, id)
		two.externalEdges = append(two.externalEdges, id)
	}
	flush := func(start, end int) {
		width := end - start
		if width > pf.opts.EntranceWidthCap {
			place(start)
			place(end - 1)
			return
		}
		place(start + width/2)
	}

	streak := -1
	for i := 0; i < n; i++ {
		a, b := at(i)
		if pf.grid.Walkable(a.X, a.Y) && pf.grid.Walkable(b.X, b.Y) {
			if streak < 0 {
				streak = i
			}
			continue
		}
		if streak >= 0 {
			flush(streak, i)
			streak = -1
		}
	}
	if streak >= 0 {
		flush(streak, n)
	}
	return Found
}

// entranceNodeLocked returns the node at p in c, creating it if needed.
func (pf *Pathfinder) entranceNodeLocked(c *Cluster, p Point) NodeID {
	p = clampPoint(p, pf.logger)
	if id, ok := c.nodeAt[p]; ok {
		return id
	}
	id := NodeID(len(pf.nodes))
	pf.nodes = append(pf.nodes, Node{Loc: p, Cluster: c.ID})
	c.entranceNodes = append(c.entranceNodes, id)
	c.nodeAt[p] = id
	pf.logger.Debug("placed entrance node", slog.Int("cluster", int(c.ID)), slog.Int("x", p.X), slog.Int("y", p.Y))
	return id
}
