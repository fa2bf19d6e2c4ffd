package pathing

import "log/slog"

// Cluster is one square block of the grid. Clusters on the right and bottom
// edge are truncated when the map size is not a multiple of the cluster size.
type Cluster struct {
	ID            ClusterID
	Col, Row      int
	Origin        Point
	Width, Height int

	entranceNodes []NodeID
	internalEdges []EdgeID
	externalEdges []EdgeID
	nodeAt        map[Point]NodeID
}

// Contains reports whether p lies inside the cluster.
func (c *Cluster) Contains(p Point) bool {
	return p.X >= c.Origin.X && p.X < c.Origin.X+c.Width &&
		p.Y >= c.Origin.Y && p.Y < c.Origin.Y+c.Height
}

// Max is the bottom-right tile of the cluster.
func (c *Cluster) Max() Point {
	return Point{X: c.Origin.X + c.Width - 1, Y: c.Origin.Y + c.Height - 1}
}

func (c *Cluster) bounds() rect {
	return rect{min: c.Origin, w: c.Width, h: c.Height}
}

// rect is a tile-aligned search window.
type rect struct {
	min  Point
	w, h int
}

func (r rect) contains(p Point) bool {
	return p.X >= r.min.X && p.X < r.min.X+r.w && p.Y >= r.min.Y && p.Y < r.min.Y+r.h
}

func (r rect) index(p Point) int {
	return (p.Y-r.min.Y)*r.w + (p.X - r.min.X)
}

func (r rect) point(i int) Point {
	return Point{X: r.min.X + i%r.w, Y: r.min.Y + i/r.w}
}

// splitIntoClustersLocked partitions the grid. Caller holds the structural
// lock.
func (pf *Pathfinder) splitIntoClustersLocked() {
	size := pf.opts.ClusterSize
	w, h := pf.grid.Width(), pf.grid.Height()
	if w%size != 0 || h%size != 0 {
		pf.logger.Warn("map size is not a multiple of the cluster size, edge clusters are truncated",
			"width", w, "height", h, "cluster_size", size)
	}

	pf.cols = (w + size - 1) / size
	pf.rows = (h + size - 1) / size
	pf.clusters = make([]*Cluster, 0, pf.cols*pf.rows)

	for row := 0; row < pf.rows; row++ {
		for col := 0; col < pf.cols; col++ {
			origin := clampPoint(Point{X: col * size, Y: row * size}, pf.logger)
			pf.clusters = append(pf.clusters, &Cluster{
				ID:     ClusterID(len(pf.clusters)),
				Col:    col,
				Row:    row,
				Origin: origin,
				Width:  min(size, w-origin.X),
				Height: min(size, h-origin.Y),
				nodeAt: make(map[Point]NodeID),
			})
		}
	}

	pf.logger.Debug("split map into clusters",
		slog.Int("columns", pf.cols), slog.Int("rows", pf.rows))
}

// clusterAt returns the cluster at the given column and row.
func (pf *Pathfinder) clusterAt(col, row int) *Cluster {
	if col < 0 || row < 0 || col >= pf.cols || row >= pf.rows {
		return nil
	}
	return pf.clusters[row*pf.cols+col]
}

// clusterOf returns the cluster containing p, or nil outside the grid.
func (pf *Pathfinder) clusterOf(p Point) *Cluster {
	if pf.grid == nil || !pf.grid.InBounds(p.X, p.Y) {
		return nil
	}
	size := pf.opts.ClusterSize
	return pf.clusterAt(p.X/size, p.Y/size)
}

// buildInternalEdgesLocked joins every pair of entrance nodes inside c.
func (pf *Pathfinder) buildInternalEdgesLocked(c *Cluster) {
	for i := 0; i < len(c.entranceNodes); i++ {
		for j := i + 1; j < len(c.entranceNodes); j++ {
			id := pf.newEdgeLocked(c.entranceNodes[i], c.entranceNodes[j])
			c.internalEdges = append(c.internalEdges, id)
		}
	}
}
