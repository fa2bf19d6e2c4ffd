package pathing

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tilepath/internal/tilemap"
)

// Pathfinder owns the grid, the clusters and the abstract graph built from a
// tile map, and answers path queries against them.
//
// Build takes the structural lock exclusively; queries share it. A
// Pathfinder is safe for concurrent use.
type Pathfinder struct {
	mu     sync.RWMutex
	opts   Options
	logger *slog.Logger

	grid       *tilemap.Grid
	cols, rows int
	clusters   []*Cluster
	nodes      []Node
	edges      []*Edge
	linked     map[clusterPair]bool

	cache *PathCache
	stats counters
}

// Result is the answer to a FindPath query. Path is never nil: when no
// route exists it holds just the start tile.
type Result struct {
	Path    *Path
	Outcome Outcome
	Source  Source
}

// New returns an empty Pathfinder. Call Build before querying.
func New(opts ...Option) *Pathfinder {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Pathfinder{
		opts:   o,
		logger: o.Logger,
		cache:  NewPathCache(),
	}
}

// Options returns the effective configuration.
func (pf *Pathfinder) Options() Options { return pf.opts }

// Build (re)creates the grid, clusters, entrances and every edge route from
// tm. Queries block while a build runs. The path cache is cleared.
func (pf *Pathfinder) Build(tm tilemap.TileMap) error {
	started := time.Now()

	grid, err := tilemap.NewGrid(tm, pf.logger)
	if err != nil {
		pf.logger.Error("failed to build pathing grid", "error", err)
		return fmt.Errorf("build pathing grid: %w", err)
	}

	pf.mu.Lock()
	defer pf.mu.Unlock()

	pf.grid = grid
	pf.nodes = nil
	pf.edges = nil
	pf.linked = make(map[clusterPair]bool)
	pf.cache.Clear()

	pf.splitIntoClustersLocked()
	for col := 0; col < pf.cols; col++ {
		for row := 0; row < pf.rows; row++ {
			pf.calculateEntrancesLocked(pf.clusterAt(col, row))
		}
	}
	for _, c := range pf.clusters {
		pf.buildInternalEdgesLocked(c)
	}

	var g errgroup.Group
	g.SetLimit(pf.opts.BuildWorkers)
	for id := range pf.edges {
		g.Go(func() error {
			pf.edgeRoute(EdgeID(id))
			return nil
		})
	}
	_ = g.Wait()

	elapsed := time.Since(started)
	pf.stats.builds.Add(1)
	pf.stats.buildNanos.Store(int64(elapsed))

	pf.logger.Info("pathing graph built",
		slog.Int("width", grid.Width()),
		slog.Int("height", grid.Height()),
		slog.Int("clusters", len(pf.clusters)),
		slog.Int("nodes", len(pf.nodes)),
		slog.Int("edges", len(pf.edges)),
		slog.Duration("elapsed", elapsed),
	)
	return nil
}

// Built reports whether Build has succeeded at least once.
func (pf *Pathfinder) Built() bool {
	pf.mu.RLock()
	defer pf.mu.RUnlock()
	return pf.grid != nil
}

// Grid returns the walkability grid, or nil before Build.
func (pf *Pathfinder) Grid() *tilemap.Grid {
	pf.mu.RLock()
	defer pf.mu.RUnlock()
	return pf.grid
}

// FindPath returns a route from one tile to another.
//
// Points in the same cluster are first tried with a direct tile search.
// Otherwise the route runs from the start to its nearest entrance, across
// the abstract graph, and from the goal's nearest entrance to the goal.
// Abstract routes are cached per entrance pair and reused in both
// directions.
func (pf *Pathfinder) FindPath(from, to Point) Result {
	pf.stats.queries.Add(1)

	pf.mu.RLock()
	defer pf.mu.RUnlock()

	fail := func(o Outcome) Result {
		return pf.record(Result{Path: NewPath(from), Outcome: o})
	}

	if pf.grid == nil || !pf.grid.InBounds(from.X, from.Y) || !pf.grid.InBounds(to.X, to.Y) {
		return fail(Unsupported)
	}
	if !pf.grid.Walkable(from.X, from.Y) || !pf.grid.Walkable(to.X, to.Y) {
		return fail(NoPath)
	}
	if from == to {
		return pf.record(Result{Path: NewPath(from), Outcome: Found, Source: SourceDirect})
	}

	if pf.clusterOf(from) == pf.clusterOf(to) {
		if r := pf.canonicalRoute(from, to); r.outcome == Found {
			return pf.record(Result{Path: r.path, Outcome: Found, Source: SourceDirect})
		}
	}

	closeStart, ok := pf.closestEntrance(from)
	if !ok {
		return fail(NoPath)
	}
	closeEnd, ok := pf.closestEntrance(to)
	if !ok {
		return fail(NoPath)
	}

	abstract, source := pf.abstractRoute(closeStart, closeEnd)
	if abstract.outcome != Found {
		return pf.record(Result{Path: NewPath(from), Outcome: NoPath, Source: source})
	}

	// Both mile segments are searched from the entrance, so a reversed
	// query stitches the exact inverse.
	first := pf.tileRoute(pf.nodes[closeStart].Loc, from)
	last := pf.tileRoute(pf.nodes[closeEnd].Loc, to)
	if first.outcome != Found || last.outcome != Found {
		pf.logger.Warn("nearest entrance not reachable inside its cluster",
			"from", from.String(), "to", to.String())
		return fail(NoPath)
	}

	total := first.path.Inverted()
	total.Append(abstract.path)
	total.Append(last.path)
	return pf.record(Result{Path: total, Outcome: Found, Source: source})
}

// canonicalRoute searches in a fixed direction regardless of argument
// order, so swapping the endpoints yields the inverted route.
func (pf *Pathfinder) canonicalRoute(a, b Point) route {
	if b.Y < a.Y || (b.Y == a.Y && b.X < a.X) {
		r := pf.tileRoute(b, a)
		if r.outcome == Found {
			r.path = r.path.Inverted()
		}
		return r
	}
	return pf.tileRoute(a, b)
}

// abstractRoute consults the cache forward and then reversed before
// searching. Successful searches are stored under (start, goal).
func (pf *Pathfinder) abstractRoute(start, goal NodeID) (route, Source) {
	if p, src := pf.cache.lookup(start, goal); p != nil {
		return foundRoute(p), src
	}

	// A flight for this pair may have finished between lookup and do.
	return pf.cache.do(start, goal, func() (route, Source) {
		if p, src := pf.cache.lookup(start, goal); p != nil {
			return foundRoute(p), src
		}
		r := pf.searchAbstract(start, goal)
		if r.outcome == Found {
			pf.cache.Put(start, goal, r.path)
		}
		return r, SourceSearch
	})
}

// closestEntrance expands a frontier of walkable tiles around p inside p's
// cluster, nearest first, and returns the first entrance node it reaches.
func (pf *Pathfinder) closestEntrance(p Point) (NodeID, bool) {
	c := pf.clusterOf(p)
	if c == nil || len(c.entranceNodes) == 0 {
		return 0, false
	}

	window := c.bounds()
	seen := make([]bool, window.w*window.h)
	seen[window.index(p)] = true
	frontier := []Point{p}

	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]
		if id, ok := c.nodeAt[cur]; ok {
			return id, true
		}
		grew := false
		for _, off := range neighbourOffsets {
			next := cur.Add(off.dx, off.dy)
			if !window.contains(next) || seen[window.index(next)] || !pf.grid.Walkable(next.X, next.Y) {
				continue
			}
			seen[window.index(next)] = true
			frontier = append(frontier, next)
			grew = true
		}
		if grew {
			sortByDistance(frontier, p)
		}
	}
	return 0, false
}

// Smooth removes redundant waypoints from p using the grid for line of
// sight. It returns the number of removed tiles.
func (pf *Pathfinder) Smooth(p *Path) int {
	pf.mu.RLock()
	defer pf.mu.RUnlock()
	if pf.grid == nil || p == nil {
		return 0
	}
	return p.Smooth(pf.grid)
}
