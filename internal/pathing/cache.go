package pathing

import (
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

type cacheKey struct{ from, to NodeID }

func (k cacheKey) String() string {
	return strconv.Itoa(int(k.from)) + ":" + strconv.Itoa(int(k.to))
}

// PathCache stores abstract routes between entrance nodes. Only successful
// routes are stored. Concurrent misses on the same key share one search.
type PathCache struct {
	entries sync.Map // cacheKey -> *Path
	size    atomic.Int64
	flight  singleflight.Group
}

// NewPathCache returns an empty cache.
func NewPathCache() *PathCache {
	return &PathCache{}
}

// Get returns the route stored for (from, to).
func (c *PathCache) Get(from, to NodeID) (*Path, bool) {
	v, ok := c.entries.Load(cacheKey{from, to})
	if !ok {
		return nil, false
	}
	return v.(*Path), true
}

// Put stores a route for (from, to). A later Put for the same key replaces
// the earlier one.
func (c *PathCache) Put(from, to NodeID, p *Path) {
	if _, loaded := c.entries.Swap(cacheKey{from, to}, p); !loaded {
		c.size.Add(1)
	}
}

// Len is the number of stored routes.
func (c *PathCache) Len() int {
	return int(c.size.Load())
}

// Clear drops every stored route.
func (c *PathCache) Clear() {
	c.entries.Range(func(k, _ any) bool {
		if _, loaded := c.entries.LoadAndDelete(k); loaded {
			c.size.Add(-1)
		}
		return true
	})
}

// lookup checks (from, to) and then (to, from). A reverse hit is inverted
// so the result always runs from -> to.
func (c *PathCache) lookup(from, to NodeID) (*Path, Source) {
	if p, ok := c.Get(from, to); ok {
		return p, SourceCacheForward
	}
	if p, ok := c.Get(to, from); ok {
		return p.Inverted(), SourceCacheReverse
	}
	return nil, SourceNone
}

// flightResult is handed to every caller waiting on one key.
type flightResult struct {
	route  route
	source Source
}

// do runs fn once per concurrent key. The caller whose fn ran gets fn's
// source; callers that waited on it get SourceShared.
func (c *PathCache) do(from, to NodeID, fn func() (route, Source)) (route, Source) {
	ran := false
	v, _, _ := c.flight.Do(cacheKey{from, to}.String(), func() (any, error) {
		ran = true
		r, src := fn()
		return flightResult{route: r, source: src}, nil
	})
	res := v.(flightResult)
	if !ran {
		return res.route, SourceShared
	}
	return res.route, res.source
}
