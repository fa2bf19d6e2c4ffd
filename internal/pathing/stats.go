package pathing

import (
	"sync/atomic"
	"time"
)

// counters are updated without the structural lock.
type counters struct {
	queries          atomic.Uint64
	found            atomic.Uint64
	noPath           atomic.Uint64
	unsupported      atomic.Uint64
	direct           atomic.Uint64
	cacheForward     atomic.Uint64
	cacheReverse     atomic.Uint64
	cacheMisses      atomic.Uint64
	sharedSearches   atomic.Uint64
	abstractSearches atomic.Uint64
	builds           atomic.Uint64
	buildNanos       atomic.Int64
}

// Stats is a snapshot of query and cache counters.
type Stats struct {
	Queries          uint64        `json:"queries"`
	Found            uint64        `json:"found"`
	NoPath           uint64        `json:"no_path"`
	Unsupported      uint64        `json:"unsupported"`
	Direct           uint64        `json:"direct"`
	CacheHitsForward uint64        `json:"cache_hits_forward"`
	CacheHitsReverse uint64        `json:"cache_hits_reverse"`
	CacheMisses      uint64        `json:"cache_misses"`
	SharedSearches   uint64        `json:"shared_searches"`
	AbstractSearches uint64        `json:"abstract_searches"`
	CachedRoutes     int           `json:"cached_routes"`
	Builds           uint64        `json:"builds"`
	LastBuild        time.Duration `json:"last_build_ns"`
}

// Stats returns the current counters.
func (pf *Pathfinder) Stats() Stats {
	return Stats{
		Queries:          pf.stats.queries.Load(),
		Found:            pf.stats.found.Load(),
		NoPath:           pf.stats.noPath.Load(),
		Unsupported:      pf.stats.unsupported.Load(),
		Direct:           pf.stats.direct.Load(),
		CacheHitsForward: pf.stats.cacheForward.Load(),
		CacheHitsReverse: pf.stats.cacheReverse.Load(),
		CacheMisses:      pf.stats.cacheMisses.Load(),
		SharedSearches:   pf.stats.sharedSearches.Load(),
		AbstractSearches: pf.stats.abstractSearches.Load(),
		CachedRoutes:     pf.cache.Len(),
		Builds:           pf.stats.builds.Load(),
		LastBuild:        time.Duration(pf.stats.buildNanos.Load()),
	}
}

func (pf *Pathfinder) record(res Result) Result {
	switch res.Outcome {
	case Found:
		pf.stats.found.Add(1)
	case NoPath:
		pf.stats.noPath.Add(1)
	case Unsupported:
		pf.stats.unsupported.Add(1)
	}
	switch res.Source {
	case SourceDirect:
		pf.stats.direct.Add(1)
	case SourceCacheForward:
		pf.stats.cacheForward.Add(1)
	case SourceCacheReverse:
		pf.stats.cacheReverse.Add(1)
	case SourceSearch:
		pf.stats.cacheMisses.Add(1)
	case SourceShared:
		pf.stats.sharedSearches.Add(1)
	}
	return res
}
