package pathing

// Outcome is the result kind of a search.
type Outcome uint8

const (
	// Found means a route exists and was computed.
	Found Outcome = iota
	// NoPath means the search exhausted its open set.
	NoPath
	// Unsupported means the request is outside what the graph can answer:
	// non-adjacent or diagonal clusters, a tile search across clusters, a
	// point outside the grid, or a graph that was never built.
	Unsupported
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case NoPath:
		return "no_path"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Source says how a FindPath result was produced.
type Source uint8

const (
	SourceNone Source = iota
	// SourceDirect is a tile-level route inside a single cluster.
	SourceDirect
	// SourceSearch is a fresh abstract-graph search.
	SourceSearch
	// SourceCacheForward is a cached abstract route in query order.
	SourceCacheForward
	// SourceCacheReverse is a cached abstract route for the swapped pair, inverted.
	SourceCacheReverse
	// SourceShared is an abstract route computed by a concurrent query for
	// the same entrance pair.
	SourceShared
)

func (s Source) String() string {
	switch s {
	case SourceDirect:
		return "direct"
	case SourceSearch:
		return "search"
	case SourceCacheForward:
		return "cache_forward"
	case SourceCacheReverse:
		return "cache_reverse"
	case SourceShared:
		return "shared"
	default:
		return "none"
	}
}

// route is a computed route with its outcome. length is meaningful only
// when outcome is Found.
type route struct {
	outcome Outcome
	length  float64
	path    *Path
}

func noRoute(o Outcome) route { return route{outcome: o} }

func foundRoute(p *Path) route {
	length, _ := p.Length()
	return route{outcome: Found, length: length, path: p}
}
