package pathing

// ClusterInfo describes one cluster of a built graph.
type ClusterInfo struct {
	ID            ClusterID `json:"id"`
	Col           int       `json:"col"`
	Row           int       `json:"row"`
	Origin        Point     `json:"origin"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	Entrances     []Point   `json:"entrances"`
	InternalEdges int       `json:"internal_edges"`
	ExternalEdges int       `json:"external_edges"`
}

// EdgeInfo describes one edge of a built graph.
type EdgeInfo struct {
	A        Point   `json:"a"`
	B        Point   `json:"b"`
	Internal bool    `json:"internal"`
	Outcome  string  `json:"outcome"`
	Length   float64 `json:"length"`
}

// GraphInfo is a read-only snapshot of the abstract graph.
type GraphInfo struct {
	Width         int           `json:"width"`
	Height        int           `json:"height"`
	ClusterSize   int           `json:"cluster_size"`
	Columns       int           `json:"columns"`
	Rows          int           `json:"rows"`
	Nodes         int           `json:"nodes"`
	InternalEdges int           `json:"internal_edges"`
	ExternalEdges int           `json:"external_edges"`
	Clusters      []ClusterInfo `json:"clusters"`
	Edges         []EdgeInfo    `json:"edges"`
}

// Graph returns a snapshot of the current graph. It is empty before Build.
func (pf *Pathfinder) Graph() GraphInfo {
	pf.mu.RLock()
	defer pf.mu.RUnlock()

	info := GraphInfo{
		ClusterSize: pf.opts.ClusterSize,
		Columns:     pf.cols,
		Rows:        pf.rows,
		Nodes:       len(pf.nodes),
	}
	if pf.grid == nil {
		return info
	}
	info.Width, info.Height = pf.grid.Width(), pf.grid.Height()

	for _, c := range pf.clusters {
		ci := ClusterInfo{
			ID:            c.ID,
			Col:           c.Col,
			Row:           c.Row,
			Origin:        c.Origin,
			Width:         c.Width,
			Height:        c.Height,
			Entrances:     make([]Point, 0, len(c.entranceNodes)),
			InternalEdges: len(c.internalEdges),
			ExternalEdges: len(c.externalEdges),
		}
		for _, id := range c.entranceNodes {
			ci.Entrances = append(ci.Entrances, pf.nodes[id].Loc)
		}
		info.Clusters = append(info.Clusters, ci)
	}

	info.Edges = make([]EdgeInfo, 0, len(pf.edges))
	for id, e := range pf.edges {
		r := pf.edgeRoute(EdgeID(id))
		internal := pf.nodes[e.A].Cluster == pf.nodes[e.B].Cluster
		if internal {
			info.InternalEdges++
		} else {
			info.ExternalEdges++
		}
		info.Edges = append(info.Edges, EdgeInfo{
			A:        pf.nodes[e.A].Loc,
			B:        pf.nodes[e.B].Loc,
			Internal: internal,
			Outcome:  r.outcome.String(),
			Length:   r.length,
		})
	}
	return info
}

// Entrances returns every entrance node location in creation order.
func (pf *Pathfinder) Entrances() []Point {
	pf.mu.RLock()
	defer pf.mu.RUnlock()

	out := make([]Point, len(pf.nodes))
	for i, n := range pf.nodes {
		out[i] = n.Loc
	}
	return out
}
