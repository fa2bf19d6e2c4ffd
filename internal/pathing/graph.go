package pathing

import "sync"

// NodeID indexes a node in the Pathfinder's node arena.
type NodeID int32

// EdgeID indexes an edge in the Pathfinder's edge arena.
type EdgeID int32

// ClusterID indexes a cluster, row-major over the cluster grid.
type ClusterID int32

// Node is an entrance tile on a cluster border.
type Node struct {
	Loc     Point
	Cluster ClusterID
	// Incident edges. A node that takes part in several entrances can list
	// more than one external edge.
	Edges []EdgeID
}

// Edge is an undirected connection between two nodes. Its route is computed
// at most once and then shared by every query that crosses it.
type Edge struct {
	A, B  NodeID
	Level uint8

	once  sync.Once
	route route
}

// SameEndpoints reports whether e and o join the same two nodes, in either
// order.
func (e *Edge) SameEndpoints(o *Edge) bool {
	return (e.A == o.A && e.B == o.B) || (e.A == o.B && e.B == o.A)
}

// Other returns the endpoint opposite n.
func (e *Edge) Other(n NodeID) (NodeID, bool) {
	switch n {
	case e.A:
		return e.B, true
	case e.B:
		return e.A, true
	default:
		return n, false
	}
}

// newEdgeLocked appends an edge between a and b and registers it on both
// nodes. Caller holds the structural lock.
func (pf *Pathfinder) newEdgeLocked(a, b NodeID) EdgeID {
	id := EdgeID(len(pf.edges))
	pf.edges = append(pf.edges, &Edge{A: a, B: b})
	pf.nodes[a].Edges = append(pf.nodes[a].Edges, id)
	pf.nodes[b].Edges = append(pf.nodes[b].Edges, id)
	return id
}

// edgeRoute returns the edge's route, computing it on first use.
func (pf *Pathfinder) edgeRoute(id EdgeID) route {
	e := pf.edges[id]
	e.once.Do(func() {
		e.route = pf.tileRoute(pf.nodes[e.A].Loc, pf.nodes[e.B].Loc)
	})
	return e.route
}
