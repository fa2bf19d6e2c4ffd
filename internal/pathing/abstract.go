package pathing

import "container/heap"

// abstractItem is a queued node in the abstract search.
type abstractItem struct {
	node  NodeID
	f     float64
	order int
}

// abstractQueue is a min-heap on f. Equal f values pop in push order.
type abstractQueue []abstractItem

func (q abstractQueue) Len() int { return len(q) }
func (q abstractQueue) Less(i, j int) bool {
	if q[i].f == q[j].f {
		return q[i].order < q[j].order
	}
	return q[i].f < q[j].f
}
func (q abstractQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *abstractQueue) Push(x any)   { *q = append(*q, x.(abstractItem)) }
func (q *abstractQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

type abstractRecord struct {
	via    EdgeID
	parent NodeID
	g      float64
	seen   bool
	closed bool
}

// searchAbstract runs A* over entrance nodes. Edge weights are the lengths
// of their tile routes; edges without a route are ignored. The result is
// stitched from the edge routes, each oriented in the direction travelled.
func (pf *Pathfinder) searchAbstract(start, goal NodeID) route {
	pf.stats.abstractSearches.Add(1)

	startLoc, goalLoc := pf.nodes[start].Loc, pf.nodes[goal].Loc
	if start == goal {
		return foundRoute(NewPath(startLoc))
	}

	records := make([]abstractRecord, len(pf.nodes))
	records[start] = abstractRecord{via: -1, parent: -1, seen: true}

	order := 0
	q := &abstractQueue{{node: start, f: startLoc.Distance(goalLoc)}}

	for q.Len() > 0 {
		item := heap.Pop(q).(abstractItem)
		cur := item.node
		if records[cur].closed {
			continue
		}
		if cur == goal {
			return foundRoute(pf.stitchAbstract(records, goal))
		}
		records[cur].closed = true

		for _, eid := range pf.nodes[cur].Edges {
			r := pf.edgeRoute(eid)
			if r.outcome != Found {
				continue
			}
			next, ok := pf.edges[eid].Other(cur)
			if !ok || records[next].closed {
				continue
			}
			g := records[cur].g + r.length
			if records[next].seen && g >= records[next].g {
				continue
			}
			records[next] = abstractRecord{via: eid, parent: cur, g: g, seen: true}
			order++
			heap.Push(q, abstractItem{node: next, f: g + pf.nodes[next].Loc.Distance(goalLoc), order: order})
		}
	}
	return noRoute(NoPath)
}

func (pf *Pathfinder) stitchAbstract(records []abstractRecord, goal NodeID) *Path {
	var hops []NodeID
	for n := goal; n >= 0; n = records[n].parent {
		hops = append(hops, n)
	}

	out := NewPath(pf.nodes[hops[len(hops)-1]].Loc)
	for i := len(hops) - 2; i >= 0; i-- {
		n := hops[i]
		via := records[n].via
		seg := pf.edgeRoute(via).path
		if pf.edges[via].A == n {
			seg = seg.Inverted()
		}
		out.Append(seg)
	}
	return out
}
