// Package pathing implements hierarchical pathfinding over a tile grid.
//
// The grid is split into fixed-size square clusters. Walkable openings on
// the border between two 4-connected clusters become entrances: a pair of
// nodes, one on each side, joined by an external edge. Every pair of entrance
// nodes inside a cluster is joined by an internal edge whose route is found
// once with tile-level A* bounded to the cluster. Queries search this small
// abstract graph instead of the full grid and stitch short tile-level
// segments on both ends.
//
// Origin: Botea, Müller, Schaeffer. "Near Optimal Hierarchical Path-Finding."
// Journal of Game Development, 2004. Only one cluster level is supported.
//
// Nodes and edges live in slices owned by the Pathfinder and are addressed by
// integer IDs, so there are no ownership cycles between nodes, edges and
// clusters.
package pathing
