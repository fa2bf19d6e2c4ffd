package pathing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilepath/internal/tilemap"
)

// borderMap is a 20x10 map split into two clusters, with the border columns
// walled except for rows [open0, open1].
func borderMap(open0, open1 int) *tilemap.Layers {
	m := openMap(20, 10)
	for y := 0; y < 10; y++ {
		if y >= open0 && y <= open1 {
			continue
		}
		wall(m, 9, y, 10, y)
	}
	return m
}

func TestEntrancePlacement(t *testing.T) {
	tests := []struct {
		name         string
		open0, open1 int
		want         []Point
	}{
		{"narrow gap gets one pair in the middle", 3, 5, []Point{Pt(9, 4), Pt(10, 4)}},
		{"single tile gap", 7, 7, []Point{Pt(9, 7), Pt(10, 7)}},
		{"gap at the cap width", 2, 7, []Point{Pt(9, 5), Pt(10, 5)}},
		{"gap above the cap width", 1, 7, []Point{Pt(9, 1), Pt(10, 1), Pt(9, 7), Pt(10, 7)}},
		{"open border gets pairs at both ends", 0, 9, []Point{Pt(9, 0), Pt(10, 0), Pt(9, 9), Pt(10, 9)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := build(t, borderMap(tt.open0, tt.open1))
			assert.Equal(t, tt.want, pf.Entrances())

			info := pf.Graph()
			assert.Equal(t, len(tt.want)/2, info.ExternalEdges)
		})
	}
}

func TestEntranceNeedsBothSides(t *testing.T) {
	m := borderMap(3, 5)
	m.Collision().Place(10, 4)

	pf := build(t, m)
	assert.Equal(t, []Point{Pt(9, 3), Pt(10, 3), Pt(9, 5), Pt(10, 5)}, pf.Entrances())
}

func TestEntrancesOnTruncatedClusters(t *testing.T) {
	pf := build(t, openMap(25, 15))
	info := pf.Graph()

	require.Equal(t, 3, info.Columns)
	require.Equal(t, 2, info.Rows)
	require.Len(t, info.Clusters, 6)

	corner := info.Clusters[5]
	assert.Equal(t, Pt(20, 10), corner.Origin)
	assert.Equal(t, 5, corner.Width)
	assert.Equal(t, 5, corner.Height)

	// The border between the two right-hand clusters is five tiles wide.
	assert.Contains(t, info.Clusters[2].Entrances, Pt(22, 9))
	assert.Contains(t, corner.Entrances, Pt(22, 10))
}

func TestEntrancesBetweenUnsupportedPairs(t *testing.T) {
	pf := build(t, openMap(30, 30))

	pf.mu.Lock()
	defer pf.mu.Unlock()

	edges := len(pf.edges)
	c00 := pf.clusterAt(0, 0)

	assert.Equal(t, Unsupported, pf.entrancesBetweenLocked(c00, c00), "same cluster")
	assert.Equal(t, Unsupported, pf.entrancesBetweenLocked(c00, pf.clusterAt(1, 1)), "diagonal")
	assert.Equal(t, Unsupported, pf.entrancesBetweenLocked(c00, pf.clusterAt(2, 0)), "not neighbours")
	assert.Equal(t, Found, pf.entrancesBetweenLocked(c00, pf.clusterAt(1, 0)), "already linked")

	assert.Equal(t, edges, len(pf.edges), "no edges were added")
}

func TestDiagonalClustersNeedASharedNeighbour(t *testing.T) {
	m := openMap(20, 20)
	wall(m, 10, 0, 19, 9)
	wall(m, 0, 10, 9, 19)

	pf := build(t, m)
	res := pf.FindPath(Pt(0, 0), Pt(19, 19))
	assert.Equal(t, NoPath, res.Outcome)

	m = openMap(20, 20)
	wall(m, 0, 10, 9, 19)

	pf = build(t, m)
	res = pf.FindPath(Pt(0, 0), Pt(19, 19))
	require.Equal(t, Found, res.Outcome)
	requireContinuous(t, res.Path.Tiles(), pf.Grid())
}

func TestInternalEdgesJoinAllPairs(t *testing.T) {
	pf := build(t, openMap(30, 30))
	info := pf.Graph()

	for _, c := range info.Clusters {
		n := len(c.Entrances)
		assert.Equal(t, n*(n-1)/2, c.InternalEdges, "cluster %d", c.ID)
	}
	for _, e := range info.Edges {
		assert.Equal(t, Found.String(), e.Outcome, "open map edge %v-%v", e.A, e.B)
	}
}
