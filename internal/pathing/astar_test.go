package pathing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilepath/internal/tilemap"
)

func TestSearchTiles(t *testing.T) {
	g := gridOf(t, tilemap.MustParseASCII(`
.....
.....
####.
.....
.....
`))
	window := rect{min: Pt(0, 0), w: 5, h: 5}

	tests := []struct {
		name     string
		from, to Point
		outcome  Outcome
		length   float64
	}{
		{"straight", Pt(0, 0), Pt(4, 0), Found, 4},
		{"diagonal", Pt(0, 0), Pt(1, 1), Found, math.Sqrt2},
		{"around the wall", Pt(0, 0), Pt(0, 4), Found, 4 + 4*math.Sqrt2},
		{"same tile", Pt(3, 3), Pt(3, 3), Found, 0},
		{"blocked goal", Pt(0, 0), Pt(1, 2), NoPath, 0},
		{"outside window", Pt(0, 0), Pt(7, 0), Unsupported, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := searchTiles(g, window, tt.from, tt.to)
			require.Equal(t, tt.outcome, r.outcome)
			if r.outcome != Found {
				return
			}
			assert.InDelta(t, tt.length, r.length, 1e-9)

			tiles := r.path.Tiles()
			assert.Equal(t, tt.from, tiles[0])
			assert.Equal(t, tt.to, tiles[len(tiles)-1])
			requireContinuous(t, tiles, g)
		})
	}
}

func TestSearchTilesExhausts(t *testing.T) {
	g := gridOf(t, tilemap.MustParseASCII(`
.....
.###.
.#.#.
.###.
.....
`))
	r := searchTiles(g, rect{min: Pt(0, 0), w: 5, h: 5}, Pt(0, 0), Pt(2, 2))
	assert.Equal(t, NoPath, r.outcome)
	assert.Nil(t, r.path)
}

func TestSearchTilesStaysInWindow(t *testing.T) {
	// The only way around the wall leaves the window.
	g := gridOf(t, tilemap.MustParseASCII(`
..#..
..#..
.....
`))
	r := searchTiles(g, rect{min: Pt(0, 0), w: 5, h: 2}, Pt(0, 0), Pt(4, 0))
	assert.Equal(t, NoPath, r.outcome)

	r = searchTiles(g, rect{min: Pt(0, 0), w: 5, h: 3}, Pt(0, 0), Pt(4, 0))
	assert.Equal(t, Found, r.outcome)
}

func TestTileRouteAcrossClusters(t *testing.T) {
	pf := build(t, openMap(20, 10))

	r := pf.tileRoute(Pt(9, 4), Pt(10, 4))
	require.Equal(t, Found, r.outcome)
	assert.Equal(t, []Point{Pt(9, 4), Pt(10, 4)}, r.path.Tiles())
	assert.InDelta(t, 1, r.length, 1e-9)

	r = pf.tileRoute(Pt(5, 4), Pt(15, 4))
	assert.Equal(t, Unsupported, r.outcome)

	r = pf.tileRoute(Pt(5, 4), Pt(50, 4))
	assert.Equal(t, Unsupported, r.outcome)
}
