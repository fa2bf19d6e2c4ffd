package pathing

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"tilepath/internal/tilemap"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// openMap returns a w x h map with no collision tiles.
func openMap(w, h int) *tilemap.Layers {
	return tilemap.NewTwoLayer(w, h)
}

// wall places collision tiles on every point of the rectangle
// [x0,x1] x [y0,y1].
func wall(m *tilemap.Layers, x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			m.Collision().Place(x, y)
		}
	}
}

func newTestPathfinder(opts ...Option) *Pathfinder {
	return New(append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func build(t testing.TB, m tilemap.TileMap, opts ...Option) *Pathfinder {
	t.Helper()
	pf := newTestPathfinder(opts...)
	require.NoError(t, pf.Build(m))
	return pf
}

func gridOf(t testing.TB, m tilemap.TileMap) *tilemap.Grid {
	t.Helper()
	g, err := tilemap.NewGrid(m, quietLogger())
	require.NoError(t, err)
	return g
}

// requireContinuous checks that a path only moves between neighbouring
// walkable tiles.
func requireContinuous(t *testing.T, tiles []Point, los LineOfSight) {
	t.Helper()
	for i, tile := range tiles {
		require.True(t, los.Walkable(tile.X, tile.Y), "tile %d %v is blocked", i, tile)
		if i > 0 {
			require.True(t, tiles[i-1].Adjacent(tile), "tiles %v and %v are not adjacent", tiles[i-1], tile)
		}
	}
}

func reversed(tiles []Point) []Point {
	out := make([]Point, len(tiles))
	for i, t := range tiles {
		out[len(tiles)-1-i] = t
	}
	return out
}
