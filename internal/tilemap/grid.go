package tilemap

import (
	"fmt"
	"log/slog"

	"github.com/bits-and-blooms/bitset"
)

// Grid is an immutable walkability snapshot of a TileMap.
//
// Memory layout: one bit per tile in row-major order (bit y*width+x).
type Grid struct {
	width, height int
	walkable      *bitset.BitSet
}

// NewGrid snapshots walkability from a tile map.
//
// Fails on a map without layers, a collision layer whose size differs from
// the map, or non-positive dimensions. A single layer map is treated as fully
// walkable and extra layers are ignored; both are logged.
func NewGrid(tm TileMap, logger *slog.Logger) (*Grid, error) {
	if logger == nil {
		logger = slog.Default()
	}
	width, height := tm.Width(), tm.Height()
	if width <= 0 || height <= 0 {
		logger.Error("map has non-positive dimensions", "width", width, "height", height)
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, width, height)
	}

	g := &Grid{
		width:    width,
		height:   height,
		walkable: bitset.New(uint(width * height)),
	}

	switch n := tm.LayerCount(); {
	case n == 0:
		logger.Error("map has no layers")
		return nil, ErrNoLayers
	case n == 1:
		logger.Warn("map only has one layer, treating every tile as walkable")
		for i := 0; i < width*height; i++ {
			g.walkable.Set(uint(i))
		}
		return g, nil
	case n > 2:
		logger.Warn("map has more layers than necessary", "layers", n)
	}

	collision := tm.Layer(CollisionLayer)
	if collision == nil {
		logger.Error("cannot pull tile information from map")
		return nil, fmt.Errorf("%w: collision layer missing", ErrLayerSize)
	}
	if collision.Width() != width || collision.Height() != height {
		logger.Error("map layers are different sizes",
			"map_width", width, "map_height", height,
			"layer_width", collision.Width(), "layer_height", collision.Height())
		return nil, fmt.Errorf("%w: layer %dx%d, map %dx%d",
			ErrLayerSize, collision.Width(), collision.Height(), width, height)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !collision.HasTile(x, y) {
				g.walkable.Set(uint(y*width + x))
			}
		}
	}
	return g, nil
}

// Width returns the grid width in tiles.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in tiles.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) is a tile of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// Walkable reports whether (x, y) can be stood on. Outside the grid is not walkable.
func (g *Grid) Walkable(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.walkable.Test(uint(y*g.width + x))
}

// WalkableCount returns the number of walkable tiles.
func (g *Grid) WalkableCount() int {
	return int(g.walkable.Count())
}
