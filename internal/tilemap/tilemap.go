// Package tilemap is the boundary between map loading and pathfinding.
//
// A map is handed over as a stack of tile layers. Layer 0 is the floor and
// layer 1 is the collision layer: a coordinate is walkable iff the collision
// layer has no tile placed there. Everything the pathfinder needs is captured
// once in an immutable Grid; later changes to the source map are not observed.
package tilemap

import "errors"

// Build failures. Checked with errors.Is.
var (
	ErrNoLayers   = errors.New("tilemap: map has no layers")
	ErrLayerSize  = errors.New("tilemap: layer size differs from map size")
	ErrDimensions = errors.New("tilemap: map has non-positive dimensions")
	ErrRaggedRows = errors.New("tilemap: rows have different lengths")
)

const (
	// FloorLayer is the index of the base layer.
	FloorLayer = 0
	// CollisionLayer is the index of the layer whose tiles block movement.
	CollisionLayer = 1
)

// Layer is a single tile layer of a map.
type Layer interface {
	Width() int
	Height() int
	// HasTile reports whether a tile is placed at (x, y).
	HasTile(x, y int) bool
}

// TileMap is the external tile map collaborator.
type TileMap interface {
	Width() int
	Height() int
	LayerCount() int
	Layer(index int) Layer
}

// TileLayer is an in-memory Layer.
type TileLayer struct {
	width, height int
	placed        []bool
}

// NewTileLayer creates an empty layer of the given size.
func NewTileLayer(width, height int) *TileLayer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &TileLayer{
		width:  width,
		height: height,
		placed: make([]bool, width*height),
	}
}

func (l *TileLayer) Width() int  { return l.width }
func (l *TileLayer) Height() int { return l.height }

// Contains reports whether (x, y) is inside the layer.
func (l *TileLayer) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < l.width && y < l.height
}

// HasTile reports whether a tile is placed at (x, y). Outside the layer is empty.
func (l *TileLayer) HasTile(x, y int) bool {
	if !l.Contains(x, y) {
		return false
	}
	return l.placed[y*l.width+x]
}

// Place puts a tile at (x, y). Out of range coordinates are ignored.
func (l *TileLayer) Place(x, y int) {
	if l.Contains(x, y) {
		l.placed[y*l.width+x] = true
	}
}

// Clear removes the tile at (x, y).
func (l *TileLayer) Clear(x, y int) {
	if l.Contains(x, y) {
		l.placed[y*l.width+x] = false
	}
}

// Layers is an in-memory TileMap, the shape a map file loader hands over.
type Layers struct {
	width, height int
	layers        []Layer
}

// NewLayers creates a map of the given size with the given layers.
func NewLayers(width, height int, layers ...Layer) *Layers {
	return &Layers{width: width, height: height, layers: layers}
}

// NewTwoLayer creates a map with an empty floor and an empty collision layer.
// Use Collision() to place blocking tiles.
func NewTwoLayer(width, height int) *Layers {
	return NewLayers(width, height, NewTileLayer(width, height), NewTileLayer(width, height))
}

func (m *Layers) Width() int      { return m.width }
func (m *Layers) Height() int     { return m.height }
func (m *Layers) LayerCount() int { return len(m.layers) }

// Layer returns the layer at index, or nil if there is none.
func (m *Layers) Layer(index int) Layer {
	if index < 0 || index >= len(m.layers) {
		return nil
	}
	return m.layers[index]
}

// Collision returns the collision layer when it is an in-memory TileLayer.
func (m *Layers) Collision() *TileLayer {
	l, _ := m.Layer(CollisionLayer).(*TileLayer)
	return l
}
