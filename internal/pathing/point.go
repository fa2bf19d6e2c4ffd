package pathing

import (
	"cmp"
	"fmt"
	"log/slog"
	"math"
	"slices"
)

// Step costs for 8-connected movement.
const (
	StraightCost = 1.0
	DiagonalCost = math.Sqrt2
)

// Node coordinates are kept in the int16 range.
const (
	MinCoord = math.MinInt16
	MaxCoord = math.MaxInt16
)

// Point is a tile coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Add returns p offset by (dx, dy).
func (p Point) Add(dx, dy int) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Distance is the straight-line distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y))
}

// Adjacent reports whether q is one of the 8 neighbours of p.
func (p Point) Adjacent(q Point) bool {
	dx, dy := absInt(q.X-p.X), absInt(q.Y-p.Y)
	return dx <= 1 && dy <= 1 && dx+dy > 0
}

// stepCost is the cost of moving between neighbouring tiles. Non-neighbours
// fall back to straight-line distance.
func stepCost(a, b Point) float64 {
	dx, dy := absInt(b.X-a.X), absInt(b.Y-a.Y)
	switch {
	case dx == 0 && dy == 0:
		return 0
	case dx+dy == 1:
		return StraightCost
	case dx == 1 && dy == 1:
		return DiagonalCost
	default:
		return a.Distance(b)
	}
}

// clampPoint keeps a node coordinate inside the int16 range.
func clampPoint(p Point, logger *slog.Logger) Point {
	c := Point{X: clampCoord(p.X), Y: clampCoord(p.Y)}
	if c != p {
		logger.Warn("node coordinate would overflow, capping", "x", p.X, "y", p.Y)
	}
	return c
}

func clampCoord(v int) int {
	if v > MaxCoord {
		return MaxCoord
	}
	if v < MinCoord {
		return MinCoord
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// neighbourOffsets lists the 8 moves, orthogonal first. The order is fixed so
// searches are deterministic.
var neighbourOffsets = [...]struct {
	dx, dy int
	cost   float64
}{
	{0, -1, StraightCost},
	{1, 0, StraightCost},
	{0, 1, StraightCost},
	{-1, 0, StraightCost},
	{1, -1, DiagonalCost},
	{1, 1, DiagonalCost},
	{-1, 1, DiagonalCost},
	{-1, -1, DiagonalCost},
}

// sortByDistance orders pts by distance to origin. Equal distances keep
// their relative order.
func sortByDistance(pts []Point, origin Point) {
	slices.SortStableFunc(pts, func(a, b Point) int {
		return cmp.Compare(origin.Distance(a), origin.Distance(b))
	})
}
