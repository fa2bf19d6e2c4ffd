package pathing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilepath/internal/tilemap"
)

func TestSmoothStraightLine(t *testing.T) {
	p := NewPath(Pt(0, 0), Pt(1, 0), Pt(2, 0), Pt(3, 0), Pt(4, 0))
	removed := p.Smooth(WalkableFunc(func(x, y int) bool { return true }))

	assert.Equal(t, 3, removed)
	assert.Equal(t, []Point{Pt(0, 0), Pt(4, 0)}, p.Tiles())
}

func TestSmoothKeepsCorners(t *testing.T) {
	blocked := WalkableFunc(func(x, y int) bool { return !(x == 1 && y == 1) })
	p := NewPath(Pt(0, 0), Pt(0, 1), Pt(0, 2), Pt(1, 2), Pt(2, 2))

	removed := p.Smooth(blocked)
	assert.Equal(t, 2, removed)
	assert.Equal(t, []Point{Pt(0, 0), Pt(0, 2), Pt(2, 2)}, p.Tiles())
}

func TestSmoothIsIdempotent(t *testing.T) {
	zigzag := openMap(30, 30)
	wall(zigzag, 10, 0, 10, 25)
	wall(zigzag, 20, 4, 20, 29)

	tests := []struct {
		name     string
		m        *tilemap.Layers
		from, to Point
		minTiles int
	}{
		{"open map", openMap(30, 30), Pt(1, 1), Pt(28, 17), 2},
		{"around walls", zigzag, Pt(2, 2), Pt(28, 2), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := build(t, tt.m)
			res := pf.FindPath(tt.from, tt.to)
			require.Equal(t, Found, res.Outcome)

			pf.Smooth(res.Path)
			once := res.Path.Tiles()
			assert.GreaterOrEqual(t, len(once), tt.minTiles)
			for i := 1; i < len(once); i++ {
				assert.True(t, HasLineOfSight(once[i-1], once[i], pf.Grid()), "%v to %v", once[i-1], once[i])
			}

			assert.Equal(t, 0, pf.Smooth(res.Path))
			assert.Equal(t, once, res.Path.Tiles())
		})
	}
}

func TestHasLineOfSight(t *testing.T) {
	open := WalkableFunc(func(x, y int) bool { return true })
	wallAt := func(wx, wy int) LineOfSight {
		return WalkableFunc(func(x, y int) bool { return x != wx || y != wy })
	}

	tests := []struct {
		name string
		a, b Point
		los  LineOfSight
		want bool
	}{
		{"same tile", Pt(2, 2), Pt(2, 2), open, true},
		{"clear diagonal", Pt(0, 0), Pt(5, 5), open, true},
		{"wall on diagonal", Pt(0, 0), Pt(4, 4), wallAt(2, 2), false},
		{"wall beside line", Pt(0, 0), Pt(4, 0), wallAt(2, 1), true},
		{"blocked endpoint", Pt(0, 0), Pt(3, 0), wallAt(3, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasLineOfSight(tt.a, tt.b, tt.los))
		})
	}
}
