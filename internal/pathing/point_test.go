package pathing

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPoint(t *testing.T) {
	tests := []struct {
		name string
		in   Point
		want Point
		warn bool
	}{
		{"in range", Pt(12, -7), Pt(12, -7), false},
		{"at bounds", Pt(MaxCoord, MinCoord), Pt(MaxCoord, MinCoord), false},
		{"x too large", Pt(MaxCoord+1, 3), Pt(MaxCoord, 3), true},
		{"y too small", Pt(3, MinCoord-1), Pt(3, MinCoord), true},
		{"both out", Pt(40000, -40000), Pt(32767, -32768), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			assert.Equal(t, tt.want, clampPoint(tt.in, logger))
			if tt.warn {
				assert.Contains(t, buf.String(), "level=WARN")
				assert.Contains(t, buf.String(), "overflow")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestStepCost(t *testing.T) {
	assert.Equal(t, StraightCost, stepCost(Pt(0, 0), Pt(1, 0)))
	assert.Equal(t, StraightCost, stepCost(Pt(4, 4), Pt(4, 3)))
	assert.Equal(t, DiagonalCost, stepCost(Pt(0, 0), Pt(1, 1)))
	assert.InDelta(t, 5.0, stepCost(Pt(0, 0), Pt(3, 4)), 1e-12)
}

func TestSortByDistanceIsStable(t *testing.T) {
	pts := []Point{Pt(2, 0), Pt(0, 1), Pt(1, 0), Pt(0, 2), Pt(-1, 0)}
	sortByDistance(pts, Pt(0, 0))
	assert.Equal(t, []Point{Pt(0, 1), Pt(1, 0), Pt(-1, 0), Pt(2, 0), Pt(0, 2)}, pts)
}
