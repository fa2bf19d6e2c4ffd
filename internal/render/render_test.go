package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilepath/internal/pathing"
	"tilepath/internal/tilemap"
)

// TestRasterFillRect tests clipping and fill color
func TestRasterFillRect(t *testing.T) {
	r := NewRaster(10, 10)
	c := color.RGBA{100, 150, 200, 255}
	r.FillRect(-5, -5, 8, 8, c)

	img := r.Image()
	assert.Equal(t, c, img.RGBAAt(2, 2))
	assert.NotEqual(t, c, img.RGBAAt(3, 3), "pixel (3,3) should be outside the clipped rect")

	// Entirely outside does nothing
	r.FillRect(20, 20, 5, 5, c)
}

// TestRasterBlend tests alpha blending over an opaque background
func TestRasterBlend(t *testing.T) {
	r := NewRaster(4, 4)
	r.Clear(color.RGBA{0, 0, 0, 255})
	r.FillRectBlend(0, 0, 4, 4, color.RGBA{200, 100, 0, 128})

	got := r.Image().RGBAAt(1, 1)
	assert.InDelta(t, 100, int(got.R), 5, "blended red")
	assert.Equal(t, uint8(255), got.A, "blended alpha should be opaque")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buildScene(t *testing.T) Scene {
	t.Helper()
	m := tilemap.MustParseASCII(`
....................
.........#..........
.........#..........
.........#..........
....................
`)
	pf := pathing.New(pathing.WithLogger(quietLogger()))
	require.NoError(t, pf.Build(m))

	res := pf.FindPath(pathing.Pt(0, 2), pathing.Pt(19, 2))
	require.Equal(t, pathing.Found, res.Outcome)
	return Scene{Grid: pf.Grid(), Graph: pf.Graph(), Path: res.Path.Tiles()}
}

// TestWritePNG tests that the encoded image has the expected size
func TestWritePNG(t *testing.T) {
	scene := buildScene(t)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, scene, Options{TileSize: 4, ShowEdges: true}))

	img, err := png.Decode(&buf)
	require.NoError(t, err, "output is not a PNG")
	assert.Equal(t, image.Rect(0, 0, 80, 20), img.Bounds())

	// A wall tile well away from any overlay keeps the wall color.
	r, g, b, _ := img.At(9*4, 2*4+1).RGBA()
	assert.Equal(t, [3]uint8{wallColor.R, wallColor.G, wallColor.B},
		[3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)})
}

// TestDrawTintsPathTiles tests the translucent overlay on waypoint tiles
func TestDrawTintsPathTiles(t *testing.T) {
	g, err := tilemap.NewGrid(tilemap.MustParseASCII(`
......
......
......
`), quietLogger())
	require.NoError(t, err)

	img, err := Draw(Scene{Grid: g, Path: []pathing.Point{pathing.Pt(1, 1), pathing.Pt(3, 1)}}, Options{TileSize: 8})
	require.NoError(t, err)
	rgba, ok := img.(*image.RGBA)
	require.True(t, ok)

	// Tile corners sit clear of the stroke and the end markers.
	tinted := rgba.RGBAAt(3*8, 1*8)
	assert.NotEqual(t, floorColor, tinted)
	assert.Greater(t, tinted.R, tinted.G)
	assert.Equal(t, uint8(255), tinted.A)

	assert.Equal(t, floorColor, rgba.RGBAAt(5*8, 2*8), "untouched tile keeps the floor color")
}

// TestDrawErrors tests the guard rails
func TestDrawErrors(t *testing.T) {
	_, err := Draw(Scene{}, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoGrid)

	g, err := tilemap.NewGrid(tilemap.NewTwoLayer(3000, 10), quietLogger())
	require.NoError(t, err)
	_, err = Draw(Scene{Grid: g}, Options{TileSize: 4})
	assert.ErrorIs(t, err, ErrTooLarge)
}
