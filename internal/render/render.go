// Package render draws a tile grid, its cluster graph and an optional path
// as a PNG image.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"tilepath/internal/pathing"
	"tilepath/internal/tilemap"
)

// MaxImageSide caps the rendered image so a large map cannot exhaust memory.
const MaxImageSide = 8192

var (
	// ErrNoGrid is returned when the scene has no grid to draw.
	ErrNoGrid = errors.New("render: no grid")
	// ErrTooLarge is returned when the image would exceed MaxImageSide.
	ErrTooLarge = errors.New("render: image too large")
)

// Palette
var (
	floorColor    = color.RGBA{235, 235, 228, 255}
	wallColor     = color.RGBA{40, 42, 54, 255}
	clusterColor  = color.RGBA{120, 140, 200, 255}
	edgeColor     = color.RGBA{90, 160, 90, 160}
	entranceColor = color.RGBA{220, 120, 30, 255}
	pathColor     = color.RGBA{200, 30, 60, 255}
	pathTint      = color.RGBA{200, 30, 60, 64}
)

// Options control what is drawn.
type Options struct {
	TileSize  int
	ShowEdges bool
}

// DefaultOptions returns the default render options.
func DefaultOptions() Options {
	return Options{TileSize: 8, ShowEdges: true}
}

// Scene is everything that ends up in the picture.
type Scene struct {
	Grid  *tilemap.Grid
	Graph pathing.GraphInfo
	Path  []pathing.Point
}

// Draw renders the scene.
func Draw(scene Scene, opts Options) (image.Image, error) {
	if scene.Grid == nil {
		return nil, ErrNoGrid
	}
	ts := max(opts.TileSize, 1)
	w, h := scene.Grid.Width()*ts, scene.Grid.Height()*ts
	if w > MaxImageSide || h > MaxImageSide {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, w, h)
	}

	raster := NewRaster(w, h)
	raster.Clear(floorColor)
	for y := 0; y < scene.Grid.Height(); y++ {
		for x := 0; x < scene.Grid.Width(); x++ {
			if !scene.Grid.Walkable(x, y) {
				raster.FillRect(x*ts, y*ts, ts, ts, wallColor)
			}
		}
	}
	for _, p := range scene.Path {
		raster.FillRectBlend(p.X*ts, p.Y*ts, ts, ts, pathTint)
	}
	for _, c := range scene.Graph.Clusters {
		x0, y0 := c.Origin.X*ts, c.Origin.Y*ts
		x1, y1 := x0+c.Width*ts-1, y0+c.Height*ts-1
		raster.HLine(x0, x1, y0, clusterColor)
		raster.HLine(x0, x1, y1, clusterColor)
		raster.VLine(x0, y0, y1, clusterColor)
		raster.VLine(x1, y0, y1, clusterColor)
	}

	dc := gg.NewContextForRGBA(raster.Image())
	center := func(p pathing.Point) (float64, float64) {
		return float64(p.X*ts) + float64(ts)/2, float64(p.Y*ts) + float64(ts)/2
	}

	if opts.ShowEdges {
		dc.SetColor(edgeColor)
		dc.SetLineWidth(1)
		for _, e := range scene.Graph.Edges {
			if e.Outcome != pathing.Found.String() {
				continue
			}
			ax, ay := center(e.A)
			bx, by := center(e.B)
			dc.DrawLine(ax, ay, bx, by)
			dc.Stroke()
		}
	}

	dc.SetColor(entranceColor)
	for _, c := range scene.Graph.Clusters {
		for _, p := range c.Entrances {
			x, y := center(p)
			dc.DrawCircle(x, y, float64(ts)/3)
			dc.Fill()
		}
	}

	if len(scene.Path) > 0 {
		dc.SetColor(pathColor)
		dc.SetLineWidth(max(float64(ts)/4, 1))
		x, y := center(scene.Path[0])
		dc.MoveTo(x, y)
		for _, p := range scene.Path[1:] {
			x, y = center(p)
			dc.LineTo(x, y)
		}
		dc.Stroke()

		sx, sy := center(scene.Path[0])
		dc.DrawCircle(sx, sy, float64(ts)/2)
		dc.Fill()
		dc.DrawCircle(x, y, float64(ts)/2)
		dc.Fill()
	}

	return dc.Image(), nil
}

// WritePNG renders the scene and encodes it to w.
func WritePNG(w io.Writer, scene Scene, opts Options) error {
	img, err := Draw(scene, opts)
	if err != nil {
		return err
	}
	dc := gg.NewContextForImage(img)
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
