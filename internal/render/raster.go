package render

import (
	"image"
	"image/color"
)

// Raster writes solid tiles straight into an RGBA buffer. Filling one
// rectangle per tile through gg is far slower on large maps, so the tile
// layer is drawn here and only the overlays go through gg.
type Raster struct {
	img    *image.RGBA
	width  int
	height int
	stride int
}

// NewRaster creates a raster of the given pixel size.
func NewRaster(width, height int) *Raster {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	return &Raster{
		img:    img,
		width:  width,
		height: height,
		stride: img.Stride,
	}
}

// Image returns the backing image.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// Clear fills the whole raster with one color.
func (r *Raster) Clear(c color.RGBA) {
	buf := r.img.Pix
	for i := 0; i < len(buf); i += 4 {
		buf[i] = c.R
		buf[i+1] = c.G
		buf[i+2] = c.B
		buf[i+3] = c.A
	}
}

// FillRect fills a rectangle, clipped to the raster.
func (r *Raster) FillRect(x, y, w, h int, c color.RGBA) {
	x1 := max(0, x)
	y1 := max(0, y)
	x2 := min(r.width, x+w)
	y2 := min(r.height, y+h)
	if x1 >= x2 || y1 >= y2 {
		return
	}

	buf := r.img.Pix
	for py := y1; py < y2; py++ {
		rowStart := py * r.stride
		for px := x1; px < x2; px++ {
			idx := rowStart + px*4
			buf[idx] = c.R
			buf[idx+1] = c.G
			buf[idx+2] = c.B
			buf[idx+3] = c.A
		}
	}
}

// FillRectBlend fills a rectangle with alpha blending over an opaque
// background.
func (r *Raster) FillRectBlend(x, y, w, h int, c color.RGBA) {
	if c.A == 255 {
		r.FillRect(x, y, w, h, c)
		return
	}
	if c.A == 0 {
		return
	}

	x1 := max(0, x)
	y1 := max(0, y)
	x2 := min(r.width, x+w)
	y2 := min(r.height, y+h)
	if x1 >= x2 || y1 >= y2 {
		return
	}

	srcA := float64(c.A) / 255.0
	invA := 1.0 - srcA

	buf := r.img.Pix
	for py := y1; py < y2; py++ {
		rowStart := py * r.stride
		for px := x1; px < x2; px++ {
			idx := rowStart + px*4
			buf[idx] = uint8(float64(c.R)*srcA + float64(buf[idx])*invA)
			buf[idx+1] = uint8(float64(c.G)*srcA + float64(buf[idx+1])*invA)
			buf[idx+2] = uint8(float64(c.B)*srcA + float64(buf[idx+2])*invA)
			buf[idx+3] = 255
		}
	}
}

// HLine draws a one pixel horizontal line from x1 to x2 inclusive.
func (r *Raster) HLine(x1, x2, y int, c color.RGBA) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	r.FillRect(x1, y, x2-x1+1, 1, c)
}

// VLine draws a one pixel vertical line from y1 to y2 inclusive.
func (r *Raster) VLine(x, y1, y2 int, c color.RGBA) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	r.FillRect(x, y1, 1, y2-y1+1, c)
}
