package processing

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/menta2k/deskewer/pkg/types"
)

// Overlay colors
var (
	ContourColor = color.NRGBA{0, 255, 0, 255}
	RectColor    = color.NRGBA{255, 204, 0, 255}
	WindowColor  = color.NRGBA{0, 170, 255, 255}
	CenterColor  = color.NRGBA{255, 0, 0, 255}
)

// DefaultStroke is the line width of overlays, in pixels
const DefaultStroke = 2

// CreateContourOverlay draws the contour and its rotated rectangle on a copy
// of img
func (p *Processor) CreateContourOverlay(img image.Image, c types.Contour, rect types.RotatedRect) *image.NRGBA {
	nrgba := imaging.Clone(img)
	stroke := strokeFor(nrgba)

	DrawRotatedRect(nrgba, rect, RectColor, stroke)
	DrawContour(nrgba, c, ContourColor, stroke)
	drawCross(nrgba, int(math.Round(rect.Center.X)), int(math.Round(rect.Center.Y)), 3*stroke, CenterColor)

	return nrgba
}

// CreateCropOverlay outlines the crop window on a copy of img
func (p *Processor) CreateCropOverlay(img image.Image, win types.CropWindow, center types.Point2f) *image.NRGBA {
	nrgba := imaging.Clone(img)
	stroke := strokeFor(nrgba)

	DrawWindow(nrgba, win, WindowColor, stroke)
	drawCross(nrgba, int(math.Round(center.X)), int(math.Round(center.Y)), 3*stroke, CenterColor)

	return nrgba
}

// DrawContour draws the closed polygon c onto img
func DrawContour(img *image.NRGBA, c types.Contour, col color.NRGBA, stroke int) {
	if len(c) == 1 {
		drawDot(img, c[0].X, c[0].Y, stroke, col)
		return
	}
	for i := range c {
		a, b := c[i], c[(i+1)%len(c)]
		drawLine(img, a.X, a.Y, b.X, b.Y, col, stroke)
	}
}

// DrawRotatedRect draws the outline of r onto img
func DrawRotatedRect(img *image.NRGBA, r types.RotatedRect, col color.NRGBA, stroke int) {
	corners := r.Corners()
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		drawLine(img,
			int(math.Round(a.X)), int(math.Round(a.Y)),
			int(math.Round(b.X)), int(math.Round(b.Y)),
			col, stroke)
	}
}

// DrawWindow draws the inside border of win onto img
func DrawWindow(img *image.NRGBA, win types.CropWindow, col color.NRGBA, stroke int) {
	if win.Empty() {
		return
	}
	x0, y0 := win.X, win.Y
	x1, y1 := win.X+win.Width, win.Y+win.Height
	for s := 0; s < stroke; s++ {
		drawHLine(img, y0+s, x0, x1, col)
		drawHLine(img, y1-1-s, x0, x1, col)
		drawVLine(img, x0+s, y0, y1, col)
		drawVLine(img, x1-1-s, y0, y1, col)
	}
}

func strokeFor(img image.Image) int {
	b := img.Bounds()
	return int(math.Max(DefaultStroke, 0.003*float64(min(b.Dx(), b.Dy()))))
}

func drawCross(img *image.NRGBA, x, y, size int, c color.NRGBA) {
	drawHLine(img, y, x-size, x+size+1, c)
	drawVLine(img, x, y-size, y+size+1, c)
}

// drawLine rasterises a segment with Bresenham's algorithm, stamping a
// stroke-sized square at every step
func drawLine(img *image.NRGBA, x0, y0, x1, y1 int, c color.NRGBA, stroke int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		drawDot(img, x0, y0, stroke, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func drawDot(img *image.NRGBA, x, y, stroke int, c color.NRGBA) {
	half := (stroke - 1) / 2
	for yy := y - half; yy < y-half+stroke; yy++ {
		drawHLine(img, yy, x-half, x-half+stroke, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	x0 = max(x0, 0)
	x1 = min(x1, img.Bounds().Dx())
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	y0 = max(y0, 0)
	y1 = min(y1, img.Bounds().Dy())
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
