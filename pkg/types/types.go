package types

import (
	"image"
	"math"
)

// Point is an integer pixel coordinate
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Point2f is a sub-pixel coordinate
type Point2f struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size2f holds the side lengths of a rotated rectangle
type Size2f struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contour is a closed polygon boundary, in tracing order. The last point
// connects back to the first.
type Contour []Point

// RotatedRect is a possibly tilted rectangle.
//
// Angle is the direction of the Width edge in degrees, measured from the +x
// axis in image coordinates (y grows downwards, so positive angles are
// clockwise on screen). It is always in [-45, 45): the Width edge is the edge
// closest to horizontal, and an edge at exactly 45 degrees reports -45.
type RotatedRect struct {
	Center Point2f `json:"center"`
	Size   Size2f  `json:"size"`
	Angle  float64 `json:"angle"`
}

// Area returns Width*Height
func (r RotatedRect) Area() float64 {
	return r.Size.Width * r.Size.Height
}

// Corners returns the four vertices in drawing order
func (r RotatedRect) Corners() [4]Point2f {
	rad := r.Angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	halfW := r.Size.Width / 2
	halfH := r.Size.Height / 2
	cx, cy := r.Center.X, r.Center.Y

	return [4]Point2f{
		{X: cx - halfW*cos + halfH*sin, Y: cy - halfW*sin - halfH*cos},
		{X: cx + halfW*cos + halfH*sin, Y: cy + halfW*sin - halfH*cos},
		{X: cx + halfW*cos - halfH*sin, Y: cy + halfW*sin + halfH*cos},
		{X: cx - halfW*cos - halfH*sin, Y: cy - halfW*sin + halfH*cos},
	}
}

// BoundingRect returns the smallest integer rectangle containing all corners
func (r RotatedRect) BoundingRect() image.Rectangle {
	c := r.Corners()
	minX, minY := c[0].X, c[0].Y
	maxX, maxY := c[0].X, c[0].Y
	for _, p := range c[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)
}

// AffineTransform is a 2x3 matrix mapping source coordinates to destination
// coordinates:
//
//	x' = m[0][0]*x + m[0][1]*y + m[0][2]
//	y' = m[1][0]*x + m[1][1]*y + m[1][2]
type AffineTransform [2][3]float64

// Apply maps a point through the transform
func (m AffineTransform) Apply(p Point2f) Point2f {
	return Point2f{
		X: m[0][0]*p.X + m[0][1]*p.Y + m[0][2],
		Y: m[1][0]*p.X + m[1][1]*p.Y + m[1][2],
	}
}

// CropWindow is an axis-aligned pixel window
type CropWindow struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect converts the window to an image.Rectangle
func (w CropWindow) Rect() image.Rectangle {
	return image.Rect(w.X, w.Y, w.X+w.Width, w.Y+w.Height)
}

// Empty reports whether the window covers no pixels
func (w CropWindow) Empty() bool {
	return w.Width < 1 || w.Height < 1
}
