// Package contour finds the outer boundaries of foreground regions in a
// binary mask.
//
// Foreground pixels (any non-zero value) are 8-connected, background pixels
// are 4-connected and everything outside the mask counts as background. Only
// regions that border the background surrounding the whole mask are
// reported: a blob sitting inside another blob's hole is skipped.
//
// Each boundary is traced with Suzuki-Abe border following and compressed so
// that runs of pixels in the same direction keep only their end points.
//
// Contours are returned in raster order of their top-left-most pixel. OpenCV
// returns external contours in the reverse of its discovery order, so when
// two contours tie downstream the earlier one here is not OpenCV's earlier one.
package contour

import (
	"image"
	"math"

	"github.com/menta2k/deskewer/pkg/types"
)

// Extractor finds external contours
type Extractor struct{}

// New creates a new Extractor
func New() *Extractor {
	return &Extractor{}
}

// FindContours returns the external contours of mask, in raster order of
// their top-left-most pixel. A mask without foreground yields an empty slice.
func (e *Extractor) FindContours(mask *image.Gray) []types.Contour {
	return FindContours(mask)
}

// FindContours is the package-level form of Extractor.FindContours
func FindContours(mask *image.Gray) []types.Contour {
	g := newGrid(mask)
	if g == nil {
		return []types.Contour{}
	}

	outer := g.outerBackground()
	starts := g.externalStarts(outer)

	contours := make([]types.Contour, 0, len(starts))
	for _, s := range starts {
		contours = append(contours, g.trace(s))
	}
	return contours
}

// Area returns the polygon area of c with the shoelace formula
func Area(c types.Contour) float64 {
	if len(c) < 3 {
		return 0
	}
	var twice int64
	for i := range c {
		j := (i + 1) % len(c)
		twice += int64(c[i].X)*int64(c[j].Y) - int64(c[j].X)*int64(c[i].Y)
	}
	return math.Abs(float64(twice)) / 2
}

// ArcLength returns the perimeter of the closed polygon c
func ArcLength(c types.Contour) float64 {
	if len(c) < 2 {
		return 0
	}
	var length float64
	for i := range c {
		j := (i + 1) % len(c)
		length += math.Hypot(float64(c[j].X-c[i].X), float64(c[j].Y-c[i].Y))
	}
	return length
}
