// Package selector picks the contour whose minimum-area enclosing rectangle
// is the largest.
package selector

import (
	"github.com/menta2k/deskewer/pkg/types"
)

// MinPoints is the smallest contour that can enclose a positive area
const MinPoints = 3

// Selection is the winning contour together with its rectangle
type Selection struct {
	Rect    types.RotatedRect `json:"rect"`
	Contour types.Contour     `json:"-"`
	Index   int               `json:"index"`
	Area    float64           `json:"area"`
}

// Candidate is the rectangle fitted to one contour
type Candidate struct {
	Index int
	Rect  types.RotatedRect
	Area  float64
}

// Selector chooses the dominant rectangle among contours
type Selector struct{}

// New creates a new Selector
func New() *Selector {
	return &Selector{}
}

// SelectBest returns the contour with the largest enclosing rectangle.
// Contours with fewer than MinPoints points or a zero-area rectangle are
// skipped. On equal area the earlier contour is kept. ok is false when no
// contour qualifies.
func (s *Selector) SelectBest(contours []types.Contour) (Selection, bool) {
	return SelectBest(contours)
}

// SelectBest is the package-level form of Selector.SelectBest
func SelectBest(contours []types.Contour) (Selection, bool) {
	best, ok := Selection{}, false
	for _, c := range Candidates(contours) {
		if !ok || c.Area > best.Area {
			best = Selection{Rect: c.Rect, Contour: contours[c.Index], Index: c.Index, Area: c.Area}
			ok = true
		}
	}
	return best, ok
}

// Candidates fits a rectangle to every qualifying contour, in input order
func Candidates(contours []types.Contour) []Candidate {
	var out []Candidate
	for i, c := range contours {
		if len(c) < MinPoints {
			continue
		}
		rect := MinAreaRect(c)
		area := rect.Area()
		if area <= 0 {
			continue
		}
		out = append(out, Candidate{Index: i, Rect: rect, Area: area})
	}
	return out
}
