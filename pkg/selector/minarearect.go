package selector

import (
	"math"
	"sort"

	"github.com/menta2k/deskewer/pkg/types"
)

func cross(o, a, b types.Point) int64 {
	return int64(a.X-o.X)*int64(b.Y-o.Y) - int64(a.Y-o.Y)*int64(b.X-o.X)
}

// ConvexHull returns the convex hull of pts using the monotone chain
// algorithm. Duplicate and collinear points are dropped. The input is not
// modified.
func ConvexHull(pts []types.Point) []types.Point {
	sorted := make([]types.Point, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	uniq := sorted[:0]
	for _, p := range sorted {
		if len(uniq) == 0 || p != uniq[len(uniq)-1] {
			uniq = append(uniq, p)
		}
	}
	if len(uniq) < 3 {
		return uniq
	}

	hull := make([]types.Point, 0, 2*len(uniq))
	for _, p := range uniq {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(uniq) - 2; i >= 0; i-- {
		p := uniq[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// MinAreaRect returns the smallest rotated rectangle enclosing pts, measured
// between pixel centres. See types.RotatedRect for the angle convention.
func MinAreaRect(pts []types.Point) types.RotatedRect {
	hull := ConvexHull(pts)

	switch len(hull) {
	case 0:
		return types.RotatedRect{}
	case 1:
		return types.RotatedRect{Center: types.Point2f{X: float64(hull[0].X), Y: float64(hull[0].Y)}}
	case 2:
		dx, dy := hull[1].X-hull[0].X, hull[1].Y-hull[0].Y
		return normalize(
			types.Point2f{X: float64(hull[0].X+hull[1].X) / 2, Y: float64(hull[0].Y+hull[1].Y) / 2},
			math.Hypot(float64(dx), float64(dy)), 0, dx, dy,
		)
	}

	var (
		bestArea       = math.Inf(1)
		bestCenter     types.Point2f
		bestW, bestH   float64
		bestDX, bestDY int
	)
	for i := range hull {
		o := hull[i]
		next := hull[(i+1)%len(hull)]
		dx, dy := next.X-o.X, next.Y-o.Y
		length := math.Hypot(float64(dx), float64(dy))
		ux, uy := float64(dx)/length, float64(dy)/length

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			px, py := float64(p.X-o.X), float64(p.Y-o.Y)
			pu := px*ux + py*uy
			pv := -px*uy + py*ux
			minU, maxU = math.Min(minU, pu), math.Max(maxU, pu)
			minV, maxV = math.Min(minV, pv), math.Max(maxV, pv)
		}

		w, h := maxU-minU, maxV-minV
		if area := w * h; area < bestArea {
			bestArea = area
			bestW, bestH = w, h
			bestDX, bestDY = dx, dy
			midU, midV := (minU+maxU)/2, (minV+maxV)/2
			bestCenter = types.Point2f{
				X: float64(o.X) + midU*ux - midV*uy,
				Y: float64(o.Y) + midU*uy + midV*ux,
			}
		}
	}

	return normalize(bestCenter, bestW, bestH, bestDX, bestDY)
}

// normalize turns the edge (dx, dy), whose extent is w and whose
// perpendicular extent is h, in quarter turns until it points within
// [-45, 45) degrees of +x. Each quarter turn swaps the two sides.
func normalize(center types.Point2f, w, h float64, dx, dy int) types.RotatedRect {
	for k := 0; k < 4; k++ {
		if dx > 0 && -dx <= dy && dy < dx {
			break
		}
		dx, dy = -dy, dx
		w, h = h, w
	}
	return types.RotatedRect{
		Center: center,
		Size:   types.Size2f{Width: w, Height: h},
		Angle:  math.Atan2(float64(dy), float64(dx)) * 180 / math.Pi,
	}
}
