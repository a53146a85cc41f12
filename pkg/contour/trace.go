package contour

import (
	"image"

	"github.com/menta2k/deskewer/pkg/types"
)

// Chain codes, counter-clockwise on screen starting east.
var (
	chainDX = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	chainDY = [8]int{0, -1, -1, -1, 0, 1, 1, 1}
)

// grid is the mask with a one pixel background frame, so every foreground
// pixel has eight addressable neighbours.
type grid struct {
	w, h   int
	fg     []bool
	deltas [8]int
}

// newGrid returns nil when the mask is empty or has no foreground
func newGrid(mask *image.Gray) *grid {
	if mask == nil {
		return nil
	}
	b := mask.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return nil
	}

	g := &grid{w: b.Dx() + 2, h: b.Dy() + 2}
	g.fg = make([]bool, g.w*g.h)
	found := false
	for y := 0; y < b.Dy(); y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+b.Dx()]
		for x, v := range row {
			if v != 0 {
				g.fg[(y+1)*g.w+x+1] = true
				found = true
			}
		}
	}
	if !found {
		return nil
	}

	for s := range g.deltas {
		g.deltas[s] = chainDX[s] + chainDY[s]*g.w
	}
	return g
}

func (g *grid) point(i int) types.Point {
	return types.Point{X: i%g.w - 1, Y: i/g.w - 1}
}

// outerBackground flood-fills the background reachable from the frame
func (g *grid) outerBackground() []bool {
	outer := make([]bool, len(g.fg))
	outer[0] = true
	stack := []int{0}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%g.w, i/g.w

		var next [4]int
		n := 0
		if x > 0 {
			next[n] = i - 1
			n++
		}
		if x < g.w-1 {
			next[n] = i + 1
			n++
		}
		if y > 0 {
			next[n] = i - g.w
			n++
		}
		if y < g.h-1 {
			next[n] = i + g.w
			n++
		}
		for _, j := range next[:n] {
			if !outer[j] && !g.fg[j] {
				outer[j] = true
				stack = append(stack, j)
			}
		}
	}
	return outer
}

// externalStarts labels each 8-connected foreground component and returns
// the first raster pixel of every component touching the outer background
func (g *grid) externalStarts(outer []bool) []int {
	seen := make([]bool, len(g.fg))
	four := [4]int{-1, 1, -g.w, g.w}

	var starts []int
	var stack []int
	for i, isFg := range g.fg {
		if !isFg || seen[i] {
			continue
		}

		external := false
		seen[i] = true
		stack = append(stack[:0], i)
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, d := range four {
				if outer[p+d] {
					external = true
				}
			}
			for _, d := range g.deltas {
				q := p + d
				if g.fg[q] && !seen[q] {
					seen[q] = true
					stack = append(stack, q)
				}
			}
		}

		if external {
			starts = append(starts, i)
		}
	}
	return starts
}

// trace follows the outer border that starts at i0, whose west neighbour is
// background, and keeps only the pixels where the direction changes
func (g *grid) trace(i0 int) types.Contour {
	// clockwise from west, find the pixel the walk will return from
	s := 4
	for {
		s = (s - 1) & 7
		if s == 4 || g.fg[i0+g.deltas[s]] {
			break
		}
	}
	if s == 4 {
		return types.Contour{g.point(i0)}
	}

	i1 := i0 + g.deltas[s]
	i3 := i0
	prev := s ^ 4

	var c types.Contour
	for {
		for {
			s = (s + 1) & 7
			if g.fg[i3+g.deltas[s]] {
				break
			}
		}
		i4 := i3 + g.deltas[s]

		if s != prev {
			c = append(c, g.point(i3))
			prev = s
		}
		if i4 == i0 && i3 == i1 {
			break
		}
		i3 = i4
		s = (s + 4) & 7
	}
	return c
}
