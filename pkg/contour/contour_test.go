package contour

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/menta2k/deskewer/pkg/types"
)

func fillRect(mask *image.Gray, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			mask.Pix[y*mask.Stride+x] = 255
		}
	}
}

func equalContour(a, b types.Contour) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFindContoursEmpty(t *testing.T) {
	cases := []struct {
		name string
		mask *image.Gray
	}{
		{"nil", nil},
		{"zero size", image.NewGray(image.Rect(0, 0, 0, 0))},
		{"all background", image.NewGray(image.Rect(0, 0, 20, 20))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := FindContours(c.mask)
			if got == nil {
				t.Fatal("Expected an empty slice, got nil")
			}
			if len(got) != 0 {
				t.Errorf("Expected no contours, got %d", len(got))
			}
		})
	}
}

func TestFindContoursFilledBlock(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 40, 40))
	fillRect(mask, image.Rect(10, 10, 20, 20))

	got := New().FindContours(mask)
	if len(got) != 1 {
		t.Fatalf("Expected 1 contour, got %d", len(got))
	}
	want := types.Contour{{10, 10}, {10, 19}, {19, 19}, {19, 10}}
	if !equalContour(got[0], want) {
		t.Errorf("Expected %v, got %v", want, got[0])
	}
	if a := Area(got[0]); a != 81 {
		t.Errorf("Expected area 81, got %v", a)
	}
}

func TestFindContoursThinShapes(t *testing.T) {
	t.Run("row", func(t *testing.T) {
		mask := image.NewGray(image.Rect(0, 0, 20, 10))
		fillRect(mask, image.Rect(5, 3, 10, 4))

		got := FindContours(mask)
		if len(got) != 1 {
			t.Fatalf("Expected 1 contour, got %d", len(got))
		}
		want := types.Contour{{5, 3}, {9, 3}}
		if !equalContour(got[0], want) {
			t.Errorf("Expected %v, got %v", want, got[0])
		}
	})

	t.Run("single pixel", func(t *testing.T) {
		mask := image.NewGray(image.Rect(0, 0, 10, 10))
		mask.SetGray(4, 6, gray255)

		got := FindContours(mask)
		if len(got) != 1 {
			t.Fatalf("Expected 1 contour, got %d", len(got))
		}
		want := types.Contour{{4, 6}}
		if !equalContour(got[0], want) {
			t.Errorf("Expected %v, got %v", want, got[0])
		}
	})
}

func TestFindContoursTouchingEdge(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 10, 10))
	fillRect(mask, image.Rect(0, 0, 5, 5))

	got := FindContours(mask)
	if len(got) != 1 {
		t.Fatalf("Expected 1 contour, got %d", len(got))
	}
	want := types.Contour{{0, 0}, {0, 4}, {4, 4}, {4, 0}}
	if !equalContour(got[0], want) {
		t.Errorf("Expected %v, got %v", want, got[0])
	}
}

func TestFindContoursSkipsNestedRegions(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 40, 40))
	fillRect(mask, image.Rect(10, 10, 30, 30))
	hole := image.Rect(13, 13, 27, 27)
	for y := hole.Min.Y; y < hole.Max.Y; y++ {
		for x := hole.Min.X; x < hole.Max.X; x++ {
			mask.Pix[y*mask.Stride+x] = 0
		}
	}
	fillRect(mask, image.Rect(17, 17, 23, 23))

	got := FindContours(mask)
	if len(got) != 1 {
		t.Fatalf("Expected only the ring's outer contour, got %d contours", len(got))
	}
	if got[0][0] != (types.Point{X: 10, Y: 10}) {
		t.Errorf("Expected ring contour to start at (10,10), got %v", got[0][0])
	}
}

func TestFindContoursRasterOrder(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 50, 40))
	fillRect(mask, image.Rect(5, 20, 15, 30))
	fillRect(mask, image.Rect(30, 5, 40, 15))

	got := FindContours(mask)
	if len(got) != 2 {
		t.Fatalf("Expected 2 contours, got %d", len(got))
	}
	if got[0][0] != (types.Point{X: 30, Y: 5}) {
		t.Errorf("Expected first contour to start at (30,5), got %v", got[0][0])
	}
	if got[1][0] != (types.Point{X: 5, Y: 20}) {
		t.Errorf("Expected second contour to start at (5,20), got %v", got[1][0])
	}
}

func TestFindContoursDiagonalConnectivity(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 10, 10))
	mask.SetGray(2, 2, gray255)
	mask.SetGray(3, 3, gray255)
	mask.SetGray(4, 4, gray255)

	got := FindContours(mask)
	if len(got) != 1 {
		t.Fatalf("Expected diagonal pixels to form 1 contour, got %d", len(got))
	}
	want := types.Contour{{2, 2}, {4, 4}}
	if !equalContour(got[0], want) {
		t.Errorf("Expected %v, got %v", want, got[0])
	}
}

func TestAreaAndArcLength(t *testing.T) {
	square := types.Contour{{0, 0}, {0, 10}, {10, 10}, {10, 0}}
	if a := Area(square); a != 100 {
		t.Errorf("Expected area 100, got %v", a)
	}
	if l := ArcLength(square); l != 40 {
		t.Errorf("Expected arc length 40, got %v", l)
	}

	tri := types.Contour{{0, 0}, {4, 0}, {0, 3}}
	if a := Area(tri); a != 6 {
		t.Errorf("Expected area 6, got %v", a)
	}
	if l := ArcLength(tri); math.Abs(l-12) > 1e-9 {
		t.Errorf("Expected arc length 12, got %v", l)
	}

	if a := Area(types.Contour{{1, 1}, {5, 5}}); a != 0 {
		t.Errorf("Expected zero area for a segment, got %v", a)
	}
}

var gray255 = color.Gray{Y: 255}
