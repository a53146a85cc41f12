//go:build gocv

package cvref

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/menta2k/deskewer/pkg/binarizer"
	"github.com/menta2k/deskewer/pkg/contour"
	"github.com/menta2k/deskewer/pkg/deskew"
	"github.com/menta2k/deskewer/pkg/selector"
	"github.com/menta2k/deskewer/pkg/types"
)

func createRotatedRect(size int, w, h, angle float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	rad := angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			u := dx*cos + dy*sin
			v := -dx*sin + dy*cos
			if math.Abs(u) <= w/2 && math.Abs(v) <= h/2 {
				img.Set(x, y, color.RGBA{50, 50, 50, 255})
			} else {
				img.Set(x, y, color.RGBA{250, 250, 250, 255})
			}
		}
	}
	return img
}

// angleDiff compares angles modulo a quarter turn
func angleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 90)
	return math.Min(d, 90-d)
}

func TestMatchesPureGo(t *testing.T) {
	for _, angle := range []float64{-30, -10, 0, 12, 25, 40} {
		img := createRotatedRect(400, 220, 140, angle)

		cv, err := Extract(img, 300, 300)
		if err != nil {
			t.Fatalf("angle %v: Extract failed: %v", angle, err)
		}

		bin, err := binarizer.New().Analyze(img)
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		if d := math.Abs(float64(cv.Threshold) - float64(bin.Threshold)); d > 1 {
			t.Errorf("angle %v: threshold %v vs %v", angle, cv.Threshold, bin.Threshold)
		}

		contours := contour.FindContours(bin.Mask)
		if len(contours) != cv.Contours {
			t.Errorf("angle %v: %d contours vs %d", angle, len(contours), cv.Contours)
		}
		sel, ok := selector.SelectBest(contours)
		if !ok {
			t.Fatalf("angle %v: no rectangle", angle)
		}

		if d := angleDiff(sel.Rect.Angle, cv.Rect.Angle); d > 1 {
			t.Errorf("angle %v: angle %v vs %v", angle, sel.Rect.Angle, cv.Rect.Angle)
		}
		if rel := math.Abs(sel.Area-cv.Rect.Area()) / cv.Rect.Area(); rel > 0.02 {
			t.Errorf("angle %v: area %v vs %v", angle, sel.Area, cv.Rect.Area())
		}
		if math.Abs(sel.Rect.Center.X-cv.Rect.Center.X) > 1 || math.Abs(sel.Rect.Center.Y-cv.Rect.Center.Y) > 1 {
			t.Errorf("angle %v: center %v vs %v", angle, sel.Rect.Center, cv.Rect.Center)
		}
	}
}

func TestRotationMatrix(t *testing.T) {
	center := types.Point2f{X: 120, Y: 80}
	m := RotationMatrix(center, 17)
	defer m.Close()

	got := MatToTransform(m)
	want := deskew.RotationMatrix2D(center, 17, 1)
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			if math.Abs(got[r][c]-want[r][c]) > 1e-6 {
				t.Errorf("m[%d][%d] = %v, want %v", r, c, got[r][c], want[r][c])
			}
		}
	}
}

func TestCropWindow(t *testing.T) {
	cv, err := Extract(createRotatedRect(600, 200, 200, 15), 300, 300)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if cv.Window.Width != 300 || cv.Window.Height != 300 {
		t.Errorf("Expected 300x300 window, got %+v", cv.Window)
	}
	if b := cv.Crop.Bounds(); b.Dx() != 300 || b.Dy() != 300 {
		t.Errorf("Expected 300x300 crop, got %v", b)
	}
}

func TestNoRect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	if _, err := Extract(img, 10, 10); !errors.Is(err, types.ErrNoRectFound) {
		t.Errorf("Expected ErrNoRectFound, got %v", err)
	}
}
