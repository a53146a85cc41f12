//go:build gocv

// Package cvref runs the extraction pipeline through OpenCV. It is a
// reference for cross-checking the pure Go stages and needs a system OpenCV,
// so it is only built with the gocv tag.
package cvref

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/menta2k/deskewer/pkg/cropper"
	"github.com/menta2k/deskewer/pkg/types"
)

// Result holds the OpenCV counterparts of the pipeline outputs
type Result struct {
	Threshold float32
	Contours  int
	Rect      types.RotatedRect
	Deskewed  image.Image
	Window    types.CropWindow
	Crop      image.Image
}

// Extract binarizes with an inverted Otsu threshold, picks the external
// contour with the largest minimum-area rectangle, rotates about its center
// and cuts a targetWidth x targetHeight window
func Extract(img image.Image, targetWidth, targetHeight int) (*Result, error) {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("cvref: %w: %w", err, types.ErrDecode)
	}
	defer src.Close()
	if src.Empty() {
		return nil, fmt.Errorf("cvref: empty image: %w", types.ErrDecode)
	}

	gray := gocv.NewMat()
	defer gray.Close()
	// ImageToMatRGB stores channels in OpenCV's BGR order
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	binary := gocv.NewMat()
	defer binary.Close()
	t := gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinaryInv|gocv.ThresholdOtsu)

	res := &Result{Threshold: t}
	rect, n, ok := largestRect(binary)
	res.Contours = n
	if !ok {
		return nil, fmt.Errorf("cvref: %d contours: %w", n, types.ErrNoRectFound)
	}
	res.Rect = rect

	m := RotationMatrix(rect.Center, rect.Angle)
	defer m.Close()

	rotated := gocv.NewMat()
	defer rotated.Close()
	size := image.Pt(src.Cols(), src.Rows())
	gocv.WarpAffineWithParams(src, &rotated, m, size, gocv.InterpolationLinear, gocv.BorderConstant, color.RGBA{255, 255, 255, 255})

	if res.Deskewed, err = rotated.ToImage(); err != nil {
		return nil, fmt.Errorf("cvref: %w", err)
	}

	win, err := cropper.Window(image.Rect(0, 0, size.X, size.Y), rect.Center, targetWidth, targetHeight)
	if err != nil {
		return nil, fmt.Errorf("cvref: %w", err)
	}
	res.Window = win

	region := rotated.Region(win.Rect())
	defer region.Close()
	if res.Crop, err = region.ToImage(); err != nil {
		return nil, fmt.Errorf("cvref: %w", err)
	}

	return res, nil
}

// RotationMatrix returns OpenCV's rotation matrix about center. OpenCV takes
// an integer center, so the fractional part is dropped.
func RotationMatrix(center types.Point2f, angle float64) gocv.Mat {
	c := image.Pt(int(center.X), int(center.Y))
	return gocv.GetRotationMatrix2D(c, angle, 1)
}

// MatToTransform copies a 2x3 CV_64F matrix
func MatToTransform(m gocv.Mat) types.AffineTransform {
	var t types.AffineTransform
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			t[r][c] = m.GetDoubleAt(r, c)
		}
	}
	return t
}

func largestRect(binary gocv.Mat) (types.RotatedRect, int, bool) {
	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var best types.RotatedRect
	var bestArea float64
	found := false
	for i := 0; i < contours.Size(); i++ {
		pv := contours.At(i)
		if pv.Size() < 3 {
			continue
		}
		r := fromCV(gocv.MinAreaRect2(pv))
		if area := r.Area(); area > 0 && (!found || area > bestArea) {
			best, bestArea, found = r, area, true
		}
	}
	return best, contours.Size(), found
}

// fromCV brings OpenCV's (0, 90] angle into [-45, 45), swapping the sides on
// every quarter turn
func fromCV(r gocv.RotatedRect2f) types.RotatedRect {
	w, h := float64(r.Width), float64(r.Height)
	a := r.Angle
	for a >= 45 {
		a -= 90
		w, h = h, w
	}
	for a < -45 {
		a += 90
		w, h = h, w
	}
	return types.RotatedRect{
		Center: types.Point2f{X: float64(r.Center.X), Y: float64(r.Center.Y)},
		Size:   types.Size2f{Width: w, Height: h},
		Angle:  a,
	}
}
