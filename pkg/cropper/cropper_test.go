package cropper

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/menta2k/deskewer/pkg/types"
)

// createTestImage creates a simple test image
func createTestImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}

	return img
}

// plainImage hides SubImage so the fallback view is used
type plainImage struct {
	image.Image
}

func TestNew(t *testing.T) {
	cropper := New()
	if cropper == nil {
		t.Fatal("New() returned nil")
	}

	if cropper.config.TargetWidth != 300 || cropper.config.TargetHeight != 300 {
		t.Errorf("Expected 300x300 default target, got %dx%d", cropper.config.TargetWidth, cropper.config.TargetHeight)
	}
}

func TestNewWithConfig(t *testing.T) {
	cropper := NewWithConfig(Config{TargetWidth: 120, TargetHeight: 80})
	if cropper.Config().TargetWidth != 120 || cropper.Config().TargetHeight != 80 {
		t.Errorf("Unexpected config %+v", cropper.Config())
	}
}

func TestCropCentered(t *testing.T) {
	img := createTestImage(600, 600)

	result, err := New().Crop(img, types.Point2f{X: 300, Y: 300})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	want := types.CropWindow{X: 150, Y: 150, Width: 300, Height: 300}
	if result.Window != want {
		t.Errorf("Expected window %+v, got %+v", want, result.Window)
	}
	if result.Image.Bounds().Dx() != 300 || result.Image.Bounds().Dy() != 300 {
		t.Errorf("Expected 300x300 crop, got %v", result.Image.Bounds())
	}
}

func TestCropClampsNearEdge(t *testing.T) {
	img := createTestImage(600, 600)

	result, err := New().Crop(img, types.Point2f{X: 10, Y: 10})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	want := types.CropWindow{X: 0, Y: 0, Width: 300, Height: 300}
	if result.Window != want {
		t.Errorf("Expected window %+v, got %+v", want, result.Window)
	}

	result, err = New().Crop(img, types.Point2f{X: 590, Y: 595})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	want = types.CropWindow{X: 300, Y: 300, Width: 300, Height: 300}
	if result.Window != want {
		t.Errorf("Expected window %+v, got %+v", want, result.Window)
	}
}

func TestCropTruncatesCorner(t *testing.T) {
	win, err := Window(image.Rect(0, 0, 100, 100), types.Point2f{X: 50.9, Y: 40.2}, 21, 10)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if win.X != 40 || win.Y != 35 {
		t.Errorf("Expected corner (40,35), got (%d,%d)", win.X, win.Y)
	}

	// odd target: 300 - 301/2 = 150, not trunc(300.2 - 150.5) = 149
	win, err = Window(image.Rect(0, 0, 1000, 1000), types.Point2f{X: 300.2, Y: 300.2}, 301, 301)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if win.X != 150 || win.Y != 150 {
		t.Errorf("Expected corner (150,150), got (%d,%d)", win.X, win.Y)
	}
}

func TestCropTargetLargerThanImage(t *testing.T) {
	img := createTestImage(200, 120)

	result, err := New().Crop(img, types.Point2f{X: 100, Y: 60})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	want := types.CropWindow{X: 0, Y: 0, Width: 200, Height: 120}
	if result.Window != want {
		t.Errorf("Expected window %+v, got %+v", want, result.Window)
	}
}

func TestWindowAlwaysInside(t *testing.T) {
	bounds := image.Rect(0, 0, 97, 53)
	centers := []float64{-500, -1, 0, 0.5, 13.7, 48, 96, 200, 1e6}
	targets := []int{1, 10, 53, 97, 300}

	for _, cx := range centers {
		for _, cy := range centers {
			for _, tw := range targets {
				for _, th := range targets {
					win, err := Window(bounds, types.Point2f{X: cx, Y: cy}, tw, th)
					if err != nil {
						t.Fatalf("Window(%v,%v,%d,%d) failed: %v", cx, cy, tw, th, err)
					}
					if win.Empty() || !win.Rect().In(bounds) {
						t.Fatalf("Window(%v,%v,%d,%d) = %+v escapes %v", cx, cy, tw, th, win, bounds)
					}
				}
			}
		}
	}
}

func TestCropSharesPixels(t *testing.T) {
	img := createTestImage(100, 100)

	result, err := Crop(img, types.Point2f{X: 50, Y: 50}, 20, 20)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	sub, ok := result.Image.(*image.RGBA)
	if !ok {
		t.Fatalf("Expected *image.RGBA view, got %T", result.Image)
	}
	if sub.Bounds().Min != (image.Point{40, 40}) {
		t.Errorf("Expected view origin (40,40), got %v", sub.Bounds().Min)
	}

	img.SetRGBA(40, 40, color.RGBA{1, 2, 3, 255})
	if got := sub.RGBAAt(40, 40); got != (color.RGBA{1, 2, 3, 255}) {
		t.Errorf("Expected view to share pixels with the source, got %v", got)
	}
}

func TestCropNonZeroOrigin(t *testing.T) {
	img := createTestImage(200, 200).SubImage(image.Rect(50, 50, 150, 150))

	result, err := Crop(img, types.Point2f{X: 0, Y: 0}, 40, 40)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if got := result.Image.Bounds(); got != image.Rect(50, 50, 90, 90) {
		t.Errorf("Expected window inside the source bounds, got %v", got)
	}
}

func TestCroppedImage(t *testing.T) {
	originalImg := createTestImage(200, 200)

	result, err := Crop(plainImage{originalImg}, types.Point2f{X: 100, Y: 100}, 100, 100)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	croppedImg, ok := result.Image.(*croppedImage)
	if !ok {
		t.Fatalf("Expected *croppedImage, got %T", result.Image)
	}

	bounds := croppedImg.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("Expected bounds 100x100, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	if croppedImg.ColorModel() != originalImg.ColorModel() {
		t.Error("Cropped image should have same color model as original")
	}

	if croppedImg.At(0, 0) != originalImg.At(50, 50) {
		t.Error("Cropped image pixel should match original image pixel")
	}
	if croppedImg.At(-1, 0) != (color.RGBA{}) {
		t.Error("Expected transparent pixel outside the view")
	}
}

func TestCropInvalidGeometry(t *testing.T) {
	cases := []struct {
		name   string
		img    image.Image
		tw, th int
	}{
		{"nil image", nil, 10, 10},
		{"empty image", image.NewRGBA(image.Rect(0, 0, 0, 0)), 10, 10},
		{"zero width", createTestImage(10, 10), 0, 10},
		{"negative height", createTestImage(10, 10), 10, -5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Crop(c.img, types.Point2f{X: 5, Y: 5}, c.tw, c.th)
			if !errors.Is(err, types.ErrInvalidGeometry) {
				t.Errorf("Expected ErrInvalidGeometry, got %v", err)
			}
		})
	}
}

func BenchmarkCrop(b *testing.B) {
	cropper := New()
	img := createTestImage(1920, 1080)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cropper.Crop(img, types.Point2f{X: 960, Y: 540})
	}
}
