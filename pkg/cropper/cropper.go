package cropper

import (
	"fmt"
	"image"
	"image/color"

	"github.com/menta2k/deskewer/pkg/types"
)

// Cropper extracts fixed-size windows centered on a point
type Cropper struct {
	config Config
}

// Config holds configuration for cropping
type Config struct {
	TargetWidth  int `json:"target_width"`
	TargetHeight int `json:"target_height"`
}

// Default target size
const (
	DefaultTargetWidth  = 300
	DefaultTargetHeight = 300
)

// New creates a new Cropper with default configuration
func New() *Cropper {
	return &Cropper{
		config: Config{
			TargetWidth:  DefaultTargetWidth,
			TargetHeight: DefaultTargetHeight,
		},
	}
}

// NewWithConfig creates a new Cropper with custom configuration
func NewWithConfig(config Config) *Cropper {
	return &Cropper{config: config}
}

// Config returns the cropper configuration
func (c *Cropper) Config() Config {
	return c.config
}

// CropResult contains the result of a cropping operation
type CropResult struct {
	Image  image.Image
	Window types.CropWindow
}

// Crop extracts the configured target size around center
func (c *Cropper) Crop(img image.Image, center types.Point2f) (CropResult, error) {
	return Crop(img, center, c.config.TargetWidth, c.config.TargetHeight)
}

// Window computes the crop window for an image of the given bounds. The
// corner is the truncated center minus half the target in integer
// arithmetic, then clamped so the window stays inside the image. Window sides
// never exceed the image. The result is relative to bounds.Min.
func Window(bounds image.Rectangle, center types.Point2f, targetWidth, targetHeight int) (types.CropWindow, error) {
	if targetWidth <= 0 || targetHeight <= 0 {
		return types.CropWindow{}, fmt.Errorf("crop: target %dx%d: %w", targetWidth, targetHeight, types.ErrInvalidGeometry)
	}

	w := min(targetWidth, bounds.Dx())
	h := min(targetHeight, bounds.Dy())
	if w < 1 || h < 1 {
		return types.CropWindow{}, fmt.Errorf("crop: image %dx%d: %w", bounds.Dx(), bounds.Dy(), types.ErrInvalidGeometry)
	}

	x := int(center.X) - targetWidth/2
	y := int(center.Y) - targetHeight/2

	return types.CropWindow{
		X:      clamp(x, 0, bounds.Dx()-w),
		Y:      clamp(y, 0, bounds.Dy()-h),
		Width:  w,
		Height: h,
	}, nil
}

// Crop extracts a targetWidth x targetHeight window centered on center. The
// returned image shares pixels with img where img supports SubImage.
func Crop(img image.Image, center types.Point2f, targetWidth, targetHeight int) (CropResult, error) {
	if img == nil {
		return CropResult{}, fmt.Errorf("crop: nil image: %w", types.ErrInvalidGeometry)
	}
	bounds := img.Bounds()
	win, err := Window(bounds, center, targetWidth, targetHeight)
	if err != nil {
		return CropResult{}, err
	}

	r := win.Rect().Add(bounds.Min)
	return CropResult{Image: subImage(img, r), Window: win}, nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func subImage(img image.Image, r image.Rectangle) image.Image {
	if s, ok := img.(subImager); ok {
		return s.SubImage(r)
	}
	return &croppedImage{original: img, bounds: r}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// croppedImage is a read-only window onto an image without SubImage
type croppedImage struct {
	original image.Image
	bounds   image.Rectangle
}

func (c *croppedImage) ColorModel() color.Model {
	return c.original.ColorModel()
}

func (c *croppedImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.bounds.Dx(), c.bounds.Dy())
}

func (c *croppedImage) At(x, y int) color.Color {
	pt := image.Point{x, y}
	if !pt.In(c.Bounds()) {
		return color.RGBA{}
	}
	return c.original.At(x+c.bounds.Min.X, y+c.bounds.Min.Y)
}
