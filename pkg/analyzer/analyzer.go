// Package analyzer decodes images from files and readers and checks that
// they can enter the extraction pipeline.
package analyzer

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/deskewer/pkg/types"
)

// ImageAnalyzer loads and validates input images
type ImageAnalyzer struct {
	config Config
}

// Config holds configuration for the image analyzer
type Config struct {
	SupportedFormats []string `json:"supported_formats"`
	MinImageSize     int      `json:"min_image_size"`
	// AutoOrient applies the EXIF orientation tag of JPEG and TIFF input
	AutoOrient bool `json:"auto_orient"`
}

// DefaultFormats lists the decoders registered by this package
var DefaultFormats = []string{"jpeg", "png", "gif", "bmp", "tiff", "webp"}

// New creates a new ImageAnalyzer with default configuration
func New() *ImageAnalyzer {
	return &ImageAnalyzer{
		config: Config{
			SupportedFormats: DefaultFormats,
			MinImageSize:     1,
			AutoOrient:       true,
		},
	}
}

// NewWithConfig creates a new ImageAnalyzer with custom configuration
func NewWithConfig(config Config) *ImageAnalyzer {
	return &ImageAnalyzer{config: config}
}

// LoadImage loads an image from file
func (a *ImageAnalyzer) LoadImage(filepath string) (image.Image, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w: %w", err, types.ErrDecode)
	}

	img, err := a.decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath, err)
	}
	return img, nil
}

// LoadImageFromReader loads an image from an io.Reader
func (a *ImageAnalyzer) LoadImageFromReader(reader io.Reader) (image.Image, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w: %w", err, types.ErrDecode)
	}
	return a.decode(data)
}

func (a *ImageAnalyzer) decode(data []byte) (image.Image, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		// chai2010/webp handles extended WebP variants the x/image decoder rejects
		if img, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
			if err := a.ValidateImage(img); err != nil {
				return nil, err
			}
			return img, nil
		}
		return nil, fmt.Errorf("failed to decode image: %v: %w", err, types.ErrDecode)
	}

	if !a.isFormatSupported(format) {
		return nil, fmt.Errorf("unsupported image format %s: %w", format, types.ErrDecode)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(a.config.AutoOrient))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image: %v: %w", format, err, types.ErrDecode)
	}

	if err := a.ValidateImage(img); err != nil {
		return nil, err
	}
	return img, nil
}

// GetImageInfo returns basic information about an image
func (a *ImageAnalyzer) GetImageInfo(img image.Image) ImageInfo {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	info := ImageInfo{
		Width:  width,
		Height: height,
		Area:   width * height,
	}
	if height > 0 {
		info.AspectRatio = float64(width) / float64(height)
	}
	return info
}

// ImageInfo contains basic image metadata
type ImageInfo struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	Area        int     `json:"area"`
}

func (a *ImageAnalyzer) isFormatSupported(format string) bool {
	for _, supported := range a.config.SupportedFormats {
		if strings.EqualFold(format, supported) {
			return true
		}
	}
	return false
}

// ValidateImage checks that an image is non-empty and meets the minimum size
func (a *ImageAnalyzer) ValidateImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("nil image: %w", types.ErrDecode)
	}
	bounds := img.Bounds()
	minSize := max(a.config.MinImageSize, 1)
	if bounds.Dx() < minSize || bounds.Dy() < minSize {
		return fmt.Errorf("image too small: %dx%d (minimum: %d): %w",
			bounds.Dx(), bounds.Dy(), minSize, types.ErrDecode)
	}
	return nil
}
