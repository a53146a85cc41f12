package binarizer

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/menta2k/deskewer/pkg/types"
)

// Foreground and Background are the only values a mask contains
const (
	Foreground uint8 = 255
	Background uint8 = 0
)

// Binarizer turns a color image into a two-level mask using a global,
// automatically chosen threshold
type Binarizer struct {
	config Config
}

// Config holds configuration for binarization
type Config struct {
	// Invert marks pixels at or below the threshold as foreground, which
	// assumes a dark object on a light background. When false, pixels above
	// the threshold are foreground.
	Invert bool `json:"invert"`
}

// Result contains every intermediate of one binarization
type Result struct {
	Gray      *image.Gray
	Mask      *image.Gray
	Threshold uint8
	Histogram [256]int
}

// New creates a new Binarizer with default configuration
func New() *Binarizer {
	return &Binarizer{
		config: Config{
			Invert: true,
		},
	}
}

// NewWithConfig creates a new Binarizer with custom configuration
func NewWithConfig(config Config) *Binarizer {
	return &Binarizer{config: config}
}

// Config returns the binarizer configuration
func (b *Binarizer) Config() Config {
	return b.config
}

// Binarize returns the mask for img
func (b *Binarizer) Binarize(img image.Image) (*image.Gray, error) {
	res, err := b.Analyze(img)
	if err != nil {
		return nil, err
	}
	return res.Mask, nil
}

// Analyze converts img to grayscale, picks an Otsu threshold and applies it
func (b *Binarizer) Analyze(img image.Image) (Result, error) {
	if img == nil {
		return Result{}, fmt.Errorf("binarize: nil image: %w", types.ErrDecode)
	}
	bounds := img.Bounds()
	if bounds.Dx() < 1 || bounds.Dy() < 1 {
		return Result{}, fmt.Errorf("binarize: empty image %dx%d: %w", bounds.Dx(), bounds.Dy(), types.ErrDecode)
	}

	gray := Grayscale(img)
	hist := Histogram(gray)
	t := OtsuThreshold(hist)

	return Result{
		Gray:      gray,
		Mask:      Threshold(gray, t, b.config.Invert),
		Threshold: t,
		Histogram: hist,
	}, nil
}

// Grayscale converts img to a single channel using
// Y = 0.299 R + 0.587 G + 0.114 B, rounded. The result starts at (0, 0).
func Grayscale(img image.Image) *image.Gray {
	luma := imaging.Grayscale(img)
	w, h := luma.Bounds().Dx(), luma.Bounds().Dy()

	gray := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := luma.Pix[y*luma.Stride : y*luma.Stride+w*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x := range dst {
			dst[x] = src[x*4]
		}
	}
	return gray
}

// Threshold applies a fixed threshold t to gray. With invert set, values
// <= t become Foreground; otherwise values > t do.
func Threshold(gray *image.Gray, t uint8, invert bool) *image.Gray {
	b := gray.Bounds()
	mask := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	var lut [256]uint8
	for v := 0; v < 256; v++ {
		above := uint8(v) > t
		if above != invert {
			lut[v] = Foreground
		} else {
			lut[v] = Background
		}
	}

	for y := 0; y < b.Dy(); y++ {
		src := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		dst := mask.Pix[y*mask.Stride : y*mask.Stride+b.Dx()]
		for x, v := range src {
			dst[x] = lut[v]
		}
	}
	return mask
}
