// Package deskew rotates an image so that a tilted rectangle becomes axis
// aligned.
package deskew

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/menta2k/deskewer/pkg/types"
)

// Deskewer resamples images through a rotation about a rectangle's center
type Deskewer struct {
	config Config
}

// Config holds configuration for deskewing
type Config struct {
	// Background fills destination pixels whose source lies outside the image
	Background color.Color
}

// New creates a new Deskewer with a white background
func New() *Deskewer {
	return &Deskewer{
		config: Config{
			Background: color.White,
		},
	}
}

// NewWithConfig creates a new Deskewer with custom configuration
func NewWithConfig(config Config) *Deskewer {
	if config.Background == nil {
		config.Background = color.White
	}
	return &Deskewer{config: config}
}

// RotationMatrix2D returns the transform rotating by angle degrees about
// center and scaling by scale. A positive angle turns the picture
// counter-clockwise on screen.
func RotationMatrix2D(center types.Point2f, angle, scale float64) types.AffineTransform {
	rad := angle * math.Pi / 180
	alpha := scale * math.Cos(rad)
	beta := scale * math.Sin(rad)
	cx, cy := center.X, center.Y

	return types.AffineTransform{
		{alpha, beta, (1-alpha)*cx - beta*cy},
		{-beta, alpha, beta*cx + (1-alpha)*cy},
	}
}

// Transform returns the matrix that maps rect's width edge onto the +x axis
// while keeping its center in place
func (d *Deskewer) Transform(rect types.RotatedRect) types.AffineTransform {
	return RotationMatrix2D(rect.Center, rect.Angle, 1)
}

// Deskew rotates the whole of img so that rect becomes axis aligned. The
// output has the same size as img; content rotated past the canvas is lost.
func (d *Deskewer) Deskew(img image.Image, rect types.RotatedRect) (*image.RGBA, error) {
	return d.Warp(img, d.Transform(rect))
}

// Warp resamples img through m with bilinear interpolation onto a canvas of
// the same size, filled with the configured background
func (d *Deskewer) Warp(img image.Image, m types.AffineTransform) (*image.RGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("deskew: nil image: %w", types.ErrDecode)
	}
	bounds := img.Bounds()
	if bounds.Dx() < 1 || bounds.Dy() < 1 {
		return nil, fmt.Errorf("deskew: empty image %dx%d: %w", bounds.Dx(), bounds.Dy(), types.ErrDecode)
	}

	src := imaging.Clone(img)
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(d.config.Background), image.Point{}, draw.Src)
	draw.BiLinear.Transform(dst, pixelCenters(m), src, src.Bounds(), draw.Over, nil)

	return dst, nil
}

// pixelCenters converts m, which treats integer coordinates as pixel
// centers, to the convention of x/image/draw where centers sit at +0.5
func pixelCenters(m types.AffineTransform) f64.Aff3 {
	a, b, c := m[0][0], m[0][1], m[0][2]
	e, f, g := m[1][0], m[1][1], m[1][2]
	return f64.Aff3{
		a, b, c + 0.5 - 0.5*(a+b),
		e, f, g + 0.5 - 0.5*(e+f),
	}
}
