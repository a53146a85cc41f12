// Package deskewer finds the dominant rectangular object in a photograph,
// rotates the photograph so the object is axis aligned and cuts a fixed-size
// window centered on it.
//
// Basic usage:
//
//	ex := deskewer.New()
//	img, err := ex.LoadImage("scan.jpg")
//	if err != nil {
//		log.Fatal(err)
//	}
//	res, err := ex.Extract(img)
//	if errors.Is(err, types.ErrNoRectFound) {
//		fmt.Println("no suitable rectangle found")
//		return
//	}
//	if err != nil {
//		log.Fatal(err)
//	}
//	ex.SaveImage(res.Crop, "scan_crop.jpg", "jpg", 90, false)
//
// The pipeline runs five stages in order, each consuming the previous one's
// output:
//
//  1. Binarizer (pkg/binarizer): grayscale, Otsu threshold, inverted mask
//  2. Contour extraction (pkg/contour): outer boundaries of foreground regions
//  3. Selection (pkg/selector): the contour with the largest minimum-area rectangle
//  4. Deskew (pkg/deskew): rotation about the rectangle center on the same canvas
//  5. Cropper (pkg/cropper): a clamped fixed-size window around the center
//
// Intermediate images can be handed to a presenter.Presenter for inspection.
package deskewer

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"github.com/menta2k/deskewer/internal/logging"
	"github.com/menta2k/deskewer/internal/utils"
	"github.com/menta2k/deskewer/pkg/analyzer"
	"github.com/menta2k/deskewer/pkg/binarizer"
	"github.com/menta2k/deskewer/pkg/contour"
	"github.com/menta2k/deskewer/pkg/cropper"
	"github.com/menta2k/deskewer/pkg/deskew"
	"github.com/menta2k/deskewer/pkg/presenter"
	"github.com/menta2k/deskewer/pkg/processing"
	"github.com/menta2k/deskewer/pkg/selector"
	"github.com/menta2k/deskewer/pkg/types"
)

// Version of the deskewer library
const Version = "1.0.0"

// Stage is a state of one pipeline run
type Stage int

const (
	StageLoaded Stage = iota
	StageBinarized
	StageContoursFound
	StageRectSelected
	StageAborted
	StageDeskewed
	StageCropped
	StageDone
)

var stageNames = [...]string{
	StageLoaded:        "loaded",
	StageBinarized:     "binarized",
	StageContoursFound: "contours_found",
	StageRectSelected:  "rect_selected",
	StageAborted:       "aborted",
	StageDeskewed:      "deskewed",
	StageCropped:       "cropped",
	StageDone:          "done",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result holds every product of a successful run
type Result struct {
	Stage     Stage                 `json:"stage"`
	Threshold uint8                 `json:"threshold"`
	Histogram [256]int              `json:"-"`
	Gray      *image.Gray           `json:"-"`
	Mask      *image.Gray           `json:"-"`
	Contours  []types.Contour       `json:"-"`
	Selection selector.Selection    `json:"selection"`
	Transform types.AffineTransform `json:"transform"`
	Deskewed  *image.RGBA           `json:"-"`
	Window    types.CropWindow      `json:"window"`
	Crop      image.Image           `json:"-"`
}

// Extractor runs the extraction pipeline
type Extractor struct {
	analyzer  *analyzer.ImageAnalyzer
	binarizer *binarizer.Binarizer
	contours  *contour.Extractor
	selector  *selector.Selector
	deskewer  *deskew.Deskewer
	cropper   *cropper.Cropper
	processor *processing.Processor
	presenter presenter.Presenter
	logger    *slog.Logger
	histogram bool
}

// New creates a new Extractor with default configuration
func New() *Extractor {
	return NewWithConfig(binarizer.New().Config(), deskew.Config{}, cropper.New().Config())
}

// NewWithConfig creates a new Extractor with custom configuration
func NewWithConfig(binarizerConfig binarizer.Config, deskewConfig deskew.Config, cropperConfig cropper.Config) *Extractor {
	return &Extractor{
		analyzer:  analyzer.New(),
		binarizer: binarizer.NewWithConfig(binarizerConfig),
		contours:  contour.New(),
		selector:  selector.New(),
		deskewer:  deskew.NewWithConfig(deskewConfig),
		cropper:   cropper.NewWithConfig(cropperConfig),
		processor: processing.NewProcessor(),
		presenter: presenter.Nop{},
		logger:    logging.Discard(),
	}
}

// SetPresenter sets where intermediate images go. nil disables them.
func (e *Extractor) SetPresenter(p presenter.Presenter) {
	if p == nil {
		p = presenter.Nop{}
	}
	e.presenter = p
}

// SetLogger sets the logger. nil discards log output.
func (e *Extractor) SetLogger(l *slog.Logger) {
	if l == nil {
		l = logging.Discard()
	}
	e.logger = l
}

// SetHistogram enables the histogram chart among the intermediate images
func (e *Extractor) SetHistogram(enabled bool) {
	e.histogram = enabled
}

// Close releases the presenter
func (e *Extractor) Close() error {
	return e.presenter.CloseAll()
}

// Extract runs the whole pipeline on img. When no rectangle qualifies the
// error wraps types.ErrNoRectFound and no result is returned.
func (e *Extractor) Extract(img image.Image) (*Result, error) {
	if err := e.analyzer.ValidateImage(img); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	res := &Result{}
	e.enter(res, StageLoaded)

	bin, err := e.binarizer.Analyze(img)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	res.Gray, res.Mask, res.Threshold, res.Histogram = bin.Gray, bin.Mask, bin.Threshold, bin.Histogram
	e.enter(res, StageBinarized, "threshold", bin.Threshold)
	e.show(presenter.GrayscaleImage, bin.Gray)
	e.show(presenter.BinaryImage, bin.Mask)
	if e.histogram {
		if chart, err := e.processor.RenderHistogram(bin.Histogram, bin.Threshold, 0, 0); err != nil {
			e.logger.Warn("histogram failed", "error", err)
		} else {
			e.show(presenter.Histogram, chart)
		}
	}

	res.Contours = e.contours.FindContours(bin.Mask)
	e.enter(res, StageContoursFound, "count", len(res.Contours))
	if e.logger.Enabled(context.Background(), slog.LevelDebug) {
		for _, c := range selector.Candidates(res.Contours) {
			pts := res.Contours[c.Index]
			e.logger.Debug("contour",
				"index", c.Index,
				"points", len(pts),
				"perimeter", contour.ArcLength(pts),
				"rect_area", c.Area,
				"angle", c.Rect.Angle,
			)
		}
	}

	sel, ok := e.selector.SelectBest(res.Contours)
	if !ok {
		e.enter(res, StageAborted, "contours", len(res.Contours))
		return nil, fmt.Errorf("extract: %d contours: %w", len(res.Contours), types.ErrNoRectFound)
	}
	res.Selection = sel
	e.enter(res, StageRectSelected,
		"index", sel.Index,
		"area", sel.Area,
		"center_x", sel.Rect.Center.X,
		"center_y", sel.Rect.Center.Y,
		"width", sel.Rect.Size.Width,
		"height", sel.Rect.Size.Height,
		"angle", sel.Rect.Angle,
	)
	if box := sel.Rect.BoundingRect(); !box.In(img.Bounds()) {
		e.logger.Warn("rectangle extends past the image, corners will be clipped", "box", box.String(), "image", img.Bounds().String())
	}
	e.show(presenter.BestContour, e.processor.CreateContourOverlay(img, sel.Contour, sel.Rect))

	res.Transform = e.deskewer.Transform(sel.Rect)
	e.logger.Debug("rotation matrix", "m", res.Transform)
	res.Deskewed, err = e.deskewer.Warp(img, res.Transform)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	e.enter(res, StageDeskewed, "width", res.Deskewed.Bounds().Dx(), "height", res.Deskewed.Bounds().Dy())

	crop, err := e.cropper.Crop(res.Deskewed, sel.Rect.Center)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	res.Crop, res.Window = crop.Image, crop.Window
	e.enter(res, StageCropped,
		"x", crop.Window.X,
		"y", crop.Window.Y,
		"width", crop.Window.Width,
		"height", crop.Window.Height,
	)
	e.show(presenter.RotatedImage, e.processor.CreateCropOverlay(res.Deskewed, crop.Window, sel.Rect.Center))
	e.show(presenter.CroppedImage, crop.Image)

	e.enter(res, StageDone)
	return res, nil
}

func (e *Extractor) enter(res *Result, s Stage, attrs ...any) {
	res.Stage = s
	e.logger.Debug(s.String(), attrs...)
}

func (e *Extractor) show(name string, img image.Image) {
	if err := e.presenter.Show(name, img); err != nil {
		e.logger.Warn("presenter failed", "window", name, "error", err)
	}
}

// LoadImage loads an image from file
func (e *Extractor) LoadImage(filepath string) (image.Image, error) {
	return e.analyzer.LoadImage(filepath)
}

// LoadImageFromReader loads an image from an io.Reader
func (e *Extractor) LoadImageFromReader(reader io.Reader) (image.Image, error) {
	return e.analyzer.LoadImageFromReader(reader)
}

// SaveImage saves an image to file
func (e *Extractor) SaveImage(img image.Image, filepath, format string, quality int, lossless bool) error {
	return e.processor.SaveImage(img, filepath, format, quality, lossless)
}

// GetImageInfo returns basic information about an image
func (e *Extractor) GetImageInfo(img image.Image) analyzer.ImageInfo {
	return e.analyzer.GetImageInfo(img)
}

// OutputOptions controls how ProcessImageFile names and encodes the crop
type OutputOptions struct {
	Format   string
	Quality  int
	Lossless bool
	Prefix   string
	Suffix   string
}

// DefaultOutputOptions writes <name>_crop.jpg at quality 90
func DefaultOutputOptions() OutputOptions {
	return OutputOptions{Format: "jpg", Quality: 90, Suffix: "_crop"}
}

// ProcessImageFile is a convenience function that loads, extracts and saves
// the crop of one image. It returns the written path.
func (e *Extractor) ProcessImageFile(inputPath, outputDir string, opts OutputOptions) (string, *Result, error) {
	img, err := e.LoadImage(inputPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load image: %w", err)
	}

	res, err := e.Extract(img)
	if err != nil {
		return "", nil, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	out := utils.NewOutputNames(inputPath, opts.Prefix, opts.Suffix).Crop(outputDir, opts.Format)
	if err := e.SaveImage(res.Crop, out, opts.Format, opts.Quality, opts.Lossless); err != nil {
		return "", nil, fmt.Errorf("failed to save crop: %w", err)
	}

	return out, res, nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
