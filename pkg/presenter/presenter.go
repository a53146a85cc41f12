// Package presenter displays or persists intermediate pipeline images.
//
// The extraction pipeline never depends on a presenter being present; every
// implementation here is optional and failures are reported, not fatal.
package presenter

import (
	"errors"
	"image"
	"sync"

	"github.com/nfnt/resize"
)

// Window names used by the extraction pipeline
const (
	GrayscaleImage = "Grayscale Image"
	BinaryImage    = "Binary Image"
	Histogram      = "Histogram"
	BestContour    = "Best Contour"
	RotatedImage   = "Rotated Image"
	CroppedImage   = "Cropped Image"
)

// Presenter receives named images for inspection
type Presenter interface {
	// Show displays or stores img under name
	Show(name string, img image.Image) error
	// CloseAll releases every window or file the presenter opened
	CloseAll() error
}

// Nop discards everything
type Nop struct{}

// Show discards img
func (Nop) Show(string, image.Image) error { return nil }

// CloseAll does nothing
func (Nop) CloseAll() error { return nil }

// Multi fans out to several presenters. Every presenter is called even when
// an earlier one fails; the errors are joined.
type Multi []Presenter

// Show passes img to every presenter in order
func (m Multi) Show(name string, img image.Image) error {
	var errs []error
	for _, p := range m {
		if err := p.Show(name, img); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CloseAll closes every presenter
func (m Multi) CloseAll() error {
	var errs []error
	for _, p := range m {
		if err := p.CloseAll(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Shown is one image handed to a Recorder
type Shown struct {
	Name  string
	Image image.Image
}

// Recorder keeps every shown image in memory
type Recorder struct {
	mu     sync.Mutex
	shown  []Shown
	closed bool
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Show appends img to the recorded images
func (r *Recorder) Show(name string, img image.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, Shown{Name: name, Image: img})
	return nil
}

// CloseAll marks the recorder closed; recorded images are kept
func (r *Recorder) CloseAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Names returns the shown names in order
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.shown))
	for i, s := range r.shown {
		names[i] = s.Name
	}
	return names
}

// Get returns the last image shown under name
func (r *Recorder) Get(name string) (image.Image, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.shown) - 1; i >= 0; i-- {
		if r.shown[i].Name == name {
			return r.shown[i].Image, true
		}
	}
	return nil, false
}

// Closed reports whether CloseAll was called
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Fit scales img down to fit within maxWidth x maxHeight, keeping its aspect
// ratio. Images that already fit are returned unchanged.
func Fit(img image.Image, maxWidth, maxHeight int) image.Image {
	if maxWidth <= 0 || maxHeight <= 0 {
		return img
	}
	return resize.Thumbnail(uint(maxWidth), uint(maxHeight), img, resize.Bilinear)
}
