//go:build tk

// Package tkview shows pipeline images in Tk windows, one per name.
package tkview

import (
	"fmt"
	"image"

	"github.com/menta2k/deskewer/pkg/presenter"
	"github.com/menta2k/deskewer/pkg/processing"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Default preview bounds
const (
	maxPreviewW = 900
	maxPreviewH = 700
)

type window struct {
	top   *ToplevelWidget
	label *LabelWidget
	photo *Img
}

// Presenter opens a Toplevel per image name. CloseAll blocks until a key is
// pressed in any of the windows, then tears them all down.
type Presenter struct {
	maxW, maxH int
	processor  *processing.Processor
	windows    map[string]*window
}

var _ presenter.Presenter = (*Presenter)(nil)

// New creates a Tk presenter. Non-positive bounds use the defaults.
func New(maxW, maxH int) *Presenter {
	if maxW <= 0 || maxH <= 0 {
		maxW, maxH = maxPreviewW, maxPreviewH
	}
	App.WmTitle("deskew")
	return &Presenter{
		maxW:      maxW,
		maxH:      maxH,
		processor: processing.NewProcessor(),
		windows:   make(map[string]*window),
	}
}

// Show opens a window for name, or replaces the image of an open one
func (p *Presenter) Show(name string, img image.Image) error {
	data, err := p.processor.EncodePNG(presenter.Fit(img, p.maxW, p.maxH))
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", name, err)
	}

	photo := NewPhoto(Data(data))
	if w, ok := p.windows[name]; ok {
		// replace the old photo so its pixels are released
		w.photo.Delete()
		w.photo = photo
		w.label.Configure(Image(photo))
		return nil
	}

	top := App.Toplevel()
	top.WmTitle(name)
	label := top.Label(Image(photo), Borderwidth(1), Relief("sunken"))
	Pack(label, Padx("1m"), Pady("1m"))
	Bind(top, "<KeyPress>", Command(func() { Destroy(App) }))

	p.windows[name] = &window{top: top, label: label, photo: photo}
	return nil
}

// CloseAll blocks until a key is pressed in any window, then destroys them
func (p *Presenter) CloseAll() error {
	if len(p.windows) == 0 {
		return nil
	}
	WmProtocol(App, "WM_DELETE_WINDOW", func() { Destroy(App) })
	App.Wait()

	// the interpreter is gone, so only the Go side is reset
	p.windows = make(map[string]*window)
	return nil
}
