package presenter

import (
	"bytes"
	"fmt"
	"image"

	"github.com/jung-kurt/gofpdf"

	"github.com/menta2k/deskewer/pkg/processing"
)

// pxPerPt scales image pixels to PDF points
const pxPerPt = 2.0

// titleHeight is the band above each image holding its name, in points
const titleHeight = 20.0

// PDF collects every shown image as one page of a PDF written on CloseAll
type PDF struct {
	path      string
	maxDim    int
	fpdf      *gofpdf.Fpdf
	processor *processing.Processor
	pages     int
}

// NewPDF creates a PDF presenter writing to path. Images larger than maxDim
// on either side are scaled down first; maxDim <= 0 keeps full size.
func NewPDF(path string, maxDim int) *PDF {
	f := gofpdf.New("P", "pt", "A4", "")
	f.SetAutoPageBreak(false, 0)
	f.SetFont("Helvetica", "", 12)
	return &PDF{path: path, maxDim: maxDim, fpdf: f, processor: processing.NewProcessor()}
}

// Show adds img as a new page titled name
func (p *PDF) Show(name string, img image.Image) error {
	img = Fit(img, p.maxDim, p.maxDim)
	data, err := p.processor.EncodePNG(img)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", name, err)
	}

	p.pages++
	b := img.Bounds()
	wd, ht := float64(b.Dx())/pxPerPt, float64(b.Dy())/pxPerPt
	pageWd := max(wd, 200)

	p.fpdf.AddPageFormat("P", gofpdf.SizeType{Wd: pageWd, Ht: ht + titleHeight})
	p.fpdf.SetXY(0, 0)
	p.fpdf.CellFormat(pageWd, titleHeight, name, "", 0, "C", false, 0, "")

	imgName := fmt.Sprintf("page%d", p.pages)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.fpdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(data))
	p.fpdf.ImageOptions(imgName, (pageWd-wd)/2, titleHeight, wd, ht, false, opts, 0, "")

	return p.fpdf.Error()
}

// Pages returns the number of pages added so far
func (p *PDF) Pages() int {
	return p.pages
}

// CloseAll writes the PDF. Nothing is written when no image was shown.
func (p *PDF) CloseAll() error {
	if p.pages == 0 {
		return nil
	}
	if err := p.fpdf.OutputFileAndClose(p.path); err != nil {
		return fmt.Errorf("failed to write debug pdf: %w", err)
	}
	return nil
}
