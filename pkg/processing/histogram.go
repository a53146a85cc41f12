package processing

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Histogram chart defaults
const (
	HistogramWidth  = 768
	HistogramHeight = 384
)

// RenderHistogram plots an intensity histogram with a vertical marker at the
// chosen threshold. Width and height fall back to the defaults when not
// positive.
func (p *Processor) RenderHistogram(hist [256]int, threshold uint8, width, height int) (image.Image, error) {
	if width <= 0 {
		width = HistogramWidth
	}
	if height <= 0 {
		height = HistogramHeight
	}

	xvalues := make([]float64, len(hist))
	yvalues := make([]float64, len(hist))
	peak := 1.0
	for i, n := range hist {
		xvalues[i] = float64(i)
		yvalues[i] = float64(n)
		peak = max(peak, float64(n))
	}

	counts := chart.ContinuousSeries{
		Name:    "pixels",
		XValues: xvalues,
		YValues: yvalues,
		Style: chart.Style{
			StrokeColor: chart.ColorBlue,
			FillColor:   chart.ColorBlue.WithAlpha(64),
		},
	}
	marker := chart.ContinuousSeries{
		Name:    "threshold",
		XValues: []float64{float64(threshold), float64(threshold)},
		YValues: []float64{0, peak},
		Style: chart.Style{
			StrokeColor:     drawing.ColorRed,
			StrokeWidth:     2,
			StrokeDashArray: []float64{5.0, 5.0},
		},
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Otsu threshold %d", threshold),
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			Name: "Intensity",
			Range: &chart.ContinuousRange{
				Min: 0.0,
				Max: 255.0,
			},
		},
		YAxis: chart.YAxis{
			Name: "Pixels",
			Range: &chart.ContinuousRange{
				Min: 0.0,
				Max: peak,
			},
		},
		Series: []chart.Series{counts, marker},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render histogram: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode histogram: %w", err)
	}
	return img, nil
}
