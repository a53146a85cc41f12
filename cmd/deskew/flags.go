package main

import (
	"flag"
	"strings"

	"github.com/menta2k/deskewer/internal/config"
)

// flagValues holds the flags that override the config file
type flagValues struct {
	out        string
	targetW    int
	targetH    int
	invert     bool
	background string
	ext        string
	quality    int
	lossless   bool
	suffix     string
	debugDir   string
	debugPDF   string
	show       bool
	histogram  bool
}

func (v *flagValues) register(fs *flag.FlagSet, def *config.Config) {
	fs.StringVar(&v.out, "out", "", "output directory, overrides output.output_dir (required for directory inputs unless configured; default: next to the input)")

	fs.IntVar(&v.targetW, "width", def.Extract.TargetWidth, "crop width in pixels")
	fs.IntVar(&v.targetH, "height", def.Extract.TargetHeight, "crop height in pixels")
	fs.BoolVar(&v.invert, "invert", def.Extract.Invert, "treat dark pixels as the object (dark object on light background)")
	fs.StringVar(&v.background, "bg", def.Extract.Background, "fill color for areas exposed by rotation (#rrggbb)")

	fs.StringVar(&v.ext, "ext", def.Output.Format, "output format for crops: jpg|png|webp")
	fs.IntVar(&v.quality, "quality", def.Output.Quality, "JPEG/WebP output quality for crops (1-100)")
	fs.BoolVar(&v.lossless, "lossless", def.Output.Lossless, "WebP output lossless mode for crops")
	fs.StringVar(&v.suffix, "suffix", def.Output.Suffix, "suffix appended to crop file names")

	fs.StringVar(&v.debugDir, "debug-dir", "", "write every intermediate image to this directory")
	fs.StringVar(&v.debugPDF, "debug-pdf", "", "collect every intermediate image into this PDF")
	fs.BoolVar(&v.show, "show", false, "show intermediate images in windows and wait for a key (single input only)")
	fs.BoolVar(&v.histogram, "histogram", false, "include the Otsu histogram among the intermediate images")
}

// apply copies the flags set on the command line onto cfg. Flags left at
// their default keep the config file's value.
func (v *flagValues) apply(fs *flag.FlagSet, cfg *config.Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.Output.OutputDir = v.out
		case "width":
			cfg.Extract.TargetWidth = v.targetW
		case "height":
			cfg.Extract.TargetHeight = v.targetH
		case "invert":
			cfg.Extract.Invert = v.invert
		case "bg":
			cfg.Extract.Background = v.background
		case "ext":
			cfg.Output.Format = strings.ToLower(v.ext)
		case "quality":
			cfg.Output.Quality = v.quality
		case "lossless":
			cfg.Output.Lossless = v.lossless
		case "suffix":
			cfg.Output.Suffix = v.suffix
		case "debug-dir":
			cfg.Debug.Dir = v.debugDir
		case "debug-pdf":
			cfg.Debug.PDF = v.debugPDF
		case "show":
			cfg.Debug.Show = v.show
		case "histogram":
			cfg.Debug.Histogram = v.histogram
		}
	})
}
