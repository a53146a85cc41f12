package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/menta2k/deskewer"
	"github.com/menta2k/deskewer/internal/config"
	"github.com/menta2k/deskewer/internal/logging"
	"github.com/menta2k/deskewer/internal/utils"
	"github.com/menta2k/deskewer/pkg/binarizer"
	"github.com/menta2k/deskewer/pkg/cropper"
	"github.com/menta2k/deskewer/pkg/deskew"
	"github.com/menta2k/deskewer/pkg/presenter"
	"github.com/menta2k/deskewer/pkg/types"
)

type options struct {
	in         string
	configPath string
	verbose    bool
	logJSON    bool
	printJSON  bool
}

func main() {
	var opts options
	var flags flagValues
	cfg := config.Default()

	flag.StringVar(&opts.in, "in", "", "input image or directory; further inputs may follow as arguments")
	flag.StringVar(&opts.configPath, "config", "", "JSON config file (default: "+config.GetConfigPath()+" if present)")
	flags.register(flag.CommandLine, cfg)
	flag.BoolVar(&opts.verbose, "v", false, "verbose logging")
	flag.BoolVar(&opts.logJSON, "log-json", false, "log as JSON")
	flag.BoolVar(&opts.printJSON, "json", false, "print one JSON result per processed file to stdout")
	flag.Parse()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewLogger(os.Stderr, level, opts.logJSON)

	inputs := flag.Args()
	if opts.in != "" {
		inputs = append([]string{opts.in}, inputs...)
	}
	if len(inputs) == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s -in input.jpg|dir [more inputs...] [-out outdir] [-width 300] [-height 300] [-ext jpg|png|webp] [-debug-dir dir] [-show]\n", filepath.Base(os.Args[0]))
		os.Exit(2)
	}

	if err := loadConfig(cfg, opts.configPath); err != nil {
		logger.Error("config", "error", err)
		os.Exit(1)
	}
	flags.apply(flag.CommandLine, cfg)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	files, dirs, err := utils.ExpandInputs(inputs)
	if err != nil {
		logger.Error("inputs", "error", err)
		os.Exit(1)
	}
	if dirs && cfg.Output.OutputDir == "" {
		logger.Error("an output directory (-out or output.output_dir) is required when an input is a directory")
		os.Exit(2)
	}
	if cfg.Debug.Show && len(files) > 1 {
		logger.Error("-show works with a single input", "inputs", len(files))
		os.Exit(2)
	}

	if code := run(cfg, opts, files, logger); code != 0 {
		os.Exit(code)
	}
}

// loadConfig reads path, or the default config file when path is empty and
// the file exists
func loadConfig(cfg *config.Config, path string) error {
	if path == "" {
		path = config.GetConfigPath()
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
	}
	loaded, err := config.LoadFromFile(path)
	if err != nil {
		return err
	}
	*cfg = *loaded
	return nil
}

// fileResult is what -json prints per input
type fileResult struct {
	Input  string           `json:"input"`
	Output string           `json:"output,omitempty"`
	Error  string           `json:"error,omitempty"`
	Result *deskewer.Result `json:"result,omitempty"`
}

func run(cfg *config.Config, opts options, files []string, logger *slog.Logger) int {
	ex := deskewer.NewWithConfig(
		binarizer.Config{Invert: cfg.Extract.Invert},
		deskew.Config{Background: cfg.BackgroundColor()},
		cropper.Config{TargetWidth: cfg.Extract.TargetWidth, TargetHeight: cfg.Extract.TargetHeight},
	)
	ex.SetLogger(logger)
	ex.SetHistogram(cfg.Debug.Histogram)

	// presenters shared by every input
	var shared presenter.Multi
	if cfg.Debug.PDF != "" {
		shared = append(shared, presenter.NewPDF(cfg.Debug.PDF, cfg.Debug.PreviewSize))
	}
	if cfg.Debug.Show {
		p, err := newScreenPresenter(cfg.Debug.PreviewSize)
		if err != nil {
			logger.Error("show", "error", err)
			return 1
		}
		shared = append(shared, p)
	}

	out := cfg.Output
	outputOpts := deskewer.OutputOptions{
		Format:   out.Format,
		Quality:  out.Quality,
		Lossless: out.Lossless,
		Prefix:   out.Prefix,
		Suffix:   out.Suffix,
	}
	enc := json.NewEncoder(os.Stdout)

	failed := 0
	for i, in := range files {
		log := logger.With("file", in)
		log.Info(fmt.Sprintf("[%d/%d] processing", i+1, len(files)))

		stages := append(presenter.Multi{}, shared...)
		if cfg.Debug.Dir != "" {
			names := utils.NewOutputNames(in, out.Prefix, out.Suffix)
			d, err := presenter.NewDir(cfg.Debug.Dir, names.DebugPrefix(), "png")
			if err != nil {
				log.Warn("debug directory", "error", err)
			} else {
				stages = append(stages, d)
			}
		}
		ex.SetPresenter(stages)

		path, res, err := ex.ProcessImageFile(in, cfg.OutputDirFor(in), outputOpts)

		fr := fileResult{Input: in, Output: path, Result: res}
		switch {
		case errors.Is(err, types.ErrNoRectFound):
			log.Info("no suitable rectangle found")
			fr.Error = err.Error()
		case err != nil:
			log.Error("failed", "error", err)
			fr.Error = err.Error()
			failed++
		default:
			size := ""
			if st, err := os.Stat(path); err == nil {
				size = humanize.IBytes(uint64(st.Size()))
			}
			log.Info("wrote crop",
				"output", path,
				"size", size,
				"angle", fmt.Sprintf("%.2f", res.Selection.Rect.Angle),
				"window", res.Window.Rect().String(),
			)
		}
		if opts.printJSON {
			if err := enc.Encode(fr); err != nil {
				log.Warn("json output", "error", err)
			}
		}
	}

	if err := shared.CloseAll(); err != nil {
		logger.Warn("closing presenters", "error", err)
	}

	logger.Info("done", "files", len(files), "failed", failed)
	if failed > 0 {
		return 1
	}
	return 0
}
