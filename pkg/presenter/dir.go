package presenter

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/menta2k/deskewer/pkg/processing"
)

// Dir writes every shown image to a directory as NN_<name>.<format>
type Dir struct {
	dir       string
	prefix    string
	format    string
	processor *processing.Processor
	n         int
}

// NewDir creates the directory if needed. Files are named
// <prefix>NN_<name>.<format>; format defaults to png.
func NewDir(dir, prefix, format string) (*Dir, error) {
	if format == "" {
		format = "png"
	}
	if !processing.IsFormatSupported(format) {
		return nil, fmt.Errorf("unsupported debug format: %s", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create debug directory: %w", err)
	}
	return &Dir{dir: dir, prefix: prefix, format: format, processor: processing.NewProcessor()}, nil
}

// Show saves img as the next numbered file
func (d *Dir) Show(name string, img image.Image) error {
	d.n++
	path := filepath.Join(d.dir, fmt.Sprintf("%s%02d_%s.%s", d.prefix, d.n, slug(name), d.format))
	if err := d.processor.SaveImage(img, path, d.format, 95, true); err != nil {
		return fmt.Errorf("failed to save %q: %w", name, err)
	}
	return nil
}

// CloseAll does nothing; every file is complete once Show returns
func (d *Dir) CloseAll() error { return nil }

// slug turns a window title into a file name part
func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
