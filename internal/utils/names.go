package utils

import (
	"fmt"
	"path/filepath"
	"strings"
)

// OutputNames derives every file name written for one input image: the crop
// and the per-stage debug images
type OutputNames struct {
	// Base is the input file name without directory and extension
	Base   string
	Ext    string
	Prefix string
	Suffix string
}

// NewOutputNames splits input into the parts the output names are built from
func NewOutputNames(input, prefix, suffix string) OutputNames {
	name := filepath.Base(input)
	ext := filepath.Ext(name)
	return OutputNames{
		Base:   strings.TrimSuffix(name, ext),
		Ext:    strings.ToLower(strings.TrimPrefix(ext, ".")),
		Prefix: prefix,
		Suffix: suffix,
	}
}

// Crop returns dir/<prefix><base><suffix>.<format>. An empty format keeps the
// input's extension, or jpg when it has none.
func (n OutputNames) Crop(dir, format string) string {
	if format == "" {
		format = n.Ext
	}
	if format == "" {
		format = "jpg"
	}
	return filepath.Join(dir, fmt.Sprintf("%s%s%s.%s", n.Prefix, n.Base, n.Suffix, format))
}

// DebugPrefix is prepended to every debug image of this input so images of
// several inputs can share one directory
func (n OutputNames) DebugPrefix() string {
	return n.Base + "_"
}
