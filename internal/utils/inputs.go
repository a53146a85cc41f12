package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var imageExts = []string{"jpg", "jpeg", "png", "gif", "bmp", "tif", "tiff", "webp"}

// IsImageFile reports whether name carries an extension one of the decoders
// understands
func IsImageFile(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return slices.Contains(imageExts, ext)
}

// ExpandInputs replaces every directory in paths by the image files below it,
// in lexical order. Plain paths are kept as given so that a missing or
// undecodable file is reported by the loader. dirs reports whether any
// directory was expanded.
func ExpandInputs(paths []string) (files []string, dirs bool, err error) {
	for _, p := range paths {
		info, statErr := os.Stat(p)
		if statErr != nil || !info.IsDir() {
			files = append(files, p)
			continue
		}
		dirs = true
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsImageFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, dirs, fmt.Errorf("failed to list %s: %w", p, err)
		}
	}
	return files, dirs, nil
}
