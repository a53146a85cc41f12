package types

import "errors"

var (
	// ErrDecode means the input image could not be loaded or has no pixels
	ErrDecode = errors.New("image decode failed")

	// ErrNoRectFound means no contour enclosed a rectangle of positive area.
	// It ends a run without being a failure of the process.
	ErrNoRectFound = errors.New("no suitable rectangle found")

	// ErrInvalidGeometry means a computed window or transform is degenerate
	ErrInvalidGeometry = errors.New("invalid geometry")
)
