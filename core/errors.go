package core

import "errors"

var (
	// ErrMissingFile is returned when the requested path does not exist.
	ErrMissingFile = errors.New("file not found")

	// ErrExtraction is returned when the image cannot be opened or decoded.
	ErrExtraction = errors.New("metadata extraction failed")
)
