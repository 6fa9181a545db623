package inkscape

import "errors"

var (
	// ErrEmptyPath is returned when an image path is empty.
	ErrEmptyPath = errors.New("empty image path")

	// ErrInvalidCommand is returned for command templates that do not
	// format cleanly or do not reference the target file.
	ErrInvalidCommand = errors.New("invalid command template")
)
