package host

import "errors"

var (
	// ErrNoBuffer is returned when no buffer is current.
	ErrNoBuffer = errors.New("host: no current buffer")

	// ErrNoLink is returned when there is no link at an offset.
	ErrNoLink = errors.New("host: no link at point")

	// ErrNoPipeline is returned by Export when the host has no pipeline.
	ErrNoPipeline = errors.New("host: no export pipeline")
)
