package svg

import (
	"fmt"
	"time"
)

// Handle describes a decoded SVG file.
type Handle struct {
	Path    string
	Width   float64
	Height  float64
	Title   string
	Size    int64
	ModTime time.Time
	Hash    string
}

// Dimensions formats the intrinsic size as "WxH", or "" when unknown.
func (h *Handle) Dimensions() string {
	if h == nil || h.Width <= 0 || h.Height <= 0 {
		return ""
	}
	return fmt.Sprintf("%gx%g", h.Width, h.Height)
}

// Label returns a short description used by text renderers.
func (h *Handle) Label() string {
	if h == nil {
		return "svg"
	}
	label := "svg"
	if h.Title != "" {
		label += " " + h.Title
	}
	if d := h.Dimensions(); d != "" {
		label += " " + d
	}
	return label
}
