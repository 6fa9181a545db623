// Package preview manages inline image overlays for link regions.
//
// An overlay binds a decoded SVG handle to a byte region of a buffer. Each
// overlay watches its region on the buffer's mutation bus and disappears on
// the first edit that touches it. A redraw clears every overlay, advances
// the redraw generation and asks the host to run its highlighting pass,
// which renders the overlays again from a fresh parse.
//
// Overlays attach to the base buffer of the surface. Indirect views of a
// document therefore share one set of previews.
package preview
