// Package buffer provides the thread-safe text buffer that documents live in.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Byte-offset editing (Insert, Delete, Replace, Apply)
//   - A mutation bus: every edit is published to region watchers
//   - Indirect buffers: views that share text (and mutations) with a base
//   - A Cursor with bounded forward search and match replacement
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Diagram: inkscape:/tmp/a.svg here")
//
//	cur := buffer.NewCursor(buf)
//	_ = cur.Goto(9)
//	if cur.SearchForward("inkscape:", 28) {
//	    _ = cur.ReplaceMatch("file:")
//	}
//	// buf.Text() == "Diagram: file:/tmp/a.svg here"
//
// Indirect buffers:
//
// NewIndirect returns a buffer sharing the base's text store. Edits through
// either buffer are visible in both and are published on the same mutation
// bus. Base() always resolves to the root base buffer, which is the surface
// that overlays attach to.
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Mutations are published after the
// write lock is released, so watchers may read the buffer from their
// handlers.
package buffer
