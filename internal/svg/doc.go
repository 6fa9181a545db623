// Package svg loads vector images for inline previews.
//
// A Loader decodes just enough of an SVG file to describe it: the intrinsic
// size, the document title and a BLAKE3 content hash. Decoded handles are
// cached per path and reloaded when the file's size or modification time
// changes.
package svg
