// Package export turns documents into output formats.
//
// A Pipeline runs on a private copy of the buffer. Pre-parse hooks edit that
// copy first; the Rewriter is such a hook and replaces every custom link
// scheme with the portable "file" scheme so that backends, and readers of
// the exported file, see ordinary file links. The copy is then parsed and
// handed to the selected Backend.
//
// The rewrite is not atomic. When a link cannot be found where the parse
// said it was, earlier replacements stay applied to the export copy and the
// export fails with a ConsistencyError.
package export
