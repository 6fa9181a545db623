// Package host is the editor surface that link types plug into.
//
// A Host holds the current buffer and a link dispatcher. Its highlighting
// pass parses the buffer and hands every link to the Activate handler of
// the link's scheme; following a link and its tooltip go through the same
// dispatcher. Exports run through an export pipeline so registered hooks
// see a copy of the buffer before any backend does.
package host
