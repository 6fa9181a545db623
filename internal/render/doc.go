// Package render draws documents with inline image previews on a
// terminal.
//
// A Painter lays out one Frame on a tcell.Screen: document lines from a
// top line, links highlighted, and every visible preview overlay drawn as
// a placeholder label in place of the link text it covers. The bottom row
// is a status line.
//
// A Viewer runs the interactive loop around a Painter. It scrolls, moves
// a selection between links, follows the selected link and refreshes
// previews on request or when another goroutine calls Redraw.
package render
