// Package inkscape connects document links to an external vector editor.
//
// Editor.OpenOrCreate opens an existing image in the editor, or creates the
// image from a template when it does not exist yet. Both actions run a
// configurable shell command in the image's directory and return without
// waiting for the editor.
//
// The create command is a format string with two arguments: the template
// path and the target file name. The open command takes the target file
// name. Arguments are shell-quoted before formatting.
//
//	cp %[1]s %[2]s && inkscape %[2]s
//	inkscape %[1]s
//
// Generators choose file names for new images and an Inserter writes the
// link for a new image into a buffer.
package inkscape
