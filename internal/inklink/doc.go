// Package inklink wires the inkscape link type into an editor host.
//
// A Module is built from a config.Config. Install registers the link type
// with the host's dispatcher:
//
//   - Tooltip describes the linked image.
//   - Activate shows an inline preview when highlighting reaches a link.
//   - Follow opens the image in the external editor, creating it from a
//     template first when it does not exist.
//
// The module also adds the export hook that rewrites links to the export
// scheme, binds the open action to the context action menu, and
// optionally watches image directories to refresh previews when a
// drawing is saved.
package inklink
