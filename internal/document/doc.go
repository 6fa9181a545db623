// Package document parses org-style outline text into an element tree.
//
// The parser understands the subset of org syntax the link subsystem needs:
// headlines, keywords, comment lines, blocks, paragraphs and the inline
// objects inside them (bracket links, plain links and emphasis markup).
// Every element carries byte offsets into the parsed text so callers can map
// tree nodes back to buffer regions.
//
// Parsing is cheap and never cached. Callers that edit the text re-parse
// before relying on offsets again.
//
//	doc := document.Parse(text,
//	    document.WithBaseDir("/home/me/notes"),
//	    document.WithSchemes("inkscape"),
//	)
//	for _, occ := range doc.Occurrences("inkscape") {
//	    fmt.Println(occ.Begin, occ.End, occ.Path)
//	}
//
// Traversal order is part of the contract: Walk visits elements pre-order in
// document order, so links are reported in ascending Begin order.
package document
