package action

import (
	"github.com/dshills/inklink/internal/document"
	"github.com/dshills/inklink/internal/engine/buffer"
)

// TagInkscapeLink tags targets that are inkscape image links.
const TagInkscapeLink = "inkscape-link"

// Target is a classified thing at point.
type Target struct {
	Tag    string
	Value  string
	Scheme string
	Begin  int
	End    int
}

// Detector finds links of one scheme at a position.
type Detector struct {
	scheme string
	tag    string
}

// NewDetector creates a Detector tagging scheme links with tag.
func NewDetector(scheme, tag string) *Detector {
	return &Detector{scheme: scheme, tag: tag}
}

// Detect returns the target at offset. An offset just past the end of a
// link still counts, matching a cursor placed after the closing brackets.
func (d *Detector) Detect(doc *document.Document, offset int) (Target, bool) {
	l := doc.LinkAt(offset)
	if l == nil && offset > 0 {
		l = doc.LinkAt(offset - 1)
	}
	if l == nil || l.Scheme != d.scheme {
		return Target{}, false
	}
	return Target{
		Tag:    d.tag,
		Value:  l.Path,
		Scheme: l.Scheme,
		Begin:  l.Begin,
		End:    l.End,
	}, true
}

// DetectBuffer parses buf and detects the target at offset.
func (d *Detector) DetectBuffer(buf *buffer.Buffer, offset int) (Target, bool) {
	doc := document.Parse(buf.Text(),
		document.WithBaseDir(buf.Dir()),
		document.WithSchemes(d.scheme),
	)
	return d.Detect(doc, offset)
}
