package document

// Document is the result of a parse.
type Document struct {
	Root    *Element
	Source  string
	BaseDir string
}

// Occurrence is a link found in a document.
type Occurrence struct {
	Scheme      string
	RawPath     string
	Path        string
	Description string
	Begin       int
	End         int
	Bracketed   bool
}

// Text returns the source text covered by e.
func (d *Document) Text(e *Element) string {
	if e == nil || e.Begin < 0 || e.End > len(d.Source) || e.Begin > e.End {
		return ""
	}
	return d.Source[e.Begin:e.End]
}

// Walk visits the tree in document order.
func (d *Document) Walk(fn func(*Element) bool) {
	Walk(d.Root, fn)
}

// Links returns every link element in document order.
func (d *Document) Links() []*Element {
	var links []*Element
	d.Walk(func(e *Element) bool {
		if e.Type == TypeLink {
			links = append(links, e)
		}
		return true
	})
	return links
}

// Occurrences returns the links of the given scheme in document order.
// An empty scheme matches every link.
func (d *Document) Occurrences(scheme string) []Occurrence {
	var out []Occurrence
	for _, l := range d.Links() {
		if scheme != "" && l.Scheme != scheme {
			continue
		}
		out = append(out, OccurrenceOf(l))
	}
	return out
}

// OccurrenceOf converts a link element.
func OccurrenceOf(l *Element) Occurrence {
	return Occurrence{
		Scheme:      l.Scheme,
		RawPath:     l.RawPath,
		Path:        l.Path,
		Description: l.Description,
		Begin:       l.Begin,
		End:         l.End,
		Bracketed:   l.Bracketed,
	}
}

// At returns the innermost element containing offset, or nil.
func (d *Document) At(offset int) *Element {
	if d.Root == nil || !d.Root.Contains(offset) {
		return nil
	}
	cur := d.Root
	for {
		var next *Element
		for _, child := range cur.Children {
			if child.Contains(offset) {
				next = child
				break
			}
			if child.Begin > offset {
				break
			}
		}
		if next == nil {
			return cur
		}
		cur = next
	}
}

// LinkAt returns the link enclosing offset, climbing through markup.
func (d *Document) LinkAt(offset int) *Element {
	e := d.At(offset)
	if e == nil {
		return nil
	}
	return e.EnclosingLink()
}
