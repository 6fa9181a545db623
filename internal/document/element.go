package document

// Element is a node of the parsed tree.
// Begin and End are byte offsets into the source text, End exclusive.
type Element struct {
	Type     Type
	Begin    int
	End      int
	Parent   *Element
	Children []*Element

	// Level is the headline depth.
	Level int

	// Key is the keyword name or the block kind (SRC, QUOTE, ...).
	Key string

	// Params holds the block header after the kind, "go -n" for example.
	Params string

	// Value holds literal content: keyword value, block body, text run,
	// verbatim and code contents.
	Value string

	// Link fields.
	Scheme      string
	RawPath     string
	Path        string
	Search      string
	Description string
	Bracketed   bool
}

// Contains reports whether offset lies in [Begin, End).
func (e *Element) Contains(offset int) bool {
	return offset >= e.Begin && offset < e.End
}

// Len returns the byte length of the element.
func (e *Element) Len() int {
	return e.End - e.Begin
}

// EnclosingLink returns e or its nearest link ancestor, climbing through
// markup. It returns nil when a non-inline element is reached first.
func (e *Element) EnclosingLink() *Element {
	for cur := e; cur != nil; cur = cur.Parent {
		switch {
		case cur.Type == TypeLink:
			return cur
		case cur.Type == TypeText || cur.Type.IsMarkup():
			continue
		default:
			return nil
		}
	}
	return nil
}

func (e *Element) append(child *Element) {
	child.Parent = e
	e.Children = append(e.Children, child)
}

// Walk visits e and its descendants pre-order in document order.
// Returning false from fn skips the element's children.
func Walk(e *Element, fn func(*Element) bool) {
	if e == nil {
		return
	}
	if !fn(e) {
		return
	}
	for _, child := range e.Children {
		Walk(child, fn)
	}
}
