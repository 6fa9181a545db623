package document

// Type identifies the kind of an element.
type Type uint8

const (
	TypeDocument Type = iota
	TypeHeadline
	TypeParagraph
	TypeKeyword
	TypeComment
	TypeBlock
	TypeLink
	TypeBold
	TypeItalic
	TypeUnderline
	TypeStrike
	TypeVerbatim
	TypeCode
	TypeText
)

var typeNames = [...]string{
	TypeDocument:  "document",
	TypeHeadline:  "headline",
	TypeParagraph: "paragraph",
	TypeKeyword:   "keyword",
	TypeComment:   "comment",
	TypeBlock:     "block",
	TypeLink:      "link",
	TypeBold:      "bold",
	TypeItalic:    "italic",
	TypeUnderline: "underline",
	TypeStrike:    "strike-through",
	TypeVerbatim:  "verbatim",
	TypeCode:      "code",
	TypeText:      "text",
}

// String returns the org element name.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// IsInline reports whether elements of this type are inline objects.
func (t Type) IsInline() bool {
	return t >= TypeLink
}

// IsMarkup reports whether t is emphasis markup that may wrap other objects.
func (t Type) IsMarkup() bool {
	switch t {
	case TypeBold, TypeItalic, TypeUnderline, TypeStrike, TypeVerbatim, TypeCode:
		return true
	}
	return false
}

var markers = map[byte]Type{
	'*': TypeBold,
	'/': TypeItalic,
	'_': TypeUnderline,
	'+': TypeStrike,
	'=': TypeVerbatim,
	'~': TypeCode,
}
