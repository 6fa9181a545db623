package buffer

import "fmt"

// ByteOffset indexes into the buffer text.
type ByteOffset = int

// Range is a half-open span [Start, End) of the buffer.
type Range struct {
	Start ByteOffset
	End   ByteOffset
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Len returns the span length in bytes.
func (r Range) Len() ByteOffset {
	return r.End - r.Start
}

// Contains reports whether offset falls inside r.
func (r Range) Contains(offset ByteOffset) bool {
	return r.Start <= offset && offset < r.End
}

// Point is a zero-based line and byte column.
type Point struct {
	Line   int
	Column int
}

// offsetToPoint clamps offset to the text and counts the newlines before it.
func offsetToPoint(text string, offset ByteOffset) Point {
	offset = min(max(offset, 0), len(text))
	var p Point
	bol := 0
	for i := range offset {
		if text[i] == '\n' {
			p.Line++
			bol = i + 1
		}
	}
	p.Column = offset - bol
	return p
}
