package buffer

// Cursor is a point in a buffer plus the data of the last successful search.
// It is the buffer's equivalent of "go to position, search, replace match".
// A Cursor is not safe for concurrent use.
type Cursor struct {
	buf   *Buffer
	point ByteOffset
	match Range
	found bool
}

// NewCursor creates a cursor at the start of buf.
func NewCursor(buf *Buffer) *Cursor {
	return &Cursor{buf: buf}
}

// Point returns the cursor position.
func (c *Cursor) Point() ByteOffset {
	return c.point
}

// Goto moves the cursor to offset and clears the match data.
func (c *Cursor) Goto(offset ByteOffset) error {
	if offset < 0 || offset > c.buf.Len() {
		return ErrOffsetOutOfRange
	}
	c.point = offset
	c.found = false
	return nil
}

// SearchForward looks for token between the cursor and bound. On success
// the cursor moves to the end of the match and the match is recorded.
func (c *Cursor) SearchForward(token string, bound ByteOffset) bool {
	at, ok := c.buf.Index(token, c.point, bound)
	if !ok {
		c.found = false
		return false
	}
	c.match = Range{Start: at, End: at + len(token)}
	c.point = c.match.End
	c.found = true
	return true
}

// Match returns the range of the last successful search.
func (c *Cursor) Match() (Range, bool) {
	return c.match, c.found
}

// ReplaceMatch replaces the last match with text and leaves the cursor after
// the replacement. The match data is consumed.
func (c *Cursor) ReplaceMatch(text string) error {
	if !c.found {
		return ErrNoMatch
	}
	end, err := c.buf.Replace(c.match.Start, c.match.End, text)
	if err != nil {
		return err
	}
	c.point = end
	c.found = false
	return nil
}
