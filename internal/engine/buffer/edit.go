package buffer

import "fmt"

// Edit replaces the span [Start, End) with Text. Start == End inserts;
// an empty Text deletes.
type Edit struct {
	Start ByteOffset
	End   ByteOffset
	Text  string
}

func (e Edit) String() string {
	switch {
	case e.Start == e.End:
		return fmt.Sprintf("insert %q at %d", e.Text, e.Start)
	case e.Text == "":
		return fmt.Sprintf("delete [%d,%d)", e.Start, e.End)
	default:
		return fmt.Sprintf("replace [%d,%d) with %q", e.Start, e.End, e.Text)
	}
}

// check validates e against a text of length n.
func (e Edit) check(n ByteOffset) error {
	switch {
	case e.Start < 0 || e.Start > n:
		return fmt.Errorf("%w: %d", ErrOffsetOutOfRange, e.Start)
	case e.End < e.Start || e.End > n:
		return fmt.Errorf("%w: [%d,%d)", ErrRangeInvalid, e.Start, e.End)
	}
	return nil
}
