package mutation

import "fmt"

// Mutation describes one edit: the byte range [Start, End) of the
// pre-edit text was replaced by NewLen bytes.
type Mutation struct {
	Start  int
	End    int
	NewLen int

	// Revision is the buffer revision produced by the edit.
	Revision uint64
}

// Delta returns the change in text length caused by the mutation.
func (m Mutation) Delta() int {
	return m.NewLen - (m.End - m.Start)
}

// IsInsert returns true if the mutation removed nothing.
func (m Mutation) IsInsert() bool {
	return m.Start == m.End
}

// Touches reports whether the mutation affects any offset of [start, end).
func (m Mutation) Touches(start, end int) bool {
	if m.IsInsert() {
		return start <= m.Start && m.Start < end
	}
	return m.Start < end && start < m.End
}

// String returns a human-readable representation of the mutation.
func (m Mutation) String() string {
	return fmt.Sprintf("Mutation[%d:%d]+%d", m.Start, m.End, m.NewLen)
}
