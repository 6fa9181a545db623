package buffer

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/inklink/internal/mutation"
)

func TestNewBufferFromString(t *testing.T) {
	buf := NewBufferFromString("line one\r\nline two\r", WithPath("/docs/notes.org"))

	if got := buf.Text(); got != "line one\nline two\n" {
		t.Errorf("Text() = %q, want normalized line endings", got)
	}
	if buf.Name() != "notes.org" {
		t.Errorf("Name() = %q, want notes.org", buf.Name())
	}
	if buf.Dir() != "/docs" {
		t.Errorf("Dir() = %q, want /docs", buf.Dir())
	}
	if buf.Revision() != 0 {
		t.Errorf("Revision() = %d, want 0", buf.Revision())
	}
}

func TestNewBufferFromReader(t *testing.T) {
	buf, err := NewBufferFromReader(strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("NewBufferFromReader: %v", err)
	}
	if buf.Len() != 5 {
		t.Errorf("Len() = %d, want 5", buf.Len())
	}
}

func TestBuffer_InsertDeleteReplace(t *testing.T) {
	buf := NewBufferFromString("Hello, World!")

	end, err := buf.Insert(7, "Beautiful ")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if end != 17 {
		t.Errorf("Insert end = %d, want 17", end)
	}
	if got := buf.Text(); got != "Hello, Beautiful World!" {
		t.Errorf("after Insert = %q", got)
	}

	if err := buf.Delete(0, 7); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := buf.Text(); got != "Beautiful World!" {
		t.Errorf("after Delete = %q", got)
	}

	if _, err := buf.Replace(0, 9, "Big"); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got := buf.Text(); got != "Big World!" {
		t.Errorf("after Replace = %q", got)
	}
	if buf.Revision() != 3 {
		t.Errorf("Revision() = %d, want 3", buf.Revision())
	}
}

func TestBuffer_EditErrors(t *testing.T) {
	buf := NewBufferFromString("abc")

	if _, err := buf.Insert(4, "x"); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("Insert past end err = %v, want ErrOffsetOutOfRange", err)
	}
	if err := buf.Delete(2, 1); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("inverted Delete err = %v, want ErrRangeInvalid", err)
	}
	if _, err := buf.Replace(0, 10, "x"); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("Replace past end err = %v, want ErrRangeInvalid", err)
	}
	if buf.Text() != "abc" || buf.Revision() != 0 {
		t.Error("failed edits must not modify the buffer")
	}
}

func TestBuffer_EditsArePublished(t *testing.T) {
	buf := NewBufferFromString("0123456789")

	var got []mutation.Mutation
	_, err := buf.Mutations().Subscribe(2, 5, func(m mutation.Mutation) {
		got = append(got, m)
		// Watchers may read the buffer from their handler.
		_ = buf.Text()
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if _, err := buf.Replace(3, 4, "xyz"); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("handler called %d times, want 1", len(got))
	}
	want := mutation.Mutation{Start: 3, End: 4, NewLen: 3, Revision: 1}
	if got[0] != want {
		t.Errorf("mutation = %+v, want %+v", got[0], want)
	}
}

func TestBuffer_Indirect(t *testing.T) {
	base := NewBufferFromString("shared text", WithPath("/tmp/doc.org"))
	view := base.NewIndirect("view")
	nested := view.NewIndirect("nested")

	if !view.IsIndirect() || base.IsIndirect() {
		t.Error("IsIndirect mismatch")
	}
	if nested.Base() != base {
		t.Error("nested indirect buffer should resolve to the root base")
	}
	if view.Mutations() != base.Mutations() {
		t.Error("indirect buffer should share the base mutation bus")
	}

	if _, err := view.Insert(0, ">> "); err != nil {
		t.Fatalf("Insert via view: %v", err)
	}
	if base.Text() != ">> shared text" {
		t.Errorf("base.Text() = %q, want edit visible through base", base.Text())
	}
	if view.Path() != "/tmp/doc.org" {
		t.Errorf("view.Path() = %q, want base path", view.Path())
	}
}

func TestBuffer_Clone(t *testing.T) {
	buf := NewBufferFromString("original", WithPath("/tmp/doc.org"))
	clone := buf.Clone()

	if _, err := clone.Insert(0, "x"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if buf.Text() != "original" {
		t.Errorf("clone edit leaked into source: %q", buf.Text())
	}
	if clone.Path() != "/tmp/doc.org" {
		t.Errorf("clone.Path() = %q", clone.Path())
	}
	if clone.Mutations() == buf.Mutations() {
		t.Error("clone must have its own mutation bus")
	}
}

func TestBuffer_Index(t *testing.T) {
	buf := NewBufferFromString("a inkscape:x b inkscape:y")

	tests := []struct {
		name        string
		from, bound int
		want        int
		ok          bool
	}{
		{"first", 0, 25, 2, true},
		{"second", 3, 25, 15, true},
		{"bound cuts match", 3, 20, 0, false},
		{"bound past end", 0, 100, 2, true},
		{"from after bound", 10, 5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := buf.Index("inkscape:", tt.from, tt.bound)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("Index = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBuffer_OffsetToPoint(t *testing.T) {
	buf := NewBufferFromString("ab\ncd\nef")

	tests := []struct {
		offset int
		want   Point
	}{
		{0, Point{0, 0}},
		{2, Point{0, 2}},
		{3, Point{1, 0}},
		{7, Point{2, 1}},
		{100, Point{2, 2}},
	}
	for _, tt := range tests {
		if got := buf.OffsetToPoint(tt.offset); got != tt.want {
			t.Errorf("OffsetToPoint(%d) = %v, want %v", tt.offset, got, tt.want)
		}
	}
}

func TestBuffer_Revision(t *testing.T) {
	buf := NewBufferFromString("one")
	_, _ = buf.Insert(3, " two")
	_, _ = buf.Insert(99, "x")

	if buf.Revision() != 1 {
		t.Errorf("Revision() = %d, want 1 (failed edits do not count)", buf.Revision())
	}
}

func TestEdit_String(t *testing.T) {
	tests := []struct {
		edit Edit
		want string
	}{
		{Edit{Start: 2, End: 2, Text: "x"}, `insert "x" at 2`},
		{Edit{Start: 2, End: 5}, "delete [2,5)"},
		{Edit{Start: 0, End: 9, Text: "file:"}, `replace [0,9) with "file:"`},
	}
	for _, tt := range tests {
		if got := tt.edit.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
