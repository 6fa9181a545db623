package buffer

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/inklink/internal/mutation"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrNoMatch          = errors.New("no match data")
)

// store is the text shared by a base buffer and its indirect buffers.
type store struct {
	mu       sync.RWMutex
	text     string
	revision uint64
	path     string
	bus      *mutation.Bus
}

// Buffer is an editable text surface.
// All methods are thread-safe.
type Buffer struct {
	id    string
	name  string
	store *store
	base  *Buffer
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		id:    uuid.NewString(),
		store: &store{bus: mutation.NewBus()},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.name == "" && b.store.path != "" {
		b.name = filepath.Base(b.store.path)
	}
	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.store.text = normalizeLineEndings(s)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// NewIndirect creates a buffer that shares this buffer's text. The new
// buffer's Base is the root base of b.
func (b *Buffer) NewIndirect(name string) *Buffer {
	return &Buffer{
		id:    uuid.NewString(),
		name:  name,
		store: b.store,
		base:  b.Base(),
	}
}

// Clone creates an independent base buffer with a copy of the text. The
// clone has its own mutation bus and no overlays or watchers.
func (b *Buffer) Clone() *Buffer {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	return &Buffer{
		id:   uuid.NewString(),
		name: b.name,
		store: &store{
			text:     b.store.text,
			revision: b.store.revision,
			path:     b.store.path,
			bus:      mutation.NewBus(),
		},
	}
}

// normalizeLineEndings converts CRLF and CR line endings to LF.
func normalizeLineEndings(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Identity

// ID returns the unique buffer identifier.
func (b *Buffer) ID() string {
	return b.id
}

// Name returns the buffer display name.
func (b *Buffer) Name() string {
	return b.name
}

// Path returns the file path of the buffer, or "" if it has none.
func (b *Buffer) Path() string {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	return b.store.path
}

// Dir returns the directory of the buffer's file, or "" if it has none.
func (b *Buffer) Dir() string {
	path := b.Path()
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}

// Base returns the root base buffer. A base buffer returns itself.
func (b *Buffer) Base() *Buffer {
	if b.base == nil {
		return b
	}
	return b.base
}

// IsIndirect returns true if the buffer is a view of another buffer.
func (b *Buffer) IsIndirect() bool {
	return b.base != nil
}

// Mutations returns the bus edits to this buffer's text are published on.
// Indirect buffers share the bus of their base.
func (b *Buffer) Mutations() *mutation.Bus {
	return b.store.bus
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	return b.store.text
}

// TextRange returns text in the given byte range, clamped to the buffer.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	n := len(b.store.text)
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start >= end {
		return ""
	}
	return b.store.text[start:end]
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	return len(b.store.text)
}

// Revision returns the current revision. Every edit increments it.
func (b *Buffer) Revision() uint64 {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	return b.store.revision
}

// OffsetToPoint converts a byte offset to line/column.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	return offsetToPoint(b.store.text, offset)
}

// Index returns the offset of the first occurrence of token within
// [from, bound). The match must end at or before bound.
func (b *Buffer) Index(token string, from, bound ByteOffset) (ByteOffset, bool) {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()

	text := b.store.text
	if bound > len(text) {
		bound = len(text)
	}
	if from < 0 || from > bound || token == "" {
		return 0, false
	}
	i := strings.Index(text[from:bound], token)
	if i < 0 {
		return 0, false
	}
	return from + i, true
}

// Write Operations

// Insert adds text at offset and returns the offset just past it.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	r, err := b.Apply(Edit{Start: offset, End: offset, Text: text})
	return r.End, err
}

// Delete removes [start, end).
func (b *Buffer) Delete(start, end ByteOffset) error {
	_, err := b.Apply(Edit{Start: start, End: end})
	return err
}

// Replace swaps [start, end) for text and returns the offset just past
// the new text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	r, err := b.Apply(Edit{Start: start, End: end, Text: text})
	return r.End, err
}

// Apply performs e, publishes it on the mutation bus and returns the span
// now occupied by the new text.
func (b *Buffer) Apply(e Edit) (Range, error) {
	s := b.store
	s.mu.Lock()
	if err := e.check(len(s.text)); err != nil {
		s.mu.Unlock()
		return Range{Start: e.Start, End: e.Start}, err
	}
	text := normalizeLineEndings(e.Text)
	s.text = s.text[:e.Start] + text + s.text[e.End:]
	s.revision++
	rev := s.revision
	s.mu.Unlock()

	s.bus.Publish(mutation.Mutation{
		Start:    e.Start,
		End:      e.End,
		NewLen:   len(text),
		Revision: rev,
	})
	return Range{Start: e.Start, End: e.Start + len(text)}, nil
}

// SetText replaces the whole content of the buffer.
func (b *Buffer) SetText(text string) error {
	_, err := b.Apply(Edit{End: b.Len(), Text: text})
	return err
}
