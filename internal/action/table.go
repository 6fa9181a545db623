package action

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Action runs on a target.
type Action func(ctx context.Context, t Target) error

// Entry is an action offered for a tag.
type Entry struct {
	Tag    string
	Label  string
	Action Action
}

// Table maps target tags to actions.
type Table struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]Entry)}
}

// DefaultTable returns a table offering open for inkscape links.
func DefaultTable(open Action) *Table {
	t := NewTable()
	_ = t.Bind(TagInkscapeLink, "Open in Inkscape", open)
	return t
}

// Bind sets the action for tag, replacing any previous one.
func (t *Table) Bind(tag, label string, a Action) error {
	if tag == "" {
		return ErrEmptyTag
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[tag] = Entry{Tag: tag, Label: label, Action: a}
	return nil
}

// Unbind removes the action for tag.
func (t *Table) Unbind(tag string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, tag)
}

// Lookup returns the entry for tag.
func (t *Table) Lookup(tag string) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[tag]
	return e, ok
}

// Tags returns the bound tags in sorted order.
func (t *Table) Tags() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tags := make([]string, 0, len(t.entries))
	for tag := range t.entries {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Run executes the action bound to the target's tag.
func (t *Table) Run(ctx context.Context, target Target) error {
	e, ok := t.Lookup(target.Tag)
	if !ok || e.Action == nil {
		return fmt.Errorf("%w: %s", ErrNoAction, target.Tag)
	}
	return e.Action(ctx, target)
}
