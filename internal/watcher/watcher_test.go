package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type collector struct {
	mu     sync.Mutex
	events []Event
	ch     chan Event
}

func newCollector() *collector {
	return &collector{ch: make(chan Event, 16)}
}

func (c *collector) handle(e Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
	c.ch <- e
}

func (c *collector) wait(t *testing.T) Event {
	t.Helper()
	select {
	case e := <-c.ch:
		return e
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestOp_String(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpCreate | OpWrite, "CREATE|WRITE"},
		{0, "NONE"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestWatcher_WatchUnwatch(t *testing.T) {
	w, err := New(nil)
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	defer w.Close()

	dir := t.TempDir()
	if err := w.Watch(dir); err != nil {
		t.Fatalf("Watch error = %v", err)
	}
	if !w.IsWatching(dir) {
		t.Error("should be watching dir")
	}
	if err := w.Watch(dir); err != ErrAlreadyWatching {
		t.Errorf("Watch again error = %v, want ErrAlreadyWatching", err)
	}
	if got := w.WatchedPaths(); len(got) != 1 {
		t.Errorf("WatchedPaths() = %v, want one path", got)
	}

	if err := w.Unwatch(dir); err != nil {
		t.Fatalf("Unwatch error = %v", err)
	}
	if err := w.Unwatch(dir); err != ErrNotWatching {
		t.Errorf("Unwatch again error = %v, want ErrNotWatching", err)
	}
	if err := w.Watch(filepath.Join(dir, "missing")); err != ErrPathNotExist {
		t.Errorf("Watch missing error = %v, want ErrPathNotExist", err)
	}
}

func TestWatcher_DeliversMatchingFiles(t *testing.T) {
	c := newCollector()
	w, err := New(c.handle, WithDebounce(0), WithExtensions("svg"))
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	defer w.Close()

	dir := t.TempDir()
	if err := w.Watch(dir); err != nil {
		t.Fatalf("Watch error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "a.SVG")
	if err := os.WriteFile(path, []byte("<svg/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := c.wait(t)
	if e.Path != path {
		t.Errorf("event path = %q, want %q", e.Path, path)
	}
	if !e.Op.Has(OpCreate) && !e.Op.Has(OpWrite) {
		t.Errorf("event op = %v, want create or write", e.Op)
	}
}

func TestWatcher_Debounces(t *testing.T) {
	c := newCollector()
	w, err := New(c.handle, WithDebounce(200*time.Millisecond), WithExtensions(".svg"))
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	defer w.Close()

	dir := t.TempDir()
	if err := w.Watch(dir); err != nil {
		t.Fatalf("Watch error = %v", err)
	}

	path := filepath.Join(dir, "a.svg")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("<svg/>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	e := c.wait(t)
	if e.Path != path {
		t.Errorf("event path = %q, want %q", e.Path, path)
	}

	select {
	case extra := <-c.ch:
		t.Errorf("unexpected second event %v", extra)
	case <-time.After(400 * time.Millisecond):
	}
	if got := w.Stats().Delivered; got != 1 {
		t.Errorf("Delivered = %d, want 1", got)
	}
}

func TestWatcher_Flush(t *testing.T) {
	c := newCollector()
	w, err := New(c.handle, WithDebounce(time.Hour))
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	defer w.Close()

	w.enqueue(Event{Path: "/a.svg", Op: OpWrite})
	w.enqueue(Event{Path: "/a.svg", Op: OpCreate})
	if got := w.Stats().Pending; got != 1 {
		t.Fatalf("Pending = %d, want 1", got)
	}

	w.Flush()
	e := c.wait(t)
	if e.Op != OpCreate|OpWrite {
		t.Errorf("coalesced op = %v, want CREATE|WRITE", e.Op)
	}
}

func TestWatcher_Closed(t *testing.T) {
	w, err := New(nil)
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close error = %v", err)
	}
	if err := w.Watch(t.TempDir()); err != ErrWatcherClosed {
		t.Errorf("Watch after Close error = %v, want ErrWatcherClosed", err)
	}
}
