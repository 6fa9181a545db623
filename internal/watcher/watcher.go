package watcher

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/inklink/internal/logging"
)

// DefaultDebounce is the quiet period before an event is delivered.
const DefaultDebounce = 150 * time.Millisecond

// Watcher watches directories for image changes.
type Watcher struct {
	mu sync.Mutex

	fsw        *fsnotify.Watcher
	handler    Handler
	debounce   time.Duration
	extensions map[string]bool
	logger     *logging.Logger

	paths   map[string]bool
	pending map[string]*pendingEvent

	delivered int64
	errors    int64
	lastError error

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

type pendingEvent struct {
	event Event
	timer *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Zero delivers events immediately.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithExtensions limits events to files with these extensions. Without
// it every file is reported.
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		for _, ext := range exts {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			w.extensions[strings.ToLower(ext)] = true
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// New creates a Watcher delivering events to handler.
func New(handler Handler, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:        fsw,
		handler:    handler,
		debounce:   DefaultDebounce,
		extensions: make(map[string]bool),
		logger:     logging.Nop(),
		paths:      make(map[string]bool),
		pending:    make(map[string]*pendingEvent),
		closeCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Watch starts watching a directory.
func (w *Watcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return ErrPathNotExist
		}
		return err
	}
	if w.paths[abs] {
		return ErrAlreadyWatching
	}
	if err := w.fsw.Add(abs); err != nil {
		return err
	}
	w.paths[abs] = true
	return nil
}

// Unwatch stops watching a directory.
func (w *Watcher) Unwatch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if !w.paths[abs] {
		return ErrNotWatching
	}
	if err := w.fsw.Remove(abs); err != nil {
		return err
	}
	delete(w.paths, abs)
	return nil
}

// IsWatching reports whether dir is watched.
func (w *Watcher) IsWatching(dir string) bool {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.paths[abs]
}

// WatchedPaths returns the watched directories in sorted order.
func (w *Watcher) WatchedPaths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.paths))
	for p := range w.paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Stats returns watcher statistics.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Stats{
		WatchedPaths: len(w.paths),
		Pending:      len(w.pending),
		Delivered:    atomic.LoadInt64(&w.delivered),
		Errors:       atomic.LoadInt64(&w.errors),
		LastError:    w.lastError,
	}
}

// Flush delivers all pending events now.
func (w *Watcher) Flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path, p := range w.pending {
		p.timer.Stop()
		paths = append(paths, path)
	}
	w.mu.Unlock()

	sort.Strings(paths)
	for _, path := range paths {
		w.fire(path)
	}
}

// Close stops the watcher. Pending events are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.recordError(err)
		}
	}
}

func (w *Watcher) handleFSEvent(ev fsnotify.Event) {
	op := convertOp(ev.Op)
	if op == 0 || !w.matches(ev.Name) {
		return
	}
	w.enqueue(Event{Path: ev.Name, Op: op, Timestamp: time.Now()})
}

func (w *Watcher) matches(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}

func (w *Watcher) enqueue(event Event) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	if w.debounce == 0 {
		w.mu.Unlock()
		w.deliver(event)
		return
	}
	defer w.mu.Unlock()

	if p, ok := w.pending[event.Path]; ok {
		p.event.Op |= event.Op
		p.event.Timestamp = event.Timestamp
		p.timer.Reset(w.debounce)
		return
	}
	path := event.Path
	w.pending[path] = &pendingEvent{
		event: event,
		timer: time.AfterFunc(w.debounce, func() { w.fire(path) }),
	}
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok || w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	w.mu.Unlock()

	w.deliver(p.event)
}

func (w *Watcher) deliver(event Event) {
	atomic.AddInt64(&w.delivered, 1)
	w.logger.Debug("image %s: %s", event.Op, event.Path)
	if w.handler != nil {
		w.handler(event)
	}
}

func (w *Watcher) recordError(err error) {
	atomic.AddInt64(&w.errors, 1)
	w.mu.Lock()
	w.lastError = err
	w.mu.Unlock()
	w.logger.Warn("watch error: %v", err)
}
