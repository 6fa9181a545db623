package preview

import (
	"errors"
	"os"
	"sync"

	"github.com/dshills/inklink/internal/engine/buffer"
	"github.com/dshills/inklink/internal/logging"
	"github.com/dshills/inklink/internal/metrics"
	"github.com/dshills/inklink/internal/mutation"
	"github.com/dshills/inklink/internal/svg"
)

// Invalidation reasons reported to the metrics recorder.
const (
	ReasonEdited   = "edited"
	ReasonRedraw   = "redraw"
	ReasonReplaced = "replaced"
	ReasonCleared  = "cleared"
)

// ImageLoader decodes image files.
type ImageLoader interface {
	Load(path string) (*svg.Handle, error)
}

// Manager tracks the live overlays of an editor.
type Manager struct {
	mu         sync.Mutex
	overlays   []*Overlay
	generation uint64

	loader        ImageLoader
	surface       func() *buffer.Buffer
	redraw        func()
	onDecodeError func(path string, err error)

	logger   *logging.Logger
	recorder metrics.Recorder
}

// Option configures a Manager.
type Option func(*Manager)

// WithLoader sets the image loader. The default is an svg.Loader.
func WithLoader(l ImageLoader) Option {
	return func(m *Manager) {
		m.loader = l
	}
}

// WithSurface sets the function returning the current surface.
func WithSurface(fn func() *buffer.Buffer) Option {
	return func(m *Manager) {
		m.surface = fn
	}
}

// WithRedraw sets the host highlighting pass run after invalidation.
func WithRedraw(fn func()) Option {
	return func(m *Manager) {
		m.redraw = fn
	}
}

// WithDecodeErrorHandler sets the callback for images that fail to decode.
func WithDecodeErrorHandler(fn func(path string, err error)) Option {
	return func(m *Manager) {
		m.onDecodeError = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(m *Manager) {
		m.recorder = r
	}
}

// NewManager creates a Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		loader:   svg.NewLoader(),
		logger:   logging.Nop(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetSurface replaces the surface function.
func (m *Manager) SetSurface(fn func() *buffer.Buffer) {
	m.mu.Lock()
	m.surface = fn
	m.mu.Unlock()
}

// SetRedraw replaces the highlighting pass.
func (m *Manager) SetRedraw(fn func()) {
	m.mu.Lock()
	m.redraw = fn
	m.mu.Unlock()
}

// RenderOverlay displays the image at path over [begin, end) of the current
// surface. Empty paths, missing files and undecodable images produce no
// overlay. An existing overlay for the same region is replaced.
func (m *Manager) RenderOverlay(begin, end int, path string, bracketed bool) *Overlay {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			m.logger.Debug("stat %s: %v", path, err)
		}
		return nil
	}

	m.mu.Lock()
	surface := m.surface
	m.mu.Unlock()
	if surface == nil {
		return nil
	}
	cur := surface()
	if cur == nil {
		return nil
	}
	base := cur.Base()

	if begin < 0 || end > base.Len() || begin >= end {
		m.logger.Debug("overlay region [%d,%d) outside buffer of length %d", begin, end, base.Len())
		return nil
	}

	image, err := m.loader.Load(path)
	if err != nil {
		m.decodeFailed(path, err)
		return nil
	}

	m.mu.Lock()
	ov := newOverlay(base, image, path, bracketed, m.generation)
	m.mu.Unlock()

	sub, err := base.Mutations().Subscribe(begin, end, func(mutation.Mutation) {
		m.drop(ov, ReasonEdited)
	})
	if err != nil {
		m.logger.Warn("watch overlay region [%d,%d): %v", begin, end, err)
		return nil
	}
	ov.sub = sub

	m.mu.Lock()
	var replaced *Overlay
	for i, existing := range m.overlays {
		r := existing.Region()
		if existing.buf == base && r.Start == begin && r.End == end {
			replaced = existing
			m.overlays = append(m.overlays[:i], m.overlays[i+1:]...)
			break
		}
	}
	m.overlays = append(m.overlays, ov)
	m.mu.Unlock()

	// An edit may have fired the watcher before the overlay was tracked.
	if !sub.IsActive() {
		m.drop(ov, ReasonEdited)
	}
	if replaced != nil {
		replaced.sub.Cancel()
		m.recorder.IncOverlayInvalidated(ReasonReplaced)
	}
	m.recorder.IncOverlayCreated()
	m.logger.Debug("overlay %s at [%d,%d)", path, begin, end)
	return ov
}

func (m *Manager) decodeFailed(path string, err error) {
	m.mu.Lock()
	cb := m.onDecodeError
	m.mu.Unlock()

	if cb != nil {
		cb(path, err)
		return
	}
	m.logger.Warn("preview %s: %v", path, err)
}

func (m *Manager) drop(ov *Overlay, reason string) {
	m.mu.Lock()
	found := false
	for i, existing := range m.overlays {
		if existing == ov {
			m.overlays = append(m.overlays[:i], m.overlays[i+1:]...)
			found = true
			break
		}
	}
	m.mu.Unlock()

	if found {
		m.recorder.IncOverlayInvalidated(reason)
	}
}

// InvalidateAndRedraw removes every overlay, advances the generation and
// runs the host highlighting pass. Calling it repeatedly is safe.
func (m *Manager) InvalidateAndRedraw() {
	m.clear(ReasonRedraw)

	m.mu.Lock()
	m.generation++
	redraw := m.redraw
	m.mu.Unlock()

	m.recorder.IncRedraw()
	if redraw != nil {
		redraw()
	}
}

// Clear removes every overlay without redrawing.
func (m *Manager) Clear() {
	m.clear(ReasonCleared)
}

func (m *Manager) clear(reason string) {
	m.mu.Lock()
	old := m.overlays
	m.overlays = nil
	m.mu.Unlock()

	for _, ov := range old {
		ov.sub.Cancel()
		m.recorder.IncOverlayInvalidated(reason)
	}
}

// Overlays returns the live overlays in creation order.
func (m *Manager) Overlays() []*Overlay {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Overlay(nil), m.overlays...)
}

// OverlaysIn returns the overlays attached to buf's base buffer.
func (m *Manager) OverlaysIn(buf *buffer.Buffer) []*Overlay {
	base := buf.Base()
	var out []*Overlay
	for _, ov := range m.Overlays() {
		if ov.buf == base {
			out = append(out, ov)
		}
	}
	return out
}

// OverlayAt returns the overlay of the current surface covering offset.
func (m *Manager) OverlayAt(offset int) *Overlay {
	m.mu.Lock()
	surface := m.surface
	m.mu.Unlock()
	if surface == nil || surface() == nil {
		return nil
	}
	for _, ov := range m.OverlaysIn(surface()) {
		if ov.Region().Contains(offset) {
			return ov
		}
	}
	return nil
}

// Count returns the number of live overlays.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.overlays)
}

// Generation returns the current redraw generation.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}
