package host

import (
	"fmt"
	"io"
	"sync"

	"github.com/dshills/inklink/internal/document"
	"github.com/dshills/inklink/internal/engine/buffer"
	"github.com/dshills/inklink/internal/export"
	"github.com/dshills/inklink/internal/link"
	"github.com/dshills/inklink/internal/logging"
)

// Host owns the current buffer and routes link operations.
type Host struct {
	mu         sync.RWMutex
	current    *buffer.Buffer
	dispatcher *link.Dispatcher
	pipeline   *export.Pipeline
	logger     *logging.Logger
}

// Option configures a Host.
type Option func(*Host)

// WithPipeline sets the export pipeline.
func WithPipeline(p *export.Pipeline) Option {
	return func(h *Host) {
		h.pipeline = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Host) {
		h.logger = l
	}
}

// New creates a Host dispatching through d.
func New(d *link.Dispatcher, opts ...Option) *Host {
	h := &Host{dispatcher: d, logger: logging.Nop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Dispatcher returns the link dispatcher.
func (h *Host) Dispatcher() *link.Dispatcher {
	return h.dispatcher
}

// SetCurrent makes buf the current buffer.
func (h *Host) SetCurrent(buf *buffer.Buffer) {
	h.mu.Lock()
	h.current = buf
	h.mu.Unlock()
}

// Current returns the current buffer, or nil.
func (h *Host) Current() *buffer.Buffer {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Parse parses buf, recognizing every registered scheme as a plain link.
func (h *Host) Parse(buf *buffer.Buffer) *document.Document {
	return document.Parse(buf.Text(),
		document.WithBaseDir(buf.Dir()),
		document.WithSchemes(h.dispatcher.Schemes()...),
	)
}

// Document parses the current buffer. It returns an empty document when
// no buffer is current.
func (h *Host) Document() *document.Document {
	buf := h.Current()
	if buf == nil {
		return document.Parse("")
	}
	return h.Parse(buf)
}

// Highlight runs the full highlighting pass over the current buffer and
// returns the number of links handed to an Activate handler.
func (h *Host) Highlight() int {
	buf := h.Current()
	if buf == nil {
		return 0
	}

	activated := 0
	for _, l := range h.Parse(buf).Links() {
		if h.dispatcher.Activate(l.Scheme, l.Begin, l.End, l.Path, l.Bracketed) {
			activated++
		}
	}
	h.logger.Debug("highlighted %s: %d links activated", buf.Name(), activated)
	return activated
}

// LinkAt returns the link at offset in the current buffer. An offset just
// past a link's end still selects it.
func (h *Host) LinkAt(offset int) (document.Occurrence, bool) {
	buf := h.Current()
	if buf == nil {
		return document.Occurrence{}, false
	}
	doc := h.Parse(buf)
	l := doc.LinkAt(offset)
	if l == nil && offset > 0 {
		l = doc.LinkAt(offset - 1)
	}
	if l == nil {
		return document.Occurrence{}, false
	}
	return document.OccurrenceOf(l), true
}

// Follow opens the link at offset.
func (h *Host) Follow(offset int) error {
	if h.Current() == nil {
		return ErrNoBuffer
	}
	occ, ok := h.LinkAt(offset)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNoLink, offset)
	}
	if err := h.dispatcher.Follow(occ.Scheme, occ.Path); err != nil {
		return fmt.Errorf("follow %s link: %w", occ.Scheme, err)
	}
	return nil
}

// Tooltip returns the hover text for the link at offset.
func (h *Host) Tooltip(offset int) string {
	occ, ok := h.LinkAt(offset)
	if !ok {
		return ""
	}
	return h.dispatcher.Tooltip(occ.Scheme, occ.Path)
}

// Export writes the current buffer through the named backend.
func (h *Host) Export(backend string, w io.Writer) error {
	buf := h.Current()
	if buf == nil {
		return ErrNoBuffer
	}
	if h.pipeline == nil {
		return ErrNoPipeline
	}
	return h.pipeline.Run(buf, backend, w)
}
