package export

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"sync"

	"github.com/dshills/inklink/internal/document"
	"github.com/dshills/inklink/internal/engine/buffer"
	"github.com/dshills/inklink/internal/logging"
	"github.com/dshills/inklink/internal/metrics"
)

// Hook edits the export copy before it is parsed.
type Hook func(buf *buffer.Buffer, backend string) error

// Backend renders a parsed document.
type Backend interface {
	Name() string
	Render(w io.Writer, doc *document.Document) error
}

// Pipeline runs hooks and backends over export copies.
type Pipeline struct {
	mu       sync.RWMutex
	hooks    []Hook
	backends map[string]Backend
	schemes  []string
	target   string

	logger   *logging.Logger
	recorder metrics.Recorder
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithSchemes sets the plain-link schemes recognized when parsing.
func WithSchemes(schemes ...string) PipelineOption {
	return func(p *Pipeline) {
		p.schemes = append(p.schemes, schemes...)
	}
}

// WithExportScheme sets the scheme the html backend treats as local
// files. It should match the rewriter's target scheme.
func WithExportScheme(scheme string) PipelineOption {
	return func(p *Pipeline) {
		p.target = scheme
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) PipelineOption {
	return func(p *Pipeline) {
		p.recorder = r
	}
}

// NewPipeline creates a pipeline with the org and html backends.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		backends: make(map[string]Backend),
		target:   DefaultTargetScheme,
		logger:   logging.Nop(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if !slices.Contains(p.schemes, p.target) {
		p.schemes = append(p.schemes, p.target)
	}
	p.RegisterBackend(OrgBackend{})
	p.RegisterBackend(NewHTMLBackend(p.target))
	return p
}

// AddHook appends a pre-parse hook. Hooks run in the order added.
func (p *Pipeline) AddHook(h Hook) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hooks = append(p.hooks, h)
}

// RegisterBackend adds or replaces a backend.
func (p *Pipeline) RegisterBackend(b Backend) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.backends[b.Name()] = b
}

// Backends returns the backend names in sorted order.
func (p *Pipeline) Backends() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.backends))
	for name := range p.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run exports buf with the named backend. The source buffer is never
// modified. A failing hook aborts the export before the backend runs.
func (p *Pipeline) Run(buf *buffer.Buffer, backend string, w io.Writer) error {
	p.mu.RLock()
	b, ok := p.backends[backend]
	hooks := append([]Hook(nil), p.hooks...)
	schemes := append([]string(nil), p.schemes...)
	p.mu.RUnlock()

	if !ok {
		p.recorder.IncExport(backend, metrics.OutcomeFailure)
		return fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
	}

	work := buf.Clone()
	for i, hook := range hooks {
		if err := hook(work, backend); err != nil {
			p.recorder.IncExport(backend, metrics.OutcomeFailure)
			p.logger.Error("export %s of %s aborted: %v", backend, buf.Name(), err)
			return &HookError{Backend: backend, Hook: i, Err: err}
		}
	}

	doc := document.Parse(work.Text(),
		document.WithBaseDir(work.Dir()),
		document.WithSchemes(schemes...),
	)
	if err := b.Render(w, doc); err != nil {
		p.recorder.IncExport(backend, metrics.OutcomeFailure)
		return fmt.Errorf("export %s: %w", backend, err)
	}

	p.recorder.IncExport(backend, metrics.OutcomeSuccess)
	p.logger.Info("exported %s as %s", buf.Name(), backend)
	return nil
}
