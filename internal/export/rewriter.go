package export

import (
	"github.com/dshills/inklink/internal/document"
	"github.com/dshills/inklink/internal/engine/buffer"
	"github.com/dshills/inklink/internal/logging"
	"github.com/dshills/inklink/internal/metrics"
)

// DefaultTargetScheme is the scheme custom links are rewritten to.
const DefaultTargetScheme = "file"

// Observer is notified around each replacement, in document order.
type Observer interface {
	BeforeRewrite(index int, occ document.Occurrence)
	AfterRewrite(index int, occ document.Occurrence)
}

type nopObserver struct{}

func (nopObserver) BeforeRewrite(int, document.Occurrence) {}
func (nopObserver) AfterRewrite(int, document.Occurrence)  {}

// Rewriter replaces one link scheme with another before export.
type Rewriter struct {
	scheme   string
	target   string
	observer Observer
	logger   *logging.Logger
	recorder metrics.Recorder
}

// RewriterOption configures a Rewriter.
type RewriterOption func(*Rewriter)

// WithTargetScheme sets the replacement scheme.
func WithTargetScheme(scheme string) RewriterOption {
	return func(r *Rewriter) {
		r.target = scheme
	}
}

// WithObserver sets the replacement observer.
func WithObserver(o Observer) RewriterOption {
	return func(r *Rewriter) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithRewriterLogger sets the logger.
func WithRewriterLogger(l *logging.Logger) RewriterOption {
	return func(r *Rewriter) {
		r.logger = l
	}
}

// WithRewriterRecorder sets the metrics recorder.
func WithRewriterRecorder(rec metrics.Recorder) RewriterOption {
	return func(r *Rewriter) {
		r.recorder = rec
	}
}

// NewRewriter creates a rewriter for links of scheme.
func NewRewriter(scheme string, opts ...RewriterOption) *Rewriter {
	r := &Rewriter{
		scheme:   scheme,
		target:   DefaultTargetScheme,
		observer: nopObserver{},
		logger:   logging.Nop(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Scheme returns the scheme being rewritten.
func (r *Rewriter) Scheme() string { return r.scheme }

// Target returns the replacement scheme.
func (r *Rewriter) Target() string { return r.target }

// Preprocess rewrites every link of the custom scheme in buf. The buffer is
// parsed afresh on every call. Replacements happen in document order; each
// one searches for the scheme token inside the link's parsed region,
// adjusted by the length change of the replacements before it.
func (r *Rewriter) Preprocess(buf *buffer.Buffer, backend string) error {
	doc := document.Parse(buf.Text(),
		document.WithBaseDir(buf.Dir()),
		document.WithSchemes(r.scheme),
	)
	occs := doc.Occurrences(r.scheme)

	token := r.scheme + ":"
	replacement := r.target + ":"
	delta := len(replacement) - len(token)
	shift := 0

	cur := buffer.NewCursor(buf)
	for i, occ := range occs {
		r.observer.BeforeRewrite(i, occ)

		begin, end := occ.Begin+shift, occ.End+shift
		fail := &ConsistencyError{Index: i, Occurrence: occ, Begin: begin, End: end, Token: token}
		if err := cur.Goto(begin); err != nil {
			return fail
		}
		if !cur.SearchForward(token, end) {
			return fail
		}
		if err := cur.ReplaceMatch(replacement); err != nil {
			return fail
		}
		shift += delta

		r.recorder.IncLinkRewritten(r.scheme)
		r.observer.AfterRewrite(i, occ)
	}

	r.logger.Debug("rewrote %d %s links for %s export", len(occs), r.scheme, backend)
	return nil
}
