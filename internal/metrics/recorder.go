// Package metrics provides observability hooks for the link subsystem.
//
// Components receive a Recorder through their options and default to
// NoopRecorder, so metrics never need nil checks at call sites. The
// PrometheusRecorder is activated by the module when metrics are enabled.
package metrics

// Outcome labels a counted result.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Recorder defines the counters the link subsystem reports.
type Recorder interface {
	IncOverlayCreated()
	IncOverlayInvalidated(reason string)
	IncRedraw()
	IncLinkRewritten(scheme string)
	IncExport(backend string, outcome Outcome)
	IncProcessLaunched(kind string, outcome Outcome)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncOverlayCreated()                 {}
func (NoopRecorder) IncOverlayInvalidated(string)       {}
func (NoopRecorder) IncRedraw()                         {}
func (NoopRecorder) IncLinkRewritten(string)            {}
func (NoopRecorder) IncExport(string, Outcome)          {}
func (NoopRecorder) IncProcessLaunched(string, Outcome) {}
