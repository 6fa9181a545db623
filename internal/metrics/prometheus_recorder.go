package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus counters.
type PrometheusRecorder struct {
	overlaysCreated     prom.Counter
	overlaysInvalidated *prom.CounterVec
	redraws             prom.Counter
	linksRewritten      *prom.CounterVec
	exports             *prom.CounterVec
	processes           *prom.CounterVec
}

// NewPrometheusRecorder constructs the counters and registers them on reg.
// A nil registry gets a fresh private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		overlaysCreated: prom.NewCounter(prom.CounterOpts{
			Namespace: "inklink",
			Name:      "overlays_created_total",
			Help:      "Preview overlays created",
		}),
		overlaysInvalidated: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "inklink",
			Name:      "overlays_invalidated_total",
			Help:      "Preview overlays removed, by reason",
		}, []string{"reason"}),
		redraws: prom.NewCounter(prom.CounterOpts{
			Namespace: "inklink",
			Name:      "redraws_total",
			Help:      "Full invalidate-and-redraw passes",
		}),
		linksRewritten: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "inklink",
			Name:      "links_rewritten_total",
			Help:      "Links rewritten by the export preprocessor",
		}, []string{"scheme"}),
		exports: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "inklink",
			Name:      "exports_total",
			Help:      "Export runs by backend and outcome",
		}, []string{"backend", "outcome"}),
		processes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "inklink",
			Name:      "processes_launched_total",
			Help:      "External editor launches by kind and outcome",
		}, []string{"kind", "outcome"}),
	}
	reg.MustRegister(pr.overlaysCreated, pr.overlaysInvalidated, pr.redraws,
		pr.linksRewritten, pr.exports, pr.processes)
	return pr
}

func (p *PrometheusRecorder) IncOverlayCreated() {
	if p == nil {
		return
	}
	p.overlaysCreated.Inc()
}

func (p *PrometheusRecorder) IncOverlayInvalidated(reason string) {
	if p == nil {
		return
	}
	p.overlaysInvalidated.WithLabelValues(reason).Inc()
}

func (p *PrometheusRecorder) IncRedraw() {
	if p == nil {
		return
	}
	p.redraws.Inc()
}

func (p *PrometheusRecorder) IncLinkRewritten(scheme string) {
	if p == nil {
		return
	}
	p.linksRewritten.WithLabelValues(scheme).Inc()
}

func (p *PrometheusRecorder) IncExport(backend string, outcome Outcome) {
	if p == nil {
		return
	}
	p.exports.WithLabelValues(backend, string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncProcessLaunched(kind string, outcome Outcome) {
	if p == nil {
		return
	}
	p.processes.WithLabelValues(kind, string(outcome)).Inc()
}
