package main

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dshills/inklink/internal/config"
	"github.com/dshills/inklink/internal/inklink"
	"github.com/dshills/inklink/internal/logging"
	"github.com/dshills/inklink/internal/render"
)

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Doc   string `arg:"" help:"Document to show" type:"existingfile"`
	Watch bool   `short:"w" help:"Refresh previews when images change"`
}

func (p *PreviewCmd) Run(g *Global, root *CLI) error {
	var viewer atomic.Pointer[render.Viewer]
	notify := func() {
		if v := viewer.Load(); v != nil {
			v.Redraw()
		}
	}

	m, err := root.module(g, p.adjust, inklink.WithChangeNotify(notify))
	if err != nil {
		return err
	}
	defer m.Close(shutdownTimeout)

	buf, err := loadDocument(p.Doc)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	// The terminal belongs to the viewer from here on, so editor output
	// stays discarded.
	if g.Logger.Level() < logging.LevelError {
		g.Logger.SetLevel(logging.LevelError)
	}

	if srv := metricsServer(m); srv != nil {
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				g.Logger.Error("metrics server: %v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	v := render.NewViewer(screen, m, render.WithViewerLogger(g.Logger))
	viewer.Store(v)
	m.Open(buf)
	return v.Run(g.Ctx)
}

func (p *PreviewCmd) adjust(cfg *config.Config) {
	cfg.Preview.Enabled = true
	if p.Watch {
		cfg.Preview.Watch = true
	}
}

// metricsServer returns an HTTP server exposing the module's metrics, or
// nil when metrics are disabled or have no listen address.
func metricsServer(m *inklink.Module) *http.Server {
	reg := m.Registry()
	if reg == nil || m.Config().Metrics.Listen == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              m.Config().Metrics.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
