package inklink

import (
	"io"

	"github.com/dshills/inklink/internal/inkscape"
	"github.com/dshills/inklink/internal/logging"
	"github.com/dshills/inklink/internal/metrics"
	"github.com/dshills/inklink/internal/process"
)

// Option configures a Module.
type Option func(*Module)

// WithLogger sets the logger. Without it one is built from the config.
func WithLogger(l *logging.Logger) Option {
	return func(m *Module) {
		m.logger = l
	}
}

// WithRecorder sets the metrics recorder. Without it a Prometheus
// recorder is used when metrics are enabled.
func WithRecorder(r metrics.Recorder) Option {
	return func(m *Module) {
		m.recorder = r
	}
}

// WithLauncher replaces the process supervisor.
func WithLauncher(l process.Launcher) Option {
	return func(m *Module) {
		m.launcher = l
	}
}

// WithProcessOutput sends the stdout and stderr of launched editors to w.
// Without it their output is discarded. It has no effect together with
// WithLauncher.
func WithProcessOutput(w io.Writer) Option {
	return func(m *Module) {
		m.processOutput = w
	}
}

// WithPrompter sets the prompt used when asking for file names.
func WithPrompter(p inkscape.Prompter) Option {
	return func(m *Module) {
		m.prompter = p
	}
}

// WithChangeNotify is called after previews refresh because an image
// changed on disk. It runs on the watcher's goroutine.
func WithChangeNotify(fn func()) Option {
	return func(m *Module) {
		m.onChange = fn
	}
}
