package inkscape

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dshills/inklink/internal/logging"
	"github.com/dshills/inklink/internal/metrics"
	"github.com/dshills/inklink/internal/process"
)

// Default command templates.
const (
	DefaultCreateCommand = "cp %[1]s %[2]s && inkscape %[2]s"
	DefaultOpenCommand   = "inkscape %[1]s"
)

//go:embed template.svg
var blankTemplate []byte

// Editor launches the external image editor.
type Editor struct {
	launcher      process.Launcher
	createCommand string
	openCommand   string
	templatePath  string

	templateOnce    sync.Once
	defaultTemplate string
	templateErr     error

	logger   *logging.Logger
	recorder metrics.Recorder
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithLauncher sets the process launcher.
func WithLauncher(l process.Launcher) EditorOption {
	return func(e *Editor) {
		e.launcher = l
	}
}

// WithCreateCommand sets the create command template.
func WithCreateCommand(cmd string) EditorOption {
	return func(e *Editor) {
		if cmd != "" {
			e.createCommand = cmd
		}
	}
}

// WithOpenCommand sets the open command template.
func WithOpenCommand(cmd string) EditorOption {
	return func(e *Editor) {
		if cmd != "" {
			e.openCommand = cmd
		}
	}
}

// WithTemplatePath sets the template copied for new images. Without one
// a blank drawing is written to the user cache directory on first use.
func WithTemplatePath(path string) EditorOption {
	return func(e *Editor) {
		e.templatePath = path
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) EditorOption {
	return func(e *Editor) {
		e.logger = l
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) EditorOption {
	return func(e *Editor) {
		e.recorder = r
	}
}

// NewEditor creates an Editor and validates its command templates.
func NewEditor(opts ...EditorOption) (*Editor, error) {
	e := &Editor{
		createCommand: DefaultCreateCommand,
		openCommand:   DefaultOpenCommand,
		logger:        logging.Nop(),
		recorder:      metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.launcher == nil {
		e.launcher = process.NewSupervisor()
	}

	if err := ValidateCommand(e.createCommand, 2); err != nil {
		return nil, fmt.Errorf("create command: %w", err)
	}
	if err := ValidateCommand(e.openCommand, 1); err != nil {
		return nil, fmt.Errorf("open command: %w", err)
	}
	return e, nil
}

// ValidateCommand checks that tmpl formats cleanly with nargs arguments and
// that the last argument, the target file, appears in the result.
func ValidateCommand(tmpl string, nargs int) error {
	const marker = "\x00target\x00"
	args := make([]any, nargs)
	for i := range args {
		args[i] = fmt.Sprintf("\x00arg%d\x00", i)
	}
	args[nargs-1] = marker

	out := fmt.Sprintf(tmpl, args...)
	if strings.Contains(out, "%!") {
		return fmt.Errorf("%w: %q", ErrInvalidCommand, tmpl)
	}
	if !strings.Contains(out, marker) {
		return fmt.Errorf("%w: %q does not reference the target file", ErrInvalidCommand, tmpl)
	}
	return nil
}

// OpenOrCreate opens path in the editor, creating it from the template
// first when it does not exist. Missing parent directories are created.
// The command runs in the directory of path.
//
// The editor process is not supervised: a failed launch is logged and
// OpenOrCreate returns a nil process and a nil error. Callers that care
// about the result watch the returned process.
func (e *Editor) OpenOrCreate(ctx context.Context, path string) (*process.Process, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	dir, base := filepath.Dir(path), filepath.Base(path)

	var cmd process.Command
	_, err := os.Stat(path)
	switch {
	case err == nil:
		cmd = process.Command{
			Name: "open",
			Line: fmt.Sprintf(e.openCommand, shellQuote(base)),
			Dir:  dir,
		}

	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create image directory: %w", err)
		}
		tmpl, err := e.template()
		if err != nil {
			return nil, err
		}
		cmd = process.Command{
			Name: "create",
			Line: fmt.Sprintf(e.createCommand, shellQuote(tmpl), shellQuote(base)),
			Dir:  dir,
		}

	default:
		return nil, fmt.Errorf("stat image: %w", err)
	}

	proc, err := e.launcher.Launch(ctx, cmd)
	if err != nil {
		e.recorder.IncProcessLaunched(cmd.Name, metrics.OutcomeFailure)
		e.logger.Warn("%s %s: %v", cmd.Name, path, err)
		return nil, nil
	}
	e.recorder.IncProcessLaunched(cmd.Name, metrics.OutcomeSuccess)
	e.logger.WithField("dir", dir).Info("%s %s", cmd.Name, base)
	return proc, nil
}

// TemplatePath returns the template used for new images, writing the
// built-in blank drawing if none was configured.
func (e *Editor) TemplatePath() (string, error) {
	return e.template()
}

func (e *Editor) template() (string, error) {
	if e.templatePath != "" {
		return e.templatePath, nil
	}
	e.templateOnce.Do(func() {
		cache, err := os.UserCacheDir()
		if err != nil {
			e.templateErr = fmt.Errorf("locate template directory: %w", err)
			return
		}
		path := filepath.Join(cache, "inklink", "template.svg")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			e.templateErr = fmt.Errorf("write default template: %w", err)
			return
		}
		if err := os.WriteFile(path, blankTemplate, 0o644); err != nil {
			e.templateErr = fmt.Errorf("write default template: %w", err)
			return
		}
		e.defaultTemplate = path
	})
	return e.defaultTemplate, e.templateErr
}

// shellQuote quotes s for POSIX shells.
func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./+=:@", r))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
