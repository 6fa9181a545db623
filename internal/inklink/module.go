package inklink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/inklink/internal/action"
	"github.com/dshills/inklink/internal/config"
	"github.com/dshills/inklink/internal/document"
	"github.com/dshills/inklink/internal/engine/buffer"
	"github.com/dshills/inklink/internal/export"
	"github.com/dshills/inklink/internal/host"
	"github.com/dshills/inklink/internal/inkscape"
	"github.com/dshills/inklink/internal/link"
	"github.com/dshills/inklink/internal/logging"
	"github.com/dshills/inklink/internal/metrics"
	"github.com/dshills/inklink/internal/preview"
	"github.com/dshills/inklink/internal/process"
	"github.com/dshills/inklink/internal/svg"
	"github.com/dshills/inklink/internal/watcher"
)

// Module is the inkscape link type bound to a host.
type Module struct {
	mu sync.Mutex

	cfg      *config.Config
	logger   *logging.Logger
	recorder metrics.Recorder
	registry *prometheus.Registry

	dispatcher *link.Dispatcher
	host       *host.Host
	loader     *svg.Loader
	previews   *preview.Manager
	pipeline   *export.Pipeline
	rewriter   *export.Rewriter

	launcher      process.Launcher
	processOutput io.Writer
	supervisor    *process.Supervisor
	editor        *inkscape.Editor
	generator     inkscape.Generator
	luaGen        *inkscape.LuaGenerator
	prompter      inkscape.Prompter
	inserter      *inkscape.Inserter

	detector *action.Detector
	actions  *action.Table

	watcher  *watcher.Watcher
	onChange func()

	ctx       context.Context
	cancel    context.CancelFunc
	installed bool
	closed    bool
}

// New builds a Module from cfg. A nil cfg uses the defaults.
func New(cfg *config.Config, opts ...Option) (*Module, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())

	if m.logger == nil {
		lc := logging.DefaultConfig()
		lc.Level = cfg.LogLevel()
		m.logger = logging.New(lc)
	}
	if m.recorder == nil {
		if cfg.Metrics.Enabled {
			m.registry = prometheus.NewRegistry()
			m.recorder = metrics.NewPrometheusRecorder(m.registry)
		} else {
			m.recorder = metrics.NoopRecorder{}
		}
	}

	m.dispatcher = link.NewDispatcher()
	m.rewriter = export.NewRewriter(cfg.Scheme,
		export.WithTargetScheme(cfg.ExportScheme),
		export.WithRewriterLogger(m.logger.WithComponent("export")),
		export.WithRewriterRecorder(m.recorder),
	)
	m.pipeline = export.NewPipeline(
		export.WithSchemes(cfg.Scheme),
		export.WithExportScheme(cfg.ExportScheme),
		export.WithLogger(m.logger.WithComponent("export")),
		export.WithRecorder(m.recorder),
	)
	m.pipeline.AddHook(m.rewriter.Preprocess)
	m.host = host.New(m.dispatcher,
		host.WithPipeline(m.pipeline),
		host.WithLogger(m.logger.WithComponent("host")),
	)

	m.loader = svg.NewLoader()
	m.previews = preview.NewManager(
		preview.WithLoader(m.loader),
		preview.WithSurface(m.host.Current),
		preview.WithRedraw(func() { m.host.Highlight() }),
		preview.WithLogger(m.logger.WithComponent("preview")),
		preview.WithRecorder(m.recorder),
	)

	if err := m.initEditor(); err != nil {
		m.cancel()
		return nil, err
	}
	if err := m.initGenerator(); err != nil {
		m.cancel()
		return nil, err
	}
	m.inserter = &inkscape.Inserter{
		Scheme:    cfg.Scheme,
		Generator: m.generator,
		Prompter:  m.prompter,
		Ask:       cfg.AskForFileName,
		Absolute:  cfg.UseAbsolutePaths,
	}

	m.detector = action.NewDetector(cfg.Scheme, action.TagInkscapeLink)
	m.actions = action.DefaultTable(func(ctx context.Context, t action.Target) error {
		_, err := m.editor.OpenOrCreate(ctx, t.Value)
		return err
	})

	if cfg.Preview.Enabled && cfg.Preview.Watch {
		w, err := watcher.New(m.imageChanged,
			watcher.WithDebounce(cfg.DebounceDuration()),
			watcher.WithExtensions(".svg"),
			watcher.WithLogger(m.logger.WithComponent("watcher")),
		)
		if err != nil {
			m.closeComponents()
			return nil, &InitError{Component: "watcher", Err: err}
		}
		m.watcher = w
	}

	return m, nil
}

func (m *Module) initEditor() error {
	if m.launcher == nil {
		log := m.logger.WithComponent("process")
		opts := []process.SupervisorOption{
			process.WithExitCallback(func(p *process.Process) {
				l := log.WithField("pid", p.PID())
				took := p.Runtime().Round(time.Millisecond)
				if code := p.ExitCode(); code != 0 {
					l.Warn("%s exited with status %d after %s: %s", p.Name, code, took, p.Command.Line)
					return
				}
				l.Info("%s exited after %s", p.Name, took)
			}),
		}
		if m.processOutput != nil {
			opts = append(opts, process.WithOutput(m.processOutput))
		}
		m.supervisor = process.NewSupervisor(opts...)
		m.launcher = m.supervisor
	}

	editor, err := inkscape.NewEditor(
		inkscape.WithLauncher(m.launcher),
		inkscape.WithCreateCommand(m.cfg.CreateCommand),
		inkscape.WithOpenCommand(m.cfg.OpenCommand),
		inkscape.WithTemplatePath(m.cfg.TemplatePath),
		inkscape.WithLogger(m.logger.WithComponent("inkscape")),
		inkscape.WithRecorder(m.recorder),
	)
	if err != nil {
		return &InitError{Component: "editor", Err: err}
	}
	m.editor = editor
	return nil
}

func (m *Module) initGenerator() error {
	base := inkscape.UUIDGenerator{Dir: m.cfg.ImageDirectory}
	switch {
	case m.cfg.FilenameGenerator != nil:
		fn := m.cfg.FilenameGenerator
		m.generator = inkscape.GeneratorFunc(func(docPath string) (string, error) {
			name := fn(docPath)
			if name == "" {
				return base.Generate(docPath)
			}
			dir := ""
			if docPath != "" {
				dir = filepath.Dir(docPath)
			}
			return document.ResolvePath(name, dir), nil
		})

	case m.cfg.Generator.Script != "":
		gen, err := inkscape.NewLuaGenerator(m.cfg.Generator.Script, base, m.logger.WithComponent("generator"))
		if err != nil {
			return &InitError{Component: "generator", Err: err}
		}
		m.luaGen = gen
		m.generator = gen

	default:
		m.generator = base
	}
	return nil
}

// Install registers the link type with the dispatcher.
func (m *Module) Install() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	h := link.Handlers{
		Tooltip: inkscape.Tooltip,
		Follow: func(path string) error {
			_, err := m.editor.OpenOrCreate(m.ctx, path)
			return err
		},
	}
	if m.cfg.Preview.Enabled {
		h.Activate = func(begin, end int, path string, bracketed bool) {
			m.previews.RenderOverlay(begin, end, path, bracketed)
		}
	}
	if err := m.dispatcher.Register(m.cfg.Scheme, h); err != nil {
		return err
	}
	m.installed = true
	m.logger.Debug("installed %s links", m.cfg.Scheme)
	return nil
}

// Open makes buf the current buffer and renders its previews.
func (m *Module) Open(buf *buffer.Buffer) {
	m.host.SetCurrent(buf)
	m.previews.InvalidateAndRedraw()
	m.watchImages(buf)
}

// Refresh clears and recomputes every preview.
func (m *Module) Refresh() {
	m.previews.InvalidateAndRedraw()
}

// InsertLink inserts a link to a new image at offset in the current
// buffer, refreshes previews and opens the image in the editor. The
// returned process is nil when the editor could not be launched.
func (m *Module) InsertLink(ctx context.Context, offset int) (inkscape.Insertion, *process.Process, error) {
	if err := m.ready(); err != nil {
		return inkscape.Insertion{}, nil, err
	}
	buf := m.host.Current()
	if buf == nil {
		return inkscape.Insertion{}, nil, host.ErrNoBuffer
	}

	ins, err := m.inserter.Insert(buf, offset)
	if err != nil {
		return inkscape.Insertion{}, nil, fmt.Errorf("insert %s link: %w", m.cfg.Scheme, err)
	}
	m.previews.InvalidateAndRedraw()

	proc, err := m.editor.OpenOrCreate(ctx, ins.Path)
	if err != nil {
		return ins, nil, err
	}
	m.watchDir(filepath.Dir(ins.Path))
	return ins, proc, nil
}

// Follow opens the link at offset in the current buffer.
func (m *Module) Follow(offset int) error {
	if err := m.ready(); err != nil {
		return err
	}
	return m.host.Follow(offset)
}

// Tooltip returns the hover text for the link at offset.
func (m *Module) Tooltip(offset int) string {
	return m.host.Tooltip(offset)
}

// Export writes the current buffer through the named backend with links
// rewritten to the export scheme.
func (m *Module) Export(backend string, w io.Writer) error {
	return m.host.Export(backend, w)
}

// Target classifies the thing at offset for the action menu.
func (m *Module) Target(offset int) (action.Target, bool) {
	buf := m.host.Current()
	if buf == nil {
		return action.Target{}, false
	}
	return m.detector.DetectBuffer(buf, offset)
}

// RunAction runs the menu action for the target at offset.
func (m *Module) RunAction(ctx context.Context, offset int) error {
	t, ok := m.Target(offset)
	if !ok {
		return fmt.Errorf("%w: %d", host.ErrNoLink, offset)
	}
	return m.actions.Run(ctx, t)
}

// Document parses the current buffer.
func (m *Module) Document() *document.Document { return m.host.Document() }

// Overlays returns the live previews.
func (m *Module) Overlays() []*preview.Overlay { return m.previews.Overlays() }

// Config returns the settings the module was built with.
func (m *Module) Config() *config.Config { return m.cfg }

// Host returns the editor host.
func (m *Module) Host() *host.Host { return m.host }

// Dispatcher returns the link dispatcher.
func (m *Module) Dispatcher() *link.Dispatcher { return m.dispatcher }

// Previews returns the preview manager.
func (m *Module) Previews() *preview.Manager { return m.previews }

// Pipeline returns the export pipeline.
func (m *Module) Pipeline() *export.Pipeline { return m.pipeline }

// Editor returns the image editor launcher.
func (m *Module) Editor() *inkscape.Editor { return m.editor }

// Actions returns the action table.
func (m *Module) Actions() *action.Table { return m.actions }

// Registry returns the Prometheus registry, or nil when metrics are off
// or a recorder was supplied.
func (m *Module) Registry() *prometheus.Registry { return m.registry }

// Watcher returns the image watcher, or nil when watching is off.
func (m *Module) Watcher() *watcher.Watcher { return m.watcher }

// Wait blocks until every launched editor has exited or ctx is done.
func (m *Module) Wait(ctx context.Context) error {
	if m.supervisor == nil {
		return nil
	}
	return m.supervisor.Wait(ctx)
}

// Close stops the watcher and the generator script and waits up to
// timeout for launched editors to exit before killing them.
func (m *Module) Close(timeout time.Duration) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	m.dispatcher.Unregister(m.cfg.Scheme)
	m.previews.Clear()
	if m.supervisor != nil {
		m.supervisor.Shutdown(timeout)
	}
	return m.closeComponents()
}

func (m *Module) closeComponents() error {
	m.cancel()
	var errs []error
	if m.watcher != nil {
		errs = append(errs, m.watcher.Close())
	}
	if m.luaGen != nil {
		errs = append(errs, m.luaGen.Close())
	}
	return errors.Join(errs...)
}

func (m *Module) ready() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.closed:
		return ErrClosed
	case !m.installed:
		return ErrNotInstalled
	}
	return nil
}

// watchImages watches the image directory and the directories of every
// existing linked image in buf.
func (m *Module) watchImages(buf *buffer.Buffer) {
	if m.watcher == nil || buf == nil {
		return
	}
	dirs := map[string]bool{}
	if docDir := buf.Dir(); docDir != "" {
		dirs[document.ResolvePath(m.cfg.ImageDirectory, docDir)] = true
	}
	for _, occ := range m.host.Parse(buf).Occurrences(m.cfg.Scheme) {
		dirs[filepath.Dir(occ.Path)] = true
	}
	for dir := range dirs {
		m.watchDir(dir)
	}
}

func (m *Module) watchDir(dir string) {
	if m.watcher == nil || dir == "" {
		return
	}
	err := m.watcher.Watch(dir)
	switch {
	case err == nil:
		m.logger.Debug("watching %s", dir)
	case errors.Is(err, watcher.ErrAlreadyWatching), errors.Is(err, watcher.ErrPathNotExist):
	default:
		m.logger.Warn("watch %s: %v", dir, err)
	}
}

func (m *Module) imageChanged(ev watcher.Event) {
	if _, err := os.Stat(ev.Path); err != nil {
		m.loader.Forget(ev.Path)
	}
	m.previews.InvalidateAndRedraw()
	if m.onChange != nil {
		m.onChange()
	}
}
