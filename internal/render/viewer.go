package render

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/inklink/internal/document"
	"github.com/dshills/inklink/internal/logging"
	"github.com/dshills/inklink/internal/preview"
)

// Model is the document a Viewer shows.
type Model interface {
	Document() *document.Document
	Overlays() []*preview.Overlay
	// Refresh recomputes previews.
	Refresh()
	// Follow opens the link at offset.
	Follow(offset int) error
	// Tooltip describes the link at offset.
	Tooltip(offset int) string
}

type quitSignal struct{}

// Viewer is an interactive document view.
type Viewer struct {
	screen  tcell.Screen
	painter *Painter
	model   Model
	logger  *logging.Logger

	top      int
	selected int // index into the document's links, or -1
	status   string
}

// ViewerOption configures a Viewer.
type ViewerOption func(*Viewer)

// WithPainter replaces the default painter.
func WithPainter(p *Painter) ViewerOption {
	return func(v *Viewer) {
		v.painter = p
	}
}

// WithViewerLogger sets the logger.
func WithViewerLogger(l *logging.Logger) ViewerOption {
	return func(v *Viewer) {
		v.logger = l
	}
}

// NewViewer creates a Viewer on an initialized screen.
func NewViewer(screen tcell.Screen, model Model, opts ...ViewerOption) *Viewer {
	v := &Viewer{
		screen:   screen,
		model:    model,
		logger:   logging.Nop(),
		selected: -1,
		status:   "q quit  tab next link  enter open  r refresh",
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.painter == nil {
		v.painter = NewPainter(screen)
	}
	return v
}

// Redraw repaints the view from any goroutine.
func (v *Viewer) Redraw() {
	_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Run handles input until the user quits or ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = v.screen.PostEvent(tcell.NewEventInterrupt(quitSignal{}))
		case <-done:
		}
	}()

	v.draw()
	for {
		ev := v.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventInterrupt:
			if _, ok := ev.Data().(quitSignal); ok {
				return ctx.Err()
			}
		case *tcell.EventKey:
			if v.handleKey(ev) {
				return nil
			}
		}
		v.draw()
	}
}

// Selected returns the begin offset of the selected link, or -1.
func (v *Viewer) Selected() int {
	links := v.model.Document().Links()
	if v.selected < 0 || v.selected >= len(links) {
		return -1
	}
	return links[v.selected].Begin
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	_, height := v.screen.Size()
	page := max(height-2, 1)

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyDown:
		v.scroll(1)
	case tcell.KeyUp:
		v.scroll(-1)
	case tcell.KeyPgDn:
		v.scroll(page)
	case tcell.KeyPgUp:
		v.scroll(-page)
	case tcell.KeyTab:
		v.selectLink(1)
	case tcell.KeyBacktab:
		v.selectLink(-1)
	case tcell.KeyEnter:
		v.follow()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'j':
			v.scroll(1)
		case 'k':
			v.scroll(-1)
		case 'n':
			v.selectLink(1)
		case 'p':
			v.selectLink(-1)
		case 'r':
			v.model.Refresh()
			v.status = "refreshed"
		}
	}
	return false
}

func (v *Viewer) scroll(n int) {
	lines := len(LineStarts(v.model.Document().Source))
	v.top = min(max(v.top+n, 0), max(lines-1, 0))
}

func (v *Viewer) selectLink(dir int) {
	doc := v.model.Document()
	links := doc.Links()
	if len(links) == 0 {
		v.status = "no links"
		return
	}
	switch {
	case v.selected < 0 && dir < 0:
		v.selected = len(links) - 1
	case v.selected < 0:
		v.selected = 0
	default:
		v.selected = (v.selected + dir + len(links)) % len(links)
	}

	begin := links[v.selected].Begin
	_, height := v.screen.Size()
	line := LineOf(LineStarts(doc.Source), begin)
	if line < v.top || line >= v.top+height-1 {
		v.top = line
	}
	if tip := v.model.Tooltip(begin); tip != "" {
		v.status = tip
	} else {
		v.status = doc.Text(links[v.selected])
	}
}

func (v *Viewer) follow() {
	begin := v.Selected()
	if begin < 0 {
		v.status = "no link selected"
		return
	}
	if err := v.model.Follow(begin); err != nil {
		v.logger.Warn("follow link at %d: %v", begin, err)
		v.status = err.Error()
		return
	}
	v.status = "opened"
}

func (v *Viewer) draw() {
	v.painter.Paint(Frame{
		Doc:      v.model.Document(),
		Overlays: v.model.Overlays(),
		Selected: v.Selected(),
		Top:      v.top,
		Status:   v.status,
	})
}
