package render

import (
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/inklink/internal/document"
	"github.com/dshills/inklink/internal/preview"
)

// Styles are the colors of a frame.
type Styles struct {
	Text     tcell.Style
	Link     tcell.Style
	Selected tcell.Style
	Overlay  tcell.Style
	Status   tcell.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	base := tcell.StyleDefault
	return Styles{
		Text:     base,
		Link:     base.Foreground(tcell.ColorBlue).Underline(true),
		Selected: base.Foreground(tcell.ColorBlue).Reverse(true),
		Overlay:  base.Foreground(tcell.ColorGreen).Bold(true),
		Status:   base.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite),
	}
}

// Frame is everything drawn in one paint.
type Frame struct {
	Doc      *document.Document
	Overlays []*preview.Overlay

	// Selected is the begin offset of the selected link, or -1.
	Selected int
	// Top is the first document line shown.
	Top    int
	Status string
}

// Painter draws frames on a screen.
type Painter struct {
	screen   tcell.Screen
	styles   Styles
	tabWidth int
}

// PainterOption configures a Painter.
type PainterOption func(*Painter)

// WithStyles sets the color scheme.
func WithStyles(s Styles) PainterOption {
	return func(p *Painter) {
		p.styles = s
	}
}

// WithTabWidth sets the tab width.
func WithTabWidth(n int) PainterOption {
	return func(p *Painter) {
		if n > 0 {
			p.tabWidth = n
		}
	}
}

// NewPainter creates a Painter for screen.
func NewPainter(screen tcell.Screen, opts ...PainterOption) *Painter {
	p := &Painter{screen: screen, styles: DefaultStyles(), tabWidth: 4}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Placeholder is the text drawn in place of a previewed link.
func Placeholder(ov *preview.Overlay) string {
	if img := ov.Image(); img != nil {
		return "[" + img.Label() + "]"
	}
	return "[svg]"
}

// Paint draws f and shows the screen.
func (p *Painter) Paint(f Frame) {
	p.screen.Clear()
	width, height := p.screen.Size()
	if height <= 0 {
		return
	}

	if f.Doc != nil {
		p.paintText(f, width, height-1)
	}
	p.paintStatus(f.Status, width, height-1)
	p.screen.Show()
}

func (p *Painter) paintText(f Frame, width, rows int) {
	src := f.Doc.Source
	starts := LineStarts(src)

	overlays := make(map[int]*preview.Overlay, len(f.Overlays))
	for _, ov := range f.Overlays {
		if ov.IsVisible() {
			overlays[ov.Region().Start] = ov
		}
	}
	links := f.Doc.Links()

	for row := 0; row < rows; row++ {
		line := f.Top + row
		if line < 0 || line >= len(starts) {
			break
		}
		pos, end := starts[line], len(src)
		if line+1 < len(starts) {
			end = starts[line+1]
		}

		x := 0
		for pos < end && x < width {
			if ov, ok := overlays[pos]; ok {
				x = p.put(x, row, width, Placeholder(ov), p.styles.Overlay)
				pos = min(ov.Region().End, end)
				continue
			}

			r, size := utf8.DecodeRuneInString(src[pos:])
			style := p.styleAt(links, pos, f.Selected)
			switch r {
			case '\n', '\r':
			case '\t':
				x = p.put(x, row, width, strings.Repeat(" ", p.tabWidth-x%p.tabWidth), style)
			default:
				x = p.put(x, row, width, string(r), style)
			}
			pos += size
		}
	}
}

func (p *Painter) styleAt(links []*document.Element, pos, selected int) tcell.Style {
	for _, l := range links {
		if l.Begin > pos {
			break
		}
		if l.Contains(pos) {
			if l.Begin == selected {
				return p.styles.Selected
			}
			return p.styles.Link
		}
	}
	return p.styles.Text
}

func (p *Painter) paintStatus(status string, width, row int) {
	for x := 0; x < width; x++ {
		p.screen.SetContent(x, row, ' ', nil, p.styles.Status)
	}
	p.put(0, row, width, status, p.styles.Status)
}

// put draws s at (x, y) and returns the next column.
func (p *Painter) put(x, y, width int, s string, style tcell.Style) int {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > width {
			return width
		}
		p.screen.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}

// LineStarts returns the offset of every line in src.
func LineStarts(src string) []int {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' && i+1 < len(src) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// LineOf returns the line containing offset.
func LineOf(starts []int, offset int) int {
	line := 0
	for i, s := range starts {
		if s > offset {
			break
		}
		line = i
	}
	return line
}
