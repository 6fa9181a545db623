package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inklink/internal/document"
	"github.com/dshills/inklink/internal/engine/buffer"
	"github.com/dshills/inklink/internal/preview"
)

const catSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50"><title>Cat</title></svg>`

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func row(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestLineStarts(t *testing.T) {
	starts := LineStarts("ab\ncd\n\nef\n")
	assert.Equal(t, []int{0, 3, 6, 7}, starts)
	assert.Equal(t, 0, LineOf(starts, 2))
	assert.Equal(t, 1, LineOf(starts, 3))
	assert.Equal(t, 3, LineOf(starts, 9))
}

func TestPainter_Overlay(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "a.svg")
	require.NoError(t, os.WriteFile(img, []byte(catSVG), 0o644))

	src := "Fig [[inkscape:a.svg]] end\nsecond\tline"
	buf := buffer.NewBufferFromString(src, buffer.WithPath(filepath.Join(dir, "doc.org")))
	m := preview.NewManager(preview.WithSurface(func() *buffer.Buffer { return buf }))
	ov := m.RenderOverlay(4, 22, img, true)
	require.NotNil(t, ov)

	s := newScreen(t, 40, 5)
	NewPainter(s).Paint(Frame{
		Doc:      document.Parse(src, document.WithSchemes("inkscape")),
		Overlays: m.Overlays(),
		Selected: -1,
		Status:   "status here",
	})

	assert.Equal(t, "Fig [svg Cat 100x50] end", row(s, 0))
	assert.Equal(t, "second  line", row(s, 1))
	assert.Equal(t, "status here", row(s, 4))

	// An edit inside the link removes the overlay and the link text returns.
	_, err := buf.Insert(9, "x")
	require.NoError(t, err)
	NewPainter(s).Paint(Frame{Doc: document.Parse(buf.Text()), Overlays: m.Overlays(), Selected: -1})
	assert.Equal(t, "Fig [[inkxscape:a.svg]] end", row(s, 0))
}

func TestPainter_ScrollAndClip(t *testing.T) {
	s := newScreen(t, 8, 3)
	NewPainter(s).Paint(Frame{
		Doc:      document.Parse("one\ntwo\nthree is long\nfour"),
		Selected: -1,
		Top:      1,
	})
	assert.Equal(t, "two", row(s, 0))
	assert.Equal(t, "three is", row(s, 1))
}

func TestPainter_LinkStyles(t *testing.T) {
	styles := DefaultStyles()
	s := newScreen(t, 30, 2)
	doc := document.Parse("a https://x.org b")
	NewPainter(s).Paint(Frame{Doc: doc, Selected: 2})

	_, _, style, _ := s.GetContent(3, 0) //nolint:staticcheck // GetContent is the correct API
	assert.Equal(t, styles.Selected, style)
	_, _, style, _ = s.GetContent(0, 0) //nolint:staticcheck // GetContent is the correct API
	assert.Equal(t, styles.Text, style)
}

type fakeModel struct {
	doc       *document.Document
	followed  []int
	refreshes int
	followErr error
}

func (m *fakeModel) Document() *document.Document { return m.doc }
func (m *fakeModel) Overlays() []*preview.Overlay { return nil }
func (m *fakeModel) Refresh()                     { m.refreshes++ }
func (m *fakeModel) Tooltip(offset int) string    { return "tip" }
func (m *fakeModel) Follow(offset int) error {
	m.followed = append(m.followed, offset)
	return m.followErr
}

func runViewer(t *testing.T, v *Viewer, ctx context.Context) error {
	t.Helper()
	errc := make(chan error, 1)
	go func() { errc <- v.Run(ctx) }()
	select {
	case err := <-errc:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("viewer did not stop")
		return nil
	}
}

func TestViewer_FollowSelectedLink(t *testing.T) {
	model := &fakeModel{doc: document.Parse("x [[inkscape:a.svg]] y [[file:b.txt]]", document.WithSchemes("inkscape"))}
	s := newScreen(t, 40, 4)
	v := NewViewer(s, model)

	s.InjectKey(tcell.KeyTab, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyTab, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyBacktab, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	require.NoError(t, runViewer(t, v, context.Background()))
	assert.Equal(t, []int{23, 2}, model.followed)
	assert.Equal(t, 1, model.refreshes)
}

func TestViewer_FollowError(t *testing.T) {
	model := &fakeModel{
		doc:       document.Parse("[[inkscape:a.svg]]", document.WithSchemes("inkscape")),
		followErr: errors.New("no editor"),
	}
	s := newScreen(t, 40, 3)
	v := NewViewer(s, model)

	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyTab, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	require.NoError(t, runViewer(t, v, context.Background()))
	assert.Equal(t, []int{0}, model.followed)
	assert.Equal(t, "no editor", row(s, 2))
}

func TestViewer_ContextCancel(t *testing.T) {
	model := &fakeModel{doc: document.Parse("text")}
	s := newScreen(t, 20, 3)
	v := NewViewer(s, model)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, runViewer(t, v, ctx), context.Canceled)
}
