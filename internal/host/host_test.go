package host

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inklink/internal/engine/buffer"
	"github.com/dshills/inklink/internal/export"
	"github.com/dshills/inklink/internal/link"
)

type activation struct {
	begin, end int
	path       string
	bracketed  bool
}

func newHost(t *testing.T, activations *[]activation, followed *[]string) *Host {
	t.Helper()
	d := link.NewDispatcher()
	require.NoError(t, d.Register("inkscape", link.Handlers{
		Tooltip: func(path string) string { return "image " + path },
		Activate: func(begin, end int, path string, bracketed bool) {
			*activations = append(*activations, activation{begin, end, path, bracketed})
		},
		Follow: func(path string) error {
			*followed = append(*followed, path)
			return nil
		},
	}))

	p := export.NewPipeline(export.WithSchemes("inkscape"))
	p.AddHook(export.NewRewriter("inkscape").Preprocess)
	return New(d, WithPipeline(p))
}

func TestHighlight(t *testing.T) {
	var acts []activation
	var followed []string
	h := newHost(t, &acts, &followed)

	assert.Equal(t, 0, h.Highlight(), "no buffer")

	src := "a [[inkscape:x.svg]] b inkscape:y.svg c [[file:z.txt]]"
	h.SetCurrent(buffer.NewBufferFromString(src, buffer.WithPath("/notes/doc.org")))

	assert.Equal(t, 2, h.Highlight())
	require.Len(t, acts, 2)
	assert.Equal(t, activation{2, 20, "/notes/x.svg", true}, acts[0])
	assert.Equal(t, activation{23, 37, "/notes/y.svg", false}, acts[1])
}

func TestFollowAndTooltip(t *testing.T) {
	var acts []activation
	var followed []string
	h := newHost(t, &acts, &followed)

	assert.ErrorIs(t, h.Follow(0), ErrNoBuffer)

	h.SetCurrent(buffer.NewBufferFromString("see [[inkscape:x.svg]] and [[file:a.txt]]", buffer.WithPath("/n/doc.org")))

	require.NoError(t, h.Follow(6))
	require.NoError(t, h.Follow(22), "just past the link")
	assert.Equal(t, []string{"/n/x.svg", "/n/x.svg"}, followed)

	assert.ErrorIs(t, h.Follow(1), ErrNoLink)
	assert.ErrorIs(t, h.Follow(30), link.ErrUnknownScheme)

	assert.Equal(t, "image /n/x.svg", h.Tooltip(10))
	assert.Equal(t, "", h.Tooltip(30))
	assert.Equal(t, "", h.Tooltip(1))
}

func TestExport(t *testing.T) {
	var acts []activation
	var followed []string
	h := newHost(t, &acts, &followed)

	var out bytes.Buffer
	assert.ErrorIs(t, h.Export("org", &out), ErrNoBuffer)

	src := "[[inkscape:a.svg]] and inkscape:b.svg"
	buf := buffer.NewBufferFromString(src, buffer.WithPath("/n/doc.org"))
	h.SetCurrent(buf)

	require.NoError(t, h.Export("org", &out))
	assert.Equal(t, "[[file:a.svg]] and file:b.svg", out.String())
	assert.Equal(t, src, buf.Text(), "the source buffer is untouched")

	err := h.Export("pdf", &out)
	assert.True(t, errors.Is(err, export.ErrUnknownBackend))

	bare := New(link.NewDispatcher())
	bare.SetCurrent(buf)
	assert.ErrorIs(t, bare.Export("org", &out), ErrNoPipeline)
}
