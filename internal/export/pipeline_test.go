package export

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inklink/internal/document"
	"github.com/dshills/inklink/internal/engine/buffer"
	"github.com/dshills/inklink/internal/metrics"
)

type fakeBackend struct {
	calls int
	docs  []*document.Document
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Render(w io.Writer, doc *document.Document) error {
	f.calls++
	f.docs = append(f.docs, doc)
	_, err := io.WriteString(w, "rendered")
	return err
}

type exportCounter struct {
	metrics.NoopRecorder
	outcomes []string
}

func (e *exportCounter) IncExport(backend string, outcome metrics.Outcome) {
	e.outcomes = append(e.outcomes, backend+":"+string(outcome))
}

func TestPipeline_OrgExportRewritesCopy(t *testing.T) {
	src := "Diagram: inkscape:/tmp/a.svg here\n"
	buf := buffer.NewBufferFromString(src, buffer.WithPath("/notes/doc.org"))

	p := NewPipeline(WithSchemes("inkscape"))
	p.AddHook(NewRewriter("inkscape").Preprocess)

	var out bytes.Buffer
	require.NoError(t, p.Run(buf, "org", &out))

	assert.Equal(t, "Diagram: file:/tmp/a.svg here\n", out.String())
	assert.Equal(t, src, buf.Text(), "the source buffer is never modified")
}

func TestPipeline_HTMLExport(t *testing.T) {
	src := "#+TITLE: ignored\n" +
		"* Title\n" +
		"\n" +
		"See [[inkscape:/tmp/a.svg][diagram]] and +old+.\n" +
		"Also [[https://example.com][site]] and [[./notes.txt][notes]].\n" +
		"\n" +
		"#+BEGIN_SRC go\n" +
		"fmt.Println(1)\n" +
		"#+END_SRC\n"
	buf := buffer.NewBufferFromString(src)

	p := NewPipeline(WithSchemes("inkscape"))
	p.AddHook(NewRewriter("inkscape").Preprocess)

	var out bytes.Buffer
	require.NoError(t, p.Run(buf, "html", &out))
	html := out.String()

	assert.Contains(t, html, "<h1>Title</h1>")
	assert.Contains(t, html, `<img src="/tmp/a.svg" alt="diagram"`)
	assert.Contains(t, html, "<del>old</del>")
	assert.Contains(t, html, `<a href="https://example.com">site</a>`)
	assert.Contains(t, html, `<a href="./notes.txt">notes</a>`)
	assert.Contains(t, html, `<code class="language-go">fmt.Println(1)`)
	assert.NotContains(t, html, "ignored")
	assert.NotContains(t, html, "inkscape:")
}

func TestPipeline_HTMLExportCustomScheme(t *testing.T) {
	buf := buffer.NewBufferFromString("See [[inkscape:/tmp/a.svg][diagram]] and [[inkscape:/tmp/b.png][photo]].\n")

	p := NewPipeline(WithSchemes("inkscape"), WithExportScheme("attachment"))
	p.AddHook(NewRewriter("inkscape", WithTargetScheme("attachment")).Preprocess)

	var out bytes.Buffer
	require.NoError(t, p.Run(buf, "html", &out))
	html := out.String()

	assert.Contains(t, html, `<img src="/tmp/a.svg" alt="diagram"`)
	assert.Contains(t, html, `<a href="/tmp/b.png">photo</a>`)
	assert.NotContains(t, html, "attachment:")
}

func TestPipeline_UnknownBackend(t *testing.T) {
	rec := &exportCounter{}
	p := NewPipeline(WithRecorder(rec))

	err := p.Run(buffer.NewBufferFromString("x"), "pdf", io.Discard)
	assert.ErrorIs(t, err, ErrUnknownBackend)
	assert.Equal(t, []string{"pdf:failure"}, rec.outcomes)
}

func TestPipeline_HookErrorAborts(t *testing.T) {
	rec := &exportCounter{}
	fake := &fakeBackend{}
	p := NewPipeline(WithRecorder(rec))
	p.RegisterBackend(fake)

	boom := errors.New("boom")
	var order []int
	p.AddHook(func(*buffer.Buffer, string) error { order = append(order, 0); return nil })
	p.AddHook(func(*buffer.Buffer, string) error { order = append(order, 1); return boom })
	p.AddHook(func(*buffer.Buffer, string) error { order = append(order, 2); return nil })

	var out bytes.Buffer
	err := p.Run(buffer.NewBufferFromString("x"), "fake", &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var herr *HookError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, 1, herr.Hook)
	assert.Equal(t, []int{0, 1}, order)
	assert.Equal(t, 0, fake.calls)
	assert.Empty(t, out.String())
	assert.Equal(t, []string{"fake:failure"}, rec.outcomes)
}

func TestPipeline_ConsistencyFailureAbortsExport(t *testing.T) {
	fake := &fakeBackend{}
	p := NewPipeline()
	p.RegisterBackend(fake)
	p.AddHook(func(buf *buffer.Buffer, _ string) error {
		return &ConsistencyError{Index: 0, Token: "inkscape:"}
	})

	err := p.Run(buffer.NewBufferFromString("inkscape:a.svg"), "fake", io.Discard)
	assert.ErrorIs(t, err, ErrConsistency)
	assert.Equal(t, 0, fake.calls)
}

func TestPipeline_Backends(t *testing.T) {
	p := NewPipeline()
	p.RegisterBackend(&fakeBackend{})
	assert.Equal(t, []string{"fake", "html", "org"}, p.Backends())
}

func TestPipeline_ParsesWithBufferDir(t *testing.T) {
	fake := &fakeBackend{}
	p := NewPipeline(WithSchemes("inkscape"))
	p.RegisterBackend(fake)

	buf := buffer.NewBufferFromString("inkscape:img/a.svg", buffer.WithPath("/notes/doc.org"))
	require.NoError(t, p.Run(buf, "fake", io.Discard))

	require.Len(t, fake.docs, 1)
	occs := fake.docs[0].Occurrences("inkscape")
	require.Len(t, occs, 1)
	assert.Equal(t, "/notes/img/a.svg", occs[0].Path)
	assert.True(t, strings.HasPrefix(fake.docs[0].Source, "inkscape:"))
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, "plain", escapeMarkdown("plain"))
	assert.Equal(t, `a\*b\_c`, escapeMarkdown("a*b_c"))
}
