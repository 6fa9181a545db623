package export

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/dshills/inklink/internal/document"
)

// OrgBackend writes the document text unchanged.
type OrgBackend struct{}

// Name returns "org".
func (OrgBackend) Name() string { return "org" }

// Render writes the source text.
func (OrgBackend) Render(w io.Writer, doc *document.Document) error {
	_, err := io.WriteString(w, doc.Source)
	return err
}

// HTMLBackend renders documents to HTML fragments through goldmark.
type HTMLBackend struct {
	md goldmark.Markdown
}

// NewHTMLBackend creates the html backend. Links of scheme become plain
// destinations, and those pointing at SVG files become images. An empty
// scheme means DefaultTargetScheme.
func NewHTMLBackend(scheme string) *HTMLBackend {
	if scheme == "" {
		scheme = DefaultTargetScheme
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(fileLinkTransformer{prefix: scheme + ":"}, 100)),
		),
	)
	return &HTMLBackend{md: md}
}

// Name returns "html".
func (*HTMLBackend) Name() string { return "html" }

// Render converts the document to markdown and then to HTML.
func (b *HTMLBackend) Render(w io.Writer, doc *document.Document) error {
	var src bytes.Buffer
	writeMarkdown(&src, doc)
	return b.md.Convert(src.Bytes(), w)
}

// fileLinkTransformer strips prefix from link destinations and turns
// links to SVG files into images.
type fileLinkTransformer struct {
	prefix string
}

func (t fileLinkTransformer) Transform(node *ast.Document, _ text.Reader, _ parser.Context) {
	var links []*ast.Link
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindLink {
			links = append(links, n.(*ast.Link))
		}
		return ast.WalkContinue, nil
	})

	for _, l := range links {
		dest := string(l.Destination)
		if !strings.HasPrefix(dest, t.prefix) {
			continue
		}
		dest = strings.TrimPrefix(dest, t.prefix)
		l.Destination = []byte(dest)
		if !strings.EqualFold(filepath.Ext(dest), ".svg") {
			continue
		}
		parent := l.Parent()
		if parent == nil {
			continue
		}
		parent.ReplaceChild(parent, l, ast.NewImage(l))
	}
}
