package export

import (
	"bytes"
	"strings"

	"github.com/dshills/inklink/internal/document"
)

const markdownSpecial = "\\`*_[]<>#~|!"

// writeMarkdown emits the CommonMark equivalent of doc.
func writeMarkdown(out *bytes.Buffer, doc *document.Document) {
	for _, e := range doc.Root.Children {
		switch e.Type {
		case document.TypeHeadline:
			out.WriteString(strings.Repeat("#", min(e.Level, 6)))
			out.WriteByte(' ')
			writeInline(out, e.Children)
			out.WriteString("\n\n")

		case document.TypeParagraph:
			writeInline(out, e.Children)
			out.WriteString("\n\n")

		case document.TypeBlock:
			writeBlock(out, e)

		case document.TypeKeyword, document.TypeComment:
			// not exported
		}
	}
}

func writeBlock(out *bytes.Buffer, e *document.Element) {
	if e.Key == "QUOTE" {
		for _, ln := range strings.Split(strings.TrimSuffix(e.Value, "\n"), "\n") {
			out.WriteString("> ")
			out.WriteString(escapeMarkdown(ln))
			out.WriteByte('\n')
		}
		out.WriteByte('\n')
		return
	}

	fence := "```"
	for strings.Contains(e.Value, fence) {
		fence += "`"
	}
	out.WriteString(fence)
	if fields := strings.Fields(e.Params); e.Key == "SRC" && len(fields) > 0 {
		out.WriteString(fields[0])
	}
	out.WriteByte('\n')
	out.WriteString(e.Value)
	if e.Value != "" && !strings.HasSuffix(e.Value, "\n") {
		out.WriteByte('\n')
	}
	out.WriteString(fence)
	out.WriteString("\n\n")
}

func writeInline(out *bytes.Buffer, elems []*document.Element) {
	for _, e := range elems {
		switch e.Type {
		case document.TypeText:
			out.WriteString(escapeMarkdown(e.Value))
		case document.TypeBold:
			out.WriteString("**")
			writeInline(out, e.Children)
			out.WriteString("**")
		case document.TypeItalic, document.TypeUnderline:
			out.WriteString("*")
			writeInline(out, e.Children)
			out.WriteString("*")
		case document.TypeStrike:
			out.WriteString("~~")
			writeInline(out, e.Children)
			out.WriteString("~~")
		case document.TypeVerbatim, document.TypeCode:
			writeCodeSpan(out, e.Value)
		case document.TypeLink:
			writeLink(out, e)
		}
	}
}

func writeCodeSpan(out *bytes.Buffer, s string) {
	ticks := "`"
	for strings.Contains(s, ticks) {
		ticks += "`"
	}
	pad := ""
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		pad = " "
	}
	out.WriteString(ticks + pad + s + pad + ticks)
}

func writeLink(out *bytes.Buffer, e *document.Element) {
	if e.Scheme == "fuzzy" {
		if len(e.Children) > 0 {
			writeInline(out, e.Children)
		} else {
			out.WriteString(escapeMarkdown(e.RawPath))
		}
		return
	}

	out.WriteByte('[')
	if len(e.Children) > 0 {
		writeInline(out, e.Children)
	} else {
		out.WriteString(escapeMarkdown(e.RawPath))
	}
	out.WriteString("](<")
	out.WriteString(e.Scheme)
	out.WriteByte(':')
	out.WriteString(strings.NewReplacer("<", "%3C", ">", "%3E").Replace(e.RawPath))
	out.WriteString(">)")
}

func escapeMarkdown(s string) string {
	if !strings.ContainsAny(s, markdownSpecial) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(markdownSpecial, s[i]) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
