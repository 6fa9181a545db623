package document

import (
	"sort"
	"strings"
)

type line struct {
	start int // first byte
	end   int // newline or end of text
	next  int // first byte of the following line
}

type parser struct {
	src     string
	baseDir string
	schemes []string // longest first
}

// Parse builds the element tree for text.
func Parse(text string, opts ...Option) *Document {
	var cfg parseConfig
	WithSchemes(DefaultSchemes...)(&cfg)
	for _, opt := range opts {
		opt(&cfg)
	}

	schemes := append([]string(nil), cfg.schemes...)
	sort.SliceStable(schemes, func(i, j int) bool {
		return len(schemes[i]) > len(schemes[j])
	})

	p := &parser{src: text, baseDir: cfg.baseDir, schemes: schemes}
	root := &Element{Type: TypeDocument, Begin: 0, End: len(text)}
	p.parseSections(root, splitLines(text))

	return &Document{Root: root, Source: text, BaseDir: cfg.baseDir}
}

func splitLines(text string) []line {
	var lines []line
	start := 0
	for start < len(text) {
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			lines = append(lines, line{start: start, end: len(text), next: len(text)})
			break
		}
		end += start
		lines = append(lines, line{start: start, end: end, next: end + 1})
		start = end + 1
	}
	return lines
}

func (p *parser) parseSections(root *Element, lines []line) {
	for i := 0; i < len(lines); {
		ln := lines[i]
		s := p.src[ln.start:ln.end]
		trimmed := strings.TrimLeft(s, " \t")

		switch {
		case strings.TrimSpace(s) == "":
			i++

		case headlineLevel(s) > 0:
			level := headlineLevel(s)
			h := &Element{Type: TypeHeadline, Begin: ln.start, End: ln.end, Level: level}
			title := ln.start + level
			for title < ln.end && (p.src[title] == ' ' || p.src[title] == '\t') {
				title++
			}
			p.parseInline(h, title, ln.end, true)
			root.append(h)
			i++

		case isBlockBegin(trimmed):
			if blk, next := p.block(lines, i, trimmed); blk != nil {
				root.append(blk)
				i = next
				continue
			}
			root.append(p.keyword(ln, trimmed))
			i++

		case strings.HasPrefix(trimmed, "#+"):
			root.append(p.keyword(ln, trimmed))
			i++

		case isComment(trimmed):
			root.append(&Element{
				Type:  TypeComment,
				Begin: ln.start,
				End:   ln.end,
				Value: strings.TrimSpace(strings.TrimPrefix(trimmed, "#")),
			})
			i++

		default:
			j := i + 1
			for j < len(lines) && isParagraphLine(p.src[lines[j].start:lines[j].end]) {
				j++
			}
			para := &Element{Type: TypeParagraph, Begin: ln.start, End: lines[j-1].end}
			p.parseInline(para, para.Begin, para.End, true)
			root.append(para)
			i = j
		}
	}
}

func headlineLevel(s string) int {
	n := 0
	for n < len(s) && s[n] == '*' {
		n++
	}
	if n == 0 || n >= len(s) || (s[n] != ' ' && s[n] != '\t') {
		return 0
	}
	return n
}

func isBlockBegin(trimmed string) bool {
	return len(trimmed) > len("#+BEGIN_") && strings.EqualFold(trimmed[:len("#+BEGIN_")], "#+BEGIN_")
}

func isComment(trimmed string) bool {
	return trimmed == "#" || strings.HasPrefix(trimmed, "# ")
}

func isParagraphLine(s string) bool {
	trimmed := strings.TrimLeft(s, " \t")
	return strings.TrimSpace(s) != "" &&
		headlineLevel(s) == 0 &&
		!strings.HasPrefix(trimmed, "#+") &&
		!isComment(trimmed)
}

func (p *parser) keyword(ln line, trimmed string) *Element {
	kw := &Element{Type: TypeKeyword, Begin: ln.start, End: ln.end}
	body := strings.TrimPrefix(trimmed, "#+")
	if k := strings.IndexByte(body, ':'); k >= 0 {
		kw.Key = strings.ToUpper(body[:k])
		kw.Value = strings.TrimSpace(body[k+1:])
	} else {
		kw.Key = strings.ToUpper(strings.TrimSpace(body))
	}
	return kw
}

// block returns nil when the block has no matching END line.
func (p *parser) block(lines []line, i int, trimmed string) (*Element, int) {
	header := trimmed[len("#+BEGIN_"):]
	kind := header
	if k := strings.IndexAny(header, " \t"); k >= 0 {
		kind = header[:k]
	}
	endMarker := "#+END_" + kind

	for j := i + 1; j < len(lines); j++ {
		s := strings.TrimSpace(p.src[lines[j].start:lines[j].end])
		if !strings.EqualFold(s, endMarker) {
			continue
		}
		return &Element{
			Type:   TypeBlock,
			Begin:  lines[i].start,
			End:    lines[j].end,
			Key:    strings.ToUpper(kind),
			Params: strings.TrimSpace(header[len(kind):]),
			Value:  p.src[lines[i].next:lines[j].start],
		}, j + 1
	}
	return nil, 0
}

// parseInline fills parent with the objects found in src[begin:end].
func (p *parser) parseInline(parent *Element, begin, end int, allowLinks bool) {
	textStart := begin
	flush := func(upto int) {
		if upto > textStart {
			parent.append(&Element{
				Type:  TypeText,
				Begin: textStart,
				End:   upto,
				Value: p.src[textStart:upto],
			})
		}
	}

	for i := begin; i < end; {
		var (
			el   *Element
			next int
			ok   bool
		)
		if allowLinks {
			el, next, ok = p.bracketLink(i, end)
			if !ok {
				el, next, ok = p.plainLink(i, end)
			}
		}
		if !ok {
			el, next, ok = p.emphasis(i, begin, end, allowLinks)
		}
		if !ok {
			i++
			continue
		}
		flush(i)
		parent.append(el)
		i = next
		textStart = next
	}
	flush(end)
}

func (p *parser) bracketLink(i, end int) (*Element, int, bool) {
	if !strings.HasPrefix(p.src[i:end], "[[") {
		return nil, 0, false
	}
	rest := p.src[i+2 : end]
	closing := strings.Index(rest, "]]")
	if closing < 0 {
		return nil, 0, false
	}
	inner := rest[:closing]
	if strings.ContainsRune(inner, '\n') {
		return nil, 0, false
	}

	target, desc := inner, ""
	descBegin := -1
	if k := strings.Index(inner, "]["); k >= 0 {
		target, desc = inner[:k], inner[k+2:]
		descBegin = i + 2 + k + 2
	}
	if strings.TrimSpace(target) == "" || strings.ContainsAny(target, "[]") {
		return nil, 0, false
	}

	el := &Element{
		Type:        TypeLink,
		Begin:       i,
		End:         i + 2 + closing + 2,
		Bracketed:   true,
		Description: desc,
	}
	p.setTarget(el, target)
	if descBegin >= 0 && desc != "" {
		p.parseInline(el, descBegin, descBegin+len(desc), false)
	}
	return el, el.End, true
}

func (p *parser) plainLink(i, end int) (*Element, int, bool) {
	if i > 0 && isWordByte(p.src[i-1]) {
		return nil, 0, false
	}
	for _, scheme := range p.schemes {
		prefix := scheme + ":"
		if !strings.HasPrefix(p.src[i:end], prefix) {
			continue
		}
		pathStart := i + len(prefix)
		j := pathStart
		for j < end && !isPathStop(p.src[j]) {
			j++
		}
		for j > pathStart && strings.IndexByte(".,;:!?", p.src[j-1]) >= 0 {
			j--
		}
		if j == pathStart {
			return nil, 0, false
		}
		el := &Element{Type: TypeLink, Begin: i, End: j}
		p.setTarget(el, p.src[i:j])
		return el, j, true
	}
	return nil, 0, false
}

func (p *parser) emphasis(i, begin, end int, allowLinks bool) (*Element, int, bool) {
	c := p.src[i]
	typ, ok := markers[c]
	if !ok {
		return nil, 0, false
	}
	if i > begin && !isPreMarker(p.src[i-1]) {
		return nil, 0, false
	}
	if i+1 >= end || isSpace(p.src[i+1]) {
		return nil, 0, false
	}

	lineEnd := end
	if k := strings.IndexByte(p.src[i+1:end], '\n'); k >= 0 {
		lineEnd = i + 1 + k
	}
	for j := i + 2; j < lineEnd; j++ {
		if p.src[j] != c || isSpace(p.src[j-1]) {
			continue
		}
		if j+1 < end && !isPostMarker(p.src[j+1]) {
			continue
		}
		el := &Element{Type: typ, Begin: i, End: j + 1}
		if typ == TypeVerbatim || typ == TypeCode {
			el.Value = p.src[i+1 : j]
		} else {
			p.parseInline(el, i+1, j, allowLinks)
		}
		return el, j + 1, true
	}
	return nil, 0, false
}

func (p *parser) setTarget(el *Element, target string) {
	scheme, raw := splitScheme(target)
	if scheme == "" {
		raw = target
		scheme = "fuzzy"
		if raw == "~" || strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "./") ||
			strings.HasPrefix(raw, "../") || strings.HasPrefix(raw, "~/") {
			scheme = "file"
		}
	}
	el.Scheme = scheme
	el.RawPath = raw

	if urlSchemes[scheme] {
		el.Path = raw
		return
	}
	path, search := splitSearch(raw)
	el.Search = search
	el.Path = ResolvePath(path, p.baseDir)
}

func splitScheme(target string) (string, string) {
	k := strings.IndexByte(target, ':')
	if k <= 0 {
		return "", target
	}
	scheme := target[:k]
	if !isAlpha(scheme[0]) {
		return "", target
	}
	for i := 1; i < len(scheme); i++ {
		c := scheme[i]
		if !isAlpha(c) && !isDigit(c) && c != '+' && c != '-' && c != '.' {
			return "", target
		}
	}
	return scheme, target[k+1:]
}

func isAlpha(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isWordByte(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '_' || c >= 0x80
}

func isPathStop(c byte) bool {
	return isSpace(c) || strings.IndexByte("()<>[]\"'", c) >= 0
}

func isPreMarker(c byte) bool {
	return isSpace(c) || strings.IndexByte("-({'\"[", c) >= 0
}

func isPostMarker(c byte) bool {
	return isSpace(c) || strings.IndexByte("-.,;:!?')}\"\\/]", c) >= 0
}
