package svg

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/antchfx/xmlquery"
	"github.com/zeebo/blake3"
)

var (
	// ErrNotSVG is returned when a file has no <svg> root element.
	ErrNotSVG = errors.New("not an svg document")

	// ErrEmptyPath is returned when Load is called without a path.
	ErrEmptyPath = errors.New("empty image path")
)

// Loader decodes SVG files and caches the results.
type Loader struct {
	mu    sync.Mutex
	cache map[string]*Handle

	loads int
}

// NewLoader creates a loader with an empty cache.
func NewLoader() *Loader {
	return &Loader{cache: make(map[string]*Handle)}
}

// Load returns the handle for path. The file is read on every call and a
// cached handle is reused only while its content digest is unchanged, so
// edits that keep the size and modification time are still picked up.
func (l *Loader) Load(path string) (*Handle, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sum := digest(data)

	l.mu.Lock()
	if h, ok := l.cache[path]; ok && h.Hash == sum {
		l.mu.Unlock()
		return h, nil
	}
	l.mu.Unlock()

	h, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	h.Path = path
	h.ModTime = info.ModTime()

	l.mu.Lock()
	l.cache[path] = h
	l.loads++
	l.mu.Unlock()

	return h, nil
}

// Forget drops path from the cache.
func (l *Loader) Forget(path string) {
	l.mu.Lock()
	delete(l.cache, path)
	l.mu.Unlock()
}

// Loads returns the number of decodes performed.
func (l *Loader) Loads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}

// Decode parses SVG data into a handle without a path.
func Decode(data []byte) (*Handle, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}

	svg, err := xmlquery.Query(root, "//*[local-name()='svg']")
	if err != nil {
		return nil, err
	}
	if svg == nil {
		return nil, ErrNotSVG
	}

	h := &Handle{
		Size: int64(len(data)),
		Hash: digest(data),
	}

	h.Width = parseLength(svg.SelectAttr("width"))
	h.Height = parseLength(svg.SelectAttr("height"))
	if h.Width == 0 || h.Height == 0 {
		if w, ht, ok := parseViewBox(svg.SelectAttr("viewBox")); ok {
			if h.Width == 0 {
				h.Width = w
			}
			if h.Height == 0 {
				h.Height = ht
			}
		}
	}

	if title, err := xmlquery.Query(svg, "./*[local-name()='title']"); err == nil && title != nil {
		h.Title = strings.TrimSpace(title.InnerText())
	}

	return h, nil
}

// digest returns the hex blake3 sum of data.
func digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// parseLength reads "120", "120px" or "4.5mm". Percentages are unknown.
func parseLength(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "%") {
		return 0
	}
	end := len(s)
	for end > 0 && (s[end-1] < '0' || s[end-1] > '9') && s[end-1] != '.' {
		end--
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseViewBox(s string) (float64, float64, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	if len(fields) != 4 {
		return 0, 0, false
	}
	w, err1 := strconv.ParseFloat(fields[2], 64)
	h, err2 := strconv.ParseFloat(fields[3], 64)
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}
