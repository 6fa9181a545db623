package inkscape

import (
	"fmt"
	"path/filepath"

	"github.com/dshills/inklink/internal/document"
	"github.com/dshills/inklink/internal/engine/buffer"
)

// Prompter asks the user for a value, offering def as the default.
type Prompter interface {
	Prompt(label, def string) (string, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(label, def string) (string, error)

// Prompt calls f.
func (f PrompterFunc) Prompt(label, def string) (string, error) {
	return f(label, def)
}

// Inserter writes links to new images into buffers.
type Inserter struct {
	Scheme    string
	Generator Generator

	// Prompter is consulted when Ask is set.
	Prompter Prompter
	Ask      bool

	// Absolute writes absolute paths instead of document-relative ones.
	Absolute bool
}

// Insertion describes an inserted link.
type Insertion struct {
	// Path is the absolute image path.
	Path string
	// LinkPath is the path as written in the link.
	LinkPath string
	Begin    int
	End      int
}

// Insert generates an image path for buf's document and inserts a bracket
// link to it at offset.
func (in *Inserter) Insert(buf *buffer.Buffer, offset int) (Insertion, error) {
	gen := in.Generator
	if gen == nil {
		gen = UUIDGenerator{}
	}
	docPath := buf.Path()
	dir := docDir(docPath)

	path, err := gen.Generate(docPath)
	if err != nil {
		return Insertion{}, fmt.Errorf("generate image name: %w", err)
	}

	if in.Ask && in.Prompter != nil {
		answer, err := in.Prompter.Prompt("Image file: ", path)
		if err != nil {
			return Insertion{}, err
		}
		if answer != "" {
			path = document.ResolvePath(answer, dir)
		}
	}
	if path == "" {
		return Insertion{}, ErrEmptyPath
	}

	linkPath := path
	if !in.Absolute && dir != "" {
		if rel, err := filepath.Rel(dir, path); err == nil {
			linkPath = rel
		}
	}

	link := "[[" + in.Scheme + ":" + linkPath + "]]"
	end, err := buf.Insert(offset, link)
	if err != nil {
		return Insertion{}, err
	}
	return Insertion{Path: path, LinkPath: linkPath, Begin: offset, End: end}, nil
}
