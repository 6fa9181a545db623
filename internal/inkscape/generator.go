package inkscape

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dshills/inklink/internal/document"
	"github.com/dshills/inklink/internal/logging"
	"github.com/dshills/inklink/internal/script"
)

// DefaultImageDirectory is relative to the document's directory.
const DefaultImageDirectory = ".inkscape"

// Generator chooses the path of a new image for a document.
type Generator interface {
	Generate(docPath string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(docPath string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(docPath string) (string, error) {
	return f(docPath)
}

// UUIDGenerator names new images <dir>/<uuid>.svg. A relative Dir is
// resolved against the document's directory.
type UUIDGenerator struct {
	Dir string
}

// Generate returns an absolute path for a new image.
func (g UUIDGenerator) Generate(docPath string) (string, error) {
	dir := g.Dir
	if dir == "" {
		dir = DefaultImageDirectory
	}
	return document.ResolvePath(filepath.Join(dir, uuid.NewString()+".svg"), docDir(docPath)), nil
}

func docDir(docPath string) string {
	if docPath == "" {
		return ""
	}
	return filepath.Dir(docPath)
}

// LuaGenerator asks a user script for file names. The script defines
// filename(docpath) returning a path; relative results are resolved
// against the document's directory. Script errors fall back to Fallback.
type LuaGenerator struct {
	state    *script.State
	fallback Generator
	logger   *logging.Logger
}

// NewLuaGenerator loads scriptPath.
func NewLuaGenerator(scriptPath string, fallback Generator, logger *logging.Logger) (*LuaGenerator, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if fallback == nil {
		fallback = UUIDGenerator{}
	}

	state := script.NewState()
	if err := state.DoFile(scriptPath); err != nil {
		_ = state.Close()
		return nil, fmt.Errorf("load generator script: %w", err)
	}
	if !state.HasFunction("filename") {
		_ = state.Close()
		return nil, fmt.Errorf("generator script %s: %w: filename", scriptPath, script.ErrFunctionNotFound)
	}
	return &LuaGenerator{state: state, fallback: fallback, logger: logger}, nil
}

// Generate calls the script's filename function.
func (g *LuaGenerator) Generate(docPath string) (string, error) {
	name, err := g.state.CallString("filename", docPath)
	if err != nil || name == "" {
		if err == nil {
			err = script.ErrBadReturn
		}
		g.logger.Warn("filename script failed, using default: %v", err)
		return g.fallback.Generate(docPath)
	}
	return document.ResolvePath(name, docDir(docPath)), nil
}

// Close releases the script interpreter.
func (g *LuaGenerator) Close() error {
	return g.state.Close()
}
