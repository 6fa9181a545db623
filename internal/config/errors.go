package config

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for a settings file whose extension
	// is not .toml, .yaml or .yml.
	ErrUnsupportedFormat = errors.New("unsupported config format")
	ErrValidationFailed  = errors.New("validation failed")

	errNotBool = errors.New("not a boolean")
)

// ParseError reports a settings source that could not be decoded.
// Line and Column are zero when the decoder gave no position.
type ParseError struct {
	Path    string // file path, or env:NAME for environment variables
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	where := e.Path
	switch {
	case e.Line > 0 && e.Column > 0:
		where = fmt.Sprintf("%s:%d:%d", e.Path, e.Line, e.Column)
	case e.Line > 0:
		where = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	return fmt.Sprintf("config %s: %s", where, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError names a setting whose value cannot be used.
type ValidationError struct {
	Setting string // file key, e.g. "preview.debounce"
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Setting, e.Message)
}

// Unwrap returns Err, or ErrValidationFailed when Err is nil.
func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrValidationFailed
}
