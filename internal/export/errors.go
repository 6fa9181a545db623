package export

import (
	"errors"
	"fmt"

	"github.com/dshills/inklink/internal/document"
)

var (
	// ErrConsistency is returned when a parsed link is not found in the text.
	ErrConsistency = errors.New("link not found at parsed location")

	// ErrUnknownBackend is returned for unregistered backend names.
	ErrUnknownBackend = errors.New("unknown export backend")
)

// ConsistencyError reports the link occurrence a rewrite failed on.
// Occurrences before Index were already rewritten.
type ConsistencyError struct {
	Index      int
	Occurrence document.Occurrence
	Begin      int
	End        int
	Token      string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("rewrite link %d: %q not found in [%d,%d)", e.Index, e.Token, e.Begin, e.End)
}

func (e *ConsistencyError) Unwrap() error {
	return ErrConsistency
}

// HookError wraps a failing pre-parse hook.
type HookError struct {
	Backend string
	Hook    int
	Err     error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("export %s: hook %d: %v", e.Backend, e.Hook, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}
