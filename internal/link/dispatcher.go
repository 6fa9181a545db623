package link

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Handlers are the callbacks bound to a scheme. Any of them may be nil.
type Handlers struct {
	// Tooltip returns hover text for the link target.
	Tooltip func(path string) string

	// Activate runs once per occurrence during a highlighting pass.
	Activate func(begin, end int, path string, bracketed bool)

	// Follow opens the link target.
	Follow func(path string) error
}

// Binding is a registered scheme.
type Binding struct {
	Scheme   string
	Handlers Handlers
}

// Dispatcher holds the scheme bindings of one editor instance.
type Dispatcher struct {
	mu       sync.RWMutex
	bindings map[string]Binding
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{bindings: make(map[string]Binding)}
}

// ValidateScheme checks that scheme can name a link type.
func ValidateScheme(scheme string) error {
	if strings.TrimSpace(scheme) == "" {
		return &ConfigurationError{Scheme: scheme, Reason: "scheme is empty", Err: ErrInvalidScheme}
	}
	for _, r := range scheme {
		if r == ':' || unicode.IsSpace(r) || r == '[' || r == ']' {
			return &ConfigurationError{
				Scheme: scheme,
				Reason: fmt.Sprintf("scheme contains %q", r),
				Err:    ErrInvalidScheme,
			}
		}
	}
	return nil
}

// Register binds h to scheme, replacing any earlier binding.
func (d *Dispatcher) Register(scheme string, h Handlers) error {
	if err := ValidateScheme(scheme); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.bindings[scheme] = Binding{Scheme: scheme, Handlers: h}
	return nil
}

// Unregister removes a binding. It reports whether one existed.
func (d *Dispatcher) Unregister(scheme string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.bindings[scheme]
	delete(d.bindings, scheme)
	return ok
}

// Lookup returns the handlers bound to scheme.
func (d *Dispatcher) Lookup(scheme string) (Handlers, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	b, ok := d.bindings[scheme]
	return b.Handlers, ok
}

// Schemes returns the registered schemes in sorted order.
func (d *Dispatcher) Schemes() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	schemes := make([]string, 0, len(d.bindings))
	for s := range d.bindings {
		schemes = append(schemes, s)
	}
	sort.Strings(schemes)
	return schemes
}

// Len returns the number of bindings.
func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.bindings)
}

// Activate calls the scheme's Activate handler. It reports whether a
// handler ran.
func (d *Dispatcher) Activate(scheme string, begin, end int, path string, bracketed bool) bool {
	h, ok := d.Lookup(scheme)
	if !ok || h.Activate == nil {
		return false
	}
	h.Activate(begin, end, path, bracketed)
	return true
}

// Follow calls the scheme's Follow handler.
func (d *Dispatcher) Follow(scheme, path string) error {
	h, ok := d.Lookup(scheme)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownScheme, scheme)
	}
	if h.Follow == nil {
		return fmt.Errorf("%w: %s", ErrNoFollowHandler, scheme)
	}
	return h.Follow(path)
}

// Tooltip returns the scheme's hover text, or "" when it has none.
func (d *Dispatcher) Tooltip(scheme, path string) string {
	h, ok := d.Lookup(scheme)
	if !ok || h.Tooltip == nil {
		return ""
	}
	return h.Tooltip(path)
}
