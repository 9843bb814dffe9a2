package payment

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

// Validate checks the required members of a definition.
func Validate(def Definition) error {
	if def == nil {
		return fmt.Errorf("%w: nil definition", ErrNotImplemented)
	}
	id := def.Identifier()
	if !identifierPattern.MatchString(id) {
		return fmt.Errorf("%w: %w %q", ErrNotImplemented, ErrInvalidIdentifier, id)
	}
	if strings.TrimSpace(def.VerboseName()) == "" {
		return fmt.Errorf("%w: %s has no verbose name", ErrNotImplemented, id)
	}
	return nil
}

// Registry holds the available definitions in registration order.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]Definition
	order []string
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

func (r *Registry) Register(def Definition) error {
	if err := Validate(def); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id := def.Identifier()
	if _, exists := r.defs[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateIdentifier, id)
	}
	r.defs[id] = def
	r.order = append(r.order, id)
	return nil
}

// MustRegister panics on an invalid definition.
func (r *Registry) MustRegister(defs ...Definition) {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) Get(identifier string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[identifier]
	return def, ok
}

func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}
