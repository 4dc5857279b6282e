package provider

import (
	"fmt"
	"strings"
)

// Registry is the fixed table of registered adapters. Iteration order is
// registration order; an adapter is disabled simply by not registering it.
type Registry struct {
	order []Provider
	byID  map[string]Provider
}

// NewRegistry builds a registry from the given adapters.
func NewRegistry(providers ...Provider) (*Registry, error) {
	r := &Registry{byID: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		if p == nil {
			return nil, fmt.Errorf("nil provider")
		}
		id := strings.ToLower(strings.TrimSpace(p.ID()))
		if id == "" {
			return nil, fmt.Errorf("provider with empty id")
		}
		if _, exists := r.byID[id]; exists {
			return nil, fmt.Errorf("duplicate provider %q", id)
		}
		r.byID[id] = p
		r.order = append(r.order, p)
	}
	return r, nil
}

// Get returns the adapter registered under id.
func (r *Registry) Get(id string) (Provider, bool) {
	p, ok := r.byID[strings.ToLower(strings.TrimSpace(id))]
	return p, ok
}

// All returns the adapters in registration order. The returned slice is
// shared; callers must not mutate it.
func (r *Registry) All() []Provider {
	return r.order
}

// Len returns the number of registered adapters.
func (r *Registry) Len() int {
	return len(r.order)
}
