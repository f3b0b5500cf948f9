// Package registry provides idempotent component initialization.
//
// Components that inject UI or attach observers must initialize at most once
// per page context. Instead of scattered "already initialized" flags, each
// component registers under a stable identifier; repeated construction
// returns the existing instance.
package registry

import "sync"

// Registry maps stable identifiers to singleton component instances
type Registry struct {
	mu         sync.Mutex
	components map[string]any
}

// New creates an empty registry
func New() *Registry {
	return &Registry{components: make(map[string]any)}
}

// GetOrCreate returns the instance registered under id, constructing it with
// build on first use. The constructor runs at most once per id.
func (r *Registry) GetOrCreate(id string, build func() any) any {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.components[id]; ok {
		return existing
	}

	instance := build()
	r.components[id] = instance
	return instance
}

// Registered reports whether an instance exists for id
func (r *Registry) Registered(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.components[id]
	return ok
}

// Reset drops all registered instances. Used when the page context is torn
// down and components must re-initialize on the next entry.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components = make(map[string]any)
}
