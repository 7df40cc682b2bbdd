package registry

import (
	"sort"
	"sync"

	"github.com/kbukum/runkit/errors"
	"github.com/kbukum/runkit/logger"
)

// Registry maps names to values of type T. Safe for concurrent use.
type Registry[T any] struct {
	name    string
	mu      sync.RWMutex
	entries map[string]T
	log     *logger.Logger
}

// New creates an empty registry. The registry name appears in errors
// and log lines.
func New[T any](name string) *Registry[T] {
	return &Registry[T]{
		name:    name,
		entries: make(map[string]T),
		log:     logger.Default().WithComponent("registry"),
	}
}

// Name returns the registry name.
func (r *Registry[T]) Name() string { return r.name }

// Register stores a value under the given name. Registering a name
// twice is an error; use Unregister first to replace.
func (r *Registry[T]) Register(name string, value T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return errors.AlreadyExists(r.name+" entry", name)
	}
	r.entries[name] = value

	r.log.Debug("entry registered", logger.Fields(
		"registry", r.name,
		"name", name,
	))
	return nil
}

// MustRegister registers a value and panics on duplicate names. Intended
// for registration at program start.
func (r *Registry[T]) MustRegister(name string, value T) {
	if err := r.Register(name, value); err != nil {
		panic(err)
	}
}

// Unregister removes a registered name.
func (r *Registry[T]) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; !exists {
		return errors.NotFound(r.name+" entry", name)
	}
	delete(r.entries, name)
	return nil
}

// Get returns the value registered under name.
func (r *Registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, exists := r.entries[name]
	if !exists {
		var zero T
		return zero, errors.NotFound(r.name+" entry", name)
	}
	return value, nil
}

// Has reports whether the name is registered.
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.entries[name]
	return exists
}

// Names returns all registered names, sorted.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered entries.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
