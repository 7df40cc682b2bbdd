package pathmgr

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/kbukum/runkit/errors"
	"github.com/kbukum/runkit/logger"
)

// Manager routes paths to handlers by URI prefix. The zero value is not
// usable; create one with NewManager. A Manager is an explicit object:
// callers that need different handler sets hold different Managers.
type Manager struct {
	prefixes []string // sorted descending, most specific first
	handlers map[string]Handler
	native   Handler
	log      *logger.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger used by the manager.
func WithLogger(log *logger.Logger) ManagerOption {
	return func(m *Manager) { m.log = log }
}

// NewManager creates a Manager with only the native filesystem fallback.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		handlers: make(map[string]Handler),
		native:   nativeHandler{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logger.Default().WithComponent("pathmgr")
	}
	return m
}

// Register adds a handler for all of its prefixes. Without override,
// registering a prefix twice is an error.
func (m *Manager) Register(h Handler, override bool) error {
	for _, prefix := range h.Prefixes() {
		if _, exists := m.handlers[prefix]; exists && !override {
			return errors.AlreadyExists("path handler", prefix)
		}
		m.handlers[prefix] = h
	}

	m.prefixes = m.prefixes[:0]
	for prefix := range m.handlers {
		m.prefixes = append(m.prefixes, prefix)
	}
	// descending order puts a nested prefix before its parent, so the
	// most specific handler wins
	sort.Slice(m.prefixes, func(i, j int) bool {
		return m.prefixes[i] > m.prefixes[j]
	})

	m.log.Debug("handler registered", logger.Fields("prefixes", h.Prefixes()))
	return nil
}

// handler finds the Handler for a path, falling back to the native one.
func (m *Manager) handler(path string) Handler {
	for _, prefix := range m.prefixes {
		if strings.HasPrefix(path, prefix) {
			return m.handlers[prefix]
		}
	}
	return m.native
}

// LocalPath resolves a path to a file on the local filesystem,
// downloading and caching it if the handler requires.
func (m *Manager) LocalPath(ctx context.Context, path string) (string, error) {
	return m.handler(path).LocalPath(ctx, path)
}

// Open opens a path for reading.
func (m *Manager) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return m.handler(path).Open(ctx, path)
}

// Exists reports whether the resource exists.
func (m *Manager) Exists(ctx context.Context, path string) (bool, error) {
	h := m.handler(path)
	if sh, ok := h.(StatHandler); ok {
		return sh.Exists(ctx, path)
	}
	return false, errors.Unsupported("exists", handlerName(h))
}

// Copy copies a resource. Both paths must resolve to the same handler.
func (m *Manager) Copy(ctx context.Context, src, dst string, overwrite bool) error {
	h := m.handler(src)
	if m.handler(dst) != h {
		return errors.Unsupported("copy across handlers", handlerName(h))
	}
	if mh, ok := h.(MutatingHandler); ok {
		return mh.Copy(ctx, src, dst, overwrite)
	}
	return errors.Unsupported("copy", handlerName(h))
}

// MkdirAll creates a directory hierarchy.
func (m *Manager) MkdirAll(ctx context.Context, path string) error {
	if mh, ok := m.handler(path).(MutatingHandler); ok {
		return mh.MkdirAll(ctx, path)
	}
	return errors.Unsupported("mkdir", handlerName(m.handler(path)))
}

// Remove removes a resource.
func (m *Manager) Remove(ctx context.Context, path string) error {
	if mh, ok := m.handler(path).(MutatingHandler); ok {
		return mh.Remove(ctx, path)
	}
	return errors.Unsupported("remove", handlerName(m.handler(path)))
}

func handlerName(h Handler) string {
	prefixes := h.Prefixes()
	if len(prefixes) == 0 {
		return "native"
	}
	return prefixes[0]
}
