package pathmgr

import (
	"context"
	"io"
	"strings"
)

// RedirectHandler maps a new prefix onto a prefix already served by the
// Manager, so callers can use a short scheme for a longer location:
//
//	m.Register(NewRedirectHandler(m, "models://", "https://example.com/models/"), false)
//
// Every operation rewrites the prefix and resolves the rewritten path
// through the Manager again, so the target handler's capabilities apply.
type RedirectHandler struct {
	manager   *Manager
	newPrefix string
	oldPrefix string
}

// NewRedirectHandler creates a handler redirecting newPrefix to oldPrefix.
func NewRedirectHandler(m *Manager, newPrefix, oldPrefix string) *RedirectHandler {
	return &RedirectHandler{
		manager:   m,
		newPrefix: newPrefix,
		oldPrefix: oldPrefix,
	}
}

// Prefixes returns the redirected prefix.
func (h *RedirectHandler) Prefixes() []string {
	return []string{h.newPrefix}
}

func (h *RedirectHandler) redirect(path string) string {
	return h.oldPrefix + strings.TrimPrefix(path, h.newPrefix)
}

// LocalPath resolves the redirected path through the manager.
func (h *RedirectHandler) LocalPath(ctx context.Context, path string) (string, error) {
	return h.manager.LocalPath(ctx, h.redirect(path))
}

// Open opens the redirected path through the manager.
func (h *RedirectHandler) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return h.manager.Open(ctx, h.redirect(path))
}

// Exists tests the redirected path through the manager.
func (h *RedirectHandler) Exists(ctx context.Context, path string) (bool, error) {
	return h.manager.Exists(ctx, h.redirect(path))
}

// Copy copies between redirected paths through the manager.
func (h *RedirectHandler) Copy(ctx context.Context, src, dst string, overwrite bool) error {
	return h.manager.Copy(ctx, h.redirect(src), h.redirect(dst), overwrite)
}

// MkdirAll creates the redirected directory hierarchy through the manager.
func (h *RedirectHandler) MkdirAll(ctx context.Context, path string) error {
	return h.manager.MkdirAll(ctx, h.redirect(path))
}

// Remove removes the redirected resource through the manager.
func (h *RedirectHandler) Remove(ctx context.Context, path string) error {
	return h.manager.Remove(ctx, h.redirect(path))
}
