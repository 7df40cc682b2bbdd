package pathmgr

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/kbukum/runkit/errors"
)

// Handler resolves paths under a set of URI prefixes.
type Handler interface {
	// Prefixes returns the URI prefixes this handler supports.
	Prefixes() []string
	// LocalPath returns a path on the local filesystem for the resource.
	LocalPath(ctx context.Context, path string) (string, error)
	// Open opens the resource for reading.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// StatHandler is implemented by handlers that can test existence.
type StatHandler interface {
	Exists(ctx context.Context, path string) (bool, error)
}

// MutatingHandler is implemented by handlers that support write operations.
type MutatingHandler interface {
	Copy(ctx context.Context, src, dst string, overwrite bool) error
	MkdirAll(ctx context.Context, path string) error
	Remove(ctx context.Context, path string) error
}

// nativeHandler serves plain filesystem paths. It is the fallback for
// paths that match no registered prefix.
type nativeHandler struct{}

func (nativeHandler) Prefixes() []string { return nil }

func (nativeHandler) LocalPath(_ context.Context, path string) (string, error) {
	return path, nil
}

func (nativeHandler) Open(_ context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NotFound("file", path).WithCause(err)
	}
	return f, nil
}

func (nativeHandler) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (nativeHandler) Copy(_ context.Context, src, dst string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(dst); err == nil {
			return errors.AlreadyExists("file", dst)
		}
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.NotFound("file", src).WithCause(err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

func (nativeHandler) MkdirAll(_ context.Context, path string) error {
	return os.MkdirAll(path, 0o755)
}

func (nativeHandler) Remove(_ context.Context, path string) error {
	return os.Remove(path)
}
