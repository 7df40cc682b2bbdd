package pathmgr

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/runkit/errors"
)

type fakeHandler struct {
	prefixes []string
	resolved []string
}

func (f *fakeHandler) Prefixes() []string { return f.prefixes }

func (f *fakeHandler) LocalPath(_ context.Context, path string) (string, error) {
	f.resolved = append(f.resolved, path)
	return "/resolved" + path, nil
}

func (f *fakeHandler) Open(_ context.Context, _ string) (io.ReadCloser, error) {
	return nil, errors.Unsupported("open", f.prefixes[0])
}

func TestManagerNativeFallback(t *testing.T) {
	m := NewManager()
	got, err := m.LocalPath(context.Background(), "/etc/hosts")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/etc/hosts" {
		t.Errorf("got %q", got)
	}
}

func TestManagerLongestPrefixWins(t *testing.T) {
	short := &fakeHandler{prefixes: []string{"s3://"}}
	long := &fakeHandler{prefixes: []string{"s3://special/"}}

	m := NewManager()
	if err := m.Register(short, false); err != nil {
		t.Fatal(err)
	}
	if err := m.Register(long, false); err != nil {
		t.Fatal(err)
	}

	if _, err := m.LocalPath(context.Background(), "s3://special/file"); err != nil {
		t.Fatal(err)
	}
	if len(long.resolved) != 1 || len(short.resolved) != 0 {
		t.Errorf("long=%v short=%v", long.resolved, short.resolved)
	}

	if _, err := m.LocalPath(context.Background(), "s3://other/file"); err != nil {
		t.Fatal(err)
	}
	if len(short.resolved) != 1 {
		t.Errorf("short handler not used: %v", short.resolved)
	}
}

func TestManagerDuplicatePrefix(t *testing.T) {
	m := NewManager()
	h := &fakeHandler{prefixes: []string{"x://"}}
	if err := m.Register(h, false); err != nil {
		t.Fatal(err)
	}

	err := m.Register(&fakeHandler{prefixes: []string{"x://"}}, false)
	if !errors.HasCode(err, errors.ErrCodeAlreadyExists) {
		t.Errorf("expected ALREADY_EXISTS, got %v", err)
	}
	if err := m.Register(&fakeHandler{prefixes: []string{"x://"}}, true); err != nil {
		t.Errorf("override register failed: %v", err)
	}
}

func TestManagerUnsupportedOps(t *testing.T) {
	m := NewManager()
	if err := m.Register(&fakeHandler{prefixes: []string{"x://"}}, false); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Exists(context.Background(), "x://f"); !errors.HasCode(err, errors.ErrCodeUnsupported) {
		t.Errorf("expected UNSUPPORTED, got %v", err)
	}
	if err := m.Remove(context.Background(), "x://f"); !errors.HasCode(err, errors.ErrCodeUnsupported) {
		t.Errorf("expected UNSUPPORTED, got %v", err)
	}
}

func TestNativeCopyAndExists(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "sub", "dst.txt")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	ctx := context.Background()

	if err := m.Copy(ctx, src, dst, false); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("copied content = %q", data)
	}

	// no overwrite by default
	if err := m.Copy(ctx, src, dst, false); !errors.HasCode(err, errors.ErrCodeAlreadyExists) {
		t.Errorf("expected ALREADY_EXISTS, got %v", err)
	}
	if err := m.Copy(ctx, src, dst, true); err != nil {
		t.Errorf("overwrite copy failed: %v", err)
	}

	exists, err := m.Exists(ctx, dst)
	if err != nil || !exists {
		t.Errorf("exists = %v, %v", exists, err)
	}
	if err := m.Remove(ctx, dst); err != nil {
		t.Fatal(err)
	}
	exists, _ = m.Exists(ctx, dst)
	if exists {
		t.Error("file survived remove")
	}
}

func TestHTTPHandlerDownloadsOnce(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("remote content"))
	}))
	defer srv.Close()

	h := NewHTTPHandler(HTTPConfig{
		CacheDir: t.TempDir(),
		Timeout:  5 * time.Second,
	})
	ctx := context.Background()
	url := srv.URL + "/models/weights.bin"

	first, err := h.LocalPath(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	second, err := h.LocalPath(ctx, url)
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Errorf("paths differ: %q vs %q", first, second)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1", got)
	}

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "remote content" {
		t.Errorf("cached content = %q", data)
	}
}

func TestHTTPHandlerOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("stream me"))
	}))
	defer srv.Close()

	h := NewHTTPHandler(HTTPConfig{CacheDir: t.TempDir()})
	rc, err := h.Open(context.Background(), srv.URL+"/file.txt")
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "stream me" {
		t.Errorf("content = %q", data)
	}
}

func TestHTTPHandlerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	h := NewHTTPHandler(HTTPConfig{CacheDir: t.TempDir()})
	_, err := h.LocalPath(context.Background(), srv.URL+"/missing")
	if !errors.HasCode(err, errors.ErrCodeDownloadFailed) {
		t.Errorf("expected DOWNLOAD_FAILED, got %v", err)
	}
	if !errors.IsRetryable(err) {
		t.Error("download failures should be retryable")
	}
}

func TestHTTPHandlerExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/there" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	h := NewHTTPHandler(HTTPConfig{CacheDir: t.TempDir()})
	ctx := context.Background()

	exists, err := h.Exists(ctx, srv.URL+"/there")
	if err != nil || !exists {
		t.Errorf("exists = %v, %v", exists, err)
	}
	exists, err = h.Exists(ctx, srv.URL+"/not-there")
	if err != nil || exists {
		t.Errorf("exists = %v, %v", exists, err)
	}
}

func TestRedirectHandler(t *testing.T) {
	target := &fakeHandler{prefixes: []string{"s3://bucket/"}}

	m := NewManager()
	if err := m.Register(target, false); err != nil {
		t.Fatal(err)
	}
	if err := m.Register(NewRedirectHandler(m, "models://", "s3://bucket/models/"), false); err != nil {
		t.Fatal(err)
	}

	got, err := m.LocalPath(context.Background(), "models://resnet.bin")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/resolveds3://bucket/models/resnet.bin" {
		t.Errorf("resolved %q", got)
	}
	if len(target.resolved) != 1 || target.resolved[0] != "s3://bucket/models/resnet.bin" {
		t.Errorf("target saw %v", target.resolved)
	}
}

func TestRedirectHandlerToNative(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "f.txt"), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	if err := m.Register(NewRedirectHandler(m, "local://", dir+"/"), false); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	exists, err := m.Exists(ctx, "local://f.txt")
	if err != nil || !exists {
		t.Fatalf("exists = %v, %v", exists, err)
	}

	rc, err := m.Open(ctx, "local://f.txt")
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil || string(data) != "data" {
		t.Errorf("read %q, %v", data, err)
	}

	if err := m.Copy(ctx, "local://f.txt", "local://copy.txt", false); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "copy.txt")); err != nil {
		t.Errorf("copy target missing: %v", err)
	}
	if err := m.Remove(ctx, "local://copy.txt"); err != nil {
		t.Fatal(err)
	}
}

func TestManagerWithHTTPHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	m := NewManager()
	if err := m.Register(NewHTTPHandler(HTTPConfig{CacheDir: t.TempDir()}), false); err != nil {
		t.Fatal(err)
	}

	local, err := m.LocalPath(context.Background(), srv.URL+"/a")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(local); err != nil {
		t.Errorf("cached file missing: %v", err)
	}
}
