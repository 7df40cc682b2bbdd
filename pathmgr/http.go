package pathmgr

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/runkit/errors"
	"github.com/kbukum/runkit/logger"
	"github.com/kbukum/runkit/observability"
)

// HTTPConfig configures the HTTP download handler.
type HTTPConfig struct {
	// CacheDir is the root directory for downloaded files.
	CacheDir string
	// Timeout bounds a single download.
	Timeout time.Duration
	// Client overrides the HTTP client (useful for testing).
	Client *http.Client
}

// ApplyDefaults fills unset fields with defaults.
func (c *HTTPConfig) ApplyDefaults() {
	if c.CacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		c.CacheDir = filepath.Join(base, "runkit")
	}
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Minute
	}
	if c.Client == nil {
		c.Client = &http.Client{Timeout: c.Timeout}
	}
}

// HTTPHandler downloads http(s) URLs and caches them on disk. A URL is
// downloaded at most once per handler; later lookups return the cached
// file.
type HTTPHandler struct {
	config HTTPConfig
	mu     sync.Mutex
	cache  map[string]string
	log    *logger.Logger
}

// NewHTTPHandler creates an HTTP download handler.
func NewHTTPHandler(cfg HTTPConfig) *HTTPHandler {
	cfg.ApplyDefaults()
	return &HTTPHandler{
		config: cfg,
		cache:  make(map[string]string),
		log:    logger.Default().WithComponent("pathmgr"),
	}
}

// Prefixes returns the URI prefixes this handler supports.
func (h *HTTPHandler) Prefixes() []string {
	return []string{"http://", "https://"}
}

// LocalPath downloads the URL into the cache dir if needed and returns
// the cached file path. Cache layout: <cacheDir>/<md5(host)>/<url path>.
func (h *HTTPHandler) LocalPath(ctx context.Context, rawURL string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cached, ok := h.cache[rawURL]; ok {
		if _, err := os.Stat(cached); err == nil {
			return cached, nil
		}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.InvalidConfiguration(fmt.Sprintf("invalid url %q", rawURL)).WithCause(err)
	}

	hostSum := md5.Sum([]byte(parsed.Host))
	hostDir := hex.EncodeToString(hostSum[:])
	relPath := filepath.FromSlash(pathFromURL(parsed))
	filePath := filepath.Join(h.config.CacheDir, hostDir, relPath)

	if _, err := os.Stat(filePath); err != nil {
		if err := h.download(ctx, rawURL, filePath); err != nil {
			return "", err
		}
		h.log.Info("url cached", logger.Fields(
			logger.FieldURL, rawURL,
			logger.FieldPath, filePath,
		))
	}

	h.cache[rawURL] = filePath
	return filePath, nil
}

// Open downloads the URL if needed and opens the cached file.
func (h *HTTPHandler) Open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	local, err := h.LocalPath(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return os.Open(local)
}

// Exists issues a HEAD request for the URL.
func (h *HTTPHandler) Exists(ctx context.Context, rawURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false, err
	}
	resp, err := h.config.Client.Do(req)
	if err != nil {
		return false, errors.DownloadFailed(rawURL, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode < http.StatusBadRequest, nil
}

// download fetches the URL into filePath via a temp file and rename, so
// a partial download never shows up in the cache.
func (h *HTTPHandler) download(ctx context.Context, rawURL, filePath string) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanPathDownload)
	defer span.End()
	observability.SetSpanAttribute(ctx, "url", rawURL)

	h.log.Info("downloading", logger.Fields(logger.FieldURL, rawURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := h.config.Client.Do(req)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return errors.DownloadFailed(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %s", resp.Status)
		observability.SetSpanError(ctx, err)
		return errors.DownloadFailed(rawURL, err)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}

	tmpPath := filePath + ".download-" + uuid.NewString()
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		observability.SetSpanError(ctx, err)
		return errors.DownloadFailed(rawURL, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, filePath)
}

// pathFromURL maps a URL path to a relative cache path.
func pathFromURL(u *url.URL) string {
	p := u.Path
	if p == "" || p == "/" {
		return "index"
	}
	unescaped, err := url.PathUnescape(p)
	if err == nil {
		p = unescaped
	}
	for len(p) > 0 && p[0] == '/' {
		p = p[1:]
	}
	return p
}
