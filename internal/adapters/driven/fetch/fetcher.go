package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
	"github.com/custodia-labs/docdig/internal/logger"
)

const (
	// DefaultTimeout bounds a whole fetch including the body.
	DefaultTimeout = 60 * time.Second
	// DefaultMaxBytes bounds the size of a fetched document.
	DefaultMaxBytes = 64 << 20
	// DefaultUserAgent identifies docdig to remote servers.
	DefaultUserAgent = "docdig"
)

// ErrTooLarge is returned when a response body exceeds the size limit.
var ErrTooLarge = errors.New("response body exceeds size limit")

// Config configures the HTTP fetcher.
type Config struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
	RateLimit RateLimitConfig
}

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves documents with HTTP GET.
type Fetcher struct {
	client    *http.Client
	limiter   *RateLimiter
	maxBytes  int64
	userAgent string
}

// New creates a fetcher. Zero config fields take their defaults.
func New(cfg Config) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit = DefaultRateLimit
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:   NewRateLimiter(cfg.RateLimit),
		maxBytes:  cfg.MaxBytes,
		userAgent: cfg.UserAgent,
	}
}

// Fetch opens the document at rawURL. Only http and https are accepted.
// The caller closes the returned body.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*driven.FetchResult, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", domain.ErrInvalidInput)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q: %w", u.Scheme, domain.ErrInvalidInput)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host in %q: %w", rawURL, domain.ErrInvalidInput)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	logger.Debug("GET %s", u.Redacted())
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			f.limiter.Backoff(retryAfter(resp.Header, time.Now()))
		}
		return nil, fmt.Errorf("fetch %s: status %d", u.Redacted(), resp.StatusCode)
	}

	if resp.ContentLength > f.maxBytes {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %d bytes: %w", u.Redacted(), resp.ContentLength, ErrTooLarge)
	}

	return &driven.FetchResult{
		Body:        &limitedBody{r: resp.Body, remaining: f.maxBytes},
		ContentType: resp.Header.Get("Content-Type"),
		URL:         resp.Request.URL.String(),
	}, nil
}

// limitedBody fails with ErrTooLarge instead of silently truncating.
type limitedBody struct {
	r         io.ReadCloser
	remaining int64
}

func (b *limitedBody) Read(p []byte) (int, error) {
	if b.remaining < 0 {
		return 0, ErrTooLarge
	}
	// Read one byte past the limit to detect overflow.
	if int64(len(p)) > b.remaining+1 {
		p = p[:b.remaining+1]
	}
	n, err := b.r.Read(p)
	b.remaining -= int64(n)
	if b.remaining < 0 {
		return n + int(b.remaining), ErrTooLarge
	}
	return n, err
}

func (b *limitedBody) Close() error {
	return b.r.Close()
}
