package detect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"movierater/internal/pkg/logger"
)

const (
	defaultUserAgent = "Mozilla/5.0 (compatible; MovieRater/1.0)"

	// Max page size read into memory.
	maxPageBytes = 5 << 20

	fetchMaxRetries   = 3
	fetchInitialDelay = 500 * time.Millisecond
	fetchMaxDelay     = 8 * time.Second
)

// ErrFetchFailed wraps every failure to load a page.
var ErrFetchFailed = errors.New("page fetch failed")

// FetcherConfig configures a Fetcher. Zero values pick defaults.
type FetcherConfig struct {
	Timeout   time.Duration
	RateLimit float64 // requests per second
	UserAgent string
}

// Fetcher loads pages over HTTP with rate limiting and retries.
type Fetcher struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
	log         *logger.Logger

	initialDelay time.Duration
}

// NewFetcher creates a Fetcher. log may be nil.
func NewFetcher(cfg FetcherConfig, log *logger.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 2
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if log == nil {
		log = logger.Nop()
	}

	burst := int(cfg.RateLimit)
	if burst < 1 {
		burst = 1
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		rateLimiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit), burst),
		userAgent:    cfg.UserAgent,
		log:          log,
		initialDelay: fetchInitialDelay,
	}
}

// Fetch downloads rawURL and parses it into a Page. Requests are retried
// on 429 and 5xx responses with exponential backoff.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	var lastErr error
	delay := f.initialDelay

	for attempt := 0; attempt <= fetchMaxRetries; attempt++ {
		if err := f.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", ErrFetchFailed, err)
		}

		page, retryAfter, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return page, nil
		}
		lastErr = err
		if retryAfter < 0 || attempt == fetchMaxRetries {
			break
		}
		if retryAfter > 0 {
			delay = retryAfter
		}

		f.log.Warn("Page fetch failed, retrying",
			"url", rawURL, "attempt", attempt+1, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrFetchFailed, ctx.Err())
		case <-time.After(delay):
		}
		delay = minDuration(delay*2, fetchMaxDelay)
	}

	return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailed, rawURL, lastErr)
}

// fetchOnce performs one request. retryAfter is negative when the error
// is permanent, zero for the default backoff, or the server's hint.
func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*Page, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, -1, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, -1, err
		}
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("HTTP %d", resp.StatusCode)
		if !shouldRetry(resp.StatusCode) {
			return nil, -1, err
		}
		if secs, convErr := strconv.Atoi(resp.Header.Get("Retry-After")); convErr == nil && secs > 0 {
			return nil, time.Duration(secs) * time.Second, err
		}
		return nil, 0, err
	}

	page, err := NewPage(resp.Request.URL.String(), io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, -1, err
	}
	return page, 0, nil
}

func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
