package trending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"movierater/internal/pkg/logger"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"
	ImageBaseURL   = "https://image.tmdb.org/t/p/w500"

	trendingLimit = 10
	cacheKey      = "trending:movie:week"

	// TMDB allows roughly 40 requests per second.
	rateLimit = 20
	rateBurst = 20

	maxRetries   = 3
	initialDelay = 500 * time.Millisecond
	maxDelay     = 8 * time.Second
)

var (
	ErrTrendingUnavailable = errors.New("trending movies unavailable")
	ErrMissingAPIKey       = errors.New("TMDB API key not configured")
)

// Options configures a Client. Cache may be nil.
type Options struct {
	BaseURL    string
	APIKey     string
	Cache      *redis.Client
	CacheTTL   time.Duration
	HTTPClient *http.Client
}

// Client fetches the weekly trending movies from TMDB.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	cache       *redis.Client
	cacheTTL    time.Duration
	log         *logger.Logger

	initialDelay time.Duration
}

func NewClient(opts Options, log *logger.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:      opts.BaseURL,
		apiKey:       opts.APIKey,
		httpClient:   opts.HTTPClient,
		rateLimiter:  rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		cache:        opts.Cache,
		cacheTTL:     opts.CacheTTL,
		log:          log,
		initialDelay: initialDelay,
	}
}

// WithAPIKey returns a copy of c using apiKey. The cache is shared only
// when apiKey is the configured key, so a foreign or invalid key always
// reaches TMDB.
func (c *Client) WithAPIKey(apiKey string) *Client {
	clone := *c
	if apiKey != c.apiKey {
		clone.cache = nil
	}
	clone.apiKey = apiKey
	return &clone
}

// Trending returns the top ten trending movies of the week. Cached results
// are served when a cache is configured; cache failures only log.
func (c *Client) Trending(ctx context.Context) ([]Movie, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if movies, ok := c.cached(ctx); ok {
		return movies, nil
	}

	var resp trendingResponse
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	if err := c.doRequest(ctx, "/trending/movie/week", params, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTrendingUnavailable, err)
	}

	movies := make([]Movie, 0, trendingLimit)
	for _, m := range resp.Results {
		if len(movies) == trendingLimit {
			break
		}
		movies = append(movies, toMovie(m))
	}

	c.store(ctx, movies)
	return movies, nil
}

func toMovie(m tmdbMovie) Movie {
	title := m.Title
	if title == "" {
		title = m.Name
	}
	movie := Movie{
		ID:          m.ID,
		Title:       title,
		VoteAverage: m.VoteAverage,
		ReleaseDate: m.ReleaseDate,
	}
	if m.PosterPath != "" {
		movie.PosterURL = ImageBaseURL + m.PosterPath
	}
	return movie
}

func (c *Client) cached(ctx context.Context) ([]Movie, bool) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return nil, false
	}
	raw, err := c.cache.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Trending cache read failed", "error", err)
		}
		return nil, false
	}
	var movies []Movie
	if err := json.Unmarshal(raw, &movies); err != nil {
		c.log.Warn("Trending cache entry is corrupt", "error", err)
		return nil, false
	}
	return movies, true
}

func (c *Client) store(ctx context.Context, movies []Movie) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(movies)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, cacheKey, raw, c.cacheTTL).Err(); err != nil {
		c.log.Warn("Trending cache write failed", "error", err)
	}
}

// doRequest performs a GET with rate limiting and retry on 429/5xx.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	fullURL := c.baseURL + endpoint
	if params != nil {
		fullURL += "?" + params.Encode()
	}

	var lastErr error
	delay := c.initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "MovieRater/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxRetries && ctx.Err() == nil {
				c.log.Warn("TMDB request failed, retrying", "attempt", attempt+1, "delay", delay, "error", err)
				if !sleep(ctx, delay) {
					return ctx.Err()
				}
				delay = minDuration(delay*2, maxDelay)
				continue
			}
			return fmt.Errorf("request failed after %d attempts: %w", attempt+1, err)
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)

			if shouldRetry(resp.StatusCode) && attempt < maxRetries {
				if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
					delay = time.Duration(secs) * time.Second
				}
				c.log.Warn("TMDB error response, retrying", "status", resp.StatusCode, "attempt", attempt+1, "delay", delay)
				if !sleep(ctx, delay) {
					return ctx.Err()
				}
				delay = minDuration(delay*2, maxDelay)
				continue
			}
			return lastErr
		}

		err = json.NewDecoder(resp.Body).Decode(result)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("request failed after %d attempts: %w", maxRetries+1, lastErr)
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// shouldRetry determines if an HTTP status code warrants a retry
func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
