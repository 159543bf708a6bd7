package detect

import (
	"context"

	"movierater/internal/pkg/logger"
)

// BatchResult is the outcome of detecting one URL.
type BatchResult struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Genre string `json:"genre,omitempty"`
	Error string `json:"error,omitempty"`
}

// PageLoader loads a page snapshot for a URL.
type PageLoader interface {
	Fetch(ctx context.Context, rawURL string) (*Page, error)
}

// BatchDetect fetches and detects every URL using workers goroutines.
// Results keep the order of urls. A failed fetch only fills that entry's
// Error.
func BatchDetect(ctx context.Context, d *Detector, loader PageLoader, urls []string, workers int, log *logger.Logger) []BatchResult {
	results := make([]BatchResult, len(urls))
	ran := make([]bool, len(urls))
	if len(urls) == 0 {
		return results
	}
	if workers > len(urls) {
		workers = len(urls)
	}

	pool := NewWorkerPool(ctx, workers, log)
	pool.Start()

	for i, rawURL := range urls {
		i, rawURL := i, rawURL
		results[i].URL = rawURL
		submitted := pool.Submit(func(ctx context.Context) error {
			ran[i] = true
			page, err := loader.Fetch(ctx, rawURL)
			if err != nil {
				results[i].Error = err.Error()
				return err
			}
			r := d.Detect(page)
			results[i].Title = r.Title
			results[i].Genre = r.Genre
			return nil
		})
		if !submitted {
			results[i].Error = context.Canceled.Error()
		}
	}

	pool.Wait()

	for i := range results {
		if !ran[i] && results[i].Error == "" {
			results[i].Error = context.Canceled.Error()
		}
	}
	return results
}
