// Package storage persists the rating data as JSON values under a few
// fixed keys.
package storage

import (
	"context"
	"errors"
)

// Fixed keys.
const (
	KeyMovieRatings           = "movieRatings"
	KeyCustomFields           = "customFields"
	KeyRatingCategorySettings = "ratingCategorySettings"
	KeyFieldSettings          = "fieldSettings"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// Store is an asynchronous key-value store of JSON documents.
type Store interface {
	// Get decodes the value under key into dst. found is false, and dst
	// untouched, when the key is absent.
	Get(ctx context.Context, key string, dst any) (found bool, err error)
	// Set replaces the value under key.
	Set(ctx context.Context, key string, value any) error
	Close() error
}
