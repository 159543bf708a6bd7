package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"movierater/internal/microservices/http-api/models"
	"movierater/internal/storage"
)

var ErrRecordNotFound = errors.New("record not found")

// RatingRepository keeps the full rating list under the movieRatings key,
// most recent first.
type RatingRepository interface {
	List(ctx context.Context) ([]models.RatingRecord, error)
	GetByID(ctx context.Context, id int64) (*models.RatingRecord, error)
	Create(ctx context.Context, record *models.RatingRecord) error
	Delete(ctx context.Context, id int64) error
}

type ratingRepository struct {
	store storage.Store
	// mu serialises read-modify-write of the whole list.
	mu sync.Mutex
}

func NewRatingRepository(store storage.Store) RatingRepository {
	return &ratingRepository{store: store}
}

func (r *ratingRepository) load(ctx context.Context) ([]models.RatingRecord, error) {
	records := []models.RatingRecord{}
	if _, err := r.store.Get(ctx, storage.KeyMovieRatings, &records); err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	if records == nil {
		records = []models.RatingRecord{}
	}
	return records, nil
}

func (r *ratingRepository) List(ctx context.Context) ([]models.RatingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *ratingRepository) GetByID(ctx context.Context, id int64) (*models.RatingRecord, error) {
	records, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, ErrRecordNotFound
}

// Create prepends record. An ID that is not greater than every stored ID
// is bumped past the current maximum.
func (r *ratingRepository) Create(ctx context.Context, record *models.RatingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return err
	}

	var maxID int64
	for _, existing := range records {
		maxID = max(maxID, existing.ID)
	}
	if record.ID <= maxID {
		record.ID = maxID + 1
	}

	records = append([]models.RatingRecord{*record}, records...)
	if err := r.store.Set(ctx, storage.KeyMovieRatings, records); err != nil {
		return fmt.Errorf("save ratings: %w", err)
	}
	return nil
}

// Delete removes the record with id. Deleting a missing id is a no-op.
func (r *ratingRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, rec := range records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	if err := r.store.Set(ctx, storage.KeyMovieRatings, kept); err != nil {
		return fmt.Errorf("save ratings: %w", err)
	}
	return nil
}
