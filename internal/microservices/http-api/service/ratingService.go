package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"movierater/internal/detect"
	"movierater/internal/microservices/http-api/dto"
	"movierater/internal/microservices/http-api/models"
	"movierater/internal/microservices/http-api/repository"
	"movierater/internal/rating"
)

var (
	ErrTitleRequired      = errors.New("movie title is required")
	ErrInvalidRating      = errors.New("rating must be between 1 and 10")
	ErrRatingNotFound     = errors.New("rating not found")
	ErrInvalidDateWatched = errors.New("invalid date watched")
	ErrFieldRequired      = errors.New("custom field is required")
	ErrInvalidFieldValue  = errors.New("invalid custom field value")
	ErrFeatureDisabled    = errors.New("feature disabled")
	ErrNoScoredCategories = errors.New("no rating categories or slider fields are enabled")
)

// Options switches the optional rating features.
type Options struct {
	CustomFields    bool
	CategoryToggles bool
	// Location interprets datetime-local values. Defaults to time.Local.
	Location *time.Location
}

type RatingService interface {
	Submit(ctx context.Context, req dto.CreateRatingRequest) (*models.RatingRecord, error)
	List(ctx context.Context) ([]models.RatingRecord, error)
	Get(ctx context.Context, id int64) (*dto.RatingDetailResponse, error)
	Delete(ctx context.Context, id int64) error
	Query(ctx context.Context, params dto.RatingQueryParams) (*rating.Result, error)
	PreviewScore(ctx context.Context, req dto.ScorePreviewRequest) (*dto.ScorePreviewResponse, error)
}

type ratingService struct {
	ratingRepo   repository.RatingRepository
	settingsRepo repository.SettingsRepository
	opts         Options
	now          func() time.Time
}

func NewRatingService(ratingRepo repository.RatingRepository, settingsRepo repository.SettingsRepository, opts Options) RatingService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &ratingService{
		ratingRepo:   ratingRepo,
		settingsRepo: settingsRepo,
		opts:         opts,
		now:          time.Now,
	}
}

// Submit validates a form submission and saves it as a new record.
func (s *ratingService) Submit(ctx context.Context, req dto.CreateRatingRequest) (*models.RatingRecord, error) {
	title := strings.TrimSpace(req.MovieTitle)
	if title == "" {
		return nil, ErrTitleRequired
	}

	scores, err := s.score(ctx, req.Ratings, req.CustomFields)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := &models.RatingRecord{
		ID:           now.UnixMilli(),
		MovieTitle:   title,
		Genre:        detect.CleanGenre(req.Genre),
		Ratings:      scores.ratings,
		CustomFields: scores.custom,
		TotalScore:   scores.total,
		Date:         now.UTC(),
		Timestamp:    now.UnixMilli(),
	}

	fieldToggles, err := s.settingsRepo.GetFieldSettings(ctx)
	if err != nil {
		return nil, err
	}
	if watched := strings.TrimSpace(req.DateWatched); watched != "" && fieldToggles.Enabled(models.FieldDateWatched) {
		t, err := parseDateWatched(watched, s.opts.Location)
		if err != nil {
			return nil, err
		}
		record.Date = t.UTC()
		record.DateWatched = &watched
	}

	if err := s.ratingRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create rating: %w", err)
	}
	return record, nil
}

func (s *ratingService) List(ctx context.Context) ([]models.RatingRecord, error) {
	return s.ratingRepo.List(ctx)
}

func (s *ratingService) Get(ctx context.Context, id int64) (*dto.RatingDetailResponse, error) {
	record, err := s.ratingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}

	defs, err := s.settingsRepo.GetCustomFields(ctx)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToRatingDetail(record, defs), nil
}

// Delete removes a record. Unknown IDs are not an error.
func (s *ratingService) Delete(ctx context.Context, id int64) error {
	return s.ratingRepo.Delete(ctx, id)
}

func (s *ratingService) Query(ctx context.Context, params dto.RatingQueryParams) (*rating.Result, error) {
	q, err := s.parseQuery(params)
	if err != nil {
		return nil, err
	}

	records, err := s.ratingRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := rating.Apply(records, q)
	return &result, nil
}

func (s *ratingService) parseQuery(params dto.RatingQueryParams) (rating.Query, error) {
	q := rating.Query{Search: params.Search}

	var err error
	if q.Score, err = rating.ParseScoreRange(params.Score); err != nil {
		return q, err
	}
	if q.Sort, err = rating.ParseSortKey(params.Sort); err != nil {
		return q, err
	}
	if params.From != "" {
		from, err := rating.ParseDay(params.From, s.opts.Location)
		if err != nil {
			return q, err
		}
		q.From = &from
	}
	if params.To != "" {
		to, err := rating.ParseDay(params.To, s.opts.Location)
		if err != nil {
			return q, err
		}
		q.To = &to
	}
	return q, nil
}

func (s *ratingService) PreviewScore(ctx context.Context, req dto.ScorePreviewRequest) (*dto.ScorePreviewResponse, error) {
	scores, err := s.score(ctx, req.Ratings, req.CustomFields)
	if err != nil {
		return nil, err
	}
	full, half := rating.Stars(scores.total)
	return &dto.ScorePreviewResponse{TotalScore: scores.total, FullStars: full, HalfStar: half}, nil
}

type scoredInput struct {
	ratings map[string]int
	custom  map[string]any
	total   float64
}

// score validates category and custom values and computes the total. Only
// enabled categories are kept; unknown category keys are ignored.
func (s *ratingService) score(ctx context.Context, ratings map[string]int, custom map[string]any) (scoredInput, error) {
	toggles := models.ToggleSettings{}
	if s.opts.CategoryToggles {
		var err error
		if toggles, err = s.settingsRepo.GetCategorySettings(ctx); err != nil {
			return scoredInput{}, err
		}
	}

	out := scoredInput{
		ratings: make(map[string]int),
		custom:  make(map[string]any),
	}
	for _, c := range rating.EnabledCategories(toggles) {
		v, ok := ratings[c.ID]
		if !ok {
			v = rating.DefaultScore
		}
		if v < rating.MinScore || v > rating.MaxScore {
			return scoredInput{}, fmt.Errorf("%w: %s", ErrInvalidRating, c.ID)
		}
		out.ratings[c.ID] = v
	}

	var defs []models.CustomFieldDefinition
	if s.opts.CustomFields {
		var err error
		if defs, err = s.settingsRepo.GetCustomFields(ctx); err != nil {
			return scoredInput{}, err
		}
		if out.custom, err = customValues(defs, custom); err != nil {
			return scoredInput{}, err
		}
	}

	contributions := rating.Contributions(out.ratings, out.custom, defs, s.opts.CustomFields)
	if len(contributions) == 0 {
		return scoredInput{}, ErrNoScoredCategories
	}
	out.total = rating.Mean(contributions)
	return out, nil
}

// customValues keeps values for declared fields only. Sliders are stored as
// integers and default to the midpoint; everything else is stored as text.
func customValues(defs []models.CustomFieldDefinition, input map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(defs))
	for _, def := range defs {
		raw, present := input[def.ID]

		if def.Type == models.FieldSlider {
			v := rating.DefaultScore
			if present {
				n, err := sliderValue(raw)
				if err != nil {
					return nil, fmt.Errorf("%w: %s", err, def.Label)
				}
				v = n
			}
			out[def.ID] = v
			continue
		}

		text := ""
		if present && raw != nil {
			text = strings.TrimSpace(fmt.Sprint(raw))
		}
		if text == "" {
			if def.Required {
				return nil, fmt.Errorf("%w: %s", ErrFieldRequired, def.Label)
			}
			if present {
				out[def.ID] = ""
			}
			continue
		}
		if err := validateText(def, text); err != nil {
			return nil, err
		}
		out[def.ID] = text
	}
	return out, nil
}

func sliderValue(raw any) (int, error) {
	var n float64
	switch v := raw.(type) {
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case float64:
		n = v
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, ErrInvalidFieldValue
		}
		n = float64(parsed)
	default:
		return 0, ErrInvalidFieldValue
	}
	if n != math.Trunc(n) {
		return 0, ErrInvalidFieldValue
	}
	if n < rating.MinScore || n > rating.MaxScore {
		return 0, ErrInvalidRating
	}
	return int(n), nil
}

func validateText(def models.CustomFieldDefinition, text string) error {
	switch def.Type {
	case models.FieldNumber:
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidFieldValue, def.Label)
		}
	case models.FieldDate:
		if _, err := time.Parse(time.DateOnly, text); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidFieldValue, def.Label)
		}
	case models.FieldDatetimeLocal:
		if _, err := time.Parse(datetimeLocal, text); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidFieldValue, def.Label)
		}
	case models.FieldSelect:
		for _, opt := range def.Options {
			if opt == text {
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrInvalidFieldValue, def.Label)
	}
	return nil
}

const datetimeLocal = "2006-01-02T15:04"

// parseDateWatched accepts a datetime-local value, RFC 3339 or a bare date.
func parseDateWatched(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{datetimeLocal, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateWatched, s)
}
