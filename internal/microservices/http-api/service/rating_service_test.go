package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"movierater/internal/microservices/http-api/dto"
	"movierater/internal/microservices/http-api/models"
	"movierater/internal/microservices/http-api/repository"
	"movierater/internal/rating"
	"movierater/internal/storage"
)

var allFeatures = Options{CustomFields: true, CategoryToggles: true, Location: time.UTC}

func newTestServices(t *testing.T, opts Options) (*ratingService, repository.SettingsRepository) {
	t.Helper()
	store := storage.NewMemoryStore()
	settings := repository.NewSettingsRepository(store)
	svc := NewRatingService(repository.NewRatingRepository(store), settings, opts).(*ratingService)
	clock := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, settings
}

func allScores(v int) map[string]int {
	out := make(map[string]int, len(rating.Categories))
	for _, c := range rating.Categories {
		out[c.ID] = v
	}
	return out
}

func TestRatingService_SubmitAllCategories(t *testing.T) {
	svc, _ := newTestServices(t, allFeatures)
	ctx := context.Background()

	scores := allScores(8)
	scores["sound"] = 6
	record, err := svc.Submit(ctx, dto.CreateRatingRequest{MovieTitle: "  Inception ", Ratings: scores})
	require.NoError(t, err)

	assert.Equal(t, "Inception", record.MovieTitle)
	assert.Len(t, record.Ratings, 10)
	assert.Equal(t, 7.8, record.TotalScore)
	assert.Nil(t, record.DateWatched)
	assert.Equal(t, record.ID, record.Timestamp)
	assert.Empty(t, record.CustomFields)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, record.ID, list[0].ID)
}

func TestRatingService_SubmitValidation(t *testing.T) {
	svc, _ := newTestServices(t, allFeatures)
	ctx := context.Background()

	_, err := svc.Submit(ctx, dto.CreateRatingRequest{MovieTitle: "   "})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.Submit(ctx, dto.CreateRatingRequest{MovieTitle: "Heat", Ratings: map[string]int{"acting": 11}})
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.Submit(ctx, dto.CreateRatingRequest{MovieTitle: "Heat", DateWatched: "yesterday"})
	assert.ErrorIs(t, err, ErrInvalidDateWatched)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRatingService_MissingCategoriesDefaultToMidpoint(t *testing.T) {
	svc, _ := newTestServices(t, allFeatures)

	record, err := svc.Submit(context.Background(), dto.CreateRatingRequest{
		MovieTitle: "Heat",
		Ratings:    map[string]int{"acting": 10, "bogus": 1},
	})
	require.NoError(t, err)

	assert.Equal(t, rating.DefaultScore, record.Ratings["sound"])
	assert.NotContains(t, record.Ratings, "bogus")
	assert.Equal(t, 5.5, record.TotalScore)
}

func TestRatingService_DisabledCategoriesExcluded(t *testing.T) {
	svc, settings := newTestServices(t, allFeatures)
	ctx := context.Background()

	toggles := models.ToggleSettings{}
	for _, c := range rating.Categories[1:] {
		toggles[c.ID] = false
	}
	require.NoError(t, settings.SaveCategorySettings(ctx, toggles))

	record, err := svc.Submit(ctx, dto.CreateRatingRequest{MovieTitle: "Heat", Ratings: allScores(3)})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"first30": 3}, record.Ratings)
	assert.Equal(t, 3.0, record.TotalScore)
}

func TestRatingService_AllCategoriesDisabled(t *testing.T) {
	svc, settings := newTestServices(t, allFeatures)
	ctx := context.Background()

	toggles := models.ToggleSettings{}
	for _, c := range rating.Categories {
		toggles[c.ID] = false
	}
	require.NoError(t, settings.SaveCategorySettings(ctx, toggles))

	_, err := svc.Submit(ctx, dto.CreateRatingRequest{MovieTitle: "Heat"})
	assert.ErrorIs(t, err, ErrNoScoredCategories)

	_, err = svc.PreviewScore(ctx, dto.ScorePreviewRequest{})
	assert.ErrorIs(t, err, ErrNoScoredCategories)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, settings.SaveCustomFields(ctx, []models.CustomFieldDefinition{
		{ID: "custom_1_abc", Label: "Popcorn", Type: models.FieldSlider},
	}))
	record, err := svc.Submit(ctx, dto.CreateRatingRequest{
		MovieTitle:   "Heat",
		CustomFields: map[string]any{"custom_1_abc": 7},
	})
	require.NoError(t, err)
	assert.Empty(t, record.Ratings)
	assert.Equal(t, 7.0, record.TotalScore)
}

func TestRatingService_TogglesIgnoredWhenFeatureOff(t *testing.T) {
	svc, settings := newTestServices(t, Options{Location: time.UTC})
	ctx := context.Background()
	require.NoError(t, settings.SaveCategorySettings(ctx, models.ToggleSettings{"sound": false}))

	record, err := svc.Submit(ctx, dto.CreateRatingRequest{MovieTitle: "Heat", Ratings: allScores(4)})
	require.NoError(t, err)
	assert.Contains(t, record.Ratings, "sound")
}

func TestRatingService_CustomFields(t *testing.T) {
	svc, settings := newTestServices(t, allFeatures)
	ctx := context.Background()

	require.NoError(t, settings.SaveCustomFields(ctx, []models.CustomFieldDefinition{
		{ID: "custom_1_aaaaaaaaa", Label: "Rewatch", Type: models.FieldSlider},
		{ID: "custom_2_bbbbbbbbb", Label: "Mood", Type: models.FieldSelect, Options: []string{"Happy", "Sad"}},
		{ID: "custom_3_ccccccccc", Label: "Notes", Type: models.FieldTextarea},
	}))

	record, err := svc.Submit(ctx, dto.CreateRatingRequest{
		MovieTitle: "Heat",
		Ratings:    allScores(10),
		CustomFields: map[string]any{
			"custom_1_aaaaaaaaa": float64(1),
			"custom_2_bbbbbbbbb": "Sad",
			"undeclared":         "dropped",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, record.CustomFields["custom_1_aaaaaaaaa"])
	assert.Equal(t, "Sad", record.CustomFields["custom_2_bbbbbbbbb"])
	assert.NotContains(t, record.CustomFields, "custom_3_ccccccccc")
	assert.NotContains(t, record.CustomFields, "undeclared")
	// (10*10 + 1) / 11
	assert.Equal(t, 9.2, record.TotalScore)

	_, err = svc.Submit(ctx, dto.CreateRatingRequest{
		MovieTitle:   "Heat",
		CustomFields: map[string]any{"custom_2_bbbbbbbbb": "Angry"},
	})
	assert.ErrorIs(t, err, ErrInvalidFieldValue)

	_, err = svc.Submit(ctx, dto.CreateRatingRequest{
		MovieTitle:   "Heat",
		CustomFields: map[string]any{"custom_1_aaaaaaaaa": 0},
	})
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestRatingService_RequiredCustomField(t *testing.T) {
	svc, settings := newTestServices(t, allFeatures)
	ctx := context.Background()
	require.NoError(t, settings.SaveCustomFields(ctx, []models.CustomFieldDefinition{
		{ID: "custom_1_aaaaaaaaa", Label: "Platform", Type: models.FieldText, Required: true},
	}))

	_, err := svc.Submit(ctx, dto.CreateRatingRequest{MovieTitle: "Heat"})
	assert.ErrorIs(t, err, ErrFieldRequired)
}

func TestRatingService_DateWatched(t *testing.T) {
	svc, settings := newTestServices(t, allFeatures)
	ctx := context.Background()

	record, err := svc.Submit(ctx, dto.CreateRatingRequest{MovieTitle: "Heat", DateWatched: "2024-01-02T21:30"})
	require.NoError(t, err)
	require.NotNil(t, record.DateWatched)
	assert.Equal(t, "2024-01-02T21:30", *record.DateWatched)
	assert.Equal(t, time.Date(2024, 1, 2, 21, 30, 0, 0, time.UTC), record.Date)

	require.NoError(t, settings.SaveFieldSettings(ctx, models.ToggleSettings{models.FieldDateWatched: false}))
	record, err = svc.Submit(ctx, dto.CreateRatingRequest{MovieTitle: "Heat", DateWatched: "2024-01-02T21:30"})
	require.NoError(t, err)
	assert.Nil(t, record.DateWatched)
}

func TestRatingService_GenreCleaned(t *testing.T) {
	svc, _ := newTestServices(t, allFeatures)

	record, err := svc.Submit(context.Background(), dto.CreateRatingRequest{MovieTitle: "Heat", Genre: "genre: crime, drama"})
	require.NoError(t, err)
	assert.Equal(t, "Crime, Drama", record.Genre)
}

func TestRatingService_GetAndDelete(t *testing.T) {
	svc, _ := newTestServices(t, allFeatures)
	ctx := context.Background()

	record, err := svc.Submit(ctx, dto.CreateRatingRequest{MovieTitle: "Heat", Ratings: allScores(7)})
	require.NoError(t, err)

	detail, err := svc.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Heat", detail.MovieTitle)
	assert.Len(t, detail.CategoryScores, 10)
	assert.Equal(t, "First 30 Minutes", detail.CategoryScores[0].Label)
	assert.Equal(t, 3, detail.FullStars)
	assert.True(t, detail.HalfStar)

	require.NoError(t, svc.Delete(ctx, record.ID))
	require.NoError(t, svc.Delete(ctx, record.ID))

	_, err = svc.Get(ctx, record.ID)
	assert.ErrorIs(t, err, ErrRatingNotFound)
}

func TestRatingService_Query(t *testing.T) {
	svc, _ := newTestServices(t, allFeatures)
	ctx := context.Background()

	for title, score := range map[string]int{"Alien": 9, "Aliens": 7, "Heat": 4} {
		_, err := svc.Submit(ctx, dto.CreateRatingRequest{MovieTitle: title, Ratings: allScores(score)})
		require.NoError(t, err)
	}

	result, err := svc.Query(ctx, dto.RatingQueryParams{Search: "alien", Sort: "score-asc"})
	require.NoError(t, err)
	require.Equal(t, 2, result.Shown)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, "Aliens", result.Ratings[0].MovieTitle)
	assert.Equal(t, "Showing 2 of 3 ratings", result.Summary)

	result, err = svc.Query(ctx, dto.RatingQueryParams{Score: "8-10"})
	require.NoError(t, err)
	require.Len(t, result.Ratings, 1)
	assert.Equal(t, "Alien", result.Ratings[0].MovieTitle)

	_, err = svc.Query(ctx, dto.RatingQueryParams{Sort: "sideways"})
	assert.ErrorIs(t, err, rating.ErrInvalidSort)

	_, err = svc.Query(ctx, dto.RatingQueryParams{From: "01/02/2024"})
	assert.ErrorIs(t, err, rating.ErrInvalidDate)
}

func TestRatingService_PreviewScore(t *testing.T) {
	svc, _ := newTestServices(t, allFeatures)

	preview, err := svc.PreviewScore(context.Background(), dto.ScorePreviewRequest{Ratings: allScores(9)})
	require.NoError(t, err)
	assert.Equal(t, 9.0, preview.TotalScore)
	assert.Equal(t, 4, preview.FullStars)
	assert.True(t, preview.HalfStar)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) List(ctx context.Context) ([]models.RatingRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RatingRecord), args.Error(1)
}

func (m *MockRatingRepository) GetByID(ctx context.Context, id int64) (*models.RatingRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RatingRecord), args.Error(1)
}

func (m *MockRatingRepository) Create(ctx context.Context, record *models.RatingRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRatingRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func TestRatingService_StorageFailure(t *testing.T) {
	repo := new(MockRatingRepository)
	settings := repository.NewSettingsRepository(storage.NewMemoryStore())
	svc := NewRatingService(repo, settings, allFeatures)

	boom := errors.New("disk full")
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.RatingRecord")).Return(boom)
	repo.On("List", mock.Anything).Return(nil, boom)

	_, err := svc.Submit(context.Background(), dto.CreateRatingRequest{MovieTitle: "Heat"})
	assert.ErrorIs(t, err, boom)

	_, err = svc.Query(context.Background(), dto.RatingQueryParams{})
	assert.ErrorIs(t, err, boom)

	repo.AssertExpectations(t)
}
