package service

import (
	"context"
	"time"

	"movierater/internal/microservices/http-api/dto"
	"movierater/internal/microservices/http-api/models"
	"movierater/internal/microservices/http-api/repository"
	"movierater/internal/rating"
)

type SettingsService interface {
	GetCustomFields(ctx context.Context) (*dto.CustomFieldsResponse, error)
	SaveCustomFields(ctx context.Context, fields []models.CustomFieldDefinition) (*dto.CustomFieldsResponse, error)
	GetCategorySettings(ctx context.Context) (models.ToggleSettings, error)
	SaveCategorySettings(ctx context.Context, settings models.ToggleSettings) (models.ToggleSettings, error)
	GetFieldSettings(ctx context.Context) (models.ToggleSettings, error)
	SaveFieldSettings(ctx context.Context, settings models.ToggleSettings) (models.ToggleSettings, error)
	Categories(ctx context.Context) (*dto.CategoryListResponse, error)
}

type settingsService struct {
	repo repository.SettingsRepository
	opts Options
	now  func() time.Time
}

func NewSettingsService(repo repository.SettingsRepository, opts Options) SettingsService {
	return &settingsService{repo: repo, opts: opts, now: time.Now}
}

func (s *settingsService) GetCustomFields(ctx context.Context) (*dto.CustomFieldsResponse, error) {
	if !s.opts.CustomFields {
		return nil, ErrFeatureDisabled
	}
	fields, err := s.repo.GetCustomFields(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.CustomFieldsResponse{Fields: fields, FieldTypes: rating.FieldTypes}, nil
}

// SaveCustomFields replaces the definition list. Existing IDs are kept,
// new ones are generated.
func (s *settingsService) SaveCustomFields(ctx context.Context, fields []models.CustomFieldDefinition) (*dto.CustomFieldsResponse, error) {
	if !s.opts.CustomFields {
		return nil, ErrFeatureDisabled
	}
	normalized, err := rating.NormalizeFields(fields, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveCustomFields(ctx, normalized); err != nil {
		return nil, err
	}
	return &dto.CustomFieldsResponse{Fields: normalized, FieldTypes: rating.FieldTypes}, nil
}

func (s *settingsService) GetCategorySettings(ctx context.Context) (models.ToggleSettings, error) {
	if !s.opts.CategoryToggles {
		return nil, ErrFeatureDisabled
	}
	return s.repo.GetCategorySettings(ctx)
}

// SaveCategorySettings stores the toggles for known categories only.
func (s *settingsService) SaveCategorySettings(ctx context.Context, settings models.ToggleSettings) (models.ToggleSettings, error) {
	if !s.opts.CategoryToggles {
		return nil, ErrFeatureDisabled
	}
	clean := rating.SanitizeToggles(settings)
	if err := s.repo.SaveCategorySettings(ctx, clean); err != nil {
		return nil, err
	}
	return clean, nil
}

func (s *settingsService) GetFieldSettings(ctx context.Context) (models.ToggleSettings, error) {
	return s.repo.GetFieldSettings(ctx)
}

// SaveFieldSettings stores toggles for the default fields. Fields that
// cannot be disabled are forced on.
func (s *settingsService) SaveFieldSettings(ctx context.Context, settings models.ToggleSettings) (models.ToggleSettings, error) {
	clean := make(models.ToggleSettings, len(models.DefaultFields))
	for _, f := range models.DefaultFields {
		enabled, ok := settings[f.ID]
		if !f.CanDisable {
			enabled, ok = true, true
		}
		if ok {
			clean[f.ID] = enabled
		}
	}
	if err := s.repo.SaveFieldSettings(ctx, clean); err != nil {
		return nil, err
	}
	return clean, nil
}

// Categories describes the rating form: every category with its toggle,
// the visible sections and the default fields.
func (s *settingsService) Categories(ctx context.Context) (*dto.CategoryListResponse, error) {
	toggles := models.ToggleSettings{}
	if s.opts.CategoryToggles {
		var err error
		if toggles, err = s.repo.GetCategorySettings(ctx); err != nil {
			return nil, err
		}
	}
	fieldToggles, err := s.repo.GetFieldSettings(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.CategoryListResponse{
		Categories: make([]dto.CategoryStatus, 0, len(rating.Categories)),
		Sections:   rating.VisibleSections(toggles),
		Fields:     make([]dto.DefaultFieldStatus, 0, len(models.DefaultFields)),
	}
	for _, c := range rating.Categories {
		resp.Categories = append(resp.Categories, dto.CategoryStatus{Category: c, Enabled: toggles.Enabled(c.ID)})
	}
	for _, f := range models.DefaultFields {
		resp.Fields = append(resp.Fields, dto.DefaultFieldStatus{
			DefaultField: f,
			Enabled:      !f.CanDisable || fieldToggles.Enabled(f.ID),
		})
	}
	if resp.Sections == nil {
		resp.Sections = []rating.SectionView{}
	}
	return resp, nil
}
