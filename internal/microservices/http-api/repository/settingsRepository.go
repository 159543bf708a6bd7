package repository

import (
	"context"
	"fmt"

	"movierater/internal/microservices/http-api/models"
	"movierater/internal/storage"
)

// SettingsRepository reads and writes the custom field definitions and the
// two toggle maps. Absent keys read as empty.
type SettingsRepository interface {
	GetCustomFields(ctx context.Context) ([]models.CustomFieldDefinition, error)
	SaveCustomFields(ctx context.Context, fields []models.CustomFieldDefinition) error
	GetCategorySettings(ctx context.Context) (models.ToggleSettings, error)
	SaveCategorySettings(ctx context.Context, settings models.ToggleSettings) error
	GetFieldSettings(ctx context.Context) (models.ToggleSettings, error)
	SaveFieldSettings(ctx context.Context, settings models.ToggleSettings) error
}

type settingsRepository struct {
	store storage.Store
}

func NewSettingsRepository(store storage.Store) SettingsRepository {
	return &settingsRepository{store: store}
}

func (r *settingsRepository) GetCustomFields(ctx context.Context) ([]models.CustomFieldDefinition, error) {
	fields := []models.CustomFieldDefinition{}
	if _, err := r.store.Get(ctx, storage.KeyCustomFields, &fields); err != nil {
		return nil, fmt.Errorf("get custom fields: %w", err)
	}
	if fields == nil {
		fields = []models.CustomFieldDefinition{}
	}
	return fields, nil
}

func (r *settingsRepository) SaveCustomFields(ctx context.Context, fields []models.CustomFieldDefinition) error {
	if fields == nil {
		fields = []models.CustomFieldDefinition{}
	}
	if err := r.store.Set(ctx, storage.KeyCustomFields, fields); err != nil {
		return fmt.Errorf("save custom fields: %w", err)
	}
	return nil
}

func (r *settingsRepository) getToggles(ctx context.Context, key string) (models.ToggleSettings, error) {
	settings := models.ToggleSettings{}
	if _, err := r.store.Get(ctx, key, &settings); err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	if settings == nil {
		settings = models.ToggleSettings{}
	}
	return settings, nil
}

func (r *settingsRepository) saveToggles(ctx context.Context, key string, settings models.ToggleSettings) error {
	if settings == nil {
		settings = models.ToggleSettings{}
	}
	if err := r.store.Set(ctx, key, settings); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (r *settingsRepository) GetCategorySettings(ctx context.Context) (models.ToggleSettings, error) {
	return r.getToggles(ctx, storage.KeyRatingCategorySettings)
}

func (r *settingsRepository) SaveCategorySettings(ctx context.Context, settings models.ToggleSettings) error {
	return r.saveToggles(ctx, storage.KeyRatingCategorySettings, settings)
}

func (r *settingsRepository) GetFieldSettings(ctx context.Context) (models.ToggleSettings, error) {
	return r.getToggles(ctx, storage.KeyFieldSettings)
}

func (r *settingsRepository) SaveFieldSettings(ctx context.Context, settings models.ToggleSettings) error {
	return r.saveToggles(ctx, storage.KeyFieldSettings, settings)
}
