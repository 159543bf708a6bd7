package dto

import (
	"movierater/internal/microservices/http-api/models"
	"movierater/internal/rating"
)

type CustomFieldsRequest struct {
	Fields []models.CustomFieldDefinition `json:"fields"`
}

type CustomFieldsResponse struct {
	Fields     []models.CustomFieldDefinition `json:"fields"`
	FieldTypes []rating.FieldTypeOption       `json:"fieldTypes"`
}

// CategoryStatus is a fixed category and whether it is switched on.
type CategoryStatus struct {
	rating.Category
	Enabled bool `json:"enabled"`
}

type CategoryListResponse struct {
	Categories []CategoryStatus     `json:"categories"`
	Sections   []rating.SectionView `json:"sections"`
	Fields     []DefaultFieldStatus `json:"fields"`
}

type DefaultFieldStatus struct {
	models.DefaultField
	Enabled bool `json:"enabled"`
}
