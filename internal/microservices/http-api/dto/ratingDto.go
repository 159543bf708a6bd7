package dto

import (
	"movierater/internal/microservices/http-api/models"
	"movierater/internal/rating"
)

// CreateRatingRequest is the rating form submission. Missing category
// values default to the slider midpoint.
type CreateRatingRequest struct {
	MovieTitle   string         `json:"movieTitle" yaml:"movieTitle"`
	Genre        string         `json:"genre,omitempty" yaml:"genre,omitempty"`
	DateWatched  string         `json:"dateWatched,omitempty" yaml:"dateWatched,omitempty"`
	Ratings      map[string]int `json:"ratings" yaml:"ratings"`
	CustomFields map[string]any `json:"customFields,omitempty" yaml:"customFields,omitempty"`
}

// ScorePreviewRequest carries the slider values for a live total.
type ScorePreviewRequest struct {
	Ratings      map[string]int `json:"ratings"`
	CustomFields map[string]any `json:"customFields,omitempty"`
}

type ScorePreviewResponse struct {
	TotalScore float64 `json:"totalScore"`
	FullStars  int     `json:"fullStars"`
	HalfStar   bool    `json:"halfStar"`
}

// RatingQueryParams binds the list filters from the query string.
type RatingQueryParams struct {
	Search string `form:"search"`
	Score  string `form:"score"`
	From   string `form:"from"`
	To     string `form:"to"`
	Sort   string `form:"sort"`
}

// RatingDetailResponse is a record with its labels resolved for display.
type RatingDetailResponse struct {
	models.RatingRecord
	CategoryScores []CategoryScore    `json:"categoryScores"`
	CustomValues   []CustomFieldValue `json:"customValues"`
	FullStars      int                `json:"fullStars"`
	HalfStar       bool               `json:"halfStar"`
}

type CategoryScore struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Score int    `json:"score"`
}

// CustomFieldValue pairs a stored custom value with its current label.
// Values whose definition was deleted keep their ID as label.
type CustomFieldValue struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type,omitempty"`
	Value any    `json:"value"`
}

// FromModelToRatingDetail resolves labels against the current definitions.
func FromModelToRatingDetail(record *models.RatingRecord, defs []models.CustomFieldDefinition) *RatingDetailResponse {
	resp := &RatingDetailResponse{
		RatingRecord:   *record,
		CategoryScores: []CategoryScore{},
		CustomValues:   []CustomFieldValue{},
	}
	resp.FullStars, resp.HalfStar = rating.Stars(record.TotalScore)

	for _, c := range rating.Categories {
		if v, ok := record.Ratings[c.ID]; ok {
			resp.CategoryScores = append(resp.CategoryScores, CategoryScore{ID: c.ID, Label: c.Label, Score: v})
		}
	}

	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		v, ok := record.CustomFields[def.ID]
		if !ok {
			continue
		}
		seen[def.ID] = true
		resp.CustomValues = append(resp.CustomValues, CustomFieldValue{
			ID: def.ID, Label: def.Label, Type: string(def.Type), Value: v,
		})
	}
	for id, v := range record.CustomFields {
		if !seen[id] {
			resp.CustomValues = append(resp.CustomValues, CustomFieldValue{ID: id, Label: id, Value: v})
		}
	}
	return resp
}
