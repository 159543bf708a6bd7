package models

import "time"

// RatingRecord is one saved rating. Records are immutable once saved; the
// only mutation is deletion by ID.
type RatingRecord struct {
	ID           int64          `json:"id" yaml:"id"`
	MovieTitle   string         `json:"movieTitle" yaml:"movieTitle"`
	Genre        string         `json:"genre,omitempty" yaml:"genre,omitempty"`
	Ratings      map[string]int `json:"ratings" yaml:"ratings"`
	CustomFields map[string]any `json:"customFields" yaml:"customFields,omitempty"`
	TotalScore   float64        `json:"totalScore" yaml:"totalScore"`
	Date         time.Time      `json:"date" yaml:"date"`
	DateWatched  *string        `json:"dateWatched" yaml:"dateWatched,omitempty"`
	Timestamp    int64          `json:"timestamp" yaml:"timestamp"`
}
