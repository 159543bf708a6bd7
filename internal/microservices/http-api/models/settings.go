package models

// ToggleSettings maps a category or field ID to whether it is enabled.
// Absent keys are enabled.
type ToggleSettings map[string]bool

// Enabled reports whether id is switched on.
func (t ToggleSettings) Enabled(id string) bool {
	enabled, ok := t[id]
	return !ok || enabled
}

// Default field IDs shown on the rating form.
const (
	FieldMovieTitle  = "movieTitle"
	FieldDateWatched = "dateWatched"
)

// DefaultField is one of the built-in form fields.
type DefaultField struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Required   bool   `json:"required"`
	CanDisable bool   `json:"canDisable"`
}

// DefaultFields lists the built-in form fields in display order.
var DefaultFields = []DefaultField{
	{ID: FieldMovieTitle, Label: "Movie Title", Required: true, CanDisable: false},
	{ID: FieldDateWatched, Label: "Date Watched", Required: false, CanDisable: true},
}
