package rating

import "movierater/internal/microservices/http-api/models"

// Category is one of the fixed rating dimensions.
type Category struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Section string `json:"section"`
}

const (
	SectionTimeSegments      = "Time Segments"
	SectionProductionQuality = "Production Quality"
	SectionCreativeAspects   = "Creative Aspects"
)

// Slider bounds shared by categories and custom slider fields.
const (
	MinScore     = 1
	MaxScore     = 10
	DefaultScore = 5
)

// Categories lists the ten fixed categories in form order.
var Categories = []Category{
	{ID: "first30", Label: "First 30 Minutes", Section: SectionTimeSegments},
	{ID: "middleHour", Label: "Middle Hour", Section: SectionTimeSegments},
	{ID: "last30", Label: "Last 30 Minutes", Section: SectionTimeSegments},
	{ID: "sound", Label: "Sound Design", Section: SectionProductionQuality},
	{ID: "music", Label: "Music Score", Section: SectionProductionQuality},
	{ID: "quality", Label: "Visual Quality", Section: SectionProductionQuality},
	{ID: "directing", Label: "Directing", Section: SectionCreativeAspects},
	{ID: "acting", Label: "Acting", Section: SectionCreativeAspects},
	{ID: "screenplay", Label: "Screenplay", Section: SectionCreativeAspects},
	{ID: "cinematography", Label: "Cinematography", Section: SectionCreativeAspects},
}

var categoryIndex = func() map[string]Category {
	m := make(map[string]Category, len(Categories))
	for _, c := range Categories {
		m[c.ID] = c
	}
	return m
}()

// IsCategory reports whether id names a fixed category.
func IsCategory(id string) bool {
	_, ok := categoryIndex[id]
	return ok
}

// CategoryLabel returns the display label for id, or id itself.
func CategoryLabel(id string) string {
	if c, ok := categoryIndex[id]; ok {
		return c.Label
	}
	return id
}

// EnabledCategories filters Categories by toggles, keeping form order.
func EnabledCategories(toggles models.ToggleSettings) []Category {
	out := make([]Category, 0, len(Categories))
	for _, c := range Categories {
		if toggles.Enabled(c.ID) {
			out = append(out, c)
		}
	}
	return out
}

// SectionView is a section with its enabled categories.
type SectionView struct {
	Name       string     `json:"name"`
	Categories []Category `json:"categories"`
}

// VisibleSections groups the enabled categories by section. Sections whose
// categories are all disabled are left out.
func VisibleSections(toggles models.ToggleSettings) []SectionView {
	var sections []SectionView
	for _, c := range EnabledCategories(toggles) {
		if n := len(sections); n > 0 && sections[n-1].Name == c.Section {
			sections[n-1].Categories = append(sections[n-1].Categories, c)
			continue
		}
		sections = append(sections, SectionView{Name: c.Section, Categories: []Category{c}})
	}
	return sections
}

// SanitizeToggles drops keys that are not fixed categories.
func SanitizeToggles(toggles models.ToggleSettings) models.ToggleSettings {
	out := make(models.ToggleSettings, len(toggles))
	for id, enabled := range toggles {
		if IsCategory(id) {
			out[id] = enabled
		}
	}
	return out
}
