package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"movierater/internal/microservices/http-api/models"
)

func TestCategories(t *testing.T) {
	assert.Len(t, Categories, 10)
	assert.True(t, IsCategory("cinematography"))
	assert.False(t, IsCategory("plot"))
	assert.Equal(t, "Sound Design", CategoryLabel("sound"))
	assert.Equal(t, "plot", CategoryLabel("plot"))
}

func TestEnabledCategories(t *testing.T) {
	enabled := EnabledCategories(models.ToggleSettings{"sound": false, "acting": true})
	assert.Len(t, enabled, 9)
	for _, c := range enabled {
		assert.NotEqual(t, "sound", c.ID)
	}
	assert.Len(t, EnabledCategories(nil), 10)
}

func TestVisibleSections_HidesEmptySections(t *testing.T) {
	toggles := models.ToggleSettings{"sound": false, "music": false, "quality": false}
	sections := VisibleSections(toggles)

	assert.Len(t, sections, 2)
	assert.Equal(t, SectionTimeSegments, sections[0].Name)
	assert.Equal(t, SectionCreativeAspects, sections[1].Name)
	assert.Len(t, sections[1].Categories, 4)
}

func TestSanitizeToggles(t *testing.T) {
	got := SanitizeToggles(models.ToggleSettings{"sound": false, "bogus": false})
	assert.Equal(t, models.ToggleSettings{"sound": false}, got)
}
