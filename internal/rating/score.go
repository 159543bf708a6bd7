package rating

import (
	"math"

	"movierater/internal/microservices/http-api/models"
)

// Mean averages values and rounds to one decimal. An empty input yields 0.
func Mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0
	for _, v := range values {
		total += v
	}
	return math.Round(float64(total)/float64(len(values))*10) / 10
}

// Contributions collects the numeric inputs of a rating in form order:
// every stored category value, then every slider field value when
// includeSliders is set.
func Contributions(ratings map[string]int, custom map[string]any, fields []models.CustomFieldDefinition, includeSliders bool) []int {
	values := make([]int, 0, len(ratings)+len(fields))
	for _, c := range Categories {
		if v, ok := ratings[c.ID]; ok {
			values = append(values, v)
		}
	}
	if !includeSliders {
		return values
	}
	for _, f := range fields {
		if f.Type != models.FieldSlider {
			continue
		}
		if v, ok := asInt(custom[f.ID]); ok {
			values = append(values, v)
		}
	}
	return values
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// Stars converts a 0..10 score to a five-star display: full stars and
// whether a half star follows.
func Stars(score float64) (full int, half bool) {
	full = int(math.Floor(score / 2))
	half = math.Mod(score/2, 1) >= 0.5
	return full, half
}
