package rating

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"movierater/internal/microservices/http-api/models"
)

var ErrUnknownFieldType = errors.New("unknown field type")

// FieldTypeOption is a custom field type with its display label.
type FieldTypeOption struct {
	Type  models.FieldType `json:"value"`
	Label string           `json:"label"`
}

// FieldTypes lists the accepted custom field types.
var FieldTypes = []FieldTypeOption{
	{models.FieldText, "Text"},
	{models.FieldTextarea, "Long Text"},
	{models.FieldNumber, "Number"},
	{models.FieldDate, "Date"},
	{models.FieldDatetimeLocal, "Date & Time"},
	{models.FieldSelect, "Dropdown"},
	{models.FieldSlider, "Slider"},
}

// ParseFieldType validates a type name.
func ParseFieldType(s string) (models.FieldType, error) {
	for _, ft := range FieldTypes {
		if string(ft.Type) == s {
			return ft.Type, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFieldType, s)
}

// NewCustomFieldID returns custom_<unix-ms>_<9 lowercase alphanumerics>.
func NewCustomFieldID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("custom_%d_%s", now.UnixMilli(), random[:9])
}

// ParseOptions splits a comma list, trimming entries and dropping empties.
func ParseOptions(s string) []string {
	var out []string
	for _, opt := range strings.Split(s, ",") {
		if opt = strings.TrimSpace(opt); opt != "" {
			out = append(out, opt)
		}
	}
	return out
}

// NormalizeFields prepares definitions for saving. Blank labels are
// dropped, missing IDs are generated once, options survive only on select
// fields.
func NormalizeFields(defs []models.CustomFieldDefinition, now time.Time) ([]models.CustomFieldDefinition, error) {
	out := make([]models.CustomFieldDefinition, 0, len(defs))
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		def.Label = strings.TrimSpace(def.Label)
		if def.Label == "" {
			continue
		}
		if _, err := ParseFieldType(string(def.Type)); err != nil {
			return nil, err
		}
		if def.ID == "" || seen[def.ID] {
			def.ID = NewCustomFieldID(now)
		}
		seen[def.ID] = true

		if def.Type == models.FieldSelect {
			def.Options = ParseOptions(strings.Join(def.Options, ","))
		} else {
			def.Options = nil
		}
		out = append(out, def)
	}
	return out, nil
}
