package models

// FieldType is the input kind of a custom field.
type FieldType string

const (
	FieldText          FieldType = "text"
	FieldTextarea      FieldType = "textarea"
	FieldNumber        FieldType = "number"
	FieldDate          FieldType = "date"
	FieldDatetimeLocal FieldType = "datetime-local"
	FieldSelect        FieldType = "select"
	FieldSlider        FieldType = "slider"
)

// CustomFieldDefinition describes a user-defined input attached to every
// future rating.
type CustomFieldDefinition struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Options  []string  `json:"options,omitempty"`
	Required bool      `json:"required"`
}
