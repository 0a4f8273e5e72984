package models

// Field type values for the dynamic form engine. The set is closed: rendering
// and validation dispatch on these strings, and the schema loader rejects
// anything else.
const (
	FieldTypeText     = "text"
	FieldTypeNumber   = "number"
	FieldTypeDate     = "date"
	FieldTypeSelect   = "select"
	FieldTypeTextarea = "textarea"
)

// ValidFieldType reports whether t is one of the supported field types.
func ValidFieldType(t string) bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeSelect, FieldTypeTextarea:
		return true
	}
	return false
}

// Option is one selectable value/label pair for a select field.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// ConditionalShow makes a field visible only while the controlling field's
// current value is one of Values. Matching is exact string comparison.
type ConditionalShow struct {
	Field  string   `yaml:"field" json:"field"`
	Values []string `yaml:"values" json:"values"`
}

// Field describes one input of a form section.
type Field struct {
	Name            string           `yaml:"name" json:"name"`
	Label           string           `yaml:"label" json:"label"`
	Type            string           `yaml:"type" json:"type"`
	Required        bool             `yaml:"required" json:"required"`
	Placeholder     string           `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Min             *float64         `yaml:"min,omitempty" json:"min,omitempty"`
	Max             *float64         `yaml:"max,omitempty" json:"max,omitempty"`
	Step            *float64         `yaml:"step,omitempty" json:"step,omitempty"`
	Options         []Option         `yaml:"options,omitempty" json:"options,omitempty"`
	ConditionalShow *ConditionalShow `yaml:"conditionalShow,omitempty" json:"conditionalShow,omitempty"`

	// SavePrevious marks identification fields whose historical values feed
	// input suggestions.
	SavePrevious bool `yaml:"savePrevious,omitempty" json:"savePrevious,omitempty"`
}

// Section groups fields under a heading, in render order.
type Section struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Fields      []Field `yaml:"fields" json:"fields"`
}

// CalculationSchema holds the constants of the emissions formula.
type CalculationSchema struct {
	EmissionFactors      map[string]float64 `yaml:"emissionFactors" json:"emissionFactors"`
	ConditionMultipliers map[string]float64 `yaml:"conditionMultipliers" json:"conditionMultipliers"`
}

// FormSchema is the externally supplied description of the logging form.
// Immutable once loaded for the process lifetime.
type FormSchema struct {
	Title        string            `yaml:"title" json:"title"`
	Description  string            `yaml:"description,omitempty" json:"description,omitempty"`
	Sections     []Section         `yaml:"sections" json:"sections"`
	Calculations CalculationSchema `yaml:"calculations" json:"calculations"`
}

// Fields returns every field of every section in schema order.
func (s *FormSchema) Fields() []Field {
	var fields []Field
	for _, section := range s.Sections {
		fields = append(fields, section.Fields...)
	}
	return fields
}

// IdentificationSchema describes the session-identification form. Only text
// and select fields are allowed.
type IdentificationSchema struct {
	Title       string  `yaml:"title" json:"title"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Fields      []Field `yaml:"fields" json:"fields"`
}

// FormValues maps field name to the raw string value as entered. Numeric
// fields are coerced during validation and calculation, never in storage.
type FormValues map[string]string

// Clone returns an independent copy of the values map.
func (v FormValues) Clone() FormValues {
	if v == nil {
		return nil
	}
	out := make(FormValues, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
