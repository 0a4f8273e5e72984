package dynamicform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/carbonfield/emissions-engine/pkg/models"
)

// Validate checks values against the form schema and returns a map of field
// name to error message for every violated constraint. An empty map means the
// form is valid. Fields hidden by their conditional rule are skipped entirely,
// including number checks.
func Validate(schema *models.FormSchema, values models.FormValues) map[string]string {
	errs := make(map[string]string)
	for _, section := range schema.Sections {
		validateFields(section.Fields, values, errs)
	}
	return errs
}

// ValidateIdentification checks values against the identification schema.
// Identification fields have no conditional rules or numeric bounds, so only
// required-ness applies.
func ValidateIdentification(schema *models.IdentificationSchema, values models.Identification) map[string]string {
	errs := make(map[string]string)
	validateFields(schema.Fields, models.FormValues(values), errs)
	return errs
}

func validateFields(fields []models.Field, values models.FormValues, errs map[string]string) {
	for i := range fields {
		field := &fields[i]
		if !Visible(field, values) {
			continue
		}

		raw := values[field.Name]
		if field.Required && strings.TrimSpace(raw) == "" {
			errs[field.Name] = fmt.Sprintf("%s is required", field.Label)
			continue
		}

		if field.Type == models.FieldTypeNumber && raw != "" {
			value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				errs[field.Name] = fmt.Sprintf("%s must be a valid number", field.Label)
				continue
			}
			if field.Min != nil && value < *field.Min {
				errs[field.Name] = fmt.Sprintf("%s must be at least %s", field.Label, formatBound(*field.Min))
			}
			if field.Max != nil && value > *field.Max {
				errs[field.Name] = fmt.Sprintf("%s must be at most %s", field.Label, formatBound(*field.Max))
			}
		}
	}
}

// formatBound renders a numeric bound without trailing zeros ("24", "0.5").
func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
