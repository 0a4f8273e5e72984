// Package dynamicform evaluates schema-driven forms: field visibility and
// validation over raw string values. Everything here is pure and safe to call
// on every keystroke.
package dynamicform

import "github.com/carbonfield/emissions-engine/pkg/models"

// Visible reports whether a field is active for the given values. A field
// without a conditional rule is always visible; otherwise it is visible only
// while the controlling field's value is in the trigger set (exact string
// match). Hidden fields impose no required-ness and contribute nothing to
// calculation eligibility.
func Visible(field *models.Field, values models.FormValues) bool {
	if field.ConditionalShow == nil {
		return true
	}
	current := values[field.ConditionalShow.Field]
	for _, v := range field.ConditionalShow.Values {
		if v == current {
			return true
		}
	}
	return false
}
