// Package schema loads and normalizes the externally supplied form and
// identification schema documents. Loading fails soft: a missing or malformed
// document is replaced wholesale by the built-in default schema, and the error
// is recorded for diagnostic display.
package schema

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/carbonfield/emissions-engine/pkg/models"
)

// Store loads the schema documents once and serves them for the rest of the
// process lifetime. There is no hot reload.
type Store struct {
	formPath  string
	identPath string
	logger    *zap.Logger

	formOnce  sync.Once
	form      *models.FormSchema
	identOnce sync.Once
	ident     *models.IdentificationSchema

	mu       sync.Mutex
	loadErrs []string
}

// NewStore creates a schema store reading the given document paths.
func NewStore(formPath, identPath string, logger *zap.Logger) *Store {
	return &Store{
		formPath:  formPath,
		identPath: identPath,
		logger:    logger.Named("schema-store"),
	}
}

// FormSchema returns the form schema, loading it on first use. On any read,
// parse, or normalization error the built-in default is returned instead.
func (s *Store) FormSchema() *models.FormSchema {
	s.formOnce.Do(func() {
		schema, err := loadFormSchema(s.formPath)
		if err != nil {
			s.recordError(err)
			s.logger.Warn("Falling back to built-in form schema", zap.Error(err))
			schema = DefaultFormSchema()
		}
		s.form = schema
	})
	return s.form
}

// IdentificationSchema returns the identification schema, loading it on first
// use with the same fail-soft behavior as FormSchema.
func (s *Store) IdentificationSchema() *models.IdentificationSchema {
	s.identOnce.Do(func() {
		schema, err := loadIdentificationSchema(s.identPath)
		if err != nil {
			s.recordError(err)
			s.logger.Warn("Falling back to built-in identification schema", zap.Error(err))
			schema = DefaultIdentificationSchema()
		}
		s.ident = schema
	})
	return s.ident
}

// LoadErrors returns the messages of any schema load failures, for surfacing
// as non-fatal warnings.
func (s *Store) LoadErrors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.loadErrs))
	copy(out, s.loadErrs)
	return out
}

func (s *Store) recordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErrs = append(s.loadErrs, err.Error())
}

func loadFormSchema(path string) (*models.FormSchema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form schema: %w", err)
	}
	var schema models.FormSchema
	if err := yaml.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse form schema: %w", err)
	}
	if err := normalizeFormSchema(&schema); err != nil {
		return nil, fmt.Errorf("invalid form schema: %w", err)
	}
	return &schema, nil
}

func loadIdentificationSchema(path string) (*models.IdentificationSchema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read identification schema: %w", err)
	}
	var schema models.IdentificationSchema
	if err := yaml.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse identification schema: %w", err)
	}
	if err := normalizeIdentificationSchema(&schema); err != nil {
		return nil, fmt.Errorf("invalid identification schema: %w", err)
	}
	return &schema, nil
}

// normalizeFormSchema validates decoded structure. A schema that fails any
// check is rejected wholesale; there is no partial fallback.
func normalizeFormSchema(schema *models.FormSchema) error {
	if len(schema.Sections) == 0 {
		return fmt.Errorf("schema has no sections")
	}
	seen := make(map[string]bool)
	for _, section := range schema.Sections {
		for i := range section.Fields {
			if err := checkField(&section.Fields[i], seen); err != nil {
				return err
			}
		}
	}
	for key, factor := range schema.Calculations.EmissionFactors {
		if factor <= 0 {
			return fmt.Errorf("emission factor %q must be positive, got %v", key, factor)
		}
	}
	for key, mult := range schema.Calculations.ConditionMultipliers {
		if mult <= 0 {
			return fmt.Errorf("condition multiplier %q must be positive, got %v", key, mult)
		}
	}
	if schema.Calculations.ConditionMultipliers == nil {
		schema.Calculations.ConditionMultipliers = map[string]float64{"normal": 1.0}
	}
	return nil
}

func normalizeIdentificationSchema(schema *models.IdentificationSchema) error {
	if len(schema.Fields) == 0 {
		return fmt.Errorf("identification schema has no fields")
	}
	seen := make(map[string]bool)
	for i := range schema.Fields {
		field := &schema.Fields[i]
		if field.Type != models.FieldTypeText && field.Type != models.FieldTypeSelect {
			return fmt.Errorf("identification field %q: type %q not allowed", field.Name, field.Type)
		}
		if err := checkField(field, seen); err != nil {
			return err
		}
	}
	return nil
}

func checkField(field *models.Field, seen map[string]bool) error {
	if field.Name == "" {
		return fmt.Errorf("field with label %q has no name", field.Label)
	}
	if seen[field.Name] {
		return fmt.Errorf("duplicate field name %q", field.Name)
	}
	seen[field.Name] = true
	if !models.ValidFieldType(field.Type) {
		return fmt.Errorf("field %q: unknown type %q", field.Name, field.Type)
	}
	if field.Type == models.FieldTypeSelect && len(field.Options) == 0 {
		return fmt.Errorf("select field %q has no options", field.Name)
	}
	if field.ConditionalShow != nil && (field.ConditionalShow.Field == "" || len(field.ConditionalShow.Values) == 0) {
		return fmt.Errorf("field %q: incomplete conditionalShow rule", field.Name)
	}
	return nil
}
