package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validFormDoc = `
title: "Fleet Logger"
description: "Fleet usage logging"
sections:
  - name: "Usage"
    fields:
      - name: fuelType
        label: "Fuel Type"
        type: select
        required: true
        options:
          - { value: diesel, label: "Diesel" }
      - name: fuelConsumption
        label: "Fuel Consumption"
        type: number
        required: true
        min: 0
        conditionalShow:
          field: fuelType
          values: [diesel]
calculations:
  emissionFactors:
    diesel: 2.68
  conditionMultipliers:
    normal: 1.0
`

func TestFormSchema_LoadsDocument(t *testing.T) {
	path := writeDoc(t, "form.yaml", validFormDoc)
	store := NewStore(path, "unused", zap.NewNop())

	schema := store.FormSchema()

	require.NotNil(t, schema)
	assert.Equal(t, "Fleet Logger", schema.Title)
	require.Len(t, schema.Sections, 1)
	require.Len(t, schema.Sections[0].Fields, 2)

	field := schema.Sections[0].Fields[1]
	assert.Equal(t, "fuelConsumption", field.Name)
	require.NotNil(t, field.Min)
	assert.Equal(t, 0.0, *field.Min)
	require.NotNil(t, field.ConditionalShow)
	assert.Equal(t, "fuelType", field.ConditionalShow.Field)

	assert.Equal(t, 2.68, schema.Calculations.EmissionFactors["diesel"])
	assert.Empty(t, store.LoadErrors())
}

func TestFormSchema_MissingFileFallsBack(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope.yaml"), "unused", zap.NewNop())

	schema := store.FormSchema()

	require.NotNil(t, schema)
	assert.Equal(t, DefaultFormSchema().Title, schema.Title)
	assert.NotEmpty(t, store.LoadErrors())
}

func TestFormSchema_MalformedYAMLFallsBack(t *testing.T) {
	path := writeDoc(t, "form.yaml", "sections: [unclosed")
	store := NewStore(path, "unused", zap.NewNop())

	schema := store.FormSchema()

	assert.Equal(t, DefaultFormSchema().Title, schema.Title)
	assert.NotEmpty(t, store.LoadErrors())
}

func TestFormSchema_RejectsDuplicateFieldNames(t *testing.T) {
	doc := `
sections:
  - name: "A"
    fields:
      - { name: x, label: "X", type: text }
      - { name: x, label: "X again", type: text }
`
	store := NewStore(writeDoc(t, "form.yaml", doc), "unused", zap.NewNop())

	schema := store.FormSchema()

	assert.Equal(t, DefaultFormSchema().Title, schema.Title)
	assert.NotEmpty(t, store.LoadErrors())
}

func TestFormSchema_RejectsUnknownFieldType(t *testing.T) {
	doc := `
sections:
  - name: "A"
    fields:
      - { name: x, label: "X", type: checkbox }
`
	store := NewStore(writeDoc(t, "form.yaml", doc), "unused", zap.NewNop())

	assert.Equal(t, DefaultFormSchema().Title, store.FormSchema().Title)
}

func TestFormSchema_RejectsSelectWithoutOptions(t *testing.T) {
	doc := `
sections:
  - name: "A"
    fields:
      - { name: x, label: "X", type: select }
`
	store := NewStore(writeDoc(t, "form.yaml", doc), "unused", zap.NewNop())

	assert.Equal(t, DefaultFormSchema().Title, store.FormSchema().Title)
}

func TestFormSchema_RejectsNonPositiveFactor(t *testing.T) {
	doc := `
sections:
  - name: "A"
    fields:
      - { name: x, label: "X", type: text }
calculations:
  emissionFactors:
    diesel: -1
`
	store := NewStore(writeDoc(t, "form.yaml", doc), "unused", zap.NewNop())

	assert.Equal(t, DefaultFormSchema().Title, store.FormSchema().Title)
}

func TestFormSchema_LoadedOnce(t *testing.T) {
	path := writeDoc(t, "form.yaml", validFormDoc)
	store := NewStore(path, "unused", zap.NewNop())

	first := store.FormSchema()

	// Rewriting the document must not affect the loaded schema.
	require.NoError(t, os.WriteFile(path, []byte("title: changed\n"), 0o600))
	second := store.FormSchema()

	assert.Same(t, first, second)
}

func TestIdentificationSchema_LoadsDocument(t *testing.T) {
	doc := `
title: "Who is reporting"
fields:
  - { name: company, label: "Company", type: text, required: true, savePrevious: true }
  - name: reportingMonth
    label: "Month"
    type: select
    required: true
    options:
      - { value: "01", label: "January" }
`
	store := NewStore("unused", writeDoc(t, "ident.yaml", doc), zap.NewNop())

	schema := store.IdentificationSchema()

	require.Len(t, schema.Fields, 2)
	assert.True(t, schema.Fields[0].SavePrevious)
	assert.Empty(t, store.LoadErrors())
}

func TestIdentificationSchema_RejectsNonTextTypes(t *testing.T) {
	doc := `
fields:
  - { name: hours, label: "Hours", type: number }
`
	store := NewStore("unused", writeDoc(t, "ident.yaml", doc), zap.NewNop())

	schema := store.IdentificationSchema()

	assert.Equal(t, DefaultIdentificationSchema().Title, schema.Title)
	assert.NotEmpty(t, store.LoadErrors())
}

func TestDefaultSchemas_AreValid(t *testing.T) {
	form := DefaultFormSchema()
	require.NoError(t, normalizeFormSchema(form))

	ident := DefaultIdentificationSchema()
	require.NoError(t, normalizeIdentificationSchema(ident))

	// The defaults carry the calculation keys the engine reads.
	names := make(map[string]bool)
	for _, f := range form.Fields() {
		names[f.Name] = true
	}
	for _, required := range []string{"fuelType", "fuelConsumption", "electricityConsumption", "operatingConditions", "operationHours"} {
		assert.True(t, names[required], "default schema missing %s", required)
	}
	assert.Equal(t, 1.0, form.Calculations.ConditionMultipliers["normal"])
}
