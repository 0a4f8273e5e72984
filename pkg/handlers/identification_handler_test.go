package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carbonfield/emissions-engine/pkg/models"
	"github.com/carbonfield/emissions-engine/pkg/services"
)

// mockIdentService implements services.IdentificationService with
// overridable funcs.
type mockIdentService struct {
	saveFunc         func(ctx context.Context, data models.Identification) error
	currentFunc      func(ctx context.Context) (models.Identification, error)
	historyFunc      func(ctx context.Context) ([]*models.IdentificationRecord, error)
	uniqueValuesFunc func(ctx context.Context, fieldName string) ([]string, error)
}

func (m *mockIdentService) Save(ctx context.Context, data models.Identification) error {
	return m.saveFunc(ctx, data)
}

func (m *mockIdentService) Current(ctx context.Context) (models.Identification, error) {
	return m.currentFunc(ctx)
}

func (m *mockIdentService) History(ctx context.Context) ([]*models.IdentificationRecord, error) {
	return m.historyFunc(ctx)
}

func (m *mockIdentService) UniqueValues(ctx context.Context, fieldName string) ([]string, error) {
	return m.uniqueValuesFunc(ctx, fieldName)
}

func newIdentServer(svc *mockIdentService) *http.ServeMux {
	mux := http.NewServeMux()
	NewIdentificationHandler(svc, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestIdentificationCurrent(t *testing.T) {
	svc := &mockIdentService{
		currentFunc: func(context.Context) (models.Identification, error) {
			return models.Identification{"company": "Acme", "reporter": "Kim"}, nil
		},
	}

	rec := doJSON(t, newIdentServer(svc), http.MethodGet, "/api/identification", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data IdentificationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Acme", resp.Data.Identification["company"])
}

func TestIdentificationCurrent_Unset(t *testing.T) {
	svc := &mockIdentService{
		currentFunc: func(context.Context) (models.Identification, error) {
			return nil, nil
		},
	}

	rec := doJSON(t, newIdentServer(svc), http.MethodGet, "/api/identification", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data IdentificationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.Data.Identification)
}

func TestIdentificationSave(t *testing.T) {
	var saved models.Identification
	svc := &mockIdentService{
		saveFunc: func(_ context.Context, data models.Identification) error {
			saved = data
			return nil
		},
	}

	rec := doJSON(t, newIdentServer(svc), http.MethodPut, "/api/identification",
		models.Identification{"company": "Acme", "reporter": "Kim", "project": "Harbor"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Harbor", saved["project"])
}

func TestIdentificationSave_ValidationError(t *testing.T) {
	svc := &mockIdentService{
		saveFunc: func(context.Context, models.Identification) error {
			return &services.ValidationError{Fields: map[string]string{
				"company": "Company Name is required",
			}}
		},
	}

	rec := doJSON(t, newIdentServer(svc), http.MethodPut, "/api/identification", models.Identification{})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp ValidationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Company Name is required", resp.Fields["company"])
}

func TestIdentificationHistory(t *testing.T) {
	svc := &mockIdentService{
		historyFunc: func(context.Context) ([]*models.IdentificationRecord, error) {
			return []*models.IdentificationRecord{
				{Data: models.Identification{"company": "Acme"}, LastUsed: time.Now()},
				{Data: models.Identification{"company": "Beta Corp"}, LastUsed: time.Now().Add(-time.Hour)},
			}, nil
		},
	}

	rec := doJSON(t, newIdentServer(svc), http.MethodGet, "/api/identification/history", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data IdentificationHistoryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, "Acme", resp.Data.History[0].Data["company"])
}

func TestIdentificationSuggestions(t *testing.T) {
	svc := &mockIdentService{
		uniqueValuesFunc: func(_ context.Context, fieldName string) ([]string, error) {
			assert.Equal(t, "company", fieldName)
			return []string{"Acme", "Beta Corp"}, nil
		},
	}

	rec := doJSON(t, newIdentServer(svc), http.MethodGet, "/api/identification/suggestions?field=company", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data SuggestionsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "company", resp.Data.Field)
	assert.Equal(t, []string{"Acme", "Beta Corp"}, resp.Data.Values)
}

func TestIdentificationSuggestions_MissingField(t *testing.T) {
	svc := &mockIdentService{
		uniqueValuesFunc: func(context.Context, string) ([]string, error) {
			t.Fatal("service must not be called without a field")
			return nil, nil
		},
	}

	rec := doJSON(t, newIdentServer(svc), http.MethodGet, "/api/identification/suggestions", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_field")
}
