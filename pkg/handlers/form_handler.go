package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/carbonfield/emissions-engine/pkg/dynamicform"
	"github.com/carbonfield/emissions-engine/pkg/emissions"
	"github.com/carbonfield/emissions-engine/pkg/models"
	"github.com/carbonfield/emissions-engine/pkg/schema"
)

// ValidateFormResponse for POST /api/form/validate
type ValidateFormResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// FormHandler serves the live validation and emissions-preview endpoints the
// UI calls on every field change. Both are pure: no stored state is touched.
type FormHandler struct {
	schemas *schema.Store
	logger  *zap.Logger
}

// NewFormHandler creates a new form handler.
func NewFormHandler(schemas *schema.Store, logger *zap.Logger) *FormHandler {
	return &FormHandler{schemas: schemas, logger: logger}
}

// RegisterRoutes registers the form handler's routes on the given mux.
func (h *FormHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/form/validate", h.Validate)
	mux.HandleFunc("POST /api/form/preview", h.Preview)
}

// Validate handles POST /api/form/validate
func (h *FormHandler) Validate(w http.ResponseWriter, r *http.Request) {
	values, ok := h.decodeValues(w, r)
	if !ok {
		return
	}

	errs := dynamicform.Validate(h.schemas.FormSchema(), values)
	response := ValidateFormResponse{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write validation response", zap.Error(err))
	}
}

// Preview handles POST /api/form/preview
func (h *FormHandler) Preview(w http.ResponseWriter, r *http.Request) {
	values, ok := h.decodeValues(w, r)
	if !ok {
		return
	}

	result := emissions.Calculate(&h.schemas.FormSchema().Calculations, values)
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: result}); err != nil {
		h.logger.Error("Failed to write preview response", zap.Error(err))
	}
}

func (h *FormHandler) decodeValues(w http.ResponseWriter, r *http.Request) (models.FormValues, bool) {
	var values models.FormValues
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		if encErr := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body"); encErr != nil {
			h.logger.Error("Failed to write error response", zap.Error(encErr))
		}
		return nil, false
	}
	return values, true
}
