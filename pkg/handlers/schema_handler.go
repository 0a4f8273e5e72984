package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/carbonfield/emissions-engine/pkg/models"
	"github.com/carbonfield/emissions-engine/pkg/schema"
)

// FormSchemaResponse for GET /api/schema/form
type FormSchemaResponse struct {
	Schema *models.FormSchema `json:"schema"`
	// Warnings lists schema load failures that triggered the built-in
	// fallback. Non-fatal, surfaced for diagnostic display.
	Warnings []string `json:"warnings,omitempty"`
}

// IdentificationSchemaResponse for GET /api/schema/identification
type IdentificationSchemaResponse struct {
	Schema   *models.IdentificationSchema `json:"schema"`
	Warnings []string                     `json:"warnings,omitempty"`
}

// SchemaHandler serves the decoded form and identification schemas.
type SchemaHandler struct {
	schemas *schema.Store
	logger  *zap.Logger
}

// NewSchemaHandler creates a new schema handler.
func NewSchemaHandler(schemas *schema.Store, logger *zap.Logger) *SchemaHandler {
	return &SchemaHandler{schemas: schemas, logger: logger}
}

// RegisterRoutes registers the schema handler's routes on the given mux.
func (h *SchemaHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/schema/form", h.FormSchema)
	mux.HandleFunc("GET /api/schema/identification", h.IdentificationSchema)
}

// FormSchema handles GET /api/schema/form
func (h *SchemaHandler) FormSchema(w http.ResponseWriter, r *http.Request) {
	response := FormSchemaResponse{
		Schema:   h.schemas.FormSchema(),
		Warnings: h.schemas.LoadErrors(),
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write form schema response", zap.Error(err))
	}
}

// IdentificationSchema handles GET /api/schema/identification
func (h *SchemaHandler) IdentificationSchema(w http.ResponseWriter, r *http.Request) {
	response := IdentificationSchemaResponse{
		Schema:   h.schemas.IdentificationSchema(),
		Warnings: h.schemas.LoadErrors(),
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write identification schema response", zap.Error(err))
	}
}
