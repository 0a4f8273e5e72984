package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/carbonfield/emissions-engine/pkg/models"
	"github.com/carbonfield/emissions-engine/pkg/services"
)

// IdentificationResponse for GET /api/identification
type IdentificationResponse struct {
	Identification models.Identification `json:"identification"`
}

// IdentificationHistoryResponse for GET /api/identification/history
type IdentificationHistoryResponse struct {
	History []*models.IdentificationRecord `json:"history"`
	Total   int                            `json:"total"`
}

// SuggestionsResponse for GET /api/identification/suggestions
type SuggestionsResponse struct {
	Field  string   `json:"field"`
	Values []string `json:"values"`
}

// IdentificationHandler handles session-identification HTTP requests.
type IdentificationHandler struct {
	identService services.IdentificationService
	logger       *zap.Logger
}

// NewIdentificationHandler creates a new identification handler.
func NewIdentificationHandler(identService services.IdentificationService, logger *zap.Logger) *IdentificationHandler {
	return &IdentificationHandler{identService: identService, logger: logger}
}

// RegisterRoutes registers the identification handler's routes on the given mux.
func (h *IdentificationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/identification", h.Current)
	mux.HandleFunc("PUT /api/identification", h.Save)
	mux.HandleFunc("GET /api/identification/history", h.History)
	mux.HandleFunc("GET /api/identification/suggestions", h.Suggestions)
}

// Current handles GET /api/identification
func (h *IdentificationHandler) Current(w http.ResponseWriter, r *http.Request) {
	ident, err := h.identService.Current(r.Context())
	if err != nil {
		h.logger.Error("Failed to load identification", zap.Error(err))
		WriteServiceError(w, h.logger, "get_identification_failed", err)
		return
	}

	response := IdentificationResponse{Identification: ident}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Save handles PUT /api/identification
func (h *IdentificationHandler) Save(w http.ResponseWriter, r *http.Request) {
	var ident models.Identification
	if err := json.NewDecoder(r.Body).Decode(&ident); err != nil {
		if encErr := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body"); encErr != nil {
			h.logger.Error("Failed to write error response", zap.Error(encErr))
		}
		return
	}

	if err := h.identService.Save(r.Context(), ident); err != nil {
		WriteServiceError(w, h.logger, "save_identification_failed", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// History handles GET /api/identification/history
func (h *IdentificationHandler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.identService.History(r.Context())
	if err != nil {
		h.logger.Error("Failed to load identification history", zap.Error(err))
		WriteServiceError(w, h.logger, "get_history_failed", err)
		return
	}

	response := IdentificationHistoryResponse{History: records, Total: len(records)}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Suggestions handles GET /api/identification/suggestions?field=company
func (h *IdentificationHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	field := r.URL.Query().Get("field")
	if field == "" {
		if encErr := ErrorResponse(w, http.StatusBadRequest, "missing_field", "query parameter 'field' is required"); encErr != nil {
			h.logger.Error("Failed to write error response", zap.Error(encErr))
		}
		return
	}

	values, err := h.identService.UniqueValues(r.Context(), field)
	if err != nil {
		h.logger.Error("Failed to load suggestions", zap.String("field", field), zap.Error(err))
		WriteServiceError(w, h.logger, "get_suggestions_failed", err)
		return
	}

	response := SuggestionsResponse{Field: field, Values: values}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
