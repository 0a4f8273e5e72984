package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/carbonfield/emissions-engine/pkg/apperrors"
	"github.com/carbonfield/emissions-engine/pkg/services"
)

// ApiResponse is the standard envelope for JSON responses.
type ApiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// ValidationResponse carries the per-field error map of a rejected form.
type ValidationResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

// WriteServiceError maps service-layer errors to HTTP status codes and writes
// the corresponding JSON body.
func WriteServiceError(w http.ResponseWriter, logger *zap.Logger, errorCode string, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		if encErr := WriteJSON(w, http.StatusUnprocessableEntity, ValidationResponse{
			Error:   "validation_failed",
			Message: validationErr.Error(),
			Fields:  validationErr.Fields,
		}); encErr != nil {
			logger.Error("Failed to write validation response", zap.Error(encErr))
		}
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrNothingToSubmit):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrSubmissionInFlight):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrSubmissionFailed):
		status = http.StatusBadGateway
	}

	if encErr := ErrorResponse(w, status, errorCode, err.Error()); encErr != nil {
		logger.Error("Failed to write error response", zap.Error(encErr))
	}
}
