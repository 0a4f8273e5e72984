package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/carbonfield/emissions-engine/pkg/models"
	"github.com/carbonfield/emissions-engine/pkg/repositories"
	"github.com/carbonfield/emissions-engine/pkg/services"
)

// EntriesListResponse for GET /api/entries
type EntriesListResponse struct {
	Entries    []*models.Entry `json:"entries"`
	Total      int             `json:"total"`
	Submitting bool            `json:"submitting"`
}

// EditingResponse for GET /api/entries/editing
type EditingResponse struct {
	Editing *models.EditingSession `json:"editing"`
}

// SubmissionsListResponse for GET /api/submissions
type SubmissionsListResponse struct {
	Submissions []*models.Submission `json:"submissions"`
	Total       int                  `json:"total"`
}

// EntriesHandler handles entry batch HTTP requests.
type EntriesHandler struct {
	entryService   services.EntryService
	submissionRepo repositories.SubmissionRepository
	logger         *zap.Logger
}

// NewEntriesHandler creates a new entries handler.
func NewEntriesHandler(
	entryService services.EntryService,
	submissionRepo repositories.SubmissionRepository,
	logger *zap.Logger,
) *EntriesHandler {
	return &EntriesHandler{
		entryService:   entryService,
		submissionRepo: submissionRepo,
		logger:         logger,
	}
}

// RegisterRoutes registers the entries handler's routes on the given mux.
func (h *EntriesHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/entries", h.List)
	mux.HandleFunc("POST /api/entries", h.Add)
	mux.HandleFunc("PUT /api/entries/{id}", h.Update)
	mux.HandleFunc("DELETE /api/entries/{id}", h.Delete)
	mux.HandleFunc("POST /api/entries/{id}/edit", h.StartEditing)
	mux.HandleFunc("POST /api/entries/{id}/duplicate", h.Duplicate)
	mux.HandleFunc("GET /api/entries/editing", h.Editing)
	mux.HandleFunc("POST /api/entries/editing/cancel", h.CancelEditing)
	mux.HandleFunc("POST /api/entries/submit", h.SubmitAll)
	mux.HandleFunc("POST /api/entries/clear", h.ClearAll)
	mux.HandleFunc("GET /api/submissions", h.Submissions)
}

// List handles GET /api/entries
func (h *EntriesHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.entryService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list entries", zap.Error(err))
		WriteServiceError(w, h.logger, "list_entries_failed", err)
		return
	}

	response := EntriesListResponse{
		Entries:    entries,
		Total:      len(entries),
		Submitting: h.entryService.Submitting(),
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Add handles POST /api/entries
func (h *EntriesHandler) Add(w http.ResponseWriter, r *http.Request) {
	values, ok := h.decodeValues(w, r)
	if !ok {
		return
	}

	entry, err := h.entryService.Add(r.Context(), values)
	if err != nil {
		WriteServiceError(w, h.logger, "add_entry_failed", err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: entry}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/entries/{id}
func (h *EntriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseEntryID(w, r)
	if !ok {
		return
	}
	values, ok := h.decodeValues(w, r)
	if !ok {
		return
	}

	entry, err := h.entryService.Update(r.Context(), id, values)
	if err != nil {
		WriteServiceError(w, h.logger, "update_entry_failed", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: entry}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/entries/{id}
func (h *EntriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseEntryID(w, r)
	if !ok {
		return
	}

	if err := h.entryService.Delete(r.Context(), id); err != nil {
		WriteServiceError(w, h.logger, "delete_entry_failed", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// StartEditing handles POST /api/entries/{id}/edit
func (h *EntriesHandler) StartEditing(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseEntryID(w, r)
	if !ok {
		return
	}

	session, err := h.entryService.StartEditing(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.logger, "start_editing_failed", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: session}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Duplicate handles POST /api/entries/{id}/duplicate
func (h *EntriesHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseEntryID(w, r)
	if !ok {
		return
	}

	session, err := h.entryService.Duplicate(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.logger, "duplicate_entry_failed", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: session}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Editing handles GET /api/entries/editing
func (h *EntriesHandler) Editing(w http.ResponseWriter, r *http.Request) {
	response := EditingResponse{Editing: h.entryService.Editing()}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CancelEditing handles POST /api/entries/editing/cancel
func (h *EntriesHandler) CancelEditing(w http.ResponseWriter, r *http.Request) {
	h.entryService.CancelEditing()
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SubmitAll handles POST /api/entries/submit
func (h *EntriesHandler) SubmitAll(w http.ResponseWriter, r *http.Request) {
	submission, err := h.entryService.SubmitAll(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, "submit_entries_failed", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: submission}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ClearAll handles POST /api/entries/clear
func (h *EntriesHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.entryService.ClearAll(r.Context()); err != nil {
		WriteServiceError(w, h.logger, "clear_entries_failed", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Submissions handles GET /api/submissions
func (h *EntriesHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	submissions, err := h.submissionRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list submissions", zap.Error(err))
		WriteServiceError(w, h.logger, "list_submissions_failed", err)
		return
	}

	response := SubmissionsListResponse{
		Submissions: submissions,
		Total:       len(submissions),
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *EntriesHandler) parseEntryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		if encErr := ErrorResponse(w, http.StatusBadRequest, "invalid_entry_id", "entry id must be an integer"); encErr != nil {
			h.logger.Error("Failed to write error response", zap.Error(encErr))
		}
		return 0, false
	}
	return id, true
}

func (h *EntriesHandler) decodeValues(w http.ResponseWriter, r *http.Request) (models.FormValues, bool) {
	var values models.FormValues
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		if encErr := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body"); encErr != nil {
			h.logger.Error("Failed to write error response", zap.Error(encErr))
		}
		return nil, false
	}
	return values, true
}
