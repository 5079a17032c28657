package format

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"client-updates-backend/internal/auth"
	"client-updates-backend/internal/httputil"
	"client-updates-backend/internal/logging"
)

// Handler contains HTTP handlers for format endpoints. The owner identity is
// always taken from the authenticated request context.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// ListResponse is the format collection payload
type ListResponse struct {
	Formats []Format `json:"formats"`
	Total   int      `json:"total"`
}

// Create handles format creation
// @Summary      Create a format
// @Tags         formats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateParams true "Format data"
// @Success      201 {object} Format
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /formats [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := auth.UserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var params CreateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if params.FormatName == "" {
		httputil.RespondErrorWithCode(w, "format_name is required", httputil.CodeValidationError, http.StatusBadRequest)
		return
	}

	created, err := h.repo.Create(r.Context(), owner.ID, params)
	if err != nil {
		logger.Error("failed to create format", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to create format", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("format created", "user_id", owner.ID, "format_id", created.ID, "is_default", created.IsDefault)
	httputil.RespondJSON(w, created, http.StatusCreated)
}

// List handles format listing
// @Summary      List formats
// @Description  List the caller's formats, default first, then newest first
// @Tags         formats
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ListResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /formats [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := auth.UserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	formats, err := h.repo.List(r.Context(), owner.ID)
	if err != nil {
		logger.Error("failed to list formats", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list formats", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, ListResponse{Formats: formats, Total: len(formats)}, http.StatusOK)
}

// Get handles fetching a single format
// @Summary      Get a format
// @Tags         formats
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Format ID"
// @Success      200 {object} Format
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Format not found"
// @Router       /formats/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := auth.UserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid format id", httputil.CodeValidationError, http.StatusBadRequest)
		return
	}

	found, err := h.repo.Get(r.Context(), owner.ID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "format not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get format", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to get format", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, found, http.StatusOK)
}

// GetDefault returns the caller's default format
// @Summary      Get the default format
// @Tags         formats
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Format
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "No default format"
// @Router       /formats/default/current [get]
func (h *Handler) GetDefault(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := auth.UserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	found, err := h.repo.GetDefault(r.Context(), owner.ID)
	if err != nil {
		if errors.Is(err, ErrNoDefault) {
			httputil.RespondErrorWithCode(w, "no default format found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get default format", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to get default format", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, found, http.StatusOK)
}

// Update handles partial format updates
// @Summary      Update a format
// @Tags         formats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Format ID"
// @Param        request body UpdateParams true "Fields to update"
// @Success      200 {object} Format
// @Failure      400 {object} httputil.ErrorResponse "Invalid request"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Format not found"
// @Router       /formats/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := auth.UserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid format id", httputil.CodeValidationError, http.StatusBadRequest)
		return
	}

	var params UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if params.FormatName != nil && *params.FormatName == "" {
		httputil.RespondErrorWithCode(w, "format_name cannot be empty", httputil.CodeValidationError, http.StatusBadRequest)
		return
	}

	updated, err := h.repo.Update(r.Context(), owner.ID, id, params)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "format not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to update format", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to update format", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("format updated", "user_id", owner.ID, "format_id", id)
	httputil.RespondJSON(w, updated, http.StatusOK)
}

// Delete handles format deletion
// @Summary      Delete a format
// @Tags         formats
// @Security     BearerAuth
// @Param        id path int true "Format ID"
// @Success      204
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Format not found"
// @Router       /formats/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := auth.UserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid format id", httputil.CodeValidationError, http.StatusBadRequest)
		return
	}

	if err := h.repo.Delete(r.Context(), owner.ID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "format not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to delete format", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to delete format", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("format deleted", "user_id", owner.ID, "format_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// SetDefault promotes a format to the caller's single default
// @Summary      Set a format as default
// @Tags         formats
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Format ID"
// @Success      200 {object} Format
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Format not found"
// @Router       /formats/{id}/set-default [post]
func (h *Handler) SetDefault(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := auth.UserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid format id", httputil.CodeValidationError, http.StatusBadRequest)
		return
	}

	promoted, err := h.repo.SetDefault(r.Context(), owner.ID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "format not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to set default format", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to set default format", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("default format changed", "user_id", owner.ID, "format_id", id)
	httputil.RespondJSON(w, promoted, http.StatusOK)
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
