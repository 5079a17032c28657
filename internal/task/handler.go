package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"client-updates-backend/internal/auth"
	"client-updates-backend/internal/httputil"
	"client-updates-backend/internal/logging"
	"client-updates-backend/internal/summary"
)

const defaultListLimit = 100

// summaryTaskLimit caps how many tasks feed a single daily summary
const summaryTaskLimit = 100

// Handler contains HTTP handlers for task endpoints. The owner identity is
// always taken from the authenticated request context.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// ListResponse is the task collection payload
type ListResponse struct {
	Tasks []Task `json:"tasks"`
	Total int    `json:"total"`
}

// SummaryResponse is the daily summary payload
type SummaryResponse struct {
	Date        Date      `json:"date"`
	Summary     string    `json:"summary"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Create handles task creation
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateParams true "Task data"
// @Success      201 {object} Task
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /tasks [post]
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

	if params.TaskTitle == "" {
		httputil.RespondErrorWithCode(w, "task_title is required", httputil.CodeValidationError, http.StatusBadRequest)
		return
	}
	if params.Date.IsZero() {
		httputil.RespondErrorWithCode(w, "date is required", httputil.CodeValidationError, http.StatusBadRequest)
		return
	}

	created, err := h.repo.Create(r.Context(), owner.ID, params)
	if err != nil {
		logger.Error("failed to create task", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to create task", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("task created", "user_id", owner.ID, "task_id", created.ID)
	httputil.RespondJSON(w, created, http.StatusCreated)
}

// List handles task listing with optional date filter
// @Summary      List tasks
// @Description  List the caller's tasks, optionally filtered by date, newest first
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        task_date query string false "Filter tasks by date (YYYY-MM-DD)"
// @Param        limit query int false "Maximum number of tasks to return (1-1000)"
// @Success      200 {object} ListResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid parameters"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /tasks [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := auth.UserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var date *Date
	if raw := r.URL.Query().Get("task_date"); raw != "" {
		parsed, err := ParseDate(raw)
		if err != nil {
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationError, http.StatusBadRequest)
			return
		}
		date = &parsed
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < MinLimit || parsed > MaxLimit {
			httputil.RespondErrorWithCode(w, "limit must be between 1 and 1000", httputil.CodeValidationError, http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	tasks, err := h.repo.List(r.Context(), owner.ID, date, limit)
	if err != nil {
		logger.Error("failed to list tasks", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list tasks", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, ListResponse{Tasks: tasks, Total: len(tasks)}, http.StatusOK)
}

// ListRange handles date-range task listing
// @Summary      List tasks in a date range
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        start_date query string true "Start date (YYYY-MM-DD, inclusive)"
// @Param        end_date query string true "End date (YYYY-MM-DD, inclusive)"
// @Success      200 {object} ListResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid or reversed range"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /tasks/date-range [get]
func (h *Handler) ListRange(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := auth.UserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	start, err := ParseDate(r.URL.Query().Get("start_date"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "start_date: "+err.Error(), httputil.CodeValidationError, http.StatusBadRequest)
		return
	}
	end, err := ParseDate(r.URL.Query().Get("end_date"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "end_date: "+err.Error(), httputil.CodeValidationError, http.StatusBadRequest)
		return
	}
	if start.After(end) {
		httputil.RespondErrorWithCode(w, "start date must be before or equal to end date", httputil.CodeValidationError, http.StatusBadRequest)
		return
	}

	tasks, err := h.repo.ListRange(r.Context(), owner.ID, start, end)
	if err != nil {
		logger.Error("failed to list tasks by range", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list tasks", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, ListResponse{Tasks: tasks, Total: len(tasks)}, http.StatusOK)
}

// Get handles fetching a single task
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Task ID"
// @Success      200 {object} Task
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Task not found"
// @Router       /tasks/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := auth.UserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid task id", httputil.CodeValidationError, http.StatusBadRequest)
		return
	}

	found, err := h.repo.Get(r.Context(), owner.ID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "task not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get task", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to get task", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, found, http.StatusOK)
}

// Update handles partial task updates
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Task ID"
// @Param        request body UpdateParams true "Fields to update"
// @Success      200 {object} Task
// @Failure      400 {object} httputil.ErrorResponse "Invalid request"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Task not found"
// @Router       /tasks/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := auth.UserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid task id", httputil.CodeValidationError, http.StatusBadRequest)
		return
	}

	var params UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if params.TaskTitle != nil && *params.TaskTitle == "" {
		httputil.RespondErrorWithCode(w, "task_title cannot be empty", httputil.CodeValidationError, http.StatusBadRequest)
		return
	}

	updated, err := h.repo.Update(r.Context(), owner.ID, id, params)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "task not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to update task", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to update task", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("task updated", "user_id", owner.ID, "task_id", id)
	httputil.RespondJSON(w, updated, http.StatusOK)
}

// Delete handles task deletion
// @Summary      Delete a task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id path int true "Task ID"
// @Success      204
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Task not found"
// @Router       /tasks/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := auth.UserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid task id", httputil.CodeValidationError, http.StatusBadRequest)
		return
	}

	if err := h.repo.Delete(r.Context(), owner.ID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "task not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to delete task", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to delete task", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("task deleted", "user_id", owner.ID, "task_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Summary generates the daily client update for a date
// @Summary      Generate daily summary
// @Description  Render the caller's tasks for a date into client-update text
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        date path string true "Summary date (YYYY-MM-DD)"
// @Param        format_template query string false "Custom format template with {tasks} and {date} placeholders"
// @Success      200 {object} SummaryResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid date"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Router       /tasks/summary/{date} [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := auth.UserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	date, err := ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationError, http.StatusBadRequest)
		return
	}

	tasks, err := h.repo.List(r.Context(), owner.ID, &date, summaryTaskLimit)
	if err != nil {
		logger.Error("failed to load tasks for summary", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to generate summary", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	items := make([]summary.Item, len(tasks))
	for i, t := range tasks {
		items[i] = summary.Item{
			Title: t.TaskTitle,
			Desc:  t.TaskDesc,
			Date:  t.Date.String(),
		}
	}

	rendered := summary.Render(date.String(), items, r.URL.Query().Get("format_template"))

	httputil.RespondJSON(w, SummaryResponse{
		Date:        date,
		Summary:     rendered,
		GeneratedAt: time.Now().UTC(),
	}, http.StatusOK)
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
