package task

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"client-updates-backend/internal/auth"
	"client-updates-backend/internal/logging"
	"client-updates-backend/internal/user"
)

func newTestRouter(h *Handler, owner *user.User) *chi.Mux {
	r := chi.NewRouter()
	if owner != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(auth.ContextWithUser(req.Context(), owner)))
			})
		})
	}
	r.Post("/tasks", h.Create)
	r.Get("/tasks", h.List)
	r.Get("/tasks/date-range", h.ListRange)
	r.Get("/tasks/summary/{date}", h.Summary)
	return r
}

func testOwner() *user.User {
	return &user.User{ID: uuid.New(), Name: "Alice", Email: "alice@example.com", IsActive: true}
}

func TestCreateRequiresAuth(t *testing.T) {
	h := NewHandler(nil, logging.NewLogger(true))
	router := newTestRouter(h, nil)

	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"task_title":"X","date":"2024-01-01"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateValidation(t *testing.T) {
	h := NewHandler(nil, logging.NewLogger(true))
	router := newTestRouter(h, testOwner())

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{{{`},
		{"missing title", `{"task_desc":"d","date":"2024-01-01"}`},
		{"missing date", `{"task_title":"X"}`},
		{"bad date", `{"task_title":"X","date":"01/02/2024"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestListRejectsBadLimit(t *testing.T) {
	h := NewHandler(nil, logging.NewLogger(true))
	router := newTestRouter(h, testOwner())

	for _, limit := range []string{"0", "-1", "1001", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/tasks?limit="+limit, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit %q", limit)
	}
}

func TestListRangeRejectsReversedRange(t *testing.T) {
	h := NewHandler(nil, logging.NewLogger(true))
	router := newTestRouter(h, testOwner())

	req := httptest.NewRequest(http.MethodGet, "/tasks/date-range?start_date=2024-02-01&end_date=2024-01-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRangeRejectsMissingDates(t *testing.T) {
	h := NewHandler(nil, logging.NewLogger(true))
	router := newTestRouter(h, testOwner())

	req := httptest.NewRequest(http.MethodGet, "/tasks/date-range?start_date=2024-02-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryRendersTasks(t *testing.T) {
	db, mock := newTestDB(t)
	h := NewHandler(NewRepository(db), logging.NewLogger(true))
	owner := testOwner()
	router := newTestRouter(h, owner)

	mock.ExpectQuery(`SELECT (.+) FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows(taskColumns()).
			AddRow(int64(1), owner.ID, "Call client", "", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Now(), nil))

	req := httptest.NewRequest(http.MethodGet, "/tasks/summary/2024-01-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2024-01-01", resp.Date.String())
	assert.Equal(t, "Daily Update - 2024-01-01\n\nTasks Completed:\n• Call client\n\nTotal tasks completed: 1", resp.Summary)
	assert.False(t, resp.GeneratedAt.IsZero())
}

func TestSummaryNoTasks(t *testing.T) {
	db, mock := newTestDB(t)
	h := NewHandler(NewRepository(db), logging.NewLogger(true))
	router := newTestRouter(h, testOwner())

	mock.ExpectQuery(`SELECT (.+) FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows(taskColumns()))

	req := httptest.NewRequest(http.MethodGet, "/tasks/summary/2024-01-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "No tasks completed on 2024-01-01", resp.Summary)
}

func TestSummaryWithCustomTemplate(t *testing.T) {
	db, mock := newTestDB(t)
	h := NewHandler(NewRepository(db), logging.NewLogger(true))
	owner := testOwner()
	router := newTestRouter(h, owner)

	mock.ExpectQuery(`SELECT (.+) FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows(taskColumns()).
			AddRow(int64(1), owner.ID, "X", "Y", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), time.Now(), nil))

	req := httptest.NewRequest(http.MethodGet, "/tasks/summary/2024-03-05?format_template="+
		"Update+for+%7Bdate%7D%3A%0A%7Btasks%7D", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Update for 2024-03-05:\n- X: Y", resp.Summary)
}

func TestSummaryRejectsBadDate(t *testing.T) {
	h := NewHandler(nil, logging.NewLogger(true))
	router := newTestRouter(h, testOwner())

	req := httptest.NewRequest(http.MethodGet, "/tasks/summary/not-a-date", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
