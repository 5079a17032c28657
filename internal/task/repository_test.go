package task

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"client-updates-backend/internal/database"
)

func newTestDB(t *testing.T) (*bun.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return database.NewBunDB(sqlDB), mock
}

func taskColumns() []string {
	return []string{"id", "user_id", "task_title", "task_desc", "date", "created_at", "updated_at"}
}

func TestCreateTask(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRepository(db)

	ownerID := uuid.New()
	date := NewDate(2024, time.March, 5)

	mock.ExpectQuery(`INSERT INTO "tasks"`).
		WillReturnRows(sqlmock.NewRows(taskColumns()).
			AddRow(int64(1), ownerID, "Call client", "follow up on contract", date.Time, time.Now(), nil))

	created, err := repo.Create(context.Background(), ownerID, CreateParams{
		TaskTitle: "Call client",
		TaskDesc:  "follow up on contract",
		Date:      date,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, ownerID, created.UserID)
	assert.Equal(t, "2024-03-05", created.Date.String())
}

func TestGetScopesToOwner(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRepository(db)

	ownerID := uuid.New()

	// The select must filter by both id and user_id
	mock.ExpectQuery(fmt.Sprintf(`SELECT (.+) FROM "tasks" (.+)\(id = 42\) AND \(user_id = '%s'\)`, ownerID)).
		WillReturnRows(sqlmock.NewRows(taskColumns()).
			AddRow(int64(42), ownerID, "Standup", "", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), time.Now(), nil))

	found, err := repo.Get(context.Background(), ownerID, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), found.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCrossOwnerIsNotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRepository(db)

	// A row owned by someone else matches nothing for this caller
	mock.ExpectQuery(`SELECT (.+) FROM "tasks"`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), uuid.New(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdersAndLimits(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRepository(db)

	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "tasks" (.+)ORDER BY "date" DESC, "created_at" DESC LIMIT 5`).
		WillReturnRows(sqlmock.NewRows(taskColumns()).
			AddRow(int64(2), ownerID, "B", "", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), time.Now(), nil).
			AddRow(int64(1), ownerID, "A", "", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Now(), nil))

	tasks, err := repo.List(context.Background(), ownerID, nil, 5)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "B", tasks[0].TaskTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWithDateFilter(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRepository(db)

	ownerID := uuid.New()
	date := NewDate(2024, time.January, 2)

	mock.ExpectQuery(`SELECT (.+) FROM "tasks" (.+)date = '2024-01-02`).
		WillReturnRows(sqlmock.NewRows(taskColumns()))

	tasks, err := repo.List(context.Background(), ownerID, &date, 100)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRangeInclusiveBounds(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRepository(db)

	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "tasks" (.+)date >= '2024-01-01(.+)date <= '2024-01-31`).
		WillReturnRows(sqlmock.NewRows(taskColumns()).
			AddRow(int64(1), ownerID, "A", "", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), time.Now(), nil))

	tasks, err := repo.ListRange(context.Background(), ownerID,
		NewDate(2024, time.January, 1), NewDate(2024, time.January, 31))
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAppliesOnlyPresentFields(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRepository(db)

	ownerID := uuid.New()
	created := time.Now().Add(-time.Hour)

	mock.ExpectQuery(`SELECT (.+) FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows(taskColumns()).
			AddRow(int64(7), ownerID, "Old title", "keep me", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), created, nil))

	mock.ExpectExec(`UPDATE "tasks" (.+)'New title'`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	title := "New title"
	updated, err := repo.Update(context.Background(), ownerID, 7, UpdateParams{TaskTitle: &title})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.TaskTitle)
	assert.Equal(t, "keep me", updated.TaskDesc)
	assert.Equal(t, "2024-02-01", updated.Date.String())
	assert.False(t, updated.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCrossOwnerIsNotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM "tasks"`).WillReturnError(sql.ErrNoRows)

	title := "New title"
	_, err := repo.Update(context.Background(), uuid.New(), 7, UpdateParams{TaskTitle: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCrossOwnerIsNotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`DELETE FROM "tasks"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), uuid.New(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewRepository(db)

	ownerID := uuid.New()
	mock.ExpectExec(fmt.Sprintf(`DELETE FROM "tasks" (.+)user_id = '%s'`, ownerID)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), ownerID, 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}
