package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"client-updates-backend/internal/database"
)

var ErrNotFound = errors.New("task not found")

// Limit bounds for list queries
const (
	MinLimit = 1
	MaxLimit = 1000
)

// Repository handles task persistence. Every query is scoped to the owning
// user; a task belonging to someone else is indistinguishable from a missing
// one.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new task for the owner
func (r *Repository) Create(ctx context.Context, ownerID uuid.UUID, p CreateParams) (*Task, error) {
	dbTask := &database.Task{
		UserID:    ownerID,
		TaskTitle: p.TaskTitle,
		TaskDesc:  p.TaskDesc,
		Date:      p.Date.Time,
	}

	_, err := r.db.NewInsert().
		Model(dbTask).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return mapDBTaskToModel(dbTask), nil
}

// List returns the owner's tasks, optionally filtered to an exact date,
// ordered by date descending then created_at descending, capped at limit.
func (r *Repository) List(ctx context.Context, ownerID uuid.UUID, date *Date, limit int) ([]Task, error) {
	var dbTasks []database.Task

	q := r.db.NewSelect().
		Model(&dbTasks).
		Where("user_id = ?", ownerID)

	if date != nil {
		q = q.Where("date = ?", date.Time)
	}

	err := q.Order("date DESC").
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return mapDBTasksToModels(dbTasks), nil
}

// ListRange returns the owner's tasks with dates in [start, end], both
// inclusive, with the same ordering as List.
func (r *Repository) ListRange(ctx context.Context, ownerID uuid.UUID, start, end Date) ([]Task, error) {
	var dbTasks []database.Task

	err := r.db.NewSelect().
		Model(&dbTasks).
		Where("user_id = ?", ownerID).
		Where("date >= ?", start.Time).
		Where("date <= ?", end.Time).
		Order("date DESC").
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks by date range: %w", err)
	}

	return mapDBTasksToModels(dbTasks), nil
}

// Get retrieves a task by id for the owner
func (r *Repository) Get(ctx context.Context, ownerID uuid.UUID, id int64) (*Task, error) {
	dbTask := new(database.Task)
	err := r.db.NewSelect().
		Model(dbTask).
		Where("id = ?", id).
		Where("user_id = ?", ownerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return mapDBTaskToModel(dbTask), nil
}

// Update applies a partial update to the owner's task
func (r *Repository) Update(ctx context.Context, ownerID uuid.UUID, id int64, p UpdateParams) (*Task, error) {
	existing, err := r.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if p.TaskTitle != nil {
		existing.TaskTitle = *p.TaskTitle
	}
	if p.TaskDesc != nil {
		existing.TaskDesc = *p.TaskDesc
	}
	if p.Date != nil {
		existing.Date = *p.Date
	}
	existing.UpdatedAt = time.Now()

	dbTask := &database.Task{
		ID:        existing.ID,
		UserID:    existing.UserID,
		TaskTitle: existing.TaskTitle,
		TaskDesc:  existing.TaskDesc,
		Date:      existing.Date.Time,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: existing.UpdatedAt,
	}

	res, err := r.db.NewUpdate().
		Model(dbTask).
		Column("task_title", "task_desc", "date", "updated_at").
		Where("id = ?", id).
		Where("user_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return existing, nil
}

// Delete removes the owner's task
func (r *Repository) Delete(ctx context.Context, ownerID uuid.UUID, id int64) error {
	res, err := r.db.NewDelete().
		Model((*database.Task)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func mapDBTaskToModel(dbt *database.Task) *Task {
	return &Task{
		ID:        dbt.ID,
		UserID:    dbt.UserID,
		TaskTitle: dbt.TaskTitle,
		TaskDesc:  dbt.TaskDesc,
		Date:      DateOf(dbt.Date),
		CreatedAt: dbt.CreatedAt,
		UpdatedAt: dbt.UpdatedAt,
	}
}

func mapDBTasksToModels(dbTasks []database.Task) []Task {
	tasks := make([]Task, 0, len(dbTasks))
	for i := range dbTasks {
		tasks = append(tasks, *mapDBTaskToModel(&dbTasks[i]))
	}
	return tasks
}
