package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	TaskTitle string    `json:"task_title"`
	TaskDesc  string    `json:"task_desc,omitempty"`
	Date      Date      `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// CreateParams holds the fields required to create a task
type CreateParams struct {
	TaskTitle string `json:"task_title"`
	TaskDesc  string `json:"task_desc"`
	Date      Date   `json:"date"`
}

// UpdateParams holds a partial update. Nil fields are left unchanged;
// a present empty string overwrites.
type UpdateParams struct {
	TaskTitle *string `json:"task_title"`
	TaskDesc  *string `json:"task_desc"`
	Date      *Date   `json:"date"`
}
