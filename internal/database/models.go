package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the bun model for the users table.
// Rows are created on registration and never mutated or deleted by this service.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,nullzero,default:gen_random_uuid()"`
	Name         string    `bun:"name,notnull"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	IsActive     bool      `bun:"is_active,notnull,default:true"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Task is the bun model for the tasks table. Every row belongs to exactly one
// user; repositories always filter by user_id.
type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:t"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    uuid.UUID `bun:"user_id,notnull,type:uuid"`
	TaskTitle string    `bun:"task_title,notnull"`
	TaskDesc  string    `bun:"task_desc"`
	Date      time.Time `bun:"date,notnull,type:date"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero"`
}

// Format is the bun model for the formats table. At most one row per user may
// have is_default = true; repositories enforce this transactionally.
type Format struct {
	bun.BaseModel `bun:"table:formats,alias:f"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     uuid.UUID `bun:"user_id,notnull,type:uuid"`
	FormatName string    `bun:"format_name,notnull"`
	TextFormat string    `bun:"text_format"`
	ImagePath  string    `bun:"image_path"`
	IsDefault  bool      `bun:"is_default,notnull,default:false"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero"`
}
