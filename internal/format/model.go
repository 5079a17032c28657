package format

import (
	"time"

	"github.com/google/uuid"
)

// Format is a named, user-owned output template controlling how a daily
// summary is rendered. At most one format per user is the default.
type Format struct {
	ID         int64     `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	FormatName string    `json:"format_name"`
	TextFormat string    `json:"text_format,omitempty"`
	ImagePath  string    `json:"image_path,omitempty"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// CreateParams holds the fields required to create a format
type CreateParams struct {
	FormatName string `json:"format_name"`
	TextFormat string `json:"text_format"`
	ImagePath  string `json:"image_path"`
	IsDefault  bool   `json:"is_default"`
}

// UpdateParams holds a partial update. Nil fields are left unchanged;
// a present empty string overwrites.
type UpdateParams struct {
	FormatName *string `json:"format_name"`
	TextFormat *string `json:"text_format"`
	ImagePath  *string `json:"image_path"`
	IsDefault  *bool   `json:"is_default"`
}
