package format

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

var (
	ErrNotFound  = errors.New("format not found")
	ErrNoDefault = errors.New("no default format found")
)

// Repository handles format persistence. Every query is scoped to the owning
// user. The "at most one default per user" invariant is preserved by running
// each clear-then-set sequence inside a single transaction, so concurrent
// requests for the same user serialize instead of racing.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new format. When the new format is the default, the
// owner's other defaults are cleared in the same transaction.
func (r *Repository) Create(ctx context.Context, ownerID uuid.UUID, p CreateParams) (*Format, error) {
	dbFormat := &database.Format{
		UserID:     ownerID,
		FormatName: p.FormatName,
		TextFormat: p.TextFormat,
		ImagePath:  p.ImagePath,
		IsDefault:  p.IsDefault,
	}

	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if p.IsDefault {
			if err := clearDefaults(ctx, tx, ownerID, 0); err != nil {
				return err
			}
		}

		_, err := tx.NewInsert().
			Model(dbFormat).
			Returning("*").
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create format: %w", err)
	}

	return mapDBFormatToModel(dbFormat), nil
}

// List returns all of the owner's formats, default first, then newest first
func (r *Repository) List(ctx context.Context, ownerID uuid.UUID) ([]Format, error) {
	var dbFormats []database.Format

	err := r.db.NewSelect().
		Model(&dbFormats).
		Where("user_id = ?", ownerID).
		Order("is_default DESC").
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list formats: %w", err)
	}

	formats := make([]Format, 0, len(dbFormats))
	for i := range dbFormats {
		formats = append(formats, *mapDBFormatToModel(&dbFormats[i]))
	}
	return formats, nil
}

// Get retrieves a format by id for the owner
func (r *Repository) Get(ctx context.Context, ownerID uuid.UUID, id int64) (*Format, error) {
	return getScoped(ctx, r.db, ownerID, id)
}

// GetDefault returns the owner's default format, if any
func (r *Repository) GetDefault(ctx context.Context, ownerID uuid.UUID) (*Format, error) {
	dbFormat := new(database.Format)
	err := r.db.NewSelect().
		Model(dbFormat).
		Where("user_id = ?", ownerID).
		Where("is_default = ?", true).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoDefault
		}
		return nil, fmt.Errorf("failed to get default format: %w", err)
	}

	return mapDBFormatToModel(dbFormat), nil
}

// Update applies a partial update to the owner's format. When the update
// promotes the format to default, the owner's other defaults are cleared in
// the same transaction.
func (r *Repository) Update(ctx context.Context, ownerID uuid.UUID, id int64, p UpdateParams) (*Format, error) {
	var updated *Format

	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		existing, err := getScoped(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}

		if p.IsDefault != nil && *p.IsDefault {
			if err := clearDefaults(ctx, tx, ownerID, id); err != nil {
				return err
			}
		}

		if p.FormatName != nil {
			existing.FormatName = *p.FormatName
		}
		if p.TextFormat != nil {
			existing.TextFormat = *p.TextFormat
		}
		if p.ImagePath != nil {
			existing.ImagePath = *p.ImagePath
		}
		if p.IsDefault != nil {
			existing.IsDefault = *p.IsDefault
		}
		existing.UpdatedAt = time.Now()

		dbFormat := &database.Format{
			ID:         existing.ID,
			UserID:     existing.UserID,
			FormatName: existing.FormatName,
			TextFormat: existing.TextFormat,
			ImagePath:  existing.ImagePath,
			IsDefault:  existing.IsDefault,
			CreatedAt:  existing.CreatedAt,
			UpdatedAt:  existing.UpdatedAt,
		}

		res, err := tx.NewUpdate().
			Model(dbFormat).
			Column("format_name", "text_format", "image_path", "is_default", "updated_at").
			Where("id = ?", id).
			Where("user_id = ?", ownerID).
			Exec(ctx)
		if err != nil {
			return err
		}

		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return ErrNotFound
		}

		updated = existing
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update format: %w", err)
	}

	return updated, nil
}

// Delete removes the owner's format
func (r *Repository) Delete(ctx context.Context, ownerID uuid.UUID, id int64) error {
	res, err := r.db.NewDelete().
		Model((*database.Format)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete format: %w", err)
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

// SetDefault promotes the owner's format to the single default. The target's
// ownership is verified inside the transaction before any default is cleared,
// so an invalid target leaves the siblings untouched.
func (r *Repository) SetDefault(ctx context.Context, ownerID uuid.UUID, id int64) (*Format, error) {
	var promoted *Format

	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		existing, err := getScoped(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}

		if err := clearDefaults(ctx, tx, ownerID, 0); err != nil {
			return err
		}

		existing.IsDefault = true
		existing.UpdatedAt = time.Now()

		res, err := tx.NewUpdate().
			Model((*database.Format)(nil)).
			Set("is_default = ?", true).
			Set("updated_at = ?", existing.UpdatedAt).
			Where("id = ?", id).
			Where("user_id = ?", ownerID).
			Exec(ctx)
		if err != nil {
			return err
		}

		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return ErrNotFound
		}

		promoted = existing
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to set default format: %w", err)
	}

	return promoted, nil
}

// clearDefaults unsets is_default on all of the owner's formats except
// keepID (0 keeps nothing).
func clearDefaults(ctx context.Context, db bun.IDB, ownerID uuid.UUID, keepID int64) error {
	q := db.NewUpdate().
		Model((*database.Format)(nil)).
		Set("is_default = ?", false).
		Where("user_id = ?", ownerID).
		Where("is_default = ?", true)

	if keepID != 0 {
		q = q.Where("id != ?", keepID)
	}

	_, err := q.Exec(ctx)
	return err
}

func getScoped(ctx context.Context, db bun.IDB, ownerID uuid.UUID, id int64) (*Format, error) {
	dbFormat := new(database.Format)
	err := db.NewSelect().
		Model(dbFormat).
		Where("id = ?", id).
		Where("user_id = ?", ownerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get format: %w", err)
	}

	return mapDBFormatToModel(dbFormat), nil
}

func mapDBFormatToModel(dbf *database.Format) *Format {
	return &Format{
		ID:         dbf.ID,
		UserID:     dbf.UserID,
		FormatName: dbf.FormatName,
		TextFormat: dbf.TextFormat,
		ImagePath:  dbf.ImagePath,
		IsDefault:  dbf.IsDefault,
		CreatedAt:  dbf.CreatedAt,
		UpdatedAt:  dbf.UpdatedAt,
	}
}
