package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/port"
	"github.com/fhuszti/image-optimiser-go/internal/usecase/attachment"
	"github.com/fhuszti/image-optimiser-go/internal/uuid"
)

const selectColumns = `id, path, mime_type, original_size, optimised_size, optimised, formats, failure_message, created_at, updated_at`

type AttachmentRepository struct {
	db *sql.DB
}

// compile-time check: *AttachmentRepository must satisfy port.AttachmentRepository
var _ port.AttachmentRepository = (*AttachmentRepository)(nil)

func NewAttachmentRepository(db *sql.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *model.Attachment) error {
	log.Printf("creating database record for attachment #%s at %q...", a.ID, a.Path)

	const query = `
      INSERT INTO attachments
        (id, path, mime_type, original_size, optimised_size, optimised, formats, failure_message)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Path, a.MimeType,
		a.OriginalSize, a.OptimisedSize, a.Optimised,
		a.Formats, a.FailureMessage,
	)
	if err != nil {
		return fmt.Errorf("insert attachment: %w", err)
	}
	return nil
}

func (r *AttachmentRepository) Update(ctx context.Context, a *model.Attachment) error {
	log.Printf("updating database record for attachment #%s, optimised=%v...", a.ID, a.Optimised)

	const query = `
      UPDATE attachments
      SET
        path            = ?,
        mime_type       = ?,
        original_size   = ?,
        optimised_size  = ?,
        optimised       = ?,
        formats         = ?,
        failure_message = ?
      WHERE id = ?
    `
	res, err := r.db.ExecContext(ctx, query,
		a.Path,
		a.MimeType,
		a.OriginalSize,
		a.OptimisedSize,
		a.Optimised,
		a.Formats,
		a.FailureMessage,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("update attachment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MariaDB reports 0 for an unchanged row too, so confirm it exists
		if _, err := r.GetByID(ctx, a.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Attachment, error) {
	log.Printf("fetching attachment #%s from the database...", id)

	query := `SELECT ` + selectColumns + ` FROM attachments WHERE id = ?`
	return scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *AttachmentRepository) GetByPath(ctx context.Context, path string) (*model.Attachment, error) {
	query := `SELECT ` + selectColumns + ` FROM attachments WHERE path = ?`
	return scanOne(r.db.QueryRowContext(ctx, query, path))
}

// ListUnoptimised pages through attachments still waiting for optimisation, oldest first.
func (r *AttachmentRepository) ListUnoptimised(ctx context.Context, offset, limit int) ([]model.Attachment, error) {
	query := `SELECT ` + selectColumns + ` FROM attachments WHERE optimised = FALSE ORDER BY created_at, id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list unoptimised attachments: %w", err)
	}
	defer rows.Close()

	var out []model.Attachment
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unoptimised attachments: %w", err)
	}
	return out, nil
}

func (r *AttachmentRepository) CountUnoptimised(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attachments WHERE optimised = FALSE`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unoptimised attachments: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOne(row scanner) (*model.Attachment, error) {
	a, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, attachment.ErrAttachmentNotFound
	}
	return a, err
}

func scan(row scanner) (*model.Attachment, error) {
	var a model.Attachment
	if err := row.Scan(
		&a.ID, &a.Path, &a.MimeType,
		&a.OriginalSize, &a.OptimisedSize, &a.Optimised,
		&a.Formats, &a.FailureMessage,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan attachment: %w", err)
	}
	return &a, nil
}
