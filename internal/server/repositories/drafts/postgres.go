package drafts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avelkov/draftforge/internal/common"
	"github.com/avelkov/draftforge/internal/dbx"
	"github.com/avelkov/draftforge/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository implements draft storage over *sql.DB. Atomic
// operations run inside dbx.WithTx; the version-number race is closed by a
// SELECT ... FOR UPDATE on the draft row plus the unique
// (draft_id, version_number) constraint as a backstop.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, draft *models.Draft, first *models.Version) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO drafts (id, title, content, status, model_used, current_version, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			draft.ID, draft.Title, draft.Content, draft.Status, draft.ModelUsed,
			draft.CurrentVersion, draft.CreatedAt, draft.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert draft: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO draft_versions (id, draft_id, version_number, content, changes_summary, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			first.ID, first.DraftID, first.VersionNumber, first.Content, first.ChangesSummary, first.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert first version: %w", err)
		}
		return nil
	})
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Draft, error) {
	return scanDraft(r.db.QueryRowContext(ctx, `
		SELECT id, title, content, status, model_used, current_version, created_at, updated_at
		FROM drafts WHERE id = $1`, id))
}

func scanDraft(row *sql.Row) (*models.Draft, error) {
	var d models.Draft
	err := row.Scan(&d.ID, &d.Title, &d.Content, &d.Status, &d.ModelUsed,
		&d.CurrentVersion, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan draft: %w", err)
	}
	return &d, nil
}

func (r *PostgresRepository) List(ctx context.Context, status string, limit int) ([]*models.Draft, error) {
	query := `
		SELECT id, title, content, status, model_used, current_version, created_at, updated_at
		FROM drafts`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select drafts: %w", err)
	}
	defer rows.Close()

	var result []*models.Draft
	for rows.Next() {
		var d models.Draft
		if err := rows.Scan(&d.ID, &d.Title, &d.Content, &d.Status, &d.ModelUsed,
			&d.CurrentVersion, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) AppendVersion(ctx context.Context, draftID string, v *models.Version) (*models.Draft, error) {
	var updated *models.Draft

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var current int
		err := tx.QueryRowContext(ctx,
			`SELECT current_version FROM drafts WHERE id = $1 FOR UPDATE`, draftID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		if err != nil {
			return fmt.Errorf("lock draft row: %w", err)
		}

		v.DraftID = draftID
		v.VersionNumber = current + 1

		_, err = tx.ExecContext(ctx, `
			INSERT INTO draft_versions (id, draft_id, version_number, content, changes_summary, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			v.ID, v.DraftID, v.VersionNumber, v.Content, v.ChangesSummary, v.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return common.ErrVersionConflict
			}
			return fmt.Errorf("insert version: %w", err)
		}

		updated, err = scanDraft(tx.QueryRowContext(ctx, `
			UPDATE drafts SET content = $2, current_version = $3, updated_at = now()
			WHERE id = $1
			RETURNING id, title, content, status, model_used, current_version, created_at, updated_at`,
			draftID, v.Content, v.VersionNumber))
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *PostgresRepository) Versions(ctx context.Context, draftID string) ([]*models.Version, error) {
	if _, err := r.Get(ctx, draftID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, draft_id, version_number, content, changes_summary, created_at
		FROM draft_versions WHERE draft_id = $1
		ORDER BY version_number`, draftID)
	if err != nil {
		return nil, fmt.Errorf("select versions: %w", err)
	}
	defer rows.Close()

	// A draft with no version rows should not occur, but an empty list is
	// still the right answer if it ever does.
	result := []*models.Version{}
	for rows.Next() {
		var v models.Version
		if err := rows.Scan(&v.ID, &v.DraftID, &v.VersionNumber, &v.Content,
			&v.ChangesSummary, &v.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
