package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/avelkov/draftforge/internal/dbx"
	"github.com/avelkov/draftforge/internal/server/models"
)

// PostgresRepository stores ledger records in the INSERT-only api_usage
// table. Insertion order is preserved by a serial column.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, rec *models.UsageRecord) error {
	query := `
		INSERT INTO api_usage (id, ts, provider, model, operation, input_tokens, output_tokens, cost, success, error_kind)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Timestamp, rec.Provider, rec.Model, rec.Operation,
		rec.InputTokens, rec.OutputTokens, rec.Cost, rec.Success, rec.ErrorKind)
	if err != nil {
		return fmt.Errorf("append usage record: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SelectRange(ctx context.Context, since, until time.Time) ([]*models.UsageRecord, error) {
	query := `
		SELECT id, ts, provider, model, operation, input_tokens, output_tokens, cost, success, error_kind
		FROM api_usage
		WHERE ts >= $1 AND ts <= $2
		ORDER BY ts, seq
	`
	return r.selectRecords(ctx, query, since, until)
}

func (r *PostgresRepository) SelectAll(ctx context.Context) ([]*models.UsageRecord, error) {
	query := `
		SELECT id, ts, provider, model, operation, input_tokens, output_tokens, cost, success, error_kind
		FROM api_usage
		ORDER BY ts, seq
	`
	return r.selectRecords(ctx, query)
}

func (r *PostgresRepository) selectRecords(ctx context.Context, query string, args ...any) ([]*models.UsageRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select usage records: %w", err)
	}
	defer rows.Close()

	var result []*models.UsageRecord
	for rows.Next() {
		var rec models.UsageRecord
		if err := rows.Scan(
			&rec.ID, &rec.Timestamp, &rec.Provider, &rec.Model, &rec.Operation,
			&rec.InputTokens, &rec.OutputTokens, &rec.Cost, &rec.Success, &rec.ErrorKind,
		); err != nil {
			return nil, err
		}
		result = append(result, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
