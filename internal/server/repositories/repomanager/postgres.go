package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avelkov/draftforge/internal/server/migrations"
	"github.com/avelkov/draftforge/internal/server/repositories/drafts"
	"github.com/avelkov/draftforge/internal/server/repositories/usage"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
	db     *sql.DB
	drafts drafts.Repository
	usage  usage.Repository
}

func NewPostgresRepositoryManager(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:     db,
		drafts: drafts.NewPostgresRepository(db),
		usage:  usage.NewPostgresRepository(db),
	}

	if err := m.runMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}

func (m *PostgresRepositoryManager) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, m.db, ".")
}

func (m *PostgresRepositoryManager) Drafts() drafts.Repository {
	return m.drafts
}

func (m *PostgresRepositoryManager) Usage() usage.Repository {
	return m.usage
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}
