// Package db wires the Postgres connection, repositories, and schema
// migrations together.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"authcore/internal/server/migrations"
	"authcore/internal/server/repositories/accounts"
)

// Manager owns the database handle and hands out repositories bound to it.
type Manager interface {
	Conn() *sql.DB
	Accounts() accounts.Repository
	RunMigrations(ctx context.Context) error
	Close() error
}

type PostgresManager struct {
	db       *sql.DB
	accounts accounts.Repository
}

func (m *PostgresManager) Conn() *sql.DB { return m.db }

func (m *PostgresManager) Accounts() accounts.Repository { return m.accounts }

func (m *PostgresManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func (m *PostgresManager) Close() error { return m.db.Close() }

// NewPostgresManager opens the database, builds the repositories, and
// applies pending migrations.
func NewPostgresManager(ctx context.Context, dsn string) (Manager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresManager{
		db:       db,
		accounts: accounts.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
