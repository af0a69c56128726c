// Package postgres opens the PostgreSQL backend through pgx's database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"todolist/internal/storage/sqlstore"
)

// Dialect describes PostgreSQL for the shared SQL repositories.
var Dialect = sqlstore.Dialect{
	Name:              "postgres",
	Placeholder:       sqlstore.Dollar,
	IsUniqueViolation: isUniqueViolation,
}

const pingTimeout = 10 * time.Second

// Open connects to the database at url, verifies the connection and
// creates the schema when missing.
func Open(ctx context.Context, url string, logger *slog.Logger) (*sqlstore.Store, error) {
	if url == "" {
		return nil, fmt.Errorf("empty database url")
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("connected to postgres")
	return sqlstore.New(db, Dialect, logger), nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS projects (
            id BIGSERIAL PRIMARY KEY,
            name VARCHAR(30) NOT NULL UNIQUE,
            description VARCHAR(150) NOT NULL,
            created_at TIMESTAMPTZ NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS tasks (
            id BIGSERIAL PRIMARY KEY,
            project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
            title VARCHAR(30) NOT NULL,
            description VARCHAR(150) NOT NULL,
            status VARCHAR(10) NOT NULL DEFAULT 'todo' CHECK (status IN ('todo', 'doing', 'done')),
            deadline TIMESTAMPTZ NULL,
            closed_at TIMESTAMPTZ NULL,
            created_at TIMESTAMPTZ NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status_deadline ON tasks(status, deadline);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
