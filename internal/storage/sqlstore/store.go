// Package sqlstore implements the storage repositories over database/sql.
// Queries are written with '?' placeholders and rebound for the dialect in use.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"todolist/internal/storage"
)

// Placeholder selects the bind variable syntax of a driver.
type Placeholder int

const (
	// Question uses '?' (SQLite, MySQL).
	Question Placeholder = iota
	// Dollar uses '$1', '$2', ... (PostgreSQL).
	Dollar
)

// Dialect captures the driver specific bits the shared queries depend on.
type Dialect struct {
	Name        string
	Placeholder Placeholder
	// IsUniqueViolation reports whether err came from a unique constraint.
	IsUniqueViolation func(err error) bool
}

// Rebind rewrites '?' placeholders into the dialect's syntax.
func (d Dialect) Rebind(query string) string {
	if d.Placeholder != Dollar {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) uniqueViolation(err error) bool {
	return d.IsUniqueViolation != nil && d.IsUniqueViolation(err)
}

// Store wraps an open database handle. Backends construct it after running
// their own migrations.
type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

// New wraps db. The caller keeps ownership of schema setup.
func New(db *sql.DB, dialect Dialect, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, dialect: dialect, logger: logger}
}

// DB exposes the underlying handle for migrations and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// WithinTx runs fn in a database transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(storage.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = sqlTx.Rollback() }()

	if err := fn(&tx{q: sqlTx, dialect: s.dialect}); err != nil {
		s.logger.Debug("transaction rolled back", slog.String("dialect", s.dialect.Name), slog.String("error", err.Error()))
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type tx struct {
	q       queryer
	dialect Dialect
}

func (t *tx) Projects() storage.ProjectRepository { return &projectRepo{q: t.q, dialect: t.dialect} }
func (t *tx) Tasks() storage.TaskRepository       { return &taskRepo{q: t.q, dialect: t.dialect} }
