// Package sql implements the dal repositories on SQLite.
package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maay-app/maay-api/internal/dal"
)

type (
	Client interface {
		ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
		QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
		QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	}

	SQLiteRepository struct {
		db     *sql.DB
		client Client
		log    *slog.Logger
	}
)

func NewSQLiteRepository(db *sql.DB, log *slog.Logger) *SQLiteRepository {
	return &SQLiteRepository{db: db, client: db, log: log}
}

func (r *SQLiteRepository) Transact(ctx context.Context, txFunc func(r dal.Repository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // ignore rollback errors

	if err = txFunc(&SQLiteRepository{db: r.db, client: tx, log: r.log}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// storageErr classifies driver errors into the dal error kinds. Anything
// that is not a missing row or a constraint violation counts as a storage
// failure and is surfaced without retry.
func storageErr(op string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return dal.ErrNotFound
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, dal.ErrConflict)
	default:
		return fmt.Errorf("%s: %w: %w", op, dal.ErrUnavailable, err)
	}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
