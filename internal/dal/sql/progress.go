package sql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/maay-app/maay-api/internal/dal"
)

func (r *SQLiteRepository) UpsertCompletion(ctx context.Context, userID, lessonID string, score int, completedAt time.Time) error {
	query, args, err := dal.UpsertCompletionQuery(userID, lessonID, score, completedAt).ToSql()
	if err != nil {
		return fmt.Errorf("build upsert query: %w", err)
	}

	if _, err = r.client.ExecContext(ctx, query, args...); err != nil {
		return storageErr("upsert completion", err)
	}
	return nil
}

func (r *SQLiteRepository) FindProgress(ctx context.Context, userID, lessonID string) (*dal.ProgressRecord, error) {
	query, args, err := dal.FindProgressQuery(userID, lessonID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	record, err := hydrateProgress(r.client.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *SQLiteRepository) ListProgress(ctx context.Context, userID string) ([]dal.ProgressRecord, error) {
	query, args, err := dal.ListProgressQuery(userID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	rows, err := r.client.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list progress", err)
	}
	defer rows.Close()

	res := make([]dal.ProgressRecord, 0)
	for rows.Next() {
		record, err := hydrateProgress(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *record)
	}
	if rows.Err() != nil {
		return nil, storageErr("iterate progress", rows.Err())
	}

	return res, nil
}

func (r *SQLiteRepository) CountCompleted(ctx context.Context, userID string) (int, error) {
	query, args, err := dal.CountCompletedQuery(userID).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int
	if err = r.client.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, storageErr("count completed", err)
	}
	return count, nil
}

func hydrateProgress(row interface {
	Scan(dest ...any) error
}) (*dal.ProgressRecord, error) {
	var (
		record      dal.ProgressRecord
		completedAt sql.NullTime
	)
	err := row.Scan(
		&record.UserID,
		&record.LessonID,
		&record.Completed,
		&record.Score,
		&record.Attempts,
		&completedAt,
	)
	if err != nil {
		return nil, storageErr("scan progress record", err)
	}
	if completedAt.Valid {
		record.CompletedAt = &completedAt.Time
	}
	return &record, nil
}
