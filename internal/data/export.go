package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Dump reads both collections into a snapshot. The two table scans are
// independent and run concurrently.
func Dump(ctx context.Context, db *sql.DB) (*Snapshot, error) {
	snap := &Snapshot{ExportedAt: time.Now().UTC()}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		rows, err := db.QueryContext(ctx, `
			SELECT id, email, username, password_hash, xp, lives, streak, last_activity, COALESCE(profile_image_url, ''), created_at
			FROM users ORDER BY created_at`)
		if err != nil {
			return fmt.Errorf("query users: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				user         User
				lastActivity sql.NullTime
			)
			if err = rows.Scan(
				&user.ID, &user.Email, &user.Username, &user.PasswordHash,
				&user.XP, &user.Lives, &user.Streak, &lastActivity,
				&user.ProfileImageURL, &user.CreatedAt,
			); err != nil {
				return fmt.Errorf("scan user: %w", err)
			}
			if lastActivity.Valid {
				user.LastActivity = &lastActivity.Time
			}
			snap.Users = append(snap.Users, user)
		}
		if rows.Err() != nil {
			return fmt.Errorf("iterate users: %w", rows.Err())
		}
		return nil
	})

	eg.Go(func() error {
		rows, err := db.QueryContext(ctx, `
			SELECT user_id, lesson_id, completed, COALESCE(score, 0), attempts, completed_at
			FROM progress ORDER BY user_id, lesson_id`)
		if err != nil {
			return fmt.Errorf("query progress: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				record      ProgressRecord
				completedAt sql.NullTime
			)
			if err = rows.Scan(
				&record.UserID, &record.LessonID, &record.Completed,
				&record.Score, &record.Attempts, &completedAt,
			); err != nil {
				return fmt.Errorf("scan progress record: %w", err)
			}
			if completedAt.Valid {
				record.CompletedAt = &completedAt.Time
			}
			snap.Progress = append(snap.Progress, record)
		}
		if rows.Err() != nil {
			return fmt.Errorf("iterate progress: %w", rows.Err())
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return snap, nil
}
