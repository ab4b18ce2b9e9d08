package data

import (
	"context"
	"database/sql"
	"fmt"
)

// Restore writes a snapshot back into the database. Existing rows with the
// same keys are overwritten so a restore can be re-run safely.
func Restore(ctx context.Context, db *sql.DB, snap *Snapshot) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // ignore rollback errors

	for _, user := range snap.Users {
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO users (id, email, username, password_hash, xp, lives, streak, last_activity, profile_image_url, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			user.ID, user.Email, user.Username, user.PasswordHash,
			user.XP, user.Lives, user.Streak, user.LastActivity,
			user.ProfileImageURL, user.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("restore user %s: %w", user.Email, err)
		}
	}

	for _, record := range snap.Progress {
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO progress (user_id, lesson_id, completed, score, attempts, completed_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			record.UserID, record.LessonID, record.Completed,
			record.Score, record.Attempts, record.CompletedAt,
		)
		if err != nil {
			return fmt.Errorf("restore progress %s/%s: %w", record.UserID, record.LessonID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
