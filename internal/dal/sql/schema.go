package sql

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id                TEXT PRIMARY KEY,
    email             TEXT NOT NULL UNIQUE,
    username          TEXT NOT NULL,
    password_hash     TEXT NOT NULL,
    xp                INTEGER NOT NULL DEFAULT 0 CHECK (xp >= 0),
    lives             INTEGER NOT NULL DEFAULT 5 CHECK (lives BETWEEN 0 AND 5),
    streak            INTEGER NOT NULL DEFAULT 0 CHECK (streak >= 0),
    last_activity     TIMESTAMP,
    profile_image_url TEXT,
    created_at        TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS progress (
    user_id      TEXT NOT NULL REFERENCES users (id),
    lesson_id    TEXT NOT NULL,
    completed    BOOLEAN NOT NULL DEFAULT FALSE,
    score        INTEGER,
    attempts     INTEGER NOT NULL DEFAULT 0 CHECK (attempts >= 0),
    completed_at TIMESTAMP,

    PRIMARY KEY (user_id, lesson_id)
);
`

// InitSchema creates the tables if they do not exist yet.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
