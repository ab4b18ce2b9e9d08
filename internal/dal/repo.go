package dal

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on unique constraint violations (duplicate email).
	ErrConflict = errors.New("already exists")
	// ErrUnavailable marks storage-layer failures that should surface to the
	// caller as-is; no retry policy exists at this layer.
	ErrUnavailable = errors.New("storage unavailable")
)

type (
	UsersRepository interface {
		InsertUser(ctx context.Context, user User) error
		FindUserByID(ctx context.Context, id string) (*User, error)
		FindUserByEmail(ctx context.Context, email string) (*User, error)
		// AddXP atomically increments the user's XP and returns the new total.
		AddXP(ctx context.Context, userID string, delta int) (int, error)
		// DecrementLife atomically decrements lives, floored at 0, and
		// returns the new value.
		DecrementLife(ctx context.Context, userID string) (int, error)
		// IncrementLife atomically increments lives only while below the cap.
		// The returned bool reports whether a row was updated.
		IncrementLife(ctx context.Context, userID string) (int, bool, error)
		SetStreak(ctx context.Context, userID string, streak int, lastActivity time.Time) error
		SetProfileImageURL(ctx context.Context, userID, url string) error
	}

	ProgressRepository interface {
		// UpsertCompletion marks the lesson completed with the given score in
		// a single compound statement; the attempts counter increments even
		// when the record is created by this call (attempts starts at 1).
		UpsertCompletion(ctx context.Context, userID, lessonID string, score int, completedAt time.Time) error
		FindProgress(ctx context.Context, userID, lessonID string) (*ProgressRecord, error)
		ListProgress(ctx context.Context, userID string) ([]ProgressRecord, error)
		CountCompleted(ctx context.Context, userID string) (int, error)
	}

	Repository interface {
		Transact(ctx context.Context, txFunc func(r Repository) error) error
		UsersRepository
		ProgressRepository
	}
)
