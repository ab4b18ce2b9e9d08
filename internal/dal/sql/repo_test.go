package sql

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/maay-app/maay-api/internal/dal"
)

func openTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// the in-memory database lives per connection
	db.SetMaxOpenConns(1)

	require.NoError(t, InitSchema(context.Background(), db))

	return NewSQLiteRepository(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testUser(id, email string) dal.User {
	return dal.User{
		ID:           id,
		Email:        email,
		Username:     "itzel",
		PasswordHash: "$2a$10$hash",
		Lives:        5,
		CreatedAt:    time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestInsertAndFindUser(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertUser(ctx, testUser("u1", "itzel@example.com")))

	user, err := repo.FindUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "itzel@example.com", user.Email)
	assert.Equal(t, 5, user.Lives)
	assert.Equal(t, 0, user.XP)
	assert.Nil(t, user.LastActivity)
	assert.Empty(t, user.ProfileImageURL)

	byEmail, err := repo.FindUserByEmail(ctx, "itzel@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestFindUserNotFound(t *testing.T) {
	repo := openTestRepo(t)

	_, err := repo.FindUserByID(context.Background(), "missing")
	require.ErrorIs(t, err, dal.ErrNotFound)
}

func TestInsertUserDuplicateEmail(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertUser(ctx, testUser("u1", "itzel@example.com")))

	err := repo.InsertUser(ctx, testUser("u2", "itzel@example.com"))
	require.ErrorIs(t, err, dal.ErrConflict)
}

func TestAddXP(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertUser(ctx, testUser("u1", "itzel@example.com")))

	total, err := repo.AddXP(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, total)

	total, err = repo.AddXP(ctx, "u1", 95)
	require.NoError(t, err)
	assert.Equal(t, 105, total)
}

func TestDecrementLifeFloorsAtZero(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	user := testUser("u1", "itzel@example.com")
	user.Lives = 1
	require.NoError(t, repo.InsertUser(ctx, user))

	lives, err := repo.DecrementLife(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, lives)

	lives, err = repo.DecrementLife(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, lives)
}

func TestIncrementLifeCapsAtFive(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	user := testUser("u1", "itzel@example.com")
	user.Lives = 4
	require.NoError(t, repo.InsertUser(ctx, user))

	lives, changed, err := repo.IncrementLife(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 5, lives)

	lives, changed, err = repo.IncrementLife(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 5, lives)
}

func TestSetStreak(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertUser(ctx, testUser("u1", "itzel@example.com")))

	loginAt := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetStreak(ctx, "u1", 4, loginAt))

	user, err := repo.FindUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, user.Streak)
	require.NotNil(t, user.LastActivity)
	assert.True(t, loginAt.Equal(*user.LastActivity), "last_activity = %v, want %v", user.LastActivity, loginAt)
}

func TestSetProfileImageURL(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertUser(ctx, testUser("u1", "itzel@example.com")))
	require.NoError(t, repo.SetProfileImageURL(ctx, "u1", "/static/profile_images/u1.png"))

	user, err := repo.FindUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "/static/profile_images/u1.png", user.ProfileImageURL)
}

func TestUpsertCompletionIncrementsAttempts(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertUser(ctx, testUser("u1", "itzel@example.com")))

	first := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpsertCompletion(ctx, "u1", "u1l1", 60, first))

	record, err := repo.FindProgress(ctx, "u1", "u1l1")
	require.NoError(t, err)
	assert.True(t, record.Completed)
	assert.Equal(t, 60, record.Score)
	assert.Equal(t, 1, record.Attempts)

	second := first.Add(24 * time.Hour)
	require.NoError(t, repo.UpsertCompletion(ctx, "u1", "u1l1", 90, second))

	record, err = repo.FindProgress(ctx, "u1", "u1l1")
	require.NoError(t, err)
	assert.Equal(t, 90, record.Score)
	assert.Equal(t, 2, record.Attempts)
	require.NotNil(t, record.CompletedAt)
	assert.True(t, second.Equal(*record.CompletedAt), "completed_at = %v, want %v", record.CompletedAt, second)
}

func TestFindProgressNotFound(t *testing.T) {
	repo := openTestRepo(t)

	_, err := repo.FindProgress(context.Background(), "u1", "u1l1")
	require.ErrorIs(t, err, dal.ErrNotFound)
}

func TestListProgressAndCountCompleted(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertUser(ctx, testUser("u1", "itzel@example.com")))
	require.NoError(t, repo.InsertUser(ctx, testUser("u2", "koh@example.com")))

	now := time.Now().UTC()
	require.NoError(t, repo.UpsertCompletion(ctx, "u1", "u1l1", 80, now))
	require.NoError(t, repo.UpsertCompletion(ctx, "u1", "u1l2", 70, now))
	require.NoError(t, repo.UpsertCompletion(ctx, "u2", "u1l1", 90, now))

	records, err := repo.ListProgress(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "u1l1", records[0].LessonID)
	assert.Equal(t, "u1l2", records[1].LessonID)

	count, err := repo.CountCompleted(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	empty, err := repo.ListProgress(ctx, "u3")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTransactRollsBackOnError(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertUser(ctx, testUser("u1", "itzel@example.com")))

	sentinel := errors.New("boom")
	err := repo.Transact(ctx, func(r dal.Repository) error {
		if _, err := r.AddXP(ctx, "u1", 50); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	user, err := repo.FindUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, user.XP, "rolled back writes must not be visible")
}

func TestTransactCommits(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertUser(ctx, testUser("u1", "itzel@example.com")))

	err := repo.Transact(ctx, func(r dal.Repository) error {
		if err := r.UpsertCompletion(ctx, "u1", "u1l1", 80, time.Now().UTC()); err != nil {
			return err
		}
		_, err := r.AddXP(ctx, "u1", 10)
		return err
	})
	require.NoError(t, err)

	user, err := repo.FindUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, user.XP)

	count, err := repo.CountCompleted(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
