package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/maay-app/maay-api/internal/dal"
)

const livesCap = 5

func (r *SQLiteRepository) InsertUser(ctx context.Context, user dal.User) error {
	query, args, err := dal.InsertUserQuery(user).ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err = r.client.ExecContext(ctx, query, args...); err != nil {
		return storageErr("insert user", err)
	}
	return nil
}

func (r *SQLiteRepository) FindUserByID(ctx context.Context, id string) (*dal.User, error) {
	return r.findUser(ctx, dal.FindUserByIDQuery(id))
}

func (r *SQLiteRepository) FindUserByEmail(ctx context.Context, email string) (*dal.User, error) {
	return r.findUser(ctx, dal.FindUserByEmailQuery(email))
}

func (r *SQLiteRepository) AddXP(ctx context.Context, userID string, delta int) (int, error) {
	query, args, err := dal.AddXPQuery(userID, delta).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update query: %w", err)
	}

	var xp int
	if err = r.client.QueryRowContext(ctx, query, args...).Scan(&xp); err != nil {
		return 0, storageErr("add xp", err)
	}
	return xp, nil
}

func (r *SQLiteRepository) DecrementLife(ctx context.Context, userID string) (int, error) {
	query, args, err := dal.DecrementLifeQuery(userID).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update query: %w", err)
	}

	var lives int
	if err = r.client.QueryRowContext(ctx, query, args...).Scan(&lives); err != nil {
		return 0, storageErr("decrement life", err)
	}
	return lives, nil
}

func (r *SQLiteRepository) IncrementLife(ctx context.Context, userID string) (int, bool, error) {
	query, args, err := dal.IncrementLifeQuery(userID, livesCap).ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build update query: %w", err)
	}

	var lives int
	if err = r.client.QueryRowContext(ctx, query, args...).Scan(&lives); err != nil {
		// no matching row means lives are already at the cap
		if errors.Is(err, sql.ErrNoRows) {
			return livesCap, false, nil
		}
		return 0, false, storageErr("increment life", err)
	}
	return lives, true, nil
}

func (r *SQLiteRepository) SetStreak(ctx context.Context, userID string, streak int, lastActivity time.Time) error {
	query, args, err := dal.SetStreakQuery(userID, streak, lastActivity).ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	if _, err = r.client.ExecContext(ctx, query, args...); err != nil {
		return storageErr("set streak", err)
	}
	return nil
}

func (r *SQLiteRepository) SetProfileImageURL(ctx context.Context, userID, url string) error {
	query, args, err := dal.SetProfileImageURLQuery(userID, url).ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	if _, err = r.client.ExecContext(ctx, query, args...); err != nil {
		return storageErr("set profile image url", err)
	}
	return nil
}

func (r *SQLiteRepository) findUser(ctx context.Context, q squirrel.Sqlizer) (*dal.User, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	var (
		user         dal.User
		lastActivity sql.NullTime
	)
	err = r.client.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.XP,
		&user.Lives,
		&user.Streak,
		&lastActivity,
		&user.ProfileImageURL,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, storageErr("find user", err)
	}
	if lastActivity.Valid {
		user.LastActivity = &lastActivity.Time
	}
	return &user, nil
}
