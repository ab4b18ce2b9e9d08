package dal

import (
	"time"

	"github.com/Masterminds/squirrel"
)

// InsertUserQuery builds the signup insert. Duplicate emails are rejected by
// the unique index and surface as ErrConflict.
func InsertUserQuery(user User) squirrel.Sqlizer {
	return squirrel.Insert("users").
		Columns("id", "email", "username", "password_hash", "xp", "lives", "streak", "last_activity", "profile_image_url", "created_at").
		Values(user.ID, user.Email, user.Username, user.PasswordHash, user.XP, user.Lives, user.Streak, user.LastActivity, user.ProfileImageURL, user.CreatedAt)
}

// FindUserByIDQuery builds a lookup by primary key.
func FindUserByIDQuery(id string) squirrel.Sqlizer {
	return userSelect().Where(squirrel.Eq{"id": id})
}

// FindUserByEmailQuery builds a lookup by unique email.
func FindUserByEmailQuery(email string) squirrel.Sqlizer {
	return userSelect().Where(squirrel.Eq{"email": email})
}

// AddXPQuery builds an atomic XP increment returning the new total. XP is
// never deducted, so delta is expected to be non-negative.
func AddXPQuery(userID string, delta int) squirrel.Sqlizer {
	return squirrel.Update("users").
		Set("xp", squirrel.Expr("xp + ?", delta)).
		Where(squirrel.Eq{"id": userID}).
		Suffix("RETURNING xp")
}

// DecrementLifeQuery builds an atomic life decrement floored at 0.
func DecrementLifeQuery(userID string) squirrel.Sqlizer {
	return squirrel.Update("users").
		Set("lives", squirrel.Expr("MAX(lives - 1, 0)")).
		Where(squirrel.Eq{"id": userID}).
		Suffix("RETURNING lives")
}

// IncrementLifeQuery builds a conditional life increment that only matches
// while lives are below the cap, so concurrent calls cannot push past it.
func IncrementLifeQuery(userID string, cap int) squirrel.Sqlizer {
	return squirrel.Update("users").
		Set("lives", squirrel.Expr("lives + 1")).
		Where(squirrel.Eq{"id": userID}).
		Where(squirrel.Lt{"lives": cap}).
		Suffix("RETURNING lives")
}

// SetStreakQuery builds the post-login streak update; last_activity advances
// on every login regardless of the streak branch taken.
func SetStreakQuery(userID string, streak int, lastActivity time.Time) squirrel.Sqlizer {
	return squirrel.Update("users").
		Set("streak", streak).
		Set("last_activity", lastActivity).
		Where(squirrel.Eq{"id": userID})
}

// SetProfileImageURLQuery builds the profile image URL update.
func SetProfileImageURLQuery(userID, url string) squirrel.Sqlizer {
	return squirrel.Update("users").
		Set("profile_image_url", url).
		Where(squirrel.Eq{"id": userID})
}

// UpsertCompletionQuery builds the completion upsert as one compound
// statement: completed/score/completed_at are set and attempts increments,
// including on the insert path where it starts at 1.
func UpsertCompletionQuery(userID, lessonID string, score int, completedAt time.Time) squirrel.Sqlizer {
	return squirrel.Insert("progress").
		Columns("user_id", "lesson_id", "completed", "score", "attempts", "completed_at").
		Values(userID, lessonID, true, score, 1, completedAt).
		Suffix("ON CONFLICT (user_id, lesson_id) DO UPDATE SET completed = TRUE, score = EXCLUDED.score, attempts = progress.attempts + 1, completed_at = EXCLUDED.completed_at")
}

// FindProgressQuery builds a lookup of one (user, lesson) record.
func FindProgressQuery(userID, lessonID string) squirrel.Sqlizer {
	return progressSelect().Where(squirrel.Eq{"user_id": userID, "lesson_id": lessonID})
}

// ListProgressQuery builds the listing of all progress records for a user.
func ListProgressQuery(userID string) squirrel.Sqlizer {
	return progressSelect().Where(squirrel.Eq{"user_id": userID}).OrderBy("lesson_id")
}

// CountCompletedQuery builds the completed-lesson count for a user.
func CountCompletedQuery(userID string) squirrel.Sqlizer {
	return squirrel.Select("COUNT(*)").
		From("progress").
		Where(squirrel.Eq{"user_id": userID, "completed": true})
}

func userSelect() squirrel.SelectBuilder {
	return squirrel.Select(
		"id", "email", "username", "password_hash",
		"xp", "lives", "streak", "last_activity",
		"COALESCE(profile_image_url, '')", "created_at",
	).From("users")
}

func progressSelect() squirrel.SelectBuilder {
	return squirrel.Select(
		"user_id", "lesson_id", "completed",
		"COALESCE(score, 0)", "attempts", "completed_at",
	).From("progress")
}
