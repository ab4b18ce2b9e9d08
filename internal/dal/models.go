package dal

import "time"

type (
	// User carries both identity fields (owned by the auth layer) and
	// gamification state (owned by the progression engine).
	User struct {
		ID              string
		Email           string
		Username        string
		PasswordHash    string
		XP              int
		Lives           int
		Streak          int
		LastActivity    *time.Time
		ProfileImageURL string
		CreatedAt       time.Time
	}

	// ProgressRecord is the per-(user, lesson) completion record. At most
	// one record exists per pair; it is created on first completion and
	// mutated, never deleted, afterwards.
	ProgressRecord struct {
		UserID      string
		LessonID    string
		Completed   bool
		Score       int
		Attempts    int
		CompletedAt *time.Time
	}
)
