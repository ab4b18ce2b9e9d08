// Package progression implements the gamification core: XP and levels,
// the lives economy, daily streaks and the sequential lesson-unlock rules.
package progression

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/maay-app/maay-api/internal/catalog"
	"github.com/maay-app/maay-api/internal/dal"
)

const (
	xpPerLevel = 100
	// MaxLives is the upper bound of the hearts economy.
	MaxLives = 5
)

// ErrLessonNotFound is returned for lesson IDs absent from the catalog.
var ErrLessonNotFound = errors.New("lesson not found")

// InvalidStateError reports an operation rejected by the progression rules,
// e.g. reviewing a lesson that was never completed. The reason is safe to
// show to the end user.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return e.Reason
}

type (
	CompletionResult struct {
		XPEarned int
		TotalXP  int
		Level    int
	}

	LifeResult struct {
		Lives   int
		Changed bool
	}

	Stats struct {
		Username           string
		XP                 int
		Level              int
		Lives              int
		Streak             int
		LessonsCompleted   int
		TotalLessons       int
		ProgressPercentage float64
	}

	Engine struct {
		repo    dal.Repository
		catalog *catalog.Catalog
		log     *slog.Logger

		now func() time.Time
	}
)

func NewEngine(repo dal.Repository, cat *catalog.Catalog, log *slog.Logger) *Engine {
	return &Engine{
		repo:    repo,
		catalog: cat,
		log:     log,
		now:     time.Now,
	}
}

// Level derives the user's level from XP. The level is never stored; it is
// recomputed on every read so it cannot drift from XP.
func Level(xp int) int {
	return xp / xpPerLevel
}

// Overview returns the full unit/lesson listing with the user's completion
// and lock state merged in.
func (e *Engine) Overview(ctx context.Context, userID string) ([]Unit, error) {
	progress, err := e.repo.ListProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return BuildUnits(e.catalog.Lessons(), progress), nil
}

// CompleteLesson records a completion and awards XP. Repeating an already
// completed lesson bumps the attempt counter and awards XP again; XP only
// ever grows. Both writes happen in one transaction so concurrent
// completions cannot leave the record and the XP total out of step.
func (e *Engine) CompleteLesson(ctx context.Context, userID, lessonID string, score, xpEarned int) (CompletionResult, error) {
	if _, ok := e.catalog.Lesson(lessonID); !ok {
		return CompletionResult{}, ErrLessonNotFound
	}

	var totalXP int
	err := e.repo.Transact(ctx, func(r dal.Repository) error {
		if err := r.UpsertCompletion(ctx, userID, lessonID, score, e.now().UTC()); err != nil {
			return err
		}

		var err error
		totalXP, err = r.AddXP(ctx, userID, xpEarned)
		return err
	})
	if err != nil {
		return CompletionResult{}, fmt.Errorf("complete lesson %s: %w", lessonID, err)
	}

	e.log.InfoContext(ctx, "lesson completed",
		"user_id", userID,
		"lesson_id", lessonID,
		"score", score,
		"xp_earned", xpEarned,
	)

	return CompletionResult{
		XPEarned: xpEarned,
		TotalXP:  totalXP,
		Level:    Level(totalXP),
	}, nil
}

// ReviewLesson awards one life back for re-studying an already completed
// lesson. Only completed lessons qualify, and only while lives are below
// the cap.
func (e *Engine) ReviewLesson(ctx context.Context, userID, lessonID string) (int, error) {
	record, err := e.repo.FindProgress(ctx, userID, lessonID)
	if err != nil && !errors.Is(err, dal.ErrNotFound) {
		return 0, fmt.Errorf("find progress: %w", err)
	}
	if record == nil || !record.Completed {
		return 0, &InvalidStateError{Reason: "can only review completed lessons"}
	}

	lives, changed, err := e.repo.IncrementLife(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("increment life: %w", err)
	}
	if !changed {
		return 0, &InvalidStateError{Reason: "lives are already full"}
	}

	return lives, nil
}

// LoseLife deducts one life, floored at 0. Calling at 0 lives is a no-op,
// not an error; the exercise flow decides when a wrong answer costs a life.
func (e *Engine) LoseLife(ctx context.Context, userID string) (int, error) {
	lives, err := e.repo.DecrementLife(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("decrement life: %w", err)
	}
	return lives, nil
}

// GainLife restores one life, e.g. from a mini-game. At full lives it
// reports Changed=false and mutates nothing.
func (e *Engine) GainLife(ctx context.Context, userID string) (LifeResult, error) {
	lives, changed, err := e.repo.IncrementLife(ctx, userID)
	if err != nil {
		return LifeResult{}, fmt.Errorf("increment life: %w", err)
	}
	return LifeResult{Lives: lives, Changed: changed}, nil
}

// UpdateStreakOnLogin applies the consecutive-day rules and advances
// last_activity. Day boundaries use whole elapsed days, not calendar dates:
// a second login within 24 hours leaves the streak untouched, exactly one
// elapsed day extends it, anything longer restarts it at 1.
func (e *Engine) UpdateStreakOnLogin(ctx context.Context, user *dal.User) (int, error) {
	now := e.now().UTC()

	streak := 1
	if user.LastActivity != nil {
		switch daysDiff := int(now.Sub(*user.LastActivity) / (24 * time.Hour)); {
		case daysDiff == 0:
			streak = user.Streak
		case daysDiff == 1:
			streak = user.Streak + 1
		default:
			streak = 1
		}
	}

	if err := e.repo.SetStreak(ctx, user.ID, streak, now); err != nil {
		return 0, fmt.Errorf("set streak: %w", err)
	}

	user.Streak = streak
	user.LastActivity = &now
	return streak, nil
}

// UserStats aggregates the gamification state for the stats endpoint.
func (e *Engine) UserStats(ctx context.Context, user *dal.User) (Stats, error) {
	completed, err := e.repo.CountCompleted(ctx, user.ID)
	if err != nil {
		return Stats{}, fmt.Errorf("count completed: %w", err)
	}

	total := e.catalog.Len()
	percentage := 0.0
	if total > 0 {
		percentage = math.Round(float64(completed)/float64(total)*1000) / 10
	}

	return Stats{
		Username:           user.Username,
		XP:                 user.XP,
		Level:              Level(user.XP),
		Lives:              user.Lives,
		Streak:             user.Streak,
		LessonsCompleted:   completed,
		TotalLessons:       total,
		ProgressPercentage: percentage,
	}, nil
}
