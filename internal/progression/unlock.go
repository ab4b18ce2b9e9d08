package progression

import (
	"github.com/maay-app/maay-api/internal/catalog"
	"github.com/maay-app/maay-api/internal/dal"
)

type (
	// LessonStatus is one catalog lesson merged with a user's progress.
	LessonStatus struct {
		ID          string `json:"id"`
		Order       int    `json:"order"`
		Title       string `json:"title"`
		Description string `json:"description"`
		XPReward    int    `json:"xp_reward"`
		Completed   bool   `json:"completed"`
		Score       int    `json:"score"`
		Locked      bool   `json:"locked"`
	}

	// Unit groups the statuses of one curriculum unit, lessons ordered ascending.
	Unit struct {
		Unit    int            `json:"unit"`
		Title   string         `json:"title"`
		Lessons []LessonStatus `json:"lessons"`
	}
)

// BuildUnits computes the per-lesson lock state for one user. The first
// lesson of every unit is always unlocked; each later lesson unlocks only
// once its predecessor within the unit is completed. Lessons must be sorted
// by unit ascending, order ascending, which the catalog guarantees.
func BuildUnits(lessons []catalog.Lesson, progress []dal.ProgressRecord) []Unit {
	byLesson := make(map[string]*dal.ProgressRecord, len(progress))
	for i := range progress {
		byLesson[progress[i].LessonID] = &progress[i]
	}

	units := make([]Unit, 0)
	for _, lesson := range lessons {
		if len(units) == 0 || units[len(units)-1].Unit != lesson.Unit {
			units = append(units, Unit{Unit: lesson.Unit, Title: lesson.UnitTitle})
		}
		unit := &units[len(units)-1]

		status := LessonStatus{
			ID:          lesson.ID,
			Order:       lesson.Order,
			Title:       lesson.Title,
			Description: lesson.Description,
			XPReward:    lesson.XPReward,
		}
		if record, ok := byLesson[lesson.ID]; ok {
			status.Completed = record.Completed
			status.Score = record.Score
		}
		if len(unit.Lessons) > 0 {
			status.Locked = !unit.Lessons[len(unit.Lessons)-1].Completed
		}

		unit.Lessons = append(unit.Lessons, status)
	}

	return units
}
