package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maay-app/maay-api/internal/catalog"
	"github.com/maay-app/maay-api/internal/dal"
)

func testLessons() []catalog.Lesson {
	return []catalog.Lesson{
		{ID: "a1", Unit: 1, UnitTitle: "Saludos", Order: 1, Title: "Hola", XPReward: 10},
		{ID: "a2", Unit: 1, UnitTitle: "Saludos", Order: 2, Title: "Adiós", XPReward: 10},
		{ID: "a3", Unit: 1, UnitTitle: "Saludos", Order: 3, Title: "Bix a beel", XPReward: 15},
		{ID: "b1", Unit: 2, UnitTitle: "Números", Order: 1, Title: "Uno", XPReward: 10},
		{ID: "b2", Unit: 2, UnitTitle: "Números", Order: 2, Title: "Dos", XPReward: 10},
	}
}

func TestBuildUnitsNoProgress(t *testing.T) {
	units := BuildUnits(testLessons(), nil)
	require.Len(t, units, 2)

	assert.Equal(t, 1, units[0].Unit)
	assert.Equal(t, "Saludos", units[0].Title)
	require.Len(t, units[0].Lessons, 3)

	// only the first lesson of each unit starts unlocked
	assert.False(t, units[0].Lessons[0].Locked)
	assert.True(t, units[0].Lessons[1].Locked)
	assert.True(t, units[0].Lessons[2].Locked)
	assert.False(t, units[1].Lessons[0].Locked)
	assert.True(t, units[1].Lessons[1].Locked)
}

func TestBuildUnitsUnlocksAfterCompletion(t *testing.T) {
	progress := []dal.ProgressRecord{
		{LessonID: "a1", Completed: true, Score: 80},
	}

	units := BuildUnits(testLessons(), progress)
	require.Len(t, units, 2)

	first := units[0].Lessons
	assert.True(t, first[0].Completed)
	assert.Equal(t, 80, first[0].Score)
	assert.False(t, first[1].Locked, "completing a lesson unlocks the next one")
	assert.True(t, first[2].Locked, "unlock advances one lesson at a time")

	// unit 2 is unaffected by unit 1 progress
	assert.False(t, units[1].Lessons[0].Locked)
	assert.True(t, units[1].Lessons[1].Locked)
}

func TestBuildUnitsIncompleteRecordKeepsLock(t *testing.T) {
	progress := []dal.ProgressRecord{
		{LessonID: "a1", Completed: false, Attempts: 2},
	}

	units := BuildUnits(testLessons(), progress)
	require.Len(t, units, 2)

	first := units[0].Lessons
	assert.False(t, first[0].Completed)
	assert.True(t, first[1].Locked)
}

func TestBuildUnitsFullyCompletedUnit(t *testing.T) {
	progress := []dal.ProgressRecord{
		{LessonID: "a1", Completed: true, Score: 100},
		{LessonID: "a2", Completed: true, Score: 90},
		{LessonID: "a3", Completed: true, Score: 70},
	}

	units := BuildUnits(testLessons(), progress)
	for _, status := range units[0].Lessons {
		assert.True(t, status.Completed)
		assert.False(t, status.Locked)
	}
}
