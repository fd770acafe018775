package appstate_test

import (
	"testing"

	"github.com/2beens/workouttracker/internal/appstate"
	"github.com/2beens/workouttracker/internal/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastSession(t *testing.T) {
	sessions := []workout.Session{
		{ID: "old", Date: "2024-01-01", ExerciseID: "e1", UserID: "u1"},
		{ID: "new", Date: "2024-03-05", ExerciseID: "e1", UserID: "u1"},
		{ID: "other-user", Date: "2024-06-01", ExerciseID: "e1", UserID: "u2"},
		{ID: "other-exercise", Date: "2024-06-01", ExerciseID: "e2", UserID: "u1"},
	}

	last, ok := appstate.LastSession(sessions, "e1", "u1")
	require.True(t, ok)
	assert.Equal(t, "new", last.ID)

	// order in the list does not matter, only the date
	reversed := []workout.Session{sessions[1], sessions[0]}
	last, ok = appstate.LastSession(reversed, "e1", "u1")
	require.True(t, ok)
	assert.Equal(t, "new", last.ID)

	last, ok = appstate.LastSession(sessions, "e2", "u1")
	require.True(t, ok)
	assert.Equal(t, "other-exercise", last.ID)
}

func TestLastSession_NotFound(t *testing.T) {
	sessions := []workout.Session{
		{ID: "s1", Date: "2024-01-01", ExerciseID: "e1", UserID: "u1"},
	}

	_, ok := appstate.LastSession(nil, "e1", "u1")
	assert.False(t, ok)
	_, ok = appstate.LastSession(sessions, "e9", "u1")
	assert.False(t, ok)
	_, ok = appstate.LastSession(sessions, "e1", "u2")
	assert.False(t, ok)
	_, ok = appstate.LastSession(sessions, "e1", "")
	assert.False(t, ok)
}

func TestLastSession_TieBreak(t *testing.T) {
	sessions := []workout.Session{
		{ID: "first", Date: "2024-03-05T10:00:00Z", ExerciseID: "e1", UserID: "u1"},
		{ID: "second", Date: "2024-03-05T10:00:00Z", ExerciseID: "e1", UserID: "u1"},
	}
	last, ok := appstate.LastSession(sessions, "e1", "u1")
	require.True(t, ok)
	assert.Equal(t, "second", last.ID)
}

func TestLastSession_MixedDateFormats(t *testing.T) {
	sessions := []workout.Session{
		{ID: "timestamp", Date: "2024-03-04T23:59:59.123Z", ExerciseID: "e1", UserID: "u1"},
		{ID: "date-only", Date: "2024-03-05", ExerciseID: "e1", UserID: "u1"},
		{ID: "garbage", Date: "yesterday-ish", ExerciseID: "e1", UserID: "u1"},
	}
	last, ok := appstate.LastSession(sessions, "e1", "u1")
	require.True(t, ok)
	assert.Equal(t, "date-only", last.ID)

	// an unparseable date only wins when nothing else matches
	last, ok = appstate.LastSession(sessions[2:], "e1", "u1")
	require.True(t, ok)
	assert.Equal(t, "garbage", last.ID)
}
