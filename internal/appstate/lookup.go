package appstate

import (
	"time"

	"github.com/2beens/workouttracker/internal/workout"

	log "github.com/sirupsen/logrus"
)

// LastSession picks the newest session of userID for exerciseID.
// On equal dates the one appearing later in sessions wins. Dates that do not
// parse count as the oldest possible instant.
func LastSession(sessions []workout.Session, exerciseID, userID string) (workout.Session, bool) {
	if userID == "" {
		return workout.Session{}, false
	}

	best := -1
	var bestAt time.Time
	for i, s := range sessions {
		if s.ExerciseID != exerciseID || s.UserID != userID {
			continue
		}

		at, err := workout.ParseDate(s.Date)
		if err != nil {
			log.Warnf("appstate: session [%s] has unparseable date %q: %s", s.ID, s.Date, err)
			at = time.Time{}
		}

		if best == -1 || !at.Before(bestAt) {
			best = i
			bestAt = at
		}
	}

	if best == -1 {
		return workout.Session{}, false
	}
	return sessions[best], true
}
