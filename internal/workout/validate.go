package workout

import (
	"fmt"
	"strings"
)

func ValidateUser(u User) error {
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidUser)
	}
	return nil
}

// ValidateSession checks a session as it is about to be stored or was just decoded.
func ValidateSession(s Session) error {
	switch {
	case s.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidSession)
	case s.UserID == "":
		return fmt.Errorf("%w [%s]: empty user id", ErrInvalidSession, s.ID)
	case s.ExerciseID == "":
		return fmt.Errorf("%w [%s]: empty exercise id", ErrInvalidSession, s.ID)
	case len(s.Sets) == 0:
		return fmt.Errorf("%w [%s]: no sets", ErrInvalidSession, s.ID)
	}

	if _, err := ParseDate(s.Date); err != nil {
		return fmt.Errorf("%w [%s]: date %q: %s", ErrInvalidSession, s.ID, s.Date, err)
	}

	for i, set := range s.Sets {
		if set.SetNumber != i+1 {
			return fmt.Errorf("%w [%s]: set %d has number %d", ErrInvalidSession, s.ID, i+1, set.SetNumber)
		}
		if set.Weight < 0 {
			return fmt.Errorf("%w [%s]: set %d: negative weight", ErrInvalidSession, s.ID, set.SetNumber)
		}
		if set.Reps < 0 {
			return fmt.Errorf("%w [%s]: set %d: negative reps", ErrInvalidSession, s.ID, set.SetNumber)
		}
		if set.Intensity < MinIntensity || set.Intensity > MaxIntensity {
			return fmt.Errorf("%w [%s]: set %d: intensity %d out of range [%d, %d]",
				ErrInvalidSession, s.ID, set.SetNumber, set.Intensity, MinIntensity, MaxIntensity)
		}
	}

	return nil
}

func ValidateSessions(sessions []Session) error {
	for _, s := range sessions {
		if err := ValidateSession(s); err != nil {
			return err
		}
	}
	return nil
}

// ValidateCatalog enforces unique program ids, unique exercise ids within
// a program and correct programId back-references.
func ValidateCatalog(programs []Program) error {
	programIDs := make(map[string]bool, len(programs))
	for _, p := range programs {
		if p.ID == "" {
			return fmt.Errorf("%w: program with empty id", ErrInvalidCatalog)
		}
		if programIDs[p.ID] {
			return fmt.Errorf("%w: duplicate program id %s", ErrInvalidCatalog, p.ID)
		}
		programIDs[p.ID] = true

		exerciseIDs := make(map[string]bool, len(p.Exercises))
		for _, ex := range p.Exercises {
			if ex.ID == "" {
				return fmt.Errorf("%w: program %s: exercise with empty id", ErrInvalidCatalog, p.ID)
			}
			if exerciseIDs[ex.ID] {
				return fmt.Errorf("%w: program %s: duplicate exercise id %s", ErrInvalidCatalog, p.ID, ex.ID)
			}
			exerciseIDs[ex.ID] = true
			if ex.ProgramID != p.ID {
				return fmt.Errorf("%w: exercise %s references program %q, owned by %s",
					ErrInvalidCatalog, ex.ID, ex.ProgramID, p.ID)
			}
		}
	}
	return nil
}
