package appstate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/2beens/workouttracker/internal/workout"
)

const (
	DefaultDraftSets      = 3
	DefaultDraftIntensity = 5
)

var (
	ErrIncompleteDraft = errors.New("draft incomplete: every set needs weight, reps and intensity above zero")
	ErrUnknownField    = errors.New("unknown set field")
	ErrSetOutOfRange   = errors.New("set index out of range")
)

// Draft is a session being filled in, before it is saved.
type Draft struct {
	ExerciseID    string        `json:"exerciseId"`
	Sets          []workout.Set `json:"sets"`
	PrefilledFrom string        `json:"prefilledFrom,omitempty"`
}

// NewDraft starts a session for the exercise, copying weight, reps and
// intensity per set index from the current user's last session if there is one.
func (s *Store) NewDraft(exerciseID string) (Draft, error) {
	if _, err := s.FindExercise(exerciseID); err != nil {
		return Draft{}, err
	}

	var last *workout.Session
	if l, err := s.LastSessionForExercise(exerciseID); err == nil {
		last = &l
	} else if !errors.Is(err, workout.ErrNotFound) {
		return Draft{}, err
	}

	return newDraft(exerciseID, last), nil
}

func newDraft(exerciseID string, last *workout.Session) Draft {
	d := Draft{
		ExerciseID: exerciseID,
		Sets:       make([]workout.Set, DefaultDraftSets),
	}
	for i := range d.Sets {
		d.Sets[i] = workout.Set{
			SetNumber: i + 1,
			Intensity: DefaultDraftIntensity,
		}
	}

	if last == nil || len(last.Sets) == 0 {
		return d
	}
	d.PrefilledFrom = last.ID
	for i := range d.Sets {
		if i >= len(last.Sets) {
			break
		}
		d.Sets[i].Weight = last.Sets[i].Weight
		d.Sets[i].Reps = last.Sets[i].Reps
		d.Sets[i].Intensity = last.Sets[i].Intensity
	}
	return d
}

// Update sets one field of the set at index from raw user input.
func (d *Draft) Update(index int, field, raw string) error {
	if index < 0 || index >= len(d.Sets) {
		return fmt.Errorf("%w: %d", ErrSetOutOfRange, index)
	}

	set := &d.Sets[index]
	switch field {
	case "setNumber":
		set.SetNumber = index + 1
	case "weight":
		set.Weight = ParseSetValue(raw)
	case "reps":
		set.Reps = ParseSetCount(raw)
	case "intensity":
		set.Intensity = ParseSetCount(raw)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Complete reports whether every set has weight, reps and intensity above zero.
func (d *Draft) Complete() bool {
	for _, set := range d.Sets {
		if set.Weight <= 0 || set.Reps <= 0 || set.Intensity <= 0 {
			return false
		}
	}
	return true
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseSetValue reads the leading number of raw; anything unparseable is 0.
func ParseSetValue(raw string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(raw))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseSetCount is ParseSetValue truncated to an int. Values outside the
// int32 range are 0, same as any other unusable input.
func ParseSetCount(raw string) int {
	v := ParseSetValue(raw)
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0
	}
	return int(v)
}

// SaveDraft turns a complete draft into a session for the current user.
func (s *Store) SaveDraft(ctx context.Context, d Draft) (workout.Session, error) {
	if len(d.Sets) == 0 || !d.Complete() {
		return workout.Session{}, ErrIncompleteDraft
	}

	sets := make([]workout.Set, len(d.Sets))
	for i, set := range d.Sets {
		set.SetNumber = i + 1
		sets[i] = set
	}

	return s.AddSession(ctx, workout.Session{
		ExerciseID: d.ExerciseID,
		Date:       workout.FormatDate(s.NowFunc()),
		Sets:       sets,
	})
}
