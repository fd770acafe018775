package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/2beens/workouttracker/internal/workout"

	log "github.com/sirupsen/logrus"
)

// SchemaVersion is written into every document envelope.
// Version 0 means a bare payload without an envelope.
const SchemaVersion = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported document version")
	ErrCorruptDocument    = errors.New("corrupt document")
)

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// envelopeHeader tells an envelope apart from a bare legacy object.
type envelopeHeader struct {
	Version *int            `json:"version"`
	Data    json.RawMessage `json:"data"`
}

func encodeDocument(payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return json.Marshal(envelope{
		Version: SchemaVersion,
		Data:    data,
	})
}

// openDocument returns the payload bytes and the schema version they were written with.
func openDocument(raw []byte) (json.RawMessage, int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, 0, fmt.Errorf("%w: empty", ErrCorruptDocument)
	}
	if !json.Valid(trimmed) {
		return nil, 0, fmt.Errorf("%w: invalid json", ErrCorruptDocument)
	}

	if trimmed[0] == '{' {
		var header envelopeHeader
		if err := json.Unmarshal(trimmed, &header); err != nil {
			return nil, 0, fmt.Errorf("%w: %s", ErrCorruptDocument, err)
		}
		if header.Version != nil {
			if *header.Version != SchemaVersion {
				return nil, *header.Version, fmt.Errorf("%w: %d", ErrUnsupportedVersion, *header.Version)
			}
			return header.Data, SchemaVersion, nil
		}
	}

	return trimmed, 0, nil
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// legacyExercise accepts both field names the older app revisions wrote.
type legacyExercise struct {
	workout.Exercise
	MuscleGroups []string `json:"muscleGroups"`
}

type legacyProgram struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Exercises   []legacyExercise `json:"exercises"`
}

func decodePrograms(data json.RawMessage, version int) ([]workout.Program, error) {
	if isNull(data) {
		return []workout.Program{}, nil
	}

	if version == SchemaVersion {
		var programs []workout.Program
		if err := json.Unmarshal(data, &programs); err != nil {
			return nil, fmt.Errorf("%w: programs: %s", ErrCorruptDocument, err)
		}
		return programs, nil
	}

	var legacy []legacyProgram
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("%w: legacy programs: %s", ErrCorruptDocument, err)
	}
	programs := make([]workout.Program, 0, len(legacy))
	for _, lp := range legacy {
		p := workout.Program{
			ID:          lp.ID,
			Name:        lp.Name,
			Description: lp.Description,
			Exercises:   make([]workout.Exercise, 0, len(lp.Exercises)),
		}
		for _, le := range lp.Exercises {
			ex := le.Exercise
			if len(ex.TargetMuscles) == 0 {
				ex.TargetMuscles = le.MuscleGroups
			}
			if ex.ProgramID == "" {
				ex.ProgramID = lp.ID
			}
			p.Exercises = append(p.Exercises, ex)
		}
		programs = append(programs, p)
	}
	return programs, nil
}

// legacySet takes the numbers as the older app revisions wrote them,
// which could be fractional or out of range.
type legacySet struct {
	SetNumber float64 `json:"setNumber"`
	Weight    float64 `json:"weight"`
	Reps      float64 `json:"reps"`
	Intensity float64 `json:"intensity"`
}

type legacySession struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId"`
	ExerciseID string      `json:"exerciseId"`
	Date       string      `json:"date"`
	Sets       []legacySet `json:"sets"`
}

// decodeSessions is strict for current documents. Bare legacy documents get
// their numbers coerced into range, and sessions that still fail validation
// are dropped instead of failing the whole load.
func decodeSessions(data json.RawMessage, version int) ([]workout.Session, error) {
	sessions := []workout.Session{}
	if isNull(data) {
		return sessions, nil
	}

	if version == SchemaVersion {
		if err := json.Unmarshal(data, &sessions); err != nil {
			return nil, fmt.Errorf("%w: sessions: %s", ErrCorruptDocument, err)
		}
		if err := workout.ValidateSessions(sessions); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptDocument, err)
		}
		return sessions, nil
	}

	var legacy []legacySession
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("%w: legacy sessions: %s", ErrCorruptDocument, err)
	}
	for _, ls := range legacy {
		s := workout.Session{
			ID:         ls.ID,
			UserID:     ls.UserID,
			ExerciseID: ls.ExerciseID,
			Date:       ls.Date,
			Sets:       make([]workout.Set, 0, len(ls.Sets)),
		}
		for i, set := range ls.Sets {
			weight := set.Weight
			if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
				weight = 0
			}
			s.Sets = append(s.Sets, workout.Set{
				SetNumber: i + 1,
				Weight:    weight,
				Reps:      clampToInt(set.Reps, 0, math.MaxInt32),
				Intensity: clampToInt(set.Intensity, workout.MinIntensity, workout.MaxIntensity),
			})
		}
		if err := workout.ValidateSession(s); err != nil {
			log.Warnf("dropping legacy session: %s", err)
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// clampToInt truncates v toward zero and clamps it into [lo, hi]. NaN maps to lo.
func clampToInt(v float64, lo, hi int) int {
	switch {
	case math.IsNaN(v) || v < float64(lo):
		return lo
	case v > float64(hi):
		return hi
	}
	return int(v)
}
