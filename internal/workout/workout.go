package workout

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Program is a named collection of exercises. Seeded once, never mutated afterwards.
type Program struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Exercises   []Exercise `json:"exercises"`
}

type Exercise struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	TargetMuscles []string `json:"targetMuscles"`
	ProgramID     string   `json:"programId"`
}

// Session is a dated record of sets done for one exercise by one user.
// Date is kept as the ISO-8601 string it was recorded with.
type Session struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	ExerciseID string `json:"exerciseId"`
	Date       string `json:"date"`
	Sets       []Set  `json:"sets"`
}

type Set struct {
	SetNumber int     `json:"setNumber"`
	Weight    float64 `json:"weight"` // lbs
	Reps      int     `json:"reps"`
	Intensity int     `json:"intensity"`
}

const (
	MinIntensity = 1
	MaxIntensity = 10
)

// FormatDate renders t the way new sessions store their date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseDate accepts full RFC3339 timestamps and plain YYYY-MM-DD dates.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err == nil {
		return t, nil
	}
	if t, dateErr := time.Parse(time.DateOnly, value); dateErr == nil {
		return t, nil
	}
	return time.Time{}, err
}

func CloneProgram(p Program) Program {
	c := p
	c.Exercises = make([]Exercise, len(p.Exercises))
	for i, ex := range p.Exercises {
		c.Exercises[i] = CloneExercise(ex)
	}
	return c
}

func ClonePrograms(programs []Program) []Program {
	out := make([]Program, len(programs))
	for i, p := range programs {
		out[i] = CloneProgram(p)
	}
	return out
}

func CloneExercise(ex Exercise) Exercise {
	c := ex
	c.TargetMuscles = append([]string(nil), ex.TargetMuscles...)
	return c
}

func CloneSession(s Session) Session {
	c := s
	c.Sets = append([]Set(nil), s.Sets...)
	return c
}

func CloneSessions(sessions []Session) []Session {
	out := make([]Session, len(sessions))
	for i, s := range sessions {
		out[i] = CloneSession(s)
	}
	return out
}
