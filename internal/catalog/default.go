package catalog

import "github.com/2beens/workouttracker/internal/workout"

// Provider supplies the catalog used to seed an empty programs document.
type Provider interface {
	Programs() ([]workout.Program, error)
}

type Default struct{}

var _ Provider = Default{}

func (Default) Programs() ([]workout.Program, error) {
	return DefaultPrograms(), nil
}

// DefaultPrograms returns a fresh copy of the built-in catalog on every call.
func DefaultPrograms() []workout.Program {
	return []workout.Program{
		{
			ID:          "program_1",
			Name:        "Upper Body Strength",
			Description: "Build strength in your upper body with compound movements",
			Exercises: []workout.Exercise{
				exercise("program_1", "exercise_1_1", "Bench Press",
					"Classic chest exercise for building upper body strength",
					"Chest", "Triceps", "Shoulders"),
				exercise("program_1", "exercise_1_2", "Pull-ups",
					"Bodyweight exercise for back and bicep development",
					"Back", "Biceps"),
				exercise("program_1", "exercise_1_3", "Overhead Press",
					"Shoulder strength and stability exercise",
					"Shoulders", "Triceps", "Core"),
				exercise("program_1", "exercise_1_4", "Barbell Rows",
					"Build a strong back with this pulling movement",
					"Back", "Biceps", "Rear Delts"),
				exercise("program_1", "exercise_1_5", "Dips",
					"Compound movement for triceps and chest",
					"Triceps", "Chest", "Shoulders"),
				exercise("program_1", "exercise_1_6", "Bicep Curls",
					"Isolation exercise for bicep development",
					"Biceps"),
			},
		},
		{
			ID:          "program_2",
			Name:        "Lower Body Power",
			Description: "Explosive lower body movements for strength and power",
			Exercises: []workout.Exercise{
				exercise("program_2", "exercise_2_1", "Squats",
					"The king of all exercises for leg development",
					"Quadriceps", "Glutes", "Hamstrings"),
				exercise("program_2", "exercise_2_2", "Deadlifts",
					"Full body compound movement focusing on posterior chain",
					"Hamstrings", "Glutes", "Back", "Core"),
				exercise("program_2", "exercise_2_3", "Lunges",
					"Unilateral leg exercise for balance and strength",
					"Quadriceps", "Glutes", "Hamstrings"),
				exercise("program_2", "exercise_2_4", "Bulgarian Split Squats",
					"Single leg exercise for strength and stability",
					"Quadriceps", "Glutes"),
				exercise("program_2", "exercise_2_5", "Calf Raises",
					"Isolation exercise for calf development",
					"Calves"),
				exercise("program_2", "exercise_2_6", "Hip Thrusts",
					"Glute-focused exercise for power and strength",
					"Glutes", "Hamstrings"),
			},
		},
	}
}

func exercise(programID, id, name, description string, muscles ...string) workout.Exercise {
	return workout.Exercise{
		ID:            id,
		Name:          name,
		Description:   description,
		TargetMuscles: muscles,
		ProgramID:     programID,
	}
}
