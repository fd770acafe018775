package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/2beens/workouttracker/internal/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPrograms(t *testing.T) {
	programs := DefaultPrograms()
	require.Len(t, programs, 2)
	require.NoError(t, workout.ValidateCatalog(programs))

	assert.Equal(t, "program_1", programs[0].ID)
	assert.Equal(t, "Upper Body Strength", programs[0].Name)
	assert.Equal(t, "program_2", programs[1].ID)
	assert.Equal(t, "Lower Body Power", programs[1].Name)

	for _, p := range programs {
		assert.Len(t, p.Exercises, 6)
	}

	bench := programs[0].Exercises[0]
	assert.Equal(t, "exercise_1_1", bench.ID)
	assert.Equal(t, "Bench Press", bench.Name)
	assert.Equal(t, []string{"Chest", "Triceps", "Shoulders"}, bench.TargetMuscles)

	deadlifts := programs[1].Exercises[1]
	assert.Equal(t, "exercise_2_2", deadlifts.ID)
	assert.Equal(t, []string{"Hamstrings", "Glutes", "Back", "Core"}, deadlifts.TargetMuscles)
}

func TestDefaultPrograms_FreshCopy(t *testing.T) {
	first := DefaultPrograms()
	first[0].Name = "changed"
	first[0].Exercises[0].TargetMuscles[0] = "changed"

	second := DefaultPrograms()
	assert.Equal(t, "Upper Body Strength", second[0].Name)
	assert.Equal(t, "Chest", second[0].Exercises[0].TargetMuscles[0])
}

const tomlCatalog = `
[[programs]]
id = "push"
name = "Push Day"
description = "Pressing movements"

  [[programs.exercises]]
  id = "push_1"
  name = "Incline Press"
  description = "Upper chest"
  target_muscles = ["Chest", "Shoulders"]

  [[programs.exercises]]
  id = "push_2"
  name = "Skull Crushers"
  target_muscles = ["Triceps"]
`

const yamlCatalog = `
programs:
  - id: pull
    name: Pull Day
    exercises:
      - id: pull_1
        name: Chin-ups
        target_muscles: [Back, Biceps]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_Toml(t *testing.T) {
	programs, err := LoadFile(writeFile(t, "catalog.toml", tomlCatalog))
	require.NoError(t, err)
	require.Len(t, programs, 1)

	p := programs[0]
	assert.Equal(t, "push", p.ID)
	assert.Equal(t, "Push Day", p.Name)
	require.Len(t, p.Exercises, 2)
	assert.Equal(t, "push", p.Exercises[0].ProgramID)
	assert.Equal(t, []string{"Chest", "Shoulders"}, p.Exercises[0].TargetMuscles)
	assert.Equal(t, "push", p.Exercises[1].ProgramID)
}

func TestLoadFile_Yaml(t *testing.T) {
	provider := NewFileProvider(writeFile(t, "catalog.yml", yamlCatalog))
	programs, err := provider.Programs()
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, "pull", programs[0].Exercises[0].ProgramID)
	assert.Equal(t, []string{"Back", "Biceps"}, programs[0].Exercises[0].TargetMuscles)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(writeFile(t, "catalog.json", "{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	dup := `
[[programs]]
id = "a"
[[programs]]
id = "a"
`
	_, err = LoadFile(writeFile(t, "dup.toml", dup))
	assert.ErrorIs(t, err, workout.ErrInvalidCatalog)
}
