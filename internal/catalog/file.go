package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/workouttracker/internal/workout"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedFormat = errors.New("unsupported catalog file format")

// fileCatalog is the on-disk layout of an operator supplied catalog:
//
//	[[programs]]
//	id = "program_1"
//	name = "Upper Body Strength"
//	  [[programs.exercises]]
//	  id = "exercise_1_1"
//	  target_muscles = ["Chest"]
type fileCatalog struct {
	Programs []fileProgram `toml:"programs" yaml:"programs"`
}

type fileProgram struct {
	ID          string         `toml:"id" yaml:"id"`
	Name        string         `toml:"name" yaml:"name"`
	Description string         `toml:"description" yaml:"description"`
	Exercises   []fileExercise `toml:"exercises" yaml:"exercises"`
}

type fileExercise struct {
	ID            string   `toml:"id" yaml:"id"`
	Name          string   `toml:"name" yaml:"name"`
	Description   string   `toml:"description" yaml:"description"`
	TargetMuscles []string `toml:"target_muscles" yaml:"target_muscles"`
}

// FileProvider reads the catalog from a TOML or YAML file each time it is asked.
type FileProvider struct {
	Path string
}

var _ Provider = (*FileProvider)(nil)

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

func (p *FileProvider) Programs() ([]workout.Program, error) {
	return LoadFile(p.Path)
}

// LoadFile parses a catalog file, picking the decoder by extension.
func LoadFile(path string) ([]workout.Program, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var fc fileCatalog
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(raw)).Decode(&fc); err != nil {
			return nil, fmt.Errorf("decode toml catalog: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return nil, fmt.Errorf("decode yaml catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	programs := make([]workout.Program, 0, len(fc.Programs))
	for _, fp := range fc.Programs {
		program := workout.Program{
			ID:          fp.ID,
			Name:        fp.Name,
			Description: fp.Description,
			Exercises:   make([]workout.Exercise, 0, len(fp.Exercises)),
		}
		for _, fe := range fp.Exercises {
			program.Exercises = append(program.Exercises, workout.Exercise{
				ID:            fe.ID,
				Name:          fe.Name,
				Description:   fe.Description,
				TargetMuscles: fe.TargetMuscles,
				ProgramID:     fp.ID,
			})
		}
		programs = append(programs, program)
	}

	if err := workout.ValidateCatalog(programs); err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}

	log.Debugf("catalog: loaded %d programs from [%s]", len(programs), path)
	return programs, nil
}
