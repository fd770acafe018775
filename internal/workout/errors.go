package workout

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrProgramNotFound  = fmt.Errorf("program %w", ErrNotFound)
	ErrExerciseNotFound = fmt.Errorf("exercise %w", ErrNotFound)
	ErrSessionNotFound  = fmt.Errorf("session %w", ErrNotFound)

	// ErrNoCurrentUser is also a not-found condition: lookups without a user never match.
	ErrNoCurrentUser = fmt.Errorf("no current user: %w", ErrNotFound)

	ErrInvalidUser    = errors.New("invalid user")
	ErrInvalidSession = errors.New("invalid session")
	ErrInvalidCatalog = errors.New("invalid catalog")
)
