package appstate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/workouttracker/internal/catalog"
	"github.com/2beens/workouttracker/internal/telemetry/metrics"
	"github.com/2beens/workouttracker/internal/telemetry/tracing"
	"github.com/2beens/workouttracker/internal/workout"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type repository interface {
	GetUser(ctx context.Context) (*workout.User, error)
	SaveUser(ctx context.Context, user workout.User) error
	RemoveUser(ctx context.Context) error
	GetPrograms(ctx context.Context) ([]workout.Program, error)
	SavePrograms(ctx context.Context, programs []workout.Program) error
	GetSessions(ctx context.Context) ([]workout.Session, error)
	AddSession(ctx context.Context, session workout.Session) error
	GenerateID() string
}

// State is a point-in-time copy of everything the store holds.
type State struct {
	User     *workout.User     `json:"user"`
	Programs []workout.Program `json:"programs"`
	Sessions []workout.Session `json:"sessions"`
	Loading  bool              `json:"loading"`
}

// Store owns the in-memory user, programs and sessions. Mutations write
// through to the repository first and touch memory only once that succeeded.
type Store struct {
	repo           repository
	seed           catalog.Provider
	metricsManager *metrics.Manager

	// serialises mutations (persist + apply)
	writeMutex sync.Mutex

	mutex    sync.RWMutex
	user     *workout.User
	programs []workout.Program
	sessions []workout.Session
	loading  bool

	NowFunc func() time.Time
}

func NewStore(repo repository, seed catalog.Provider, metricsManager *metrics.Manager) *Store {
	if seed == nil {
		seed = catalog.Default{}
	}
	return &Store{
		repo:           repo,
		seed:           seed,
		metricsManager: metricsManager,
		loading:        true,
		programs:       []workout.Program{},
		sessions:       []workout.Session{},
		NowFunc:        time.Now,
	}
}

// Initialize loads user, then programs (seeding an empty catalog), then sessions.
// Programs are never re-seeded once a non-empty catalog is persisted.
func (s *Store) Initialize(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "appstate.initialize")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	user, err := s.repo.GetUser(ctx)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	programs, err := s.repo.GetPrograms(ctx)
	if err != nil {
		return fmt.Errorf("load programs: %w", err)
	}
	if len(programs) == 0 {
		programs, err = s.seed.Programs()
		if err != nil {
			return fmt.Errorf("seed programs: %w", err)
		}
		if err := s.repo.SavePrograms(ctx, programs); err != nil {
			return fmt.Errorf("persist seeded programs: %w", err)
		}
		log.Infof("appstate: seeded %d programs", len(programs))
	}

	sessions, err := s.repo.GetSessions(ctx)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	s.mutex.Lock()
	s.user = user
	s.programs = programs
	s.sessions = sessions
	s.mutex.Unlock()

	s.setSessionsGauge(len(sessions))
	span.SetAttributes(
		attribute.Bool("user.present", user != nil),
		attribute.Int("programs", len(programs)),
		attribute.Int("sessions", len(sessions)),
	)
	log.Debugf("appstate: initialized, user present: %t, %d programs, %d sessions",
		user != nil, len(programs), len(sessions))
	return nil
}

func (s *Store) IsLoading() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.loading
}

func (s *Store) setLoading(loading bool) {
	s.mutex.Lock()
	s.loading = loading
	s.mutex.Unlock()
}

// Login persists user and makes it the current one. Missing id and
// creation time are filled in.
func (s *Store) Login(ctx context.Context, user workout.User) (_ workout.User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "appstate.login")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if user.ID == "" {
		user.ID = s.repo.GenerateID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.NowFunc().UTC()
	}
	if err := workout.ValidateUser(user); err != nil {
		return workout.User{}, err
	}

	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()

	if err := s.repo.SaveUser(ctx, user); err != nil {
		return workout.User{}, fmt.Errorf("save user: %w", err)
	}

	s.mutex.Lock()
	u := user
	s.user = &u
	s.mutex.Unlock()

	if s.metricsManager != nil {
		s.metricsManager.CounterLogins.Inc()
	}
	log.Debugf("appstate: user [%s] logged in", user.ID)
	return user, nil
}

func (s *Store) Logout(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "appstate.logout")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()

	if err := s.repo.RemoveUser(ctx); err != nil {
		return fmt.Errorf("remove user: %w", err)
	}

	s.mutex.Lock()
	s.user = nil
	s.mutex.Unlock()

	log.Debugln("appstate: user logged out")
	return nil
}

// AddSession records a session for the current user. Empty id, user id and
// date are filled in; the exercise must exist in the catalog.
func (s *Store) AddSession(ctx context.Context, session workout.Session) (_ workout.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "appstate.addSession")
	span.SetAttributes(attribute.String("exercise.id", session.ExerciseID))
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()

	s.mutex.RLock()
	user := s.user
	_, exerciseErr := findExercise(s.programs, session.ExerciseID)
	s.mutex.RUnlock()

	if user == nil {
		return workout.Session{}, workout.ErrNoCurrentUser
	}
	if session.UserID == "" {
		session.UserID = user.ID
	}
	if session.UserID != user.ID {
		return workout.Session{}, fmt.Errorf("%w: session user %s is not the current user",
			workout.ErrInvalidSession, session.UserID)
	}
	if exerciseErr != nil {
		return workout.Session{}, exerciseErr
	}
	if session.ID == "" {
		session.ID = s.repo.GenerateID()
	}
	if session.Date == "" {
		session.Date = workout.FormatDate(s.NowFunc())
	}
	if err := workout.ValidateSession(session); err != nil {
		return workout.Session{}, err
	}

	stored := workout.CloneSession(session)
	if err := s.repo.AddSession(ctx, stored); err != nil {
		return workout.Session{}, fmt.Errorf("persist session: %w", err)
	}

	s.mutex.Lock()
	s.sessions = append(s.sessions, stored)
	count := len(s.sessions)
	s.mutex.Unlock()

	if s.metricsManager != nil {
		s.metricsManager.CounterSessionsAdded.Inc()
	}
	s.setSessionsGauge(count)
	log.Debugf("appstate: session [%s] added for exercise [%s]", session.ID, session.ExerciseID)
	return session, nil
}

func (s *Store) Snapshot() State {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	st := State{
		Programs: workout.ClonePrograms(s.programs),
		Sessions: workout.CloneSessions(s.sessions),
		Loading:  s.loading,
	}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

// CurrentUser returns nil when nobody is logged in.
func (s *Store) CurrentUser() *workout.User {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) Programs() []workout.Program {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return workout.ClonePrograms(s.programs)
}

func (s *Store) FindProgram(id string) (workout.Program, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	for _, p := range s.programs {
		if p.ID == id {
			return workout.CloneProgram(p), nil
		}
	}
	return workout.Program{}, fmt.Errorf("%w: %s", workout.ErrProgramNotFound, id)
}

// FindExercise searches the exercises of all programs.
func (s *Store) FindExercise(id string) (workout.Exercise, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	ex, err := findExercise(s.programs, id)
	if err != nil {
		return workout.Exercise{}, err
	}
	return workout.CloneExercise(ex), nil
}

// LastSessionForExercise returns the current user's most recent session for
// the exercise. Without a current user it is always not found.
func (s *Store) LastSessionForExercise(exerciseID string) (workout.Session, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.user == nil {
		return workout.Session{}, workout.ErrNoCurrentUser
	}
	last, ok := LastSession(s.sessions, exerciseID, s.user.ID)
	if !ok {
		return workout.Session{}, fmt.Errorf("%w: exercise %s", workout.ErrSessionNotFound, exerciseID)
	}
	return workout.CloneSession(last), nil
}

func (s *Store) setSessionsGauge(n int) {
	if s.metricsManager != nil {
		s.metricsManager.GaugeSessions.Set(float64(n))
	}
}

func findExercise(programs []workout.Program, id string) (workout.Exercise, error) {
	for _, p := range programs {
		for _, ex := range p.Exercises {
			if ex.ID == id {
				return ex, nil
			}
		}
	}
	return workout.Exercise{}, fmt.Errorf("%w: %s", workout.ErrExerciseNotFound, id)
}
