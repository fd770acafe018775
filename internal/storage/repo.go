package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/workouttracker/internal/kvstore"
	"github.com/2beens/workouttracker/internal/telemetry/metrics"
	"github.com/2beens/workouttracker/internal/telemetry/tracing"
	"github.com/2beens/workouttracker/internal/workout"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	UserKey     = "@workout_tracker_user"
	ProgramsKey = "@workout_tracker_programs"
	SessionsKey = "@workout_tracker_sessions"
)

var AllKeys = []string{UserKey, ProgramsKey, SessionsKey}

// Repo persists the user, programs and sessions documents.
type Repo struct {
	store          kvstore.Store
	metricsManager *metrics.Manager

	// guards the sessions read-modify-write
	sessionsMutex sync.Mutex

	IDFunc func() string
}

func NewRepo(store kvstore.Store, metricsManager *metrics.Manager) *Repo {
	return &Repo{
		store:          store,
		metricsManager: metricsManager,
		IDFunc:         uuid.NewString,
	}
}

// GenerateID returns a new opaque id. Uniqueness relies on the generator alone.
func (r *Repo) GenerateID() string {
	return r.IDFunc()
}

func (r *Repo) SaveUser(ctx context.Context, user workout.User) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.storage.saveUser")
	defer func(begin time.Time) {
		r.metricsManager.ObserveStorageOp("save_user", begin, err)
		tracing.EndSpanWithErrCheck(span, err)
	}(time.Now())

	if err := workout.ValidateUser(user); err != nil {
		return err
	}
	return r.put(ctx, UserKey, user)
}

// GetUser returns nil without error when no user is stored.
func (r *Repo) GetUser(ctx context.Context) (_ *workout.User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.storage.getUser")
	defer func(begin time.Time) {
		r.metricsManager.ObserveStorageOp("get_user", begin, err)
		tracing.EndSpanWithErrCheck(span, err)
	}(time.Now())

	data, _, err := r.get(ctx, UserKey)
	if err != nil {
		return nil, err
	}
	if isNull(data) {
		return nil, nil
	}

	var user workout.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("%w: user: %s", ErrCorruptDocument, err)
	}
	if err := workout.ValidateUser(user); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDocument, err)
	}
	return &user, nil
}

func (r *Repo) RemoveUser(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.storage.removeUser")
	defer func(begin time.Time) {
		r.metricsManager.ObserveStorageOp("remove_user", begin, err)
		tracing.EndSpanWithErrCheck(span, err)
	}(time.Now())

	if err := r.store.Delete(ctx, UserKey); err != nil {
		return fmt.Errorf("delete user doc: %w", err)
	}
	return nil
}

func (r *Repo) SavePrograms(ctx context.Context, programs []workout.Program) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.storage.savePrograms")
	span.SetAttributes(attribute.Int("programs", len(programs)))
	defer func(begin time.Time) {
		r.metricsManager.ObserveStorageOp("save_programs", begin, err)
		tracing.EndSpanWithErrCheck(span, err)
	}(time.Now())

	if err := workout.ValidateCatalog(programs); err != nil {
		return err
	}
	if programs == nil {
		programs = []workout.Program{}
	}
	return r.put(ctx, ProgramsKey, programs)
}

// GetPrograms returns an empty slice when nothing is stored.
func (r *Repo) GetPrograms(ctx context.Context) (_ []workout.Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.storage.getPrograms")
	defer func(begin time.Time) {
		r.metricsManager.ObserveStorageOp("get_programs", begin, err)
		tracing.EndSpanWithErrCheck(span, err)
	}(time.Now())

	data, version, err := r.get(ctx, ProgramsKey)
	if err != nil {
		return nil, err
	}
	programs, err := decodePrograms(data, version)
	if err != nil {
		return nil, err
	}
	if err := workout.ValidateCatalog(programs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDocument, err)
	}
	return programs, nil
}

func (r *Repo) SaveSessions(ctx context.Context, sessions []workout.Session) error {
	r.sessionsMutex.Lock()
	defer r.sessionsMutex.Unlock()
	return r.saveSessions(ctx, sessions)
}

// GetSessions returns an empty slice when nothing is stored.
func (r *Repo) GetSessions(ctx context.Context) ([]workout.Session, error) {
	r.sessionsMutex.Lock()
	defer r.sessionsMutex.Unlock()
	return r.getSessions(ctx)
}

// AddSession reads the whole list, appends and writes the whole list back.
func (r *Repo) AddSession(ctx context.Context, session workout.Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.storage.addSession")
	span.SetAttributes(
		attribute.String("session.id", session.ID),
		attribute.String("exercise.id", session.ExerciseID),
	)
	defer func(begin time.Time) {
		r.metricsManager.ObserveStorageOp("add_session", begin, err)
		tracing.EndSpanWithErrCheck(span, err)
	}(time.Now())

	if err := workout.ValidateSession(session); err != nil {
		return err
	}

	r.sessionsMutex.Lock()
	defer r.sessionsMutex.Unlock()

	sessions, err := r.getSessions(ctx)
	if err != nil {
		return fmt.Errorf("read sessions: %w", err)
	}
	sessions = append(sessions, session)
	if err := r.saveSessions(ctx, sessions); err != nil {
		return fmt.Errorf("write sessions: %w", err)
	}

	log.Tracef("storage: session [%s] added, %d total", session.ID, len(sessions))
	return nil
}

// ClearAllData removes all three documents.
func (r *Repo) ClearAllData(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.storage.clearAllData")
	defer func(begin time.Time) {
		r.metricsManager.ObserveStorageOp("clear_all", begin, err)
		tracing.EndSpanWithErrCheck(span, err)
	}(time.Now())

	r.sessionsMutex.Lock()
	defer r.sessionsMutex.Unlock()

	if err := r.store.Delete(ctx, AllKeys...); err != nil {
		return fmt.Errorf("delete all docs: %w", err)
	}
	log.Debugln("storage: all data cleared")
	return nil
}

func (r *Repo) saveSessions(ctx context.Context, sessions []workout.Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.storage.saveSessions")
	span.SetAttributes(attribute.Int("sessions", len(sessions)))
	defer func(begin time.Time) {
		r.metricsManager.ObserveStorageOp("save_sessions", begin, err)
		tracing.EndSpanWithErrCheck(span, err)
	}(time.Now())

	if err := workout.ValidateSessions(sessions); err != nil {
		return err
	}
	if sessions == nil {
		sessions = []workout.Session{}
	}
	return r.put(ctx, SessionsKey, sessions)
}

func (r *Repo) getSessions(ctx context.Context) (_ []workout.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.storage.getSessions")
	defer func(begin time.Time) {
		r.metricsManager.ObserveStorageOp("get_sessions", begin, err)
		tracing.EndSpanWithErrCheck(span, err)
	}(time.Now())

	data, version, err := r.get(ctx, SessionsKey)
	if err != nil {
		return nil, err
	}
	return decodeSessions(data, version)
}

func (r *Repo) put(ctx context.Context, key string, payload any) error {
	raw, err := encodeDocument(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// get returns a null payload for a missing key.
func (r *Repo) get(ctx context.Context, key string) (json.RawMessage, int, error) {
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, SchemaVersion, nil
		}
		return nil, 0, fmt.Errorf("read %s: %w", key, err)
	}

	data, version, err := openDocument(raw)
	if err != nil {
		return nil, version, fmt.Errorf("open %s: %w", key, err)
	}
	if version == 0 {
		log.Debugf("storage: [%s] is a legacy document without envelope", key)
	}
	return data, version, nil
}
