package appstate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/workouttracker/internal/telemetry/tracing"
	"github.com/2beens/workouttracker/internal/workout"
	"github.com/2beens/workouttracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=appstate_test

type service interface {
	Snapshot() State
	Login(ctx context.Context, user workout.User) (workout.User, error)
	Logout(ctx context.Context) error
	Programs() []workout.Program
	FindProgram(id string) (workout.Program, error)
	FindExercise(id string) (workout.Exercise, error)
	LastSessionForExercise(exerciseID string) (workout.Session, error)
	NewDraft(exerciseID string) (Draft, error)
	SaveDraft(ctx context.Context, d Draft) (workout.Session, error)
	AddSession(ctx context.Context, session workout.Session) (workout.Session, error)
}

type Handler struct {
	service service
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
	}
}

// SetupRoutes registers the state routes on r. loginMiddlewares only wrap
// the /auth subrouter (login and logout).
func (h *Handler) SetupRoutes(r *mux.Router, loginMiddlewares ...mux.MiddlewareFunc) {
	r.HandleFunc("/state", h.HandleState).Methods("GET", "OPTIONS").Name("get-state")

	authSubrouter := r.PathPrefix("/auth").Subrouter()
	authSubrouter.HandleFunc("/login", h.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	authSubrouter.HandleFunc("/logout", h.HandleLogout).Methods("POST", "OPTIONS").Name("logout")
	authSubrouter.Use(loginMiddlewares...)

	r.HandleFunc("/programs", h.HandlePrograms).Methods("GET", "OPTIONS").Name("list-programs")
	r.HandleFunc("/programs/{id}", h.HandleProgram).Methods("GET", "OPTIONS").Name("get-program")
	r.HandleFunc("/exercises/{id}", h.HandleExercise).Methods("GET", "OPTIONS").Name("get-exercise")
	r.HandleFunc("/exercises/{id}/last-session", h.HandleLastSession).Methods("GET", "OPTIONS").Name("last-session")
	r.HandleFunc("/exercises/{id}/draft", h.HandleNewDraft).Methods("GET", "OPTIONS").Name("new-draft")
	r.HandleFunc("/exercises/{id}/draft", h.HandleSaveDraft).Methods("POST", "OPTIONS").Name("save-draft")
	r.HandleFunc("/sessions", h.HandleAddSession).Methods("POST", "OPTIONS").Name("add-session")
}

type stateResponse struct {
	User         *workout.User     `json:"user"`
	Programs     []workout.Program `json:"programs"`
	SessionCount int               `json:"sessionCount"`
	Loading      bool              `json:"loading"`
}

func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.appstate.state")
	defer span.End()

	st := h.service.Snapshot()
	pkg.WriteJSON(w, stateResponse{
		User:         st.User,
		Programs:     st.Programs,
		SessionCount: len(st.Sessions),
		Loading:      st.Loading,
	}, http.StatusOK)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.appstate.login")
	defer span.End()

	if !isJSON(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var user workout.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		log.Errorf("login, unmarshal json params: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}

	loggedIn, err := h.service.Login(ctx, user)
	if err != nil {
		writeError(w, err, "login failed")
		return
	}

	pkg.WriteJSON(w, loggedIn, http.StatusOK)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.appstate.logout")
	defer span.End()

	if err := h.service.Logout(ctx); err != nil {
		writeError(w, err, "logout failed")
		return
	}
	pkg.WriteTextResponseOK(w, "logged out")
}

func (h *Handler) HandlePrograms(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.appstate.programs")
	defer span.End()

	pkg.WriteJSON(w, h.service.Programs(), http.StatusOK)
}

func (h *Handler) HandleProgram(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.appstate.program")
	defer span.End()

	program, err := h.service.FindProgram(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "get program failed")
		return
	}
	pkg.WriteJSON(w, program, http.StatusOK)
}

func (h *Handler) HandleExercise(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.appstate.exercise")
	defer span.End()

	exercise, err := h.service.FindExercise(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "get exercise failed")
		return
	}
	pkg.WriteJSON(w, exercise, http.StatusOK)
}

func (h *Handler) HandleLastSession(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.appstate.lastsession")
	defer span.End()

	session, err := h.service.LastSessionForExercise(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "get last session failed")
		return
	}
	pkg.WriteJSON(w, session, http.StatusOK)
}

func (h *Handler) HandleNewDraft(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.appstate.newdraft")
	defer span.End()

	draft, err := h.service.NewDraft(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "new draft failed")
		return
	}
	pkg.WriteJSON(w, draft, http.StatusOK)
}

// rawSet carries form input as typed by the user; values are coerced, not validated.
type rawSet struct {
	Weight    string `json:"weight"`
	Reps      string `json:"reps"`
	Intensity string `json:"intensity"`
}

type saveDraftRequest struct {
	Sets []rawSet `json:"sets"`
}

func (h *Handler) HandleSaveDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.appstate.savedraft")
	defer span.End()

	if !isJSON(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req saveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("save draft, unmarshal json params: %s", err)
		http.Error(w, "save draft failed", http.StatusBadRequest)
		return
	}

	draft := Draft{
		ExerciseID: mux.Vars(r)["id"],
		Sets:       make([]workout.Set, len(req.Sets)),
	}
	for i, rs := range req.Sets {
		draft.Sets[i] = workout.Set{
			SetNumber: i + 1,
			Weight:    ParseSetValue(rs.Weight),
			Reps:      ParseSetCount(rs.Reps),
			Intensity: ParseSetCount(rs.Intensity),
		}
	}

	session, err := h.service.SaveDraft(ctx, draft)
	if err != nil {
		writeError(w, err, "save draft failed")
		return
	}
	pkg.WriteJSON(w, session, http.StatusCreated)
}

func (h *Handler) HandleAddSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.appstate.addsession")
	defer span.End()

	if !isJSON(r) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var session workout.Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		log.Errorf("add session, unmarshal json params: %s", err)
		http.Error(w, "add session failed", http.StatusBadRequest)
		return
	}

	added, err := h.service.AddSession(ctx, session)
	if err != nil {
		writeError(w, err, "add session failed")
		return
	}
	pkg.WriteJSON(w, added, http.StatusCreated)
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// writeError maps domain errors to status codes. Not-found style
// errors carry their message, internal ones only the generic one.
func writeError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, workout.ErrNoCurrentUser):
		http.Error(w, "no user logged in", http.StatusUnauthorized)
	case errors.Is(err, workout.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, workout.ErrInvalidSession),
		errors.Is(err, workout.ErrInvalidUser),
		errors.Is(err, ErrIncompleteDraft):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", message, err)
		http.Error(w, message, http.StatusInternalServerError)
	}
}
