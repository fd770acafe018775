package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/2beens/workouttracker/internal/appstate"
	"github.com/2beens/workouttracker/internal/workout"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// stateService is the part of the state store the tools read and write.
type stateService interface {
	Snapshot() appstate.State
	Programs() []workout.Program
	FindExercise(id string) (workout.Exercise, error)
	LastSessionForExercise(exerciseID string) (workout.Session, error)
	AddSession(ctx context.Context, session workout.Session) (workout.Session, error)
}

// Handler turns tool calls into state store calls and formats the results.
type Handler struct {
	service stateService
}

func NewHandler(service stateService) *Handler {
	return &Handler{
		service: service,
	}
}

// NoInput is the input of tools without arguments.
type NoInput struct{}

// StateSummary is what get_state returns; full session history is left out.
type StateSummary struct {
	User         *workout.User `json:"user"`
	Programs     int           `json:"programs"`
	Exercises    int           `json:"exercises"`
	SessionCount int           `json:"sessionCount"`
	Loading      bool          `json:"loading"`
}

func (h *Handler) GetStateTool() func(context.Context, *mcp.CallToolRequest, NoInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, any, error) {
		st := h.service.Snapshot()
		summary := StateSummary{
			User:         st.User,
			Programs:     len(st.Programs),
			SessionCount: len(st.Sessions),
			Loading:      st.Loading,
		}
		for _, p := range st.Programs {
			summary.Exercises += len(p.Exercises)
		}
		return jsonResult(summary)
	}
}

func (h *Handler) ListProgramsTool() func(context.Context, *mcp.CallToolRequest, NoInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, any, error) {
		return jsonResult(h.service.Programs())
	}
}

// ExerciseInput is the input for get_exercise and get_last_session.
type ExerciseInput struct {
	ExerciseID string `json:"exercise_id" jsonschema:"Exercise id from list_programs (e.g. exercise_1_1)"`
}

func (h *Handler) GetExerciseTool() func(context.Context, *mcp.CallToolRequest, ExerciseInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in ExerciseInput) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(in.ExerciseID) == "" {
			return errorResult("Missing exercise_id"), nil, nil
		}
		ex, err := h.service.FindExercise(in.ExerciseID)
		if err != nil {
			return errorResult("Error fetching exercise: " + err.Error()), nil, nil
		}
		return jsonResult(ex)
	}
}

func (h *Handler) GetLastSessionTool() func(context.Context, *mcp.CallToolRequest, ExerciseInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in ExerciseInput) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(in.ExerciseID) == "" {
			return errorResult("Missing exercise_id"), nil, nil
		}
		session, err := h.service.LastSessionForExercise(in.ExerciseID)
		if err != nil {
			return errorResult("Error fetching last session: " + err.Error()), nil, nil
		}
		return jsonResult(session)
	}
}

type SetInput struct {
	Weight    float64 `json:"weight" jsonschema:"Weight in lbs"`
	Reps      int     `json:"reps" jsonschema:"Repetitions"`
	Intensity int     `json:"intensity" jsonschema:"Perceived intensity, 1 to 10"`
}

// AddSessionInput is the input for add_session.
type AddSessionInput struct {
	ExerciseID string     `json:"exercise_id" jsonschema:"Exercise id from list_programs"`
	Date       string     `json:"date,omitempty" jsonschema:"Optional date (YYYY-MM-DD or RFC3339); defaults to now"`
	Sets       []SetInput `json:"sets" jsonschema:"Sets in the order they were done"`
}

func (h *Handler) AddSessionTool() func(context.Context, *mcp.CallToolRequest, AddSessionInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in AddSessionInput) (*mcp.CallToolResult, any, error) {
		if len(in.Sets) == 0 {
			return errorResult("At least one set is required"), nil, nil
		}

		session := workout.Session{
			ExerciseID: in.ExerciseID,
			Date:       in.Date,
			Sets:       make([]workout.Set, len(in.Sets)),
		}
		for i, s := range in.Sets {
			session.Sets[i] = workout.Set{
				SetNumber: i + 1,
				Weight:    s.Weight,
				Reps:      s.Reps,
				Intensity: s.Intensity,
			}
		}

		added, err := h.service.AddSession(ctx, session)
		if err != nil {
			return errorResult("Error adding session: " + err.Error()), nil, nil
		}
		return jsonResult(added)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error()), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}, nil, nil
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
