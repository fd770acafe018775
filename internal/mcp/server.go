package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	ServerName    = "workout-tracker"
	ServerVersion = "1.0.0"
)

// NewServer builds an MCP server exposing the workout state tools.
// cmd/workout_mcp runs it over stdio, internal/server mounts it at /mcp.
func NewServer(service stateService) *mcp.Server {
	h := NewHandler(service)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_state",
		Description: "Returns the current user, how many programs, exercises and sessions are stored, and whether the store is still loading.",
	}, h.GetStateTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_programs",
		Description: "Returns all workout programs with their exercises (id, name, description, target muscles). Use to find exercise ids.",
	}, h.ListProgramsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise",
		Description: "Returns one exercise by id. Arg: exercise_id.",
	}, h.GetExerciseTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_last_session",
		Description: "Returns the most recent session of the current user for an exercise. Arg: exercise_id. Fails when nobody is logged in or there is no history.",
	}, h.GetLastSessionTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "add_session",
		Description: "Records a session for the current user. Args: exercise_id, sets (weight, reps, intensity 1-10); optional date. Set numbers are assigned in order.",
	}, h.AddSessionTool())

	return s
}

// NewHTTPHandler serves the same server over streamable HTTP.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	h := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
	return otelhttp.NewHandler(h, "mcp")
}
