// Package mcpserver exposes workout generation and the exercise catalog as MCP tools.
package mcpserver

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stegangeorgiev/fitness-app/internal/errors"
	"github.com/stegangeorgiev/fitness-app/internal/workout"
)

const serverName = "workoutgen"

// New creates an MCP server with every tool registered.
func New(svc *workout.Service, version string, logger *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer(serverName, version,
		server.WithToolCapabilities(false),
		server.WithInstructions("Workout program generator. Generate programs for a workout type and fitness "+
			"level, list the exercises a program may contain, and search the exercise catalog."),
	)

	h := &handlers{svc: svc, logger: logger}
	s.AddTools(
		server.ServerTool{Tool: toolGenerateWorkout, Handler: h.withRecovery(toolGenerateWorkout.Name, h.generateWorkout)},
		server.ServerTool{Tool: toolSearchExercises, Handler: h.withRecovery(toolSearchExercises.Name, h.searchExercises)},
		server.ServerTool{Tool: toolListEligible, Handler: h.withRecovery(toolListEligible.Name, h.listEligible)},
	)
	return s
}

// Serve runs s over stdin and stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	if err := server.ServeStdio(s); err != nil {
		return errors.Wrap(err, "serve mcp over stdio")
	}
	return nil
}

type handlers struct {
	svc    *workout.Service
	logger *slog.Logger
}

// withRecovery turns a panicking handler into a tool error so that one bad call does not end the session.
func (h *handlers) withRecovery(tool string, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		defer func() {
			if recovered := recover(); recovered != nil {
				h.logger.LogAttrs(ctx, slog.LevelError, "mcp tool panicked",
					slog.String("tool", tool), errors.SlogError(errors.DecoratePanic(recovered)))
				result, err = mcp.NewToolResultError("internal error"), nil
			}
		}()
		return next(ctx, req)
	}
}

// splitList parses a comma-separated argument, dropping blanks.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
