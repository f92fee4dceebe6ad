package mcpserver

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stegangeorgiev/fitness-app/internal/catalog"
	"github.com/stegangeorgiev/fitness-app/internal/errors"
	"github.com/stegangeorgiev/fitness-app/internal/workout"
)

func workoutTypeNames() []string {
	names := make([]string, len(workout.Types))
	for i, t := range workout.Types {
		names[i] = string(t)
	}
	return names
}

func difficultyNames() []string {
	names := make([]string, len(catalog.Difficulties))
	for i, d := range catalog.Difficulties {
		names[i] = string(d)
	}
	return names
}

// --- Tool definitions ---

var toolGenerateWorkout = mcp.NewTool("generate_workout", //nolint:gochecknoglobals // tool definition
	mcp.WithDescription("Generate a workout program. The program is designed by the AI model when it is "+
		"available and by a deterministic composer otherwise. Every exercise is appropriate for the difficulty."),
	mcp.WithString("workout_type", mcp.Required(), mcp.Description("Muscle focus of the workout"),
		mcp.Enum(workoutTypeNames()...)),
	mcp.WithString("difficulty", mcp.Description("Fitness level. Defaults to beginner."),
		mcp.Enum(difficultyNames()...)),
	mcp.WithNumber("duration", mcp.Description("Workout length in minutes. Defaults to 30.")),
	mcp.WithString("goals", mcp.Description("Free text training goals")),
	mcp.WithString("equipment", mcp.Description("Comma-separated available equipment. Defaults to bodyweight.")),
	mcp.WithString("injuries", mcp.Description("Comma-separated injuries or limitations")),
	mcp.WithString("experience", mcp.Description("Free text training experience")),
	mcp.WithBoolean("deterministic", mcp.Description("Skip the AI model and use the composer only")),
)

var toolSearchExercises = mcp.NewTool("search_exercises", //nolint:gochecknoglobals // tool definition
	mcp.WithDescription("Search the exercise catalog. All filters are optional and case-insensitive."),
	mcp.WithString("muscle_group", mcp.Description("Muscle group or primary muscle (partial match, e.g. 'quad')")),
	mcp.WithString("difficulty", mcp.Description("Exact difficulty"), mcp.Enum(difficultyNames()...)),
	mcp.WithString("category", mcp.Description("Exact category"),
		mcp.Enum(string(catalog.Strength), string(catalog.Cardio), string(catalog.Flexibility),
			string(catalog.Sports))),
	mcp.WithString("equipment", mcp.Description("Equipment (partial match). 'none' or 'bodyweight' selects "+
		"exercises without equipment.")),
	mcp.WithString("query", mcp.Description("Free text matched against names and muscles")),
)

var toolListEligible = mcp.NewTool("list_eligible_exercises", //nolint:gochecknoglobals // tool definition
	mcp.WithDescription("List the exercises a program of the given type and difficulty may contain, "+
		"in the order the generator considers them."),
	mcp.WithString("workout_type", mcp.Required(), mcp.Description("Muscle focus of the workout"),
		mcp.Enum(workoutTypeNames()...)),
	mcp.WithString("difficulty", mcp.Required(), mcp.Description("Fitness level"), mcp.Enum(difficultyNames()...)),
)

// --- Tool handlers ---

func (h *handlers) generateWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workoutType, err := req.RequireString("workout_type")
	if err != nil {
		return mcp.NewToolResultError("workout_type parameter is required"), nil
	}

	request := workout.Request{
		WorkoutType:     workout.Type(workoutType),
		Difficulty:      catalog.Difficulty(req.GetString("difficulty", string(catalog.Beginner))),
		DurationMinutes: req.GetInt("duration", workout.DefaultDurationMinutes),
		UserGoals:       req.GetString("goals", ""),
		Equipment:       splitList(req.GetString("equipment", "")),
		Injuries:        splitList(req.GetString("injuries", "")),
		Experience:      req.GetString("experience", ""),
	}

	generate := h.svc.Generate
	if req.GetBool("deterministic", false) {
		generate = h.svc.Compose
	}
	resp, err := generate(ctx, request)
	if err != nil {
		if errors.Is(err, workout.ErrUnknownWorkoutType) || errors.Is(err, workout.ErrUnknownDifficulty) {
			return mcp.NewToolResultError("invalid request: " + err.Error()), nil
		}
		h.logger.LogAttrs(ctx, slog.LevelError, "mcp generate_workout", errors.SlogError(err))
		return mcp.NewToolResultError("generation failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(resp)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) searchExercises(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises := h.svc.Catalog().Search(catalog.Filter{
		MuscleGroup: req.GetString("muscle_group", ""),
		Difficulty:  catalog.Difficulty(req.GetString("difficulty", "")),
		Category:    catalog.Category(req.GetString("category", "")),
		Equipment:   req.GetString("equipment", ""),
		Query:       req.GetString("query", ""),
	})
	if exercises == nil {
		exercises = []catalog.Exercise{}
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"count":     len(exercises),
		"exercises": exercises,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listEligible(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workoutType, err := req.RequireString("workout_type")
	if err != nil {
		return mcp.NewToolResultError("workout_type parameter is required"), nil
	}
	difficulty, err := req.RequireString("difficulty")
	if err != nil {
		return mcp.NewToolResultError("difficulty parameter is required"), nil
	}

	eligible, err := h.svc.Eligible(workout.Type(workoutType), catalog.Difficulty(difficulty))
	if err != nil {
		return mcp.NewToolResultError("invalid request: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"workoutType":  workoutType,
		"difficulty":   difficulty,
		"minExercises": workout.MinExercises(catalog.Difficulty(difficulty)),
		"maxExercises": workout.MaxExercises(catalog.Difficulty(difficulty)),
		"exercises":    eligible,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
