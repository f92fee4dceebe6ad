package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/stegangeorgiev/fitness-app/internal/catalog"
	"github.com/stegangeorgiev/fitness-app/internal/errors"
	"github.com/stegangeorgiev/fitness-app/internal/mcpserver"
	"github.com/stegangeorgiev/fitness-app/internal/observability"
	"github.com/stegangeorgiev/fitness-app/internal/workout"
)

// ErrUsage marks command line mistakes. main prints the usage text for them.
var ErrUsage = errors.NewSentinel("usage")

const usage = `Usage: workoutgen <command> [flags]

Commands:
  generate   generate a workout program and print it as JSON
  exercises  search the exercise catalog
  eligible   list the exercises a program may contain
  mcp        serve the MCP tools over stdio

Run workoutgen <command> -h for the flags of a command.
`

var commands = map[string]func(*application, context.Context, []string, io.Writer) error{ //nolint:gochecknoglobals,lll // dispatch table
	"generate":  (*application).generate,
	"exercises": (*application).exercises,
	"eligible":  (*application).eligible,
	"mcp":       (*application).serveMCP,
}

// parseFlags parses args into fs. Flag errors are usage errors, -h is not an error.
func parseFlags(fs *flag.FlagSet, args []string, stdout io.Writer) (bool, error) {
	fs.SetOutput(stdout)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return false, fmt.Errorf("%w: unexpected arguments %v", ErrUsage, fs.Args())
	}
	return true, nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (app *application) generate(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	workoutType := fs.String("type", string(workout.TypeFullBody), "workout type")
	difficulty := fs.String("difficulty", string(catalog.Beginner), "beginner, intermediate or advanced")
	duration := fs.Int("duration", workout.DefaultDurationMinutes, "workout length in minutes")
	goals := fs.String("goals", "", "training goals")
	equipment := fs.String("equipment", "", "comma-separated available equipment")
	injuries := fs.String("injuries", "", "comma-separated injuries or limitations")
	experience := fs.String("experience", "", "training experience")
	deterministic := fs.Bool("deterministic", false, "skip the AI model")
	if ok, err := parseFlags(fs, args, stdout); !ok {
		return err
	}

	req := workout.Request{
		WorkoutType:     workout.Type(*workoutType),
		Difficulty:      catalog.Difficulty(*difficulty),
		DurationMinutes: *duration,
		UserGoals:       *goals,
		Equipment:       splitList(*equipment),
		Injuries:        splitList(*injuries),
		Experience:      *experience,
	}
	generate := app.service.Generate
	if *deterministic {
		generate = app.service.Compose
	}
	resp, err := generate(ctx, req)
	if err != nil {
		return errors.Wrap(asUsage(err), "generate workout")
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err = enc.Encode(resp); err != nil {
		return errors.Wrap(err, "write program")
	}
	return nil
}

func (app *application) exercises(_ context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("exercises", flag.ContinueOnError)
	var filter catalog.Filter
	fs.StringVar(&filter.MuscleGroup, "muscle", "", "muscle group or primary muscle")
	difficulty := fs.String("difficulty", "", "beginner, intermediate or advanced")
	category := fs.String("category", "", "strength, cardio, flexibility or sports")
	fs.StringVar(&filter.Equipment, "equipment", "", "equipment, 'none' for bodyweight only")
	fs.StringVar(&filter.Query, "search", "", "free text")
	if ok, err := parseFlags(fs, args, stdout); !ok {
		return err
	}
	filter.Difficulty = catalog.Difficulty(*difficulty)
	filter.Category = catalog.Category(*category)

	return writeExercises(stdout, app.service.Catalog().Search(filter))
}

func (app *application) eligible(_ context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("eligible", flag.ContinueOnError)
	workoutType := fs.String("type", string(workout.TypeFullBody), "workout type")
	difficulty := fs.String("difficulty", string(catalog.Beginner), "beginner, intermediate or advanced")
	if ok, err := parseFlags(fs, args, stdout); !ok {
		return err
	}

	exercises, err := app.service.Eligible(workout.Type(*workoutType), catalog.Difficulty(*difficulty))
	if err != nil {
		return errors.Wrap(asUsage(err), "select eligible exercises")
	}
	return writeExercises(stdout, exercises)
}

// asUsage marks an unknown workout type or difficulty given on the command line as a usage mistake.
func asUsage(err error) error {
	if errors.Is(err, workout.ErrUnknownWorkoutType) || errors.Is(err, workout.ErrUnknownDifficulty) {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return err
}

func writeExercises(stdout io.Writer, exercises []catalog.Exercise) error {
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0) //nolint:mnd // column padding
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tDIFFICULTY\tMUSCLE GROUPS\tEQUIPMENT")
	for _, ex := range exercises {
		equipment := "bodyweight"
		if !ex.Bodyweight() {
			equipment = strings.Join(ex.Equipment, ", ")
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			ex.ID, ex.Name, ex.Difficulty, strings.Join(ex.MuscleGroups, ", "), equipment)
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "write exercises")
	}
	return nil
}

func (app *application) serveMCP(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	if ok, err := parseFlags(fs, args, stdout); !ok {
		return err
	}

	if app.cfg.MetricsAddr != "" {
		metricsCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		server, err := observability.Serve(metricsCtx, app.cfg.MetricsAddr,
			observability.Handler(app.registry, app.logger), app.logger)
		if err != nil {
			return err
		}
		defer func() {
			cancel()
			<-server.Done()
		}()
	}

	app.logger.LogAttrs(ctx, slog.LevelInfo, "serving mcp over stdio", slog.String("version", version))
	return mcpserver.Serve(mcpserver.New(app.service, version, app.logger))
}
