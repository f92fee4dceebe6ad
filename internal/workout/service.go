// Package workout generates workout programs from the exercise catalog, either by asking a chat model or
// with a deterministic composer that the model path falls back to.
package workout

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/stegangeorgiev/fitness-app/internal/ai"
	"github.com/stegangeorgiev/fitness-app/internal/catalog"
	"github.com/stegangeorgiev/fitness-app/internal/errors"
	"github.com/stegangeorgiev/fitness-app/internal/logging"
	"golang.org/x/sync/singleflight"
)

// MetricsRecorder receives generation outcomes.
type MetricsRecorder interface {
	ProgramGenerated(t Type, d catalog.Difficulty, aiGenerated bool)
	AIFallback(reason string)
	ExerciseDropped(reason string)
}

// TimeoutTracer captures diagnostics when a model call times out.
type TimeoutTracer interface {
	CaptureTimeoutTrace(ctx context.Context, label string)
}

type nopMetrics struct{}

func (nopMetrics) ProgramGenerated(Type, catalog.Difficulty, bool) {}
func (nopMetrics) AIFallback(string)                               {}
func (nopMetrics) ExerciseDropped(string)                          {}

type nopTracer struct{}

func (nopTracer) CaptureTimeoutTrace(context.Context, string) {}

// ServiceConfig tunes the model path. Zero values fall back to the package defaults, except Temperature
// where only nil selects DefaultTemperature and zero asks the model for greedy sampling.
type ServiceConfig struct {
	Model        string
	ProbeTimeout time.Duration
	CallTimeout  time.Duration
	Temperature  *float64
	MaxTokens    int
	// Metrics and Tracer are optional.
	Metrics MetricsRecorder
	Tracer  TimeoutTracer
	// Now is the clock used for program ids. Defaults to time.Now.
	Now func() time.Time
}

func (c ServiceConfig) withDefaults() ServiceConfig {
	if c.Model == "" {
		c.Model = ai.DefaultModel
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = DefaultProbeTimeout
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = DefaultCallTimeout
	}
	if c.Temperature == nil {
		temperature := DefaultTemperature
		c.Temperature = &temperature
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Metrics == nil {
		c.Metrics = nopMetrics{}
	}
	if c.Tracer == nil {
		c.Tracer = nopTracer{}
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Service generates workout programs. It is safe for concurrent use.
type Service struct {
	catalog *catalog.Catalog
	store   VarietyStore
	// chat is nil when no model is configured.
	chat    ai.Chatter
	logger  *slog.Logger
	metrics MetricsRecorder
	cfg     ServiceConfig
	now     func() time.Time

	probeGroup singleflight.Group
	mu         sync.Mutex
	ready      readiness
}

// NewService creates a workout service. A nil store keeps variety memory in process, and a nil chat client
// makes every generation use the composer.
func NewService(
	cat *catalog.Catalog, store VarietyStore, chat ai.Chatter, logger *slog.Logger, cfg ServiceConfig,
) *Service {
	cfg = cfg.withDefaults()
	if store == nil {
		store = NewMemoryVarietyStore()
	}
	return &Service{
		catalog:    cat,
		store:      store,
		chat:       chat,
		logger:     logger,
		metrics:    cfg.Metrics,
		cfg:        cfg,
		now:        cfg.Now,
		probeGroup: singleflight.Group{},
		mu:         sync.Mutex{},
		ready:      readiness{probed: false, err: nil},
	}
}

// Catalog returns the catalog the service selects from.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Eligible returns the exercises a program of type t at tier d may contain.
func (s *Service) Eligible(t Type, d catalog.Difficulty) ([]catalog.Exercise, error) {
	return Eligible(s.catalog, t, d)
}

// Generate produces a program for req. It tries the model first and composes the program itself when the
// model is not configured, not reachable, too slow or answers with something unusable. Only an invalid
// request returns an error.
func (s *Service) Generate(ctx context.Context, req Request) (Response, error) {
	return s.generate(ctx, req, true)
}

// Compose produces a program with the deterministic composer only.
func (s *Service) Compose(ctx context.Context, req Request) (Response, error) {
	return s.generate(ctx, req, false)
}

func (s *Service) generate(ctx context.Context, req Request, useAI bool) (Response, error) {
	req = req.withDefaults()
	ctx = logging.WithAttrs(ctx,
		slog.String("workout_type", string(req.WorkoutType)),
		slog.String("difficulty", string(req.Difficulty)))

	eligible, err := Eligible(s.catalog, req.WorkoutType, req.Difficulty)
	if err != nil {
		return Response{}, fmt.Errorf("select eligible exercises: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, "selected eligible exercises", slog.Int("count", len(eligible)))

	key := VarietyKey{Type: req.WorkoutType, Difficulty: req.Difficulty}
	previous := s.previousSelection(ctx, key)

	var resp Response
	if useAI {
		resp, err = s.generateViaAI(ctx, req, eligible, previous)
		if err != nil {
			reason := fallbackReason(err)
			s.logger.LogAttrs(ctx, slog.LevelWarn, "falling back to composer",
				slog.String("reason", reason), errors.SlogError(err))
			s.metrics.AIFallback(reason)
		}
	}
	if !useAI || err != nil {
		resp = compose(eligible, req, previous, s.now())
	}

	s.rememberSelection(ctx, key, resp.Program.ExerciseNames())
	s.metrics.ProgramGenerated(req.WorkoutType, req.Difficulty, resp.Program.AIGenerated)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "generated workout program",
		slog.String("program_id", resp.Program.ID),
		slog.Bool("ai_generated", resp.Program.AIGenerated),
		slog.Int("exercises", len(resp.Program.Exercises)))
	return resp, nil
}

// previousSelection reads the variety memory. A failing store counts as no memory.
func (s *Service) previousSelection(ctx context.Context, key VarietyKey) []string {
	previous, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "read variety memory", errors.SlogError(err))
		return nil
	}
	return previous
}

func (s *Service) rememberSelection(ctx context.Context, key VarietyKey, names []string) {
	if err := s.store.Set(ctx, key, names); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "write variety memory", errors.SlogError(err))
	}
}
