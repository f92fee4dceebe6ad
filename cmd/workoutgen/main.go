package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/stegangeorgiev/fitness-app/internal/ai"
	"github.com/stegangeorgiev/fitness-app/internal/catalog"
	"github.com/stegangeorgiev/fitness-app/internal/envstruct"
	"github.com/stegangeorgiev/fitness-app/internal/errors"
	"github.com/stegangeorgiev/fitness-app/internal/flightrecorder"
	"github.com/stegangeorgiev/fitness-app/internal/logging"
	"github.com/stegangeorgiev/fitness-app/internal/observability"
	"github.com/stegangeorgiev/fitness-app/internal/sqlite"
	"github.com/stegangeorgiev/fitness-app/internal/workout"
)

var version = "dev" //nolint:gochecknoglobals // set with -ldflags

type config struct {
	// OpenAIAPIKey enables the AI path. Without it every program is composed deterministically.
	OpenAIAPIKey string `env:"WORKOUTGEN_OPENAI_API_KEY" envDefault:""`
	// OpenAIBaseURL points at an OpenAI compatible server. Empty means api.openai.com.
	OpenAIBaseURL string        `env:"WORKOUTGEN_OPENAI_BASE_URL" envDefault:""`
	AIModel       string        `env:"WORKOUTGEN_AI_MODEL"        envDefault:"gpt-4o-mini"`
	AIEnabled     bool          `env:"WORKOUTGEN_AI_ENABLED"      envDefault:"true"`
	ProbeTimeout  time.Duration `env:"WORKOUTGEN_PROBE_TIMEOUT"   envDefault:"8s"`
	CallTimeout   time.Duration `env:"WORKOUTGEN_CALL_TIMEOUT"    envDefault:"30s"`
	// SqliteURL persists variety memory. Empty keeps it in process memory, ":memory:" is an ethereal database.
	SqliteURL string `env:"WORKOUTGEN_SQLITE_URL" envDefault:""`
	// CatalogPath replaces the embedded exercise catalog with a YAML file.
	CatalogPath string `env:"WORKOUTGEN_CATALOG_PATH" envDefault:""`
	// MetricsAddr is the optional address of the Prometheus listener started by the mcp command.
	MetricsAddr string `env:"WORKOUTGEN_METRICS_ADDR" envDefault:""`
	// TracesDir enables the flight recorder. A trace is written there whenever a model call times out.
	TracesDir string `env:"WORKOUTGEN_TRACES_DIR" envDefault:""`
}

type logConfig struct {
	Level  string `env:"WORKOUTGEN_LOG_LEVEL"  envDefault:"info"`
	Format string `env:"WORKOUTGEN_LOG_FORMAT" envDefault:"text"`
}

type application struct {
	logger   *slog.Logger
	service  *workout.Service
	registry *prometheus.Registry
	cfg      config
}

func run(
	ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool), args []string, stdout io.Writer,
) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", ErrUsage)
	}
	command, args := args[0], args[1:]
	if _, ok := commands[command]; !ok {
		return fmt.Errorf("%w: unknown command %q", ErrUsage, command)
	}

	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	app, cleanup, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	return commands[command](app, ctx, args, stdout)
}

// newApplication wires the workout service. cleanup releases what was opened even when err is not nil.
func newApplication(ctx context.Context, cfg config, logger *slog.Logger) (*application, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, cleanup, err
	}
	logger.LogAttrs(ctx, slog.LevelDebug, "loaded exercise catalog", slog.Int("exercises", cat.Len()))

	var store workout.VarietyStore
	if cfg.SqliteURL != "" {
		var db *sqlite.Database
		if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
			return nil, cleanup, errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
		}
		closers = append(closers, func() {
			if closeErr := db.Close(); closeErr != nil {
				logger.LogAttrs(ctx, slog.LevelWarn, "close db", errors.SlogError(closeErr))
			}
		})
		store = workout.NewSQLiteVarietyStore(db)
	}

	var chat ai.Chatter
	if cfg.AIEnabled && cfg.OpenAIAPIKey != "" {
		chat = ai.NewClient(ai.Config{APIKey: cfg.OpenAIAPIKey, BaseURL: cfg.OpenAIBaseURL}, logger)
	} else {
		logger.LogAttrs(ctx, slog.LevelInfo, "ai disabled, programs are composed deterministically")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), //nolint:exhaustruct // defaults
	)

	serviceCfg := workout.ServiceConfig{
		Model:        cfg.AIModel,
		ProbeTimeout: cfg.ProbeTimeout,
		CallTimeout:  cfg.CallTimeout,
		Temperature:  nil,
		MaxTokens:    0,
		Metrics:      observability.NewMetrics(registry),
		Tracer:       nil,
		Now:          nil,
	}
	if cfg.TracesDir != "" {
		var recorder *flightrecorder.Recorder
		recorder, err = flightrecorder.New(flightrecorder.Config{
			Logger:          logger,
			TracesDirectory: cfg.TracesDir,
			MinAge:          0,
			MaxBytes:        0,
			Cooldown:        0,
		})
		if err != nil {
			return nil, cleanup, errors.Wrap(err, "new flight recorder")
		}
		if err = recorder.Start(ctx); err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() { recorder.Stop(ctx) })
		serviceCfg.Tracer = recorder
	}

	return &application{
		logger:   logger,
		service:  workout.NewService(cat, store, chat, logger, serviceCfg),
		registry: registry,
		cfg:      cfg,
	}, cleanup, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		cat, err := catalog.Default()
		if err != nil {
			return nil, errors.Wrap(err, "load embedded catalog")
		}
		return cat, nil
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}
	return cat, nil
}

func newLogger(w io.Writer, lookupEnv func(string) (string, bool)) (*slog.Logger, error) {
	var cfg logConfig
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return nil, errors.Wrap(err, "populate log config")
	}
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewLogger(w, level, logging.Format(cfg.Format))
}

func main() {
	ctx := context.Background()
	logger, err := newLogger(os.Stderr, os.LookupEnv)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "configure logging: %v\n", err)
		os.Exit(2) //nolint:mnd // usage exit code
	}
	if err = run(ctx, logger, os.LookupEnv, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, ErrUsage) {
			_, _ = fmt.Fprintf(os.Stderr, "%v\n\n%s", err, usage)
			os.Exit(2) //nolint:mnd // usage exit code
		}
		logger.LogAttrs(ctx, slog.LevelError, "workoutgen failed", errors.SlogError(err))
		os.Exit(1)
	}
}
