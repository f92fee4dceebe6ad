// Package flightrecorder keeps a rolling execution trace and saves it when a model call times out, so that
// slow generations can be inspected with go tool trace.
package flightrecorder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/trace"
	"sync/atomic"
	"time"

	"github.com/stegangeorgiev/fitness-app/internal/errors"
)

const (
	defaultMinAge   = time.Minute
	defaultMaxBytes = 16 * 1024 * 1024
	defaultCooldown = 10 * time.Minute
)

// ErrInvalidConfig is returned by [New] for an unusable configuration.
var ErrInvalidConfig = errors.NewSentinel("invalid flight recorder config")

// Config configures the recorder. Zero durations and sizes use the defaults.
type Config struct {
	Logger *slog.Logger
	// TracesDirectory receives the trace files. It is created when missing.
	TracesDirectory string
	MinAge          time.Duration
	MaxBytes        uint64
	// Cooldown is the minimum time between two captures.
	Cooldown time.Duration
}

// Recorder captures execution traces around model timeouts.
type Recorder struct {
	logger          *slog.Logger
	flightRecorder  *trace.FlightRecorder
	tracesDirectory string
	cooldown        time.Duration
	now             func() time.Time
	lastCapture     atomic.Int64 // unix nanoseconds
}

// New creates a recorder. Call [Recorder.Start] to begin recording.
func New(cfg Config) (*Recorder, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("%w: logger is required", ErrInvalidConfig)
	}
	if cfg.TracesDirectory == "" {
		return nil, fmt.Errorf("%w: traces directory is required", ErrInvalidConfig)
	}
	if err := os.MkdirAll(cfg.TracesDirectory, 0o750); err != nil {
		return nil, errors.Wrap(err, "create traces directory", slog.String("dir", cfg.TracesDirectory))
	}

	if cfg.MinAge <= 0 {
		cfg.MinAge = defaultMinAge
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaultCooldown
	}

	return &Recorder{
		logger:          cfg.Logger,
		flightRecorder:  trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: cfg.MinAge, MaxBytes: cfg.MaxBytes}),
		tracesDirectory: cfg.TracesDirectory,
		cooldown:        cfg.Cooldown,
		now:             time.Now,
		lastCapture:     atomic.Int64{},
	}, nil
}

// Start begins recording.
func (r *Recorder) Start(ctx context.Context) error {
	if err := r.flightRecorder.Start(); err != nil {
		return errors.Wrap(err, "start flight recorder")
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder started",
		slog.String("dir", r.tracesDirectory), slog.Duration("cooldown", r.cooldown))
	return nil
}

// Stop ends recording.
func (r *Recorder) Stop(ctx context.Context) {
	r.flightRecorder.Stop()
	r.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder stopped")
}

// CaptureTimeoutTrace writes the recent trace to ai-timeout-<label>-<timestamp>.trace unless a trace was
// captured within the cooldown. Failures are logged and otherwise ignored.
func (r *Recorder) CaptureTimeoutTrace(ctx context.Context, label string) {
	now := r.now()
	last := r.lastCapture.Load()
	if last != 0 && now.Sub(time.Unix(0, last)) < r.cooldown {
		r.logger.LogAttrs(ctx, slog.LevelDebug, "skipping trace capture during cooldown",
			slog.Time("last_capture", time.Unix(0, last)))
		return
	}
	if !r.lastCapture.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	path := filepath.Join(r.tracesDirectory,
		fmt.Sprintf("ai-timeout-%s-%s.trace", label, now.UTC().Format("20060102-150405")))
	if err := r.writeTrace(path); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "capture timeout trace", errors.SlogError(err))
		return
	}
	r.logger.LogAttrs(ctx, slog.LevelWarn, "captured timeout trace", slog.String("file", path))
}

func (r *Recorder) writeTrace(path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create trace file", slog.String("file", path))
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			err = errors.Join(err, errors.Wrap(closeErr, "close trace file"))
		}
	}()

	if _, err = r.flightRecorder.WriteTo(file); err != nil {
		return errors.Wrap(err, "write trace", slog.String("file", path))
	}
	return nil
}
