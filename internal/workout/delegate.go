package workout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stegangeorgiev/fitness-app/internal/ai"
	"github.com/stegangeorgiev/fitness-app/internal/catalog"
	"github.com/stegangeorgiev/fitness-app/internal/errors"
)

// Model call parameters.
const (
	DefaultProbeTimeout = 8 * time.Second
	DefaultCallTimeout  = 30 * time.Second
	DefaultTemperature  = 0.7
	DefaultMaxTokens    = 1500

	probePrompt    = "Hi"
	probeMaxTokens = 3
)

// readiness caches the result of the first probe until [Service.Reprobe] is called.
type readiness struct {
	probed bool
	err    error
}

// ensureReady probes the model once and remembers the answer. Concurrent callers share a single probe.
func (s *Service) ensureReady(ctx context.Context) error {
	if s.chat == nil {
		return fmt.Errorf("%w: no chat client configured", ErrAIUnavailable)
	}

	s.mu.Lock()
	state := s.ready
	s.mu.Unlock()
	if state.probed {
		return state.err
	}

	ch := s.probeGroup.DoChan("probe", func() (any, error) {
		s.mu.Lock()
		state := s.ready
		s.mu.Unlock()
		if state.probed {
			return nil, state.err
		}

		// Detached from the caller's cancellation, bounded by ProbeTimeout.
		probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ProbeTimeout)
		defer cancel()

		_, err := s.chat.Chat(probeCtx, probePrompt, ai.Options{
			Model:       s.cfg.Model,
			Temperature: nil,
			MaxTokens:   probeMaxTokens,
		})
		if err != nil {
			err = fmt.Errorf("%w: probe: %w", ErrAIUnavailable, err)
			s.logger.LogAttrs(ctx, slog.LevelWarn, "ai probe failed", errors.SlogError(err))
		} else {
			s.logger.LogAttrs(ctx, slog.LevelInfo, "ai probe succeeded", slog.String("model", s.cfg.Model))
		}

		s.mu.Lock()
		s.ready = readiness{probed: true, err: err}
		s.mu.Unlock()
		return nil, err
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("%w: waiting for probe: %w", ErrAITimeout, ctx.Err())
	}
}

// Reprobe forgets the cached readiness so that the next generation probes the model again.
func (s *Service) Reprobe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = readiness{probed: false, err: nil}
}

// generateViaAI asks the model for a program and validates the reply.
func (s *Service) generateViaAI(
	ctx context.Context, req Request, eligible []catalog.Exercise, previous []string,
) (Response, error) {
	if err := s.ensureReady(ctx); err != nil {
		return Response{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	raw, err := s.chat.Chat(callCtx, buildPrompt(req, eligible, previous), ai.Options{
		Model:       s.cfg.Model,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		if ai.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
			s.cfg.Tracer.CaptureTimeoutTrace(ctx, string(req.WorkoutType))
			return Response{}, fmt.Errorf("%w: %w", ErrAITimeout, err)
		}
		return Response{}, fmt.Errorf("%w: %w", ErrAIUnavailable, err)
	}

	resp, dropped, err := validate(raw, req, eligible, s.now())
	for _, d := range dropped {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "dropped exercise from ai reply",
			slog.String("exercise", d.Name), slog.String("reason", d.Reason))
		s.metrics.ExerciseDropped(d.Reason)
	}
	if err != nil {
		return Response{}, err
	}
	return resp, nil
}

// fallbackReason names the failure for logs and metrics.
func fallbackReason(err error) string {
	switch {
	case errors.Is(err, ErrAITimeout):
		return "timeout"
	case errors.Is(err, ErrAIMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrAIUnavailable):
		return "unavailable"
	default:
		return "unknown"
	}
}
