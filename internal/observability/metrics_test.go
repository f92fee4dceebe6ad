package observability_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stegangeorgiev/fitness-app/internal/catalog"
	"github.com/stegangeorgiev/fitness-app/internal/observability"
	"github.com/stegangeorgiev/fitness-app/internal/testhelpers"
	"github.com/stegangeorgiev/fitness-app/internal/workout"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	m.ProgramGenerated(workout.TypeLegs, catalog.Beginner, true)
	m.ProgramGenerated(workout.TypeLegs, catalog.Beginner, true)
	m.ProgramGenerated(workout.TypeCore, catalog.Advanced, false)
	m.AIFallback("timeout")
	m.ExerciseDropped("not in eligible list")
	m.ExerciseDropped("duplicate")

	expected := `
# HELP workoutgen_workout_programs_generated_total The total number of generated workout programs.
# TYPE workoutgen_workout_programs_generated_total counter
workoutgen_workout_programs_generated_total{ai_generated="false",difficulty="advanced",workout_type="core"} 1
workoutgen_workout_programs_generated_total{ai_generated="true",difficulty="beginner",workout_type="legs"} 2
# HELP workoutgen_ai_fallbacks_total The total number of generations that fell back to the composer.
# TYPE workoutgen_ai_fallbacks_total counter
workoutgen_ai_fallbacks_total{reason="timeout"} 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"workoutgen_workout_programs_generated_total", "workoutgen_ai_fallbacks_total")
	if err != nil {
		t.Error(err)
	}
	n, err := testutil.GatherAndCount(reg, "workoutgen_ai_dropped_exercises_total")
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if n != 2 {
		t.Errorf("dropped exercise series = %d, want 2", n)
	}
}

func TestServe(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.NewMetrics(reg).AIFallback("unavailable")
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	ctx, cancel := context.WithCancel(t.Context())
	server, err := observability.Serve(ctx, "localhost:0", observability.Handler(reg, logger), logger)
	if err != nil {
		t.Fatalf("Serve() error = %v", err)
	}
	t.Cleanup(func() {
		cancel()
		select {
		case <-server.Done():
		case <-time.After(5 * time.Second):
			t.Error("metrics server did not shut down")
		}
	})

	tests := []struct {
		path string
		want string
	}{
		{path: "/metrics", want: `workoutgen_ai_fallbacks_total{reason="unavailable"} 1`},
		{path: "/healthy", want: `{"status":"ok"}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+server.Addr()+tt.path, nil)
			if err != nil {
				t.Fatalf("new request: %v", err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("GET %s: %v", tt.path, err)
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
			}
			if !strings.Contains(string(body), tt.want) {
				t.Errorf("body does not contain %q:\n%s", tt.want, body)
			}
		})
	}
}

func TestServe_invalidAddress(t *testing.T) {
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	handler := observability.Handler(prometheus.NewRegistry(), logger)
	if _, err := observability.Serve(t.Context(), "localhost:-1", handler, logger); err == nil {
		t.Error("Serve() accepted an invalid address")
	}
}
