// Package observability exposes workout generation metrics to Prometheus.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stegangeorgiev/fitness-app/internal/catalog"
	"github.com/stegangeorgiev/fitness-app/internal/workout"
)

const namespace = "workoutgen"

// Metrics records generation outcomes. It implements [workout.MetricsRecorder].
type Metrics struct {
	programsGenerated *prometheus.CounterVec
	aiFallbacks       *prometheus.CounterVec
	droppedExercises  *prometheus.CounterVec
}

// NewMetrics registers the generation metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		programsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workout",
			Name:      "programs_generated_total",
			Help:      "The total number of generated workout programs.",
		}, []string{"workout_type", "difficulty", "ai_generated"}),
		aiFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ai",
			Name:      "fallbacks_total",
			Help:      "The total number of generations that fell back to the composer.",
		}, []string{"reason"}),
		droppedExercises: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ai",
			Name:      "dropped_exercises_total",
			Help:      "The total number of exercises removed from model replies.",
		}, []string{"reason"}),
	}
}

func (m *Metrics) ProgramGenerated(t workout.Type, d catalog.Difficulty, aiGenerated bool) {
	m.programsGenerated.WithLabelValues(string(t), string(d), strconv.FormatBool(aiGenerated)).Inc()
}

func (m *Metrics) AIFallback(reason string) {
	m.aiFallbacks.WithLabelValues(reason).Inc()
}

func (m *Metrics) ExerciseDropped(reason string) {
	m.droppedExercises.WithLabelValues(reason).Inc()
}
