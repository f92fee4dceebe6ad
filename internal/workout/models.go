package workout

import (
	"strings"

	"github.com/stegangeorgiev/fitness-app/internal/catalog"
)

// Request defaults.
const (
	DefaultDurationMinutes = 30
	DefaultUserGoals       = "General fitness improvement"
	DefaultEquipment       = "bodyweight"
)

// Request describes the workout the caller wants.
type Request struct {
	WorkoutType     Type               `json:"workoutType"`
	Difficulty      catalog.Difficulty `json:"difficulty"`
	DurationMinutes int                `json:"duration"`
	UserGoals       string             `json:"userGoals,omitempty"`
	Equipment       []string           `json:"equipment,omitempty"`
	Injuries        []string           `json:"injuries,omitempty"`
	// Experience is free text such as "two years of lifting". Defaults to the difficulty.
	Experience string `json:"experience,omitempty"`
}

// withDefaults fills every optional field that was left empty.
func (r Request) withDefaults() Request {
	if r.Difficulty == "" {
		r.Difficulty = catalog.Beginner
	}
	if r.DurationMinutes <= 0 {
		r.DurationMinutes = DefaultDurationMinutes
	}
	if strings.TrimSpace(r.UserGoals) == "" {
		r.UserGoals = DefaultUserGoals
	}
	if len(r.Equipment) == 0 {
		r.Equipment = []string{DefaultEquipment}
	}
	if r.Injuries == nil {
		r.Injuries = []string{}
	}
	if strings.TrimSpace(r.Experience) == "" {
		r.Experience = string(r.Difficulty)
	}
	return r
}

// ProgramExercise is one exercise of a program together with its prescription.
type ProgramExercise struct {
	Exercise catalog.Exercise `json:"exercise"`
	Sets     int              `json:"sets"`
	// Reps is a label such as "8-10", "30s" or "20-30s hold".
	Reps   string `json:"reps"`
	Weight string `json:"weight"`
	// RestBetweenSets is in seconds.
	RestBetweenSets int `json:"restBetweenSets"`
	// Notes and DifficultyJustification are only filled by the model.
	Notes                   string `json:"notes,omitempty"`
	DifficultyJustification string `json:"difficultyJustification,omitempty"`
}

// Program is a complete workout ready to be performed.
type Program struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Type            Type               `json:"type"`
	Difficulty      catalog.Difficulty `json:"difficulty"`
	DurationMinutes int                `json:"duration"`
	Exercises       []ProgramExercise  `json:"exercises"`
	Description     string             `json:"description"`
	Benefits        []string           `json:"benefits"`
	// AIGenerated is true when the exercise list came from a validated model reply.
	AIGenerated bool `json:"aiGenerated"`
}

// ExerciseNames returns the names of the program's exercises in order.
func (p Program) ExerciseNames() []string {
	names := make([]string, len(p.Exercises))
	for i, pe := range p.Exercises {
		names[i] = pe.Exercise.Name
	}
	return names
}

// Response is what a generation hands back to the caller.
type Response struct {
	Program   Program  `json:"program"`
	Reasoning string   `json:"reasoning"`
	Tips      []string `json:"tips"`
}
