// Package catalog holds the immutable exercise catalog the workout engine selects from.
package catalog

import (
	"slices"
)

// Difficulty is the training tier of an exercise or of a requested workout.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Difficulties lists the tiers from easiest to hardest.
var Difficulties = []Difficulty{Beginner, Intermediate, Advanced} //nolint:gochecknoglobals // read-only table

// Rank orders the tiers, starting from 0 for beginner. Unknown tiers rank -1.
func (d Difficulty) Rank() int {
	return slices.Index(Difficulties, d)
}

// Valid reports whether d is a known tier.
func (d Difficulty) Valid() bool {
	return d.Rank() >= 0
}

// Permits reports whether an exercise of difficulty ex may be performed by a trainee at tier d.
// Beginners get beginner exercises only, intermediates get beginner and intermediate, advanced gets all.
func (d Difficulty) Permits(ex Difficulty) bool {
	return d.Valid() && ex.Valid() && ex.Rank() <= d.Rank()
}

// Category is the broad kind of movement.
type Category string

const (
	Strength    Category = "strength"
	Cardio      Category = "cardio"
	Flexibility Category = "flexibility"
	Sports      Category = "sports"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case Strength, Cardio, Flexibility, Sports:
		return true
	default:
		return false
	}
}

// Instructions is coaching text shown to the trainee. The engine never interprets it.
type Instructions struct {
	Setup          []string `json:"setup"          yaml:"setup"`
	Execution      []string `json:"execution"      yaml:"execution"`
	Tips           []string `json:"tips"           yaml:"tips"`
	CommonMistakes []string `json:"commonMistakes" yaml:"common_mistakes"`
}

// Exercise is a single catalog record.
type Exercise struct {
	ID       string     `json:"id"       yaml:"id"`
	Name     string     `json:"name"     yaml:"name"`
	Category Category   `json:"category" yaml:"category"`
	// MuscleGroups are coarse tags such as chest or quadriceps.
	MuscleGroups []string `json:"muscleGroups" yaml:"muscle_groups"`
	// PrimaryMuscles and SecondaryMuscles use anatomical names.
	PrimaryMuscles   []string   `json:"primaryMuscles"   yaml:"primary_muscles"`
	SecondaryMuscles []string   `json:"secondaryMuscles" yaml:"secondary_muscles"`
	Difficulty       Difficulty `json:"difficulty"       yaml:"difficulty"`
	// Equipment is empty for bodyweight exercises.
	Equipment []string `json:"equipment" yaml:"equipment"`
	// EstimatedDuration is seconds per repetition or hold.
	EstimatedDuration int `json:"estimatedDuration" yaml:"estimated_duration"`
	// RestTime is the recommended rest in seconds.
	RestTime     int          `json:"restTime"     yaml:"rest_time"`
	Instructions Instructions `json:"instructions" yaml:"instructions"`
}

// Bodyweight reports whether the exercise needs no equipment.
func (e Exercise) Bodyweight() bool {
	return len(e.Equipment) == 0
}

// HasMuscleGroup reports whether group is one of the exercise's muscle group tags.
func (e Exercise) HasMuscleGroup(group string) bool {
	return slices.Contains(e.MuscleGroups, group)
}

func (e Exercise) clone() Exercise {
	c := e
	c.MuscleGroups = slices.Clone(e.MuscleGroups)
	c.PrimaryMuscles = slices.Clone(e.PrimaryMuscles)
	c.SecondaryMuscles = slices.Clone(e.SecondaryMuscles)
	c.Equipment = slices.Clone(e.Equipment)
	c.Instructions = Instructions{
		Setup:          slices.Clone(e.Instructions.Setup),
		Execution:      slices.Clone(e.Instructions.Execution),
		Tips:           slices.Clone(e.Instructions.Tips),
		CommonMistakes: slices.Clone(e.Instructions.CommonMistakes),
	}
	return c
}
