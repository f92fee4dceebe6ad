package workout

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/stegangeorgiev/fitness-app/internal/catalog"
)

// Exercise ids with their own prescription.
const plankID = "plank"

// durationBuckets maps a workout length to the number of exercises it fits.
var durationBuckets = []struct { //nolint:gochecknoglobals // read-only table
	maxMinutes int
	exercises  int
}{
	{maxMinutes: 15, exercises: 3},
	{maxMinutes: 25, exercises: 4},
	{maxMinutes: 35, exercises: 5},
	{maxMinutes: 50, exercises: 6},
}

const longWorkoutExercises = 7

// targetCount decides how many exercises a composed program gets.
func targetCount(rules tierRules, durationMinutes, eligible int) int {
	n := longWorkoutExercises
	for _, b := range durationBuckets {
		if durationMinutes <= b.maxMinutes {
			n = b.exercises
			break
		}
	}
	n = max(n, rules.minExercises)
	n = min(n, rules.maxExercises)
	return min(n, eligible)
}

// compose builds a program without the model. It is deterministic: the same eligible list, request and
// previous selection always produce the same program apart from the timestamp in the id.
func compose(eligible []catalog.Exercise, req Request, previous []string, now time.Time) Response {
	rules := tiers[req.Difficulty]
	target := targetCount(rules, req.DurationMinutes, len(eligible))

	var selected []catalog.Exercise
	if req.WorkoutType == TypeLegs {
		selected = selectLegs(eligible, target, previous)
	} else {
		selected = preferFresh(eligible, target, previous)
	}
	selected = fillInCatalogOrder(selected, eligible, target)

	exercises := make([]ProgramExercise, len(selected))
	for i, ex := range selected {
		exercises[i] = prescribe(ex, rules)
	}

	program := Program{
		ID:              fmt.Sprintf("smart-%s-%s-%d", req.WorkoutType, req.Difficulty, now.UnixMilli()),
		Name:            fmt.Sprintf("Smart %s Workout (%s)", req.WorkoutType.Name(), req.Difficulty),
		Type:            req.WorkoutType,
		Difficulty:      req.Difficulty,
		DurationMinutes: req.DurationMinutes,
		Exercises:       exercises,
		Description: fmt.Sprintf(
			"Algorithmically-generated %s level %s workout designed to %s. "+
				"Uses intelligent exercise selection and progression.",
			req.Difficulty, strings.ToLower(req.WorkoutType.Name()), strings.ToLower(req.WorkoutType.Description())),
		Benefits:    composedBenefits(req),
		AIGenerated: false,
	}

	reasoning := fmt.Sprintf("Smart algorithm selected %d exercises specifically for %s level %s training. "+
		"The program follows exercise science principles with %d sets of %s reps, "+
		"optimized for your fitness level and goals.",
		len(selected), req.Difficulty, req.WorkoutType, rules.sets, rules.reps)
	if len(previous) > 0 {
		reasoning += " This workout includes new exercises for variety compared to your previous session."
	}

	return Response{
		Program:   program,
		Reasoning: reasoning,
		Tips:      slices.Clone(rules.tips),
	}
}

func composedBenefits(req Request) []string {
	target := strings.ToLower(req.WorkoutType.Name())
	if req.WorkoutType == TypeFullBody {
		target = "all major muscle groups"
	}
	return []string{
		"Targets " + target,
		fmt.Sprintf("Optimized for %s fitness level", req.Difficulty),
		fmt.Sprintf("Estimated %d minute duration", req.DurationMinutes),
		"Progressive difficulty scaling",
		"Proper rest intervals included",
		"Intelligent exercise selection algorithm",
	}
}

// isCompoundLegMovement reports whether a leg exercise trains both quadriceps and glutes.
func isCompoundLegMovement(ex catalog.Exercise) bool {
	return ex.HasMuscleGroup("quadriceps") && ex.HasMuscleGroup("glutes")
}

// selectLegs reserves roughly 70% of the slots for compound movements and the rest for isolation work.
func selectLegs(eligible []catalog.Exercise, target int, previous []string) []catalog.Exercise {
	var compound, isolation []catalog.Exercise
	for _, ex := range eligible {
		if isCompoundLegMovement(ex) {
			compound = append(compound, ex)
		} else {
			isolation = append(isolation, ex)
		}
	}

	compoundCount := int(math.Ceil(float64(target) * CompoundShare))
	isolationCount := target - compoundCount

	selected := preferFresh(compound, compoundCount, previous)
	return append(selected, preferFresh(isolation, isolationCount, previous)...)
}

// preferFresh picks up to n exercises, taking those missing from the previous selection first.
func preferFresh(candidates []catalog.Exercise, n int, previous []string) []catalog.Exercise {
	if n <= 0 {
		return nil
	}
	var fresh, seen []catalog.Exercise
	for _, ex := range candidates {
		if slices.Contains(previous, ex.Name) {
			seen = append(seen, ex)
		} else {
			fresh = append(fresh, ex)
		}
	}
	ordered := append(fresh, seen...)
	return ordered[:min(n, len(ordered))]
}

// fillInCatalogOrder tops up selected with unused eligible exercises until it holds target exercises.
func fillInCatalogOrder(selected, eligible []catalog.Exercise, target int) []catalog.Exercise {
	for _, ex := range eligible {
		if len(selected) >= target {
			break
		}
		if !containsExercise(selected, ex.ID) {
			selected = append(selected, ex)
		}
	}
	return selected
}

// prescribe assigns sets, reps, rest and weight for an exercise at the given tier.
func prescribe(ex catalog.Exercise, rules tierRules) ProgramExercise {
	pe := ProgramExercise{
		Exercise:                ex,
		Sets:                    rules.sets,
		Reps:                    rules.reps,
		Weight:                  defaultWeight(ex, rules),
		RestBetweenSets:         rules.rest,
		Notes:                   "",
		DifficultyJustification: "",
	}
	if reps, rest, ok := timedPrescription(ex, rules); ok {
		pe.Reps = reps
		pe.RestBetweenSets = rest
	}
	return pe
}

// timedPrescription returns the time based reps and rest of cardio exercises and the plank hold.
func timedPrescription(ex catalog.Exercise, rules tierRules) (string, int, bool) {
	switch {
	case ex.Category == catalog.Cardio:
		return rules.cardioReps, rules.cardioRest, true
	case ex.ID == plankID:
		return rules.holdReps, rules.holdRest, true
	default:
		return "", 0, false
	}
}

func defaultWeight(ex catalog.Exercise, rules tierRules) string {
	if ex.Bodyweight() {
		return "bodyweight"
	}
	return rules.weight
}
