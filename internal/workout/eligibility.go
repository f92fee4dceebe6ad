package workout

import (
	"fmt"

	"github.com/stegangeorgiev/fitness-app/internal/catalog"
)

// Eligible returns the catalog exercises suitable for a workout of type t at tier d.
//
// Exercises must match the type and be permitted for the tier. When that leaves fewer than the tier minimum,
// the shortfall is borrowed from the same type: beginners borrow intermediate exercises, intermediate and
// advanced trainees borrow beginner exercises. Borrowed exercises are appended after the primary matches,
// both in catalog order. If that still leaves nothing, because no exercise matches the type or every match
// is above the tier with nothing to borrow, the first beginner exercises of the catalog are returned instead.
//
// An unknown type or tier is an error, and so is a catalog that cannot provide even the fallback.
func Eligible(c *catalog.Catalog, t Type, d catalog.Difficulty) ([]catalog.Exercise, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWorkoutType, t)
	}
	rules, ok := rulesFor(d)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDifficulty, d)
	}

	var typeMatches []catalog.Exercise
	for _, ex := range c.All() {
		if t.Matches(ex) {
			typeMatches = append(typeMatches, ex)
		}
	}

	var eligible []catalog.Exercise
	for _, ex := range typeMatches {
		if d.Permits(ex.Difficulty) {
			eligible = append(eligible, ex)
		}
	}
	if len(eligible) >= rules.minExercises {
		return eligible, nil
	}

	borrowFrom := catalog.Beginner
	if d == catalog.Beginner {
		borrowFrom = catalog.Intermediate
	}
	for _, ex := range typeMatches {
		if len(eligible) >= rules.minExercises {
			break
		}
		if ex.Difficulty == borrowFrom && !containsExercise(eligible, ex.ID) {
			eligible = append(eligible, ex)
		}
	}
	if len(eligible) > 0 {
		return eligible, nil
	}

	fallback := globalFallback(c)
	if len(fallback) == 0 {
		return nil, fmt.Errorf("%w: no %s %s exercise and no beginner exercise in catalog", ErrNoEligibleExercises, d, t)
	}
	return fallback, nil
}

// globalFallback picks the first beginner exercises of the whole catalog.
func globalFallback(c *catalog.Catalog) []catalog.Exercise {
	var out []catalog.Exercise
	for _, ex := range c.All() {
		if len(out) == GlobalFallbackSize {
			break
		}
		if ex.Difficulty == catalog.Beginner {
			out = append(out, ex)
		}
	}
	return out
}

// containsExercise checks if an exercise id is already in the list.
func containsExercise(exercises []catalog.Exercise, id string) bool {
	for _, ex := range exercises {
		if ex.ID == id {
			return true
		}
	}
	return false
}
