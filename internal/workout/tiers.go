package workout

import (
	"github.com/stegangeorgiev/fitness-app/internal/catalog"
)

// Rules per difficulty tier.
const (
	// Minimum number of eligible exercises before backfill kicks in, also the AI minimum.
	BeginnerMinExercises     = 3
	IntermediateMinExercises = 4
	AdvancedMinExercises     = 5

	// Fraction of a leg workout reserved for compound movements, rounded up.
	CompoundShare = 0.7

	// Size of the last-resort selection when nothing matches the workout type.
	GlobalFallbackSize = 3
)

// tierRules holds everything the composer and the validator need to know about a tier.
type tierRules struct {
	minExercises int
	maxExercises int

	// Composer defaults.
	sets   int
	reps   string
	rest   int
	weight string

	// Cardio and plank overrides.
	cardioReps string
	cardioRest int
	holdReps   string
	holdRest   int

	// Accepted ranges when repairing a model reply.
	minSets, maxSets int
	minRest, maxRest int
	repLabels        []string

	// Guidance written into the model prompt.
	promptSets  string
	promptReps  string
	promptFocus string

	tips []string
}

var tiers = map[catalog.Difficulty]tierRules{ //nolint:gochecknoglobals // read-only table
	catalog.Beginner: {
		minExercises: BeginnerMinExercises,
		maxExercises: 4,
		sets:         2,
		reps:         "8-10",
		rest:         75,
		weight:       "light",
		cardioReps:   "20s",
		cardioRest:   45,
		holdReps:     "20-30s hold",
		holdRest:     60,
		minSets:      2,
		maxSets:      3,
		minRest:      60,
		maxRest:      90,
		repLabels:    []string{"6-8", "8-10", "8-12"},
		promptSets:   "2-3 sets",
		promptReps:   "8-12 reps",
		promptFocus:  "basic movements, proper form, building foundation",
		tips: []string{
			"Focus on learning proper form before increasing intensity",
			"Take longer rest periods (60-90 seconds) between sets",
			"Start with bodyweight or light weights",
			"Progress gradually - consistency is more important than intensity",
		},
	},
	catalog.Intermediate: {
		minExercises: IntermediateMinExercises,
		maxExercises: 6,
		sets:         3,
		reps:         "10-12",
		rest:         60,
		weight:       "moderate",
		cardioReps:   "30s",
		cardioRest:   30,
		holdReps:     "30-45s hold",
		holdRest:     45,
		minSets:      3,
		maxSets:      4,
		minRest:      45,
		maxRest:      75,
		repLabels:    []string{"10-12", "10-15", "12-15"},
		promptSets:   "3-4 sets",
		promptReps:   "10-15 reps",
		promptFocus:  "progressive overload, compound movements, increased volume",
		tips: []string{
			"Focus on progressive overload - gradually increase weight or reps",
			"Maintain proper form even as intensity increases",
			"Rest 45-75 seconds between sets for optimal recovery",
			"Challenge yourself while listening to your body",
		},
	},
	catalog.Advanced: {
		minExercises: AdvancedMinExercises,
		maxExercises: 8,
		sets:         4,
		reps:         "12-15",
		rest:         45,
		weight:       "moderate-heavy",
		cardioReps:   "45s",
		cardioRest:   30,
		holdReps:     "45-60s hold",
		holdRest:     45,
		minSets:      3,
		maxSets:      5,
		minRest:      30,
		maxRest:      60,
		repLabels:    []string{"12-15", "15-20", "12-20"},
		promptSets:   "4-5 sets",
		promptReps:   "12-20 reps or advanced techniques",
		promptFocus:  "complex movements, high intensity, advanced techniques",
		tips: []string{
			"Utilize advanced training techniques like supersets or drop sets",
			"Shorter rest periods (30-60 seconds) for increased intensity",
			"Focus on mind-muscle connection and movement quality",
			"Progressive overload through increased volume or intensity",
		},
	},
}

// rulesFor returns the rules of a tier and whether the tier is known.
func rulesFor(d catalog.Difficulty) (tierRules, bool) {
	r, ok := tiers[d]
	return r, ok
}

// MinExercises returns the smallest acceptable program size for a tier.
func MinExercises(d catalog.Difficulty) int {
	return tiers[d].minExercises
}

// MaxExercises returns the largest acceptable program size for a tier.
func MaxExercises(d catalog.Difficulty) int {
	return tiers[d].maxExercises
}
