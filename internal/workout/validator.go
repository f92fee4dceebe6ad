package workout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/stegangeorgiev/fitness-app/internal/catalog"
)

// weightQualifiers is ordered from lightest to heaviest. A tier may use the qualifiers up to one step past
// its own rank.
var weightQualifiers = []string{"light", "moderate", "moderate-heavy", "heavy"} //nolint:gochecknoglobals // read-only table

// modelReply is the JSON object the model is asked to produce.
type modelReply struct {
	SelectedExercises []modelExercise `json:"selectedExercises"`
	Reasoning         string          `json:"reasoning"`
	Tips              []string        `json:"tips"`
	EstimatedDuration lenientInt      `json:"estimatedDuration"`
}

type modelExercise struct {
	ExerciseName            string        `json:"exerciseName"`
	Sets                    lenientInt    `json:"sets"`
	Reps                    lenientString `json:"reps"`
	RestBetweenSets         lenientInt    `json:"restBetweenSets"`
	Weight                  string        `json:"weight"`
	Notes                   string        `json:"notes"`
	DifficultyJustification string        `json:"difficultyJustification"`
}

// lenientInt accepts numbers and numeric strings. Anything else decodes to zero, which the clamps repair.
type lenientInt int

func (n *lenientInt) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = lenientInt(math.Round(f))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		digits := strings.TrimSpace(s)
		if i := strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
			digits = digits[:i]
		}
		v, _ := strconv.Atoi(digits)
		*n = lenientInt(v)
		return nil
	}
	*n = 0
	return nil
}

// lenientString accepts strings and numbers, so that "reps": 10 survives.
type lenientString string

func (s *lenientString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = lenientString(str)
		return nil
	}
	*s = lenientString(strings.Trim(string(bytes.TrimSpace(data)), `"`))
	return nil
}

// droppedEntry records why a model pick was discarded.
type droppedEntry struct {
	Name   string
	Reason string
}

// extractJSON returns the span from the first '{' to the last '}' of a reply, so that prose or code fences
// around the object are ignored.
func extractJSON(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// validate turns a raw model reply into a program that obeys the same rules as a composed one.
// Picks that cannot be matched to an eligible exercise, are above the tier, or repeat an earlier pick are
// dropped and reported. Too few usable picks fail with [ErrAIMalformedResponse].
func validate(
	raw string, req Request, eligible []catalog.Exercise, now time.Time,
) (Response, []droppedEntry, error) {
	rules := tiers[req.Difficulty]

	object, ok := extractJSON(raw)
	if !ok {
		return Response{}, nil, fmt.Errorf("%w: no JSON object in reply", ErrAIMalformedResponse)
	}
	var reply modelReply
	if err := json.Unmarshal([]byte(object), &reply); err != nil {
		return Response{}, nil, fmt.Errorf("%w: %w", ErrAIMalformedResponse, err)
	}

	picks := reply.SelectedExercises
	if len(picks) < rules.minExercises {
		return Response{}, nil, fmt.Errorf("%w: %d exercises selected, %s requires at least %d",
			ErrAIMalformedResponse, len(picks), req.Difficulty, rules.minExercises)
	}
	if len(picks) > rules.maxExercises {
		picks = picks[:rules.maxExercises]
	}

	var (
		exercises []ProgramExercise
		dropped   []droppedEntry
	)
	for _, pick := range picks {
		ex, found := resolveExercise(eligible, pick.ExerciseName)
		switch {
		case !found:
			dropped = append(dropped, droppedEntry{Name: pick.ExerciseName, Reason: "not in eligible list"})
			continue
		case !req.Difficulty.Permits(ex.Difficulty):
			dropped = append(dropped, droppedEntry{Name: pick.ExerciseName, Reason: "above " + string(req.Difficulty)})
			continue
		case slices.ContainsFunc(exercises, func(pe ProgramExercise) bool { return pe.Exercise.ID == ex.ID }):
			dropped = append(dropped, droppedEntry{Name: pick.ExerciseName, Reason: "duplicate"})
			continue
		}
		exercises = append(exercises, repair(ex, pick, req.Difficulty, rules))
	}

	if len(exercises) < rules.minExercises {
		return Response{}, dropped, fmt.Errorf("%w: %d usable exercises after validation, %s requires at least %d",
			ErrAIMalformedResponse, len(exercises), req.Difficulty, rules.minExercises)
	}

	duration := int(reply.EstimatedDuration)
	if duration <= 0 {
		duration = req.DurationMinutes
	}
	program := Program{
		ID:              fmt.Sprintf("ai-workout-%s-%d", req.WorkoutType, now.UnixMilli()),
		Name:            fmt.Sprintf("AI %s Workout (%s)", req.WorkoutType.Name(), req.Difficulty),
		Type:            req.WorkoutType,
		Difficulty:      req.Difficulty,
		DurationMinutes: duration,
		Exercises:       exercises,
		Description: fmt.Sprintf("AI-generated %s level %s workout with %d exercises, "+
			"specifically designed for your fitness level and goals.", req.Difficulty, req.WorkoutType, len(exercises)),
		Benefits: []string{
			fmt.Sprintf("Perfectly tailored to %s fitness level", req.Difficulty),
			fmt.Sprintf("%d exercises meeting minimum %s requirements", len(exercises), req.Difficulty),
			fmt.Sprintf("AI-optimized for %s development", req.WorkoutType),
			"Scientifically-backed exercise selection and progression",
			"Expert form and safety guidance for your level",
		},
		AIGenerated: true,
	}

	reasoning := strings.TrimSpace(reply.Reasoning)
	if reasoning == "" {
		reasoning = fmt.Sprintf("AI selected %d appropriate exercises for %s level", len(exercises), req.Difficulty)
	}
	tips := slices.DeleteFunc(slices.Clone(reply.Tips), func(s string) bool { return strings.TrimSpace(s) == "" })
	if len(tips) == 0 {
		tips = []string{
			fmt.Sprintf("Focus on proper form - quality over quantity for %s level", req.Difficulty),
			"Progress gradually - don't rush to the next difficulty level",
			"Listen to your body and rest when needed",
		}
	}

	return Response{Program: program, Reasoning: reasoning, Tips: tips}, dropped, nil
}

// resolveExercise finds an eligible exercise by name, ignoring case and surrounding space.
func resolveExercise(eligible []catalog.Exercise, name string) (catalog.Exercise, bool) {
	name = strings.TrimSpace(name)
	for _, ex := range eligible {
		if strings.EqualFold(ex.Name, name) {
			return ex, true
		}
	}
	return catalog.Exercise{}, false
}

// repair clamps the model's prescription into the tier's ranges.
func repair(ex catalog.Exercise, pick modelExercise, tier catalog.Difficulty, rules tierRules) ProgramExercise {
	return ProgramExercise{
		Exercise:                ex,
		Sets:                    min(max(int(pick.Sets), rules.minSets), rules.maxSets),
		Reps:                    repairReps(ex, string(pick.Reps), rules),
		Weight:                  repairWeight(ex, pick.Weight, tier, rules),
		RestBetweenSets:         min(max(int(pick.RestBetweenSets), rules.minRest), rules.maxRest),
		Notes:                   strings.TrimSpace(pick.Notes),
		DifficultyJustification: strings.TrimSpace(pick.DifficultyJustification),
	}
}

// repairReps keeps reps that contain one of the tier's labels as a whole token, or equal the exercise's own
// timed label, and replaces everything else with the tier's first label.
func repairReps(ex catalog.Exercise, reps string, rules tierRules) string {
	reps = strings.TrimSpace(reps)
	if reps == "" {
		return rules.repLabels[0]
	}
	for _, token := range strings.FieldsFunc(reps, isNotRangeRune) {
		if slices.Contains(rules.repLabels, token) {
			return reps
		}
	}
	if timed, _, ok := timedPrescription(ex, rules); ok && strings.EqualFold(reps, timed) {
		return timed
	}
	return rules.repLabels[0]
}

// isNotRangeRune separates rep ranges such as "8-12" from the surrounding text.
func isNotRangeRune(r rune) bool {
	return r != '-' && !unicode.IsDigit(r)
}

func repairWeight(ex catalog.Exercise, weight string, tier catalog.Difficulty, rules tierRules) string {
	if ex.Bodyweight() {
		return "bodyweight"
	}
	weight = strings.ToLower(strings.TrimSpace(weight))
	if i := slices.Index(weightQualifiers, weight); i >= 0 && i <= tier.Rank()+1 {
		return weight
	}
	return rules.weight
}
