package workout

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stegangeorgiev/fitness-app/internal/catalog"
	"github.com/stegangeorgiev/fitness-app/internal/errors"
)

func validateFor(t *testing.T, req Request, raw string) (Response, []droppedEntry, error) {
	t.Helper()
	req = req.withDefaults()
	eligible, err := Eligible(defaultCatalog(t), req.WorkoutType, req.Difficulty)
	if err != nil {
		t.Fatalf("Eligible() error = %v", err)
	}
	return validate(raw, req, eligible, testNow)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{name: "bare object", raw: `{"a":1}`, want: `{"a":1}`, wantOK: true},
		{name: "fenced with prose", raw: "Sure!\n```json\n{\"a\":{\"b\":2}}\n```\nEnjoy", want: `{"a":{"b":2}}`, wantOK: true},
		{name: "no object", raw: "I cannot help with that.", wantOK: false},
		{name: "closing before opening", raw: "} {", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSON(tt.raw)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("extractJSON() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestValidate_dropsUnknownExercise(t *testing.T) {
	raw := `Here is your plan:
{
  "selectedExercises": [
    {"exerciseName": "squats", "sets": 3, "reps": "8-12", "restBetweenSets": 75, "weight": "bodyweight",
     "notes": "Sit back", "difficultyJustification": "Foundational"},
    {"exerciseName": "Lunges", "sets": 2, "reps": "8-10", "restBetweenSets": 60},
    {"exerciseName": "Jumping Jacks", "sets": 2, "reps": "20", "restBetweenSets": 60},
    {"exerciseName": " Calf Raises ", "sets": 2, "reps": "6-8", "restBetweenSets": 90}
  ],
  "reasoning": "Compound first.",
  "tips": ["Warm up"],
  "estimatedDuration": 25
}`
	resp, dropped, err := validateFor(t, Request{WorkoutType: TypeLegs, Difficulty: catalog.Beginner, DurationMinutes: 20}, raw)
	if err != nil {
		t.Fatalf("validate() error = %v", err)
	}
	if diff := cmp.Diff([]string{"squats", "lunges", "calf-raises"}, programIDs(resp.Program)); diff != "" {
		t.Errorf("exercises mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]droppedEntry{{Name: "Jumping Jacks", Reason: "not in eligible list"}}, dropped); diff != "" {
		t.Errorf("dropped mismatch (-want +got):\n%s", diff)
	}

	p := resp.Program
	if !p.AIGenerated {
		t.Error("program not marked as AI generated")
	}
	if p.ID != "ai-workout-legs-1741082400000" || p.Name != "AI Legs Workout (beginner)" {
		t.Errorf("ID = %q, Name = %q", p.ID, p.Name)
	}
	if p.DurationMinutes != 25 {
		t.Errorf("DurationMinutes = %d, want estimated 25", p.DurationMinutes)
	}
	if first := p.Exercises[0]; first.Notes != "Sit back" || first.DifficultyJustification != "Foundational" {
		t.Errorf("notes not propagated: %+v", first)
	}
	if resp.Reasoning != "Compound first." {
		t.Errorf("Reasoning = %q", resp.Reasoning)
	}
	if diff := cmp.Diff([]string{"Warm up"}, resp.Tips); diff != "" {
		t.Errorf("tips mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_rejects(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		raw  string
	}{
		{
			name: "no JSON",
			req:  Request{WorkoutType: TypeLegs, Difficulty: catalog.Beginner},
			raw:  "I'm sorry, I can't do that.",
		},
		{
			name: "broken JSON",
			req:  Request{WorkoutType: TypeLegs, Difficulty: catalog.Beginner},
			raw:  `{"selectedExercises": [}`,
		},
		{
			name: "too few picks",
			req:  Request{WorkoutType: TypeLegs, Difficulty: catalog.Beginner},
			raw:  `{"selectedExercises": [{"exerciseName": "Squats"}, {"exerciseName": "Lunges"}]}`,
		},
		{
			name: "too few survivors",
			req:  Request{WorkoutType: TypeLegs, Difficulty: catalog.Beginner},
			raw: `{"selectedExercises": [
				{"exerciseName": "Squats"}, {"exerciseName": "Deadlifts"}, {"exerciseName": "Burpees"}]}`,
		},
		{
			name: "duplicates do not count twice",
			req:  Request{WorkoutType: TypeCore, Difficulty: catalog.Beginner},
			raw: `{"selectedExercises": [
				{"exerciseName": "Plank"}, {"exerciseName": "plank"}, {"exerciseName": "Sit-ups"}]}`,
		},
		{
			name: "exercises above the tier",
			req:  Request{WorkoutType: TypeChest, Difficulty: catalog.Beginner},
			raw: `{"selectedExercises": [
				{"exerciseName": "Push-ups"}, {"exerciseName": "Bench Press"}, {"exerciseName": "Dumbbell Flyes"}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _, err := validateFor(t, tt.req, tt.raw)
			if !errors.Is(err, ErrAIMalformedResponse) {
				t.Fatalf("validate() error = %v, want %v", err, ErrAIMalformedResponse)
			}
			if resp.Program.AIGenerated {
				t.Error("rejected reply produced an AI generated program")
			}
		})
	}
}

func TestValidate_truncatesToMaximum(t *testing.T) {
	raw := `{"selectedExercises": [
		{"exerciseName": "Plank"}, {"exerciseName": "Sit-ups"}, {"exerciseName": "Dead Bug"},
		{"exerciseName": "Russian Twists"}, {"exerciseName": "Mountain Climbers"}, {"exerciseName": "Push-ups"}
	]}`
	resp, _, err := validateFor(t, Request{WorkoutType: TypeCore, Difficulty: catalog.Beginner}, raw)
	if err != nil {
		t.Fatalf("validate() error = %v", err)
	}
	want := []string{"plank", "sit-ups", "dead-bug", "russian-twists"}
	if diff := cmp.Diff(want, programIDs(resp.Program)); diff != "" {
		t.Errorf("exercises mismatch (-want +got):\n%s", diff)
	}
	if resp.Program.DurationMinutes != DefaultDurationMinutes {
		t.Errorf("DurationMinutes = %d, want request default", resp.Program.DurationMinutes)
	}
	if !strings.HasPrefix(resp.Reasoning, "AI selected 4 appropriate exercises") {
		t.Errorf("default reasoning = %q", resp.Reasoning)
	}
	if len(resp.Tips) != 3 {
		t.Errorf("default tips = %v", resp.Tips)
	}
}

func TestValidate_repairsPrescription(t *testing.T) {
	raw := `{"selectedExercises": [
		{"exerciseName": "Bicep Curls", "sets": 10, "reps": "5", "restBetweenSets": 5, "weight": "heavy"},
		{"exerciseName": "Push-ups", "sets": "1 set", "reps": "8-12 reps", "restBetweenSets": "120s", "weight": "heavy"},
		{"exerciseName": "Plank", "sets": 3, "reps": "20-30s hold", "restBetweenSets": 75},
		{"exerciseName": "Mountain Climbers", "sets": 2.6, "reps": 10, "restBetweenSets": 61, "weight": "moderate"}
	]}`
	resp, _, err := validateFor(t, Request{WorkoutType: TypeFullBody, Difficulty: catalog.Beginner}, raw)
	if err != nil {
		t.Fatalf("validate() error = %v", err)
	}

	type prescription struct {
		ID     string
		Sets   int
		Reps   string
		Rest   int
		Weight string
	}
	var got []prescription
	for _, pe := range resp.Program.Exercises {
		got = append(got, prescription{pe.Exercise.ID, pe.Sets, pe.Reps, pe.RestBetweenSets, pe.Weight})
	}
	want := []prescription{
		{ID: "bicep-curls", Sets: 3, Reps: "6-8", Rest: 60, Weight: "light"},
		{ID: "push-ups", Sets: 2, Reps: "8-12 reps", Rest: 90, Weight: "bodyweight"},
		{ID: "plank", Sets: 3, Reps: "20-30s hold", Rest: 75, Weight: "bodyweight"},
		{ID: "mountain-climbers", Sets: 3, Reps: "6-8", Rest: 61, Weight: "bodyweight"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("prescriptions mismatch (-want +got):\n%s", diff)
	}
}

func TestRepairWeight(t *testing.T) {
	curls := catalog.Exercise{ID: "bicep-curls", Equipment: []string{"dumbbells"}}
	tests := []struct {
		tier   catalog.Difficulty
		weight string
		want   string
	}{
		{catalog.Beginner, "Moderate", "moderate"},
		{catalog.Beginner, "moderate-heavy", "light"},
		{catalog.Intermediate, "moderate-heavy", "moderate-heavy"},
		{catalog.Intermediate, "heavy", "moderate"},
		{catalog.Advanced, "heavy", "heavy"},
		{catalog.Advanced, "bodyweight/light/moderate", "moderate-heavy"},
	}
	for _, tt := range tests {
		if got := repairWeight(curls, tt.weight, tt.tier, tiers[tt.tier]); got != tt.want {
			t.Errorf("repairWeight(%s, %q) = %q, want %q", tt.tier, tt.weight, got, tt.want)
		}
	}
}

func TestRepairReps(t *testing.T) {
	squats := catalog.Exercise{ID: "squats", Category: catalog.Strength}
	plank := catalog.Exercise{ID: plankID, Category: catalog.Strength}
	rules := tiers[catalog.Intermediate]

	tests := []struct {
		name string
		ex   catalog.Exercise
		reps string
		want string
	}{
		{"tier label", squats, "10-12", "10-12"},
		{"tier label with unit", squats, "12-15 reps", "12-15 reps"},
		{"label inside a larger range", squats, "110-120", "10-12"},
		{"label as prefix of a range", squats, "10-125", "10-12"},
		{"other tier label", squats, "6-8", "10-12"},
		{"empty", squats, "  ", "10-12"},
		{"timed label", plank, "30-45S HOLD", "30-45s hold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repairReps(tt.ex, tt.reps, rules); got != tt.want {
				t.Errorf("repairReps(%q) = %q, want %q", tt.reps, got, tt.want)
			}
		})
	}
}
