package workout

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stegangeorgiev/fitness-app/internal/catalog"
)

var testNow = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // test fixture

func composeFor(t *testing.T, req Request, previous []string) Response {
	t.Helper()
	req = req.withDefaults()
	eligible, err := Eligible(defaultCatalog(t), req.WorkoutType, req.Difficulty)
	if err != nil {
		t.Fatalf("Eligible() error = %v", err)
	}
	return compose(eligible, req, previous, testNow)
}

func TestTargetCount(t *testing.T) {
	tests := []struct {
		tier     catalog.Difficulty
		duration int
		eligible int
		want     int
	}{
		{catalog.Beginner, 10, 20, 3},
		{catalog.Beginner, 20, 20, 4},
		{catalog.Beginner, 60, 20, 4},
		{catalog.Intermediate, 10, 20, 4},
		{catalog.Intermediate, 30, 20, 5},
		{catalog.Intermediate, 45, 20, 6},
		{catalog.Intermediate, 90, 20, 6},
		{catalog.Advanced, 15, 20, 5},
		{catalog.Advanced, 45, 20, 6},
		{catalog.Advanced, 51, 20, 7},
		{catalog.Advanced, 51, 4, 4},
	}
	for _, tt := range tests {
		if got := targetCount(tiers[tt.tier], tt.duration, tt.eligible); got != tt.want {
			t.Errorf("targetCount(%s, %d min, %d eligible) = %d, want %d",
				tt.tier, tt.duration, tt.eligible, got, tt.want)
		}
	}
}

func TestCompose_legsBeginner(t *testing.T) {
	resp := composeFor(t, Request{WorkoutType: TypeLegs, Difficulty: catalog.Beginner, DurationMinutes: 20}, nil)

	// Three compound movements (70% of four, rounded up) before the isolation slot.
	want := []string{"squats", "lunges", "wall-sit", "calf-raises"}
	if diff := cmp.Diff(want, programIDs(resp.Program)); diff != "" {
		t.Fatalf("exercises mismatch (-want +got):\n%s", diff)
	}
	for _, pe := range resp.Program.Exercises {
		if pe.Sets != 2 || pe.Reps != "8-10" || pe.RestBetweenSets != 75 || pe.Weight != "bodyweight" {
			t.Errorf("%s prescription = %d x %s, rest %d, %s", pe.Exercise.ID, pe.Sets, pe.Reps, pe.RestBetweenSets, pe.Weight)
		}
	}

	p := resp.Program
	if p.AIGenerated {
		t.Error("composed program marked as AI generated")
	}
	if p.ID != "smart-legs-beginner-1741082400000" {
		t.Errorf("ID = %q", p.ID)
	}
	if p.Name != "Smart Legs Workout (beginner)" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.DurationMinutes != 20 {
		t.Errorf("DurationMinutes = %d, want 20", p.DurationMinutes)
	}
	if diff := cmp.Diff(tiers[catalog.Beginner].tips, resp.Tips); diff != "" {
		t.Errorf("tips mismatch (-want +got):\n%s", diff)
	}
}

func TestCompose_coreAdvancedOverrides(t *testing.T) {
	resp := composeFor(t, Request{WorkoutType: TypeCore, Difficulty: catalog.Advanced, DurationMinutes: 45}, nil)

	type prescription struct {
		ID   string
		Reps string
		Rest int
		Sets int
	}
	var got []prescription
	for _, pe := range resp.Program.Exercises {
		if !TypeCore.Matches(pe.Exercise) {
			t.Errorf("%s is not a core exercise", pe.Exercise.ID)
		}
		got = append(got, prescription{ID: pe.Exercise.ID, Reps: pe.Reps, Rest: pe.RestBetweenSets, Sets: pe.Sets})
	}
	want := []prescription{
		{ID: "plank", Reps: "45-60s hold", Rest: 45, Sets: 4},
		{ID: "mountain-climbers", Reps: "45s", Rest: 30, Sets: 4},
		{ID: "sit-ups", Reps: "12-15", Rest: 45, Sets: 4},
		{ID: "russian-twists", Reps: "12-15", Rest: 45, Sets: 4},
		{ID: "dead-bug", Reps: "12-15", Rest: 45, Sets: 4},
		{ID: "bicycle-crunches", Reps: "12-15", Rest: 45, Sets: 4},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("prescriptions mismatch (-want +got):\n%s", diff)
	}
}

func TestCompose_weightQualifier(t *testing.T) {
	tests := []struct {
		tier catalog.Difficulty
		want string
	}{
		{catalog.Beginner, "light"},
		{catalog.Intermediate, "moderate"},
		{catalog.Advanced, "moderate-heavy"},
	}
	for _, tt := range tests {
		resp := composeFor(t, Request{WorkoutType: TypeChest, Difficulty: tt.tier, DurationMinutes: 30}, nil)
		for _, pe := range resp.Program.Exercises {
			want := tt.want
			if pe.Exercise.Bodyweight() {
				want = "bodyweight"
			}
			if pe.Weight != want {
				t.Errorf("%s %s weight = %q, want %q", tt.tier, pe.Exercise.ID, pe.Weight, want)
			}
		}
	}
}

func TestCompose_lengthWithinBounds(t *testing.T) {
	c := defaultCatalog(t)
	for _, wt := range Types {
		for _, d := range catalog.Difficulties {
			for _, duration := range []int{10, 20, 30, 45, 90} {
				req := Request{WorkoutType: wt, Difficulty: d, DurationMinutes: duration}.withDefaults()
				eligible, err := Eligible(c, wt, d)
				if err != nil {
					t.Fatalf("Eligible() error = %v", err)
				}
				n := len(compose(eligible, req, nil, testNow).Program.Exercises)
				upper := min(MaxExercises(d), len(eligible))
				lower := min(MinExercises(d), len(eligible))
				if n < lower || n > upper {
					t.Errorf("%s/%s/%d min: %d exercises, want between %d and %d", wt, d, duration, n, lower, upper)
				}
			}
		}
	}
}

func TestCompose_isDeterministic(t *testing.T) {
	req := Request{WorkoutType: TypeFullBody, Difficulty: catalog.Intermediate, DurationMinutes: 40}
	first := composeFor(t, req, nil)
	second := composeFor(t, req, nil)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("compose() differs between identical calls (-first +second):\n%s", diff)
	}
}

func TestCompose_variety(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		previous []string
		want     []string
	}{
		{
			name:     "legs prefer unseen compound movements before repeating",
			req:      Request{WorkoutType: TypeLegs, Difficulty: catalog.Beginner, DurationMinutes: 20},
			previous: []string{"Squats", "Lunges", "Wall Sit", "Calf Raises"},
			want:     []string{"step-ups", "squats", "lunges", "calf-raises"},
		},
		{
			name:     "core takes fresh exercises first then repeats in catalog order",
			req:      Request{WorkoutType: TypeCore, Difficulty: catalog.Beginner, DurationMinutes: 30},
			previous: []string{"Plank", "Mountain Climbers", "Sit-ups", "Russian Twists"},
			want:     []string{"dead-bug", "plank", "mountain-climbers", "sit-ups"},
		},
		{
			name:     "enough fresh exercises",
			req:      Request{WorkoutType: TypeFullBody, Difficulty: catalog.Beginner, DurationMinutes: 15},
			previous: []string{"Push-ups", "Squats", "Lunges"},
			want:     []string{"calf-raises", "wall-sit", "step-ups"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := composeFor(t, tt.req, tt.previous)
			if diff := cmp.Diff(tt.want, programIDs(resp.Program)); diff != "" {
				t.Errorf("exercises mismatch (-want +got):\n%s", diff)
			}
			if !strings.Contains(resp.Reasoning, "new exercises for variety") {
				t.Errorf("reasoning does not mention variety: %q", resp.Reasoning)
			}
		})
	}
}
