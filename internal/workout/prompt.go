package workout

import (
	"fmt"
	"strings"

	"github.com/stegangeorgiev/fitness-app/internal/catalog"
)

// buildPrompt writes the instruction sent to the model. It lists the eligible exercises, the tier
// requirements, the previous selection to steer away from, and the exact JSON shape of the answer.
func buildPrompt(req Request, eligible []catalog.Exercise, previous []string) string {
	rules := tiers[req.Difficulty]
	level := strings.ToUpper(string(req.Difficulty))

	injuries := "None specified"
	if len(req.Injuries) > 0 {
		injuries = strings.Join(req.Injuries, ", ")
	}

	var b strings.Builder
	b.WriteString("You are an expert personal trainer and exercise physiologist. ")
	b.WriteString("Create a personalized workout program with STRICT adherence to fitness level requirements.\n\n")

	b.WriteString("**WORKOUT REQUIREMENTS:**\n")
	fmt.Fprintf(&b, "- Workout Type: %s (%s)\n", req.WorkoutType.Name(), req.WorkoutType.Description())
	fmt.Fprintf(&b, "- Difficulty Level: %s\n", level)
	fmt.Fprintf(&b, "- Duration: %d minutes\n", req.DurationMinutes)
	fmt.Fprintf(&b, "- User Goals: %s\n", req.UserGoals)
	fmt.Fprintf(&b, "- Available Equipment: %s\n", strings.Join(req.Equipment, ", "))
	fmt.Fprintf(&b, "- Injuries/Limitations: %s\n", injuries)
	fmt.Fprintf(&b, "- Experience Level: %s\n\n", req.Experience)

	fmt.Fprintf(&b, "**%s LEVEL REQUIREMENTS:**\n", level)
	fmt.Fprintf(&b, "- Minimum Exercises: %d\n", rules.minExercises)
	fmt.Fprintf(&b, "- Maximum Exercises: %d\n", rules.maxExercises)
	fmt.Fprintf(&b, "- Recommended Sets: %s\n", rules.promptSets)
	fmt.Fprintf(&b, "- Recommended Reps: %s\n", rules.promptReps)
	fmt.Fprintf(&b, "- Focus: %s\n\n", rules.promptFocus)

	fmt.Fprintf(&b, "**AVAILABLE EXERCISES (FILTERED FOR %s LEVEL):**\n", level)
	for _, ex := range eligible {
		equipment := "bodyweight"
		if !ex.Bodyweight() {
			equipment = strings.Join(ex.Equipment, ", ")
		}
		fmt.Fprintf(&b, "- %s: %s (%s, %s)\n", ex.Name, strings.Join(ex.MuscleGroups, ", "), ex.Difficulty, equipment)
	}

	if len(previous) > 0 {
		b.WriteString("\n**EXERCISE VARIETY REQUIREMENT:**\n")
		fmt.Fprintf(&b, "To ensure workout variety, try to select AT LEAST 2-3 DIFFERENT exercises from the previous "+
			"workout. Previous exercises were: %s. Change at least 50-70%% of exercises for optimal training variety.\n",
			strings.Join(previous, ", "))
	}

	b.WriteString("\n**CRITICAL INSTRUCTIONS:**\n")
	fmt.Fprintf(&b, "1. SELECT EXACTLY %d-%d exercises from the provided list\n", rules.minExercises, rules.maxExercises)
	fmt.Fprintf(&b, "2. ALL selected exercises MUST be appropriate for %s level\n", req.Difficulty)
	b.WriteString("3. NO exercises above the user's difficulty level\n")
	b.WriteString("4. Ensure proper exercise progression and muscle balance\n")
	b.WriteString("5. Consider the specified duration when planning rest periods\n")
	b.WriteString("6. Provide specific reasoning for each exercise selection\n")
	b.WriteString("7. Include safety considerations for the fitness level\n")
	b.WriteString("8. PRIORITIZE EXERCISE VARIETY - change at least 2-3 exercises from previous workouts\n\n")

	b.WriteString("**RESPONSE FORMAT (JSON ONLY):**\n")
	fmt.Fprintf(&b, `{
  "selectedExercises": [
    {
      "exerciseName": "Exercise Name (MUST match exactly from available list)",
      "sets": %d,
      "reps": "%s",
      "restBetweenSets": %d,
      "weight": "bodyweight/light/moderate",
      "notes": "%[4]s specific form cues and safety tips",
      "difficultyJustification": "Why this exercise is appropriate for %[4]s level"
    }
  ],
  "reasoning": "Explain why you selected these specific exercises for a %[4]s trainee and how they meet the minimum requirements",
  "tips": [
    "%[4]s-specific form tip",
    "%[4]s-specific progression advice",
    "%[4]s-specific safety consideration"
  ],
  "estimatedDuration": %[5]d
}
`, rules.minSets, rules.repLabels[0], rules.rest, req.Difficulty, req.DurationMinutes)

	fmt.Fprintf(&b, "\nCRITICAL: Respond ONLY with valid JSON. Ensure ALL exercises are appropriate for %s level "+
		"and meet the minimum count requirement.", req.Difficulty)
	return b.String()
}
