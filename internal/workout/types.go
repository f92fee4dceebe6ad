package workout

import (
	"strings"

	"github.com/stegangeorgiev/fitness-app/internal/catalog"
)

// Type is the muscle focus of a generated workout.
type Type string

const (
	TypeFullBody  Type = "full-body"
	TypeChest     Type = "chest"
	TypeBack      Type = "back"
	TypeLegs      Type = "legs"
	TypeCore      Type = "core"
	TypeArms      Type = "arms"
	TypeShoulders Type = "shoulders"
)

// Types lists every workout type in display order.
var Types = []Type{TypeFullBody, TypeChest, TypeBack, TypeLegs, TypeCore, TypeArms, TypeShoulders} //nolint:gochecknoglobals,lll // read-only table

type typeInfo struct {
	name        string
	description string
	matches     func(ex catalog.Exercise) bool
}

var typeTable = map[Type]typeInfo{ //nolint:gochecknoglobals // read-only table
	TypeFullBody: {
		name:        "Full Body",
		description: "Complete workout targeting all major muscle groups",
		matches:     func(catalog.Exercise) bool { return true },
	},
	TypeChest: {
		name:        "Chest",
		description: "Focus on chest muscles and supporting muscle groups",
		matches: func(ex catalog.Exercise) bool {
			return ex.HasMuscleGroup("chest") || primaryContains(ex, "pectoral")
		},
	},
	TypeBack: {
		name:        "Back",
		description: "Strengthen your back muscles and improve posture",
		matches: func(ex catalog.Exercise) bool {
			return ex.HasMuscleGroup("back") || primaryContains(ex, "latissimus", "rhomboid")
		},
	},
	TypeLegs: {
		name:        "Legs",
		description: "Lower body strength and power development",
		matches: func(ex catalog.Exercise) bool {
			for _, g := range []string{"quadriceps", "hamstrings", "glutes", "calves", "legs"} {
				if ex.HasMuscleGroup(g) {
					return true
				}
			}
			return primaryEquals(ex, "quadriceps", "glutes", "hamstrings", "calves")
		},
	},
	TypeCore: {
		name:        "Core",
		description: "Strengthen your core for better stability and balance",
		matches: func(ex catalog.Exercise) bool {
			return ex.HasMuscleGroup("core") || primaryContains(ex, "abdominis", "core")
		},
	},
	TypeArms: {
		name:        "Arms",
		description: "Build arm strength with biceps and triceps focus",
		matches: func(ex catalog.Exercise) bool {
			return ex.HasMuscleGroup("biceps") || ex.HasMuscleGroup("triceps") || primaryEquals(ex, "biceps")
		},
	},
	TypeShoulders: {
		name:        "Shoulders",
		description: "Develop shoulder strength and mobility",
		matches: func(ex catalog.Exercise) bool {
			return ex.HasMuscleGroup("shoulders") || primaryContains(ex, "deltoid")
		},
	},
}

// Valid reports whether t is a known workout type.
func (t Type) Valid() bool {
	_, ok := typeTable[t]
	return ok
}

// Name is the display name, for example "Full Body".
func (t Type) Name() string {
	return typeTable[t].name
}

// Description is a one sentence summary of the workout type.
func (t Type) Description() string {
	return typeTable[t].description
}

// Matches reports whether ex trains the muscles targeted by t.
func (t Type) Matches(ex catalog.Exercise) bool {
	info, ok := typeTable[t]
	return ok && info.matches(ex)
}

func primaryContains(ex catalog.Exercise, needles ...string) bool {
	for _, m := range ex.PrimaryMuscles {
		m = strings.ToLower(m)
		for _, n := range needles {
			if strings.Contains(m, n) {
				return true
			}
		}
	}
	return false
}

func primaryEquals(ex catalog.Exercise, names ...string) bool {
	for _, m := range ex.PrimaryMuscles {
		for _, n := range names {
			if strings.EqualFold(m, n) {
				return true
			}
		}
	}
	return false
}
