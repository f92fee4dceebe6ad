package catalog

import (
	"strings"
)

// Filter narrows a catalog search. Zero fields match everything and all comparisons ignore case.
type Filter struct {
	// MuscleGroup matches as a substring of any muscle group tag or primary muscle.
	MuscleGroup string
	Difficulty  Difficulty
	Category    Category
	// Equipment "none" or "bodyweight" selects equipment-free exercises, anything else matches as a
	// substring of any required piece of equipment.
	Equipment string
	// Query is free text matched against the name, muscle groups and primary muscles.
	Query string
}

// Search returns the exercises matching every set field of f, in catalog order.
func (c *Catalog) Search(f Filter) []Exercise {
	var out []Exercise
	for _, ex := range c.exercises {
		if f.matches(ex) {
			out = append(out, ex.clone())
		}
	}
	return out
}

func (f Filter) matches(ex Exercise) bool {
	if f.Difficulty != "" && !strings.EqualFold(string(f.Difficulty), string(ex.Difficulty)) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(string(f.Category), string(ex.Category)) {
		return false
	}
	if m := strings.ToLower(f.MuscleGroup); m != "" &&
		!anyContains(ex.MuscleGroups, m) && !anyContains(ex.PrimaryMuscles, m) {
		return false
	}
	if eq := strings.ToLower(f.Equipment); eq != "" {
		if eq == "none" || eq == "bodyweight" {
			if !ex.Bodyweight() {
				return false
			}
		} else if !anyContains(ex.Equipment, eq) {
			return false
		}
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" &&
		!strings.Contains(strings.ToLower(ex.Name), q) &&
		!anyContains(ex.MuscleGroups, q) && !anyContains(ex.PrimaryMuscles, q) {
		return false
	}
	return true
}

// anyContains reports whether any of values contains the lowercase needle, ignoring case.
func anyContains(values []string, needle string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}
