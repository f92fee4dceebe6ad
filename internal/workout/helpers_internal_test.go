package workout

import (
	"testing"

	"github.com/stegangeorgiev/fitness-app/internal/catalog"
)

// defaultCatalog loads the embedded catalog or fails the test.
func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c
}

func exerciseIDs(exercises []catalog.Exercise) []string {
	ids := make([]string, len(exercises))
	for i, ex := range exercises {
		ids[i] = ex.ID
	}
	return ids
}

func programIDs(p Program) []string {
	ids := make([]string, len(p.Exercises))
	for i, pe := range p.Exercises {
		ids[i] = pe.Exercise.ID
	}
	return ids
}
