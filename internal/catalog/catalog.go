package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/stegangeorgiev/fitness-app/internal/errors"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var (
	ErrEmptyCatalog    = errors.NewSentinel("exercise catalog is empty")
	ErrInvalidExercise = errors.NewSentinel("invalid exercise")
)

// Catalog is a validated, read-only list of exercises kept in file order.
// It is safe for concurrent use.
type Catalog struct {
	exercises []Exercise
	byID      map[string]int
}

type catalogFile struct {
	Exercises []Exercise `yaml:"exercises"`
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// LoadFile reads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog file", slog.String("path", path))
	}
	return c, nil
}

// Load decodes and validates a YAML catalog. Unknown fields, duplicate ids, unknown difficulties or
// categories, missing names and an empty exercise list are all rejected.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file catalogFile
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(file.Exercises)
}

// New validates exercises and builds a catalog from them.
func New(exercises []Exercise) (*Catalog, error) {
	if len(exercises) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		exercises: make([]Exercise, 0, len(exercises)),
		byID:      make(map[string]int, len(exercises)),
	}
	var errs []error
	for i, ex := range exercises {
		if err := validate(ex); err != nil {
			errs = append(errs, fmt.Errorf("exercise %d (%q): %w", i, ex.ID, err))
			continue
		}
		if _, dup := c.byID[ex.ID]; dup {
			errs = append(errs, fmt.Errorf("exercise %d: %w: duplicate id %q", i, ErrInvalidExercise, ex.ID))
			continue
		}
		c.byID[ex.ID] = len(c.exercises)
		c.exercises = append(c.exercises, ex.clone())
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

func validate(ex Exercise) error {
	switch {
	case strings.TrimSpace(ex.ID) == "":
		return fmt.Errorf("%w: missing id", ErrInvalidExercise)
	case strings.TrimSpace(ex.Name) == "":
		return fmt.Errorf("%w: missing name", ErrInvalidExercise)
	case !ex.Difficulty.Valid():
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidExercise, ex.Difficulty)
	case !ex.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidExercise, ex.Category)
	}
	return nil
}

// Len returns the number of exercises.
func (c *Catalog) Len() int {
	return len(c.exercises)
}

// All returns a copy of every exercise in catalog order.
func (c *Catalog) All() []Exercise {
	out := make([]Exercise, len(c.exercises))
	for i, ex := range c.exercises {
		out[i] = ex.clone()
	}
	return out
}

// ByID looks up an exercise by id.
func (c *Catalog) ByID(id string) (Exercise, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Exercise{}, false
	}
	return c.exercises[i].clone(), true
}
