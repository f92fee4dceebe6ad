package workout

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stegangeorgiev/fitness-app/internal/sqlite"
)

// SQLiteVarietyStore persists variety memory in the variety_memory table.
type SQLiteVarietyStore struct {
	db *sqlite.Database
}

// NewSQLiteVarietyStore creates a variety store backed by db.
func NewSQLiteVarietyStore(db *sqlite.Database) *SQLiteVarietyStore {
	return &SQLiteVarietyStore{db: db}
}

// Get returns the stored names, or an empty slice when the key has never been written.
func (r *SQLiteVarietyStore) Get(ctx context.Context, key VarietyKey) ([]string, error) {
	var raw string
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT exercise_names
		FROM variety_memory
		WHERE workout_type = ? AND difficulty = ?`, string(key.Type), string(key.Difficulty)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query variety memory %s: %w", key, err)
	}

	var names []string
	if err = json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("decode variety memory %s: %w", key, err)
	}
	return names, nil
}

// Set replaces the stored names for key.
func (r *SQLiteVarietyStore) Set(ctx context.Context, key VarietyKey, names []string) error {
	if names == nil {
		names = []string{}
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("encode variety memory: %w", err)
	}

	_, err = r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO variety_memory (workout_type, difficulty, exercise_names)
		VALUES (?, ?, ?)
		ON CONFLICT (workout_type, difficulty) DO UPDATE SET
			exercise_names = excluded.exercise_names,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		string(key.Type), string(key.Difficulty), string(raw))
	if err != nil {
		return fmt.Errorf("save variety memory %s: %w", key, err)
	}
	return nil
}
