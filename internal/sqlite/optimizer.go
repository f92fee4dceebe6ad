package sqlite

import (
	"context"
	"log/slog"
	"time"
)

const optimizeTimeout = 5 * time.Second

// optimize runs PRAGMA optimize, which SQLite recommends before closing a short-lived connection.
// See https://www.sqlite.org/pragma.html#pragma_optimize. Failures are logged only.
func (db *Database) optimize() {
	ctx, cancel := context.WithTimeout(context.Background(), optimizeTimeout)
	defer cancel()

	start := time.Now()
	if _, err := db.ReadWrite.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
		db.logger.LogAttrs(ctx, slog.LevelWarn, "failed to optimize database", slog.Any("error", err))
		return
	}
	db.logger.LogAttrs(ctx, slog.LevelDebug, "optimized database", slog.Duration("duration", time.Since(start)))
}
