// Package sqlite opens the optional SQLite database that persists variety memory across restarts.
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	_ "embed"
)

//go:embed schema.sql
var schemaDefinition string

// Database holds a single writer connection and a pool of read-only connections to the same file.
type Database struct {
	ReadWrite *sql.DB
	ReadOnly  *sql.DB
	logger    *slog.Logger
}

// NewDatabase connects to the database at url and creates missing tables.
//
// The url is a path to the database file or ":memory:". Every in-memory database gets its own random name so
// that parallel tests never share data.
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	db, err := connect(ctx, url, logger)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	start := time.Now()
	if _, err = db.ReadWrite.ExecContext(ctx, schemaDefinition); err != nil {
		return nil, errors.Join(fmt.Errorf("apply schema: %w", err), db.Close())
	}
	logger.LogAttrs(ctx, slog.LevelDebug, "applied schema", slog.Duration("duration", time.Since(start)))

	return db, nil
}

//nolint:gochecknoglobals // the driver may only be registered once per process.
var registerOnce sync.Once

const driverName = "sqlite3workoutgen"

func registerDriver() {
	sql.Register(driverName,
		&sqlite3.SQLiteDriver{
			Extensions: nil,
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				// Temporary tables and indices live in memory.
				if _, err := conn.Exec("PRAGMA temp_store = memory;", nil); err != nil {
					return fmt.Errorf("exec connection pragmas: %w", err)
				}
				return nil
			},
		})
}

func connect(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	// In-memory databases need a shared cache so that both pools see the same data.
	// See https://www.sqlite.org/inmemorydb.html.
	inMemoryConfig := ""
	if strings.Contains(url, ":memory:") {
		url = rand.Text()
		inMemoryConfig = "&mode=memory&cache=shared"
	}
	// Options prefixed with '_' are documented at https://pkg.go.dev/github.com/mattn/go-sqlite3#SQLiteDriver.Open,
	// the rest at https://www.sqlite.org/uri.html.
	commonConfig := strings.Join([]string{
		"_journal_mode=wal",
		"_busy_timeout=5000",
		"_synchronous=normal",
		"_foreign_keys=on",
	}, "&")
	readWriteDSN := fmt.Sprintf("file:%s?mode=rwc&_txlock=immediate&%s%s", url, commonConfig, inMemoryConfig)
	readDSN := fmt.Sprintf("file:%s?mode=ro&_query_only=true&%s%s", url, commonConfig, inMemoryConfig)
	if inMemoryConfig != "" {
		// mode=memory must win over the rwc/ro modes above.
		readWriteDSN = fmt.Sprintf("file:%s?_txlock=immediate&%s%s", url, commonConfig, inMemoryConfig)
		readDSN = fmt.Sprintf("file:%s?_query_only=true&%s%s", url, commonConfig, inMemoryConfig)
	}

	registerOnce.Do(registerDriver)

	readWriteDB, err := sql.Open(driverName, readWriteDSN)
	if err != nil {
		return nil, fmt.Errorf("open read-write database: %w", err)
	}
	// SQLite allows a single writer.
	readWriteDB.SetMaxOpenConns(1)
	readWriteDB.SetMaxIdleConns(1)
	readWriteDB.SetConnMaxIdleTime(time.Hour)

	// sql.DB is lazy, ping to surface configuration errors now.
	if err = readWriteDB.PingContext(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("ping read-write database: %w", err), readWriteDB.Close())
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "opened database", slog.String("dsn", readWriteDSN))

	readDB, err := sql.Open(driverName, readDSN)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open read database: %w", err), readWriteDB.Close())
	}
	const maxReadConns = 4
	readDB.SetMaxOpenConns(maxReadConns)
	readDB.SetMaxIdleConns(maxReadConns)
	readDB.SetConnMaxIdleTime(time.Hour)

	return &Database{
		ReadWrite: readWriteDB,
		ReadOnly:  readDB,
		logger:    logger,
	}, nil
}

// Close optimizes the database and closes both connection pools.
func (db *Database) Close() error {
	db.optimize()
	return errors.Join(db.ReadOnly.Close(), db.ReadWrite.Close())
}
