// Package db provides SQLite database operations for the font index,
// render events and the maintenance queue.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	*sql.DB
	path string
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// busy_timeout and foreign_keys are per connection, so they go in the DSN
	// to reach every connection in the pool.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable foreign keys and WAL mode for better performance
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute pragma %q: %w", pragma, err)
		}
	}

	d := &DB{DB: db, path: path}

	// Run migrations
	if err := d.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Migrate runs database migrations.
func (d *DB) Migrate() error {
	schema := `
	-- Font library index, rebuilt from the font root
	CREATE TABLE IF NOT EXISTS fonts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		family TEXT NOT NULL,
		weight INTEGER NOT NULL,
		style TEXT NOT NULL,
		variant TEXT NOT NULL DEFAULT 'regular',
		format TEXT NOT NULL,
		path TEXT NOT NULL,
		UNIQUE(family, weight, style, variant, format)
	);

	CREATE INDEX IF NOT EXISTS idx_fonts_family ON fonts(family);

	-- One row per generate request
	CREATE TABLE IF NOT EXISTS render_events (
		id TEXT PRIMARY KEY,
		output TEXT NOT NULL,
		format TEXT NOT NULL,
		text_items INTEGER DEFAULT 0,
		svg_items INTEGER DEFAULT 0,
		fallbacks INTEGER DEFAULT 0,
		duration_ms INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_render_events_format ON render_events(format);
	CREATE INDEX IF NOT EXISTS idx_render_events_created ON render_events(created_at);
	`

	_, err := d.Exec(schema)
	return err
}

// SqlConn returns a go-zero sqlx.SqlConn wrapping the underlying database.
// This provides automatic circuit breaking and OpenTelemetry tracing on every query.
func (d *DB) SqlConn() sqlx.SqlConn {
	return sqlx.NewSqlConnFromDB(d.DB, sqlx.WithAcceptable(sqliteAcceptable))
}

// sqliteAcceptable tells the circuit breaker that "database is locked" errors
// are transient (SQLite WAL contention) and should not trip the breaker.
func sqliteAcceptable(err error) bool {
	return err == nil || strings.Contains(err.Error(), "database is locked")
}
