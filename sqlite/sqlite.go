// Package sqlite stores scraped menus in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection, applies the connection pragmas and
// creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, p := range db.pragmas() {
		if _, err := conn.Exec("PRAGMA " + p); err != nil {
			conn.Close()
			return fmt.Errorf("failed to set %s: %w", p, err)
		}
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// pragmas returns the settings applied to every connection. Lock
// contention waits instead of failing with "database is locked". WAL lets
// the list commands read while a scrape is writing; in-memory databases
// do not support it. Foreign keys are off by default in SQLite and the
// item rows rely on them for cascading deletes.
func (db *DB) pragmas() []string {
	pragmas := []string{"busy_timeout = 5000"}
	if db.path != ":memory:" {
		pragmas = append(pragmas, "journal_mode = WAL")
	}
	return append(pragmas, "foreign_keys = ON")
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// createSchema creates the database tables if they don't exist.
// Item IDs are unique within a menu; the same item may appear in many menus.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS menus (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			content_hash TEXT NOT NULL DEFAULT '',
			scraped_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS menu_items (
			menu_id TEXT NOT NULL REFERENCES menus(id) ON DELETE CASCADE,
			item_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			price TEXT NOT NULL DEFAULT '',
			price_amount TEXT,
			price_currency TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			rating TEXT NOT NULL DEFAULT '',
			strategy TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (menu_id, item_id)
		);

		CREATE INDEX IF NOT EXISTS idx_menus_url ON menus(url);
		CREATE INDEX IF NOT EXISTS idx_menu_items_position ON menu_items(menu_id, position);
	`

	_, err := db.db.Exec(schema)
	return err
}
