package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quantmind-br/emplace/internal/core"
)

// DB represents the journal database with separate read/write pools
type DB struct {
	write *sql.DB
	read  *sql.DB
	path  string
}

// New opens (and creates) the journal at dbPath
func New(ctx context.Context, dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	// Connection string with pragmas
	connStr := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)

	// Write pool: MUST be 1 connection only
	write, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open write connection: %w", err)
	}
	write.SetMaxOpenConns(1)
	write.SetMaxIdleConns(1)
	write.SetConnMaxIdleTime(time.Minute)
	write.SetConnMaxLifetime(time.Hour)

	read, err := sql.Open("sqlite", connStr)
	if err != nil {
		write.Close()
		return nil, fmt.Errorf("open read connection: %w", err)
	}
	read.SetMaxOpenConns(4)
	read.SetMaxIdleConns(2)
	read.SetConnMaxIdleTime(time.Minute)
	read.SetConnMaxLifetime(time.Hour)

	db := &DB{
		write: write,
		read:  read,
		path:  dbPath,
	}

	if err := db.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

// Path returns the database file
func (db *DB) Path() string {
	return db.path
}

// Close closes both database connections
func (db *DB) Close() error {
	writeErr := db.write.Close()
	readErr := db.read.Close()
	if writeErr != nil {
		return writeErr
	}
	return readErr
}

func (db *DB) initSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL,
    summary TEXT NOT NULL,
    packages TEXT NOT NULL DEFAULT '[]',
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
CREATE INDEX IF NOT EXISTS idx_events_created ON events(created_at);
	`

	if _, err := db.write.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Record appends an event and fills in its ID, and CreatedAt when unset
func (db *DB) Record(ctx context.Context, event *core.Event) error {
	if _, err := core.ParseEventKind(string(event.Kind)); err != nil {
		return err
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	packagesJSON, err := json.Marshal(orEmpty(event.Packages))
	if err != nil {
		return fmt.Errorf("marshal packages: %w", err)
	}

	result, err := db.write.ExecContext(ctx,
		`INSERT INTO events (kind, summary, packages, created_at) VALUES (?, ?, ?, ?)`,
		string(event.Kind),
		event.Summary,
		string(packagesJSON),
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("read event id: %w", err)
	}
	event.ID = id
	return nil
}

// Filter narrows List
type Filter struct {
	// Kind limits the result to one kind when set
	Kind core.EventKind
	// Limit caps the number of events; 0 means no limit
	Limit int
}

// List returns events, newest first
func (db *DB) List(ctx context.Context, filter Filter) ([]core.Event, error) {
	query := `SELECT id, kind, summary, packages, created_at FROM events`
	var args []any
	if filter.Kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(filter.Kind))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := db.read.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []core.Event
	for rows.Next() {
		var event core.Event
		var kind, packagesJSON string

		if err := rows.Scan(&event.ID, &kind, &event.Summary, &packagesJSON, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		event.Kind = core.EventKind(kind)
		if err := json.Unmarshal([]byte(packagesJSON), &event.Packages); err != nil {
			return nil, fmt.Errorf("unmarshal packages: %w", err)
		}
		if len(event.Packages) == 0 {
			event.Packages = nil
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return events, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
