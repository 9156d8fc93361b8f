package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// timestampLayout is the persisted form of scheduled timestamps
// (timezone-naive, second precision).
const timestampLayout = "2006-01-02 15:04:05"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// NewWorkID generates a work item identity. The W prefix keeps work ids
// visually distinct from roster ids in logs and the console.
func (s *SQLiteStore) NewWorkID() string {
	return "W" + s.newID()
}

// newID is safe for concurrent use; HTTP handlers generate ids from
// parallel goroutines.
func (s *SQLiteStore) newID() string {
	return ulid.Make().String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS work_items (
		work_id             TEXT PRIMARY KEY,
		work_type           TEXT NOT NULL,
		description         TEXT NOT NULL,
		priority            INTEGER NOT NULL,
		scheduled_timestamp TEXT NOT NULL,
		status              TEXT NOT NULL DEFAULT 'pending',
		assigned_to         TEXT,
		created_at          TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_work_items_status ON work_items(status);
	CREATE INDEX IF NOT EXISTS idx_work_items_scheduled ON work_items(scheduled_timestamp DESC);

	CREATE TABLE IF NOT EXISTS resources (
		resource_id         TEXT PRIMARY KEY,
		name                TEXT NOT NULL,
		specialty           TEXT NOT NULL,
		skill_level         INTEGER NOT NULL DEFAULT 0,
		total_cases_handled INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_resources_specialty ON resources(specialty);

	CREATE TABLE IF NOT EXISTS resource_calendar (
		calendar_id      TEXT PRIMARY KEY,
		resource_id      TEXT NOT NULL REFERENCES resources(resource_id),
		date             TEXT NOT NULL,
		available_from   TEXT NOT NULL,
		available_to     TEXT NOT NULL,
		current_workload INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_calendar_resource_date ON resource_calendar(resource_id, date);

	CREATE TABLE IF NOT EXISTS specialty_mapping (
		work_type           TEXT PRIMARY KEY,
		required_specialty  TEXT NOT NULL,
		alternate_specialty TEXT
	);

	CREATE TABLE IF NOT EXISTS resource_vectors (
		resource_id TEXT PRIMARY KEY REFERENCES resources(resource_id),
		profile     TEXT NOT NULL,
		embedding   TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// placeholders returns "?,?,..." for IN clauses.
func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	out := make([]byte, 0, n*2-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, '?')
	}
	return string(out)
}
