package templates

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps templates in a single SQLite table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (and if needed creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS capture_templates (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL UNIQUE COLLATE NOCASE,
	description TEXT NOT NULL DEFAULT '',
	bpf_filter  TEXT NOT NULL,
	duration    INTEGER NOT NULL DEFAULT 0
);`)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// List returns the templates in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]CaptureTemplate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, description, bpf_filter, duration FROM capture_templates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	templates := []CaptureTemplate{}
	for rows.Next() {
		var t CaptureTemplate
		if err := rows.Scan(&t.Name, &t.Description, &t.BPFFilter, &t.Duration); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// Save inserts t. Names are unique regardless of case.
func (s *SQLiteStore) Save(ctx context.Context, t CaptureTemplate) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO capture_templates (name, description, bpf_filter, duration) VALUES (?, ?, ?, ?)`,
		t.Name, t.Description, t.BPFFilter, t.Duration)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}
