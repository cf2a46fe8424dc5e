// Package history persists validation outcomes to SQLite so accuracy
// can be tracked across runs. It supports both a global store
// (~/.local/share/olympusval/history.db) and a project-local store
// (.olympusval/history.db).
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/olympus-coder/olympusval/pkg/models"
)

// Store wraps an SQLite database holding validation run history.
type Store struct {
	conn *sql.DB
	path string
	mu   sync.RWMutex
}

// RunRecord is one persisted validation outcome.
type RunRecord struct {
	ID           string
	ResponseType models.ResponseType
	OverallValid bool
	SegmentCount int
	ErrorCount   int
	WarningCount int
	Duration     time.Duration
	CreatedAt    time.Time
}

// GlobalDBPath returns the path to the global history database.
func GlobalDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "olympusval", "history.db")
}

// ProjectDBPath returns the path to the project-local history database.
func ProjectDBPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".olympusval", "history.db")
}

// Open opens a history store at the given path, creating parent
// directories as needed. WAL mode is enabled for concurrent reads.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	return &Store{conn: conn, path: path}, nil
}

// OpenGlobal opens the global history store.
func OpenGlobal() (*Store, error) {
	return Open(GlobalDBPath())
}

// OpenProject opens the project-local history store.
func OpenProject(projectRoot string) (*Store, error) {
	return Open(ProjectDBPath(projectRoot))
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Migrate applies all pending schema migrations.
func (s *Store) Migrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var currentVersion int
	row := s.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Runs},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := s.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration v%d: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.version, err)
		}
	}

	return nil
}

const migrationV1Runs = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	response_type TEXT NOT NULL,
	overall_valid INTEGER NOT NULL DEFAULT 0,
	segment_count INTEGER NOT NULL DEFAULT 0,
	error_count INTEGER NOT NULL DEFAULT 0,
	warning_count INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_runs_overall_valid ON runs(overall_valid);
`

// RecordRun persists the outcome of one validation.
func (s *Store) RecordRun(report *models.ValidationReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec(`
		INSERT INTO runs (id, response_type, overall_valid, segment_count, error_count, warning_count, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.ID,
		string(report.ResponseType),
		boolToInt(report.OverallValid),
		len(report.Segments),
		len(report.Errors),
		len(report.Warnings),
		report.Duration.Milliseconds(),
		report.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.conn.Query(`
		SELECT id, response_type, overall_valid, segment_count, error_count, warning_count, duration_ms, created_at
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var valid int
		var responseType string
		var durationMS int64
		if err := rows.Scan(&r.ID, &responseType, &valid, &r.SegmentCount, &r.ErrorCount, &r.WarningCount, &durationMS, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.ResponseType = models.ResponseType(responseType)
		r.OverallValid = valid != 0
		r.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, r)
	}
	return records, rows.Err()
}

// Accuracy returns the fraction of the most recent window runs that
// were valid, and the window size actually available. A zero window
// means no runs are recorded.
func (s *Store) Accuracy(window int) (float64, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.conn.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(overall_valid), 0)
		FROM (
			SELECT overall_valid FROM runs
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)
	`, window)

	var total, valid int
	if err := row.Scan(&total, &valid); err != nil {
		return 0, 0, fmt.Errorf("compute accuracy: %w", err)
	}
	if total == 0 {
		return 0, 0, nil
	}
	return float64(valid) / float64(total), total, nil
}

// Purge removes runs older than the cutoff and reports how many were
// deleted.
func (s *Store) Purge(olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.conn.Exec("DELETE FROM runs WHERE created_at < ?", olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge runs: %w", err)
	}
	return res.RowsAffected()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
