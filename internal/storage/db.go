// ABOUTME: SQLite-backed state repository and connection lifecycle.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required) and keeps recent revisions.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultKeepRevisions is how many previous blobs the SQLite backend retains.
const DefaultKeepRevisions = 10

// DB wraps the SQLite database connection.
type DB struct {
	db     *sql.DB
	dbPath string
	keep   int
}

// Compile-time check that DB implements Repository.
var _ Repository = (*DB)(nil)

// Open opens or creates a SQLite database at the given path.
func Open(dbPath string) (*DB, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Set file permissions
	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	d := &DB{db: db, dbPath: dbPath, keep: DefaultKeepRevisions}

	if err := d.configurePragmas(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}

	if err := d.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return d, nil
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "nexusfit")
}

// SetKeepRevisions changes how many previous blobs are retained. Zero disables revisions.
func (d *DB) SetKeepRevisions(n int) {
	if n < 0 {
		n = 0
	}
	d.keep = n
}

// Load returns the current state blob.
func (d *DB) Load() ([]byte, error) {
	var data []byte
	err := d.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, StateKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return data, nil
}

// Save replaces the state blob and records the previous one as a revision.
func (d *DB) Save(data []byte) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)

	if d.keep > 0 {
		_, err = tx.Exec(`
			INSERT INTO state_revisions (key, value, saved_at)
			SELECT key, value, updated_at FROM app_state WHERE key = ?`, StateKey)
		if err != nil {
			return fmt.Errorf("record revision: %w", err)
		}
		_, err = tx.Exec(`
			DELETE FROM state_revisions WHERE key = ? AND id NOT IN (
				SELECT id FROM state_revisions WHERE key = ? ORDER BY id DESC LIMIT ?
			)`, StateKey, StateKey, d.keep)
		if err != nil {
			return fmt.Errorf("prune revisions: %w", err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		StateKey, data, now)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit state: %w", err)
	}
	return nil
}

// Revision is a previously saved blob.
type Revision struct {
	ID      int64
	SavedAt time.Time
	Data    []byte
}

// Backups returns up to limit previous blobs, newest first. A limit of 0 returns all.
func (d *DB) Backups(limit int) ([]Revision, error) {
	query := `SELECT id, value, saved_at FROM state_revisions WHERE key = ? ORDER BY id DESC`
	args := []any{StateKey}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query revisions: %w", err)
	}
	defer rows.Close()

	var revs []Revision
	for rows.Next() {
		var (
			r       Revision
			savedAt string
		)
		if err := rows.Scan(&r.ID, &r.Data, &savedAt); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		r.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
		revs = append(revs, r)
	}
	return revs, rows.Err()
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// configurePragmas sets up SQLite for optimal performance.
func (d *DB) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := d.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}
