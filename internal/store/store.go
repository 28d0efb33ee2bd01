// Package store persists expiration records in SQLite.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // database/sql driver
)

// Record is one pending expiration: the file to delete and when it is due.
type Record struct {
	Path     string
	ExpireAt int64
}

// Store is a durable path -> expire_at table. Every operation runs on a
// single serialized connection, so concurrent callers (ingester writing,
// sweeper reading and deleting) never observe partial state. The store is
// the single point of mutual exclusion for expiration state.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS sweeper (
	path      TEXT PRIMARY KEY,
	expire_at INTEGER NOT NULL
)`

// Open opens (creating if needed) the SQLite database at path and ensures
// the schema exists.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection serializes all operations.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close() //nolint:errcheck // Best-effort cleanup in error path
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Upsert inserts or replaces the record for path. Repeated identical calls
// are idempotent; under racing writers the last write wins. No history is
// kept.
func (s *Store) Upsert(path string, expireAt int64) error {
	_, err := s.db.Exec(
		`INSERT INTO sweeper (path, expire_at) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET expire_at = excluded.expire_at`,
		path, expireAt)
	if err != nil {
		return fmt.Errorf("upserting record for %s: %w", path, err)
	}
	return nil
}

// ListDue returns every record with expire_at <= now. The boundary is
// inclusive and no ordering is guaranteed.
func (s *Store) ListDue(now int64) ([]Record, error) {
	rows, err := s.db.Query(`SELECT path, expire_at FROM sweeper WHERE expire_at <= ?`, now)
	if err != nil {
		return nil, fmt.Errorf("listing due records: %w", err)
	}
	defer func() {
		_ = rows.Close() //nolint:errcheck // Read-only cursor, defer cleanup
	}()

	var due []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Path, &rec.ExpireAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		due = append(due, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating due records: %w", err)
	}
	return due, nil
}

// Delete removes the record for path. Deleting an absent path is a no-op,
// not an error.
func (s *Store) Delete(path string) error {
	if _, err := s.db.Exec(`DELETE FROM sweeper WHERE path = ?`, path); err != nil {
		return fmt.Errorf("deleting record for %s: %w", path, err)
	}
	return nil
}

// Len returns the number of pending records. Diagnostic only.
func (s *Store) Len() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sweeper`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
