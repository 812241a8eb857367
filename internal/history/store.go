// Package history persists the command lines submitted to the terminal so
// `grin history` can replay them across sessions.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS commands (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    ts         TEXT NOT NULL,
    verb       TEXT NOT NULL,
    line       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS commands_ts ON commands (ts);
`

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type Entry struct {
	ID        int64
	SessionID string
	Ts        string
	Verb      string
	Line      string
}

// Append records one submitted command line.
func (s *Store) Append(sessionID, verb, line string) error {
	_, err := s.db.Exec(
		"INSERT INTO commands (session_id, ts, verb, line) VALUES (?, ?, ?, ?)",
		sessionID, time.Now().UTC().Format(time.RFC3339), verb, line,
	)
	return err
}

// Recent returns the newest entries, most recent first. limit <= 0 means all.
func (s *Store) Recent(limit int) ([]Entry, error) {
	q := "SELECT id, session_id, ts, verb, line FROM commands ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Ts, &e.Verb, &e.Line); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM commands").Scan(&n)
	return n, err
}
