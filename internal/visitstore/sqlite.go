package visitstore

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS visits (
	url        TEXT PRIMARY KEY,
	domain     TEXT NOT NULL,
	status     TEXT NOT NULL,
	timestamp  DATETIME NOT NULL,
	error_note TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_visits_domain ON visits(domain);
CREATE INDEX IF NOT EXISTS idx_visits_status ON visits(status);
`

// SQLiteStore persists visits in a local sqlite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the visit database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open visit database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize visit schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) HasVisitedURL(url string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM visits WHERE url = ?`, NormalizeURL(url)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query visit: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) HasVisitedDomain(domain string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM visits WHERE domain = ?`, domain).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query domain: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) LookupURL(url string) (*VisitRecord, error) {
	rec := VisitRecord{}
	err := s.db.QueryRow(
		`SELECT url, domain, status, timestamp, error_note FROM visits WHERE url = ?`,
		NormalizeURL(url),
	).Scan(&rec.URL, &rec.Domain, &rec.Status, &rec.Timestamp, &rec.ErrorNote)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up visit: %w", err)
	}
	return &rec, nil
}

func (s *SQLiteStore) Record(rec VisitRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	rec.URL = NormalizeURL(rec.URL)
	if rec.Domain == "" {
		rec.Domain = Domain(rec.URL)
	}
	_, err := s.db.Exec(`
		INSERT INTO visits (url, domain, status, timestamp, error_note)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			status = excluded.status,
			timestamp = excluded.timestamp,
			error_note = excluded.error_note`,
		rec.URL, rec.Domain, rec.Status, rec.Timestamp, rec.ErrorNote,
	)
	if err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Stats() (Stats, error) {
	rows, err := s.db.Query(`SELECT status, COUNT(1) FROM visits GROUP BY status`)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to aggregate visits: %w", err)
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, fmt.Errorf("failed to scan visit counts: %w", err)
		}
		stats.Total += count
		switch status {
		case StatusSuccess:
			stats.Success = count
		case StatusPartial:
			stats.Partial = count
		case StatusFailed:
			stats.Failed = count
		case StatusSkipped:
			stats.Skipped = count
		}
	}
	return stats, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
