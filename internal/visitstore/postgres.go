package visitstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS visits (
	url        TEXT PRIMARY KEY,
	domain     TEXT NOT NULL,
	status     TEXT NOT NULL,
	timestamp  TIMESTAMPTZ NOT NULL,
	error_note TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_visits_domain ON visits(domain);
CREATE INDEX IF NOT EXISTS idx_visits_status ON visits(status);
`

// PostgresStore persists visits in a shared Postgres database, for setups
// where several machines apply from one pool of links.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and ensures the schema exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to visit database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize visit schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) HasVisitedURL(url string) (bool, error) {
	var n int
	err := s.pool.QueryRow(context.Background(),
		`SELECT COUNT(1) FROM visits WHERE url = $1`, NormalizeURL(url)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query visit: %w", err)
	}
	return n > 0, nil
}

func (s *PostgresStore) HasVisitedDomain(domain string) (bool, error) {
	var n int
	err := s.pool.QueryRow(context.Background(),
		`SELECT COUNT(1) FROM visits WHERE domain = $1`, domain).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query domain: %w", err)
	}
	return n > 0, nil
}

func (s *PostgresStore) LookupURL(url string) (*VisitRecord, error) {
	rec := VisitRecord{}
	err := s.pool.QueryRow(context.Background(),
		`SELECT url, domain, status, timestamp, error_note FROM visits WHERE url = $1`,
		NormalizeURL(url),
	).Scan(&rec.URL, &rec.Domain, &rec.Status, &rec.Timestamp, &rec.ErrorNote)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up visit: %w", err)
	}
	return &rec, nil
}

func (s *PostgresStore) Record(rec VisitRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	rec.URL = NormalizeURL(rec.URL)
	if rec.Domain == "" {
		rec.Domain = Domain(rec.URL)
	}
	_, err := s.pool.Exec(context.Background(), `
		INSERT INTO visits (url, domain, status, timestamp, error_note)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (url) DO UPDATE SET
			status = EXCLUDED.status,
			timestamp = EXCLUDED.timestamp,
			error_note = EXCLUDED.error_note`,
		rec.URL, rec.Domain, rec.Status, rec.Timestamp, rec.ErrorNote,
	)
	if err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}
	return nil
}

func (s *PostgresStore) Stats() (Stats, error) {
	rows, err := s.pool.Query(context.Background(),
		`SELECT status, COUNT(1) FROM visits GROUP BY status`)
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

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
