// Package visitstore persists which job URLs have been attempted, so repeated
// runs never double-apply. Backends share one Store interface: sqlite for the
// default single-machine setup, postgres when a shared database is configured,
// and an in-memory store for tests.
package visitstore

import (
	"net/url"
	"strings"
	"time"
)

// Status is the terminal outcome recorded for a visit.
type Status string

// Visit outcomes.
const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
	// StatusSkipped marks a run short-circuited by a prior success. It
	// appears on reports and batch summaries only; the negotiator keeps the
	// stored success record rather than overwriting it with a skipped one.
	StatusSkipped Status = "skipped"
)

// VisitRecord is one attempted application.
type VisitRecord struct {
	URL       string    `json:"url"`
	Domain    string    `json:"domain"`
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	// ErrorNote carries a short failure description for failed or partial
	// visits. Empty on success.
	ErrorNote string `json:"error_note,omitempty"`
}

// Stats summarizes the store's contents.
type Stats struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Partial int `json:"partial"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Store is the persistence interface for visit records. Implementations must
// be safe for concurrent use; multiple runs record results in parallel.
type Store interface {
	// HasVisitedURL reports whether the normalized URL has a record.
	HasVisitedURL(url string) (bool, error)
	// HasVisitedDomain reports whether any URL on the domain has a record.
	HasVisitedDomain(domain string) (bool, error)
	// LookupURL returns the record for a normalized URL, if any.
	LookupURL(url string) (*VisitRecord, error)
	// Record upserts a visit. A later record for the same URL replaces the
	// earlier one, so a retried failure can become a success.
	Record(rec VisitRecord) error
	// Stats returns aggregate counts.
	Stats() (Stats, error)
	Close() error
}

// NormalizeURL strips fragments, trailing slashes, and tracking query noise
// so that cosmetic variants of a posting map to one record.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	u.Scheme = strings.ToLower(u.Scheme)

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			if strings.HasPrefix(strings.ToLower(key), "utm_") {
				q.Del(key)
			}
		}
		u.RawQuery = q.Encode()
	}

	s := u.String()
	return strings.TrimSuffix(s, "/")
}

// Domain extracts the lowercased host of a URL, without port.
func Domain(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
