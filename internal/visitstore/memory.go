package visitstore

import (
	"sync"
	"time"
)

// MemoryStore keeps visits in process memory. Used by tests and dry runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]VisitRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]VisitRecord)}
}

func (s *MemoryStore) HasVisitedURL(url string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[NormalizeURL(url)]
	return ok, nil
}

func (s *MemoryStore) HasVisitedDomain(domain string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.Domain == domain {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) LookupURL(url string) (*VisitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[NormalizeURL(url)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *MemoryStore) Record(rec VisitRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	rec.URL = NormalizeURL(rec.URL)
	if rec.Domain == "" {
		rec.Domain = Domain(rec.URL)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.URL] = rec
	return nil
}

func (s *MemoryStore) Stats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stats Stats
	for _, rec := range s.records {
		stats.Total++
		switch rec.Status {
		case StatusSuccess:
			stats.Success++
		case StatusPartial:
			stats.Partial++
		case StatusFailed:
			stats.Failed++
		case StatusSkipped:
			stats.Skipped++
		}
	}
	return stats, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
