package visitstore

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips fragment",
			input:    "https://jobs.example.com/posting/123#apply",
			expected: "https://jobs.example.com/posting/123",
		},
		{
			name:     "strips trailing slash",
			input:    "https://jobs.example.com/posting/123/",
			expected: "https://jobs.example.com/posting/123",
		},
		{
			name:     "lowercases host",
			input:    "https://Jobs.Example.COM/posting/123",
			expected: "https://jobs.example.com/posting/123",
		},
		{
			name:     "drops utm params keeps others",
			input:    "https://jobs.example.com/p?utm_source=x&gh_jid=42",
			expected: "https://jobs.example.com/p?gh_jid=42",
		},
		{
			name:     "trims whitespace",
			input:    "  https://jobs.example.com/p  ",
			expected: "https://jobs.example.com/p",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeURL(tt.input))
		})
	}
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "jobs.example.com", Domain("https://Jobs.Example.com:8443/p/1"))
	assert.Equal(t, "", Domain("not a url"))
}

// storeFactories run the shared conformance suite against every backend that
// can be exercised without external services.
func storeFactories(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) Store {
			store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "visits.db"))
			require.NoError(t, err)
			return store
		},
	}
}

func TestStore_RecordAndLookup(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			defer store.Close()

			visited, err := store.HasVisitedURL("https://jobs.example.com/p/1")
			require.NoError(t, err)
			assert.False(t, visited)

			err = store.Record(VisitRecord{
				URL:    "https://jobs.example.com/p/1#apply",
				Status: StatusSuccess,
			})
			require.NoError(t, err)

			// Cosmetic URL variants map to the same record.
			visited, err = store.HasVisitedURL("https://jobs.example.com/p/1")
			require.NoError(t, err)
			assert.True(t, visited)

			rec, err := store.LookupURL("https://jobs.example.com/p/1")
			require.NoError(t, err)
			require.NotNil(t, rec)
			assert.Equal(t, StatusSuccess, rec.Status)
			assert.Equal(t, "jobs.example.com", rec.Domain)
			assert.False(t, rec.Timestamp.IsZero())

			visited, err = store.HasVisitedDomain("jobs.example.com")
			require.NoError(t, err)
			assert.True(t, visited)
		})
	}
}

func TestStore_UpsertReplacesStatus(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			defer store.Close()

			url := "https://jobs.example.com/p/2"
			require.NoError(t, store.Record(VisitRecord{URL: url, Status: StatusFailed, ErrorNote: "timeout"}))
			require.NoError(t, store.Record(VisitRecord{URL: url, Status: StatusSuccess}))

			rec, err := store.LookupURL(url)
			require.NoError(t, err)
			require.NotNil(t, rec)
			assert.Equal(t, StatusSuccess, rec.Status)
			assert.Empty(t, rec.ErrorNote)

			stats, err := store.Stats()
			require.NoError(t, err)
			assert.Equal(t, 1, stats.Total)
			assert.Equal(t, 1, stats.Success)
			assert.Equal(t, 0, stats.Failed)
		})
	}
}

func TestStore_StatsByStatus(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			defer store.Close()

			require.NoError(t, store.Record(VisitRecord{URL: "https://a.com/1", Status: StatusSuccess}))
			require.NoError(t, store.Record(VisitRecord{URL: "https://a.com/2", Status: StatusPartial}))
			require.NoError(t, store.Record(VisitRecord{URL: "https://a.com/3", Status: StatusFailed}))
			require.NoError(t, store.Record(VisitRecord{URL: "https://a.com/4", Status: StatusSkipped}))

			stats, err := store.Stats()
			require.NoError(t, err)
			assert.Equal(t, Stats{Total: 4, Success: 1, Partial: 1, Failed: 1, Skipped: 1}, stats)
		})
	}
}

func TestStore_ConcurrentRecords(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			defer store.Close()

			const n = 32
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					err := store.Record(VisitRecord{
						URL:    fmt.Sprintf("https://jobs.example.com/p/%d", i),
						Status: StatusSuccess,
					})
					assert.NoError(t, err)
				}(i)
			}
			wg.Wait()

			stats, err := store.Stats()
			require.NoError(t, err)
			assert.Equal(t, n, stats.Total)
			assert.Equal(t, n, stats.Success)
		})
	}
}
