package runner

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/autoapply/internal/negotiator"
	"github.com/jonathan/autoapply/internal/visitstore"
)

type stubApplier struct {
	mu        sync.Mutex
	inFlight  int32
	maxSeen   int32
	processed []string
}

func (s *stubApplier) Run(_ context.Context, site negotiator.CandidateSite) *negotiator.Report {
	current := atomic.AddInt32(&s.inFlight, 1)
	for {
		max := atomic.LoadInt32(&s.maxSeen)
		if current <= max || atomic.CompareAndSwapInt32(&s.maxSeen, max, current) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	atomic.AddInt32(&s.inFlight, -1)

	s.mu.Lock()
	s.processed = append(s.processed, site.URL)
	s.mu.Unlock()

	return &negotiator.Report{URL: site.URL, Status: visitstore.StatusSuccess}
}

func candidates(n int) []negotiator.CandidateSite {
	out := make([]negotiator.CandidateSite, n)
	for i := range out {
		out[i] = negotiator.CandidateSite{URL: string(rune('a'+i)) + ".example.com/job"}
	}
	return out
}

func TestRun_AllCandidatesReportedInOrder(t *testing.T) {
	applier := &stubApplier{}
	sites := candidates(8)

	reports := Run(context.Background(), applier, sites, 3)

	require.Len(t, reports, len(sites))
	for i, report := range reports {
		require.NotNil(t, report)
		assert.Equal(t, sites[i].URL, report.URL)
	}
	assert.Len(t, applier.processed, len(sites))
}

func TestRun_ConcurrencyBounded(t *testing.T) {
	applier := &stubApplier{}

	Run(context.Background(), applier, candidates(12), 3)

	assert.LessOrEqual(t, atomic.LoadInt32(&applier.maxSeen), int32(3))
	assert.Greater(t, atomic.LoadInt32(&applier.maxSeen), int32(0))
}

func TestRun_ZeroLimitMeansSerial(t *testing.T) {
	applier := &stubApplier{}

	Run(context.Background(), applier, candidates(4), 0)

	assert.Equal(t, int32(1), atomic.LoadInt32(&applier.maxSeen))
}

func TestReadLinksFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.txt")
	content := `# batch for today
https://jobs.example.com/p/1

https://jobs.example.com/p/2
https://jobs.example.com/p/1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := ReadLinksFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "https://jobs.example.com/p/1", got[0].URL)
	assert.Equal(t, "https://jobs.example.com/p/2", got[1].URL)
}

func TestReadLinksFile_Missing(t *testing.T) {
	_, err := ReadLinksFile(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}
