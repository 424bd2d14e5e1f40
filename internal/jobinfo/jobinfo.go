// Package jobinfo extracts job title, description, and company information
// from a rendered job page before any further navigation happens.
package jobinfo

import (
	"net/url"
	"strings"
	"sync"
)

// MaxDescriptionLength bounds the stored description snippet. Longer blocks are
// truncated; downstream consumers only need enough text to classify the role.
const MaxDescriptionLength = 2000

// minDescriptionLength is the shortest block considered a real description
// rather than a heading or navigation fragment.
const minDescriptionLength = 100

// JobContext accumulates what is known about the job during a run.
type JobContext struct {
	Title              string
	DescriptionSnippet string
	CompanyName        string

	mu       sync.Mutex
	category string
}

// SetCategory fixes the job category. The first classification wins; later
// calls are ignored so re-entrant extraction cannot flip an earlier decision.
func (jc *JobContext) SetCategory(category string) {
	jc.mu.Lock()
	defer jc.mu.Unlock()
	if jc.category == "" {
		jc.category = category
	}
}

// Category returns the fixed category, or "" if classification has not run.
func (jc *JobContext) Category() string {
	jc.mu.Lock()
	defer jc.mu.Unlock()
	return jc.category
}

// ExtractCompanyFromURL derives a company name from a job page URL host.
// "boards.greenhouse.io" style ATS hosts yield the path-based slug instead.
func ExtractCompanyFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}

	host := strings.ToLower(parsed.Host)
	host = strings.TrimPrefix(host, "www.")

	// ATS-hosted pages carry the employer in the first path segment.
	for _, ats := range []string{"greenhouse.io", "lever.co", "myworkdayjobs.com"} {
		if strings.HasSuffix(host, ats) {
			segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
			if len(segments) > 0 && segments[0] != "" {
				return titleCase(segments[0])
			}
			return ""
		}
	}

	// Otherwise use the registrable label: careers.citadel.com -> Citadel.
	labels := strings.Split(host, ".")
	if len(labels) >= 2 {
		return titleCase(labels[len(labels)-2])
	}
	return titleCase(labels[0])
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
