// Package resume classifies a job description into a resume category and maps
// the category to the attachment to upload.
package resume

import (
	"fmt"
	"os"
	"strings"
)

// Category identifies which resume variant fits a job.
type Category string

// Known categories.
const (
	// CategorySWE covers software engineering roles.
	CategorySWE Category = "swe"
	// CategoryQuant covers quantitative research and trading roles.
	CategoryQuant Category = "quant"
	// CategoryCommunication covers business and client-facing roles.
	CategoryCommunication Category = "communication"
)

// DefaultCategory is returned for empty or unscored descriptions.
const DefaultCategory = CategorySWE

// categoryPriority breaks score ties; earlier wins.
var categoryPriority = []Category{CategorySWE, CategoryQuant, CategoryCommunication}

type weightedKeyword struct {
	word   string
	weight int
}

// keywordBuckets score descriptions per category. Weights favor terms that
// are specific to the category over terms that appear everywhere.
var keywordBuckets = map[Category][]weightedKeyword{
	CategorySWE: {
		{"software engineer", 3}, {"backend", 2}, {"frontend", 2}, {"full-stack", 2},
		{"full stack", 2}, {"devops", 2}, {"machine learning", 2}, {"data engineer", 2},
		{"distributed systems", 2}, {"developer", 1}, {"engineering", 1}, {"programming", 1},
		{"software", 1}, {"api", 1}, {"cloud", 1},
	},
	CategoryQuant: {
		{"quantitative", 3}, {"quant", 3}, {"trading", 2}, {"portfolio", 2},
		{"hedge fund", 2}, {"alpha", 2}, {"signals", 2}, {"risk", 1}, {"strategy", 1},
		{"research", 1}, {"analyst", 1}, {"finance", 1}, {"investment", 1},
	},
	CategoryCommunication: {
		{"receptionist", 3}, {"consultant", 2}, {"consulting", 2}, {"project manager", 2},
		{"business analyst", 2}, {"marketing", 2}, {"sales", 2}, {"customer", 1},
		{"client", 1}, {"communication", 1}, {"business", 1},
	},
}

// Classify scores a job description against each category's keyword bucket
// and returns the highest-scoring category. Ties break by fixed priority
// order; empty or unscored input returns the default category.
func Classify(description string) Category {
	text := strings.ToLower(description)
	if strings.TrimSpace(text) == "" {
		return DefaultCategory
	}

	scores := make(map[Category]int, len(keywordBuckets))
	for category, bucket := range keywordBuckets {
		for _, kw := range bucket {
			scores[category] += kw.weight * strings.Count(text, kw.word)
		}
	}

	best := DefaultCategory
	bestScore := 0
	for _, category := range categoryPriority {
		if scores[category] > bestScore {
			best = category
			bestScore = scores[category]
		}
	}
	return best
}

// Selector maps categories to attachment paths from configuration.
type Selector struct {
	paths map[Category]string
}

// NewSelector builds a selector from a category -> path mapping.
func NewSelector(paths map[string]string) *Selector {
	s := &Selector{paths: make(map[Category]string, len(paths))}
	for category, path := range paths {
		s.paths[Category(category)] = path
	}
	return s
}

// Attachment returns the attachment path for a category, verifying the file
// exists and is readable before any upload is attempted. Falls back to the
// default category's attachment when the category has none configured.
func (s *Selector) Attachment(category Category) (string, error) {
	path, ok := s.paths[category]
	if !ok {
		path, ok = s.paths[DefaultCategory]
		if !ok {
			return "", fmt.Errorf("no attachment configured for category %q", category)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("attachment %s is not readable: %w", path, err)
	}
	_ = f.Close()
	return path, nil
}
