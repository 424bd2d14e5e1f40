package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/semaphore"

	"github.com/jonathan/autoapply/internal/jobinfo"
	"github.com/jonathan/autoapply/internal/profile"
)

// Prompt size bounds keep requests cheap and deterministic in shape.
const (
	maxProfileChars   = 1200
	maxReferenceChars = 500
	maxContextChars   = 800
)

// profilePromptKeys are the profile entries worth surfacing to the model.
var profilePromptKeys = []string{
	"full_name", "first_name", "last_name", "email", "phone", "city", "country",
	"school", "degree", "major", "graduation_year", "linkedin", "github", "portfolio",
	"us_sponsorship", "uk_sponsorship", "military_service",
}

// Responder answers form questions via the generative service. It is stateless
// apart from the shared client and is safe for concurrent use; the semaphore
// bounds in-flight requests against the local service.
type Responder struct {
	client  Client
	profile *profile.Profile
	sem     *semaphore.Weighted
	verbose bool
}

// NewResponder wraps a client with prompt construction and degradation.
func NewResponder(client Client, p *profile.Profile, maxInFlight int, verbose bool) *Responder {
	if maxInFlight <= 0 {
		maxInFlight = 1
	}
	return &Responder{
		client:  client,
		profile: p,
		sem:     semaphore.NewWeighted(int64(maxInFlight)),
		verbose: verbose,
	}
}

// Ask returns an answer for a form question, or "" when no answer could be
// produced. Timeouts, service errors, and empty output all degrade to "";
// this path never propagates an error upward.
func (r *Responder) Ask(ctx context.Context, question string, jc *jobinfo.JobContext, referenceText string) string {
	if strings.TrimSpace(question) == "" {
		return ""
	}

	if err := r.sem.Acquire(ctx, 1); err != nil {
		return ""
	}
	defer r.sem.Release(1)

	prompt := r.buildPrompt(question, jc, referenceText)
	answer, err := r.client.Generate(ctx, prompt)
	if err != nil {
		if r.verbose {
			log.Printf("[LLM] degraded to empty answer for %q: %v", question, err)
		}
		return ""
	}
	return strings.TrimSpace(answer)
}

// buildPrompt combines the question, selected profile fields, and job context
// into a bounded-length prompt.
func (r *Responder) buildPrompt(question string, jc *jobinfo.JobContext, referenceText string) string {
	var b strings.Builder

	b.WriteString("You are helping fill out a job application form on behalf of the applicant below.\n\n")

	b.WriteString("APPLICANT PROFILE:\n")
	b.WriteString(truncatePrompt(r.profileSummary(), maxProfileChars))
	b.WriteString("\n")

	if jc != nil {
		var ctxParts []string
		if jc.CompanyName != "" {
			ctxParts = append(ctxParts, "Company: "+jc.CompanyName)
		}
		if jc.Title != "" {
			ctxParts = append(ctxParts, "Job Title: "+jc.Title)
		}
		if jc.DescriptionSnippet != "" {
			ctxParts = append(ctxParts, "Job Description: "+truncatePrompt(jc.DescriptionSnippet, maxContextChars))
		}
		if len(ctxParts) > 0 {
			b.WriteString("\nJOB CONTEXT:\n")
			b.WriteString(strings.Join(ctxParts, "\n"))
			b.WriteString("\n")
		}
	}

	if referenceText != "" {
		b.WriteString("\nREFERENCE:\n")
		b.WriteString(truncatePrompt(referenceText, maxReferenceChars))
		b.WriteString("\n")
	}

	b.WriteString("\nAnswer the following application question concisely and professionally.\n")
	b.WriteString("If it is a yes/no question, respond with just \"Yes\" or \"No\".\n")
	b.WriteString("For essay questions, give 2-3 sentences grounded in the profile.\n\n")
	b.WriteString(fmt.Sprintf("Question: %q\n\nAnswer:", question))

	return b.String()
}

// profileSummary renders the prompt-worthy profile entries as key: value lines.
func (r *Responder) profileSummary() string {
	var lines []string
	for _, key := range profilePromptKeys {
		if v, ok := r.profile.Lookup(key); ok {
			lines = append(lines, fmt.Sprintf("%s: %s", strings.ReplaceAll(key, "_", " "), v))
		}
	}
	return strings.Join(lines, "\n")
}

// truncatePrompt cuts s to at most max bytes without splitting a rune.
func truncatePrompt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
