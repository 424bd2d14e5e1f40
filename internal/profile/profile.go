// Package profile holds the applicant's response profile: a read-only mapping
// from canonical question keys to answers, plus country-conditional rules.
// Loaded once per process and passed explicitly into the resolver.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Profile maps canonical keys (e.g. "first_name") to answer values.
// Sponsorship answers are keyed per country ("us_sponsorship",
// "uk_sponsorship"); Sponsorship resolves them with detection and fallback.
type Profile struct {
	Values map[string]string `json:"values" validate:"required"`
}

// requiredKeys must be present for a profile to be usable at all; everything
// else is optional and simply leaves fields to other resolution strategies.
var requiredKeys = []string{"first_name", "last_name", "email"}

// Load reads and validates a profile JSON file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile JSON: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the required identity keys and the email format.
func (p *Profile) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("profile validation failed: %w", err)
	}

	for _, key := range requiredKeys {
		if strings.TrimSpace(p.Values[key]) == "" {
			return fmt.Errorf("profile validation failed: missing required key %q", key)
		}
	}
	if err := validate.Var(p.Values["email"], "email"); err != nil {
		return fmt.Errorf("profile validation failed: %q is not a valid email", p.Values["email"])
	}
	return nil
}

// Lookup returns the value for a canonical key.
func (p *Profile) Lookup(key string) (string, bool) {
	v, ok := p.Values[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Email returns the applicant email, used by the account-gate step.
func (p *Profile) Email() string {
	return p.Values["email"]
}

// Country returns the applicant's own country, lower-cased.
func (p *Profile) Country() string {
	return strings.ToLower(p.Values["country"])
}

// countryTokens maps question-text fragments to the country code used for
// sponsorship key suffixes.
var countryTokens = []struct {
	fragments []string
	code      string
}{
	{[]string{"united states", "u.s.", "usa", " us "}, "us"},
	{[]string{"united kingdom", "u.k.", " uk ", "britain"}, "uk"},
	{[]string{"singapore"}, "sg"},
	{[]string{"germany"}, "de"},
}

// Sponsorship answers a sponsorship/visa question. The country token is
// detected from the question text; when none is found the applicant's own
// country is tried, then the un-suffixed "sponsorship" key.
func (p *Profile) Sponsorship(questionText string) (string, bool) {
	question := " " + strings.ToLower(questionText) + " "

	for _, ct := range countryTokens {
		for _, fragment := range ct.fragments {
			if strings.Contains(question, fragment) {
				if v, ok := p.Lookup(ct.code + "_sponsorship"); ok {
					return v, true
				}
			}
		}
	}

	if country := p.Country(); country != "" {
		for _, ct := range countryTokens {
			for _, fragment := range ct.fragments {
				if strings.Contains(" "+country+" ", fragment) {
					if v, ok := p.Lookup(ct.code + "_sponsorship"); ok {
						return v, true
					}
				}
			}
		}
	}

	return p.Lookup("sponsorship")
}

// WorkAuthorization answers "are you authorized to work in X" questions by
// inverting the sponsorship answer for the detected country.
func (p *Profile) WorkAuthorization(questionText string) (string, bool) {
	sponsorship, ok := p.Sponsorship(questionText)
	if !ok {
		return "", false
	}
	if isAffirmative(sponsorship) {
		return "No", true
	}
	return "Yes", true
}

// isAffirmative normalizes the usual spellings of "yes".
func isAffirmative(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}
