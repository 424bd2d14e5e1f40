package resolver

import (
	"sort"
	"strings"
)

// Canonical keys produced by classification. Most map straight onto profile
// entries; the contextual ones are answered by rule evaluation instead.
const (
	KeyFirstName         = "first_name"
	KeyLastName          = "last_name"
	KeyFullName          = "full_name"
	KeyPreferredName     = "preferred_name"
	KeyEmail             = "email"
	KeyPhone             = "phone"
	KeyLinkedIn          = "linkedin"
	KeyGitHub            = "github"
	KeyPortfolio         = "portfolio"
	KeySchool            = "school"
	KeyDegree            = "degree"
	KeyMajor             = "major"
	KeyGraduationYear    = "graduation_year"
	KeyGPA               = "gpa"
	KeyCity              = "city"
	KeyCountry           = "country"
	KeyCurrentCompany    = "current_company"
	KeyCurrentPosition   = "current_position"
	KeySponsorship       = "sponsorship"
	KeyWorkAuthorization = "work_authorization"
	KeyMilitaryService   = "military_service"
	KeyDisability        = "disability"
	KeyGender            = "gender"
	KeyPronouns          = "pronouns"
	KeyConsent           = "consent"
	KeyPreviouslyApplied = "previously_applied"
	KeyCoverLetter       = "cover_letter"
)

// classificationTable maps identifier-text patterns to canonical keys. Order
// within the table breaks ties between equally long patterns; the flattened
// list is sorted longest-first so a short pattern like "name" can never
// preempt "first name".
var classificationTable = []struct {
	key      string
	patterns []string
}{
	{KeyFirstName, []string{"first name", "firstname", "given name", "fname"}},
	{KeyLastName, []string{"last name", "lastname", "surname", "family name"}},
	{KeyFullName, []string{"full name", "legal name", "your name"}},
	{KeyPreferredName, []string{"preferred name"}},
	{KeyEmail, []string{"email", "e-mail"}},
	{KeyPhone, []string{"phone", "mobile", "telephone"}},
	{KeyLinkedIn, []string{"linkedin"}},
	{KeyGitHub, []string{"github"}},
	{KeyPortfolio, []string{"portfolio", "personal website", "website"}},
	{KeySchool, []string{"school", "university", "college"}},
	{KeyDegree, []string{"degree"}},
	{KeyMajor, []string{"major", "field of study"}},
	{KeyGraduationYear, []string{"graduation"}},
	{KeyGPA, []string{"gpa"}},
	{KeyCity, []string{"city", "location"}},
	{KeyCountry, []string{"country"}},
	{KeyCurrentCompany, []string{"current company", "current employer"}},
	{KeyCurrentPosition, []string{"current position", "current title"}},
	{KeyWorkAuthorization, []string{"authorized to work", "work authorization", "legally authorized", "right to work"}},
	{KeySponsorship, []string{"sponsorship", "visa"}},
	{KeyMilitaryService, []string{"military", "armed forces"}},
	{KeyDisability, []string{"disability"}},
	{KeyGender, []string{"gender"}},
	{KeyPronouns, []string{"pronouns"}},
	{KeyConsent, []string{"i accept", "i agree", "privacy policy", "consent", "terms and conditions"}},
	{KeyPreviouslyApplied, []string{"previously applied", "applied before"}},
	{KeyCoverLetter, []string{"cover letter", "why do you want", "motivation"}},
}

type flatPattern struct {
	pattern string
	key     string
}

// flattened is built once: all patterns sorted by length descending, table
// order preserved among equal lengths for deterministic tie-breaks.
var flattened = flattenTable()

func flattenTable() []flatPattern {
	var flat []flatPattern
	for _, entry := range classificationTable {
		for _, p := range entry.patterns {
			flat = append(flat, flatPattern{pattern: p, key: entry.key})
		}
	}
	sort.SliceStable(flat, func(i, j int) bool {
		return len(flat[i].pattern) > len(flat[j].pattern)
	})
	return flat
}

// Classify matches a field's concatenated identifier text against the pattern
// table, most specific pattern first. Returns false when nothing matches; such
// fields fall through to generative resolution.
func Classify(identifierText string) (string, bool) {
	text := strings.ToLower(identifierText)
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	for _, fp := range flattened {
		if strings.Contains(text, fp.pattern) {
			return fp.key, true
		}
	}
	return "", false
}
