package resolver

import (
	"strings"

	"github.com/jonathan/autoapply/internal/forms"
)

// semanticRule pairs question vocabulary with preferred option wording for
// yes/no-with-elaboration questions ("Yes, I require sponsorship").
type semanticRule struct {
	questionWords []string
	yesWords      []string
	noWords       []string
}

var semanticRules = []semanticRule{
	{
		questionWords: []string{"sponsorship", "visa", "authorization", "authorized"},
		yesWords:      []string{"yes", "require", "required", "need"},
		noWords:       []string{"no", "not required", "authorized", "citizen", "do not"},
	},
	{
		questionWords: []string{"military", "armed forces", "veteran"},
		yesWords:      []string{"yes", "served", "veteran"},
		noWords:       []string{"no", "never", "none", "not served", "n/a"},
	},
	{
		questionWords: []string{"disability", "disabilities"},
		yesWords:      []string{"yes", "have a disability"},
		noWords:       []string{"no", "don't", "do not", "none"},
	},
}

// MatchDropdown picks the best option for an intended answer using a tiered
// strategy; the first tier that produces a hit wins. Returns false when no
// tier matches — the caller must record the field as unresolved rather than
// silently keeping the control's pre-existing default.
func MatchDropdown(question string, options []forms.Option, intended string) (forms.Option, bool) {
	if len(options) == 0 || strings.TrimSpace(intended) == "" {
		return forms.Option{}, false
	}

	intendedLower := strings.ToLower(strings.TrimSpace(intended))
	questionLower := strings.ToLower(question)

	// Tier 1: exact equality.
	for _, opt := range options {
		if strings.ToLower(opt.Label) == intendedLower {
			return opt, true
		}
	}

	// Tier 2: containment in either direction.
	for _, opt := range options {
		label := strings.ToLower(opt.Label)
		if strings.Contains(label, intendedLower) || strings.Contains(intendedLower, label) {
			return opt, true
		}
	}

	// Tier 3: context-aware semantic rules keyed by question vocabulary.
	for _, rule := range semanticRules {
		if !containsAny(questionLower, rule.questionWords) {
			continue
		}
		var preferred []string
		switch normalizeYesNo(intendedLower) {
		case "yes":
			preferred = rule.yesWords
		case "no":
			preferred = rule.noWords
		default:
			continue
		}
		for _, opt := range options {
			if containsAny(strings.ToLower(opt.Label), preferred) {
				return opt, true
			}
		}
	}

	// Tier 4: generic yes/no token prefix.
	if token := normalizeYesNo(intendedLower); token != "" {
		for _, opt := range options {
			if strings.HasPrefix(strings.ToLower(opt.Label), token) {
				return opt, true
			}
		}
	}

	return forms.Option{}, false
}

// normalizeYesNo maps the usual spellings onto "yes"/"no", or "" for neither.
func normalizeYesNo(v string) string {
	switch strings.TrimSpace(v) {
	case "yes", "y", "true", "1":
		return "yes"
	case "no", "n", "false", "0", "none":
		return "no"
	}
	return ""
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
