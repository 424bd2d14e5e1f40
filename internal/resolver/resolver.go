// Package resolver classifies discovered form fields and produces values for
// them: profile lookup first, then contextual rules, then dropdown matching,
// then the generative fallback.
package resolver

import (
	"context"
	"strings"

	"github.com/jonathan/autoapply/internal/forms"
	"github.com/jonathan/autoapply/internal/jobinfo"
	"github.com/jonathan/autoapply/internal/profile"
)

// Strategy records which resolution path produced an answer.
type Strategy string

// Resolution strategies, in priority order.
const (
	StrategyProfileExact       Strategy = "profileExact"
	StrategyProfileContextual  Strategy = "profileContextual"
	StrategyDropdownMatch      Strategy = "dropdownMatch"
	StrategyGenerativeFallback Strategy = "generativeFallback"
	// StrategyUnresolved marks fields left blank for manual follow-up.
	StrategyUnresolved Strategy = "unresolved"
)

// Confidence is the qualitative strength of an answer.
type Confidence string

// Confidence tiers.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ResolvedAnswer is the resolver's decision for one field. Consumed
// immediately by the filling step, never stored long-term.
type ResolvedAnswer struct {
	Field        forms.FieldDescriptor
	CanonicalKey string
	// Value is the text to enter, or the chosen option's label.
	Value string
	// OptionValue is the chosen option's value attribute, for select fields.
	OptionValue string
	Strategy    Strategy
	Confidence  Confidence
}

// Unresolved reports whether the field was left blank.
func (a ResolvedAnswer) Unresolved() bool {
	return a.Strategy == StrategyUnresolved
}

// Responder is the generative fallback capability injected into the resolver.
type Responder interface {
	Ask(ctx context.Context, question string, jc *jobinfo.JobContext, referenceText string) string
}

// Resolver resolves fields against a profile, site-specific answers, and a
// generative fallback. Safe for concurrent use; all state is read-only.
type Resolver struct {
	profile    *profile.Profile
	responder  Responder
	siteFields map[string]string
}

// New creates a resolver. responder may be nil, in which case generative
// fallback is skipped and unresolvable fields are recorded blank.
func New(p *profile.Profile, responder Responder) *Resolver {
	return &Resolver{profile: p, responder: responder}
}

// WithSiteFields returns a copy of the resolver carrying site-specific fixed
// answers (question fragment -> answer).
func (r *Resolver) WithSiteFields(fields map[string]string) *Resolver {
	clone := *r
	clone.siteFields = fields
	return &clone
}

// Resolve classifies one field and produces a value for it. It never returns
// an error: a field with no answer comes back blank at low confidence.
func (r *Resolver) Resolve(ctx context.Context, field forms.FieldDescriptor, jc *jobinfo.JobContext) ResolvedAnswer {
	ident := field.IdentifierText()
	key, classified := Classify(ident)

	answer := ResolvedAnswer{Field: field, CanonicalKey: key}

	value, strategy := r.deterministicValue(key, classified, ident)

	hasOptions := field.Kind == forms.KindSelect || field.Kind == forms.KindRadio
	if hasOptions {
		return r.resolveOptions(ctx, answer, field, jc, value, strategy)
	}

	if value != "" {
		answer.Value = value
		answer.Strategy = strategy
		answer.Confidence = confidenceFor(strategy)
		return answer
	}

	// Generative fallback for free-text fields.
	if r.responder != nil {
		if text := r.responder.Ask(ctx, field.Question(), jc, ""); text != "" {
			answer.Value = text
			answer.Strategy = StrategyGenerativeFallback
			answer.Confidence = ConfidenceLow
			return answer
		}
	}

	answer.Strategy = StrategyUnresolved
	answer.Confidence = ConfidenceLow
	return answer
}

// resolveOptions maps an intended answer onto one of the field's options,
// falling back to the generative service for the intended answer when the
// deterministic path produced nothing.
func (r *Resolver) resolveOptions(ctx context.Context, answer ResolvedAnswer, field forms.FieldDescriptor, jc *jobinfo.JobContext, intended string, strategy Strategy) ResolvedAnswer {
	question := field.Question()

	if intended == "" {
		intended = defaultIntended(answer.CanonicalKey)
		strategy = StrategyDropdownMatch
	}
	if intended != "" {
		if opt, ok := MatchDropdown(question, field.Options, intended); ok {
			answer.Value = opt.Label
			answer.OptionValue = opt.Value
			answer.Strategy = strategy
			answer.Confidence = confidenceFor(strategy)
			return answer
		}
	}

	// Re-run the matcher against the generative answer.
	if r.responder != nil {
		if text := r.responder.Ask(ctx, question, jc, optionsReference(field.Options)); text != "" {
			if opt, ok := MatchDropdown(question, field.Options, text); ok {
				answer.Value = opt.Label
				answer.OptionValue = opt.Value
				answer.Strategy = StrategyGenerativeFallback
				answer.Confidence = ConfidenceLow
				return answer
			}
		}
	}

	answer.Strategy = StrategyUnresolved
	answer.Confidence = ConfidenceLow
	return answer
}

// deterministicValue answers from the profile: exact lookup first, then the
// contextual rules for keys that depend on question wording.
func (r *Resolver) deterministicValue(key string, classified bool, identText string) (string, Strategy) {
	// Site-specific fixed answers win over everything.
	for fragment, v := range r.siteFields {
		if strings.Contains(identText, strings.ToLower(fragment)) {
			return v, StrategyProfileContextual
		}
	}
	if !classified {
		return "", ""
	}

	if v, ok := r.profile.Lookup(key); ok {
		return v, StrategyProfileExact
	}

	switch key {
	case KeySponsorship:
		if v, ok := r.profile.Sponsorship(identText); ok {
			return yesNo(v), StrategyProfileContextual
		}
	case KeyWorkAuthorization:
		if v, ok := r.profile.WorkAuthorization(identText); ok {
			return v, StrategyProfileContextual
		}
	case KeyMilitaryService:
		return "No", StrategyProfileContextual
	case KeyConsent:
		return "Yes", StrategyProfileContextual
	case KeyPreviouslyApplied:
		return "No", StrategyProfileContextual
	case KeyFullName:
		first, okFirst := r.profile.Lookup(KeyFirstName)
		last, okLast := r.profile.Lookup(KeyLastName)
		if okFirst && okLast {
			return first + " " + last, StrategyProfileContextual
		}
	}
	return "", ""
}

// defaultIntended supplies a best-guess intended answer for dropdowns with no
// profile hit. Only conservative guesses are made.
func defaultIntended(key string) string {
	switch key {
	case KeyConsent:
		return "Yes"
	case KeyMilitaryService, KeyPreviouslyApplied:
		return "No"
	}
	return ""
}

// confidenceFor maps a strategy to the confidence tier it earns.
func confidenceFor(s Strategy) Confidence {
	switch s {
	case StrategyProfileExact:
		return ConfidenceHigh
	case StrategyProfileContextual:
		return ConfidenceHigh
	case StrategyDropdownMatch:
		return ConfidenceMedium
	case StrategyGenerativeFallback:
		return ConfidenceLow
	}
	return ConfidenceLow
}

// yesNo renders profile values like "yes"/"no" with form-friendly casing.
func yesNo(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y", "true", "1":
		return "Yes"
	case "no", "n", "false", "0", "none":
		return "No"
	}
	return v
}

// optionsReference renders the option labels as reference text so the
// generative service answers in the options' own vocabulary.
func optionsReference(options []forms.Option) string {
	labels := make([]string, 0, len(options))
	for _, opt := range options {
		labels = append(labels, opt.Label)
	}
	return "Available options: " + strings.Join(labels, "; ")
}
