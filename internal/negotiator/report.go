package negotiator

import (
	"github.com/google/uuid"

	"github.com/jonathan/autoapply/internal/visitstore"
)

// Report is the outcome of one application run, consumed by the runner for
// summaries and by the visit store for persistence.
type Report struct {
	RunID uuid.UUID `json:"run_id"`

	URL    string `json:"url"`
	Domain string `json:"domain"`
	// EffectiveDomain is where the run actually ended up after any allowed
	// redirects. Equals Domain when no redirect happened.
	EffectiveDomain string `json:"effective_domain"`
	SiteType        string `json:"site_type,omitempty"`

	FinalState State             `json:"final_state"`
	Status     visitstore.Status `json:"status"`

	FieldsResolved      int `json:"fields_resolved"`
	LowConfidenceFields int `json:"low_confidence_fields"`
	UnresolvedFields    int `json:"unresolved_fields"`
	// UnresolvedQuestions lists the question text of fields left blank, for
	// manual follow-up.
	UnresolvedQuestions []string `json:"unresolved_questions,omitempty"`

	UnexpectedRedirect bool `json:"unexpected_redirect,omitempty"`
	// BarrierNote carries the failure or degradation description, empty on
	// clean success.
	BarrierNote string `json:"barrier_note,omitempty"`
}
