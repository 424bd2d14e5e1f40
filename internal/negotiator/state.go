package negotiator

// State tracks progress through the barrier sequence. States only advance;
// any failure drops the run into StateFailed terminally.
type State int

// Barrier states, in negotiation order.
const (
	StateStart State = iota
	StateCookieHandled
	StateRedirectResolved
	StateJobInfoExtracted
	StateAccountHandled
	StateApplyGatePassed
	StateFormDiscovered
	StateFormFilled
	StateFileUploaded
	StateSubmitted
	StateFailed
)

var stateNames = map[State]string{
	StateStart:            "start",
	StateCookieHandled:    "cookie_handled",
	StateRedirectResolved: "redirect_resolved",
	StateJobInfoExtracted: "job_info_extracted",
	StateAccountHandled:   "account_handled",
	StateApplyGatePassed:  "apply_gate_passed",
	StateFormDiscovered:   "form_discovered",
	StateFormFilled:       "form_filled",
	StateFileUploaded:     "file_uploaded",
	StateSubmitted:        "submitted",
	StateFailed:           "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
