package negotiator

import "fmt"

// BarrierNotClearableError marks a barrier the negotiator could not pass,
// such as a navigation failure or a missing submit control. The run
// terminates as failed.
type BarrierNotClearableError struct {
	// Barrier names the stage that blocked: "navigation" or "submit".
	Barrier string
	Message string
	Cause   error
}

func (e *BarrierNotClearableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("barrier %s not clearable: %s: %v", e.Barrier, e.Message, e.Cause)
	}
	return fmt.Sprintf("barrier %s not clearable: %s", e.Barrier, e.Message)
}

func (e *BarrierNotClearableError) Unwrap() error {
	return e.Cause
}

// UnexpectedRedirectError means navigation landed on a domain that is not a
// known legitimate hand-off for the requested site. Nothing on the foreign
// page is filled.
type UnexpectedRedirectError struct {
	From string
	To   string
}

func (e *UnexpectedRedirectError) Error() string {
	return fmt.Sprintf("unexpected redirect from %s to %s", e.From, e.To)
}

// NoFormFoundError means every barrier was cleared but the page exposed no
// fillable application form.
type NoFormFoundError struct {
	URL string
}

func (e *NoFormFoundError) Error() string {
	return fmt.Sprintf("no application form found at %s", e.URL)
}

// UploadError represents an attachment that could not be delivered to the
// form's file input. The submission still proceeds and is recorded partial.
type UploadError struct {
	Path  string
	Cause error
}

func (e *UploadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to upload attachment %s: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("failed to upload attachment %s", e.Path)
}

func (e *UploadError) Unwrap() error {
	return e.Cause
}

// SubmissionUnverifiedError means the submit control was activated but no
// confirmation could be observed afterwards.
type SubmissionUnverifiedError struct {
	Message string
}

func (e *SubmissionUnverifiedError) Error() string {
	return fmt.Sprintf("submission not verified: %s", e.Message)
}
