package llm

import "fmt"

// ServiceUnavailableError represents a generative-service failure. Callers
// treat it as "no answer available"; it must never abort a run.
type ServiceUnavailableError struct {
	Message string
	Cause   error
}

func (e *ServiceUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("service unavailable: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("service unavailable: %s", e.Message)
}

func (e *ServiceUnavailableError) Unwrap() error {
	return e.Cause
}
