package polling

import "fmt"

// TransportError wraps a network-level failure while checking job status.
// It is deliberately distinct from OutcomeFailed, which reports that the
// upstream job itself errored.
type TransportError struct {
	Attempt int
	Cause   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("status check failed on attempt %d: %v", e.Attempt, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}
