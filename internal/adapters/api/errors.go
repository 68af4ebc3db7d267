package api

import "fmt"

// StatusError is an upstream rejection: any HTTP status that is neither a
// success nor a retryable transient (502/503/504). It is surfaced
// immediately without retrying.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("esi: %s returned status %d", e.Endpoint, e.StatusCode)
}

// FetchError is a terminal fetch failure after all retry attempts were
// exhausted on transient errors.
type FetchError struct {
	Endpoint string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("esi: failed to GET %s after %d attempts: %v", e.Endpoint, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
