package domain

import (
	"errors"
	"fmt"
)

// ErrConnectivity marks a submission that never got an HTTP response.
var ErrConnectivity = errors.New("intake endpoint unreachable")

// RemoteError is a non-2xx answer from the intake endpoint.
type RemoteError struct {
	Status int
	// Message is the most specific human-readable reason the endpoint gave,
	// or empty when the body carried none.
	Message string
	// Attachment is set when the endpoint blamed an uploaded file.
	Attachment bool
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("intake endpoint returned %d", e.Status)
	}
	return fmt.Sprintf("intake endpoint returned %d: %s", e.Status, e.Message)
}
