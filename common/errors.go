// Package common holds the failure taxonomy shared by every user-facing
// operation. All errors surfaced to the UI classify into exactly one of:
// network failure, malformed response, server rejection, local validation
// failure, or a client-side policy block.
package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNetwork: the request never reached the server or never returned,
	// including timeouts.
	ErrNetwork = errors.New("network failure")

	// ErrMalformedResponse: the body was not the expected structured payload,
	// e.g. a PHP warning or an HTML error page.
	ErrMalformedResponse = errors.New("malformed server response")
)

// ServerError is a structured success:false response from the backend.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return "server rejected the request"
	}
	return fmt.Sprintf("server rejected the request: %s", e.Message)
}

// ValidationError is a local precondition failure; the network is never
// touched when one is returned.
type ValidationError struct {
	Reason  string
	Missing []string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
	}
	return e.Reason
}

// PolicyError is a client-side rule refusing an otherwise well-formed action,
// e.g. deleting a report that is already being processed.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string { return e.Reason }

func IsServerRejected(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsPolicyBlocked(err error) bool {
	var pe *PolicyError
	return errors.As(err, &pe)
}
