package utils

import (
	"fmt"
	"net/http"
)

// APIError is a failure ready to be reported to a caller. Code is the HTTP
// status it maps to.
type APIError struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

const (
	KindValidation     = "validation"
	KindConnectivity   = "connectivity"
	KindAuthentication = "authentication"
	KindStepFailure    = "step_failure"
	KindUnclassified   = "unclassified"
)

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func NewValidationError(message string) *APIError {
	return &APIError{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: message,
	}
}

func NewUnreachableError(host string, err error) *APIError {
	return &APIError{
		Code:    http.StatusServiceUnavailable,
		Kind:    KindConnectivity,
		Message: fmt.Sprintf("Cannot reach target host at %s. Check address and network connection.", host),
		Details: errDetails(err),
	}
}

func NewRefusedError(port string, err error) *APIError {
	return &APIError{
		Code:    http.StatusServiceUnavailable,
		Kind:    KindConnectivity,
		Message: fmt.Sprintf("Connection refused. Check if the remote service is enabled on port %s.", port),
		Details: errDetails(err),
	}
}

func NewAuthenticationError(err error) *APIError {
	return &APIError{
		Code:    http.StatusUnauthorized,
		Kind:    KindAuthentication,
		Message: "Authentication failed. Check username and password.",
		Details: errDetails(err),
	}
}

// NewStepError keeps the step's own message so the offending file and the
// remote stderr reach the caller untouched.
func NewStepError(err error) *APIError {
	return &APIError{
		Code:    http.StatusInternalServerError,
		Kind:    KindStepFailure,
		Message: err.Error(),
	}
}

func NewSystemError(err error) *APIError {
	return &APIError{
		Code:    http.StatusInternalServerError,
		Kind:    KindUnclassified,
		Message: err.Error(),
	}
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
