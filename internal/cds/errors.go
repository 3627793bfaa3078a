package cds

import "fmt"

// APIError represents an error returned by the Climate / Atmosphere Data
// Store API.
type APIError struct {
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("CDS API error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("CDS API error: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new CDS API error
func NewAPIError(message string, err error) *APIError {
	return &APIError{
		Message: message,
		Err:     err,
	}
}
