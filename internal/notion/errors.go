package notion

import (
	"errors"
	"fmt"
	"net/http"
)

// Error categories. An *APIError matches exactly one of them with errors.Is.
var (
	ErrNotFound    = errors.New("notion: not found")
	ErrPermission  = errors.New("notion: permission denied")
	ErrValidation  = errors.New("notion: validation failed")
	ErrConflict    = errors.New("notion: conflict")
	ErrRateLimited = errors.New("notion: rate limited")
	ErrUpstream    = errors.New("notion: upstream failure")
)

// APIError is a non-2xx answer from the Notion API
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion API error %d (%s): %s", e.Status, e.Code, e.Message)
}

// Category returns the sentinel this error is classified under
func (e *APIError) Category() error {
	switch {
	case e.Status == http.StatusNotFound || e.Code == "object_not_found":
		return ErrNotFound
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden ||
		e.Code == "unauthorized" || e.Code == "restricted_resource":
		return ErrPermission
	case e.Status == http.StatusBadRequest:
		return ErrValidation
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrUpstream
	}
}

func (e *APIError) Is(target error) bool {
	return e.Category() == target
}
