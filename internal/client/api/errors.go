package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fanmerch/storefront/internal/core/domain"
)

// Error is a non-2xx response from the storefront API.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("storefront api: status %d", e.Status)
	}
	return fmt.Sprintf("storefront api: %s (status %d)", e.Message, e.Status)
}

// Is matches the domain error kind the status was mapped from, so callers can
// write errors.Is(err, domain.ErrNotFound) against remote failures.
func (e *Error) Is(target error) bool {
	switch e.Status {
	case http.StatusBadRequest:
		return target == domain.ErrValidation || target == domain.ErrConflict
	case http.StatusUnauthorized:
		return target == domain.ErrUnauthorized
	case http.StatusForbidden:
		return target == domain.ErrForbidden
	case http.StatusNotFound:
		return target == domain.ErrNotFound
	}
	return false
}

// StatusOf returns the HTTP status of err, or 0 when err did not come from a
// server response.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// Message returns the text worth showing a user for err: the server's own
// message when there is one, a generic one otherwise.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Network error. Please try again."
}
