package domain

import "errors"

// Error kinds. Every error the core returns wraps exactly one of these, and the
// transport layer maps the kind to a status code.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// Error is a domain error with a message that is safe to show to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError builds an Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrSignupFieldsRequired = NewError(ErrValidation, "email, password, and name are required")
	ErrLoginFieldsRequired  = NewError(ErrValidation, "email and password are required")
	ErrProductIDRequired    = NewError(ErrValidation, "product ID is required")

	ErrUserExists        = NewError(ErrConflict, "user already exists")
	ErrProductInWishlist = NewError(ErrConflict, "product already in wishlist")

	ErrInvalidCredentials = NewError(ErrUnauthorized, "invalid credentials")
	ErrMissingToken       = NewError(ErrUnauthorized, "access token required")
	ErrInvalidToken       = NewError(ErrForbidden, "invalid or expired token")
	ErrNotAdmin           = NewError(ErrForbidden, "admin access required")

	ErrUserNotFound         = NewError(ErrNotFound, "user not found")
	ErrWishlistNotFound     = NewError(ErrNotFound, "wishlist not found")
	ErrProductNotInWishlist = NewError(ErrNotFound, "product not found in wishlist")
)
