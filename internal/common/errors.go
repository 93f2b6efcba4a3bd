package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden access")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("resource conflict") // e.g., email already registered
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrInternalServer     = errors.New("internal server error")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
//
// Conflicts and bad login credentials deliberately map to 400 rather than
// 409/401: the auth API contract promises a plain 400 {message} for every
// register/login failure, and reserves 401 for rejected bearer tokens on
// protected routes (a 401 makes clients tear down their session).
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict) || errors.Is(err, ErrInvalidCredentials) {
		return http.StatusBadRequest
	}

	// Unique constraint violations that escaped the repository layer.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// DomainError pairs a user-facing message with one of the sentinel kinds
// above. Error() is exactly the message, so it can be surfaced verbatim,
// while errors.Is still matches the kind.
type DomainError struct {
	kind error
	msg  string
}

func (e *DomainError) Error() string { return e.msg }
func (e *DomainError) Unwrap() error { return e.kind }

func DomainErrorf(kind error, format string, args ...interface{}) error {
	return &DomainError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func ValidationErrorf(format string, args ...interface{}) error {
	return DomainErrorf(ErrValidation, format, args...)
}

func ConflictErrorf(format string, args ...interface{}) error {
	return DomainErrorf(ErrConflict, format, args...)
}
