package services

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("user not found")
	ErrSelfLink      = errors.New("cannot add yourself as a student")
	ErrRoleMismatch  = errors.New("user is not a student")
	ErrDuplicateLink = errors.New("student already linked")
	ErrAccessDenied  = errors.New("access denied")
	ErrStorage       = errors.New("storage failure")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("invalid or expired token")
	ErrSessionRevoked     = errors.New("session revoked")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
