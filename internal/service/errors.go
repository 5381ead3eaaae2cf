package service

import (
	"errors"
	"fmt"

	"github.com/pageza/receitas/backend/internal/repository"
)

var (
	// ErrNotFound is returned when a recipe or user does not exist
	ErrNotFound = repository.ErrNotFound
	// ErrForbidden is returned when a caller changes a recipe they do not own
	ErrForbidden = errors.New("only the author can change this recipe")
)

// AuthReason classifies identity failures
type AuthReason string

const (
	ReasonMissingFields      AuthReason = "missing_fields"
	ReasonInvalidEmail       AuthReason = "invalid_email"
	ReasonWeakPassword       AuthReason = "weak_password"
	ReasonEmailInUse         AuthReason = "email_in_use"
	ReasonInvalidCredentials AuthReason = "invalid_credentials"
	ReasonInvalidToken       AuthReason = "invalid_token"
)

var authMessages = map[AuthReason]string{
	ReasonMissingFields:      "name, email and password are required",
	ReasonInvalidEmail:       "email address is invalid",
	ReasonWeakPassword:       "password must be at least 6 characters",
	ReasonEmailInUse:         "email is already in use",
	ReasonInvalidCredentials: "invalid credentials",
	ReasonInvalidToken:       "invalid or expired token",
}

// AuthError is a registration, login or token failure
type AuthError struct {
	Reason AuthReason
	Err    error
}

func (e *AuthError) Error() string {
	return authMessages[e.Reason]
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func authError(reason AuthReason, err error) error {
	return &AuthError{Reason: reason, Err: err}
}

// WriteError wraps a failed create, update, delete or upload
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// writeError wraps err unless it is a not-found, which callers handle on
// their own.
func writeError(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	return &WriteError{Op: op, Err: err}
}

// ValidationError reports invalid recipe input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
