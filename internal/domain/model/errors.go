package model

import (
	"errors"
	"fmt"
)

// Error taxonomy for calls to the hosted backend. Adapters wrap these so
// callers can branch with errors.Is.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("already exists")
	ErrWeakPassword       = errors.New("weak password")
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrNetwork            = errors.New("network error")
	ErrUnknown            = errors.New("unknown error")
)

// RemoteError is a failure reported by the hosted backend. Kind is one of the
// taxonomy sentinels above; Message is the backend's own wording.
type RemoteError struct {
	Kind    error
	Status  int
	Type    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v (HTTP %d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("%v (HTTP %d %s): %s", e.Kind, e.Status, e.Type, e.Message)
}

func (e *RemoteError) Unwrap() error { return e.Kind }

// MissingFieldError is returned when a required form field is blank.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrValidation }

// UserMessage returns text suitable for showing next to a form. Backend
// messages are passed through for the auth-flow kinds; everything else gets
// a generic sentence.
func UserMessage(err error) string {
	var missing *MissingFieldError
	if errors.As(err, &missing) {
		return missing.Error()
	}

	var remote *RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		switch {
		case errors.Is(err, ErrInvalidCredentials),
			errors.Is(err, ErrAlreadyExists),
			errors.Is(err, ErrWeakPassword),
			errors.Is(err, ErrValidation):
			return remote.Message
		}
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid credentials. Please check the email and password."
	case errors.Is(err, ErrAlreadyExists):
		return "A user with the same id, email, or phone already exists."
	case errors.Is(err, ErrWeakPassword):
		return "Password must be at least 8 characters long."
	case errors.Is(err, ErrNetwork):
		return "The server could not be reached. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
