package usecase

import (
	"errors"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrPaymentRequired    = errors.New("payment not confirmed")
	ErrUserBanned         = errors.New("user is banned")
	ErrGatewayUnavailable = errors.New("gateway unavailable")
)

// ValidationError carries every violated rule from one create/submit call
// plus non-fatal warnings. It matches ErrValidation under errors.Is so
// callers branch on the kind and render Violations for the user.
type ValidationError struct {
	Violations []string
	Warnings   []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
