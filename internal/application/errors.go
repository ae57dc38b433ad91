package application

import (
	"errors"
	"strings"
)

var (
	// ErrBadCredentials is returned by the credential backend for a wrong
	// password or an unknown principal. It is surfaced verbatim.
	ErrBadCredentials = errors.New("bad credentials")
	// ErrUserNotFound signals an absent identity record.
	ErrUserNotFound = errors.New("user not found")
	// ErrRoleNotFound signals an absent role record.
	ErrRoleNotFound = errors.New("role not found")
	// ErrAccountDisabled is returned when credentials check out but the
	// account is not enabled.
	ErrAccountDisabled = errors.New("user is not enabled")
	// ErrVerificationNotFound signals that no verification record matches
	// the presented (code, email) pair.
	ErrVerificationNotFound = errors.New("verification code not found")
	// ErrVerificationExpired signals a matching but expired code. The
	// record is left in place; the sweeper reclaims it.
	ErrVerificationExpired = errors.New("verification code expired")
	// ErrIncorrectOldPassword is raised only by the authenticated
	// password-change path, distinct from ErrBadCredentials.
	ErrIncorrectOldPassword = errors.New("old password is incorrect")
)

// FieldError is a single (field, message) violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationError aggregates every uniqueness violation found in one
// pass, in check order, so a client can surface all offending inputs at
// once instead of just the first.
type FieldValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *FieldValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field)
	}
	return e.Message + ": " + strings.Join(parts, ", ")
}
