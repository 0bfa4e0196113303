package domain

import (
	"errors"
	"strings"
)

// Session and authorization errors
var (
	ErrInvalidCredentials  = errors.New("username or password is incorrect")
	ErrAccountInactive     = errors.New("user account is not active")
	ErrAccountLocked       = errors.New("user account is currently locked out")
	ErrRefreshTokenExpired = errors.New("refresh token has expired - please log in again")
	ErrInvalidSession      = errors.New("access token or refresh token is incorrect for session id")
	ErrRefreshConflict     = errors.New("access token could not be refreshed - please log in again")
	ErrSessionNotFound     = errors.New("failed to log out of this session using this access token")
	ErrMissingToken        = errors.New("access token is missing from the header")
	ErrInvalidToken        = errors.New("access token is invalid")
	ErrAccessTokenExpired  = errors.New("access token has expired")
)

// User and task errors
var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrTaskNotFound  = errors.New("task not found")
	ErrPageNotFound  = errors.New("page not found")
)

// ValidationError carries the field-level messages for a rejected request.
// It is built at the handler boundary before any storage access.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}
