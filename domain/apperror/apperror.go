package apperror

import (
	"errors"
	"fmt"
)

// ErrorCode is a unique, stable error code surfaced in API responses and logs.
type ErrorCode string

const (
	// Authentication (1xxx)
	CodeInvalidCredentials ErrorCode = "AUTH_1001"
	CodeInvalidToken       ErrorCode = "AUTH_1002"
	CodeTokenExpired       ErrorCode = "AUTH_1003"
	CodeStaleRefreshToken  ErrorCode = "AUTH_1004"

	// Authorization (2xxx)
	CodeInsufficientRole ErrorCode = "AUTHZ_2001"

	// Lookup (3xxx)
	CodeIdentityNotFound ErrorCode = "LOOKUP_3001"

	// Rate limiting (4xxx)
	CodeRateLimitExceeded ErrorCode = "RATE_4001"
)

// Failure taxonomy. Every failure in this subsystem is terminal for the
// triggering call; recovery is the caller's responsibility (re-login for
// authentication failures, role escalation for authorization failures).
var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrAuthorizationFailed  = errors.New("authorization failed")
	ErrNotFound             = errors.New("not found")
	ErrRateLimited          = errors.New("rate limited")
)

// AppError couples a taxonomy sentinel with a coded, user-facing message.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Kind    error     `json:"-"`
	Cause   error     `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is lets errors.Is match against the taxonomy sentinels.
func (e *AppError) Is(target error) bool {
	return e.Kind == target
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func Authentication(code ErrorCode, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Kind: ErrAuthenticationFailed, Cause: cause}
}

func Authorization(message string) *AppError {
	return &AppError{Code: CodeInsufficientRole, Message: message, Kind: ErrAuthorizationFailed}
}

func NotFound(message string) *AppError {
	return &AppError{Code: CodeIdentityNotFound, Message: message, Kind: ErrNotFound}
}

func RateLimited(message string) *AppError {
	return &AppError{Code: CodeRateLimitExceeded, Message: message, Kind: ErrRateLimited}
}
