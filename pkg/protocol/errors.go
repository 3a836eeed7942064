// Package protocol defines the data structures exchanged with the account
// service during password checks and password changes, and its error codes.
package protocol

import (
	"errors"
	"fmt"
)

// ErrorCode is the error identifier returned by the account service.
type ErrorCode string

// Account service error codes.
const (
	// ErrCodePasswordHashInvalid indicates the proof M1 did not match.
	ErrCodePasswordHashInvalid ErrorCode = "PASSWORD_HASH_INVALID"
	// ErrCodeSRPIDInvalid indicates the srp_id is unknown, expired or already used.
	ErrCodeSRPIDInvalid ErrorCode = "SRP_ID_INVALID"
	// ErrCodePasswordMissing indicates the account has no password.
	ErrCodePasswordMissing ErrorCode = "PASSWORD_MISSING"
	// ErrCodePasswordAlreadySet indicates an empty check was sent while a password is set.
	ErrCodePasswordAlreadySet ErrorCode = "PASSWORD_ALREADY_SET"
	// ErrCodeNewSaltInvalid indicates the new salt1 does not extend the issued one.
	ErrCodeNewSaltInvalid ErrorCode = "NEW_SALT_INVALID"
	// ErrCodeNewSettingsInvalid indicates the new algorithm or hash is malformed.
	ErrCodeNewSettingsInvalid ErrorCode = "NEW_SETTINGS_INVALID"
	// ErrCodeFloodWait indicates too many failed checks.
	ErrCodeFloodWait ErrorCode = "FLOOD_WAIT"
	// ErrCodeInvalidRequest indicates the request payload is invalid.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
)

// ErrorResponse is an error reported by the account service.
type ErrorResponse struct {
	Code       ErrorCode `json:"code" yaml:"code"`
	Message    string    `json:"message" yaml:"message"`
	Details    string    `json:"details,omitempty" yaml:"details,omitempty"`
	RetryAfter int       `json:"retry_after,omitempty" yaml:"retry_after,omitempty"`
}

// Error implements the error interface.
func (e *ErrorResponse) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates a new ErrorResponse.
func NewError(code ErrorCode, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// NewErrorWithDetails creates a new ErrorResponse with details.
func NewErrorWithDetails(code ErrorCode, message, details string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Common error constructors for convenience

// NewPasswordHashInvalidError creates a password hash invalid error.
func NewPasswordHashInvalidError() *ErrorResponse {
	return NewError(ErrCodePasswordHashInvalid, "Password check failed")
}

// NewSRPIDInvalidError creates an SRP ID invalid error.
func NewSRPIDInvalidError(srpID int64) *ErrorResponse {
	return NewErrorWithDetails(ErrCodeSRPIDInvalid, "Unknown or expired srp_id", fmt.Sprintf("srp_id %d", srpID))
}

// NewPasswordMissingError creates a password missing error.
func NewPasswordMissingError() *ErrorResponse {
	return NewError(ErrCodePasswordMissing, "No password is set")
}

// NewPasswordAlreadySetError creates a password already set error.
func NewPasswordAlreadySetError() *ErrorResponse {
	return NewError(ErrCodePasswordAlreadySet, "A password is already set")
}

// NewNewSaltInvalidError creates a new salt invalid error.
func NewNewSaltInvalidError(details string) *ErrorResponse {
	return NewErrorWithDetails(ErrCodeNewSaltInvalid, "New salt is invalid", details)
}

// NewNewSettingsInvalidError creates a new settings invalid error.
func NewNewSettingsInvalidError(details string) *ErrorResponse {
	return NewErrorWithDetails(ErrCodeNewSettingsInvalid, "New password settings are invalid", details)
}

// NewFloodWaitError creates a flood wait error.
func NewFloodWaitError(retryAfter int) *ErrorResponse {
	return &ErrorResponse{
		Code:       ErrCodeFloodWait,
		Message:    "Too many failed attempts",
		Details:    fmt.Sprintf("Retry after %d seconds", retryAfter),
		RetryAfter: retryAfter,
	}
}

// NewInvalidRequestError creates an invalid request error.
func NewInvalidRequestError(details string) *ErrorResponse {
	return NewErrorWithDetails(ErrCodeInvalidRequest, "Invalid request", details)
}

// HasCode reports whether err is, or wraps, an ErrorResponse with code.
func HasCode(err error, code ErrorCode) bool {
	var resp *ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == code
	}
	return false
}
