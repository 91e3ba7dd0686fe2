package model

import (
	"errors"
	"fmt"
)

// Request-level failures. These abort the whole operation before any
// durable write; handlers map them to non-200 responses.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrValidation          = errors.New("validation failed")
	ErrNoActiveConnections = errors.New("no active connections found for selected platforms")
	ErrForgery             = errors.New("invalid state parameter")
	ErrProviderRejected    = errors.New("provider rejected the request")
)

// ValidationError wraps ErrValidation with a caller-facing reason.
func ValidationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}

// Platform error kinds. Both are recovered locally during fan-out and end
// up in the post's error details, never aborting sibling platforms.
const (
	PlatformErrRejected    = "platform_rejected"
	PlatformErrUnsupported = "unsupported_content"
)

// PlatformError carries a single platform's publish failure. For rejected
// requests Message holds the provider's own error text.
type PlatformError struct {
	Platform string
	Kind     string
	Message  string
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("%s: %s", e.Platform, e.Message)
}

// RejectedBy builds a PlatformError from a provider error message.
func RejectedBy(platform, message string) *PlatformError {
	return &PlatformError{Platform: platform, Kind: PlatformErrRejected, Message: message}
}

// UnsupportedContent flags a hard platform requirement the request misses.
func UnsupportedContent(platform, message string) *PlatformError {
	return &PlatformError{Platform: platform, Kind: PlatformErrUnsupported, Message: message}
}
