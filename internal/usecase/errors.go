package usecase

import "fmt"

type ErrorCode string

const (
	ErrorInvalidInput ErrorCode = "INVALID_INPUT"
	ErrorUpstream     ErrorCode = "UPSTREAM_ERROR"
	ErrorInternal     ErrorCode = "INTERNAL_ERROR"
)

// MessageMissingRequired is returned to clients that omit mood or language.
const MessageMissingRequired = "Mood and language are required"

// Error is a classified failure. Message is safe to show to the client;
// Reason is a stable machine tag for logs and metrics.
type Error struct {
	Code    ErrorCode
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason, message string, err error) *Error {
	return &Error{Code: code, Reason: reason, Message: message, Err: err}
}

// upstreamError wraps a failure of the model call in the client-facing
// "Failed to generate <kind> recommendation: <cause>" message.
func upstreamError(label, reason string, err error) *Error {
	return newError(ErrorUpstream, reason, fmt.Sprintf("Failed to generate %s recommendation: %v", label, err), err)
}
