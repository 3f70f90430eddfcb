package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a message id that exists neither at the provider nor in
// the sample set.
var ErrNotFound = errors.New("message not found")

// AuthError means the stored credential could not be refreshed. It carries
// remediation text for the user and is never retried automatically.
type AuthError struct {
	Reason string
	Hint   string
}

func (e *AuthError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("mail auth failed (%s): %s", e.Reason, e.Hint)
	}
	return fmt.Sprintf("mail auth failed: %s", e.Reason)
}

// TransportError is a network or provider-side failure on a read path.
// Callers substitute sample data and surface it as a non-fatal warning.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("mail provider %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SendError wraps a failed reply send, keeping the provider's raw error
// text so the user can act on it. The draft is preserved for retry.
type SendError struct {
	Detail string
}

func (e *SendError) Error() string {
	return "failed to send reply: " + e.Detail
}
