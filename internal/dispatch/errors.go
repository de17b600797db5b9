package dispatch

import "errors"

// Error codes a Dispatcher reports through its ErrorSink hook.
const (
	ErrCodeAuthFailed    = "auth_failed"
	ErrCodeAccountBanned = "account_banned"
)

var (
	// ErrAuthFailed is reported when the server NOTICEs back an
	// authentication failure (Login authentication failed).
	ErrAuthFailed = errors.New("tmi: authentication failed")
	// ErrAccountBanned is reported when the server sends a NOTICE with
	// msg-id msg_channel_suspended (the channel has been suspended).
	ErrAccountBanned = errors.New("tmi: account suspended")
)

// DispatchError wraps a code and the underlying sentinel for errors raised
// out of line during dispatch (never returned from Dispatch itself, which
// never fails — only reported to the ErrorSink).
type DispatchError struct {
	Code string
	Err  error
}

func (e *DispatchError) Error() string { return e.Err.Error() }

func (e *DispatchError) Unwrap() error { return e.Err }
