package tmi

import "errors"

// Sentinel errors for the send surface's misuse cases (§7: "all logged at
// error and swallowed without throwing"). They are unexported, so only
// code inside this package can errors.Is against them; other callers see
// a non-nil error and its message.
var (
	errNotConnected = errors.New("tmi: not connected")
	errAnonymous    = errors.New("tmi: client is anonymous")
	errBadNonce     = errors.New("tmi: nonce must not contain spaces")
)
