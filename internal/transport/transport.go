// Package transport defines the duplex byte-channel collaborator the TMI
// client drives: a frame-oriented WebSocket connection with a
// connect/disconnect/reconnect lifecycle. The wire transport itself is
// deliberately out of this module's core — internal/transport/ws ships
// one concrete implementation, but callers may substitute their own.
package transport

import (
	"context"
	"time"
)

// Transport is the collaborator the connection lifecycle manager drives.
// Implementations own a single underlying socket at a time; Start,
// Disconnect, and Restart are not expected to be called concurrently with
// each other.
type Transport interface {
	// Start dials uri and begins delivering inbound frames to OnData. It
	// returns once the socket is open (before authentication), or once
	// ctx is done.
	Start(ctx context.Context, uri string) error

	// Send writes a single line (without CRLF) to the socket. If
	// suppressLog is true, implementations must not pass the raw bytes to
	// OnLog.
	Send(ctx context.Context, line string, suppressLog bool) error

	// Disconnect closes the socket, if open.
	Disconnect(ctx context.Context) error

	// Restart closes the socket (if open), waits delay, then reconnects
	// to the most recently Start-ed uri.
	Restart(ctx context.Context, delay time.Duration) error

	// IsConnected reports whether the socket is currently open.
	IsConnected() bool

	OnConnect(func())
	OnReconnect(func())
	OnDisconnect(func(err error))
	OnData(func(data []byte))
	OnLog(func(level, msg string))
	OnLogException(func(err error))
}
