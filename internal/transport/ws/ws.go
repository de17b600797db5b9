// Package ws is the default transport.Transport implementation: a text
// WebSocket client built on coder/websocket, dialing out to TMI the way
// the teacher's ws_chat script dials in to its own server.
package ws

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/chatbridge/tmigo/internal/log"
)

// Transport is a transport.Transport over a single coder/websocket
// connection.
type Transport struct {
	logger *log.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	uri     string
	readCtx context.Context
	cancel  context.CancelFunc

	onConnect      func()
	onReconnect    func()
	onDisconnect   func(err error)
	onData         func([]byte)
	onLog          func(level, msg string)
	onLogException func(err error)

	everStarted bool
}

// New constructs a Transport. logger may be nil.
func New(logger *log.Logger) *Transport {
	return &Transport{logger: logger}
}

func (t *Transport) Start(ctx context.Context, uri string) error {
	t.mu.Lock()
	t.uri = uri
	t.mu.Unlock()
	return t.dial(ctx)
}

func (t *Transport) dial(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, t.uriLocked(), nil)
	if err != nil {
		if t.onLogException != nil {
			t.onLogException(err)
		}
		return err
	}

	readCtx, cancel := context.WithCancel(context.Background())

	t.mu.Lock()
	wasReconnect := t.everStarted
	t.conn = conn
	t.readCtx = readCtx
	t.cancel = cancel
	t.everStarted = true
	t.mu.Unlock()

	go t.readLoop(readCtx, conn)

	if wasReconnect {
		if t.onReconnect != nil {
			t.onReconnect()
		}
	} else if t.onConnect != nil {
		t.onConnect()
	}
	return nil
}

func (t *Transport) uriLocked() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.uri
}

func (t *Transport) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			if t.onDisconnect != nil && !errors.Is(err, context.Canceled) {
				t.onDisconnect(err)
			}
			return
		}
		if typ != websocket.MessageText {
			continue
		}
		if t.onData != nil {
			t.onData(data)
		}
	}
}

func (t *Transport) Send(ctx context.Context, line string, suppressLog bool) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	if conn == nil {
		return io.ErrClosedPipe
	}

	if t.onLog != nil && !suppressLog {
		t.onLog("debug", line)
	}

	return conn.Write(ctx, websocket.MessageText, []byte(line+"\r\n"))
}

func (t *Transport) Disconnect(ctx context.Context) error {
	t.mu.Lock()
	conn := t.conn
	cancel := t.cancel
	t.conn = nil
	t.cancel = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn == nil {
		return nil
	}
	return conn.Close(websocket.StatusNormalClosure, "bye")
}

func (t *Transport) Restart(ctx context.Context, delay time.Duration) error {
	_ = t.Disconnect(ctx)

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return ctx.Err()
	}

	return t.dial(ctx)
}

func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}

func (t *Transport) OnConnect(f func())              { t.onConnect = f }
func (t *Transport) OnReconnect(f func())            { t.onReconnect = f }
func (t *Transport) OnDisconnect(f func(err error))  { t.onDisconnect = f }
func (t *Transport) OnData(f func(data []byte))      { t.onData = f }
func (t *Transport) OnLog(f func(level, msg string)) { t.onLog = f }
func (t *Transport) OnLogException(f func(err error)) {
	t.onLogException = f
}
