// Package tmi ties the rate-limit governor, frame parser, event
// dispatcher, and a transport collaborator into the connection lifecycle
// and send surface the rest of this module exposes: Client.
package tmi

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/chatbridge/tmigo/internal/config"
	"github.com/chatbridge/tmigo/internal/dispatch"
	"github.com/chatbridge/tmigo/internal/events"
	"github.com/chatbridge/tmigo/internal/irc"
	"github.com/chatbridge/tmigo/internal/log"
	"github.com/chatbridge/tmigo/internal/ratelimit"
	"github.com/chatbridge/tmigo/internal/transport"
)

// Phase is the connection lifecycle state.
type Phase int

const (
	Idle Phase = iota
	Connecting
	Authenticated
	Disposed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case Connecting:
		return "Connecting"
	case Authenticated:
		return "Authenticated"
	case Disposed:
		return "Disposed"
	default:
		return "Unknown"
	}
}

const (
	connectTimeout = 15 * time.Second
	joinTimeout    = 10 * time.Second
	sendRetryDelay = 2500 * time.Millisecond
	joinRetryDelay = 1000 * time.Millisecond
	rejoinPacing   = 1 * time.Second
)

// Client is a TMI connection: it owns a transport, the rate-limit
// governor, the event dispatcher, and the joined-channel/moderator state
// the dispatcher mutates as lines arrive.
type Client struct {
	cfg      config.Config
	logger   *log.Logger
	tp       transport.Transport
	gov      *ratelimit.Governor
	disp     *dispatch.Dispatcher
	handlers *events.Handlers

	mu            sync.Mutex
	phase         Phase
	everConnected bool
	channels      *channelSet
	moderators    map[string]bool
	connectLatch  *latch
	joinLatches   map[string]*latch

	errorSink func(error)
}

// New constructs a Client. tp is the transport collaborator (see
// internal/transport/ws for the default WebSocket implementation).
// handlers may be the zero value; any nil slot is simply never invoked.
func New(cfg config.Config, tp transport.Transport, handlers *events.Handlers, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New("info", cfg.Username)
	}
	if handlers == nil {
		handlers = &events.Handlers{}
	}

	c := &Client{
		cfg:          cfg,
		logger:       logger,
		tp:           tp,
		gov:          ratelimit.New(cfg.MessageRateLimit, cfg.ModMessageRateLimit, cfg.JoinRateLimit, cfg.GlobalRateLimit),
		handlers:     handlers,
		channels:     newChannelSet(),
		moderators:   make(map[string]bool),
		connectLatch: newLatch(),
		joinLatches:  make(map[string]*latch),
		errorSink: func(err error) {
			logger.Error(err.Error())
		},
	}

	c.disp = &dispatch.Dispatcher{
		Ignored:   irc.IgnoreSet(cfg.IgnoredCommands),
		Handlers:  handlers,
		Sink:      c,
		Logger:    logger,
		ErrorSink: c.errorSink,
	}

	tp.OnData(c.handleData)
	tp.OnConnect(c.handleTransportConnect)
	tp.OnReconnect(c.handleTransportReconnect)
	tp.OnDisconnect(c.handleTransportDisconnect)
	tp.OnLog(func(level, msg string) { c.logRaw(level, msg) })
	tp.OnLogException(func(err error) { logger.Errorf("transport error: %v", err) })

	return c
}

// SetErrorSink overrides where handler panics and internal errors are
// reported. The default logs at error level.
func (c *Client) SetErrorSink(f func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorSink = f
	c.disp.ErrorSink = f
}

// Phase reports the current connection phase.
func (c *Client) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// JoinedChannels returns a snapshot of the joined-channel set in the
// order channels were joined.
func (c *Client) JoinedChannels() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channels.names()
}

// Channels returns a snapshot of every joined channel's full descriptor
// (ROOMSTATE flags included), in join order.
func (c *Client) Channels() []Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channels.all()
}

// Channel returns the descriptor for a single joined channel, and whether
// it is currently joined at all.
func (c *Client) Channel(name string) (Channel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channels.channel(name)
}

// IsModerator reports whether channel is in the moderator set, i.e. a
// USERSTATE with the mod bit has been seen for it. The set only grows: a
// later USERSTATE without the mod bit does not clear it; only Dispose does.
func (c *Client) IsModerator(channel string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moderators[channel]
}

func (c *Client) handleData(data []byte) {
	irc.Scan(data, c.disp.Dispatch)
}

func (c *Client) logRaw(level, msg string) {
	if c.cfg.HideAuthLogs {
		msg = log.Redact(msg)
	}
	switch level {
	case "debug":
		c.logger.Debug(msg)
	case "warn", "warning":
		c.logger.Warn(msg)
	case "error":
		c.logger.Error(msg)
	default:
		c.logger.Info(msg)
	}
}

// --- dispatch.Sink ---

func (c *Client) MarkConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	first := !c.everConnected
	c.everConnected = true
	c.phase = Authenticated
	c.connectLatch.Release()
	return first
}

func (c *Client) ReleaseJoinLatch(channel string) {
	c.mu.Lock()
	l := c.joinLatchLocked(channel)
	c.mu.Unlock()
	l.Release()
}

func (c *Client) AddChannel(rs *events.RoomStateChange) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channels.addOrUpdate(rs)
}

func (c *Client) UpdateChannel(rs *events.RoomStateChange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels.update(rs)
}

func (c *Client) RemoveChannel(channel string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels.remove(channel)
}

func (c *Client) SetModerator(channel string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moderators[channel] = true
}

func (c *Client) ScheduleRestart() {
	delay := c.cfg.ReconnectDelay
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout+delay)
		defer cancel()
		if err := c.tp.Restart(ctx, delay); err != nil {
			c.logger.Errorf("restart failed: %v", err)
		}
	}()
}

func (c *Client) Pong() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.tp.Send(ctx, irc.Pong(), false); err != nil {
		c.logger.Errorf("pong failed: %v", err)
	}
}

// fireDisconnect invokes OnDisconnect in its own goroutine, isolated from
// the transport's callback the way dispatch.Dispatcher isolates its hooks.
func (c *Client) fireDisconnect(err error) {
	if c.handlers.OnDisconnect == nil {
		return
	}
	go func() {
		defer c.recoverInto()
		c.handlers.OnDisconnect(err)
	}()
}

func (c *Client) recoverInto() {
	if r := recover(); r != nil {
		c.mu.Lock()
		sink := c.errorSink
		c.mu.Unlock()
		if sink != nil {
			sink(handlerPanic{r})
		} else {
			c.logger.Errorf("event handler panic: %v", r)
		}
	}
}

type handlerPanic struct{ v any }

func (h handlerPanic) Error() string {
	return "tmi: event handler panicked"
}

func (c *Client) joinLatchLocked(channel string) *latch {
	l, ok := c.joinLatches[channel]
	if !ok {
		l = newLatch()
		c.joinLatches[channel] = l
	}
	return l
}

// randomAnonymousNick picks justinfan<N> with N a three-digit number in
// [100, 999], per the anonymous-login contract.
func randomAnonymousNick() string {
	return "justinfan" + strconv.Itoa(100+rand.Intn(900))
}
