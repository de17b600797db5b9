package tmi

import (
	"context"
	"time"

	"github.com/chatbridge/tmigo/internal/irc"
)

// Connect dials the configured (or default) TMI endpoint and waits up to
// 15s for the connection latch — released once the server confirms login
// with its welcome numeric. It returns false, logging critical, on
// timeout or dial failure.
func (c *Client) Connect(ctx context.Context) bool {
	c.mu.Lock()
	c.phase = Connecting
	c.mu.Unlock()

	uri := c.cfg.ServerAddr
	if uri == "" {
		uri = "wss://irc-ws.chat.twitch.tv:443"
	}

	if err := c.tp.Start(ctx, uri); err != nil {
		c.logger.Critical("connect failed: " + err.Error())
		return false
	}

	waitCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	c.mu.Lock()
	l := c.connectLatch
	c.mu.Unlock()

	if !l.Wait(waitCtx, connectTimeout) {
		c.logger.Critical("timed out waiting for login confirmation")
		return false
	}
	return true
}

// ConnectAsync starts Connect without waiting for the outcome.
func (c *Client) ConnectAsync(ctx context.Context) {
	go c.Connect(ctx)
}

// login sends the capability request and credentials. PASS is always sent
// with suppressLog, and NICK is sent with suppressLog when hide_auth_logs
// is configured, so neither credential-bearing frame reaches the log then,
// regardless of the redaction pass in logRaw.
func (c *Client) login(ctx context.Context) error {
	if err := c.tp.Send(ctx, irc.CapRequest, false); err != nil {
		return err
	}

	if c.cfg.IsAnonymous() {
		return c.tp.Send(ctx, irc.Nick(randomAnonymousNick()), false)
	}

	if err := c.tp.Send(ctx, irc.Pass(c.cfg.OAuthToken), true); err != nil {
		return err
	}
	return c.tp.Send(ctx, irc.Nick(c.cfg.Username), c.cfg.HideAuthLogs)
}

func (c *Client) handleTransportConnect() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.login(ctx); err != nil {
		c.logger.Errorf("login failed: %v", err)
	}
}

// handleTransportReconnect re-runs login, then rejoins every channel in
// the joined set, pacing attempts 1s apart. This is the "on reconnect"
// sequence from the lifecycle design: the server dropped the socket (or
// asked for a restart via RECONNECT) and the transport has re-dialed.
func (c *Client) handleTransportReconnect() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.login(ctx); err != nil {
		c.logger.Errorf("login failed: %v", err)
		return
	}

	channels := c.JoinedChannels()
	go func() {
		for i, name := range channels {
			if i > 0 {
				time.Sleep(rejoinPacing)
			}
			joinCtx, joinCancel := context.WithTimeout(context.Background(), joinTimeout+5*time.Second)
			ok := c.Join(joinCtx, name)
			joinCancel()
			if ok {
				c.logger.Debugf("rejoined %s", name)
			} else {
				c.logger.Errorf("failed to rejoin %s", name)
			}
		}
	}()
}

func (c *Client) handleTransportDisconnect(err error) {
	c.mu.Lock()
	c.phase = Connecting
	c.mu.Unlock()
	if err != nil {
		c.logger.Errorf("transport disconnected: %v", err)
	}
	c.fireDisconnect(err)
}

// Disconnect closes the transport.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.tp.Disconnect(ctx)
}

// DisconnectAsync closes the transport without waiting for completion.
func (c *Client) DisconnectAsync() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.Disconnect(ctx); err != nil {
			c.logger.Errorf("disconnect failed: %v", err)
		}
	}()
}

// Restart closes the transport and reconnects after the configured
// reconnect delay.
func (c *Client) Restart(ctx context.Context) error {
	return c.tp.Restart(ctx, c.cfg.ReconnectDelay)
}

// Dispose tears down the transport and drops all in-memory state. The
// client is not usable after Dispose.
func (c *Client) Dispose(ctx context.Context) {
	_ = c.tp.Disconnect(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = Disposed
	c.channels = newChannelSet()
	c.moderators = make(map[string]bool)
	c.connectLatch.Release()
	for _, l := range c.joinLatches {
		l.Release()
	}
	c.joinLatches = make(map[string]*latch)
}
