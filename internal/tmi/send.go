package tmi

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/chatbridge/tmigo/internal/irc"
)

// RawSend bypasses the governor entirely. Used for low-level escape
// hatches; callers are responsible for their own rate-limit hygiene.
func (c *Client) RawSend(ctx context.Context, line string) error {
	if !c.tp.IsConnected() {
		c.logger.Error("raw send while disconnected: " + line)
		return errNotConnected
	}
	return c.tp.Send(ctx, line, false)
}

// SendMessage sends a chat message to channel, retrying against the
// governor every 2500ms until approved or ctx is done. A non-empty nonce
// containing a space is refused outright, matching the nonce misuse rule.
func (c *Client) SendMessage(ctx context.Context, channel, text string, opts SendOptions) error {
	if c.cfg.IsAnonymous() {
		c.logger.Error("send_message refused: client is anonymous")
		return errAnonymous
	}
	if !c.tp.IsConnected() {
		c.logger.Error("send_message while disconnected: " + channel)
		return errNotConnected
	}
	if strings.Contains(opts.Nonce, " ") {
		c.logger.Error("send_message refused: nonce contains a space")
		return errBadNonce
	}

	nonce := opts.Nonce
	if nonce == "" && opts.ReplyParentID == "" {
		nonce = uuid.NewString()
	}

	for {
		if c.gov.MaySend(channel, c.IsModerator(channel)) {
			line := irc.PrivmsgLine(channel, text, irc.PrivmsgOptions{
				Nonce:         nonce,
				ReplyParentID: opts.ReplyParentID,
				Action:        opts.Action,
			})
			return c.tp.Send(ctx, line, false)
		}

		c.logger.Debugf("rate limited sending to %s, retrying in %s", channel, sendRetryDelay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeAfter(sendRetryDelay):
		}
		c.logger.Warnf("retrying send to %s after rate limit", channel)
	}
}

// SendOptions configures SendMessage and Reply.
type SendOptions struct {
	Nonce         string
	ReplyParentID string
	Action        bool
}

// Reply sends a chat message tagged as a reply to parentMsgID.
func (c *Client) Reply(ctx context.Context, parentMsgID, channel, text string, action bool) error {
	return c.SendMessage(ctx, channel, text, SendOptions{ReplyParentID: parentMsgID, Action: action})
}

// ReplyToMessage replies to a previously decoded chat message, deriving
// the channel and parent ID from it.
func (c *Client) ReplyToMessage(ctx context.Context, parent PrivateMessage, text string, action bool) error {
	return c.Reply(ctx, parent.MessageID, parent.Channel, text, action)
}

// PrivateMessage is a minimal view of events.PrivateMessage sufficient to
// address a reply; avoids importing internal/events here just to read two
// fields back out.
type PrivateMessage struct {
	Channel   string
	MessageID string
}

// Join sends JOIN #channel, retrying against the join governor every
// 1000ms, then waits up to 10s for the per-channel join latch (released
// once ROOMSTATE confirms the join). Joining an already-joined channel
// still writes the frame and still waits on the latch.
func (c *Client) Join(ctx context.Context, channel string) bool {
	for {
		if c.gov.MayJoin() {
			break
		}
		c.logger.Debugf("join rate limited for %s, retrying in %s", channel, joinRetryDelay)
		select {
		case <-ctx.Done():
			return false
		case <-timeAfter(joinRetryDelay):
		}
	}

	if err := c.tp.Send(ctx, irc.JoinLine(channel), false); err != nil {
		c.logger.Errorf("join send failed for %s: %v", channel, err)
		return false
	}

	c.mu.Lock()
	l := c.joinLatchLocked(channel)
	c.mu.Unlock()

	return l.Wait(ctx, joinTimeout)
}

// JoinAll joins every channel in order, returning the logical AND of the
// per-channel results.
func (c *Client) JoinAll(ctx context.Context, channels []string) bool {
	ok := true
	for _, ch := range channels {
		if !c.Join(ctx, ch) {
			ok = false
		}
	}
	return ok
}

// Part sends PART #channel. The dispatcher removes the channel from the
// joined set once the server confirms with its own PART echo.
func (c *Client) Part(ctx context.Context, channel string) error {
	return c.tp.Send(ctx, irc.PartLine(channel), false)
}
