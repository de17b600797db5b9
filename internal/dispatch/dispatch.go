// Package dispatch implements the event dispatcher (component C): it
// consumes classified IRC lines from internal/irc, decodes them with
// internal/events, mutates client-visible state through a small Sink
// collaborator, and fires the caller's event hooks. Handler panics are
// isolated from the dispatch loop the way core.Room.Broadcast isolates a
// slow consumer from the rest of a broadcast.
package dispatch

import (
	"strings"

	"github.com/chatbridge/tmigo/internal/events"
	"github.com/chatbridge/tmigo/internal/irc"
	"github.com/chatbridge/tmigo/internal/log"
)

// Sink is the state-mutating half of the dispatcher's work: everything the
// dispatcher needs from the owning client, kept behind an interface so
// internal/dispatch does not import internal/tmi.
type Sink interface {
	// MarkConnected records a completed login and reports whether this is
	// the first one in the client's lifetime.
	MarkConnected() (first bool)
	// ReleaseJoinLatch unblocks a pending Join call for channel, if any.
	ReleaseJoinLatch(channel string)
	// AddChannel inserts the channel named by a full ROOMSTATE into the
	// joined set with its reported flags, reporting whether it was newly
	// added.
	AddChannel(rs *events.RoomStateChange) bool
	// UpdateChannel applies the single flag carried on a partial ROOMSTATE
	// to an already-joined channel's stored descriptor.
	UpdateChannel(rs *events.RoomStateChange)
	// RemoveChannel deletes channel from the joined set.
	RemoveChannel(channel string)
	// SetModerator marks channel as one the authenticated user moderates.
	SetModerator(channel string)
	// ScheduleRestart begins a transport restart after the configured
	// reconnect delay.
	ScheduleRestart()
	// Pong writes a PONG frame in response to a server PING.
	Pong()
}

// Dispatcher routes classified lines to decoders and user hooks.
type Dispatcher struct {
	Ignored   irc.IgnoreSet
	Handlers  *events.Handlers
	Sink      Sink
	Logger    *log.Logger
	ErrorSink func(err error)
}

// Dispatch handles one classified line. line must not be retained past the
// call; irc.Parse slices alias it, and the decoders copy what they keep
// into strings before this returns.
func (d *Dispatcher) Dispatch(cmd irc.Command, line []byte) {
	if d.Ignored.Has(cmd) {
		return
	}

	if cmd == irc.Connected {
		first := d.Sink.MarkConnected()
		if first {
			d.fire0(d.Handlers.OnConnect)
		} else {
			d.fire0(d.Handlers.OnReconnect)
		}
		return
	}

	if cmd == irc.Reconnect {
		if d.Logger != nil {
			d.Logger.Info("server requested reconnect")
		}
		d.Sink.ScheduleRestart()
		d.fire0(d.Handlers.OnReconnect)
		return
	}

	if cmd == irc.Ping {
		d.Sink.Pong()
		return
	}

	m := irc.Parse(line)

	switch cmd {
	case irc.Privmsg:
		fire1(d, d.Handlers.OnMessage, events.DecodePrivateMessage(m))

	case irc.Whisper:
		fire1(d, d.Handlers.OnWhisper, events.DecodeWhisper(m))

	case irc.Usernotice:
		d.dispatchUserNotice(m)

	case irc.Clearchat:
		chatClear, userBan, userTimeout := events.DecodeClearChat(m)
		switch {
		case chatClear != nil:
			fire1(d, d.Handlers.OnChatClear, chatClear)
		case userTimeout != nil:
			fire1(d, d.Handlers.OnUserTimeout, userTimeout)
		default:
			fire1(d, d.Handlers.OnUserBan, userBan)
		}

	case irc.Clearmsg:
		fire1(d, d.Handlers.OnMessageDelete, events.DecodeClearMsg(m))

	case irc.Roomstate:
		d.dispatchRoomState(m)

	case irc.Part:
		part := events.DecodePart(m)
		d.Sink.RemoveChannel(part.Channel)
		if d.Logger != nil {
			d.Logger.Debugf("parted %s", part.Channel)
		}
		fire1(d, d.Handlers.OnChannelPart, part)

	case irc.Notice:
		d.dispatchNotice(m)

	case irc.Userstate:
		d.dispatchUserState(m, false)

	case irc.Globaluserstate:
		d.dispatchUserState(m, true)
	}
}

func (d *Dispatcher) dispatchUserNotice(m *irc.Message) {
	switch m.Tags["msg-id"] {
	case "sub", "resub":
		fire1(d, d.Handlers.OnSubscription, events.DecodeSubscription(m))
	case "subgift", "anonsubgift":
		fire1(d, d.Handlers.OnGiftSub, events.DecodeGiftSub(m))
	case "submysterygift":
		fire1(d, d.Handlers.OnGiftSubIntro, events.DecodeGiftSubIntro(m))
	case "raid":
		fire1(d, d.Handlers.OnRaid, events.DecodeRaid(m))
	case "giftpaidupgrade", "anongiftpaidupgrade":
		fire1(d, d.Handlers.OnPaidUpgrade, events.DecodePaidUpgrade(m))
	case "primepaidupgrade":
		fire1(d, d.Handlers.OnPrimeUpgrade, events.DecodePrimeUpgrade(m))
	case "announcement":
		fire1(d, d.Handlers.OnAnnouncement, events.DecodeAnnouncement(m))
	default:
		// Unrecognized msg-id: silently ignored per the dispatch table.
	}
}

func (d *Dispatcher) dispatchRoomState(m *irc.Message) {
	rs := events.DecodeRoomState(m)

	if rs.Full {
		d.Sink.AddChannel(rs)
		d.Sink.ReleaseJoinLatch(rs.Channel)
		fire1(d, d.Handlers.OnChannelJoin, rs)
		return
	}

	d.Sink.UpdateChannel(rs)

	switch {
	case rs.EmoteOnly != nil:
		fire1(d, d.Handlers.OnEmoteOnlyChange, rs)
	case rs.FollowersOnly != nil:
		fire1(d, d.Handlers.OnFollowersOnlyChange, rs)
	case rs.UniqueChat != nil:
		fire1(d, d.Handlers.OnUniqueChatChange, rs)
	case rs.SlowSeconds != nil:
		fire1(d, d.Handlers.OnSlowModeChange, rs)
	case rs.SubOnly != nil:
		fire1(d, d.Handlers.OnSubOnlyChange, rs)
	default:
		if d.Logger != nil {
			d.Logger.Warnf("unrecognized ROOMSTATE shape for %s", rs.Channel)
		}
	}
}

func (d *Dispatcher) dispatchNotice(m *irc.Message) {
	n := events.DecodeNotice(m)
	switch {
	case n.MsgID == "msg_channel_suspended":
		if d.Logger != nil {
			d.Logger.Errorf("channel suspended: %s", n.Channel)
		}
		d.reportError(ErrCodeAccountBanned, ErrAccountBanned)
	case strings.Contains(n.MsgID, "bad_auth"):
		if d.Logger != nil {
			d.Logger.Criticalf("authentication failed: %s", n.Message)
		}
		d.reportError(ErrCodeAuthFailed, ErrAuthFailed)
	}
	fire1(d, d.Handlers.OnNotice, n)
}

// reportError surfaces a DispatchError through ErrorSink, if the caller
// configured one; it never touches the dispatch loop itself.
func (d *Dispatcher) reportError(code string, err error) {
	if d.ErrorSink != nil {
		d.ErrorSink(&DispatchError{Code: code, Err: err})
	}
}

func (d *Dispatcher) dispatchUserState(m *irc.Message, global bool) {
	us := events.DecodeUserState(m, global)
	if !global && us.Mod {
		d.Sink.SetModerator(us.Channel)
	}
	fire1(d, d.Handlers.OnUserState, us)
}

// fire0 invokes a zero-argument hook in isolation from the dispatch loop.
func (d *Dispatcher) fire0(hook func()) {
	if hook == nil {
		return
	}
	go func() {
		defer d.recoverInto()
		hook()
	}()
}

// fire1 invokes a one-argument hook in isolation from the dispatch loop.
// Go methods cannot carry their own type parameters, so this is a free
// function taking the dispatcher explicitly.
func fire1[T any](d *Dispatcher, hook func(T), payload T) {
	if hook == nil {
		return
	}
	go func() {
		defer d.recoverInto()
		hook(payload)
	}()
}

func (d *Dispatcher) recoverInto() {
	if r := recover(); r != nil {
		if d.ErrorSink != nil {
			d.ErrorSink(handlerPanic{r})
		} else if d.Logger != nil {
			d.Logger.Errorf("event handler panic: %v", r)
		}
	}
}

type handlerPanic struct{ v any }

func (h handlerPanic) Error() string {
	return "tmi: event handler panicked"
}
