package tmi

import (
	"context"
	"testing"
	"time"

	"github.com/chatbridge/tmigo/internal/config"
	"github.com/chatbridge/tmigo/internal/events"
	"github.com/chatbridge/tmigo/internal/log"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Username = "alice"
	cfg.OAuthToken = "abcd"
	return cfg
}

func TestConnectHappyPath(t *testing.T) {
	tp := newFakeTransport()
	connected := make(chan struct{}, 1)
	client := New(testConfig(), tp, &events.Handlers{
		OnConnect: func() { connected <- struct{}{} },
	}, log.New("error", "test"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan bool, 1)
	go func() { done <- client.Connect(ctx) }()

	assertSent(t, tp, "CAP REQ :twitch.tv/tags twitch.tv/commands")
	assertSent(t, tp, "PASS oauth:abcd")
	assertSent(t, tp, "NICK alice")

	tp.Deliver(":tmi.twitch.tv 001 alice :Welcome")

	select {
	case ok := <-done:
		if !ok {
			t.Fatalf("Connect returned false")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Connect did not return")
	}
	mustReceiveTmi(t, connected)
}

func TestConnectAnonymous(t *testing.T) {
	tp := newFakeTransport()
	cfg := config.Default()
	cfg.Username = "" // anonymous: no token either
	client := New(cfg, tp, &events.Handlers{}, log.New("error", "test"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go client.Connect(ctx)

	assertSent(t, tp, "CAP REQ :twitch.tv/tags twitch.tv/commands")
	nick, ok := tp.nextSent(time.Second)
	if !ok {
		t.Fatalf("expected a NICK frame")
	}
	if len(nick) < len("NICK justinfan") || nick[:len("NICK justinfan")] != "NICK justinfan" {
		t.Fatalf("unexpected anonymous nick frame: %q", nick)
	}

	err := client.SendMessage(context.Background(), "bob", "hi", SendOptions{})
	if err == nil {
		t.Fatalf("expected send_message to refuse for an anonymous client")
	}
}

func TestJoinReleasesOnFullRoomState(t *testing.T) {
	tp := newFakeTransport()
	joined := make(chan *events.RoomStateChange, 1)
	client := New(testConfig(), tp, &events.Handlers{
		OnChannelJoin: func(rs *events.RoomStateChange) { joined <- rs },
	}, log.New("error", "test"))

	connectAndDrainLogin(t, client, tp)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result := make(chan bool, 1)
	go func() { result <- client.Join(ctx, "bob") }()

	assertSent(t, tp, "JOIN #bob")
	tp.Deliver("@emote-only=0;followers-only=-1;r9k=0;rituals=0;room-id=1;slow=0;subs-only=0 :tmi.twitch.tv ROOMSTATE #bob")

	if ok := <-result; !ok {
		t.Fatalf("Join returned false")
	}
	mustReceiveTmi(t, joined)

	names := client.JoinedChannels()
	if len(names) != 1 || names[0] != "bob" {
		t.Fatalf("unexpected joined set: %v", names)
	}

	bob, ok := client.Channel("bob")
	if !ok {
		t.Fatalf("expected bob to be joined")
	}
	if bob.FollowersOnly != -1 || bob.EmoteOnly || bob.SubOnly {
		t.Fatalf("unexpected roomstate flags for bob: %+v", bob)
	}
}

func TestPartialRoomStateUpdatesJoinedChannelDescriptor(t *testing.T) {
	tp := newFakeTransport()
	client := New(testConfig(), tp, &events.Handlers{}, log.New("error", "test"))
	connectAndDrainLogin(t, client, tp)

	result := make(chan bool, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go func() { result <- client.Join(ctx, "bob") }()

	assertSent(t, tp, "JOIN #bob")
	tp.Deliver("@emote-only=0;followers-only=-1;r9k=0;rituals=0;room-id=1;slow=0;subs-only=0 :tmi.twitch.tv ROOMSTATE #bob")
	if ok := <-result; !ok {
		t.Fatalf("Join returned false")
	}

	tp.Deliver("@slow=30 :tmi.twitch.tv ROOMSTATE #bob")

	// UpdateChannel runs synchronously within Dispatch before the partial
	// hook fires asynchronously, so the descriptor is already current once
	// Deliver returns.
	bob, ok := client.Channel("bob")
	if !ok {
		t.Fatalf("expected bob to still be joined")
	}
	if bob.SlowSeconds != 30 {
		t.Fatalf("expected slow mode to update to 30s, got %+v", bob)
	}
	if bob.FollowersOnly != -1 {
		t.Fatalf("expected unrelated flags to survive a partial update, got %+v", bob)
	}
}

func TestModeratorUplift(t *testing.T) {
	tp := newFakeTransport()
	cfg := testConfig()
	cfg.MessageRateLimit = 1
	cfg.ModMessageRateLimit = 5
	client := New(cfg, tp, &events.Handlers{}, log.New("error", "test"))
	connectAndDrainLogin(t, client, tp)

	tp.Deliver("@mod=1;subscriber=0 :tmi.twitch.tv USERSTATE #bob")

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := client.SendMessage(ctx, "bob", "x", SendOptions{}); err != nil {
			t.Fatalf("send %d to moderated channel failed: %v", i, err)
		}
		if _, ok := tp.nextSent(time.Second); !ok {
			t.Fatalf("expected send %d to reach the transport", i)
		}
	}

	// carol is not moderated: only 1 send per window permitted.
	if err := client.SendMessage(ctx, "carol", "x", SendOptions{}); err != nil {
		t.Fatalf("first send to carol failed: %v", err)
	}
	if _, ok := tp.nextSent(time.Second); !ok {
		t.Fatalf("expected first carol send to reach the transport")
	}

	overrideAfterFunc(t, func(d time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	})

	blocked := make(chan error, 1)
	blockCtx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	go func() { blocked <- client.SendMessage(blockCtx, "carol", "x", SendOptions{}) }()

	select {
	case err := <-blocked:
		if err == nil {
			t.Fatalf("expected second carol send to still be denied within the window")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("second carol send neither succeeded nor gave up")
	}
}

func TestTransportDropFiresOnDisconnect(t *testing.T) {
	tp := newFakeTransport()
	disconnected := make(chan error, 1)
	client := New(testConfig(), tp, &events.Handlers{
		OnDisconnect: func(err error) { disconnected <- err },
	}, log.New("error", "test"))
	connectAndDrainLogin(t, client, tp)

	wantErr := context.DeadlineExceeded
	tp.Drop(wantErr)

	got := mustReceiveTmi(t, disconnected)
	if got != wantErr {
		t.Fatalf("expected OnDisconnect to receive %v, got %v", wantErr, got)
	}
	if client.Phase() != Connecting {
		t.Fatalf("expected phase Connecting after drop, got %v", client.Phase())
	}
}

func TestSendMessageRefusesSpacedNonce(t *testing.T) {
	tp := newFakeTransport()
	client := New(testConfig(), tp, &events.Handlers{}, log.New("error", "test"))
	connectAndDrainLogin(t, client, tp)

	err := client.SendMessage(context.Background(), "bob", "hi", SendOptions{Nonce: "a b"})
	if err == nil {
		t.Fatalf("expected nonce-with-space to be refused")
	}
}

func mustReceiveTmi[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
		var zero T
		return zero
	}
}

func assertSent(t *testing.T, tp *fakeTransport, want string) {
	t.Helper()
	got, ok := tp.nextSent(2 * time.Second)
	if !ok {
		t.Fatalf("expected frame %q, got none", want)
	}
	if got != want {
		t.Fatalf("expected frame %q, got %q", want, got)
	}
}

// connectAndDrainLogin runs Connect and drains the three login frames
// without asserting their exact content, for tests that only care about
// post-login behavior.
func connectAndDrainLogin(t *testing.T, client *Client, tp *fakeTransport) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan bool, 1)
	go func() { done <- client.Connect(ctx) }()

	for i := 0; i < 3; i++ {
		if _, ok := tp.nextSent(time.Second); !ok {
			t.Fatalf("expected login frame %d", i)
		}
	}
	tp.Deliver(":tmi.twitch.tv 001 alice :Welcome")
	if ok := <-done; !ok {
		t.Fatalf("Connect returned false")
	}
}

func overrideAfterFunc(t *testing.T, f func(time.Duration) <-chan time.Time) {
	t.Helper()
	prev := afterFunc
	afterFunc = f
	t.Cleanup(func() { afterFunc = prev })
}
