package ratelimit

import "testing"

func clockAt(ms int64) func() int64 {
	return func() int64 { return ms }
}

func TestMaySendPerChannelCap(t *testing.T) {
	g := New(2, 5, 20, false)
	g.SetClock(clockAt(0))

	if !g.MaySend("bob", false) {
		t.Fatal("first send should be allowed")
	}
	if !g.MaySend("bob", false) {
		t.Fatal("second send should be allowed")
	}
	if g.MaySend("bob", false) {
		t.Fatal("third send should be denied at normal cap of 2")
	}

	// Other channel has its own ledger in per-channel mode.
	if !g.MaySend("carol", false) {
		t.Fatal("send to a different channel should not be capped by bob's ledger")
	}
}

func TestMaySendModeratorUplift(t *testing.T) {
	g := New(2, 5, 20, false)
	g.SetClock(clockAt(0))

	for i := 0; i < 2; i++ {
		if !g.MaySend("bob", false) {
			t.Fatalf("send %d should be allowed under normal cap", i)
		}
	}
	if g.MaySend("bob", false) {
		t.Fatal("non-moderator should be capped at normalLimit")
	}
	if !g.MaySend("bob", true) {
		t.Fatal("moderator should have headroom up to modLimit")
	}
}

func TestMaySendWindowSlides(t *testing.T) {
	g := New(1, 1, 20, false)
	clock := int64(0)
	g.SetClock(func() int64 { return clock })

	if !g.MaySend("bob", false) {
		t.Fatal("first send should be allowed")
	}
	if g.MaySend("bob", false) {
		t.Fatal("second send should be denied within the window")
	}

	// Exactly at the window boundary the entry is expired (strict <
	// comparison against elapsed).
	clock = sendWindow.Milliseconds()
	if !g.MaySend("bob", false) {
		t.Fatal("send at the window boundary should be allowed")
	}
}

func TestMaySendGlobalMode(t *testing.T) {
	g := New(2, 3, 20, true)
	g.SetClock(clockAt(0))

	if !g.MaySend("bob", false) {
		t.Fatal("send 1 should be allowed")
	}
	if !g.MaySend("carol", false) {
		t.Fatal("send 2 should be allowed (global headroom under normalLimit)")
	}
	if g.MaySend("dave", false) {
		t.Fatal("non-moderator should be capped at normalLimit globally")
	}
	if !g.MaySend("dave", true) {
		t.Fatal("moderator should have headroom up to modLimit globally")
	}
	if g.MaySend("erin", true) {
		t.Fatal("even a moderator is capped at modLimit globally")
	}
}

func TestMayJoinCap(t *testing.T) {
	g := New(20, 100, 2, false)
	g.SetClock(clockAt(0))

	if !g.MayJoin() {
		t.Fatal("first join should be allowed")
	}
	if !g.MayJoin() {
		t.Fatal("second join should be allowed")
	}
	if g.MayJoin() {
		t.Fatal("third join should be denied at cap of 2")
	}
}

func TestMayJoinWindowSlides(t *testing.T) {
	g := New(20, 100, 1, false)
	clock := int64(0)
	g.SetClock(func() int64 { return clock })

	if !g.MayJoin() {
		t.Fatal("first join should be allowed")
	}
	if g.MayJoin() {
		t.Fatal("second join should be denied within the window")
	}

	clock = joinWindow.Milliseconds()
	if !g.MayJoin() {
		t.Fatal("join at the window boundary should be allowed")
	}
}
