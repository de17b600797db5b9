package tmi

import (
	"context"
	"time"
)

// latch is a one-shot-at-a-time rendezvous: each Release permits exactly
// one pending or future Wait to proceed. Repeated releases with no
// intervening Wait do not accumulate credit — the buffered channel's
// capacity of one, combined with a non-blocking send, is the idempotent
// "already has a pending token" check the spec calls for.
type latch struct {
	ch chan struct{}
}

func newLatch() *latch {
	return &latch{ch: make(chan struct{}, 1)}
}

// Release hands one permit to a waiter, discarding the release if a permit
// is already pending.
func (l *latch) Release() {
	select {
	case l.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until Release is called, ctx is done, or timeout elapses,
// returning true only in the first case.
func (l *latch) Wait(ctx context.Context, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-l.ch:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}
