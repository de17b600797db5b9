package tmi

import "time"

// afterFunc is time.After by default; tests override it to collapse the
// 2500ms/1000ms retry delays instead of sleeping through them.
var afterFunc = time.After

func timeAfter(d time.Duration) <-chan time.Time {
	return afterFunc(d)
}
