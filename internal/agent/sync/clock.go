package sync

import (
	"context"
	"time"
)

// Clock abstracts time so retry scheduling and batch pacing can be driven by
// a fake clock in tests instead of wall-clock delays.
type Clock interface {
	Now() time.Time

	// AfterFunc runs f in its own goroutine after d has elapsed and returns
	// a handle that can cancel the call.
	AfterFunc(d time.Duration, f func()) Timer

	// Sleep pauses for d or until ctx is canceled, whichever comes first.
	Sleep(ctx context.Context, d time.Duration)

	// NewTicker delivers ticks every d until stopped.
	NewTicker(d time.Duration) Ticker
}

// Timer is a cancellable delayed call.
type Timer interface {
	// Stop cancels the pending call. It reports whether the call was still
	// pending.
	Stop() bool
}

// Ticker is a periodic tick source.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (realClock) Sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (realClock) NewTicker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

type realTicker struct{ t *time.Ticker }

func (t realTicker) C() <-chan time.Time { return t.t.C }
func (t realTicker) Stop()               { t.t.Stop() }
