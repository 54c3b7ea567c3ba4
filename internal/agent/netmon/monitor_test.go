package netmon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/careview/vitalsync/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	err   error
	calls int
}

func (p *fakeProber) Ping(ctx context.Context) error {
	p.calls++
	return p.err
}

func TestPingMonitor_StartsOptimistic(t *testing.T) {
	m := NewPingMonitor(&fakeProber{}, time.Second, logging.NewNopLogger())
	assert.True(t, m.IsOnline())
}

func TestPingMonitor_SetOnlineNotifiesOnTransition(t *testing.T) {
	m := NewPingMonitor(&fakeProber{}, time.Second, logging.NewNopLogger())
	ctx := context.Background()

	var events []bool
	m.Subscribe(func(online bool) { events = append(events, online) })

	m.SetOnline(ctx, false)
	m.SetOnline(ctx, false) // same state, no event
	m.SetOnline(ctx, true)

	assert.Equal(t, []bool{false, true}, events)
	assert.True(t, m.IsOnline())
}

func TestPingMonitor_Unsubscribe(t *testing.T) {
	m := NewPingMonitor(&fakeProber{}, time.Second, logging.NewNopLogger())
	ctx := context.Background()

	var events int
	unsubscribe := m.Subscribe(func(bool) { events++ })

	m.SetOnline(ctx, false)
	require.Equal(t, 1, events)

	unsubscribe()
	unsubscribe() // second call is a no-op

	m.SetOnline(ctx, true)
	assert.Equal(t, 1, events)
}

func TestPingMonitor_MultipleSubscribers(t *testing.T) {
	m := NewPingMonitor(&fakeProber{}, time.Second, logging.NewNopLogger())
	ctx := context.Background()

	var a, b int
	m.Subscribe(func(bool) { a++ })
	m.Subscribe(func(bool) { b++ })

	m.SetOnline(ctx, false)

	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestPingMonitor_StartProbesUntilCanceled(t *testing.T) {
	probe := &fakeProber{err: errors.New("connection refused")}
	m := NewPingMonitor(probe, 5*time.Millisecond, logging.NewNopLogger())

	offline := make(chan struct{})
	m.Subscribe(func(online bool) {
		if !online {
			close(offline)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(done)
	}()

	select {
	case <-offline:
	case <-time.After(time.Second):
		t.Fatal("monitor never reported offline")
	}
	assert.False(t, m.IsOnline())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
