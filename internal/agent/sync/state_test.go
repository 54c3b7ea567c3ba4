package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe_ImmediatelyDeliversCurrentState(t *testing.T) {
	p := newStatePublisher()

	var got []State
	unsubscribe := p.Subscribe(func(s State) { got = append(got, s) })
	defer unsubscribe()

	require.Len(t, got, 1)
	assert.Equal(t, StatusIdle, got[0].Status)
	assert.Equal(t, 0, got[0].PendingCount)
}

func TestUpdate_NotifiesSynchronously(t *testing.T) {
	p := newStatePublisher()

	var got []State
	unsubscribe := p.Subscribe(func(s State) { got = append(got, s) })
	defer unsubscribe()

	p.update(func(s *State) {
		s.Status = StatusSyncing
		s.PendingCount = 3
	})

	// no deferral: by the time update returns, the listener has run
	require.Len(t, got, 2)
	assert.Equal(t, StatusSyncing, got[1].Status)
	assert.Equal(t, 3, got[1].PendingCount)
}

func TestUnsubscribe_IsIdempotent(t *testing.T) {
	p := newStatePublisher()

	calls := 0
	unsubscribe := p.Subscribe(func(State) { calls++ })

	unsubscribe()
	unsubscribe() // second call must be harmless

	p.update(func(s *State) { s.PendingCount = 1 })
	assert.Equal(t, 1, calls, "only the immediate delivery should have happened")
}

func TestMultipleSubscribers(t *testing.T) {
	p := newStatePublisher()

	a, b := 0, 0
	unsubA := p.Subscribe(func(State) { a++ })
	unsubB := p.Subscribe(func(State) { b++ })
	defer unsubA()
	defer unsubB()

	p.update(func(s *State) { s.Status = StatusError })

	assert.Equal(t, 2, a)
	assert.Equal(t, 2, b)
}

func TestListenerMayReadStateWithoutDeadlock(t *testing.T) {
	p := newStatePublisher()

	var seen Status
	unsubscribe := p.Subscribe(func(State) { seen = p.Snapshot().Status })
	defer unsubscribe()

	p.update(func(s *State) { s.Status = StatusOffline })
	assert.Equal(t, StatusOffline, seen)
}

func TestHasError(t *testing.T) {
	assert.False(t, State{Status: StatusIdle}.HasError())
	assert.True(t, State{Status: StatusError}.HasError())
	assert.True(t, State{Status: StatusIdle, LastError: "boom"}.HasError())
}
