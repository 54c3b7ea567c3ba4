package sync

import (
	"sync"
	"time"
)

// Status is the engine's externally visible phase.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusOffline Status = "offline"
	StatusError   Status = "error"
)

// State is the observable sync state. It lives in memory only; on restart
// PendingCount is recomputed from the store and everything else starts fresh.
type State struct {
	Status             Status
	PendingCount       int
	LastSyncAttempt    *time.Time
	LastSuccessfulSync *time.Time
	LastError          string
	RetryCount         int
}

// HasError reports whether the last attempt left an error behind.
func (s State) HasError() bool {
	return s.Status == StatusError || s.LastError != ""
}

// statePublisher holds the current State and fans mutations out to
// subscribers. Notification happens synchronously on the mutating call
// stack, so a caller observing state right after a state-changing call never
// sees a stale value. Delivery order across subscribers is unspecified.
type statePublisher struct {
	mu        sync.Mutex
	state     State
	nextID    int
	listeners map[int]func(State)
}

func newStatePublisher() *statePublisher {
	return &statePublisher{
		state:     State{Status: StatusIdle},
		listeners: make(map[int]func(State)),
	}
}

// Snapshot returns a copy of the current state.
func (p *statePublisher) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Subscribe registers a listener, immediately invokes it with the current
// state, and returns an idempotent unsubscribe function.
func (p *statePublisher) Subscribe(listener func(State)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = listener
	current := p.state
	p.mu.Unlock()

	listener(current)

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

// update applies mutate to the state and notifies every subscriber with the
// resulting snapshot. Listeners run outside the lock so they may call
// Snapshot or Subscribe without deadlocking.
func (p *statePublisher) update(mutate func(*State)) {
	p.mu.Lock()
	mutate(&p.state)
	snapshot := p.state
	listeners := make([]func(State), 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	p.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}
