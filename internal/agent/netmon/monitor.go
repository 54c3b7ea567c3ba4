// Package netmon tracks network reachability of the EMR backend.
//
// Reachability is exposed two ways: level-triggered (IsOnline reports the
// current state) and edge-triggered (subscribers are called on every
// transition). The sync engine uses the transitions to drain its backlog on
// reconnect and to stop retrying while offline.
package netmon

import (
	"context"
	"sync"
	"time"

	"github.com/careview/vitalsync/internal/logging"
)

// Monitor is the reachability contract consumed by the sync engine.
type Monitor interface {
	// IsOnline reports the last observed connectivity state.
	IsOnline() bool

	// Subscribe registers a listener invoked synchronously on every
	// online/offline transition. The returned function removes the
	// listener; calling it more than once is harmless.
	Subscribe(listener func(online bool)) (unsubscribe func())
}

// Prober is the probe used to decide reachability. emr.Client satisfies it.
type Prober interface {
	Ping(ctx context.Context) error
}

// PingMonitor implements Monitor by probing the backend on a fixed interval.
type PingMonitor struct {
	probe        Prober
	interval     time.Duration
	probeTimeout time.Duration
	log          logging.Logger

	mu        sync.Mutex
	online    bool
	nextID    int
	listeners map[int]func(bool)
}

// NewPingMonitor builds a monitor that probes every interval. The monitor
// assumes it is online until the first probe says otherwise, matching the
// optimistic behavior expected at app start.
func NewPingMonitor(probe Prober, interval time.Duration, log logging.Logger) *PingMonitor {
	return &PingMonitor{
		probe:        probe,
		interval:     interval,
		probeTimeout: 3 * time.Second,
		log:          log,
		online:       true,
		listeners:    make(map[int]func(bool)),
	}
}

func (m *PingMonitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

func (m *PingMonitor) Subscribe(listener func(online bool)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = listener

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// Start probes the backend until ctx is canceled. It blocks; run it in its
// own goroutine.
func (m *PingMonitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, m.probeTimeout)
			err := m.probe.Ping(probeCtx)
			cancel()

			m.SetOnline(ctx, err == nil)

		case <-ctx.Done():
			return
		}
	}
}

// SetOnline records the observed state and, on a transition, notifies
// subscribers synchronously. It is exported so platform connectivity signals
// can be fed in directly alongside the probe loop.
func (m *PingMonitor) SetOnline(ctx context.Context, online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	listeners := make([]func(bool), 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	m.mu.Unlock()

	if online {
		m.log.Info(ctx, "network reachable")
	} else {
		m.log.Warn(ctx, "network unreachable")
	}

	for _, l := range listeners {
		l(online)
	}
}
