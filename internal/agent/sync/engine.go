package sync

import (
	"context"
	"fmt"
	"strconv"
	sysync "sync"
	"time"

	"github.com/careview/vitalsync/internal/agent/emr"
	"github.com/careview/vitalsync/internal/agent/models"
	"github.com/careview/vitalsync/internal/agent/netmon"
	"github.com/careview/vitalsync/internal/agent/repositories/profile"
	"github.com/careview/vitalsync/internal/agent/repositories/readings"
	"github.com/careview/vitalsync/internal/logging"
)

// Config holds the engine's tunables.
type Config struct {
	// RetryDelays is the escalating backoff table. The retry index saturates
	// at the last entry instead of growing unboundedly.
	RetryDelays []time.Duration

	// BatchSize bounds how many readings go into one sync request.
	BatchSize int

	// BatchPause is the pause between consecutive batches of one run.
	BatchPause time.Duration

	// BackgroundInterval is how often the background safety-net sync fires.
	BackgroundInterval time.Duration

	// InitialSyncDelay is how long after Start the first drain attempt runs.
	InitialSyncDelay time.Duration
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		RetryDelays:        []time.Duration{5 * time.Second, 15 * time.Second, 45 * time.Second, 2 * time.Minute, 5 * time.Minute},
		BatchSize:          20,
		BatchPause:         500 * time.Millisecond,
		BackgroundInterval: time.Minute,
		InitialSyncDelay:   2 * time.Second,
	}
}

// Result summarizes one drain of the pending backlog.
type Result struct {
	Synced    int
	Failed    int
	Remaining int
}

// Engine owns the sync state machine: it submits freshly captured readings,
// drains the unsynced backlog in batches, schedules backoff retries after
// failures, and reacts to reachability transitions. All outcomes are
// observable through the state publisher and the store's synced flags; the
// public operations never return errors to the capture path.
type Engine struct {
	store   readings.Repository
	profile profile.Repository
	client  emr.Client
	monitor netmon.Monitor
	clock   Clock
	cfg     Config
	log     logging.Logger
	state   *statePublisher

	mu            sysync.Mutex
	inFlight      bool
	lastRemaining int
	retryTimer    Timer
}

// NewEngine wires an engine. The clock is injectable so tests can simulate
// time; pass RealClock() in production.
func NewEngine(cfg Config, store readings.Repository, profileRepo profile.Repository,
	client emr.Client, monitor netmon.Monitor, clock Clock, log logging.Logger) *Engine {
	return &Engine{
		store:   store,
		profile: profileRepo,
		client:  client,
		monitor: monitor,
		clock:   clock,
		cfg:     cfg,
		log:     log,
		state:   newStatePublisher(),
	}
}

// State returns a snapshot of the current sync state.
func (e *Engine) State() State {
	return e.state.Snapshot()
}

// Subscribe registers a listener for sync state changes. The listener is
// invoked immediately with the current state and then synchronously on every
// mutation. The returned function unsubscribes; calling it twice is harmless.
func (e *Engine) Subscribe(listener func(State)) func() {
	return e.state.Subscribe(listener)
}

// SubmitReading attempts to deliver a single, already persisted reading
// right away. It reports true when the EMR accepted the reading (fresh
// insert or recognized duplicate) and false when it stays queued for a later
// drain. Failures never propagate to the caller; they surface through the
// published state.
func (e *Engine) SubmitReading(ctx context.Context, r *models.Reading) bool {
	patientID, ok := e.patientID(ctx)
	if !ok {
		// Precondition, not a retryable failure: no dedicated timer, the
		// reading is picked up by the next backlog drain.
		e.log.Warn(ctx, "no patient identity, reading kept pending", "reading", r.Id)
		e.RefreshPendingCount(ctx)
		return false
	}

	if !e.monitor.IsOnline() {
		e.log.Info(ctx, "offline, reading queued for later sync", "reading", r.Id)
		e.RefreshPendingCount(ctx)
		e.scheduleRetry(ctx)
		return false
	}

	now := e.clock.Now()
	e.state.update(func(s *State) {
		s.Status = StatusSyncing
		s.LastSyncAttempt = &now
	})

	resp, err := e.client.SyncVitals(ctx, patientID, []emr.VitalPayload{emr.PayloadFromReading(r)})
	if err == nil && (resp.Summary.Inserted > 0 || resp.Summary.DuplicatesSkipped > 0) {
		if err := e.store.MarkSynced(ctx, r.Id); err != nil {
			e.log.Error(ctx, "failed to mark reading synced", "reading", r.Id, "error", err)
		}
		done := e.clock.Now()
		e.state.update(func(s *State) {
			s.Status = StatusIdle
			s.LastSuccessfulSync = &done
			s.LastError = ""
			s.RetryCount = 0
		})
		e.RefreshPendingCount(ctx)
		e.log.Info(ctx, "reading synced", "reading", r.Id)
		return true
	}

	msg := "unknown error"
	switch {
	case err != nil:
		msg = err.Error()
	case len(resp.Results.Errors) > 0:
		msg = resp.Results.Errors[0].Error
	}
	e.log.Error(ctx, "sync failed", "reading", r.Id, "error", msg)
	e.state.update(func(s *State) {
		s.Status = StatusError
		s.LastError = msg
	})
	e.scheduleRetry(ctx)
	return false
}

// SyncPending drains the unsynced backlog in chronological batches. Batches
// go out sequentially; a failing item never aborts the run, it just stays
// unsynced. Concurrent calls coalesce: while a drain is in flight, later
// calls return immediately with the last-known remaining count instead of
// issuing overlapping batches.
func (e *Engine) SyncPending(ctx context.Context) Result {
	e.mu.Lock()
	if e.inFlight {
		remaining := e.lastRemaining
		e.mu.Unlock()
		e.log.Debug(ctx, "sync already in flight, coalescing")
		return Result{Remaining: remaining}
	}
	e.inFlight = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.inFlight = false
		e.mu.Unlock()
	}()

	if !e.monitor.IsOnline() {
		e.log.Info(ctx, "offline, skipping sync")
		return Result{Remaining: e.RefreshPendingCount(ctx)}
	}

	patientID, ok := e.patientID(ctx)
	if !ok {
		e.log.Warn(ctx, "no patient identity, skipping sync")
		return Result{Remaining: e.RefreshPendingCount(ctx)}
	}

	unsynced, err := e.store.GetUnsynced(ctx)
	if err != nil {
		e.log.Error(ctx, "failed to load unsynced readings", "error", err)
		return Result{Remaining: e.RefreshPendingCount(ctx)}
	}
	if len(unsynced) == 0 {
		e.setRemaining(0)
		return Result{}
	}

	e.log.Info(ctx, "syncing pending readings", "count", len(unsynced))
	now := e.clock.Now()
	e.state.update(func(s *State) {
		s.Status = StatusSyncing
		s.LastSyncAttempt = &now
	})

	var totalSynced, totalFailed int

	for start := 0; start < len(unsynced); start += e.cfg.BatchSize {
		end := min(start+e.cfg.BatchSize, len(unsynced))
		batch := unsynced[start:end]

		vitals := make([]emr.VitalPayload, 0, len(batch))
		for _, r := range batch {
			vitals = append(vitals, emr.PayloadFromReading(r))
		}

		resp, err := e.client.SyncVitals(ctx, patientID, vitals)
		if err != nil {
			e.log.Error(ctx, "batch sync failed", "size", len(batch), "error", err)
			totalFailed += len(batch)
		} else {
			syncedIds := resp.SyncedIds()
			if len(syncedIds) > 0 {
				if err := e.store.MarkSyncedBatch(ctx, syncedIds); err != nil {
					// Treated as none marked; the whole batch shows up in
					// the next drain.
					e.log.Error(ctx, "failed to mark batch synced", "error", err)
				} else {
					totalSynced += len(syncedIds)
				}
			}
			totalFailed += resp.Summary.Errors
			for _, item := range resp.Results.Errors {
				e.log.Warn(ctx, "reading rejected", "reading", item.AppReadingId, "error", item.Error)
			}
		}

		if end < len(unsynced) {
			e.clock.Sleep(ctx, e.cfg.BatchPause)
		}
	}

	remaining := e.RefreshPendingCount(ctx)

	done := e.clock.Now()
	e.state.update(func(s *State) {
		if remaining > 0 {
			s.Status = StatusError
		} else {
			s.Status = StatusIdle
			s.RetryCount = 0
		}
		if totalSynced > 0 {
			s.LastSuccessfulSync = &done
		}
		if totalFailed > 0 {
			s.LastError = fmt.Sprintf("%d readings failed to sync", totalFailed)
		} else {
			s.LastError = ""
		}
	})

	e.log.Info(ctx, "sync complete", "synced", totalSynced, "failed", totalFailed, "remaining", remaining)

	if remaining > 0 {
		e.scheduleRetry(ctx)
	}

	return Result{Synced: totalSynced, Failed: totalFailed, Remaining: remaining}
}

// ForceSyncAll is the user-facing "sync now": it drops any pending retry
// timer, resets the backoff streak, and drains immediately.
func (e *Engine) ForceSyncAll(ctx context.Context) Result {
	e.cancelRetry()
	e.state.update(func(s *State) { s.RetryCount = 0 })
	return e.SyncPending(ctx)
}

// RefreshPendingCount recomputes the pending count from the store and
// publishes it. Call it after writing readings directly to the store.
func (e *Engine) RefreshPendingCount(ctx context.Context) int {
	count, err := e.store.CountUnsynced(ctx)
	if err != nil {
		e.log.Error(ctx, "failed to count unsynced readings", "error", err)
		return e.state.Snapshot().PendingCount
	}
	e.setRemaining(count)
	return count
}

// HasPendingReadings reports whether anything is still waiting for delivery.
func (e *Engine) HasPendingReadings(ctx context.Context) bool {
	return e.RefreshPendingCount(ctx) > 0
}

// Start runs the engine until ctx is canceled: it seeds the pending count,
// follows reachability transitions, fires the background safety-net sync,
// and schedules the initial drain. It blocks; run it in its own goroutine.
func (e *Engine) Start(ctx context.Context) {
	e.RefreshPendingCount(ctx)

	unsubscribe := e.monitor.Subscribe(func(online bool) {
		e.handleConnectivity(ctx, online)
	})
	defer unsubscribe()

	initial := e.clock.AfterFunc(e.cfg.InitialSyncDelay, func() {
		if e.monitor.IsOnline() && e.HasPendingReadings(ctx) {
			e.SyncPending(ctx)
		}
	})
	defer initial.Stop()
	defer e.cancelRetry()

	ticker := e.clock.NewTicker(e.cfg.BackgroundInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C():
			e.backgroundTick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// backgroundTick is the safety net that guarantees forward progress even if
// a specific retry was lost: only when the engine sits idle with a nonzero
// backlog does it start a drain.
func (e *Engine) backgroundTick(ctx context.Context) {
	if !e.monitor.IsOnline() {
		return
	}
	if e.state.Snapshot().Status != StatusIdle {
		return
	}
	if pending := e.RefreshPendingCount(ctx); pending > 0 {
		e.log.Info(ctx, "background sync", "pending", pending)
		e.SyncPending(ctx)
	}
}

// handleConnectivity reacts to reachability edges: reconnecting triggers an
// immediate drain, going offline parks the engine and cancels any retry
// timer. In-flight requests are left to finish naturally; a result arriving
// after the transition is still truthful and still applied.
func (e *Engine) handleConnectivity(ctx context.Context, online bool) {
	if online {
		e.state.update(func(s *State) { s.Status = StatusIdle })
		e.SyncPending(ctx)
		return
	}
	e.state.update(func(s *State) { s.Status = StatusOffline })
	e.cancelRetry()
}

// scheduleRetry arms the single retry timer using the saturating backoff
// table. The retry count increments at schedule time, not when the timer
// fires. While offline no timer is armed; the reconnect edge takes over.
func (e *Engine) scheduleRetry(ctx context.Context) {
	e.cancelRetry()

	if !e.monitor.IsOnline() {
		e.log.Debug(ctx, "offline, will retry when online")
		return
	}

	retryCount := e.state.Snapshot().RetryCount
	idx := min(retryCount, len(e.cfg.RetryDelays)-1)
	delay := e.cfg.RetryDelays[idx]

	e.state.update(func(s *State) { s.RetryCount++ })

	t := e.clock.AfterFunc(delay, func() {
		e.clearRetryTimer()
		e.SyncPending(context.Background())
	})

	e.mu.Lock()
	if e.retryTimer != nil {
		e.retryTimer.Stop()
	}
	e.retryTimer = t
	e.mu.Unlock()

	e.log.Info(ctx, "retry scheduled", "delay", delay, "attempt", retryCount+1)
}

func (e *Engine) cancelRetry() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.retryTimer != nil {
		e.retryTimer.Stop()
		e.retryTimer = nil
	}
}

func (e *Engine) clearRetryTimer() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.retryTimer = nil
}

func (e *Engine) setRemaining(count int) {
	e.mu.Lock()
	e.lastRemaining = count
	e.mu.Unlock()
	e.state.update(func(s *State) { s.PendingCount = count })
}

// patientID resolves the owning identity fresh from the profile store, so an
// account switch mid-backlog is picked up on the next attempt.
func (e *Engine) patientID(ctx context.Context) (int, bool) {
	p, err := e.profile.Get(ctx)
	if err != nil {
		e.log.Error(ctx, "failed to load profile", "error", err)
		return 0, false
	}
	if p == nil {
		return 0, false
	}
	id, err := strconv.Atoi(p.PatientId)
	if err != nil {
		e.log.Warn(ctx, "patient id is not numeric", "patient_id", p.PatientId)
		return 0, false
	}
	return id, true
}
