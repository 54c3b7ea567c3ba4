// Package sync implements the offline-first delivery of captured readings to
// the EMR.
//
// # Overview
//
// The Engine is the single owner of sync behavior:
//
//   - SubmitReading pushes one freshly captured reading right away.
//   - SyncPending drains the whole unsynced backlog in chronological batches,
//     coalescing concurrent invocations into the in-flight run.
//   - ForceSyncAll bypasses backoff for user-triggered "sync now".
//   - A saturating backoff table schedules retries after failures; a
//     background ticker is the safety net that keeps the backlog moving.
//
// Reachability transitions from netmon drive the offline/idle states: going
// offline cancels the retry timer, reconnecting triggers an immediate drain.
//
// # Observability
//
// Nothing errors out to the capture path. Every outcome is published through
// the subscribable State (status, pending count, last attempt/success, last
// error, retry count) and the store's synced flags.
package sync
