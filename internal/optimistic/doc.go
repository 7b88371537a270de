// Package optimistic applies mutations speculatively to local views of the
// job list and the candidate board, then commits or rolls back once the
// service answers.
//
// Every intent runs one attempt through the phases
//
//	Idle -> Pending -> Committed | RolledBack -> Idle
//
// On intent the controller captures the affected state (S0), presents the
// speculative state (S1) at once and calls the service. On success the view
// is reconciled according to the intent:
//
//   - status toggle keeps S1, refreshing only when the active status filter
//     no longer matches the job
//   - candidate move keeps S1 and never refreshes
//   - reorder discards S1 and rebuilds the view from the full, renumbered
//     sequence the service returns
//
// On failure S0 is restored verbatim, a Notice is emitted and nothing is
// retried.
//
// Several attempts may be pending at once, including on the same slot. The
// controller serializes its own bookkeeping but never holds a lock across a
// service call, so overlapping attempts are subject to the service's
// last-resolved-wins race.
package optimistic
