// Package service implements the recruiting operations on top of the
// durable store, with every call routed through the unreliable service
// simulator.
//
// # Read-modify-write
//
// Each mutation reads the current snapshot, computes the complete new
// collection, waits out the simulated call, and only then persists. A
// simulated failure persists nothing. Because the new collection is computed
// before the wait, two overlapping mutations on the same collection race:
// whichever resolves last overwrites the other's effect. This mirrors the
// behavior of the system being modelled and is intentionally not fixed
// here; callers that cannot tolerate lost updates must serialize their
// mutations.
//
// # Errors
//
// Operations return one of:
//   - *Error with CodeValidation, raised before the simulator is consulted
//   - *simulator.NetworkError, the simulated transient failure
//   - *Error with CodeNotFound, reported after the simulated wait
//   - wrapped store errors for real I/O failures
package service
