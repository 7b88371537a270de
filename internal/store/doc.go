// Package store provides the SQLite-backed durable store for the recruiting
// dataset.
//
// The store holds three named collections, each a single JSON document:
//
//	jobs         sequence of Job
//	candidates   sequence of Candidate
//	assessments  mapping jobId -> Assessment
//
// On Open the three collections are loaded into an in-memory snapshot. If
// any of them is missing or cannot be parsed, the seeder runs once and all
// three are written back together. A payload that fails to parse is a
// CorruptStateError: it is logged and treated exactly like absence, never
// returned to the caller.
//
// Every Save is a full collection replace and also refreshes the snapshot,
// so later reads observe the write.
//
// # Concurrency
//
// Snapshot fields are guarded by a mutex for memory safety only. There is no
// lock spanning a caller's read-modify-write: two callers that read the same
// collection, modify it independently and save will race, and the last save
// wins. Callers that need to avoid lost updates must serialize themselves.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - single open connection: SQLite has one writer anyway
package store
