// Package domain defines the recruiting data model shared by every layer:
// jobs, candidates, assessments and the query types used to page through jobs.
//
// Values in this package are plain data. They carry JSON tags matching the
// persisted layout of the durable store, so a collection written by one
// version of the store can be read back without translation.
//
// Slices inside Job, Assessment and Question are reference types; any code
// that keeps a snapshot for later comparison or rollback must Clone first.
package domain
