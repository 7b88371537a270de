// Package harness runs scripted scenarios against the optimistic-update
// controller and checks the resulting views, persisted state and phase
// trace.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: reorder_commit
//	description: "Dragging the first job to the end renumbers the list"
//	fixture:
//	  jobs: 3
//	  candidates: 2
//	  archived: [job-2]
//	steps:
//	  - op: load_jobs
//	    filter: { status: active }
//	  - op: reorder
//	    from: 1
//	    to: 3
//	  - op: toggle
//	    job: job-1
//	    fail: true
//	assertions:
//	  - type: job_order
//	    jobs: [job-2, job-3, job-1]
//
// Step ops are load_jobs, load_candidates, toggle, reorder and move. A step
// with fail: true forces the simulated call behind that step to fail, and
// the step is then expected to return an error.
//
// # Assertion Types
//
//   - job_order: ids of the displayed job list, in display order
//   - persisted_job_order: ids of the stored jobs, sorted by order
//   - job_status: status of a displayed job
//   - candidate_stage: stage of a candidate on the displayed board
//   - notices: every rollback message raised, in order
//
// # Deterministic Testing
//
// Each scenario runs against a fresh in-memory store seeded from
// testutil.Fixture. The simulator never sleeps and fails only where a step
// says so, which makes the trace identical across runs and suitable for
// golden comparison.
package harness
