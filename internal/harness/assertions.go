package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/talentflow/internal/domain"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		switch event.Type {
		case EventStep:
			fmt.Fprintf(&buf, "  [%d] step %d %s\n", event.Seq, event.Step, event.Op)
		case EventPhase:
			fmt.Fprintf(&buf, "  [%d]   %s #%d %s\n", event.Seq, event.Slot, event.Attempt, event.Phase)
		case EventNotice:
			fmt.Fprintf(&buf, "  [%d]   notice %q\n", event.Seq, event.Message)
		case EventOutcome:
			fmt.Fprintf(&buf, "  [%d]   -> %s\n", event.Seq, event.Message)
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against the result and returns
// the failure messages. An empty slice means all assertions passed.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return failures
}

func evaluate(r *Result, a Assertion) error {
	switch a.Type {
	case AssertJobOrder:
		return assertIDs(a.Type, a.Jobs, jobIDs(r.Jobs), r.Trace)
	case AssertPersistedJobOrder:
		return assertIDs(a.Type, a.Jobs, jobIDs(r.Persisted), r.Trace)
	case AssertJobStatus:
		return assertJobStatus(r, a)
	case AssertCandidateStage:
		return assertCandidateStage(r, a)
	case AssertNotices:
		if !slices.Equal(a.Messages, r.Notices) {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%q", a.Messages),
				Actual:   fmt.Sprintf("%q", r.Notices),
				Trace:    r.Trace,
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

func assertIDs(kind string, want, got []string, trace []TraceEvent) error {
	if slices.Equal(want, got) {
		return nil
	}
	return &AssertionError{
		Type:     kind,
		Expected: strings.Join(want, ", "),
		Actual:   strings.Join(got, ", "),
		Trace:    trace,
	}
}

func assertJobStatus(r *Result, a Assertion) error {
	idx := slices.IndexFunc(r.Jobs, func(j domain.Job) bool { return j.ID == a.Job })
	actual := "not in view"
	if idx >= 0 {
		actual = string(r.Jobs[idx].Status)
	}
	if actual == a.Status {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%s is %s", a.Job, a.Status),
		Actual:   actual,
		Trace:    r.Trace,
	}
}

func assertCandidateStage(r *Result, a Assertion) error {
	idx := slices.IndexFunc(r.Candidates, func(c domain.Candidate) bool { return c.ID == a.Candidate })
	actual := "not on board"
	if idx >= 0 {
		actual = string(r.Candidates[idx].Stage)
	}
	if actual == a.Stage {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%s in %s", a.Candidate, a.Stage),
		Actual:   actual,
		Trace:    r.Trace,
	}
}

func jobIDs(jobs []domain.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}
