package harness

import "github.com/roach88/talentflow/internal/domain"

// Trace event types.
const (
	EventStep    = "step"
	EventPhase   = "phase"
	EventNotice  = "notice"
	EventOutcome = "outcome"
)

// TraceEvent is one entry of a scenario trace. Fields not relevant to the
// event type are left empty.
type TraceEvent struct {
	Seq     int    `json:"seq"`
	Step    int    `json:"step"`
	Type    string `json:"type"`
	Op      string `json:"op,omitempty"`
	Attempt int    `json:"attempt,omitempty"`
	Slot    string `json:"slot,omitempty"`
	Phase   string `json:"phase,omitempty"`
	Message string `json:"message,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Trace contains step boundaries, phase transitions and notices in the
	// order they happened.
	Trace []TraceEvent `json:"trace"`

	// Errors contains step and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Notices are the rollback messages raised, in order.
	Notices []string `json:"notices"`

	// Jobs is the final displayed job list.
	Jobs []domain.Job `json:"jobs"`

	// Candidates is the final displayed candidate board.
	Candidates []domain.Candidate `json:"candidates"`

	// Persisted is the stored jobs collection sorted by order.
	Persisted []domain.Job `json:"persisted"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Trace:   []TraceEvent{},
		Errors:  []string{},
		Notices: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addTrace appends an event, numbering it.
func (r *Result) addTrace(e TraceEvent) {
	e.Seq = len(r.Trace) + 1
	r.Trace = append(r.Trace, e)
}
