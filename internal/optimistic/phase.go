package optimistic

// Phase is where an attempt is in its lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseCommitted
	PhaseRolledBack
)

// String returns the phase name used in logs and traces.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseCommitted:
		return "committed"
	case PhaseRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// Intent names the kind of mutation.
type Intent string

const (
	IntentToggle  Intent = "toggle"
	IntentReorder Intent = "reorder"
	IntentMove    Intent = "move"
)

// JobSlot is the slot of a status toggle on job id.
func JobSlot(id string) string { return "job:" + id }

// CandidateSlot is the slot of a stage move of candidate id.
func CandidateSlot(id string) string { return "candidate:" + id }

// ReorderSlot is shared by every reorder of the job list.
const ReorderSlot = "jobs:order"

// Event reports a phase transition of one attempt.
type Event struct {
	Attempt int
	Intent  Intent
	Slot    string
	Phase   Phase
	Err     error
}

// Observer receives every phase transition, in order, while the controller
// holds its lock. It must not call back into the controller.
type Observer func(Event)

// Notice is the user-visible signal raised when an attempt rolls back.
type Notice struct {
	Intent  Intent
	Slot    string
	Message string
}

// Notifier receives rollback notices.
type Notifier func(Notice)

// Failure messages shown to the user.
const (
	MessageToggleFailed  = "Failed to update job status. Please try again."
	MessageReorderFailed = "Failed to reorder jobs. The server might be busy. Please try again."
	MessageMoveFailed    = "Failed to move candidate. Please try again."
)

func failureMessage(intent Intent) string {
	switch intent {
	case IntentToggle:
		return MessageToggleFailed
	case IntentReorder:
		return MessageReorderFailed
	default:
		return MessageMoveFailed
	}
}
