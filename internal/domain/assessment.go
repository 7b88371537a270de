package domain

// QuestionType tags the variant of a Question.
type QuestionType string

const (
	QuestionShortText    QuestionType = "short-text"
	QuestionLongText     QuestionType = "long-text"
	QuestionSingleChoice QuestionType = "single-choice"
	QuestionMultiChoice  QuestionType = "multi-choice"
	QuestionNumeric      QuestionType = "numeric"
	QuestionFileUpload   QuestionType = "file-upload"
)

// QuestionTypes lists every question kind.
var QuestionTypes = []QuestionType{
	QuestionShortText, QuestionLongText, QuestionSingleChoice,
	QuestionMultiChoice, QuestionNumeric, QuestionFileUpload,
}

// Valid reports whether t is a known question kind.
func (t QuestionType) Valid() bool {
	for _, qt := range QuestionTypes {
		if t == qt {
			return true
		}
	}
	return false
}

// IsChoice reports whether questions of this kind carry options.
func (t QuestionType) IsChoice() bool {
	return t == QuestionSingleChoice || t == QuestionMultiChoice
}

// Question is one entry of an assessment. Options is only meaningful for
// choice kinds; Min and Max only for numeric.
type Question struct {
	ID       string       `json:"id" yaml:"id,omitempty"`
	Type     QuestionType `json:"type" yaml:"type" validate:"question_type"`
	Label    string       `json:"label" yaml:"label" validate:"not_blank"`
	Required bool         `json:"required" yaml:"required"`
	Options  []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Min      *float64     `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *float64     `json:"max,omitempty" yaml:"max,omitempty"`
}

// Clone returns a deep copy of q.
func (q Question) Clone() Question {
	out := q
	if q.Options != nil {
		out.Options = append([]string(nil), q.Options...)
	}
	if q.Min != nil {
		v := *q.Min
		out.Min = &v
	}
	if q.Max != nil {
		v := *q.Max
		out.Max = &v
	}
	return out
}

// Assessment is the questionnaire attached to a job. There is at most one
// per job, keyed by JobID.
type Assessment struct {
	ID        string     `json:"id" yaml:"id,omitempty"`
	JobID     string     `json:"jobId" yaml:"jobId,omitempty"`
	Questions []Question `json:"questions" yaml:"questions" validate:"dive"`
}

// Clone returns a deep copy of a.
func (a Assessment) Clone() Assessment {
	out := a
	if a.Questions != nil {
		out.Questions = make([]Question, len(a.Questions))
		for i, q := range a.Questions {
			out.Questions[i] = q.Clone()
		}
	}
	return out
}

// BlankAssessment is the empty questionnaire offered when a job has none yet.
func BlankAssessment(jobID string) Assessment {
	return Assessment{ID: "assess-" + jobID, JobID: jobID, Questions: []Question{}}
}
