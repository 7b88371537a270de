package domain

// Persisted collection keys.
const (
	KeyJobs        = "jobs"
	KeyCandidates  = "candidates"
	KeyAssessments = "assessments"
)

// CollectionKeys lists the three collections in load order.
var CollectionKeys = []string{KeyJobs, KeyCandidates, KeyAssessments}

// Dataset is the complete in-memory state: every job, every candidate and
// the assessments keyed by job id.
type Dataset struct {
	Jobs        []Job                 `json:"jobs"`
	Candidates  []Candidate           `json:"candidates"`
	Assessments map[string]Assessment `json:"assessments"`
}

// Clone returns a deep copy of d.
func (d Dataset) Clone() Dataset {
	return Dataset{
		Jobs:        CloneJobs(d.Jobs),
		Candidates:  CloneCandidates(d.Candidates),
		Assessments: CloneAssessments(d.Assessments),
	}
}

// CloneAssessments deep-copies an assessment map. A nil input yields nil.
func CloneAssessments(m map[string]Assessment) map[string]Assessment {
	if m == nil {
		return nil
	}
	out := make(map[string]Assessment, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}
