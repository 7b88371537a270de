package domain

// Stage is a candidate's position in the hiring pipeline. Any stage may move
// to any other stage, including backwards.
type Stage string

const (
	StageApplied  Stage = "applied"
	StageScreen   Stage = "screen"
	StageTech     Stage = "tech"
	StageOffer    Stage = "offer"
	StageHired    Stage = "hired"
	StageRejected Stage = "rejected"
)

// Stages lists every stage in pipeline order.
var Stages = []Stage{StageApplied, StageScreen, StageTech, StageOffer, StageHired, StageRejected}

// Valid reports whether s is one of the six defined stages.
func (s Stage) Valid() bool {
	for _, st := range Stages {
		if s == st {
			return true
		}
	}
	return false
}

// Candidate is an applicant attached to a job. JobID is not enforced as a
// foreign key.
type Candidate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	JobID string `json:"jobId"`
	Stage Stage  `json:"stage" validate:"candidate_stage"`
}

// CloneCandidates copies a candidate slice. A nil input yields nil.
func CloneCandidates(cands []Candidate) []Candidate {
	if cands == nil {
		return nil
	}
	return append([]Candidate(nil), cands...)
}

// FilterCandidates returns the candidates whose name or email contains
// search, ignoring case. An empty search returns every candidate.
func FilterCandidates(cands []Candidate, search string) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if search == "" || ContainsFold(c.Name, search) || ContainsFold(c.Email, search) {
			out = append(out, c)
		}
	}
	return out
}

// GroupByStage buckets candidates per stage, preserving input order inside
// each bucket. Every stage has an entry, possibly empty.
func GroupByStage(cands []Candidate) map[Stage][]Candidate {
	out := make(map[Stage][]Candidate, len(Stages))
	for _, st := range Stages {
		out[st] = []Candidate{}
	}
	for _, c := range cands {
		out[c.Stage] = append(out[c.Stage], c)
	}
	return out
}
