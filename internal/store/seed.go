package store

import (
	"fmt"
	"math/rand/v2"

	"github.com/roach88/talentflow/internal/domain"
)

// Seed sizes.
const (
	SeedJobCount       = 25
	SeedCandidateCount = 1000
)

var seedTags = []string{"React", "Node.js", "TypeScript"}

// SeedRand is the random source consumed by Seed.
type SeedRand interface {
	Float64() float64
	IntN(n int) int
}

// NewSeedRand returns a deterministic source for the given seed.
func NewSeedRand(seed uint64) SeedRand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Seed generates the synthetic dataset: 25 jobs, 1000 candidates and one
// assessment for job-1 that exercises every question kind.
func Seed(rnd SeedRand) domain.Dataset {
	jobs := make([]domain.Job, SeedJobCount)
	for i := range jobs {
		n := i + 1
		title := fmt.Sprintf("Software Engineer %d", n)
		status := domain.JobStatusArchived
		if rnd.Float64() > 0.3 {
			status = domain.JobStatusActive
		}
		jobs[i] = domain.Job{
			ID:     fmt.Sprintf("job-%d", n),
			Title:  title,
			Slug:   domain.Slugify(title),
			Status: status,
			Tags:   append([]string(nil), seedTags[:rnd.IntN(len(seedTags))+1]...),
			Order:  n,
		}
	}

	cands := make([]domain.Candidate, SeedCandidateCount)
	for i := range cands {
		n := i + 1
		cands[i] = domain.Candidate{
			ID:    fmt.Sprintf("cand-%d", n),
			Name:  fmt.Sprintf("Candidate %d", n),
			Email: fmt.Sprintf("candidate%d@example.com", n),
			JobID: fmt.Sprintf("job-%d", rnd.IntN(SeedJobCount)+1),
			Stage: domain.Stages[rnd.IntN(len(domain.Stages))],
		}
	}

	return domain.Dataset{
		Jobs:       jobs,
		Candidates: cands,
		Assessments: map[string]domain.Assessment{
			"job-1": seedAssessment(),
		},
	}
}

func seedAssessment() domain.Assessment {
	lo, hi := 1.0, 10.0
	return domain.Assessment{
		ID:    "assess-1",
		JobID: "job-1",
		Questions: []domain.Question{
			{ID: "q1", Type: domain.QuestionSingleChoice, Label: "Years of React experience?",
				Options: []string{"0-1", "1-3", "3-5", "5+"}, Required: true},
			{ID: "q2", Type: domain.QuestionMultiChoice, Label: "Which state management libraries have you used?",
				Options: []string{"Redux", "MobX", "Zustand", "Context API"}, Required: true},
			{ID: "q3", Type: domain.QuestionShortText, Label: "Link to your GitHub profile.", Required: true},
			{ID: "q4", Type: domain.QuestionLongText, Label: "Describe a challenging technical problem you solved."},
			{ID: "q5", Type: domain.QuestionNumeric, Label: "On a scale of 1-10, how proficient are you with TypeScript?",
				Min: &lo, Max: &hi, Required: true},
			{ID: "q6", Type: domain.QuestionFileUpload, Label: "Upload your resume.", Required: true},
		},
	}
}
