package testutil

import (
	"fmt"

	"github.com/roach88/talentflow/internal/domain"
)

// Fixture builds a deterministic dataset: jobs job-1..job-N titled
// "Job N" in order N, all active and tagged "Go"; candidates cand-1..cand-M
// in stage applied, attached round-robin to the jobs; one assessment for
// job-1 when there is at least one job.
func Fixture(jobs, candidates int) domain.Dataset {
	ds := domain.Dataset{
		Jobs:        make([]domain.Job, 0, jobs),
		Candidates:  make([]domain.Candidate, 0, candidates),
		Assessments: map[string]domain.Assessment{},
	}
	for i := 1; i <= jobs; i++ {
		title := fmt.Sprintf("Job %d", i)
		ds.Jobs = append(ds.Jobs, domain.Job{
			ID:     fmt.Sprintf("job-%d", i),
			Title:  title,
			Slug:   domain.Slugify(title),
			Status: domain.JobStatusActive,
			Tags:   []string{"Go"},
			Order:  i,
		})
	}
	for i := 1; i <= candidates; i++ {
		jobID := ""
		if jobs > 0 {
			jobID = fmt.Sprintf("job-%d", (i-1)%jobs+1)
		}
		ds.Candidates = append(ds.Candidates, domain.Candidate{
			ID:    fmt.Sprintf("cand-%d", i),
			Name:  fmt.Sprintf("Candidate %d", i),
			Email: fmt.Sprintf("candidate%d@example.com", i),
			JobID: jobID,
			Stage: domain.StageApplied,
		})
	}
	if jobs > 0 {
		ds.Assessments["job-1"] = domain.Assessment{
			ID:    "assess-1",
			JobID: "job-1",
			Questions: []domain.Question{
				{ID: "q1", Type: domain.QuestionShortText, Label: "GitHub profile", Required: true},
			},
		}
	}
	return ds
}

// JobIDs returns the ids of jobs in slice order.
func JobIDs(jobs []domain.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

// JobOrders returns the order values of jobs in slice order.
func JobOrders(jobs []domain.Job) []int {
	out := make([]int, len(jobs))
	for i, j := range jobs {
		out[i] = j.Order
	}
	return out
}
