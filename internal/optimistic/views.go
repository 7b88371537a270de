package optimistic

import (
	"context"

	"github.com/roach88/talentflow/internal/domain"
)

// JobsView is the displayed page of the job list.
type JobsView struct {
	Filter domain.JobFilter
	Jobs   []domain.Job
	Total  int
	// Err is the last read failure. A failed read leaves Jobs empty rather
	// than showing a stale page.
	Err error
}

func (v JobsView) clone() JobsView {
	v.Jobs = domain.CloneJobs(v.Jobs)
	return v
}

// CandidatesView is the displayed candidate board.
type CandidatesView struct {
	Candidates []domain.Candidate
	Err        error
}

func (v CandidatesView) clone() CandidatesView {
	v.Candidates = domain.CloneCandidates(v.Candidates)
	return v
}

// Jobs returns a copy of the job list view.
func (c *Controller) Jobs() JobsView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jobs.clone()
}

// Candidates returns a copy of the candidate board view.
func (c *Controller) Candidates() CandidatesView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cands.clone()
}

// LoadJobs fetches one page of jobs into the view. On failure the view is
// cleared and carries the error.
func (c *Controller) LoadJobs(ctx context.Context, f domain.JobFilter) error {
	f = f.Normalized()
	page, err := c.backend.GetJobs(ctx, f)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.jobs = JobsView{Filter: f, Jobs: []domain.Job{}, Err: err}
		return err
	}
	c.jobs = JobsView{Filter: f, Jobs: page.Jobs, Total: page.Total}
	return nil
}

// LoadCandidates fetches the whole candidate collection into the board. On
// failure the board is cleared and carries the error.
func (c *Controller) LoadCandidates(ctx context.Context) error {
	cands, err := c.backend.GetCandidates(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.cands = CandidatesView{Candidates: []domain.Candidate{}, Err: err}
		return err
	}
	c.cands = CandidatesView{Candidates: cands}
	return nil
}
