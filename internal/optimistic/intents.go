package optimistic

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/roach88/talentflow/internal/domain"
	"github.com/roach88/talentflow/internal/service"
)

// ToggleJobStatus flips the status of a displayed job.
//
// S0 is the job record. On commit the flipped record stays; when the view
// filters on a status the job no longer has, the page is refetched so the
// job drops out. On failure the record is restored as it was.
func (c *Controller) ToggleJobStatus(ctx context.Context, jobID string) error {
	c.mu.Lock()
	idx := slices.IndexFunc(c.jobs.Jobs, func(j domain.Job) bool { return j.ID == jobID })
	if idx < 0 {
		c.mu.Unlock()
		return ErrNotInView
	}
	s0 := c.jobs.Jobs[idx].Clone()
	next := s0.Status.Toggle()
	c.jobs.Jobs[idx].Status = next
	a := c.begin(IntentToggle, JobSlot(jobID))
	c.mu.Unlock()

	_, err := c.backend.UpdateJob(ctx, jobID, domain.JobPatch{Status: &next})

	c.mu.Lock()
	if err != nil {
		c.restoreJob(s0)
		c.finish(a, err)
		c.mu.Unlock()
		return err
	}
	c.finish(a, nil)
	filter := c.jobs.Filter
	c.mu.Unlock()

	if filter.Status != "" && filter.Status != next {
		if rerr := c.LoadJobs(ctx, filter); rerr != nil {
			c.logger.Warn("refresh after toggle failed", zap.Error(rerr))
		}
	}
	return nil
}

// restoreJob puts s0 back in place of the record with the same id, if the
// view still shows it. Caller holds c.mu.
func (c *Controller) restoreJob(s0 domain.Job) {
	idx := slices.IndexFunc(c.jobs.Jobs, func(j domain.Job) bool { return j.ID == s0.ID })
	if idx >= 0 {
		c.jobs.Jobs[idx] = s0
	}
}

// MoveCandidate moves a candidate on the board to stage.
//
// S0 is the candidate record. On commit the moved card stays and nothing is
// refetched. On failure the record is restored as it was.
func (c *Controller) MoveCandidate(ctx context.Context, candidateID string, stage domain.Stage) error {
	c.mu.Lock()
	idx := slices.IndexFunc(c.cands.Candidates, func(x domain.Candidate) bool { return x.ID == candidateID })
	if idx < 0 {
		c.mu.Unlock()
		return ErrNotInView
	}
	s0 := c.cands.Candidates[idx]
	c.cands.Candidates[idx].Stage = stage
	a := c.begin(IntentMove, CandidateSlot(candidateID))
	c.mu.Unlock()

	_, err := c.backend.UpdateCandidateStage(ctx, candidateID, stage)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if i := slices.IndexFunc(c.cands.Candidates, func(x domain.Candidate) bool { return x.ID == s0.ID }); i >= 0 {
			c.cands.Candidates[i] = s0
		}
		c.finish(a, err)
		return err
	}
	c.finish(a, nil)
	return nil
}

// Reorder drags the displayed job holding fromOrder onto the one holding
// toOrder.
//
// S0 is the whole displayed list. S1 is a local splice: the dragged job is
// removed and reinserted in front of the target, without renumbering. On
// commit S1 is discarded and the view is rebuilt from the renumbered
// sequence the service returns, using the current filter. On failure the
// whole list is restored, which also reverts any toggle on another job that
// committed while the reorder was in flight; the store keeps that toggle.
//
// Dropping a job on itself, or naming a job the view does not show, does
// nothing.
func (c *Controller) Reorder(ctx context.Context, fromOrder, toOrder int) error {
	c.mu.Lock()
	if fromOrder == toOrder {
		c.mu.Unlock()
		return nil
	}
	byOrder := func(order int) func(domain.Job) bool {
		return func(j domain.Job) bool { return j.Order == order }
	}
	from := slices.IndexFunc(c.jobs.Jobs, byOrder(fromOrder))
	to := slices.IndexFunc(c.jobs.Jobs, byOrder(toOrder))
	if from < 0 || to < 0 {
		c.mu.Unlock()
		return nil
	}

	s0 := c.jobs.clone()
	targetID := c.jobs.Jobs[to].ID
	dragged := c.jobs.Jobs[from]
	spliced := slices.Delete(slices.Clone(c.jobs.Jobs), from, from+1)
	at := slices.IndexFunc(spliced, func(j domain.Job) bool { return j.ID == targetID })
	c.jobs.Jobs = slices.Insert(spliced, at, dragged)
	a := c.begin(IntentReorder, ReorderSlot)
	c.mu.Unlock()

	jobs, err := c.backend.ReorderJob(ctx, domain.ReorderRequest{FromOrder: fromOrder, ToOrder: toOrder})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.jobs = s0
		c.finish(a, err)
		return err
	}
	page := service.QueryJobs(jobs, c.jobs.Filter)
	c.jobs = JobsView{Filter: c.jobs.Filter, Jobs: page.Jobs, Total: page.Total}
	c.finish(a, nil)
	return nil
}
