package service

import (
	"context"
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/roach88/talentflow/internal/domain"
)

// CreateJob appends a new active job at the end of the ordering.
//
// The id is "job-" plus a generated suffix, the slug is derived from the
// title and missing tags become an empty list.
func (s *Service) CreateJob(ctx context.Context, in domain.CreateJobInput) (domain.Job, error) {
	if err := s.validate.Struct(in); err != nil {
		return domain.Job{}, validationError(err)
	}

	jobs := s.store.Jobs()
	tags := []string{}
	if in.Tags != nil {
		tags = append(tags, in.Tags...)
	}
	job := domain.Job{
		ID:     "job-" + s.ids.Generate(),
		Title:  in.Title,
		Slug:   domain.Slugify(in.Title),
		Status: domain.JobStatusActive,
		Tags:   tags,
		Order:  len(jobs) + 1,
	}
	updated := append(jobs, job)

	if err := s.call(ctx, OpCreateJob, s.rates.Default); err != nil {
		return domain.Job{}, err
	}
	if err := s.store.SaveJobs(persistCtx(ctx), updated); err != nil {
		return domain.Job{}, errors.Wrap(err, "create job")
	}

	s.logger.Info("job created", zap.String("id", job.ID), zap.Int("order", job.Order))
	return job.Clone(), nil
}

// UpdateJob merges the non-nil fields of patch into the job with the given
// id. The slug is not re-derived when the title changes.
func (s *Service) UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (domain.Job, error) {
	if err := s.validate.Struct(patch); err != nil {
		return domain.Job{}, validationError(err)
	}

	jobs := s.store.Jobs()
	idx := slices.IndexFunc(jobs, func(j domain.Job) bool { return j.ID == id })
	if idx >= 0 {
		jobs[idx] = patch.Apply(jobs[idx])
	}

	if err := s.call(ctx, OpUpdateJob, s.rates.Update); err != nil {
		return domain.Job{}, err
	}
	if idx < 0 {
		return domain.Job{}, NewNotFoundError("job", id)
	}
	if err := s.store.SaveJobs(persistCtx(ctx), jobs); err != nil {
		return domain.Job{}, errors.Wrap(err, "update job")
	}

	s.logger.Info("job updated", zap.String("id", id), zap.String("status", string(jobs[idx].Status)))
	return jobs[idx].Clone(), nil
}

// ReorderJob moves the job at position FromOrder to position ToOrder and
// renumbers the whole collection 1..N. It returns the full reordered
// sequence.
func (s *Service) ReorderJob(ctx context.Context, req domain.ReorderRequest) ([]domain.Job, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	jobs := s.store.Jobs()
	if req.FromOrder > len(jobs) || req.ToOrder > len(jobs) {
		return nil, NewValidationError("order out of range: from=%d to=%d, have %d jobs",
			req.FromOrder, req.ToOrder, len(jobs))
	}
	reordered := Reorder(jobs, req.FromOrder, req.ToOrder)

	if err := s.call(ctx, OpReorderJob, s.rates.Reorder); err != nil {
		return nil, err
	}
	if err := s.store.SaveJobs(persistCtx(ctx), reordered); err != nil {
		return nil, errors.Wrap(err, "reorder jobs")
	}

	s.logger.Info("jobs reordered", zap.Int("from", req.FromOrder), zap.Int("to", req.ToOrder))
	return domain.CloneJobs(reordered), nil
}

// Reorder sorts jobs by order, moves the element at index from-1 to index
// to-1 and renumbers every job with its new 1-based position. from and to
// must lie in 1..len(jobs). The input is not modified.
func Reorder(jobs []domain.Job, from, to int) []domain.Job {
	items := domain.CloneJobs(jobs)
	slices.SortStableFunc(items, compareBy(domain.SortByOrder))

	moved := items[from-1]
	items = slices.Delete(items, from-1, from)
	items = slices.Insert(items, to-1, moved)

	for i := range items {
		items[i].Order = i + 1
	}
	return items
}
