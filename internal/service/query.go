package service

import (
	"cmp"
	"context"
	"slices"

	"github.com/roach88/talentflow/internal/domain"
)

// QueryJobs filters, sorts and pages jobs. It is pure: jobs is not modified
// and the returned page holds copies.
//
// Search matches a case-insensitive substring of the title; Status matches
// exactly. Sorting is ascending and stable, so ties keep collection order.
// An unrecognized sort field falls back to order. Total counts the matches
// before pagination.
func QueryJobs(jobs []domain.Job, f domain.JobFilter) domain.JobPage {
	f = f.Normalized()

	matched := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if f.Search != "" && !domain.ContainsFold(j.Title, f.Search) {
			continue
		}
		if f.Status != "" && j.Status != f.Status {
			continue
		}
		matched = append(matched, j)
	}

	slices.SortStableFunc(matched, compareBy(f.Sort))

	return domain.JobPage{
		Jobs:  domain.CloneJobs(pageOf(matched, f.Page, f.PageSize)),
		Total: len(matched),
	}
}

// pageOf returns the 1-based page of jobs. Bounds are checked by division
// before multiplying, so huge page numbers or sizes yield an empty page
// rather than an overflowed slice index.
func pageOf(jobs []domain.Job, page, size int) []domain.Job {
	pages := len(jobs) / size
	if len(jobs)%size != 0 {
		pages++
	}
	if page-1 >= pages {
		return jobs[len(jobs):]
	}
	start := (page - 1) * size
	return jobs[start : start+min(size, len(jobs)-start)]
}

func compareBy(field string) func(a, b domain.Job) int {
	switch field {
	case domain.SortByTitle:
		return func(a, b domain.Job) int { return cmp.Compare(a.Title, b.Title) }
	case domain.SortBySlug:
		return func(a, b domain.Job) int { return cmp.Compare(a.Slug, b.Slug) }
	case domain.SortByStatus:
		return func(a, b domain.Job) int { return cmp.Compare(a.Status, b.Status) }
	case domain.SortByID:
		return func(a, b domain.Job) int { return cmp.Compare(a.ID, b.ID) }
	default:
		return func(a, b domain.Job) int { return cmp.Compare(a.Order, b.Order) }
	}
}

// GetJobs returns one page of jobs matching f.
//
// An unknown sort field or status is a validation error. The page is taken
// from the snapshot at call time and delivered after the simulated wait.
func (s *Service) GetJobs(ctx context.Context, f domain.JobFilter) (domain.JobPage, error) {
	if err := s.validate.Struct(f); err != nil {
		return domain.JobPage{}, validationError(err)
	}

	page := QueryJobs(s.store.Jobs(), f)
	if err := s.call(ctx, OpGetJobs, s.rates.Default); err != nil {
		return domain.JobPage{}, err
	}
	return page, nil
}
