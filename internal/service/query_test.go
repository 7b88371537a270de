package service

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/talentflow/internal/domain"
	"github.com/roach88/talentflow/internal/testutil"
)

func queryJobs() []domain.Job {
	jobs := testutil.Fixture(12, 0).Jobs
	for i := range jobs {
		if i%3 == 0 {
			jobs[i].Status = domain.JobStatusArchived
		}
	}
	jobs[4].Title = "Senior Go Developer"
	jobs[7].Title = "go tooling lead"
	return jobs
}

func TestQueryJobs_TotalAndPageSize(t *testing.T) {
	jobs := queryJobs()
	searches := []string{"", "job", "GO", "1", "nothing"}
	statuses := []domain.JobStatus{"", domain.JobStatusActive, domain.JobStatusArchived}

	for _, search := range searches {
		for _, status := range statuses {
			want := 0
			for _, j := range jobs {
				if (search == "" || domain.ContainsFold(j.Title, search)) && (status == "" || j.Status == status) {
					want++
				}
			}
			for _, size := range []int{1, 3, 5, 20} {
				for page := 1; page <= 4; page++ {
					name := fmt.Sprintf("%q/%q/p%d/s%d", search, status, page, size)
					got := QueryJobs(jobs, domain.JobFilter{Search: search, Status: status, Page: page, PageSize: size})
					assert.Equal(t, want, got.Total, name)

					remaining := max(want-(page-1)*size, 0)
					assert.Len(t, got.Jobs, min(size, remaining), name)
					assert.NotNil(t, got.Jobs, name)
				}
			}
		}
	}
}

func TestQueryJobs_HugePageBounds(t *testing.T) {
	jobs := queryJobs()
	tests := []struct {
		name     string
		page     int
		size     int
		wantJobs int
	}{
		{"max page", math.MaxInt, 10, 0},
		{"max page and size", math.MaxInt, math.MaxInt, 0},
		{"max size first page", 1, math.MaxInt, 12},
		{"max size second page", 2, math.MaxInt, 0},
		{"last partial page", 3, 5, 2},
		{"one past last page", 4, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.JobPage
			require.NotPanics(t, func() {
				got = QueryJobs(jobs, domain.JobFilter{Page: tt.page, PageSize: tt.size})
			})
			assert.Equal(t, 12, got.Total)
			assert.Len(t, got.Jobs, tt.wantJobs)
			assert.NotNil(t, got.Jobs)
		})
	}
}

func TestQueryJobs_SearchIsCaseInsensitive(t *testing.T) {
	got := QueryJobs(queryJobs(), domain.JobFilter{Search: "Go"})
	assert.Equal(t, []string{"job-5", "job-8"}, testutil.JobIDs(got.Jobs))
}

func TestQueryJobs_StableSort(t *testing.T) {
	jobs := queryJobs()

	got := QueryJobs(jobs, domain.JobFilter{Sort: domain.SortByStatus, PageSize: 100})
	require.Len(t, got.Jobs, 12)
	// Active jobs first, each group in collection order.
	assert.Equal(t, []string{
		"job-2", "job-3", "job-5", "job-6", "job-8", "job-9", "job-11", "job-12",
		"job-1", "job-4", "job-7", "job-10",
	}, testutil.JobIDs(got.Jobs))

	got = QueryJobs(jobs, domain.JobFilter{Sort: domain.SortByTitle, PageSize: 3})
	assert.Equal(t, []string{"job-1", "job-10", "job-11"}, testutil.JobIDs(got.Jobs))
}

func TestQueryJobs_OrderIsNumeric(t *testing.T) {
	jobs := queryJobs()
	// Reverse the collection; sorting must restore 1..12, not 1,10,11,12,2...
	for i, j := 0, len(jobs)-1; i < j; i, j = i+1, j-1 {
		jobs[i], jobs[j] = jobs[j], jobs[i]
	}
	got := QueryJobs(jobs, domain.JobFilter{PageSize: 12})
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, testutil.JobOrders(got.Jobs))
}

func TestQueryJobs_DoesNotAlias(t *testing.T) {
	jobs := queryJobs()
	got := QueryJobs(jobs, domain.JobFilter{})
	got.Jobs[0].Tags[0] = "mutated"
	assert.Equal(t, "Go", jobs[0].Tags[0])
}

func TestGetJobs(t *testing.T) {
	f := newFixture(t, testutil.Fixture(25, 0), nil)
	ctx := context.Background()

	page, err := f.svc.GetJobs(ctx, domain.JobFilter{Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, []int{21, 22, 23, 24, 25}, testutil.JobOrders(page.Jobs))

	_, err = f.svc.GetJobs(ctx, domain.JobFilter{Sort: "salary"})
	assert.True(t, IsValidation(err))
	assert.Equal(t, []string{OpGetJobs}, f.caller.calls())
}
