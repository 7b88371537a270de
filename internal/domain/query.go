package domain

// Sortable job fields accepted by JobFilter.Sort.
const (
	SortByOrder  = "order"
	SortByTitle  = "title"
	SortBySlug   = "slug"
	SortByStatus = "status"
	SortByID     = "id"
)

// Query defaults.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// JobFilter selects, orders and pages the job list. Empty Search or Status
// disables that filter.
type JobFilter struct {
	Search   string    `json:"search"`
	Status   JobStatus `json:"status" validate:"omitempty,job_status"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
	Sort     string    `json:"sort" validate:"omitempty,oneof=order title slug status id"`
}

// Normalized fills zero values with the defaults: page 1, ten per page,
// sorted by order.
func (f JobFilter) Normalized() JobFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.Sort == "" {
		f.Sort = SortByOrder
	}
	return f
}

// JobPage is one page of a filtered job list. Total counts every job that
// matched the filter before pagination.
type JobPage struct {
	Jobs  []Job `json:"jobs"`
	Total int   `json:"total"`
}
