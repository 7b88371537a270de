package domain

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// JobStatus is the lifecycle state of a job posting. Archiving is a status
// flip; jobs are never removed.
type JobStatus string

const (
	JobStatusActive   JobStatus = "active"
	JobStatusArchived JobStatus = "archived"
)

// Valid reports whether s is one of the defined statuses.
func (s JobStatus) Valid() bool {
	return s == JobStatusActive || s == JobStatusArchived
}

// Toggle returns the opposite status.
func (s JobStatus) Toggle() JobStatus {
	if s == JobStatusActive {
		return JobStatusArchived
	}
	return JobStatusActive
}

// Job is a single job posting.
//
// INVARIANT: across the whole jobs collection, Order values form the
// contiguous permutation 1..N.
type Job struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Slug   string    `json:"slug"`
	Status JobStatus `json:"status"`
	Tags   []string  `json:"tags"`
	Order  int       `json:"order"`
}

// Clone returns a deep copy of j.
func (j Job) Clone() Job {
	out := j
	if j.Tags != nil {
		out.Tags = append([]string(nil), j.Tags...)
	}
	return out
}

// CloneJobs deep-copies a job slice. A nil input yields nil.
func CloneJobs(jobs []Job) []Job {
	if jobs == nil {
		return nil
	}
	out := make([]Job, len(jobs))
	for i, j := range jobs {
		out[i] = j.Clone()
	}
	return out
}

// CreateJobInput is the payload accepted when creating a job.
type CreateJobInput struct {
	Title string   `json:"title" yaml:"title" validate:"not_blank"`
	Tags  []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// JobPatch is a shallow patch for an existing job. Nil fields are left
// untouched; Tags replaces the whole tag list when set.
type JobPatch struct {
	Title  *string    `json:"title,omitempty" validate:"omitempty,not_blank"`
	Status *JobStatus `json:"status,omitempty" validate:"omitempty,job_status"`
	Tags   *[]string  `json:"tags,omitempty"`
}

// Apply merges the patch onto j and returns the result. j is not modified.
func (p JobPatch) Apply(j Job) Job {
	out := j.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Tags != nil {
		out.Tags = append([]string{}, (*p.Tags)...)
	}
	return out
}

// ReorderRequest moves the job holding FromOrder to the position ToOrder.
type ReorderRequest struct {
	FromOrder int `json:"fromOrder" validate:"gte=1"`
	ToOrder   int `json:"toOrder" validate:"gte=1"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slugify lowercases title and replaces every run of whitespace with a
// single hyphen. Leading and trailing whitespace are not trimmed.
func Slugify(title string) string {
	lower := cases.Lower(language.Und).String(title)
	return whitespaceRun.ReplaceAllString(lower, "-")
}

// ParseTags splits a comma separated tag entry, trimming each tag and
// dropping empty ones. Order and duplicates are preserved.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ContainsFold reports whether needle occurs in haystack, ignoring case.
func ContainsFold(haystack, needle string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(haystack), fold.String(needle))
}
