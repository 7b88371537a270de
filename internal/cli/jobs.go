package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/talentflow/internal/domain"
)

// fullView is the page size used when an optimistic command loads the job
// view, so every job is addressable by default.
const fullView = 1000

// filterFlags are the job query flags shared by list, toggle and reorder.
type filterFlags struct {
	Search   string
	Status   string
	Page     int
	PageSize int
	Sort     string
}

func (f *filterFlags) register(cmd *cobra.Command, statusFlag string, pageSize int) {
	cmd.Flags().StringVar(&f.Search, "search", "", "case-insensitive title search")
	cmd.Flags().StringVar(&f.Status, statusFlag, "", "only jobs with this status (active|archived)")
	cmd.Flags().IntVar(&f.Page, "page", domain.DefaultPage, "page number")
	cmd.Flags().IntVar(&f.PageSize, "page-size", pageSize, "jobs per page")
	cmd.Flags().StringVar(&f.Sort, "sort", domain.SortByOrder, "sort field (order|title|slug|status|id)")
}

func (f *filterFlags) filter() domain.JobFilter {
	return domain.JobFilter{
		Search:   f.Search,
		Status:   domain.JobStatus(f.Status),
		Page:     f.Page,
		PageSize: f.PageSize,
		Sort:     f.Sort,
	}
}

// NewJobsCommand creates the jobs command group.
func NewJobsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List and edit job postings",
	}

	cmd.AddCommand(newJobsListCommand(rootOpts))
	cmd.AddCommand(newJobsCreateCommand(rootOpts))
	cmd.AddCommand(newJobsUpdateCommand(rootOpts))
	cmd.AddCommand(newJobsToggleCommand(rootOpts))
	cmd.AddCommand(newJobsReorderCommand(rootOpts))

	return cmd
}

func newJobsListCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &filterFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs",
		Long: `List one page of jobs.

Examples:
  talentflow jobs list
  talentflow jobs list --search engineer --status active --page 2
  talentflow jobs list --sort title --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd)
			return rootOpts.withApp(func(ctx context.Context, a *app) error {
				f := flags.filter().Normalized()
				page, err := a.svc.GetJobs(ctx, f)
				if err != nil {
					return out.Fail("failed to list jobs", err)
				}
				return out.Render(page, func(w io.Writer) {
					writeJobs(w, page.Jobs)
					fmt.Fprintf(w, "\nPage %d, %d of %d jobs\n", f.Page, len(page.Jobs), page.Total)
				})
			})
		},
	}
	flags.register(cmd, "status", domain.DefaultPageSize)

	return cmd
}

func newJobsCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var title, tags string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a job",
		Long: `Create an active job at the end of the order.

Examples:
  talentflow jobs create --title "Staff Engineer" --tags "Go, SQL"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd)
			return rootOpts.withApp(func(ctx context.Context, a *app) error {
				job, err := a.svc.CreateJob(ctx, domain.CreateJobInput{
					Title: title,
					Tags:  domain.ParseTags(tags),
				})
				if err != nil {
					return out.Fail("failed to create job", err)
				}
				return out.Render(job, func(w io.Writer) {
					fmt.Fprintf(w, "Created %s (%s) at position %d\n", job.ID, job.Slug, job.Order)
				})
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "job title (required)")
	cmd.Flags().StringVar(&tags, "tags", "", "comma separated tags")

	return cmd
}

func newJobsUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var title, tags, status string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a job",
		Long: `Update the title, tags or status of a job. Only the given flags change.

Examples:
  talentflow jobs update job-3 --title "Platform Engineer"
  talentflow jobs update job-3 --tags "" --status archived`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.JobPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("tags") {
				parsed := domain.ParseTags(tags)
				patch.Tags = &parsed
			}
			if cmd.Flags().Changed("status") {
				st := domain.JobStatus(status)
				patch.Status = &st
			}
			if patch.Title == nil && patch.Tags == nil && patch.Status == nil {
				return NewExitError(ExitCommandError, "nothing to update: pass --title, --tags or --status")
			}

			out := newFormatter(rootOpts, cmd)
			return rootOpts.withApp(func(ctx context.Context, a *app) error {
				job, err := a.svc.UpdateJob(ctx, args[0], patch)
				if err != nil {
					return out.Fail("failed to update job", err)
				}
				return out.Render(job, func(w io.Writer) {
					fmt.Fprintf(w, "Updated %s\n", job.ID)
					writeJobs(w, []domain.Job{job})
				})
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&tags, "tags", "", "comma separated tags, replacing the current ones")
	cmd.Flags().StringVar(&status, "status", "", "new status (active|archived)")

	return cmd
}

// ViewResult is the JSON payload of jobs toggle and jobs reorder.
type ViewResult struct {
	Job     *domain.Job  `json:"job,omitempty"`
	Jobs    []domain.Job `json:"jobs"`
	Total   int          `json:"total"`
	Notices []string     `json:"notices"`
}

func newJobsToggleCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &filterFlags{}

	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Archive or unarchive a job",
		Long: `Flip a job between active and archived as an optimistic update.

The job list is loaded with the given filter, the flip is applied to it at
once and confirmed by the service. On failure the job is restored and the
rollback notice is printed. When the new status no longer matches
--status-filter the list is reloaded.

Examples:
  talentflow jobs toggle job-3
  talentflow jobs toggle job-3 --status-filter active`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd)
			return rootOpts.withApp(func(ctx context.Context, a *app) error {
				if err := a.ctrl.LoadJobs(ctx, flags.filter()); err != nil {
					return out.Fail("failed to load jobs", err)
				}
				opErr := a.ctrl.ToggleJobStatus(ctx, args[0])
				return renderJobsView(out, a, args[0], "toggle", opErr)
			})
		},
	}
	flags.register(cmd, "status-filter", fullView)

	return cmd
}

func newJobsReorderCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &filterFlags{}

	cmd := &cobra.Command{
		Use:   "reorder <from> <to>",
		Short: "Move a job to another position",
		Long: `Move the job at order <from> to order <to> as an optimistic update.

Every job between the two positions shifts by one. On success the list is
rebuilt from the order the service returns; on failure the previous list is
restored and the rollback notice is printed.

Examples:
  talentflow jobs reorder 5 1`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid <from>", err)
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid <to>", err)
			}

			out := newFormatter(rootOpts, cmd)
			return rootOpts.withApp(func(ctx context.Context, a *app) error {
				if err := a.ctrl.LoadJobs(ctx, flags.filter()); err != nil {
					return out.Fail("failed to load jobs", err)
				}
				opErr := a.ctrl.Reorder(ctx, from, to)
				return renderJobsView(out, a, "", "reorder", opErr)
			})
		},
	}
	flags.register(cmd, "status", fullView)

	return cmd
}

// renderJobsView prints the controller's job view after an optimistic
// attempt. focus selects the job reported in the result, if any.
func renderJobsView(out *OutputFormatter, a *app, focus, verb string, opErr error) error {
	view := a.ctrl.Jobs()
	res := ViewResult{Jobs: view.Jobs, Total: view.Total, Notices: noticeMessages(a)}
	for i := range view.Jobs {
		if view.Jobs[i].ID == focus {
			res.Job = &view.Jobs[i]
		}
	}

	if opErr != nil {
		return failWithNotices(out, "failed to "+verb, opErr, res, a.notices)
	}

	return out.Render(res, func(w io.Writer) {
		if res.Job != nil {
			fmt.Fprintf(w, "%s is now %s\n", res.Job.ID, res.Job.Status)
			return
		}
		if focus != "" {
			fmt.Fprintf(w, "%s no longer matches the filter\n", focus)
			return
		}
		writeJobs(w, view.Jobs)
	})
}

func noticeMessages(a *app) []string {
	msgs := make([]string, 0, len(a.notices))
	for _, n := range a.notices {
		msgs = append(msgs, n.Message)
	}
	return msgs
}

// writeJobs prints jobs as an aligned table.
func writeJobs(w io.Writer, jobs []domain.Job) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tID\tTITLE\tSTATUS\tTAGS")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", j.Order, j.ID, j.Title, j.Status, strings.Join(j.Tags, ", "))
	}
	tw.Flush()
}
