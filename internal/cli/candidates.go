package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/talentflow/internal/domain"
	"github.com/roach88/talentflow/internal/optimistic"
)

// CandidateList is the JSON payload of candidates list.
type CandidateList struct {
	Candidates []domain.Candidate   `json:"candidates"`
	Total      int                  `json:"total"`
	ByStage    map[domain.Stage]int `json:"byStage"`
}

// NewCandidatesCommand creates the candidates command group.
func NewCandidatesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "Browse candidates and move them through the pipeline",
	}

	cmd.AddCommand(newCandidatesListCommand(rootOpts))
	cmd.AddCommand(newCandidatesMoveCommand(rootOpts))

	return cmd
}

func newCandidatesListCommand(rootOpts *RootOptions) *cobra.Command {
	var search, stage, jobID string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List candidates",
		Long: `List candidates matching a name or email search, with per-stage counts.

Examples:
  talentflow candidates list --search "candidate 12"
  talentflow candidates list --stage offer --limit 0`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if stage != "" && !domain.Stage(stage).Valid() {
				return NewExitError(ExitCommandError, fmt.Sprintf("unknown stage %q", stage))
			}

			out := newFormatter(rootOpts, cmd)
			return rootOpts.withApp(func(ctx context.Context, a *app) error {
				all, err := a.svc.GetCandidates(ctx)
				if err != nil {
					return out.Fail("failed to list candidates", err)
				}

				matched := domain.FilterCandidates(all, search)
				if jobID != "" {
					kept := matched[:0]
					for _, c := range matched {
						if c.JobID == jobID {
							kept = append(kept, c)
						}
					}
					matched = kept
				}

				groups := domain.GroupByStage(matched)
				res := CandidateList{ByStage: make(map[domain.Stage]int, len(groups))}
				for st, cs := range groups {
					res.ByStage[st] = len(cs)
				}
				if stage != "" {
					matched = groups[domain.Stage(stage)]
				}
				res.Total = len(matched)
				if limit > 0 && len(matched) > limit {
					matched = matched[:limit]
				}
				res.Candidates = matched

				return out.Render(res, func(w io.Writer) {
					writeCandidates(w, res.Candidates)
					fmt.Fprintln(w)
					for _, st := range domain.Stages {
						fmt.Fprintf(w, "%s=%d ", st, res.ByStage[st])
					}
					fmt.Fprintf(w, "\nShowing %d of %d candidates\n", len(res.Candidates), res.Total)
				})
			})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "case-insensitive name or email search")
	cmd.Flags().StringVar(&stage, "stage", "", "only candidates in this stage")
	cmd.Flags().StringVar(&jobID, "job", "", "only candidates for this job id")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows to print (0 = all)")

	return cmd
}

// MoveResult is the JSON payload of candidates move.
type MoveResult struct {
	Candidate *domain.Candidate `json:"candidate,omitempty"`
	Notices   []string          `json:"notices"`
}

func newCandidatesMoveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <id> <stage>",
		Short: "Move a candidate to another stage",
		Long: `Move a candidate to any stage as an optimistic update. On failure the
candidate is put back and the rollback notice is printed.

Stages: applied, screen, tech, offer, hired, rejected.

Examples:
  talentflow candidates move cand-12 tech`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd)
			return rootOpts.withApp(func(ctx context.Context, a *app) error {
				if err := a.ctrl.LoadCandidates(ctx); err != nil {
					return out.Fail("failed to load candidates", err)
				}
				opErr := a.ctrl.MoveCandidate(ctx, args[0], domain.Stage(args[1]))

				res := MoveResult{Notices: noticeMessages(a)}
				for _, c := range a.ctrl.Candidates().Candidates {
					if c.ID == args[0] {
						res.Candidate = &c
						break
					}
				}

				if opErr != nil {
					return failWithNotices(out, "failed to move candidate", opErr, res, a.notices)
				}
				return out.Render(res, func(w io.Writer) {
					fmt.Fprintf(w, "%s is now in %s\n", res.Candidate.ID, res.Candidate.Stage)
				})
			})
		},
	}

	return cmd
}

// failWithNotices reports a failed optimistic attempt. JSON output carries
// payload as the error details; text output prints the rollback notices to
// stderr.
func failWithNotices(out *OutputFormatter, message string, opErr error, payload any, notices []optimistic.Notice) error {
	code, exit := classify(opErr)
	if out.Format == "json" {
		if err := out.Error(code, opErr.Error(), payload); err != nil {
			return err
		}
	} else {
		for _, n := range notices {
			fmt.Fprintln(out.GetErrWriter(), n.Message)
		}
	}
	return WrapExitError(exit, message, opErr)
}

func writeCandidates(w io.Writer, cands []domain.Candidate) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tJOB\tSTAGE")
	for _, c := range cands {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.JobID, c.Stage)
	}
	tw.Flush()
}
