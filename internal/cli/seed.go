package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// SeedResult is the JSON payload of the seed command.
type SeedResult struct {
	Reseeded    bool `json:"reseeded"`
	Jobs        int  `json:"jobs"`
	Candidates  int  `json:"candidates"`
	Assessments int  `json:"assessments"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the database with generated data",
		Long: `Open the database, generating data for any missing collection.
With --force every collection is replaced by freshly generated data.

Examples:
  talentflow seed --db talentflow.db
  talentflow seed --force --seed 42`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd)
			return rootOpts.withApp(func(ctx context.Context, a *app) error {
				if force {
					if err := a.store.Reseed(ctx); err != nil {
						return WrapExitError(ExitCommandError, "failed to reseed", err)
					}
				}

				ds := a.store.Snapshot()
				res := SeedResult{
					Reseeded:    force,
					Jobs:        len(ds.Jobs),
					Candidates:  len(ds.Candidates),
					Assessments: len(ds.Assessments),
				}
				return out.Render(res, func(w io.Writer) {
					fmt.Fprintf(w, "%s: %d jobs, %d candidates, %d assessments\n",
						a.cfg.DB, res.Jobs, res.Candidates, res.Assessments)
				})
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "discard existing data and generate it again")

	return cmd
}
