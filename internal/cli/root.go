package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	DB          string
	Seed        uint64
	ErrorRate   float64
	NoLatency   bool
	MetricsFile string

	// cmd is the root command, used to tell explicit flags from defaults.
	cmd *cobra.Command
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the talentflow CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "talentflow",
		Short: "TalentFlow - recruiting data layer",
		Long: `Manage jobs, candidates and assessments backed by a local SQLite file.

Every call goes through a simulated unreliable service: it waits a random
latency and fails at a configurable rate. Toggle, reorder and move run as
optimistic updates that roll back when the call fails.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}
	opts.cmd = cmd

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "database file (overrides TALENTFLOW_DB)")
	cmd.PersistentFlags().Uint64Var(&opts.Seed, "seed", 0, "seed for generated data and simulated failures (0 = time based)")
	cmd.PersistentFlags().Float64Var(&opts.ErrorRate, "error-rate", 0, "failure probability applied to every simulated call")
	cmd.PersistentFlags().BoolVar(&opts.NoLatency, "no-latency", false, "skip the simulated network wait")
	cmd.PersistentFlags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	// Add subcommands
	cmd.AddCommand(NewJobsCommand(opts))
	cmd.AddCommand(NewCandidatesCommand(opts))
	cmd.AddCommand(NewAssessmentCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// changed reports whether a global flag was given on the command line.
func (o *RootOptions) changed(name string) bool {
	if o.cmd == nil {
		return false
	}
	f := o.cmd.PersistentFlags().Lookup(name)
	return f != nil && f.Changed
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
