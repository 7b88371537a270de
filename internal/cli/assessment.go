package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/talentflow/internal/domain"
)

// NewAssessmentCommand creates the assessment command group.
func NewAssessmentCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assessment",
		Short: "Show and save job assessments",
	}

	cmd.AddCommand(newAssessmentShowCommand(rootOpts))
	cmd.AddCommand(newAssessmentSaveCommand(rootOpts))

	return cmd
}

func newAssessmentShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <jobId>",
		Short: "Show the assessment of a job",
		Long: `Show the assessment attached to a job. A job without one shows an empty
template. Text output is YAML, ready to edit and pass to "assessment save".

Examples:
  talentflow assessment show job-1
  talentflow assessment show job-2 > job-2.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd)
			return rootOpts.withApp(func(ctx context.Context, a *app) error {
				found, err := a.svc.GetAssessment(ctx, args[0])
				if err != nil {
					return out.Fail("failed to load assessment", err)
				}
				assessment := domain.BlankAssessment(args[0])
				if found != nil {
					assessment = *found
				} else {
					out.VerboseLog("no assessment for %s, showing a blank template", args[0])
				}

				if out.Format == "json" {
					return out.Success(assessment)
				}
				return writeAssessmentYAML(out.Writer, assessment)
			})
		},
	}

	return cmd
}

func newAssessmentSaveCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "save <jobId>",
		Short: "Create or replace the assessment of a job",
		Long: `Save an assessment read from a YAML file, replacing any existing one.
Question ids left blank are generated.

Examples:
  talentflow assessment save job-2 -f job-2.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			assessment, err := readAssessmentFile(file)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read assessment", err)
			}

			out := newFormatter(rootOpts, cmd)
			return rootOpts.withApp(func(ctx context.Context, a *app) error {
				saved, err := a.svc.SaveAssessment(ctx, args[0], assessment)
				if err != nil {
					return out.Fail("failed to save assessment", err)
				}
				return out.Render(saved, func(w io.Writer) {
					fmt.Fprintf(w, "Saved %s for %s with %d questions\n", saved.ID, saved.JobID, len(saved.Questions))
				})
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "assessment YAML file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// readAssessmentFile decodes an assessment, rejecting unknown fields.
func readAssessmentFile(path string) (domain.Assessment, error) {
	var a domain.Assessment
	data, err := os.ReadFile(path)
	if err != nil {
		return a, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil && err != io.EOF {
		return a, errors.Wrapf(err, "parse %s", path)
	}
	return a, nil
}

func writeAssessmentYAML(w io.Writer, a domain.Assessment) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(a); err != nil {
		return errors.Wrap(err, "encode assessment")
	}
	return enc.Close()
}
