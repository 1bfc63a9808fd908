package cli

import (
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/codejudge/internal/catalog"
)

func newListCmd(opts *options) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				summaries []catalog.Summary
				err       error
			)
			if opts.server != "" {
				summaries, err = opts.client().Problems(cmd.Context(), category)
			} else {
				var problems *catalog.Catalog
				if problems, err = opts.catalog(cmd.Context()); err == nil {
					summaries = problems.List(category)
				}
			}
			if err != nil {
				return err
			}

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), summaries)
			}
			return renderProblems(cmd.OutOrStdout(), summaries)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "only list this category")
	return cmd
}
