package cli

import (
	"github.com/spf13/cobra"
)

type verification struct {
	ID     string `json:"id"`
	Passed bool   `json:"passed"`
	Tests  int    `json:"tests"`
	Failed int    `json:"failed"`
	Error  string `json:"error,omitempty"`
}

func newVerifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check every catalog solution against its own tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			problems, err := opts.catalog(cmd.Context())
			if err != nil {
				return err
			}

			results := problems.Verify(cmd.Context(), opts.engine())
			rows := make([]verification, 0, len(results))
			allPassed := true
			for _, v := range results {
				rows = append(rows, verification{
					ID:     v.Problem.ID,
					Passed: v.Passed(),
					Tests:  len(v.Problem.TestCases),
					Failed: len(v.Report.Results) - v.Report.Passed(),
					Error:  v.Report.Error,
				})
				allPassed = allPassed && v.Passed()
			}

			if opts.json {
				err = writeJSON(cmd.OutOrStdout(), rows)
			} else {
				err = renderVerifications(cmd.OutOrStdout(), rows)
			}
			if err != nil {
				return err
			}
			if !allPassed {
				return ErrTestsFailed
			}
			return nil
		},
	}
}
