package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/codejudge/internal/catalog"
	"github.com/GriffinCanCode/codejudge/internal/evaluator"
)

const runLongDescription = `Evaluate a source file against test cases.

Test cases come from a catalog problem (--problem) or from a YAML, TOML or
JSON file (--tests) holding a list of {input, expectedOutput, description}
entries. An array input is spread into positional arguments; wrap a single
array argument in another array.

Exits with status 1 when any test fails.`

type runFlags struct {
	problem  string
	tests    string
	function string
}

func newRunCmd(opts *options) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Evaluate a source file",
		Long:  runLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (flags.problem == "") == (flags.tests == "") {
				return errors.New("exactly one of --problem or --tests is required")
			}
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			report, err := evaluate(cmd, opts, flags, string(source))
			if err != nil {
				return err
			}

			if opts.json {
				err = writeJSON(cmd.OutOrStdout(), report)
			} else {
				err = renderReport(cmd.OutOrStdout(), report)
			}
			if err != nil {
				return err
			}
			if !report.AllPassed {
				return ErrTestsFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.problem, "problem", "p", "", "catalog problem id")
	cmd.Flags().StringVarP(&flags.tests, "tests", "t", "", "test case file")
	cmd.Flags().StringVarP(&flags.function, "function", "f", "", "function to call (defaults to the problem's or the first one defined)")
	return cmd
}

func evaluate(cmd *cobra.Command, opts *options, flags runFlags, source string) (*evaluator.Report, error) {
	ctx := cmd.Context()

	var tests []evaluator.TestCase
	if flags.tests != "" {
		loaded, err := catalog.LoadTests(flags.tests)
		if err != nil {
			return nil, err
		}
		tests = loaded
	}

	if opts.server != "" {
		c := opts.client()
		if flags.problem != "" {
			return c.EvaluateProblem(ctx, flags.problem, source, flags.function)
		}
		return c.Evaluate(ctx, source, tests, flags.function)
	}

	name := flags.function
	if flags.problem != "" {
		problems, err := opts.catalog(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		problem, err := problems.Get(flags.problem)
		if err != nil {
			return nil, err
		}
		tests = problem.TestCases
		if name == "" {
			name = problem.FunctionName
		}
	}
	return opts.engine().Evaluate(ctx, source, tests, name), nil
}
