package cli

import (
	"context"
	"errors"
	"io"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/codejudge/internal/catalog"
	"github.com/GriffinCanCode/codejudge/internal/client"
	"github.com/GriffinCanCode/codejudge/internal/evaluator"
	"github.com/GriffinCanCode/codejudge/internal/infrastructure/config"
)

// ErrTestsFailed is returned when an evaluation or verification did not
// pass completely. main maps it to exit status 1 without printing usage.
var ErrTestsFailed = errors.New("not all tests passed")

const rootLongDescription = `judge evaluates JavaScript and TypeScript submissions against test cases.

Code runs in an isolated interpreter with no network, filesystem or module
access. Evaluation happens in-process unless --server points at a running
judge server.`

// options are the flags shared by every command.
type options struct {
	catalogDir string
	pattern    string
	server     string
	json       bool
	cfg        *config.Config
}

// NewRootCommand builds the judge command tree.
func NewRootCommand() *cobra.Command {
	cfg := config.LoadOrDefault()
	opts := &options{cfg: cfg}

	cmd := &cobra.Command{
		Use:           "judge",
		Short:         "Evaluate JavaScript/TypeScript code against test cases",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.catalogDir, "catalog", cfg.Catalog.Dir, "problem catalog directory")
	flags.StringVar(&opts.pattern, "pattern", cfg.Catalog.Pattern, "catalog file pattern (doublestar syntax)")
	flags.StringVar(&opts.server, "server", "", "evaluate through a judge server at this URL")
	flags.BoolVar(&opts.json, "json", false, "print JSON instead of tables")

	cmd.AddCommand(newRunCmd(opts), newVerifyCmd(opts), newListCmd(opts))
	return cmd
}

func (o *options) engine() *evaluator.Engine {
	return evaluator.New(o.cfg.Evaluation.EngineConfig())
}

func (o *options) client() *client.Client {
	cfg := client.DefaultConfig()
	if deadline := o.cfg.Evaluation.EngineConfig().Deadline; cfg.Timeout < 2*deadline {
		cfg.Timeout = 2 * deadline
	}
	return client.New(o.server, cfg)
}

func (o *options) catalog(ctx context.Context) (*catalog.Catalog, error) {
	return catalog.Load(ctx, o.catalogDir, o.pattern)
}

func writeJSON(w io.Writer, v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
