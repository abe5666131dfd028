package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/outofoffice3/common/logger"
	"github.com/outofoffice3/policy-validator-action/handle"
	"github.com/outofoffice3/policy-validator-action/internal/runner"
	"github.com/outofoffice3/policy-validator-action/internal/shared"
	"github.com/spf13/cobra"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

// Options configure the root command.
type Options struct {
	Logger logger.Logger
	// Environ returns KEY=value pairs, os.Environ when nil
	Environ func() []string
	// Runner defaults to an ExecRunner that tees stderr to the step log
	Runner *runner.Runner
}

// NewRootCmd returns the policy-validator-action command tree.
func NewRootCmd(opts Options) *cobra.Command {
	var (
		dryRun     bool
		inputsFile string
	)

	root := &cobra.Command{
		Use:   "policy-validator-action",
		Short: "Run cfn-policy-validator from GitHub Actions inputs",
		Long: `policy-validator-action reads the INPUT_* variables of a GitHub Actions step,
runs cfn-policy-validator with the matching command line and writes the
validator output to $GITHUB_OUTPUT as "result".

The step fails when the validator reports blocking findings.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sos := opts.Logger
			environ := opts.Environ
			if environ == nil {
				environ = os.Environ
			}

			cfg := shared.LoadConfig(environ())
			if inputsFile != "" {
				inputs, err := shared.LoadInputsFile(inputsFile)
				if err != nil {
					return err
				}
				cfg.MergeInputs(inputs)
				sos.Debugf("inputs merged from [%s]", inputsFile)
			}

			r := opts.Runner
			if r == nil {
				r = runner.NewRunner(&runner.ExecRunner{Stderr: cmd.ErrOrStderr()}, sos)
			}

			_, err := handle.HandleRun(cmd.Context(), cfg, handle.Dependencies{
				Logger: sos,
				Runner: r,
				DryRun: dryRun,
				Stdout: cmd.OutOrStdout(),
			})
			return err
		},
	}
	root.Flags().BoolVar(&dryRun, "dry-run", false, "print the validator command without running it")
	root.Flags().StringVar(&inputsFile, "inputs", "", "YAML file with input values; environment values take precedence")

	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command until it returns or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sos := logger.NewConsoleLogger(logger.LogLevelDebug)
	return logFailure(sos, NewRootCmd(Options{Logger: sos}).ExecuteContext(ctx))
}

// logFailure records a failed run in the step log and hands err back.
func logFailure(sos logger.Logger, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, shared.ErrFindingsDetected):
		sos.Errorf("blocking findings reported, see the result output")
	default:
		sos.Errorf("policy validation failed : %v", err)
	}
	return err
}
