// Package runner executes the validator and classifies its exit code.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/outofoffice3/common/logger"
	"github.com/outofoffice3/policy-validator-action/internal/shared"
)

// CommandRunner abstracts command execution for testability.
type CommandRunner interface {
	Run(ctx context.Context, args []string, env []string) (stdout string, stderr string, exitCode int, err error)
}

// ExecRunner implements CommandRunner by spawning args[0] directly, without
// a shell. Stderr, when set, receives the child's stderr as it is written.
type ExecRunner struct {
	Stderr io.Writer
}

// Run waits for the child to exit. A non-zero exit is reported through
// exitCode; err is only set when the process could not be run at all.
func (e *ExecRunner) Run(ctx context.Context, args []string, env []string) (string, string, int, error) {
	if len(args) == 0 {
		return "", "", -1, errors.New("exec: empty command")
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdoutBuf, stderrBuf strings.Builder
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	if e.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderrBuf, e.Stderr)
	}

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return stdoutBuf.String(), stderrBuf.String(), -1, fmt.Errorf("exec: %w", err)
		}
	}
	return stdoutBuf.String(), stderrBuf.String(), exitCode, nil
}

// Runner runs validator commands and turns exit codes into results.
type Runner struct {
	cmd    CommandRunner
	logger logger.Logger
}

// NewRunner creates a Runner with the given command runner.
func NewRunner(cmd CommandRunner, log logger.Logger) *Runner {
	return &Runner{
		cmd:    cmd,
		logger: log,
	}
}

// Classify maps a validator exit code to a status.
func Classify(exitCode int) shared.Status {
	switch exitCode {
	case 0:
		return shared.StatusSuccess
	case shared.FindingsDetectedExitCode:
		return shared.StatusFindingsDetected
	}
	return shared.StatusFatal
}

// Execute runs args once. env entries are added on top of the current
// process environment.
func (r *Runner) Execute(ctx context.Context, args []string, env []string) shared.ExecutionResult {
	sos := r.logger
	sos.Infof("running command [%s]", strings.Join(args, " "))

	stdout, stderr, exitCode, err := r.cmd.Run(ctx, args, env)
	if err != nil {
		sos.Errorf("failed to start [%s] : %v", commandName(args), err)
		return shared.ExecutionResult{
			Status:   shared.StatusFatal,
			Output:   stdout,
			Stderr:   stderr,
			ExitCode: exitCode,
			Err:      shared.SubprocessFatalError{Command: args, ExitCode: exitCode, Stderr: stderr, Err: err},
		}
	}

	result := shared.ExecutionResult{
		Status:   Classify(exitCode),
		Output:   stdout,
		Stderr:   stderr,
		ExitCode: exitCode,
	}
	switch result.Status {
	case shared.StatusSuccess:
		sos.Infof("[%s] completed with no blocking findings", commandName(args))
	case shared.StatusFindingsDetected:
		sos.Infof("[%s] reported blocking findings", commandName(args))
		result.Err = shared.ErrFindingsDetected
	default:
		sos.Errorf("[%s] exited with code [%d]", commandName(args), exitCode)
		result.Err = shared.SubprocessFatalError{
			Command:  args,
			ExitCode: exitCode,
			Stderr:   stderr,
			Err:      fmt.Errorf("exit status %d", exitCode),
		}
	}
	return result
}

func commandName(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
