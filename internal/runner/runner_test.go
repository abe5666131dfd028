package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/outofoffice3/common/logger"
	"github.com/outofoffice3/policy-validator-action/internal/shared"
	"github.com/stretchr/testify/assert"
)

// mockCmd records calls and returns a configured result.
type mockCmd struct {
	args     [][]string
	envs     [][]string
	stdout   string
	stderr   string
	exitCode int
	err      error
}

func (m *mockCmd) Run(ctx context.Context, args []string, env []string) (string, string, int, error) {
	m.args = append(m.args, args)
	m.envs = append(m.envs, env)
	return m.stdout, m.stderr, m.exitCode, m.err
}

var testArgs = []string{"cfn-policy-validator", "validate", "--region", "us-east-1"}

func TestClassify(t *testing.T) {
	assertion := assert.New(t)
	assertion.Equal(shared.StatusSuccess, Classify(0))
	assertion.Equal(shared.StatusFindingsDetected, Classify(2))
	for _, code := range []int{1, 3, 127, 255, -1} {
		assertion.Equal(shared.StatusFatal, Classify(code), "code %d", code)
	}
}

func TestExecuteSuccess(t *testing.T) {
	assertion := assert.New(t)

	mock := &mockCmd{stdout: `{"BlockingFindings": []}`}
	r := NewRunner(mock, logger.NewConsoleLogger(logger.LogLevelDebug))
	result := r.Execute(context.Background(), testArgs, []string{"AWS_REGION=us-east-1"})

	assertion.Equal(shared.StatusSuccess, result.Status)
	assertion.Equal(`{"BlockingFindings": []}`, result.Output)
	assertion.NoError(result.Err)
	assertion.Equal([][]string{testArgs}, mock.args)
	assertion.Equal([][]string{{"AWS_REGION=us-east-1"}}, mock.envs)
}

func TestExecuteFindingsDetected(t *testing.T) {
	assertion := assert.New(t)

	mock := &mockCmd{stdout: `{"BlockingFindings": [{"code": "x"}]}`, exitCode: 2}
	r := NewRunner(mock, logger.NewConsoleLogger(logger.LogLevelDebug))
	result := r.Execute(context.Background(), testArgs, nil)

	assertion.Equal(shared.StatusFindingsDetected, result.Status)
	assertion.Equal(`{"BlockingFindings": [{"code": "x"}]}`, result.Output)
	assertion.ErrorIs(result.Err, shared.ErrFindingsDetected)
}

func TestExecuteFatalExitCode(t *testing.T) {
	assertion := assert.New(t)

	mock := &mockCmd{stderr: "Unable to locate credentials\n", exitCode: 1}
	r := NewRunner(mock, logger.NewConsoleLogger(logger.LogLevelDebug))
	result := r.Execute(context.Background(), testArgs, nil)

	assertion.Equal(shared.StatusFatal, result.Status)
	assertion.Equal(1, result.ExitCode)
	var fatal shared.SubprocessFatalError
	assertion.True(errors.As(result.Err, &fatal))
	assertion.Equal(1, fatal.ExitCode)
	assertion.Contains(fatal.Error(), "Unable to locate credentials")
}

func TestExecuteSpawnFailure(t *testing.T) {
	assertion := assert.New(t)

	cause := errors.New("exec: \"cfn-policy-validator\": executable file not found in $PATH")
	mock := &mockCmd{exitCode: -1, err: cause}
	r := NewRunner(mock, logger.NewConsoleLogger(logger.LogLevelDebug))
	result := r.Execute(context.Background(), testArgs, nil)

	assertion.Equal(shared.StatusFatal, result.Status)
	assertion.ErrorIs(result.Err, cause)
}

// TestHelperProcess is not a real test. It stands in for the validator when
// ExecRunner re-executes the test binary.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 2 {
		os.Exit(64)
	}
	switch args[1] {
	case "ok":
		fmt.Fprint(os.Stdout, "{\n  \"BlockingFindings\": []\n}\n")
		os.Exit(0)
	case "findings":
		fmt.Fprint(os.Stdout, `{"BlockingFindings": [{"findingType": "ERROR"}]}`)
		os.Exit(2)
	case "crash":
		fmt.Fprint(os.Stderr, "Traceback: boom")
		os.Exit(3)
	case "env":
		fmt.Fprint(os.Stdout, os.Getenv("AWS_REGION"))
		os.Exit(0)
	}
	os.Exit(64)
}

func helperArgs(mode string) []string {
	return []string{os.Args[0], "-test.run=TestHelperProcess", "--", mode}
}

func helperEnv(extra ...string) []string {
	return append([]string{"GO_WANT_HELPER_PROCESS=1"}, extra...)
}

func TestExecRunner(t *testing.T) {
	assertion := assert.New(t)
	ctx := context.Background()

	var tee bytes.Buffer
	e := &ExecRunner{Stderr: &tee}

	stdout, _, code, err := e.Run(ctx, helperArgs("ok"), helperEnv())
	assertion.NoError(err)
	assertion.Equal(0, code)
	assertion.Contains(stdout, "BlockingFindings")

	stdout, _, code, err = e.Run(ctx, helperArgs("findings"), helperEnv())
	assertion.NoError(err)
	assertion.Equal(2, code)
	assertion.Contains(stdout, "ERROR")

	_, stderr, code, err := e.Run(ctx, helperArgs("crash"), helperEnv())
	assertion.NoError(err)
	assertion.Equal(3, code)
	assertion.Equal("Traceback: boom", stderr)
	assertion.Contains(tee.String(), "Traceback: boom")

	stdout, _, _, err = e.Run(ctx, helperArgs("env"), helperEnv("AWS_REGION=eu-central-1"))
	assertion.NoError(err)
	assertion.Equal("eu-central-1", stdout)
}

func TestExecRunnerSpawnFailure(t *testing.T) {
	assertion := assert.New(t)
	e := &ExecRunner{}

	_, _, code, err := e.Run(context.Background(), []string{"/nonexistent/cfn-policy-validator"}, nil)
	assertion.Error(err)
	assertion.Equal(-1, code)

	_, _, _, err = e.Run(context.Background(), nil, nil)
	assertion.Error(err)
}

func TestExecuteWithExecRunner(t *testing.T) {
	assertion := assert.New(t)

	r := NewRunner(&ExecRunner{}, logger.NewConsoleLogger(logger.LogLevelDebug))
	result := r.Execute(context.Background(), helperArgs("findings"), helperEnv())
	assertion.Equal(shared.StatusFindingsDetected, result.Status)
	assertion.Equal(2, result.ExitCode)
}
