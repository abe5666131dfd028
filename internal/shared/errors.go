package shared

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFindingsDetected is returned after the findings payload was published.
var ErrFindingsDetected = errors.New("policy findings detected")

// selector is outside the closed set of check types
type InvalidCheckTypeError struct {
	Value string
}

func (e InvalidCheckTypeError) Error() string {
	valid := make([]string, 0, len(CheckTypes))
	for _, checkType := range CheckTypes {
		valid = append(valid, string(checkType))
	}
	return fmt.Sprintf("invalid value of policy-check-type: [%s]. valid values are: [%s]", e.Value, strings.Join(valid, ", "))
}

// one or more required inputs are empty or unset
type MissingRequiredInputError struct {
	Keys []InputKey
}

func (e MissingRequiredInputError) Error() string {
	names := make([]string, 0, len(e.Keys))
	for _, key := range e.Keys {
		names = append(names, string(key))
	}
	return "missing value for required field(s): " + strings.Join(names, ", ")
}

// an input holds a value the validator would not accept
type InvalidFlagValueError struct {
	Key    InputKey
	Value  string
	Reason string
}

func (e InvalidFlagValueError) Error() string {
	msg := fmt.Sprintf("invalid value for %s: [%s]", e.Key, e.Value)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

// validator could not be spawned or exited with neither 0 nor 2
type SubprocessFatalError struct {
	Command  []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e SubprocessFatalError) Error() string {
	name := ""
	if len(e.Command) > 0 {
		name = e.Command[0]
	}
	msg := fmt.Sprintf("[%s] failed with exit code %d", name, e.ExitCode)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ", stderr: " + stderr
	}
	return msg
}

func (e SubprocessFatalError) Unwrap() error {
	return e.Err
}

// adapter configuration is unusable
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}

// credential or service reachability check failed
type PreflightError struct {
	Service AwsServiceName
	Message string
}

func (e PreflightError) Error() string {
	if e.Service != "" {
		return "[" + string(e.Service) + "] : " + e.Message
	}
	return e.Message
}

// an s3:// input could not be downloaded
type FetchError struct {
	URI string
	Err error
}

func (e FetchError) Error() string {
	return "fetch [" + e.URI + "] : " + e.Err.Error()
}

func (e FetchError) Unwrap() error {
	return e.Err
}

// writing the step output or archiving the result failed
type PublishError struct {
	Target string
	Err    error
}

func (e PublishError) Error() string {
	return "publish to [" + e.Target + "] : " + e.Err.Error()
}

func (e PublishError) Unwrap() error {
	return e.Err
}

type AwsServiceName string

const (
	S3              AwsServiceName = "s3"
	STS             AwsServiceName = "sts"
	ACCESS_ANALYZER AwsServiceName = "access analyzer"
)
