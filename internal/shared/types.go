package shared

import (
	"strings"
)

type EnvVar string
type InputKey string
type CheckType string
type Status string

const (
	StatusSuccess          Status = "SUCCESS"
	StatusFindingsDetected Status = "FINDINGS_DETECTED"
	StatusFatal            Status = "FATAL"
)

// FlagName converts INPUT_TEMPLATE-PATH into template-path.
func (k InputKey) FlagName() string {
	return strings.ToLower(strings.TrimPrefix(string(k), InputPrefix))
}

// Flag returns the command line form of the input, e.g. --template-path.
func (k InputKey) Flag() string {
	return "--" + k.FlagName()
}

// OperationName returns the cfn-policy-validator subcommand for the check type.
// VALIDATE_POLICY maps to "validate"; the custom checks keep their own name
// hyphenated and lower-cased.
func (c CheckType) OperationName() string {
	if c == ValidatePolicy {
		return "validate"
	}
	return strings.ToLower(strings.ReplaceAll(string(c), "_", "-"))
}

// UsesNonBlockingFlag reports whether --treat-findings-as-non-blocking applies.
func (c CheckType) UsesNonBlockingFlag() bool {
	return c == CheckNoNewAccess || c == CheckAccessNotGranted
}

// FlagPair is a resolved input ready to be placed on the command line.
type FlagPair struct {
	Key   InputKey
	Value string
}

func (f FlagPair) Tokens() []string {
	return []string{f.Key.Flag(), f.Value}
}

// ExecutionResult is the classified outcome of one validator run.
type ExecutionResult struct {
	Status   Status `json:"status"`
	Output   string `json:"output"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exitCode"`
	Err      error  `json:"-"`
}

// InputSource hands out input values by key. Missing keys read as "".
type InputSource interface {
	Input(key InputKey) string
}

// Config is built once at startup and passed to every component.
type Config struct {
	CheckType      string
	OutputPath     string
	ValidatorBin   string
	PreflightCheck string
	RoleToAssume   string
	ArchiveBucket  string
	ArchivePrefix  string
	Inputs         map[InputKey]string
}

// Input returns the value of an input, "" when it is not set.
func (c Config) Input(key InputKey) string {
	if c.Inputs == nil {
		return ""
	}
	return c.Inputs[key]
}

// SetInput overrides a single input value.
func (c *Config) SetInput(key InputKey, value string) {
	if c.Inputs == nil {
		c.Inputs = make(map[InputKey]string)
	}
	c.Inputs[key] = value
}
